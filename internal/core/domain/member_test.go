package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"USER", RoleUser},
		{"ROLE_USER", RoleUser},
		{"user", RoleUser},
		{"ADMIN", RoleAdmin},
		{"ROLE_ADMIN", RoleAdmin},
		{"admin", RoleAdmin},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if err != nil {
			t.Errorf("ParseRole(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseRole_Unknown(t *testing.T) {
	for _, in := range []string{"", "SUPERVISOR", "Admin", "USER "} {
		if _, err := ParseRole(in); !errors.Is(err, ErrRoleUnknown) {
			t.Errorf("ParseRole(%q) = %v, want ErrRoleUnknown", in, err)
		}
	}
}

func TestPrincipal_IsAdmin(t *testing.T) {
	var nilPrincipal *Principal
	if nilPrincipal.IsAdmin() {
		t.Fatal("nil principal must not be admin")
	}
	if (&Principal{Role: RoleUser}).IsAdmin() {
		t.Fatal("USER must not be admin")
	}
	if !(&Principal{Role: RoleAdmin}).IsAdmin() {
		t.Fatal("ADMIN must be admin")
	}
}
