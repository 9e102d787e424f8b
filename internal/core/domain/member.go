package domain

import "time"

// Role is the closed set of roles a member can hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole resolves a role string from input into the closed enumeration.
// Unrecognized values are rejected rather than silently defaulted; an empty
// string is left to the caller, which decides whether a default applies.
func ParseRole(s string) (Role, error) {
	switch s {
	case "USER", "ROLE_USER", "user":
		return RoleUser, nil
	case "ADMIN", "ROLE_ADMIN", "admin":
		return RoleAdmin, nil
	default:
		return "", ErrRoleUnknown
	}
}

// Member is the authoritative principal record.
//
// TokenVersion is the revocation counter: a token is only honored while the
// version it was issued with equals the stored value. Incrementing the field
// invalidates every previously issued token for this member without keeping
// a blacklist.
type Member struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Handle            string    `json:"handle"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	PasswordHash      string    `json:"-"`
	Role              Role      `json:"role"`
	TokenVersion      int       `json:"-"`
	PasswordTemporary bool      `json:"password_temporary"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	CreatedBy         string    `json:"created_by,omitempty"`
	UpdatedBy         string    `json:"updated_by,omitempty"`
}

// Principal is the authenticated member attached to a request after the
// token passed signature, expiry, and revocation checks.
type Principal struct {
	ID                string
	Handle            string
	Email             string
	Role              Role
	TokenVersion      int
	PasswordTemporary bool
}

// IsAdmin reports whether the principal holds the administrator role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// PrincipalOf builds the request principal view of a member.
func PrincipalOf(m *Member) *Principal {
	return &Principal{
		ID:                m.ID,
		Handle:            m.Handle,
		Email:             m.Email,
		Role:              m.Role,
		TokenVersion:      m.TokenVersion,
		PasswordTemporary: m.PasswordTemporary,
	}
}
