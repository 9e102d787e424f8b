package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/ports"
	"github.com/modernmember/member-directory/internal/core/token"
)

const welcomePassword = "Welcome@123"

func newAuthService(repo *stubMemberRepo) (*AuthService, *stubAuditSink) {
	sink := &stubAuditSink{}
	codec := token.NewCodec("secret", time.Hour)
	return NewAuthService(repo, codec, sink, testLogger(), welcomePassword), sink
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func userMember(t *testing.T, id, handle string) *domain.Member {
	t.Helper()
	return &domain.Member{
		ID:           id,
		Name:         "Test User",
		Handle:       handle,
		Email:        handle + "@example.com",
		Phone:        "+1555000" + id,
		PasswordHash: mustHash(t, "s3cret!!"),
		Role:         domain.RoleUser,
		TokenVersion: 1,
	}
}

func adminMember(t *testing.T, id, handle string) *domain.Member {
	t.Helper()
	m := userMember(t, id, handle)
	m.Role = domain.RoleAdmin
	return m
}

func adminPrincipal() *domain.Principal {
	return &domain.Principal{ID: "admin1", Handle: "root", Role: domain.RoleAdmin}
}

func userPrincipal(id string) *domain.Principal {
	return &domain.Principal{ID: id, Handle: "u-" + id, Role: domain.RoleUser}
}

func registerInput(handle string) ports.RegisterInput {
	return ports.RegisterInput{
		Handle: handle,
		Name:   "New Member",
		Email:  handle + "@example.com",
		Phone:  "+15551234567",
	}
}

func TestAuthService_Register_Defaults(t *testing.T) {
	svc, sink := newAuthService(newStubMemberRepo())

	member, err := svc.Register(context.Background(), nil, registerInput("alice"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if member.Role != domain.RoleUser {
		t.Fatalf("expected default role USER, got %s", member.Role)
	}
	if member.TokenVersion != 1 {
		t.Fatalf("expected token version 1, got %d", member.TokenVersion)
	}
	if !member.PasswordTemporary {
		t.Fatalf("expected temporary password flag set")
	}
	if member.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(welcomePassword)); err != nil {
		t.Fatalf("stored hash does not match welcome password: %v", err)
	}
	if got := sink.actions(); len(got) != 1 || got[0] != domain.AuditMemberRegistered {
		t.Fatalf("unexpected audit trail: %v", got)
	}
}

func TestAuthService_Register_RoleByAdmin(t *testing.T) {
	svc, _ := newAuthService(newStubMemberRepo())

	input := registerInput("bob")
	input.Role = "ADMIN"
	member, err := svc.Register(context.Background(), adminPrincipal(), input)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if member.Role != domain.RoleAdmin {
		t.Fatalf("expected role ADMIN, got %s", member.Role)
	}
}

func TestAuthService_Register_RoleByNonAdminDenied(t *testing.T) {
	svc, _ := newAuthService(newStubMemberRepo())

	input := registerInput("carol")
	input.Role = "ADMIN"
	if _, err := svc.Register(context.Background(), userPrincipal("u1"), input); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	// Anonymous callers cannot assign roles either.
	if _, err := svc.Register(context.Background(), nil, input); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for anonymous, got %v", err)
	}
}

func TestAuthService_Register_UnknownRoleRejected(t *testing.T) {
	svc, _ := newAuthService(newStubMemberRepo())

	input := registerInput("dave")
	input.Role = "SUPERVISOR"
	if _, err := svc.Register(context.Background(), adminPrincipal(), input); !errors.Is(err, domain.ErrRoleUnknown) {
		t.Fatalf("expected ErrRoleUnknown, got %v", err)
	}
}

func TestAuthService_Register_DistinctConflicts(t *testing.T) {
	existing := userMember(t, "m1", "taken")
	existing.Email = "taken@example.com"
	existing.Phone = "+15559990000"
	svc, _ := newAuthService(newStubMemberRepo(existing))

	input := registerInput("taken")
	input.Email = "fresh@example.com"
	input.Phone = "+15551112222"
	if _, err := svc.Register(context.Background(), nil, input); !errors.Is(err, domain.ErrHandleTaken) {
		t.Fatalf("expected ErrHandleTaken, got %v", err)
	}

	input = registerInput("fresh")
	input.Email = "taken@example.com"
	if _, err := svc.Register(context.Background(), nil, input); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	input = registerInput("fresh")
	input.Phone = "+15559990000"
	if _, err := svc.Register(context.Background(), nil, input); !errors.Is(err, domain.ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	member := userMember(t, "m1", "erin")
	repo := newStubMemberRepo(member)
	svc, _ := newAuthService(repo)

	result, err := svc.Login(context.Background(), "erin", "s3cret!!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
	if result.Handle != "erin" || result.Role != domain.RoleUser {
		t.Fatalf("unexpected result: %+v", result)
	}

	// The issued token carries the member's current version.
	codec := token.NewCodec("secret", time.Hour)
	claims, err := codec.Decode(result.Token)
	if err != nil {
		t.Fatalf("decode issued token: %v", err)
	}
	if claims.Subject != "erin" || claims.Version != 1 {
		t.Fatalf("unexpected claims: subject=%s version=%d", claims.Subject, claims.Version)
	}
}

func TestAuthService_Login_DoesNotMutateVersion(t *testing.T) {
	member := userMember(t, "m1", "frank")
	repo := newStubMemberRepo(member)
	svc, _ := newAuthService(repo)

	if _, err := svc.Login(context.Background(), "frank", "s3cret!!"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), "m1")
	if stored.TokenVersion != 1 {
		t.Fatalf("login must not touch token version, got %d", stored.TokenVersion)
	}
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	member := userMember(t, "m1", "grace")
	svc, _ := newAuthService(newStubMemberRepo(member))

	// Wrong password and unknown handle must be indistinguishable.
	_, badPass := svc.Login(context.Background(), "grace", "wrong")
	_, badHandle := svc.Login(context.Background(), "nobody", "wrong")

	if !errors.Is(badPass, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for bad password, got %v", badPass)
	}
	if !errors.Is(badHandle, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for unknown handle, got %v", badHandle)
	}
	if badPass.Error() != badHandle.Error() {
		t.Fatalf("failure messages differ: %q vs %q", badPass, badHandle)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	svc, _ := newAuthService(newStubMemberRepo())

	if _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}
