package domain

import "errors"

// Sentinel errors for the auth and membership core. The API layer maps each
// one to a deterministic HTTP status; nothing here leaks whether a handle
// exists or which half of a credential pair was wrong.
var (
	// ErrAuthenticationFailed covers both unknown handle and bad secret at
	// login. Deliberately generic.
	ErrAuthenticationFailed = errors.New("invalid handle or password")

	// ErrTokenInvalid covers malformed tokens, signature mismatches, and
	// unsupported signing algorithms.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenExpired means the token decoded cleanly but its expiry passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrSessionRevoked means the token was valid but its embedded version
	// no longer matches the member's current token version.
	ErrSessionRevoked = errors.New("session revoked")

	ErrMemberNotFound = errors.New("member not found")

	// Uniqueness conflicts are reported independently per field.
	ErrHandleTaken = errors.New("handle already taken")
	ErrEmailTaken  = errors.New("email already registered")
	ErrPhoneTaken  = errors.New("phone number already registered")

	ErrAccessDenied = errors.New("access denied")

	// ErrLastAdmin guards the structural invariant that at least one
	// administrator always exists.
	ErrLastAdmin = errors.New("operation would remove the last administrator")

	ErrRoleUnknown = errors.New("unknown role, available roles are USER and ADMIN")
)
