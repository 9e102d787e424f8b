package ports

import (
	"context"

	"github.com/modernmember/member-directory/internal/core/domain"
)

// RegisterInput carries a registration request. Role is the raw role string
// from the request body; empty means "default to USER". A non-empty role is
// honored only when the acting principal is an administrator.
type RegisterInput struct {
	Handle string
	Name   string
	Email  string
	Phone  string
	Role   string
}

// LoginResult is the principal summary returned alongside a freshly issued
// token, for client display.
type LoginResult struct {
	Token             string
	ID                string
	Handle            string
	Email             string
	Role              domain.Role
	PasswordTemporary bool
}

type AuthService interface {
	Login(ctx context.Context, handle, password string) (*LoginResult, error)
	Register(ctx context.Context, actor *domain.Principal, input RegisterInput) (*domain.Member, error)
}
