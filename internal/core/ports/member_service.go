package ports

import (
	"context"

	"github.com/modernmember/member-directory/internal/core/domain"
)

// UpdateMemberInput carries a profile update. Role is the raw role string
// from the request; empty means "leave the role alone".
type UpdateMemberInput struct {
	Name  string
	Email string
	Phone string
	Role  string
}

// MemberService exposes the directory operations. Every method takes the
// acting principal explicitly; there is no ambient "current user" state.
type MemberService interface {
	List(ctx context.Context, actor *domain.Principal) ([]domain.Member, error)
	Get(ctx context.Context, actor *domain.Principal, id string) (*domain.Member, error)
	Update(ctx context.Context, actor *domain.Principal, id string, input UpdateMemberInput) (*domain.Member, error)
	Delete(ctx context.Context, actor *domain.Principal, id string) error
	UpdateRole(ctx context.Context, actor *domain.Principal, id, role string) error
	ChangePassword(ctx context.Context, actor *domain.Principal, id, oldPassword, newPassword string) error
}
