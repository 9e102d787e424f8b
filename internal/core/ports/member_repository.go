package ports

import (
	"context"

	"github.com/modernmember/member-directory/internal/core/domain"
)

// MemberRepository is the identity store contract. Implementations must
// return domain.ErrMemberNotFound for missing records and the distinct
// conflict sentinels for uniqueness violations; any other error is treated
// as an infrastructure failure by callers.
type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Member, error)
	FindByHandle(ctx context.Context, handle string) (*domain.Member, error)
	FindAll(ctx context.Context) ([]domain.Member, error)
	FindByRoleNot(ctx context.Context, role domain.Role) ([]domain.Member, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, member *domain.Member) (*domain.Member, error)
	Delete(ctx context.Context, id string) error
}
