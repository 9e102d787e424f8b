package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/ports"
)

// MemberService implements the directory operations and the authorization
// policy over them: identity-scoped visibility, admin-or-self modification,
// and the guarantee that at least one administrator always exists.
type MemberService struct {
	repo   ports.MemberRepository
	audit  ports.AuditSink
	logger zerolog.Logger
}

func NewMemberService(repo ports.MemberRepository, audit ports.AuditSink, logger zerolog.Logger) *MemberService {
	return &MemberService{repo: repo, audit: audit, logger: logger}
}

// List returns the directory visible to the actor. Administrators see every
// member; everyone else sees only non-admin members, so admin accounts are
// invisible in regular listings.
func (s *MemberService) List(ctx context.Context, actor *domain.Principal) ([]domain.Member, error) {
	if actor == nil {
		return nil, domain.ErrAccessDenied
	}
	if actor.IsAdmin() {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByRoleNot(ctx, domain.RoleAdmin)
}

// Get returns a single member, admin or self only.
func (s *MemberService) Get(ctx context.Context, actor *domain.Principal, id string) (*domain.Member, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canTouch(actor, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Update modifies a member's profile, admin or self only. Email and phone
// keep their cross-directory uniqueness. A role change folded into the
// update is admin-only, guarded by the last-admin invariant, and bumps
// TokenVersion only when the role actually changes.
func (s *MemberService) Update(ctx context.Context, actor *domain.Principal, id string, input ports.UpdateMemberInput) (*domain.Member, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canTouch(actor, member); err != nil {
		return nil, err
	}

	if input.Email != member.Email {
		if taken, err := s.repo.ExistsByEmail(ctx, input.Email); err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		} else if taken {
			return nil, domain.ErrEmailTaken
		}
	}
	if input.Phone != member.Phone {
		if taken, err := s.repo.ExistsByPhone(ctx, input.Phone); err != nil {
			return nil, fmt.Errorf("check phone: %w", err)
		} else if taken {
			return nil, domain.ErrPhoneTaken
		}
	}

	roleChanged := false
	if input.Role != "" {
		newRole, err := domain.ParseRole(input.Role)
		if err != nil {
			return nil, err
		}
		if newRole != member.Role {
			if !actor.IsAdmin() {
				return nil, domain.ErrAccessDenied
			}
			if err := s.guardLastAdmin(ctx, member, newRole); err != nil {
				return nil, err
			}
			member.Role = newRole
			member.TokenVersion++
			roleChanged = true
		}
	}

	member.Name = input.Name
	member.Email = input.Email
	member.Phone = input.Phone
	member.UpdatedAt = time.Now().UTC()
	member.UpdatedBy = actorName(actor)

	updated, err := s.repo.Save(ctx, member)
	if err != nil {
		return nil, err
	}

	action := domain.AuditMemberUpdated
	if roleChanged {
		action = domain.AuditRoleChanged
	}
	s.audit.Submit(domain.AuditEvent{
		SubjectID:  updated.ID,
		Actor:      actorName(actor),
		Action:     action,
		Detail:     string(updated.Role),
		OccurredAt: updated.UpdatedAt,
	})

	return updated, nil
}

// Delete removes a member, admin or self only. The last-admin guard applies
// regardless of actor: even an administrator deleting themselves is rejected
// when they are the only one left.
func (s *MemberService) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := canTouch(actor, member); err != nil {
		return err
	}

	if member.Role == domain.RoleAdmin {
		count, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if count <= 1 {
			return domain.ErrLastAdmin
		}
	}

	if err := s.repo.Delete(ctx, member.ID); err != nil {
		return err
	}

	s.audit.Submit(domain.AuditEvent{
		SubjectID:  member.ID,
		Actor:      actorName(actor),
		Action:     domain.AuditMemberDeleted,
		OccurredAt: time.Now().UTC(),
	})
	s.logger.Info().Str("member_id", member.ID).Str("actor", actorName(actor)).Msg("member deleted")

	return nil
}

// UpdateRole is the dedicated administrative role assignment. It always
// bumps TokenVersion — even when the assigned role equals the current one —
// because this path is an explicit override that forces re-authentication.
// The last-admin guard applies the same as on the profile-update path.
func (s *MemberService) UpdateRole(ctx context.Context, actor *domain.Principal, id, role string) error {
	if !actor.IsAdmin() {
		return domain.ErrAccessDenied
	}

	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	newRole, err := domain.ParseRole(role)
	if err != nil {
		return err
	}

	if err := s.guardLastAdmin(ctx, member, newRole); err != nil {
		return err
	}

	member.Role = newRole
	member.TokenVersion++
	member.UpdatedAt = time.Now().UTC()
	member.UpdatedBy = actorName(actor)

	if _, err := s.repo.Save(ctx, member); err != nil {
		return err
	}

	s.audit.Submit(domain.AuditEvent{
		SubjectID:  member.ID,
		Actor:      actorName(actor),
		Action:     domain.AuditRoleChanged,
		Detail:     string(newRole),
		OccurredAt: member.UpdatedAt,
	})
	s.logger.Info().Str("member_id", member.ID).Str("role", string(newRole)).Msg("role updated, sessions invalidated")

	return nil
}

// ChangePassword rotates the member's own credential. Strictly self-service:
// even an administrator cannot change someone else's password here. The old
// secret must verify; on success the version bump revokes all outstanding
// tokens and the temporary-password flag is cleared.
func (s *MemberService) ChangePassword(ctx context.Context, actor *domain.Principal, id, oldPassword, newPassword string) error {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if actor == nil || actor.ID != member.ID {
		return domain.ErrAccessDenied
	}

	if !verifyPassword(oldPassword, member.PasswordHash) {
		return domain.ErrAccessDenied
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	member.PasswordHash = hash
	member.TokenVersion++
	member.PasswordTemporary = false
	member.UpdatedAt = time.Now().UTC()
	member.UpdatedBy = actorName(actor)

	if _, err := s.repo.Save(ctx, member); err != nil {
		return err
	}

	s.audit.Submit(domain.AuditEvent{
		SubjectID:  member.ID,
		Actor:      actorName(actor),
		Action:     domain.AuditPasswordChanged,
		OccurredAt: member.UpdatedAt,
	})

	return nil
}

// guardLastAdmin rejects a demotion that would leave the directory without
// an administrator. Check-then-act: the count and the write are not atomic
// against the store, which is acceptable given how rarely admin counts
// change; the unique authoritative store keeps the window small.
func (s *MemberService) guardLastAdmin(ctx context.Context, target *domain.Member, newRole domain.Role) error {
	if target.Role != domain.RoleAdmin || newRole == domain.RoleAdmin {
		return nil
	}
	count, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count <= 1 {
		return domain.ErrLastAdmin
	}
	return nil
}

// canTouch is the shared view/modify rule: administrators may touch anyone,
// everyone else only themselves.
func canTouch(actor *domain.Principal, target *domain.Member) error {
	if actor == nil {
		return domain.ErrAccessDenied
	}
	if actor.IsAdmin() || actor.ID == target.ID {
		return nil
	}
	return domain.ErrAccessDenied
}
