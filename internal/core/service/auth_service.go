package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/ports"
	"github.com/modernmember/member-directory/internal/core/token"
)

// AuthService implements login and registration.
type AuthService struct {
	repo            ports.MemberRepository
	codec           *token.Codec
	audit           ports.AuditSink
	logger          zerolog.Logger
	defaultPassword string
}

// NewAuthService wires the authentication flow. defaultPassword is the
// temporary welcome secret assigned to newly registered members; they keep
// PasswordTemporary=true until they change it.
func NewAuthService(repo ports.MemberRepository, codec *token.Codec, audit ports.AuditSink, logger zerolog.Logger, defaultPassword string) *AuthService {
	return &AuthService{
		repo:            repo,
		codec:           codec,
		audit:           audit,
		logger:          logger,
		defaultPassword: defaultPassword,
	}
}

// Login verifies the handle/password pair and issues a token. Unknown handle
// and wrong password collapse into the same generic failure so that login
// never discloses whether a handle exists. Login does not mutate the store;
// in particular it never touches TokenVersion.
func (s *AuthService) Login(ctx context.Context, handle, password string) (*ports.LoginResult, error) {
	if handle == "" || password == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	member, err := s.repo.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			s.audit.Submit(domain.AuditEvent{
				SubjectID:  handle,
				Actor:      "anonymous",
				Action:     domain.AuditLoginFailed,
				Detail:     "unknown handle",
				OccurredAt: time.Now().UTC(),
			})
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("find member: %w", err)
	}

	if !verifyPassword(password, member.PasswordHash) {
		s.audit.Submit(domain.AuditEvent{
			SubjectID:  member.ID,
			Actor:      member.Handle,
			Action:     domain.AuditLoginFailed,
			Detail:     "bad password",
			OccurredAt: time.Now().UTC(),
		})
		return nil, domain.ErrAuthenticationFailed
	}

	signed, err := s.codec.Issue(member)
	if err != nil {
		return nil, err
	}

	s.audit.Submit(domain.AuditEvent{
		SubjectID:  member.ID,
		Actor:      member.Handle,
		Action:     domain.AuditLoginSucceeded,
		OccurredAt: time.Now().UTC(),
	})
	s.logger.Info().Str("handle", member.Handle).Str("role", string(member.Role)).Msg("login succeeded")

	return &ports.LoginResult{
		Token:             signed,
		ID:                member.ID,
		Handle:            member.Handle,
		Email:             member.Email,
		Role:              member.Role,
		PasswordTemporary: member.PasswordTemporary,
	}, nil
}

// Register creates a member. Handle, email, and phone uniqueness are checked
// independently and reported as distinct conflicts. The role field defaults
// to USER when empty; a non-empty role requires an ADMIN actor and must name
// a known role — unrecognized strings are rejected, never defaulted.
func (s *AuthService) Register(ctx context.Context, actor *domain.Principal, input ports.RegisterInput) (*domain.Member, error) {
	role := domain.RoleUser
	if input.Role != "" {
		if !actor.IsAdmin() {
			return nil, domain.ErrAccessDenied
		}
		parsed, err := domain.ParseRole(input.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	if taken, err := s.repo.ExistsByHandle(ctx, input.Handle); err != nil {
		return nil, fmt.Errorf("check handle: %w", err)
	} else if taken {
		return nil, domain.ErrHandleTaken
	}
	if taken, err := s.repo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, domain.ErrEmailTaken
	}
	if taken, err := s.repo.ExistsByPhone(ctx, input.Phone); err != nil {
		return nil, fmt.Errorf("check phone: %w", err)
	} else if taken {
		return nil, domain.ErrPhoneTaken
	}

	hash, err := hashPassword(s.defaultPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member := &domain.Member{
		ID:                uuid.NewString(),
		Name:              input.Name,
		Handle:            input.Handle,
		Email:             input.Email,
		Phone:             input.Phone,
		PasswordHash:      hash,
		Role:              role,
		TokenVersion:      1,
		PasswordTemporary: true,
		CreatedAt:         now,
		UpdatedAt:         now,
		CreatedBy:         actorName(actor),
		UpdatedBy:         actorName(actor),
	}

	created, err := s.repo.Save(ctx, member)
	if err != nil {
		return nil, err
	}

	s.audit.Submit(domain.AuditEvent{
		SubjectID:  created.ID,
		Actor:      actorName(actor),
		Action:     domain.AuditMemberRegistered,
		Detail:     string(created.Role),
		OccurredAt: now,
	})
	s.logger.Info().Str("handle", created.Handle).Str("role", string(created.Role)).Msg("member registered")

	return created, nil
}

func actorName(p *domain.Principal) string {
	if p == nil {
		return "anonymous"
	}
	return p.Handle
}
