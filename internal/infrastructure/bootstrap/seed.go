// Package bootstrap seeds the identity store on first boot so that the
// at-least-one-administrator invariant holds before any request is served.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/ports"
	"github.com/modernmember/member-directory/internal/infrastructure/config"
)

// EnsureAdmin creates the super-admin account when the store holds no
// members. Idempotent: a non-empty store is left untouched.
func EnsureAdmin(ctx context.Context, repo ports.MemberRepository, cfg config.AuthConfig, log zerolog.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if n > 0 {
		return nil
	}

	log.Info().Msg("no members found, initializing super admin account")

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.Member{
		ID:                uuid.NewString(),
		Name:              "System Administrator",
		Handle:            cfg.BootstrapHandle,
		Email:             cfg.BootstrapEmail,
		Phone:             cfg.BootstrapPhone,
		PasswordHash:      string(hash),
		Role:              domain.RoleAdmin,
		TokenVersion:      1,
		PasswordTemporary: false,
		CreatedAt:         now,
		UpdatedAt:         now,
		CreatedBy:         "system",
		UpdatedBy:         "system",
	}

	if _, err := repo.Save(ctx, admin); err != nil {
		return fmt.Errorf("save super admin: %w", err)
	}

	log.Info().Str("handle", admin.Handle).Msg("super admin initialized")
	return nil
}
