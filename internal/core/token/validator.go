package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/modernmember/member-directory/internal/core/domain"
	"github.com/modernmember/member-directory/internal/core/ports"
)

// Validator combines token decoding with the live revocation check against
// the identity store. One store lookup per validated request.
type Validator struct {
	codec *Codec
	repo  ports.MemberRepository
}

func NewValidator(codec *Codec, repo ports.MemberRepository) *Validator {
	return &Validator{codec: codec, repo: repo}
}

// Authenticate resolves a raw bearer token to a principal.
//
//	(nil, nil)                     no token present, anonymous
//	(nil, ErrTokenInvalid/Expired) decode failure
//	(nil, ErrMemberNotFound)       subject no longer exists
//	(nil, ErrSessionRevoked)       stored version differs from the claim
//	(nil, other)                   store infrastructure failure; must be
//	                               surfaced, never treated as anonymous
//	(principal, nil)               authenticated
func (v *Validator) Authenticate(ctx context.Context, raw string) (*domain.Principal, error) {
	if raw == "" {
		return nil, nil
	}

	claims, err := v.codec.Decode(raw)
	if err != nil {
		return nil, err
	}

	member, err := v.repo.FindByHandle(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup subject %q: %w", claims.Subject, err)
	}

	if claims.Version != member.TokenVersion {
		return nil, domain.ErrSessionRevoked
	}

	return domain.PrincipalOf(member), nil
}
