// Package token implements issuance, decoding, and revocation-aware
// validation of the bearer tokens used by the membership directory.
//
// Tokens are HS256-signed JWTs carrying the member's handle as subject plus
// a role claim and a version claim. Revocation is stateless: the version is
// compared against the member record on every validation, so bumping the
// stored TokenVersion invalidates all outstanding tokens at once.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/modernmember/member-directory/internal/core/domain"
)

// Claims is the payload embedded in every issued token.
type Claims struct {
	Role    domain.Role `json:"role"`
	Version int         `json:"version"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a process-wide symmetric key. The key
// is fixed at construction and never mutated afterwards.
type Codec struct {
	key []byte
	ttl time.Duration
}

const defaultTTL = 24 * time.Hour

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{key: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for the member, embedding the member's
// current token version. Issuance never touches the store.
func (c *Codec) Issue(m *domain.Member) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role:    m.Role,
		Version: m.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   m.Handle,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the embedded claims.
// Failures are classified: expiry maps to domain.ErrTokenExpired, everything
// else (malformed, bad signature, wrong algorithm, empty input) to
// domain.ErrTokenInvalid with the specific cause wrapped in the message.
func (c *Codec) Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrTokenInvalid)
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.key, nil
	})
	if err != nil {
		return nil, classifyDecodeError(err)
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func classifyDecodeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: malformed", domain.ErrTokenInvalid)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: bad signature", domain.ErrTokenInvalid)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: unsupported algorithm", domain.ErrTokenInvalid)
	default:
		return fmt.Errorf("%w: %s", domain.ErrTokenInvalid, err)
	}
}
