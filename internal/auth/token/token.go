package token

import (
	"errors"
	"time"

	"campus-portal/internal/auth"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long a minted session token stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for every validation failure. Expired,
// tampered and malformed tokens are deliberately indistinguishable to
// callers.
var ErrInvalidToken = errors.New("token: invalid or expired")

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID int64     `json:"user_id"`
	Email  string    `json:"email"`
	Role   auth.Role `json:"role"`
}

// Codec mints and validates signed session tokens. The token embeds the
// full identity, so there is no server-side session table.
type Codec struct {
	secret []byte
	ttl    time.Duration

	// now is swappable for tests.
	now func() time.Time
}

func New(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Mint produces a signed token carrying the identity, expiring after the
// codec's TTL.
func (c *Codec) Mint(identity auth.Identity) (string, error) {
	now := c.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// TTL returns the validity window applied to minted tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Validate verifies signature and expiry and returns the embedded
// identity. Any failure yields ErrInvalidToken.
func (c *Codec) Validate(tokenStr string) (auth.Identity, error) {
	var claims sessionClaims

	tok, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil || !tok.Valid {
		return auth.Identity{}, ErrInvalidToken
	}

	return auth.Identity{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
