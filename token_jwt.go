package nexusauth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nexuslabs/nexusauth/internal/clock"
)

// JWTTokenSource mints HS256-signed session tokens instead of opaque
// random ones. The token stays opaque to the presentation layer; signing
// lets a future real backend verify sessions statelessly.
type JWTTokenSource struct {
	secret []byte
	clk    clock.Clock
}

// NewJWTTokenSource builds a source signing with secret. An empty secret
// is refused; predictable tokens defeat the session model.
func NewJWTTokenSource(secret []byte, clk clock.Clock) (*JWTTokenSource, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret required")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &JWTTokenSource{secret: secret, clk: clk}, nil
}

// SessionClaims is the payload of a JWT session token.
type SessionClaims struct {
	Email   string      `json:"email"`
	Profile ProfileKind `json:"profile"`
	jwt.RegisteredClaims
}

func (s *JWTTokenSource) Mint(user User, ttl time.Duration) (string, error) {
	now := s.clk.Now()
	claims := SessionClaims{
		Email:   user.Email,
		Profile: user.Profile,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses a token minted by this source and returns its subject,
// email, and profile. Used by tests and by backends that want to check a
// restored session token.
func (s *JWTTokenSource) Verify(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clk.Now))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
