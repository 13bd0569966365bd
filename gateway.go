package nexusauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/nexuslabs/nexusauth/internal"
	"github.com/nexuslabs/nexusauth/internal/clock"
	"github.com/nexuslabs/nexusauth/validation"
)

// Gateway performs the (simulated) login request. It models a remote
// endpoint: a latency before resolving, server-side re-validation of the
// client gate, and an exact credential match under the selected profile.
//
// Expected failures come back as typed sentinel errors, never panics:
// validation errors, [ErrWrongCredentials], or [ErrConnectionFailed] for
// transport-level faults (context cancellation, deadline expiry, or a
// credential-backend error).
type Gateway struct {
	creds      CredentialRepository
	tokens     TokenSource
	clk        clock.Clock
	latency    time.Duration
	sessionTTL time.Duration
	minPass    int
	emailRE    *regexp.Regexp
}

func newGateway(cfg Config, emailRE *regexp.Regexp, creds CredentialRepository, tokens TokenSource, clk clock.Clock) *Gateway {
	return &Gateway{
		creds:      creds,
		tokens:     tokens,
		clk:        clk,
		latency:    cfg.Gateway.Latency,
		sessionTTL: cfg.Session.Timeout,
		minPass:    cfg.Password.MinLength,
		emailRE:    emailRE,
	}
}

// Login resolves one attempt. Each success constructs a fresh user (new
// opaque ID) and a fresh token; IDs and tokens are never reused.
func (g *Gateway) Login(ctx context.Context, creds Credentials) (*LoginData, error) {
	// Simulated network round-trip. A context cut short here is the
	// transport-fault path.
	if err := g.clk.Sleep(ctx, g.latency); err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	// Server-side re-validation: never assume the client gate was honored.
	if err := validation.Email(creds.Email, g.emailRE); err != nil {
		return nil, err
	}
	if err := validation.Password(creds.Password, g.minPass); err != nil {
		return nil, err
	}

	rec, ok, err := g.creds.Lookup(ctx, creds.Profile)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	if !ok || !match(rec, creds) {
		return nil, ErrWrongCredentials
	}

	display := "Nexus " + creds.Profile.Display()
	user := User{
		ID:          uuid.NewString(),
		Email:       creds.Email,
		DisplayName: display,
		Profile:     creds.Profile,
		AvatarURL:   avatarURL(display),
	}

	token, err := g.tokens.Mint(user, g.sessionTTL)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return &LoginData{
		User:  user,
		Token: token,
		TTL:   g.sessionTTL,
	}, nil
}

// match requires both email and password to equal the record for the
// selected profile. Password comparison is constant time.
func match(rec CredentialRecord, creds Credentials) bool {
	if rec.Email != creds.Email {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(rec.Password), []byte(creds.Password)) == 1
}

func avatarURL(displayName string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=1a2a6c&color=fff",
		url.QueryEscape(displayName))
}

// TokenSource mints the session token returned on a successful login.
type TokenSource interface {
	Mint(user User, ttl time.Duration) (string, error)
}

// opaqueTokens is the default source: prefixed random tokens with no
// decodable structure.
type opaqueTokens struct {
	prefix string
}

func (o opaqueTokens) Mint(User, time.Duration) (string, error) {
	return internal.NewToken(o.prefix)
}
