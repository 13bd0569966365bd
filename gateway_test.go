package nexusauth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nexuslabs/nexusauth/internal/clock"
	"github.com/nexuslabs/nexusauth/validation"
)

func newTestGateway(t *testing.T, mutate func(*Config)) (*Gateway, *clock.Mock) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Gateway.Latency = 0
	if mutate != nil {
		mutate(&cfg)
	}
	emailRE, err := validateConfig(normalizeConfig(cfg))
	if err != nil {
		t.Fatalf("config invalid: %v", err)
	}

	clk := clock.NewMock(time.Unix(1_700_000_000, 0))
	g := newGateway(cfg, emailRE, DefaultCredentials(), opaqueTokens{prefix: cfg.Gateway.TokenPrefix}, clk)
	return g, clk
}

func studentCreds() Credentials {
	return Credentials{Email: studentEmail, Password: studentPassword, Profile: ProfileStudent}
}

func TestGatewaySuccess(t *testing.T) {
	g, _ := newTestGateway(t, nil)

	data, err := g.Login(context.Background(), studentCreds())
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if data.User.ID == "" {
		t.Fatal("user ID empty")
	}
	if data.User.Email != studentEmail || data.User.Profile != ProfileStudent {
		t.Fatalf("user = %+v", data.User)
	}
	if data.User.DisplayName != "Nexus Student" {
		t.Fatalf("display name = %q", data.User.DisplayName)
	}
	if !strings.Contains(data.User.AvatarURL, "name=Nexus+Student") {
		t.Fatalf("avatar url = %q", data.User.AvatarURL)
	}
	if !strings.HasPrefix(data.Token, "nexus_") {
		t.Fatalf("token = %q, want nexus_ prefix", data.Token)
	}
	if data.TTL != 30*time.Minute {
		t.Fatalf("ttl = %v", data.TTL)
	}
}

func TestGatewayMintsFreshIdentityPerCall(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	ctx := context.Background()

	first, err := g.Login(ctx, studentCreds())
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	second, err := g.Login(ctx, studentCreds())
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if first.User.ID == second.User.ID {
		t.Fatal("user IDs reused across logins")
	}
	if first.Token == second.Token {
		t.Fatal("tokens reused across logins")
	}
}

func TestGatewayWrongCredentials(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	ctx := context.Background()

	cases := []Credentials{
		{Email: studentEmail, Password: "wrongpassword", Profile: ProfileStudent},
		{Email: "nobody@university.edu", Password: studentPassword, Profile: ProfileStudent},
		// Correct pair under the wrong profile.
		{Email: studentEmail, Password: studentPassword, Profile: ProfileCompany},
		// Unknown profile has no credential record at all.
		{Email: studentEmail, Password: studentPassword, Profile: ProfileKind("alumni")},
	}
	for _, creds := range cases {
		if _, err := g.Login(ctx, creds); !errors.Is(err, ErrWrongCredentials) {
			t.Fatalf("Login(%+v) = %v, want ErrWrongCredentials", creds, err)
		}
	}
}

func TestGatewayServerSideValidation(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	ctx := context.Background()

	// The gateway re-checks even though the controller gates first.
	if _, err := g.Login(ctx, Credentials{Email: "foo", Password: studentPassword, Profile: ProfileStudent}); !errors.Is(err, validation.ErrEmailFormat) {
		t.Fatalf("bad email = %v", err)
	}
	if _, err := g.Login(ctx, Credentials{Email: studentEmail, Password: "short", Profile: ProfileStudent}); !errors.Is(err, validation.ErrPasswordTooShort) {
		t.Fatalf("short password = %v", err)
	}
}

func TestGatewayCancelledDuringLatency(t *testing.T) {
	g, clk := newTestGateway(t, func(cfg *Config) {
		cfg.Gateway.Latency = time.Second
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := g.Login(ctx, studentCreds())
		done <- err
	}()
	waitSleeper(t, clk)

	cancel()
	if err := <-done; !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("cancelled Login = %v, want ErrConnectionFailed", err)
	}
}

func TestGatewayRepositoryFault(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	g.creds = &countingRepo{err: errors.New("backend down")}

	if _, err := g.Login(context.Background(), studentCreds()); !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("repo fault = %v, want ErrConnectionFailed", err)
	}
}

func TestJWTTokenSourceRoundTrip(t *testing.T) {
	clk := clock.NewMock(time.Unix(1_700_000_000, 0))
	src, err := NewJWTTokenSource([]byte("test-secret"), clk)
	if err != nil {
		t.Fatalf("NewJWTTokenSource failed: %v", err)
	}

	user := User{ID: "u-1", Email: studentEmail, Profile: ProfileStudent}
	token, err := src.Mint(user, 30*time.Minute)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	claims, err := src.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != "u-1" || claims.Email != studentEmail || claims.Profile != ProfileStudent {
		t.Fatalf("claims = %+v", claims)
	}

	// Token honors its expiry under the same clock.
	clk.Advance(31 * time.Minute)
	if _, err := src.Verify(token); err == nil {
		t.Fatal("expired token verified")
	}
}

func TestJWTTokenSourceRejectsForeignSecret(t *testing.T) {
	clk := clock.NewMock(time.Unix(1_700_000_000, 0))
	src, err := NewJWTTokenSource([]byte("secret-a"), clk)
	if err != nil {
		t.Fatalf("NewJWTTokenSource failed: %v", err)
	}
	other, err := NewJWTTokenSource([]byte("secret-b"), clk)
	if err != nil {
		t.Fatalf("NewJWTTokenSource failed: %v", err)
	}

	token, err := src.Mint(User{ID: "u-1"}, time.Minute)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if _, err := other.Verify(token); err == nil {
		t.Fatal("token verified under a different secret")
	}

	if _, err := NewJWTTokenSource(nil, clk); err == nil {
		t.Fatal("empty secret accepted")
	}
}

func TestGatewayThroughJWTSource(t *testing.T) {
	// Wire a JWT source through the builder to make sure the controller
	// path accepts minted tokens end to end.
	mrClk := clock.NewMock(time.Unix(1_700_000_000, 0))
	src, err := NewJWTTokenSource([]byte("builder-secret"), mrClk)
	if err != nil {
		t.Fatalf("NewJWTTokenSource failed: %v", err)
	}

	_, rdb := newTestRedis(t)
	cfg := DefaultConfig()
	cfg.Gateway.Latency = 0
	ctrl, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithClock(mrClk).
		WithTokenSource(src).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer ctrl.Close()

	ctrl.SelectProfile(ProfileStudent)
	if err := ctrl.Submit(context.Background(), studentEmail, studentPassword); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
}
