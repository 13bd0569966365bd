package nexusauth

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/nexuslabs/nexusauth/internal/clock"
	"github.com/nexuslabs/nexusauth/session"
)

// Builder assembles a Controller. Construction is allocation-only until
// Build, which wires the collaborators and performs the one startup I/O:
// restoring an existing unexpired session.
type Builder struct {
	config Config
	redis  *redis.Client
	creds  CredentialRepository
	tokens TokenSource
	sink   EventSink
	clk    clock.Clock

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration. Zero fields are filled
// with defaults at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the client backing the session store. Required.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithCredentials replaces the credential table behind the gateway.
// Defaults to DefaultCredentials.
func (b *Builder) WithCredentials(repo CredentialRepository) *Builder {
	b.creds = repo
	return b
}

// WithTokenSource replaces the session token minter. Defaults to opaque
// random tokens with the configured prefix.
func (b *Builder) WithTokenSource(src TokenSource) *Builder {
	b.tokens = src
	return b
}

// WithEventSink sets where outbound events go. Defaults to NoOpSink.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	return b
}

// WithClock substitutes the time source, enabling deterministic tests.
func (b *Builder) WithClock(clk clock.Clock) *Builder {
	b.clk = clk
	return b
}

// Build validates the configuration, wires the collaborators, restores any
// persisted session, and returns the ready Controller. A Builder builds at
// most once.
func (b *Builder) Build() (*Controller, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := normalizeConfig(b.config)
	emailRE, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	clk := b.clk
	if clk == nil {
		clk = clock.System()
	}
	creds := b.creds
	if creds == nil {
		creds = DefaultCredentials()
	}
	tokens := b.tokens
	if tokens == nil {
		tokens = opaqueTokens{prefix: cfg.Gateway.TokenPrefix}
	}

	c := &Controller{
		cfg:      cfg,
		emailRE:  emailRE,
		store:    session.NewStore(b.redis, cfg.Session.StorageKey, clk),
		events:   newEventDispatcher(cfg.Events, b.sink),
		metrics:  newMetrics(),
		clk:      clk,
		profile:  ProfileCompany,
		timer:    newSessionTimer(clk),
		uiTimers: make(map[uint64]clock.Timer),
	}
	c.gateway = newGateway(cfg, emailRE, creds, tokens, clk)

	c.restore(context.Background())

	return c, nil
}
