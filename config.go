package nexusauth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/nexuslabs/nexusauth/session"
	"github.com/nexuslabs/nexusauth/validation"
)

// Config collects every knob the controller recognizes. Zero values are
// filled with defaults at Build time, so callers only set what they change.
type Config struct {
	Session  SessionConfig
	Password PasswordConfig
	Gateway  GatewayConfig
	UI       UIConfig
	Events   EventsConfig
}

// SessionConfig governs the persisted session slot.
type SessionConfig struct {
	// Timeout is the granted session lifetime. Default 30m.
	Timeout time.Duration
	// StorageKey is the well-known Redis key holding the slot. Part of the
	// external contract; default "nexus_session".
	StorageKey string
}

// PasswordConfig governs the local password policy.
type PasswordConfig struct {
	// MinLength is the password length floor. Default 8.
	MinLength int
}

// GatewayConfig governs the simulated login round-trip.
type GatewayConfig struct {
	// Latency is the simulated network delay before a login resolves.
	// DefaultConfig sets 1.5s; an explicit zero is honored as no delay, so
	// it is the one knob normalization never back-fills.
	Latency time.Duration
	// TokenPrefix prefixes opaque tokens. Default "nexus_".
	TokenPrefix string
	// EmailPattern is the RFC-lite email shape, applied both at the local
	// gate and server-side in the gateway.
	EmailPattern string
}

// UIConfig holds the timing contract with the presentation layer.
type UIConfig struct {
	// SuccessRedirectDelay is how long after a success notification the
	// navigate intent fires. Default 2s.
	SuccessRedirectDelay time.Duration
	// FieldErrorClear bounds the error decoration after a failed attempt;
	// clear events fire automatically when it elapses. Default 3s.
	FieldErrorClear time.Duration
	// NotificationDisplay is the advisory display duration stamped on
	// notification events. Default 5s.
	NotificationDisplay time.Duration
}

// EventsConfig sizes the outbound event dispatcher.
type EventsConfig struct {
	// BufferSize is the dispatch queue depth. Default 64.
	BufferSize int
	// DropIfFull drops events instead of blocking the emitter when the
	// queue is full. Dropped events are counted, never silently lost.
	DropIfFull bool
}

const (
	defaultSessionTimeout       = 30 * time.Minute
	defaultGatewayLatency       = 1500 * time.Millisecond
	defaultTokenPrefix          = "nexus_"
	defaultSuccessRedirectDelay = 2 * time.Second
	defaultFieldErrorClear      = 3 * time.Second
	defaultNotificationDisplay  = 5 * time.Second
	defaultEventBuffer          = 64
)

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Timeout:    defaultSessionTimeout,
			StorageKey: session.DefaultKey,
		},
		Password: PasswordConfig{
			MinLength: validation.DefaultMinLength,
		},
		Gateway: GatewayConfig{
			Latency:      defaultGatewayLatency,
			TokenPrefix:  defaultTokenPrefix,
			EmailPattern: validation.DefaultEmailPattern,
		},
		UI: UIConfig{
			SuccessRedirectDelay: defaultSuccessRedirectDelay,
			FieldErrorClear:      defaultFieldErrorClear,
			NotificationDisplay:  defaultNotificationDisplay,
		},
		Events: EventsConfig{
			BufferSize: defaultEventBuffer,
		},
	}
}

// normalizeConfig fills zero values with defaults. Negative durations are
// left for validateConfig to reject.
func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Session.Timeout == 0 {
		cfg.Session.Timeout = def.Session.Timeout
	}
	if cfg.Session.StorageKey == "" {
		cfg.Session.StorageKey = def.Session.StorageKey
	}
	if cfg.Password.MinLength == 0 {
		cfg.Password.MinLength = def.Password.MinLength
	}
	if cfg.Gateway.TokenPrefix == "" {
		cfg.Gateway.TokenPrefix = def.Gateway.TokenPrefix
	}
	if cfg.Gateway.EmailPattern == "" {
		cfg.Gateway.EmailPattern = def.Gateway.EmailPattern
	}
	if cfg.UI.SuccessRedirectDelay == 0 {
		cfg.UI.SuccessRedirectDelay = def.UI.SuccessRedirectDelay
	}
	if cfg.UI.FieldErrorClear == 0 {
		cfg.UI.FieldErrorClear = def.UI.FieldErrorClear
	}
	if cfg.UI.NotificationDisplay == 0 {
		cfg.UI.NotificationDisplay = def.UI.NotificationDisplay
	}
	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = def.Events.BufferSize
	}
	return cfg
}

// validateConfig rejects configurations the controller cannot honor and
// compiles the email pattern.
func validateConfig(cfg Config) (*regexp.Regexp, error) {
	if cfg.Session.Timeout <= 0 {
		return nil, errors.New("session timeout must be positive")
	}
	if cfg.Password.MinLength < 1 {
		return nil, errors.New("password min length must be at least 1")
	}
	if cfg.Gateway.Latency < 0 {
		return nil, errors.New("gateway latency must not be negative")
	}
	if cfg.UI.SuccessRedirectDelay < 0 || cfg.UI.FieldErrorClear < 0 || cfg.UI.NotificationDisplay < 0 {
		return nil, errors.New("ui delays must not be negative")
	}
	if cfg.Events.BufferSize < 1 {
		return nil, errors.New("event buffer size must be at least 1")
	}
	re, err := regexp.Compile(cfg.Gateway.EmailPattern)
	if err != nil {
		return nil, fmt.Errorf("email pattern: %w", err)
	}
	return re, nil
}
