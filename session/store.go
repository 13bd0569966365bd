package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexuslabs/nexusauth/internal/clock"
)

// DefaultKey is the well-known storage key for the session slot.
const DefaultKey = "nexus_session"

// ErrRedisUnavailable wraps transport-level Redis failures so callers can
// distinguish them from an absent record.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Store persists at most one Record per client. All methods are safe for
// concurrent use; the slot semantics are last-writer-wins.
type Store struct {
	rdb *redis.Client
	key string
	clk clock.Clock
}

// NewStore builds a Store around rdb. key falls back to DefaultKey and clk
// to the system clock.
func NewStore(rdb *redis.Client, key string, clk clock.Clock) *Store {
	if key == "" {
		key = DefaultKey
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Store{rdb: rdb, key: key, clk: clk}
}

// Save writes the slot with expiry now+ttl, overwriting any prior record.
// The Redis key also carries a matching TTL so abandoned records age out
// even without a reader.
func (s *Store) Save(ctx context.Context, user User, token string, ttl time.Duration) error {
	rec := Record{
		User:    user,
		Token:   token,
		Expires: s.clk.Now().Add(ttl).UnixMilli(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

// Load returns the stored record, or nil when the slot is empty. A record
// past its expiry or one that does not parse is deleted and reported as
// absent: storage problems fail open to logged-out, never to logged-in.
func (s *Store) Load(ctx context.Context) (*Record, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrRedisUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Token == "" {
		_ = s.rdb.Del(ctx, s.key).Err()
		return nil, nil
	}
	if rec.Expires <= s.clk.Now().UnixMilli() {
		_ = s.rdb.Del(ctx, s.key).Err()
		return nil, nil
	}
	return &rec, nil
}

// Clear removes the slot unconditionally. Clearing an empty slot is a
// no-op, not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}
