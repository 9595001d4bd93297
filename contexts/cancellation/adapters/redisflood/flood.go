package redisflood

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

var _ ports.FloodStore = (*Store)(nil)

// Store keeps flood events in a Redis sorted set scored by unix nanoseconds.
// Members carry a uuid suffix so concurrent registrations at the same instant
// never collapse into one entry.
type Store struct {
	rdb *redis.Client

	prefix string
	// ttl bounds how long idle event sets stay around. It must exceed the
	// largest counting window in use.
	ttl time.Duration
}

type Option func(*Store)

func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = strings.Trim(prefix, ":") }
}

func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

func New(rdb *redis.Client, opts ...Option) *Store {
	s := &Store{
		rdb:    rdb,
		prefix: "cancel:flood",
		ttl:    48 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return s.prefix + ":" + name
}

func (s *Store) CountEventsSince(ctx context.Context, name string, since time.Time) (int, error) {
	key := s.key(name)

	pipe := s.rdb.Pipeline()
	// Drop everything at or before the window start, then count the rest.
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(since.UnixNano(), 10))
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("count flood events: %w", err)
	}
	return int(card.Val()), nil
}

func (s *Store) RegisterEvent(ctx context.Context, name string, at time.Time) error {
	key := s.key(name)
	member := strconv.FormatInt(at.UnixNano(), 10) + ":" + uuid.NewString()

	pipe := s.rdb.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixNano()), Member: member})
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("register flood event: %w", err)
	}
	return nil
}
