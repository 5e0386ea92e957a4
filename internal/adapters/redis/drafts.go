package redisad

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/domain"
)

const defaultPrefix = "planner:draft:"

// DraftStore keeps session drafts as JSON strings, one key per session.
type DraftStore struct {
	c      *redis.Client
	prefix string
	ttl    time.Duration
}

type Option func(*DraftStore)

// WithTTL sets the expiration applied on every save. Zero keeps keys forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *DraftStore) { s.ttl = ttl }
}

func WithPrefix(prefix string) Option {
	return func(s *DraftStore) { s.prefix = prefix }
}

func New(addr, pass string, db int, opts ...Option) *DraftStore {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), opts...)
}

func NewFromClient(c *redis.Client, opts ...Option) *DraftStore {
	s := &DraftStore{c: c, prefix: defaultPrefix}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *DraftStore) key(id string) string { return s.prefix + id }

// Ping verifies connectivity at startup.
func (s *DraftStore) Ping(ctx context.Context) error {
	return s.c.Ping(ctx).Err()
}

func (s *DraftStore) Load(ctx context.Context, id string) (domain.Draft, bool, error) {
	v, err := s.c.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		observability.ObserveStore("redis", "miss")
		return domain.Draft{}, false, nil
	}
	if err != nil {
		return domain.Draft{}, false, err
	}
	observability.ObserveStore("redis", "hit")
	var d domain.Draft
	if err := json.Unmarshal(v, &d); err != nil {
		return domain.Draft{}, false, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return d, true, nil
}

func (s *DraftStore) Save(ctx context.Context, id string, d domain.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	observability.ObserveStore("redis", "set")
	return s.c.Set(ctx, s.key(id), b, s.ttl).Err()
}

func (s *DraftStore) Delete(ctx context.Context, id string) error {
	observability.ObserveStore("redis", "del")
	return s.c.Del(ctx, s.key(id)).Err()
}
