// Package redis provides Redis-backed implementations of the result store
// and the distributed locker, for engines running as several replicas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the adapter.
const DefaultPrefix = "wayfinder:"

// Store implements ports.ResultStore on Redis.
// Each kind keeps a sorted-set index of its keys scored by expiry time, so
// List does not need to SCAN the keyspace.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.ResultStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTTL expires cached results after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects to the Redis server at addr.
func New(addr string, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(kind domain.ResultKind, key string) string {
	return s.prefix + string(kind) + ":" + key
}

func (s *Store) index(kind domain.ResultKind) string {
	return s.prefix + "index:" + string(kind)
}

// Save writes the payload and registers the key in the kind's index.
func (s *Store) Save(ctx context.Context, key string, kind domain.ResultKind, payload []byte) error {
	// Score 0 marks keys that never expire.
	var score float64
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, s.key(kind, key), payload, s.ttl)
		pipe.ZAdd(ctx, s.index(kind), backend.Z{Score: score, Member: key})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s %q: %w", kind, key, err)
	}
	return nil
}

// Load reads the payload, returning domain.ErrResultNotFound for missing or expired keys.
func (s *Store) Load(ctx context.Context, key string, kind domain.ResultKind) ([]byte, error) {
	payload, err := s.client.Get(ctx, s.key(kind, key)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis load %s %q: %w", kind, key, err)
	}
	return payload, nil
}

// Delete removes the payload and its index entry.
func (s *Store) Delete(ctx context.Context, key string, kind domain.ResultKind) error {
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.key(kind, key))
		pipe.ZRem(ctx, s.index(kind), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s %q: %w", kind, key, err)
	}
	return nil
}

// List returns the live keys of a kind, sorted. Expired index entries are
// dropped lazily on each call.
func (s *Store) List(ctx context.Context, kind domain.ResultKind) ([]string, error) {
	index := s.index(kind)
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, index, "(0", now).Err(); err != nil {
		return nil, fmt.Errorf("redis cleanup %s index: %w", kind, err)
	}
	keys, err := s.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", kind, err)
	}
	slices.Sort(keys)
	return keys, nil
}
