// Package redis journals completed pipeline runs in Redis.
//
// Each run is a JSON value under <prefix><id>; a sorted set <prefix>index
// scored by creation time orders them.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
)

const (
	defaultPrefix    = "support:run:"
	defaultListLimit = 100
)

// Store implements ports.RunStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.RunStore = (*Store)(nil)

type Option func(*Store)

// WithTTL expires journaled runs after ttl. Zero keeps them.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a Redis store for the server at address.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// SaveRun stores the run and indexes it by creation time.
func (s *Store) SaveRun(ctx context.Context, inq *domain.Inquiry) error {
	if inq.ID == "" {
		return errors.New("run has no ID")
	}

	data, err := json.Marshal(inq)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	createdAt := inq.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(inq.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(createdAt.UnixMilli()),
		Member: inq.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run to redis: %w", err)
	}

	return nil
}

// GetRun returns the run with the given ID or domain.ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.Inquiry, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("run %s: %w", id, domain.ErrRunNotFound)
		}
		return nil, fmt.Errorf("failed to get run from redis: %w", err)
	}

	var inq domain.Inquiry
	if err := json.Unmarshal([]byte(val), &inq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}

	return &inq, nil
}

// ListRuns returns runs newest first. Index entries whose run has expired
// are pruned as they are encountered and the page is refilled from older
// entries, so a short page means the index is exhausted. Offset counts
// index entries, which may include expired runs not yet pruned.
func (s *Store) ListRuns(ctx context.Context, opts ports.ListOptions) ([]*domain.Inquiry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var runs []*domain.Inquiry
	start := int64(opts.Offset)
	for len(runs) < limit {
		count := int64(limit - len(runs))
		batch, scanned, err := s.loadWindow(ctx, start, count)
		if err != nil {
			return nil, err
		}
		runs = append(runs, batch...)
		if scanned < count {
			break
		}
		// Pruned entries left the index, so the next window starts right
		// after the live runs just read.
		start += int64(len(batch))
	}

	return runs, nil
}

// loadWindow reads up to count index entries from rank start, removes the
// expired ones from the index and returns the live runs with the number of
// entries scanned.
func (s *Store) loadWindow(ctx context.Context, start, count int64) ([]*domain.Inquiry, int64, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), start, start+count-1).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(ids) == 0 {
		return nil, 0, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load runs: %w", err)
	}

	var (
		runs  []*domain.Inquiry
		stale []any
	)
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var inq domain.Inquiry
		if err := json.Unmarshal([]byte(raw), &inq); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal run %s: %w", ids[i], err)
		}
		runs = append(runs, &inq)
	}

	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, 0, fmt.Errorf("failed to prune expired runs: %w", err)
		}
	}

	return runs, int64(len(ids)), nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
