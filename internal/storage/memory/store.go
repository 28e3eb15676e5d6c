// Package memory keeps completed runs in process memory.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
)

// Store is an in-memory implementation of RunStore. Records are copied
// on the way in and out.
type Store struct {
	mu    sync.RWMutex
	runs  map[string]*domain.Inquiry
	order []string
}

var _ ports.RunStore = (*Store)(nil)

// New creates a new in-memory store
func New() *Store {
	return &Store{
		runs: make(map[string]*domain.Inquiry),
	}
}

func (s *Store) SaveRun(ctx context.Context, inq *domain.Inquiry) error {
	if inq.ID == "" {
		return errors.New("run has no ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[inq.ID]; !exists {
		s.order = append(s.order, inq.ID)
	}
	s.runs[inq.ID] = clone(inq)

	return nil
}

func (s *Store) GetRun(ctx context.Context, id string) (*domain.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inq, exists := s.runs[id]
	if !exists {
		return nil, fmt.Errorf("run %s: %w", id, domain.ErrRunNotFound)
	}

	return clone(inq), nil
}

// ListRuns returns runs ordered by CreatedAt, newest first. Runs created
// at the same instant list in reverse save order.
func (s *Store) ListRuns(ctx context.Context, opts ports.ListOptions) ([]*domain.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		ids = append(ids, s.order[i])
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return s.runs[ids[i]].CreatedAt.After(s.runs[ids[j]].CreatedAt)
	})

	if opts.Offset >= len(ids) {
		return nil, nil
	}
	ids = ids[opts.Offset:]
	if opts.Limit > 0 && len(ids) > opts.Limit {
		ids = ids[:opts.Limit]
	}

	result := make([]*domain.Inquiry, 0, len(ids))
	for _, id := range ids {
		result = append(result, clone(s.runs[id]))
	}

	return result, nil
}

func (s *Store) Close() error {
	return nil
}

func clone(inq *domain.Inquiry) *domain.Inquiry {
	c := *inq
	c.ActivityLog = append([]string(nil), inq.ActivityLog...)
	return &c
}
