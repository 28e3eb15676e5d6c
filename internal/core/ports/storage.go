package ports

import (
	"context"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
)

// RunStore journals completed inquiry runs.
type RunStore interface {
	// SaveRun persists a completed run. The inquiry must carry an ID.
	SaveRun(ctx context.Context, inq *domain.Inquiry) error

	// GetRun retrieves a run by ID, or domain.ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*domain.Inquiry, error)

	// ListRuns lists runs newest first.
	ListRuns(ctx context.Context, opts ListOptions) ([]*domain.Inquiry, error)

	// Close closes the storage connection
	Close() error
}

// ListOptions contains pagination options
type ListOptions struct {
	Limit  int
	Offset int
}
