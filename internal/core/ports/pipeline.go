// Package ports defines the core interfaces for the support pipeline.
// This file contains the stage interface the executor drives.
package ports

import (
	"context"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
)

// Stage reads and mutates the inquiry record. Stages recover their own
// failures; the record always continues to the next stage.
type Stage interface {
	// Name returns the unique identifier for this stage.
	Name() string
	// Process executes the stage logic against the record.
	Process(ctx context.Context, inq *domain.Inquiry)
}

// StageFunc adapts a plain function to the Stage interface.
type StageFunc struct {
	StageName string
	Fn        func(ctx context.Context, inq *domain.Inquiry)
}

// Name returns the stage identifier.
func (f StageFunc) Name() string { return f.StageName }

// Process calls the wrapped function.
func (f StageFunc) Process(ctx context.Context, inq *domain.Inquiry) { f.Fn(ctx, inq) }

// PipelineRunner runs a complete inquiry workflow.
type PipelineRunner interface {
	// Run creates a record from the inputs, executes every stage in order
	// and returns the final record.
	Run(ctx context.Context, name, email, details string) *domain.Inquiry
}
