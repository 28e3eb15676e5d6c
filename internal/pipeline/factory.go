package pipeline

import (
	"fmt"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/pkg/config"
)

// NewExecutorFromConfig creates the support workflow executor:
// intake, evaluation, scheduling and CRM update, always in that order.
func NewExecutorFromConfig(cfg *config.Config, reviewer Reviewer, opts ...Option) (*Executor, error) {
	if reviewer == nil {
		return nil, fmt.Errorf("evaluation stage requires a reviewer")
	}
	if cfg.Scheduling.Offset <= 0 {
		return nil, fmt.Errorf("invalid scheduling offset %s: must be positive", cfg.Scheduling.Offset)
	}

	e := newExecutor(opts...)
	e.stages = []ports.Stage{
		NewIntakeStage(e.now, e.logger),
		NewEvaluationStage(reviewer, e.metrics, e.logger),
		NewSchedulingStage(cfg.Scheduling.Offset, e.now, e.logger),
		NewCRMUpdateStage(e.logger),
	}

	return e, nil
}
