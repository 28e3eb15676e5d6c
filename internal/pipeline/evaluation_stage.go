package pipeline

import (
	"context"
	"log/slog"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/metrics"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/policy"
)

// Reviewer decides whether request details are within policy.
type Reviewer interface {
	Review(ctx context.Context, details string) policy.Verdict
}

// EvaluationStage approves or denies the request through a Reviewer.
// A failed review is denied (fail-closed) and never propagated.
type EvaluationStage struct {
	reviewer Reviewer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewEvaluationStage creates the evaluation stage.
func NewEvaluationStage(reviewer Reviewer, m *metrics.Metrics, logger *slog.Logger) *EvaluationStage {
	return &EvaluationStage{reviewer: reviewer, metrics: m, logger: logger}
}

// Name returns the stage identifier.
func (s *EvaluationStage) Name() string {
	return StageEvaluation
}

// Process sets IsApproved and EvaluationNotes from the review verdict.
func (s *EvaluationStage) Process(ctx context.Context, inq *domain.Inquiry) {
	inq.Log("Request details: " + inq.RequestDetails)

	verdict := s.reviewer.Review(ctx, inq.RequestDetails)
	s.metrics.ObserveCompletion(verdict.Latency, verdict.PromptTokens, verdict.Failed())

	inq.IsApproved = verdict.Approved && !verdict.Failed()
	inq.EvaluationNotes = verdict.Notes()
	inq.Log("Evaluation: " + inq.EvaluationNotes)

	if verdict.Failed() {
		s.logger.WarnContext(ctx, "evaluation failed closed",
			slog.String("error", verdict.Err.Error()),
			slog.Duration("latency", verdict.Latency))
		return
	}

	s.logger.InfoContext(ctx, "decision made",
		slog.String("decision", inq.Status()),
		slog.String("reply", verdict.Decision),
		slog.Int("prompt_tokens", verdict.PromptTokens),
		slog.Duration("latency", verdict.Latency))
}

var _ ports.Stage = (*EvaluationStage)(nil)
