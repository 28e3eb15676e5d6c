package pipeline

import (
	"context"
	"log/slog"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
)

// IntakeStage stamps the time the request was received.
type IntakeStage struct {
	now    Clock
	logger *slog.Logger
}

// NewIntakeStage creates the intake stage.
func NewIntakeStage(now Clock, logger *slog.Logger) *IntakeStage {
	return &IntakeStage{now: now, logger: logger}
}

// Name returns the stage identifier.
func (s *IntakeStage) Name() string {
	return StageIntake
}

// Process appends the received entry to the activity log.
func (s *IntakeStage) Process(ctx context.Context, inq *domain.Inquiry) {
	timestamp := s.now().Format(domain.TimestampLayout)
	inq.Logf("Request received from %s (%s) at %s.", inq.ClientName, inq.ClientEmail, timestamp)

	s.logger.InfoContext(ctx, "request logged", slog.String("client", inq.ClientName))
}

var _ ports.Stage = (*IntakeStage)(nil)
