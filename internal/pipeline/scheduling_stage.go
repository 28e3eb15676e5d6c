package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
)

// DefaultAppointmentOffset is one day plus two hours.
const DefaultAppointmentOffset = 26 * time.Hour

// SchedulingStage books a follow-up for approved requests.
type SchedulingStage struct {
	offset time.Duration
	now    Clock
	logger *slog.Logger
}

// NewSchedulingStage creates the scheduling stage.
func NewSchedulingStage(offset time.Duration, now Clock, logger *slog.Logger) *SchedulingStage {
	return &SchedulingStage{offset: offset, now: now, logger: logger}
}

// Name returns the stage identifier.
func (s *SchedulingStage) Name() string {
	return StageScheduling
}

// Process sets AppointmentTime when the inquiry is approved and logs a skip otherwise.
func (s *SchedulingStage) Process(ctx context.Context, inq *domain.Inquiry) {
	if !inq.IsApproved {
		inq.Log("Scheduling skipped (Request was denied).")
		s.logger.InfoContext(ctx, "scheduling skipped due to denial")
		return
	}

	inq.AppointmentTime = s.now().Add(s.offset).Format(domain.TimestampLayout)
	inq.Log("Meeting scheduled for " + inq.AppointmentTime)

	s.logger.InfoContext(ctx, "appointment time set", slog.String("appointment_time", inq.AppointmentTime))
}

var _ ports.Stage = (*SchedulingStage)(nil)
