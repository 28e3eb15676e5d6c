package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
)

// CRMUpdateStage writes the final status line. It is a templated summary,
// not a CRM integration.
type CRMUpdateStage struct {
	logger *slog.Logger
}

// NewCRMUpdateStage creates the CRM update stage.
func NewCRMUpdateStage(logger *slog.Logger) *CRMUpdateStage {
	return &CRMUpdateStage{logger: logger}
}

// Name returns the stage identifier.
func (s *CRMUpdateStage) Name() string {
	return StageCRMUpdate
}

// Process sets CRMLog from the final decision and appointment.
func (s *CRMUpdateStage) Process(ctx context.Context, inq *domain.Inquiry) {
	appointment := "N/A"
	if inq.IsApproved {
		appointment = inq.AppointmentTime
	}

	inq.CRMLog = fmt.Sprintf("CRM updated: Status: %s. Appointment: %s.", inq.Status(), appointment)
	inq.Log("CRM update completed.")

	s.logger.InfoContext(ctx, "status logged", slog.String("status", inq.Status()))
}

var _ ports.Stage = (*CRMUpdateStage)(nil)
