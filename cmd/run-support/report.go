package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
)

func writeReport(w io.Writer, inq *domain.Inquiry, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(inq)
	}

	appointment := "N/A"
	if inq.HasAppointment() {
		appointment = inq.AppointmentTime
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Inquiry:     %s\n", inq.ID)
	fmt.Fprintf(&b, "Client:      %s <%s>\n", inq.ClientName, inq.ClientEmail)
	fmt.Fprintf(&b, "Decision:    %s\n", inq.Status())
	fmt.Fprintf(&b, "Appointment: %s\n", appointment)
	fmt.Fprintf(&b, "Notes:       %s\n", inq.EvaluationNotes)
	fmt.Fprintf(&b, "CRM:         %s\n", inq.CRMLog)
	b.WriteString("\nActivity log:\n")
	for _, line := range inq.ActivityLog {
		b.WriteString("  " + line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
