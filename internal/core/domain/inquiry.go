// Package domain defines the inquiry record threaded through the support pipeline.
package domain

import (
	"fmt"
	"time"
)

// TimestampLayout renders wall-clock times as YYYY-MM-DD HH:MM:SS.
const TimestampLayout = "2006-01-02 15:04:05"

// Inquiry is the per-run state shared by every pipeline stage.
//
// ClientName, ClientEmail and RequestDetails are inputs and never change.
// IsApproved and EvaluationNotes are written by evaluation, AppointmentTime
// by scheduling (approved runs only) and CRMLog by the CRM update. ActivityLog
// is append-only and preserves execution order.
type Inquiry struct {
	ID             string `json:"id,omitempty"`
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email"`
	RequestDetails string `json:"request_details"`

	IsApproved      bool     `json:"is_approved"`
	EvaluationNotes string   `json:"evaluation_notes"`
	AppointmentTime string   `json:"appointment_time"`
	CRMLog          string   `json:"crm_log"`
	ActivityLog     []string `json:"activity_log"`

	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// NewInquiry creates a fresh record for one workflow run.
func NewInquiry(name, email, details string) *Inquiry {
	return &Inquiry{
		ClientName:     name,
		ClientEmail:    email,
		RequestDetails: details,
		ActivityLog:    []string{},
	}
}

// Log appends an entry to the activity log.
func (i *Inquiry) Log(entry string) {
	i.ActivityLog = append(i.ActivityLog, entry)
}

// Logf appends a formatted entry to the activity log.
func (i *Inquiry) Logf(format string, args ...any) {
	i.Log(fmt.Sprintf(format, args...))
}

// Status returns "Approved" or "Denied".
func (i *Inquiry) Status() string {
	if i.IsApproved {
		return StatusApproved
	}
	return StatusDenied
}

// HasAppointment reports whether an appointment was scheduled.
func (i *Inquiry) HasAppointment() bool {
	return i.AppointmentTime != ""
}

// Status values written to the CRM line.
const (
	StatusApproved = "Approved"
	StatusDenied   = "Denied"
)
