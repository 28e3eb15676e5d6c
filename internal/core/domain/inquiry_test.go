package domain

import "testing"

func TestNewInquiry(t *testing.T) {
	inq := NewInquiry("Peter Bob", "peter@bob.com", "quota upgrade")

	if inq.ClientName != "Peter Bob" || inq.ClientEmail != "peter@bob.com" || inq.RequestDetails != "quota upgrade" {
		t.Fatalf("inputs not carried: %+v", inq)
	}
	if inq.IsApproved {
		t.Error("expected IsApproved to default to false")
	}
	if inq.ActivityLog == nil || len(inq.ActivityLog) != 0 {
		t.Errorf("expected empty non-nil activity log, got %#v", inq.ActivityLog)
	}
	if inq.HasAppointment() {
		t.Error("new inquiry should not have an appointment")
	}
}

func TestInquiry_LogPreservesOrder(t *testing.T) {
	inq := NewInquiry("a", "b", "c")
	inq.Log("first")
	inq.Logf("second %d", 2)
	inq.Log("first")

	want := []string{"first", "second 2", "first"}
	if len(inq.ActivityLog) != len(want) {
		t.Fatalf("got %d entries, want %d", len(inq.ActivityLog), len(want))
	}
	for i := range want {
		if inq.ActivityLog[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, inq.ActivityLog[i], want[i])
		}
	}
}

func TestInquiry_Status(t *testing.T) {
	inq := NewInquiry("a", "b", "c")
	if got := inq.Status(); got != StatusDenied {
		t.Errorf("Status() = %q, want %q", got, StatusDenied)
	}

	inq.IsApproved = true
	if got := inq.Status(); got != StatusApproved {
		t.Errorf("Status() = %q, want %q", got, StatusApproved)
	}
}
