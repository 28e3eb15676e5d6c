// Package storagetest holds the behavior every RunStore must share.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
)

// NewRun builds a completed approved run created at created.
func NewRun(id string, created time.Time) *domain.Inquiry {
	inq := domain.NewInquiry("Peter Bob", "peter@bob.com", "Can we upgrade our team's quota to 10M requests/month?")
	inq.ID = id
	inq.IsApproved = true
	inq.EvaluationNotes = "Approved: Request is within policy limits."
	inq.AppointmentTime = created.Add(26 * time.Hour).Format(domain.TimestampLayout)
	inq.CRMLog = "CRM updated: Status: Approved. Appointment: " + inq.AppointmentTime + "."
	inq.Logf("Request received from %s (%s) at %s.", inq.ClientName, inq.ClientEmail, created.Format(domain.TimestampLayout))
	inq.Log("CRM update completed.")
	inq.CreatedAt = created
	inq.CompletedAt = created.Add(1500 * time.Millisecond)
	return inq
}

// RunStoreContract exercises store, which must start empty.
func RunStoreContract(t *testing.T, store ports.RunStore) {
	ctx := context.Background()
	base := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)

	t.Run("Save and Get", func(t *testing.T) {
		run := NewRun("contract-get", base)
		require.NoError(t, store.SaveRun(ctx, run))

		loaded, err := store.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ClientName, loaded.ClientName)
		assert.Equal(t, run.ClientEmail, loaded.ClientEmail)
		assert.Equal(t, run.RequestDetails, loaded.RequestDetails)
		assert.True(t, loaded.IsApproved)
		assert.Equal(t, run.EvaluationNotes, loaded.EvaluationNotes)
		assert.Equal(t, run.AppointmentTime, loaded.AppointmentTime)
		assert.Equal(t, run.CRMLog, loaded.CRMLog)
		assert.Equal(t, run.ActivityLog, loaded.ActivityLog)
		assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt), "CreatedAt %v != %v", loaded.CreatedAt, run.CreatedAt)
		assert.True(t, run.CompletedAt.Equal(loaded.CompletedAt), "CompletedAt %v != %v", loaded.CompletedAt, run.CompletedAt)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.GetRun(ctx, "contract-missing")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Save Without ID", func(t *testing.T) {
		assert.Error(t, store.SaveRun(ctx, domain.NewInquiry("n", "e", "d")))
	})

	t.Run("List Newest First", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			run := NewRun(fmt.Sprintf("contract-list-%d", i), base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, store.SaveRun(ctx, run))
		}

		runs, err := store.ListRuns(ctx, ports.ListOptions{Limit: 2})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "contract-list-3", runs[0].ID)
		assert.Equal(t, "contract-list-2", runs[1].ID)

		runs, err = store.ListRuns(ctx, ports.ListOptions{Limit: 10, Offset: 2})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "contract-list-1", runs[0].ID)
		assert.Equal(t, "contract-get", runs[1].ID)
	})

	t.Run("Resave Replaces", func(t *testing.T) {
		run := NewRun("contract-get", base)
		run.CRMLog = "CRM updated: Status: Denied. Appointment: N/A."
		run.IsApproved = false
		require.NoError(t, store.SaveRun(ctx, run))

		loaded, err := store.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.False(t, loaded.IsApproved)
		assert.Equal(t, run.CRMLog, loaded.CRMLog)

		runs, err := store.ListRuns(ctx, ports.ListOptions{})
		require.NoError(t, err)
		assert.Len(t, runs, 4)
	})

	t.Run("List Orders By Creation Time", func(t *testing.T) {
		require.NoError(t, store.SaveRun(ctx, NewRun("contract-backfill", base.Add(-time.Hour))))

		runs, err := store.ListRuns(ctx, ports.ListOptions{})
		require.NoError(t, err)
		require.Len(t, runs, 5)
		assert.Equal(t, "contract-list-3", runs[0].ID)
		assert.Equal(t, "contract-backfill", runs[4].ID)
	})
}
