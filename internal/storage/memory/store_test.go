package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/storage/storagetest"
)

func TestStore_SaveAndGet(t *testing.T) {
	store := New()
	ctx := context.Background()

	inq := domain.NewInquiry("Sandra Dee", "sandra.dee@example.com", "production database access")
	inq.ID = "run-1"
	inq.Log("Scheduling skipped (Request was denied).")

	if err := store.SaveRun(ctx, inq); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	// Later mutation of the caller's record must not leak into the store.
	inq.Log("mutated")

	got, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if len(got.ActivityLog) != 1 {
		t.Errorf("ActivityLog = %v", got.ActivityLog)
	}

	if _, err := store.GetRun(ctx, "missing"); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("GetRun(missing) error = %v, want ErrRunNotFound", err)
	}
}

func TestStore_ListRuns(t *testing.T) {
	store := New()
	ctx := context.Background()

	base := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		inq := domain.NewInquiry("n", "e@example.com", "d")
		inq.ID = fmt.Sprintf("run-%d", i)
		inq.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.SaveRun(ctx, inq); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
	}

	tests := []struct {
		name string
		opts ports.ListOptions
		want []string
	}{
		{"all", ports.ListOptions{}, []string{"run-3", "run-2", "run-1", "run-0"}},
		{"limit", ports.ListOptions{Limit: 2}, []string{"run-3", "run-2"}},
		{"offset", ports.ListOptions{Limit: 2, Offset: 3}, []string{"run-0"}},
		{"offset past end", ports.ListOptions{Offset: 9}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := store.ListRuns(ctx, tt.opts)
			if err != nil {
				t.Fatalf("ListRuns() error = %v", err)
			}
			if len(runs) != len(tt.want) {
				t.Fatalf("expected %d runs, got %d", len(tt.want), len(runs))
			}
			for i, id := range tt.want {
				if runs[i].ID != id {
					t.Errorf("run %d = %s, want %s", i, runs[i].ID, id)
				}
			}
		})
	}
}

func TestStore_ListRunsOrdersByCreatedAt(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)

	saves := []struct {
		id      string
		created time.Time
	}{
		{"noon", base.Add(3 * time.Hour)},
		{"morning", base},
		{"backfill", base.Add(-24 * time.Hour)},
		{"tie-first", base.Add(time.Hour)},
		{"tie-second", base.Add(time.Hour)},
	}
	for _, sv := range saves {
		inq := domain.NewInquiry("n", "e@example.com", "d")
		inq.ID = sv.id
		inq.CreatedAt = sv.created
		if err := store.SaveRun(ctx, inq); err != nil {
			t.Fatalf("SaveRun(%s) error = %v", sv.id, err)
		}
	}

	runs, err := store.ListRuns(ctx, ports.ListOptions{})
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}

	want := []string{"noon", "tie-second", "tie-first", "morning", "backfill"}
	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %d", len(want), len(runs))
	}
	for i, id := range want {
		if runs[i].ID != id {
			t.Errorf("run %d = %s, want %s", i, runs[i].ID, id)
		}
	}
}

func TestStore_SaveRunRequiresID(t *testing.T) {
	if err := New().SaveRun(context.Background(), domain.NewInquiry("n", "e", "d")); err == nil {
		t.Error("expected error for run without ID")
	}
}

func TestStore_Contract(t *testing.T) {
	storagetest.RunStoreContract(t, New())
}
