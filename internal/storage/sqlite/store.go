// Package sqlite journals completed pipeline runs in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
)

// DefaultListLimit caps ListRuns when no limit is given.
const DefaultListLimit = 100

// Store is a SQLite implementation of RunStore.
type Store struct {
	db *sql.DB
}

var _ ports.RunStore = (*Store)(nil)

// New opens (or creates) the database at dbPath. Parent directories of a
// plain file path are created.
func New(dbPath string) (*Store, error) {
	if !strings.HasPrefix(dbPath, "file:") && dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			client_name TEXT NOT NULL,
			client_email TEXT NOT NULL,
			request_details TEXT NOT NULL,
			is_approved INTEGER NOT NULL DEFAULT 0,
			evaluation_notes TEXT NOT NULL,
			appointment_time TEXT NOT NULL,
			crm_log TEXT NOT NULL,
			activity_log TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// SaveRun inserts the run, replacing any earlier row with the same ID.
func (s *Store) SaveRun(ctx context.Context, inq *domain.Inquiry) error {
	if inq.ID == "" {
		return errors.New("run has no ID")
	}

	activity, err := json.Marshal(inq.ActivityLog)
	if err != nil {
		return fmt.Errorf("failed to marshal activity log: %w", err)
	}

	createdAt := inq.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var completedAt sql.NullTime
	if !inq.CompletedAt.IsZero() {
		completedAt = sql.NullTime{Time: inq.CompletedAt, Valid: true}
	}

	query := `INSERT OR REPLACE INTO runs (id, client_name, client_email, request_details,
	          is_approved, evaluation_notes, appointment_time, crm_log, activity_log,
	          created_at, completed_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query, inq.ID, inq.ClientName, inq.ClientEmail,
		inq.RequestDetails, inq.IsApproved, inq.EvaluationNotes, inq.AppointmentTime,
		inq.CRMLog, string(activity), createdAt, completedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

const selectRuns = `SELECT id, client_name, client_email, request_details, is_approved,
	evaluation_notes, appointment_time, crm_log, activity_log, created_at, completed_at
	FROM runs`

// GetRun returns the run with the given ID or domain.ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*domain.Inquiry, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id)

	inq, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, domain.ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}

	return inq, nil
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context, opts ports.ListOptions) ([]*domain.Inquiry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Inquiry
	for rows.Next() {
		inq, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, inq)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.Inquiry, error) {
	var (
		inq         domain.Inquiry
		activity    string
		completedAt sql.NullTime
	)

	err := row.Scan(&inq.ID, &inq.ClientName, &inq.ClientEmail, &inq.RequestDetails,
		&inq.IsApproved, &inq.EvaluationNotes, &inq.AppointmentTime, &inq.CRMLog,
		&activity, &inq.CreatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if err := json.Unmarshal([]byte(activity), &inq.ActivityLog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activity log: %w", err)
	}
	if completedAt.Valid {
		inq.CompletedAt = completedAt.Time
	}

	return &inq, nil
}
