package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/connexion/internal/outreach"
)

// Run is one outreach run.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Quota       int        `json:"quota"`
	Status      string     `json:"status"`
	Sent        int        `json:"sent"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Event is the recorded outcome of one profile visit.
type Event struct {
	ProfileURL string    `json:"profile_url"`
	Outcome    string    `json:"outcome"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusRunning marks a run that has not finished.
const StatusRunning = "running"

// RunLog records outreach runs and their per-profile outcomes.
type RunLog struct {
	db *DB
}

// NewRunLog creates a run log on db.
func NewRunLog(db *DB) *RunLog {
	return &RunLog{db: db}
}

// StartRun creates the run record.
func (l *RunLog) StartRun(ctx context.Context, runID uuid.UUID, quota int) error {
	_, err := l.db.pool.Exec(ctx,
		`INSERT INTO outreach_runs (id, quota, status) VALUES ($1, $2, $3)`,
		runID, quota, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// RecordOutcome appends one profile outcome to the run.
func (l *RunLog) RecordOutcome(ctx context.Context, runID uuid.UUID, profileURL string, outcome outreach.Outcome) error {
	_, err := l.db.pool.Exec(ctx,
		`INSERT INTO outreach_events (run_id, profile_url, outcome) VALUES ($1, $2, $3)`,
		runID, profileURL, string(outcome),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome for %s: %w", profileURL, err)
	}
	return nil
}

// FinishRun stores the terminal status of the run.
func (l *RunLog) FinishRun(ctx context.Context, runID uuid.UUID, status outreach.Status) error {
	result, err := l.db.pool.Exec(ctx,
		`UPDATE outreach_runs SET status = $1, sent = $2, completed_at = NOW() WHERE id = $3`,
		string(status.Kind), status.Sent, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// GetRun retrieves a run by ID
func (l *RunLog) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := l.db.pool.QueryRow(ctx,
		`SELECT id, quota, status, sent, created_at, completed_at
		 FROM outreach_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Quota, &run.Status, &run.Sent, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent runs, newest first
func (l *RunLog) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.pool.Query(ctx,
		`SELECT id, quota, status, sent, created_at, completed_at
		 FROM outreach_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Quota, &run.Status, &run.Sent, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListEvents retrieves a run's outcomes in the order they happened
func (l *RunLog) ListEvents(ctx context.Context, runID uuid.UUID) ([]Event, error) {
	rows, err := l.db.pool.Query(ctx,
		`SELECT profile_url, outcome, created_at FROM outreach_events
		 WHERE run_id = $1 ORDER BY id ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ProfileURL, &e.Outcome, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ outreach.Recorder = (*RunLog)(nil)
