// Package journal keeps an optional SQLite history of pipeline runs.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/computerscienceiscool/ghpages-local/internal/errors"
	"github.com/computerscienceiscool/ghpages-local/pkg/pipeline"
)

// Journal records pipeline runs
type Journal interface {
	Record(ctx context.Context, res *pipeline.Result) (string, error)
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Entry is one recorded step
type Entry struct {
	ID         int64
	RunID      string
	Pipeline   string
	Step       string
	Status     string
	Detail     string
	StartedAt  time.Time
	DurationMS int64
}

// Run groups the entries of one pipeline invocation
type Run struct {
	ID        string
	Pipeline  string
	StartedAt time.Time
	Failed    bool
	Entries   []Entry
}

// SQLiteJournal implements Journal on a SQLite file
type SQLiteJournal struct {
	db *sql.DB
}

// Open connects to the journal at dbPath, creating the file and its schema
// when missing
func Open(dbPath string) (*SQLiteJournal, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create journal directory: %w", apperrors.ErrJournal, err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open journal: %w", apperrors.ErrJournal, err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.Initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Initialize sets up the journal table
func (j *SQLiteJournal) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pipeline_steps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		pipeline TEXT NOT NULL,
		step TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run ON pipeline_steps(run_id);
	CREATE INDEX IF NOT EXISTS idx_started ON pipeline_steps(started_at);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %w", apperrors.ErrJournal, err)
	}
	return nil
}

func (j *SQLiteJournal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record appends one row per executed step and returns the run ID
func (j *SQLiteJournal) Record(ctx context.Context, res *pipeline.Result) (string, error) {
	runID := fmt.Sprintf("%d", res.Started.UnixNano())

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrJournal, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO pipeline_steps (run_id, pipeline, step, status, detail, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, s := range res.Steps {
		detail := s.Detail
		if s.Err != nil {
			detail = s.Err.Error()
		}
		_, err := tx.ExecContext(ctx, query, runID, res.Pipeline, s.Name, string(s.Status),
			detail, s.Started.UTC(), s.Duration.Milliseconds())
		if err != nil {
			return "", fmt.Errorf("%w: failed to record step %s: %w", apperrors.ErrJournal, s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrJournal, err)
	}
	return runID, nil
}

// Recent returns the latest limit runs, newest first
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, run_id, pipeline, step, status, detail, started_at, duration_ms
		FROM pipeline_steps
		WHERE run_id IN (
			SELECT run_id FROM pipeline_steps
			GROUP BY run_id
			ORDER BY MIN(started_at) DESC, run_id DESC
			LIMIT ?
		)
		ORDER BY id ASC
	`

	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrJournal, err)
	}
	defer rows.Close()

	var runs []Run
	index := make(map[string]int)
	for rows.Next() {
		var e Entry
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.RunID, &e.Pipeline, &e.Step, &e.Status, &detail, &e.StartedAt, &e.DurationMS); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrJournal, err)
		}
		e.Detail = detail.String

		i, ok := index[e.RunID]
		if !ok {
			i = len(runs)
			index[e.RunID] = i
			runs = append(runs, Run{ID: e.RunID, Pipeline: e.Pipeline, StartedAt: e.StartedAt})
		}
		r := &runs[i]
		if e.StartedAt.Before(r.StartedAt) {
			r.StartedAt = e.StartedAt
		}
		if e.Status == string(pipeline.StatusFailed) {
			r.Failed = true
		}
		r.Entries = append(r.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrJournal, err)
	}

	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].StartedAt.After(runs[b].StartedAt)
	})
	return runs, nil
}

// Nop is the journal used when no path is configured
type Nop struct{}

func (Nop) Record(context.Context, *pipeline.Result) (string, error) { return "", nil }
func (Nop) Recent(context.Context, int) ([]Run, error)              { return nil, nil }
func (Nop) Close() error                                             { return nil }

var (
	_ Journal = (*SQLiteJournal)(nil)
	_ Journal = Nop{}
)
