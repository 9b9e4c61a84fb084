// Package history keeps an audit log of collection runs in a local
// SQLite database, so a user can ask "what happened last Tuesday" after
// a reconciliation decision they no longer remember making.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pranavj/assignsync/internal/reconcile"
	"github.com/pranavj/assignsync/models"
	_ "modernc.org/sqlite"
)

// Entry is one recorded run.
type Entry struct {
	RunID            string                `json:"run_id"`
	StartedAt        time.Time             `json:"started_at"`
	FinishedAt       time.Time             `json:"finished_at"`
	SourceCounts     map[models.Source]int `json:"source_counts"`
	FinalCount       int                   `json:"final_count"`
	Suspicious       bool                  `json:"suspicious"`
	CriticalFailures bool                  `json:"critical_failures"`
	Persisted        bool                  `json:"persisted"`
}

// Store is a SQLite-backed run log.
type Store struct {
	db *sql.DB
}

// Open creates or opens the run-history database at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		source_counts TEXT NOT NULL,   -- JSON object, source -> count
		final_count INTEGER NOT NULL,
		suspicious INTEGER NOT NULL DEFAULT 0,
		critical_failures INTEGER NOT NULL DEFAULT 0,
		persisted INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores the summary of a finished run.
func (s *Store) Record(summary reconcile.Summary) error {
	counts, err := json.Marshal(summary.SourceCounts)
	if err != nil {
		return fmt.Errorf("marshal source counts: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (run_id, started_at, finished_at, source_counts, final_count, suspicious, critical_failures, persisted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.StartedAt.Format(time.RFC3339Nano),
		summary.FinishedAt.Format(time.RFC3339Nano),
		string(counts),
		summary.FinalCount,
		boolToInt(summary.Report.SuspiciousResults),
		boolToInt(summary.Report.CriticalFailures),
		boolToInt(summary.Persisted),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT run_id, started_at, finished_at, source_counts, final_count, suspicious, critical_failures, persisted
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started, finished, counts string
		var suspicious, critical, persisted int
		if err := rows.Scan(&e.RunID, &started, &finished, &counts, &e.FinalCount, &suspicious, &critical, &persisted); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		e.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		if err := json.Unmarshal([]byte(counts), &e.SourceCounts); err != nil {
			e.SourceCounts = map[models.Source]int{}
		}
		e.Suspicious = suspicious != 0
		e.CriticalFailures = critical != 0
		e.Persisted = persisted != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
