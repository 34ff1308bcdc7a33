package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// IngestRun records one booklet ingest into the catalog
type IngestRun struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CSVPath   string    `json:"csv_path"`
	Projects  int       `json:"projects"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Ingest run statuses
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const createIngestsTable = `
CREATE TABLE IF NOT EXISTS ingests (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	csv_path TEXT NOT NULL,
	projects INTEGER NOT NULL,
	status TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// Registry tracks ingest runs in an embedded SQLite database
type Registry struct {
	db *sql.DB
}

// OpenRegistry opens (and if needed creates) the ingest registry at path
func OpenRegistry(path string) (*Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("registry path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	if _, err := db.Exec(createIngestsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize registry schema: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close releases the underlying database handle
func (r *Registry) Close() error {
	return r.db.Close()
}

// RecordRun stores an ingest run. A zero CreatedAt is filled with the
// current time.
func (r *Registry) RecordRun(run IngestRun) error {
	if run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO ingests (id, source, csv_path, projects, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.CSVPath, run.Projects, run.Status, run.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record ingest run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent ingest runs, newest first
func (r *Registry) ListRuns(limit int) ([]IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, source, csv_path, projects, status, created_at
		FROM ingests
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []IngestRun
	for rows.Next() {
		var run IngestRun
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Source, &run.CSVPath, &run.Projects, &run.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingest run: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp %q: %w", createdAt, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ingest runs: %w", err)
	}

	return runs, nil
}
