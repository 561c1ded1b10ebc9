package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no record carries the requested id.
var ErrNotFound = errors.New("report not found")

// Record is one persisted analysis run.
type Record struct {
	ID           string          `json:"id"`
	URL          string          `json:"url"`
	OverallScore int             `json:"overall_score"`
	Improvements int             `json:"improvement_count"`
	DurationMS   int64           `json:"duration_ms"`
	Report       json.RawMessage `json:"report"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Store persists analysis reports in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates a report store at path. ":memory:" keeps everything
// in process, which the tests rely on.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		overall_score INTEGER NOT NULL,
		improvement_count INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		report TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_url ON reports(url);
	CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save stores a report and returns the record with its generated id.
func (s *Store) Save(ctx context.Context, record Record) (Record, error) {
	record.ID = uuid.NewString()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, url, overall_score, improvement_count, duration_ms, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.URL,
		record.OverallScore,
		record.Improvements,
		record.DurationMS,
		string(record.Report),
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert report: %w", err)
	}

	return record, nil
}

// Get returns one record by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, overall_score, improvement_count, duration_ms, report, created_at
		FROM reports WHERE id = ?`, id)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("select report: %w", err)
	}

	return record, nil
}

// List returns the most recent records, newest first, without the
// report payloads.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, overall_score, improvement_count, duration_ms, created_at
		FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []Record{}
	for rows.Next() {
		var record Record
		var createdAt string

		err := rows.Scan(
			&record.ID,
			&record.URL,
			&record.OverallScore,
			&record.Improvements,
			&record.DurationMS,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}

		record.CreatedAt, err = parseCreatedAt(createdAt)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var record Record
	var report string
	var createdAt string

	err := row.Scan(
		&record.ID,
		&record.URL,
		&record.OverallScore,
		&record.Improvements,
		&record.DurationMS,
		&report,
		&createdAt,
	)
	if err != nil {
		return Record{}, err
	}

	record.Report = json.RawMessage(report)
	record.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return Record{}, err
	}

	return record, nil
}

func parseCreatedAt(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", value, err)
	}

	return parsed, nil
}
