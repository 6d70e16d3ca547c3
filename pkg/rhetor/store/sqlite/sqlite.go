// Package sqlite implements store.Store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/rhetor/pkg/rhetor/config"
	"github.com/cognicore/rhetor/pkg/rhetor/criteria"
	"github.com/cognicore/rhetor/pkg/rhetor/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	document TEXT NOT NULL,
	created_at TEXT NOT NULL,
	settings TEXT NOT NULL,
	tag_counts TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_criteria (
	run_id TEXT NOT NULL,
	category TEXT NOT NULL,
	explanation TEXT,
	found INTEGER NOT NULL,
	against INTEGER NOT NULL,
	percentage REAL NOT NULL,
	rank INTEGER NOT NULL,
	label TEXT,
	PRIMARY KEY(run_id, category),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun persists a run and its criteria results in one transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	settings, err := json.Marshal(r.Settings)
	if err != nil {
		return err
	}
	tagCounts, err := json.Marshal(r.TagCounts)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, document, created_at, settings, tag_counts)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Document, r.CreatedAt.UTC().Format(time.RFC3339Nano), string(settings), string(tagCounts))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_criteria WHERE run_id = ?", r.ID); err != nil {
		return err
	}

	for category, res := range r.Criteria {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_criteria (run_id, category, explanation, found, against, percentage, rank, label)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, category, res.Explanation, res.Found, res.Against, res.Percentage, res.Rank, res.Label)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRun returns the run with the given ID.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document, created_at, settings, tag_counts
		FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}

	if err := s.loadCriteria(ctx, &r); err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document, created_at, settings, tag_counts
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if err := s.loadCriteria(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (store.Run, error) {
	var r store.Run
	var createdAt, settings, tagCounts string

	if err := row.Scan(&r.ID, &r.Document, &createdAt, &settings, &tagCounts); err != nil {
		return store.Run{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Run{}, err
	}
	r.CreatedAt = t

	var cfg config.Settings
	if err := json.Unmarshal([]byte(settings), &cfg); err != nil {
		return store.Run{}, err
	}
	r.Settings = cfg

	r.TagCounts = make(map[string]int)
	if err := json.Unmarshal([]byte(tagCounts), &r.TagCounts); err != nil {
		return store.Run{}, err
	}

	return r, nil
}

func (s *sqliteStore) loadCriteria(ctx context.Context, r *store.Run) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, explanation, found, against, percentage, rank, label
		FROM run_criteria WHERE run_id = ?`, r.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	r.Criteria = make(map[string]criteria.Result)
	for rows.Next() {
		var category string
		var res criteria.Result
		if err := rows.Scan(&category, &res.Explanation, &res.Found, &res.Against,
			&res.Percentage, &res.Rank, &res.Label); err != nil {
			return err
		}
		r.Criteria[category] = res
	}
	return rows.Err()
}
