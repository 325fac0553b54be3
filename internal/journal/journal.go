// Package journal keeps an append-only record of settings mutations in a
// local SQLite database. Every CLI or menu operation that rewrites the
// document also lands here, so "what changed and when" survives the
// document's wholesale rewrites.
package journal

import (
	"database/sql"
	"time"

	"gitlab.com/tozd/go/errors"
	_ "modernc.org/sqlite" // Pure Go SQLite driver.
)

// Journal wraps the SQLite connection holding the change log.
type Journal struct {
	db *sql.DB
}

// Change is one recorded mutation.
type Change struct {
	ID        int64
	Op        string // e.g. "dir add", "mapping remove", "set-staging"
	Target    string // the directory path or drive letter acted on
	Detail    string
	Timestamp time.Time
}

// Open opens (or creates) the journal database at dbPath with WAL mode
// and a 5-second busy timeout, then runs any pending migrations.
func Open(dbPath string) (*Journal, error) {
	dsn := "file:" + dbPath + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Errorf("open journal: %w", err)
	}

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		_ = db.Close()
		return nil, errors.Errorf("check journal mode: %w", err)
	}
	if journalMode != "wal" {
		_ = db.Close()
		return nil, errors.Errorf("expected WAL journal mode, got %q", journalMode)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, errors.Errorf("run migrations: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends one change. The timestamp is assigned here, in UTC.
func (j *Journal) Record(op, target, detail string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := j.db.Exec(
		`INSERT INTO changes (op, target, detail, timestamp) VALUES (?, ?, ?, ?)`,
		op, target, detail, now,
	)
	if err != nil {
		return errors.Errorf("record change: %w", err)
	}
	return nil
}

// Recent returns up to limit changes, newest first. A non-positive limit
// defaults to 50.
func (j *Journal) Recent(limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.Query(
		`SELECT id, op, target, detail, timestamp FROM changes ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var c Change
		var ts string
		if err := rows.Scan(&c.ID, &c.Op, &c.Target, &c.Detail, &ts); err != nil {
			return nil, errors.Errorf("scan change: %w", err)
		}
		c.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, errors.Errorf("parse change timestamp %q: %w", ts, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterate changes: %w", err)
	}
	return out, nil
}

// Count returns the number of recorded changes.
func (j *Journal) Count() (int64, error) {
	var count int64
	err := j.db.QueryRow("SELECT COUNT(*) FROM changes").Scan(&count)
	return count, err
}
