package store

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/glebarez/sqlite"
	"github.com/m-mizutani/goerr/v2"
)

// OutcomeOK marks a successful refresh. Failed attempts store the error kind
// name (for example "NetworkError").
const OutcomeOK = "ok"

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Attempt is one recorded catalog refresh
type Attempt struct {
	ID           int64
	StartedAt    time.Time
	Duration     time.Duration
	Outcome      string
	ReleaseCount int
	Detail       string
}

// Succeeded reports whether the attempt replaced the catalog
func (a Attempt) Succeeded() bool {
	return a.Outcome == OutcomeOK
}

// Open opens the SQLite database and creates tables if needed
func Open(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open history database", goerr.V("path", dbPath))
	}

	// Enable WAL mode for better concurrency
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, goerr.Wrap(err, "failed to enable WAL", goerr.V("path", dbPath))
	}

	db := &DB{DB: sqlDB}

	if err := db.createTables(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// createTables creates the necessary database tables
func (db *DB) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS refresh_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		release_count INTEGER NOT NULL,
		detail TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_started_at ON refresh_attempts(started_at DESC);
	`

	if _, err := db.Exec(query); err != nil {
		return goerr.Wrap(err, "failed to create refresh_attempts table")
	}
	return nil
}

// RecordAttempt stores a refresh attempt and returns its ID
func (db *DB) RecordAttempt(a Attempt) (int64, error) {
	query := `
	INSERT INTO refresh_attempts (started_at, duration_ms, outcome, release_count, detail)
	VALUES (?, ?, ?, ?, ?)
	`

	res, err := db.Exec(
		query,
		a.StartedAt.UnixMilli(),
		a.Duration.Milliseconds(),
		a.Outcome,
		a.ReleaseCount,
		a.Detail,
	)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to record refresh attempt", goerr.V("outcome", a.Outcome))
	}

	return res.LastInsertId()
}

// RecentAttempts returns up to limit attempts, newest first
func (db *DB) RecentAttempts(limit int) ([]Attempt, error) {
	query := `
	SELECT id, started_at, duration_ms, outcome, release_count, detail
	FROM refresh_attempts
	ORDER BY started_at DESC, id DESC
	LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query refresh attempts")
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read refresh attempts")
	}

	return attempts, nil
}

// LastSuccess returns the most recent successful attempt, or nil if there is none
func (db *DB) LastSuccess() (*Attempt, error) {
	query := `
	SELECT id, started_at, duration_ms, outcome, release_count, detail
	FROM refresh_attempts
	WHERE outcome = ?
	ORDER BY started_at DESC, id DESC
	LIMIT 1
	`

	a, err := scanAttempt(db.QueryRow(query, OutcomeOK))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Prune deletes all but the newest keep attempts and returns how many were removed
func (db *DB) Prune(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	query := `
	DELETE FROM refresh_attempts
	WHERE id NOT IN (
		SELECT id FROM refresh_attempts
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	)
	`

	res, err := db.Exec(query, keep)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to prune refresh attempts", goerr.V("keep", keep))
	}
	return res.RowsAffected()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(s scanner) (Attempt, error) {
	var a Attempt
	var startedMs, durationMs int64
	var detail sql.NullString

	if err := s.Scan(&a.ID, &startedMs, &durationMs, &a.Outcome, &a.ReleaseCount, &detail); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, goerr.Wrap(err, "failed to scan refresh attempt")
	}

	a.StartedAt = time.UnixMilli(startedMs)
	a.Duration = time.Duration(durationMs) * time.Millisecond
	a.Detail = detail.String
	return a, nil
}
