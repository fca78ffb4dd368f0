package history

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Limits for Recent.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Entry is one recorded tool invocation.
type Entry struct {
	ID string `json:"id"`

	// Tool is the invoked tool name.
	Tool string `json:"tool"`

	// Target is the resolved path the tool ran against. It is empty when
	// the tool takes no path or when resolution failed, so denied paths
	// never enter the log.
	Target string `json:"target,omitempty"`

	OK bool `json:"ok"`

	// Code is the error code of a failed invocation.
	Code string `json:"code,omitempty"`

	// Digest is the hex SHA3-256 of the JSON-encoded result.
	Digest string `json:"digest,omitempty"`

	// Unchanged is set when Digest equals the digest of the previous
	// successful call of the same tool on the same target.
	Unchanged bool `json:"unchanged,omitempty"`

	DurationMS int64     `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

// Log stores entries for the lifetime of the process.
type Log struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// Open creates an empty in-memory log.
func Open(ctx context.Context, opts ...Option) (*Log, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, so the pool is
	// pinned to one connection that is never recycled.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	l := &Log{db: db, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return l, nil
}

// Close releases the database. The log is empty afterwards.
func (l *Log) Close() error {
	return l.db.Close()
}

func (l *Log) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		tool TEXT NOT NULL,
		target TEXT NOT NULL DEFAULT '',
		ok INTEGER NOT NULL,
		code TEXT NOT NULL DEFAULT '',
		digest TEXT NOT NULL DEFAULT '',
		unchanged INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invocations_tool ON invocations(tool);
	`
	_, err := l.db.ExecContext(ctx, schema)
	return err
}

// Record stores e, assigning its ID and timestamp, and returns the stored
// entry.
func (l *Log) Record(ctx context.Context, e Entry) (Entry, error) {
	e.ID = uuid.NewString()
	e.Timestamp = l.now().UTC()

	query := `
	INSERT INTO invocations (id, tool, target, ok, code, digest, unchanged, duration_ms, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := l.db.ExecContext(ctx, query,
		e.ID,
		e.Tool,
		e.Target,
		e.OK,
		e.Code,
		e.Digest,
		e.Unchanged,
		e.DurationMS,
		e.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record invocation: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first. limit is clamped to
// [1, MaxLimit].
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	limit = ClampLimit(limit)

	query := `
	SELECT id, tool, target, ok, code, digest, unchanged, duration_ms, timestamp
	FROM invocations
	ORDER BY seq DESC
	LIMIT ?
	`
	rows, err := l.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &e.Tool, &e.Target, &e.OK, &e.Code, &e.Digest, &e.Unchanged, &e.DurationMS, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts) //nolint:errcheck // written by Record in this format
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

// Count returns the number of recorded entries.
func (l *Log) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM invocations").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// LastDigest returns the digest of the most recent successful invocation
// of tool against target.
func (l *Log) LastDigest(ctx context.Context, tool, target string) (string, bool, error) {
	query := `
	SELECT digest FROM invocations
	WHERE tool = ? AND target = ? AND ok = 1
	ORDER BY seq DESC
	LIMIT 1
	`
	var digest string
	err := l.db.QueryRowContext(ctx, query, tool, target).Scan(&digest)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query digest: %w", err)
	}
	return digest, true, nil
}

// ClampLimit clamps n to [1, MaxLimit]; n == 0 means DefaultLimit.
func ClampLimit(n int) int {
	switch {
	case n == 0:
		return DefaultLimit
	case n < 1:
		return 1
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}

// Digest returns the hex SHA3-256 of the JSON encoding of v.
func Digest(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
