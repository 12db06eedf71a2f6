package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const localSchema = `CREATE TABLE IF NOT EXISTS kv_state (
	key        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	version    INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// LocalBackend keeps collections in a SQLite file on the host running the console
type LocalBackend struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// OpenLocal opens (creating if needed) the SQLite file at path
func OpenLocal(path string) (*LocalBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time keeps SQLite from returning SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(localSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create kv_state: %w", err)
	}
	return &LocalBackend{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying SQLite connection
func (b *LocalBackend) Close() error {
	if b == nil || b.sqlDB == nil {
		return nil
	}
	return b.sqlDB.Close()
}

// Ping checks the database file is still usable
func (b *LocalBackend) Ping(ctx context.Context) error {
	return b.sqlDB.PingContext(ctx)
}

// Get loads the document stored under key
func (b *LocalBackend) Get(ctx context.Context, key string) (Record, error) {
	var (
		rec  Record
		data string
	)
	err := b.sqlDB.QueryRowContext(ctx,
		`SELECT data, version FROM kv_state WHERE key = ?`, key,
	).Scan(&data, &rec.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s: %w", key, err)
	}
	rec.Data = json.RawMessage(data)
	return rec, nil
}

// Put upserts key
func (b *LocalBackend) Put(ctx context.Context, key string, data json.RawMessage) (int64, error) {
	var version int64
	err := b.sqlDB.QueryRowContext(ctx,
		`INSERT INTO kv_state (key, data, version, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			version = kv_state.version + 1,
			updated_at = excluded.updated_at
		 RETURNING version`,
		key, string(data), b.now().UnixMilli(),
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("put %s: %w", key, err)
	}
	return version, nil
}

// PutIf writes key only when the stored version still equals version
func (b *LocalBackend) PutIf(ctx context.Context, key string, data json.RawMessage, version int64) (int64, error) {
	var (
		res sql.Result
		err error
	)
	now := b.now().UnixMilli()
	if version == 0 {
		res, err = b.sqlDB.ExecContext(ctx,
			`INSERT INTO kv_state (key, data, version, updated_at) VALUES (?, ?, 1, ?)
			 ON CONFLICT(key) DO NOTHING`,
			key, string(data), now)
	} else {
		res, err = b.sqlDB.ExecContext(ctx,
			`UPDATE kv_state SET data = ?, version = version + 1, updated_at = ?
			 WHERE key = ? AND version = ?`,
			string(data), now, key, version)
	}
	if err != nil {
		return 0, fmt.Errorf("put %s: %w", key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("put %s: %w", key, err)
	}
	if n == 0 {
		return 0, ErrVersionConflict
	}
	return version + 1, nil
}
