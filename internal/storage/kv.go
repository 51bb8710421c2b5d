// Package storage provides the durable key-value store backing the entity
// collections. Each collection is persisted as one value under a fixed key
// and overwritten whole on every change.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// KV is a SQLite-backed key-value store.
//
// Reads are non-failing from the caller's perspective: any error degrades to
// "absent" with a warning log, so a damaged database never takes the process
// down; the affected collection simply starts empty.
type KV struct {
	db *sql.DB
}

// NewKV opens (creating if needed) the SQLite database at dbPath and applies
// schema migrations.
func NewKV(dbPath string) (*KV, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &KV{db: db}, nil
}

func (k *KV) Close() error {
	if k.db != nil {
		return k.db.Close()
	}
	return nil
}

// Load returns the value stored under key, or ok=false when the key is
// absent or unreadable.
func (k *KV) Load(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	err := k.db.QueryRowContext(ctx,
		`SELECT value FROM kv_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to load key, treating as absent",
			"key", key, "error", err)
		return nil, false
	}
	return value, true
}

// Save overwrites the value stored under key.
func (k *KV) Save(ctx context.Context, key string, value []byte) error {
	_, err := k.db.ExecContext(ctx,
		`INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save key %s: %w", key, err)
	}
	return nil
}
