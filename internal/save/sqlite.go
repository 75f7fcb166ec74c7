package save

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const DefaultSlot = "default"

const schema = `CREATE TABLE IF NOT EXISTS saves (
	slot     TEXT PRIMARY KEY,
	data     TEXT NOT NULL,
	saved_at INTEGER NOT NULL
)`

// SQLiteStore keeps one row per save slot.
type SQLiteStore struct {
	sqlDB *sql.DB
	slot  string
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path, slot string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if slot == "" {
		slot = DefaultSlot
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB, slot: slot}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, p *Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize progress: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO saves (slot, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		s.slot, string(data), p.LastSaved.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Progress, error) {
	var data string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM saves WHERE slot = ?`, s.slot).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query save: %w", err)
	}
	return decode([]byte(data))
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, s.slot); err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	return nil
}
