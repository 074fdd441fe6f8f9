package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/DerithAI/WOLF-AI/types"
	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps keys in a single table. Timestamps are stored
// as RFC3339Nano text so sub-second expiries survive the round trip.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

const memorySchema = `
CREATE TABLE IF NOT EXISTS memory (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	expires_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_memory_expires ON memory(expires_at);
`

// NewSQLiteBackend opens (or creates) the database at path. The
// special path ":memory:" opens an in-process database.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create memory directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(memorySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteBackend{db: db, path: path}, nil
}

func (b *SQLiteBackend) Get(key string) (json.RawMessage, bool, error) {
	var value string
	var expires sql.NullString
	err := b.db.QueryRow("SELECT value, expires_at FROM memory WHERE key = ?", key).Scan(&value, &expires)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	if expired(expires, time.Now()) {
		if _, err := b.db.Exec("DELETE FROM memory WHERE key = ?", key); err != nil {
			return nil, false, fmt.Errorf("purge %s: %w", key, err)
		}
		return nil, false, nil
	}
	return json.RawMessage(value), true, nil
}

func expired(expires sql.NullString, now time.Time) bool {
	if !expires.Valid || expires.String == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339Nano, expires.String)
	if err != nil {
		return false
	}
	return now.After(t)
}

func (b *SQLiteBackend) Set(key string, value json.RawMessage, ttl time.Duration) error {
	now := time.Now().UTC()
	var expiresAt interface{}
	if ttl > 0 {
		expiresAt = now.Add(ttl).Format(time.RFC3339Nano)
	}
	_, err := b.db.Exec(`
		INSERT INTO memory (key, value, created_at, updated_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at
	`, key, string(value), now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano), expiresAt)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(key string) (bool, error) {
	result, err := b.db.Exec("DELETE FROM memory WHERE key = ?", key)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", key, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (b *SQLiteBackend) Exists(key string) (bool, error) {
	_, ok, err := b.Get(key)
	return ok, err
}

func (b *SQLiteBackend) Keys(pattern string) ([]string, error) {
	rows, err := b.db.Query("SELECT key, expires_at FROM memory ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	now := time.Now()
	var keys []string
	for rows.Next() {
		var key string
		var expires sql.NullString
		if err := rows.Scan(&key, &expires); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		if expired(expires, now) {
			continue
		}
		if ok, err := path.Match(pattern, key); err != nil {
			return nil, types.NewValidationError("pattern", err.Error())
		} else if ok {
			keys = append(keys, key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

func (b *SQLiteBackend) Clear() error {
	if _, err := b.db.Exec("DELETE FROM memory"); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }
