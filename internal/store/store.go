// Package store persists chat sessions and UI preferences in a SQLite-backed
// key-value table. Writes are synchronous; callers see them durably applied
// on return.
package store

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// Key layout. Session data spans two independent keys; only deletion
// touches both atomically.
const (
	keyActive   = "active_session"
	keyMuted    = "pref:muted"
	keyDarkMode = "pref:darkmode"
)

func messagesKey(id string) string { return "session:" + id + ":messages" }
func titleKey(id string) string    { return "session:" + id + ":title" }

// DefaultTitle is the placeholder reported for sessions that were never
// named by a first user message.
const DefaultTitle = "Untitled"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if necessary) the store at dbPath. now supplies the
// clock used for session ids; pass nil for time.Now.
func New(dbPath string, now func() time.Time) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Store{db: db, now: now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) put(key, value string) error {
	_, err := s.db.Exec(`
        INSERT INTO kv (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}
