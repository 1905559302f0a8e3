package store

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/fbarret/chatter/internal/models"
)

// ListSessions returns all session ids, most recent first. Recency is the
// descending numeric value of the id, which is a creation timestamp.
func (s *Store) ListSessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv WHERE key LIKE 'session:%:messages'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(strings.TrimPrefix(key, "session:"), ":messages")
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		if errA == nil && errB == nil {
			return a > b
		}
		return ids[i] > ids[j]
	})
	return ids, nil
}

// Sessions returns the listing view (id plus title), most recent first.
func (s *Store) Sessions() ([]models.SessionInfo, error) {
	ids, err := s.ListSessions()
	if err != nil {
		return nil, err
	}
	infos := make([]models.SessionInfo, 0, len(ids))
	for _, id := range ids {
		title, err := s.Title(id)
		if err != nil {
			return nil, err
		}
		infos = append(infos, models.SessionInfo{ID: id, Title: title})
	}
	return infos, nil
}

// LoadMessages returns the transcript for id. Absent or malformed stored
// JSON reads as an empty transcript rather than an error.
func (s *Store) LoadMessages(id string) ([]models.Message, error) {
	value, ok, err := s.get(messagesKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Message{}, nil
	}
	var msgs []models.Message
	if err := json.Unmarshal([]byte(value), &msgs); err != nil {
		return []models.Message{}, nil
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// SaveMessages overwrites the full transcript for id.
func (s *Store) SaveMessages(id string, msgs []models.Message) error {
	if msgs == nil {
		msgs = []models.Message{}
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return s.put(messagesKey(id), string(data))
}

// Title returns the display title for id, or DefaultTitle when unset.
func (s *Store) Title(id string) (string, error) {
	value, ok, err := s.get(titleKey(id))
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return DefaultTitle, nil
	}
	return value, nil
}

func (s *Store) SetTitle(id, title string) error {
	return s.put(titleKey(id), title)
}

// ActiveID returns the persisted active session id, or "" when none is set.
func (s *Store) ActiveID() (string, error) {
	value, _, err := s.get(keyActive)
	return value, err
}

func (s *Store) SetActiveID(id string) error {
	return s.put(keyActive, id)
}

// NewSession creates a fresh empty session, persists it, and makes it
// active. placeholderTitle names it until the first user message does;
// when empty, DefaultTitle is stored.
func (s *Store) NewSession(placeholderTitle string) (*models.Session, error) {
	id, err := s.freshID()
	if err != nil {
		return nil, err
	}
	if placeholderTitle == "" {
		placeholderTitle = DefaultTitle
	}
	if err := s.SaveMessages(id, nil); err != nil {
		return nil, err
	}
	if err := s.SetTitle(id, placeholderTitle); err != nil {
		return nil, err
	}
	if err := s.SetActiveID(id); err != nil {
		return nil, err
	}
	return &models.Session{ID: id, Title: placeholderTitle, Messages: []models.Message{}}, nil
}

// freshID derives a session id from the clock's millisecond timestamp,
// bumping forward while the id is taken so ids stay unique and keep their
// numeric recency ordering.
func (s *Store) freshID() (string, error) {
	ts := s.now().UnixMilli()
	for {
		id := strconv.FormatInt(ts, 10)
		_, taken, err := s.get(messagesKey(id))
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
		ts++
	}
}

// EnsureActive returns the active session id, creating a fresh session when
// none is set or the recorded id no longer exists.
func (s *Store) EnsureActive(placeholderTitle string) (string, error) {
	id, err := s.ActiveID()
	if err != nil {
		return "", err
	}
	if id != "" {
		_, exists, err := s.get(messagesKey(id))
		if err != nil {
			return "", err
		}
		if exists {
			return id, nil
		}
	}
	sess, err := s.NewSession(placeholderTitle)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// DeleteSession removes the messages and title for id in one transaction.
// When the active session is deleted, the most recent remaining session is
// promoted; when none remain, a fresh empty session is created with
// placeholderTitle. The resulting active id is returned.
func (s *Store) DeleteSession(id, placeholderTitle string) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM kv WHERE key IN (?, ?)`, messagesKey(id), titleKey(id)); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	active, err := s.ActiveID()
	if err != nil {
		return "", err
	}
	if active != id {
		return active, nil
	}

	ids, err := s.ListSessions()
	if err != nil {
		return "", err
	}
	if len(ids) > 0 {
		if err := s.SetActiveID(ids[0]); err != nil {
			return "", err
		}
		return ids[0], nil
	}

	sess, err := s.NewSession(placeholderTitle)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// Muted reports the persisted mute flag; unset reads as false.
func (s *Store) Muted() (bool, error) {
	value, ok, err := s.get(keyMuted)
	if err != nil {
		return false, err
	}
	return ok && value == "true", nil
}

func (s *Store) SetMuted(muted bool) error {
	return s.put(keyMuted, strconv.FormatBool(muted))
}

// DarkMode reports the persisted theme flag. Dark is the default: anything
// but an explicit "false" reads as true.
func (s *Store) DarkMode() (bool, error) {
	value, ok, err := s.get(keyDarkMode)
	if err != nil {
		return false, err
	}
	return !ok || value != "false", nil
}

func (s *Store) SetDarkMode(dark bool) error {
	return s.put(keyDarkMode, strconv.FormatBool(dark))
}
