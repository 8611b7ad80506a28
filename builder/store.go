package builder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/tidwall/buntdb"
)

const (
	draftKey      = "draft"
	callLogPrefix = "calllog:"
)

// Store persists the draft between sessions and keeps the API call log. A
// failed network call lands here as a log entry; the in-memory draft is never
// touched by a failure.
type Store struct {
	db *buntdb.DB
}

// CallLogEntry records one attempt against the external API.
type CallLogEntry struct {
	Ts         int64  `json:"ts"`
	Model      string `json:"model"`
	Status     string `json:"status"` // "ok" or "error"
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
	Tokens     int    `json:"tokens,omitempty"`
}

func DefaultStorePath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rooversation", "builder.db"), nil
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open builder store: %w", err)
	}
	if err := db.CreateIndex("ts", callLogPrefix+"*", buntdb.IndexJSON("ts")); err != nil && !errors.Is(err, buntdb.ErrIndexExists) {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDraft persists the stripped draft; local ids are regenerated on load.
func (s *Store) SaveDraft(d *Draft) error {
	raw, err := json.Marshal(d.Strip())
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(draftKey, string(raw), nil)
		return err
	})
}

// LoadDraft restores the saved draft, or an empty one when nothing was saved.
func (s *Store) LoadDraft() (*Draft, error) {
	var raw string
	err := s.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(draftKey)
		if err != nil {
			return err
		}
		raw = value
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return NewDraft(), nil
	}
	if err != nil {
		return nil, err
	}

	draft := NewDraft()
	if err := draft.Import([]byte(raw)); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *Store) AppendCallLog(entry CallLogEntry) error {
	if entry.Ts == 0 {
		entry.Ts = time.Now().UnixMilli()
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s%d", callLogPrefix, entry.Ts)
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(raw), nil)
		return err
	})
}

// CallLog returns logged calls, most recent first.
func (s *Store) CallLog() ([]CallLogEntry, error) {
	entries := make([]CallLogEntry, 0)
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.Descend("ts", func(key, value string) bool {
			var entry CallLogEntry
			if err := json.Unmarshal([]byte(value), &entry); err == nil {
				entries = append(entries, entry)
			}
			return true
		})
	})
	return entries, err
}

