package server

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RooCodeInc/RooVersation/message"
	"github.com/RooCodeInc/RooVersation/server/data"
	"github.com/RooCodeInc/RooVersation/server/db"
	"github.com/RooCodeInc/RooVersation/task"
)

type seedEntry struct {
	ID              string              `json:"id"`
	Timestamp       int64               `json:"timestamp"`
	FirstMessage    string              `json:"firstMessage"`
	APIConversation []message.Message   `json:"apiConversation"`
	UIMessages      []message.UIMessage `json:"uiMessages"`
}

// Seed loads recorded conversations from a JSON file into the task store so
// the viewer has data to poll. Missing ids, timestamps and previews are
// derived from the conversation itself.
func Seed(dsn, source, path string, log zerolog.Logger) error {
	if !task.ValidSource(source) {
		return fmt.Errorf("unknown task source %q", source)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var entries []seedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	taskDB, err := db.OpenDB(db.DefaultConfig(dsn), data.Schema)
	if err != nil {
		return err
	}
	defer taskDB.Close()

	model := &data.TaskModel{DB: taskDB}
	for _, entry := range entries {
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.Timestamp == 0 {
			if len(entry.APIConversation) > 0 && entry.APIConversation[0].Ts != 0 {
				entry.Timestamp = entry.APIConversation[0].Ts
			} else {
				entry.Timestamp = time.Now().UnixMilli()
			}
		}
		if entry.FirstMessage == "" && len(entry.APIConversation) > 0 {
			entry.FirstMessage = entry.APIConversation[0].Preview()
		}

		t := task.Task{ID: entry.ID, Timestamp: entry.Timestamp, FirstMessage: entry.FirstMessage}
		conv := &task.Conversation{
			APIConversation: entry.APIConversation,
			UIMessages:      entry.UIMessages,
		}
		if err := model.Save(source, t, conv); err != nil {
			return err
		}
		log.Info().Str("id", entry.ID).Str("source", source).Msg("seeded task")
	}

	return nil
}
