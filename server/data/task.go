package data

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RooCodeInc/RooVersation/task"
)

//go:embed schema.sql
var Schema string

// TaskModel persists recorded tasks and their conversation payloads. Message
// streams are stored as JSON text columns, the way every other payload in
// this tree crosses the sqlite boundary.
type TaskModel struct {
	DB *sql.DB
}

func (m *TaskModel) List(source string) ([]task.Task, error) {
	query := `
	SELECT id, timestamp, first_message
	FROM tasks
	WHERE source = ?
	ORDER BY timestamp DESC;
	`

	rows, err := m.DB.Query(query, source)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]task.Task, 0)
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.FirstMessage); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (m *TaskModel) Get(source, id string) (*task.Conversation, error) {
	query := `
	SELECT api_conversation, ui_messages
	FROM tasks
	WHERE source = ? AND id = ?;
	`

	var apiPayload string
	var uiPayload sql.NullString
	err := m.DB.QueryRow(query, source, id).Scan(&apiPayload, &uiPayload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}

	var conv task.Conversation
	if err := json.Unmarshal([]byte(apiPayload), &conv.APIConversation); err != nil {
		return nil, fmt.Errorf("decode conversation payload: %w", err)
	}
	if uiPayload.Valid && uiPayload.String != "" {
		if err := json.Unmarshal([]byte(uiPayload.String), &conv.UIMessages); err != nil {
			return nil, fmt.Errorf("decode ui messages payload: %w", err)
		}
	}

	return &conv, nil
}

func (m *TaskModel) Save(source string, t task.Task, conv *task.Conversation) error {
	apiPayload, err := json.Marshal(conv.APIConversation)
	if err != nil {
		return fmt.Errorf("encode conversation payload: %w", err)
	}

	var uiPayload any
	if conv.UIMessages != nil {
		raw, err := json.Marshal(conv.UIMessages)
		if err != nil {
			return fmt.Errorf("encode ui messages payload: %w", err)
		}
		uiPayload = string(raw)
	}

	query := `
	INSERT INTO tasks (id, source, timestamp, first_message, api_conversation, ui_messages)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		source = excluded.source,
		timestamp = excluded.timestamp,
		first_message = excluded.first_message,
		api_conversation = excluded.api_conversation,
		ui_messages = excluded.ui_messages;
	`

	if _, err := m.DB.Exec(query, t.ID, source, t.Timestamp, t.FirstMessage, string(apiPayload), uiPayload); err != nil {
		return fmt.Errorf("save task %s: %w", t.ID, err)
	}
	return nil
}

func (m *TaskModel) Delete(source, id string) error {
	res, err := m.DB.Exec(`DELETE FROM tasks WHERE source = ? AND id = ?;`, source, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}
