package data

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RooCodeInc/RooVersation/message"
	"github.com/RooCodeInc/RooVersation/server/db"
	"github.com/RooCodeInc/RooVersation/task"
)

func createTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	testDB, err := db.OpenDB(db.DefaultConfig(dsn), Schema)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

func sampleConversation() *task.Conversation {
	return &task.Conversation{
		APIConversation: []message.Message{
			{
				Role:    message.UserRole,
				Ts:      1000,
				Content: message.ContentList{message.NewTextBlock("fix the flaky test")},
			},
			{
				Role:    message.AssistantRole,
				Ts:      2000,
				Content: message.ContentList{message.NewToolUseBlock("tu_1", "read_file", map[string]any{"path": "main_test.go"})},
			},
		},
		UIMessages: []message.UIMessage{
			{Ts: 1500, Say: "checkpoint", Text: "reading files"},
		},
	}
}

func TestTaskModel_SaveAndList(t *testing.T) {
	model := &TaskModel{DB: createTestDB(t)}

	require.NoError(t, model.Save(task.SourceNightly,
		task.Task{ID: "t1", Timestamp: 100, FirstMessage: "fix the flaky test"}, sampleConversation()))
	require.NoError(t, model.Save(task.SourceNightly,
		task.Task{ID: "t2", Timestamp: 300, FirstMessage: "add retries"}, &task.Conversation{}))
	require.NoError(t, model.Save(task.SourceProduction,
		task.Task{ID: "t3", Timestamp: 200, FirstMessage: "other source"}, &task.Conversation{}))

	tasks, err := model.List(task.SourceNightly)
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.Equal(t, "t2", tasks[0].ID, "list must be ordered by timestamp desc")
	assert.Equal(t, "t1", tasks[1].ID)
}

func TestTaskModel_GetRoundTrip(t *testing.T) {
	model := &TaskModel{DB: createTestDB(t)}
	want := sampleConversation()

	require.NoError(t, model.Save(task.SourceNightly,
		task.Task{ID: "t1", Timestamp: 100, FirstMessage: "fix the flaky test"}, want))

	got, err := model.Get(task.SourceNightly, "t1")
	require.NoError(t, err)

	require.Len(t, got.APIConversation, 2)
	assert.Equal(t, "fix the flaky test", got.APIConversation[0].Preview())
	assert.Equal(t, "tu_1", got.APIConversation[1].Content[0].OfToolUse.ID)
	require.Len(t, got.UIMessages, 1)
	assert.Equal(t, "checkpoint", got.UIMessages[0].Say)
}

func TestTaskModel_GetNotFound(t *testing.T) {
	model := &TaskModel{DB: createTestDB(t)}

	_, err := model.Get(task.SourceNightly, "missing")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestTaskModel_GetWrongSource(t *testing.T) {
	model := &TaskModel{DB: createTestDB(t)}

	require.NoError(t, model.Save(task.SourceNightly, task.Task{ID: "t1", Timestamp: 1}, &task.Conversation{}))

	_, err := model.Get(task.SourceProduction, "t1")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}

func TestTaskModel_NullUIMessages(t *testing.T) {
	model := &TaskModel{DB: createTestDB(t)}

	require.NoError(t, model.Save(task.SourceNightly, task.Task{ID: "t1", Timestamp: 1}, &task.Conversation{
		APIConversation: []message.Message{{Role: message.UserRole}},
	}))

	got, err := model.Get(task.SourceNightly, "t1")
	require.NoError(t, err)
	assert.Nil(t, got.UIMessages)
}

func TestTaskModel_SaveUpsert(t *testing.T) {
	model := &TaskModel{DB: createTestDB(t)}

	require.NoError(t, model.Save(task.SourceNightly, task.Task{ID: "t1", Timestamp: 1, FirstMessage: "old"}, &task.Conversation{}))
	require.NoError(t, model.Save(task.SourceNightly, task.Task{ID: "t1", Timestamp: 2, FirstMessage: "new"}, &task.Conversation{}))

	tasks, err := model.List(task.SourceNightly)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(2), tasks[0].Timestamp)
	assert.Equal(t, "new", tasks[0].FirstMessage)
}

func TestTaskModel_Delete(t *testing.T) {
	model := &TaskModel{DB: createTestDB(t)}

	require.NoError(t, model.Save(task.SourceNightly, task.Task{ID: "t1", Timestamp: 1}, &task.Conversation{}))
	require.NoError(t, model.Delete(task.SourceNightly, "t1"))
	assert.ErrorIs(t, model.Delete(task.SourceNightly, "t1"), task.ErrTaskNotFound)
}
