package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RooCodeInc/RooVersation/message"
)

func TestImport_RejectsMalformedJSON(t *testing.T) {
	d := NewDraft()
	d.AddMessage(message.UserRole)

	err := d.Import([]byte(`{"role": "user"`))

	require.Error(t, err)
	assert.Len(t, d.Messages, 1, "failed import must leave the draft untouched")
}

func TestImport_RejectsNonArrayTopLevel(t *testing.T) {
	d := NewDraft()
	d.AddMessage(message.UserRole)

	err := d.Import([]byte(`{"role": "user", "content": "hi"}`))

	assert.ErrorIs(t, err, ErrNotAnArray)
	assert.Len(t, d.Messages, 1)
}

func TestImport_AcceptsLegacyStringContent(t *testing.T) {
	d := NewDraft()

	err := d.Import([]byte(`[{"role":"user","content":"old style"},{"role":"assistant","content":[{"type":"text","text":"new style"}]}]`))

	require.NoError(t, err)
	require.Len(t, d.Messages, 2)
	assert.Equal(t, "old style", d.Messages[0].Preview())
	assert.Equal(t, "new style", d.Messages[1].Preview())
	assert.NotEmpty(t, d.Messages[0].LocalID)
	assert.NotEqual(t, d.Messages[0].LocalID, d.Messages[1].LocalID)
}

func TestExportImport_RoundTrip(t *testing.T) {
	d := NewDraft()
	d.AddMessage(message.UserRole)
	d.UpdateMessage(0, message.Message{
		Role: message.UserRole,
		Ts:   1000,
		Content: message.ContentList{
			message.NewTextBlock("run the tests"),
			message.NewImageBlock("image/png", "aWNvbg=="),
		},
	})
	d.AddMessage(message.AssistantRole)
	d.UpdateMessage(1, message.Message{
		Role: message.AssistantRole,
		Ts:   2000,
		Content: message.ContentList{
			message.NewToolUseBlock("tu_1", "execute_command", map[string]any{"command": "go test ./..."}),
		},
	})

	raw, err := d.Export()
	require.NoError(t, err)

	restored := NewDraft()
	require.NoError(t, restored.Import(raw))

	require.Len(t, restored.Messages, 2)
	for i := range d.Messages {
		assert.Equal(t, d.Messages[i].Role, restored.Messages[i].Role)
		assert.Equal(t, d.Messages[i].Ts, restored.Messages[i].Ts)
		require.Len(t, restored.Messages[i].Content, len(d.Messages[i].Content))
	}
	assert.Equal(t, "run the tests", restored.Messages[0].Preview())
	assert.Equal(t, "image/png", restored.Messages[0].Content[1].OfImage.Source.MediaType)
	assert.Equal(t, "execute_command", restored.Messages[1].Content[0].OfToolUse.Name)

	// Fresh identities, no leaked local ids in the file.
	assert.NotContains(t, string(raw), d.Messages[0].LocalID)
	assert.NotEqual(t, d.Messages[0].LocalID, restored.Messages[0].LocalID)
}

func TestStore_DraftRoundTripAndCallLog(t *testing.T) {
	store, err := OpenStore(t.TempDir() + "/builder.db")
	require.NoError(t, err)
	defer store.Close()

	d := NewDraft()
	d.AddMessage(message.UserRole)
	d.UpdateMessage(0, msgWithText(message.UserRole, "saved"))
	require.NoError(t, store.SaveDraft(d))

	loaded, err := store.LoadDraft()
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "saved", loaded.Messages[0].Preview())

	require.NoError(t, store.AppendCallLog(CallLogEntry{Ts: 1, Model: "gpt-4o", Status: "error", Error: "boom"}))
	require.NoError(t, store.AppendCallLog(CallLogEntry{Ts: 2, Model: "gpt-4o", Status: "ok"}))

	log, err := store.CallLog()
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "ok", log[0].Status, "call log is most recent first")
	assert.Equal(t, "boom", log[1].Error)
}

func TestStore_LoadDraftEmpty(t *testing.T) {
	store, err := OpenStore(t.TempDir() + "/builder.db")
	require.NoError(t, err)
	defer store.Close()

	d, err := store.LoadDraft()
	require.NoError(t, err)
	assert.Empty(t, d.Messages)
}
