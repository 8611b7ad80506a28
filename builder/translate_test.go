package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RooCodeInc/RooVersation/message"
	"github.com/RooCodeInc/RooVersation/tools"
)

func TestToChatRequest_UserToolResultSplit(t *testing.T) {
	d := NewDraft()
	d.AddMessage(message.UserRole)
	d.UpdateMessage(0, message.Message{
		Role: message.UserRole,
		Content: message.ContentList{
			message.NewToolResultBlock("a1", "ok", false),
			message.NewTextBlock("thanks"),
		},
	})

	req := ToChatRequest(d, nil, "gpt-4o")

	require.Len(t, req.Messages, 2)

	toolMsg := req.Messages[0]
	assert.Equal(t, openai.ChatMessageRoleTool, toolMsg.Role)
	assert.Equal(t, "a1", toolMsg.ToolCallID)
	assert.Equal(t, "ok", toolMsg.Content)

	userMsg := req.Messages[1]
	assert.Equal(t, openai.ChatMessageRoleUser, userMsg.Role)
	require.Len(t, userMsg.MultiContent, 1)
	assert.Equal(t, "thanks", userMsg.MultiContent[0].Text)
}

func TestToChatRequest_ImageBecomesDataURL(t *testing.T) {
	d := NewDraft()
	d.AddMessage(message.UserRole)
	d.UpdateMessage(0, message.Message{
		Role: message.UserRole,
		Content: message.ContentList{
			message.NewImageBlock("image/png", "aWNvbg=="),
		},
	})

	req := ToChatRequest(d, nil, "gpt-4o")

	require.Len(t, req.Messages, 1)
	require.Len(t, req.Messages[0].MultiContent, 1)
	part := req.Messages[0].MultiContent[0]
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, part.Type)
	assert.Equal(t, "data:image/png;base64,aWNvbg==", part.ImageURL.URL)
}

func TestToChatRequest_AssistantTextJoinedAndToolCalls(t *testing.T) {
	d := NewDraft()
	d.AddMessage(message.AssistantRole)
	d.UpdateMessage(0, message.Message{
		Role: message.AssistantRole,
		Content: message.ContentList{
			message.NewTextBlock("let me check"),
			message.NewToolUseBlock("tu_1", "read_file", map[string]any{"path": "go.mod"}),
			message.NewTextBlock("one moment"),
		},
	})

	req := ToChatRequest(d, nil, "gpt-4o")

	require.Len(t, req.Messages, 1)
	msg := req.Messages[0]
	assert.Equal(t, openai.ChatMessageRoleAssistant, msg.Role)
	assert.Equal(t, "let me check\none moment", msg.Content)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "tu_1", msg.ToolCalls[0].ID)
	assert.Equal(t, "read_file", msg.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"path":"go.mod"}`, msg.ToolCalls[0].Function.Arguments)
}

func TestToChatRequest_ToolDefinitionsAttached(t *testing.T) {
	d := NewDraft()
	selected := tools.Select(tools.Builtin(), []string{"read_file"})

	req := ToChatRequest(d, selected, "gpt-4o")

	require.Len(t, req.Tools, 1)
	assert.Equal(t, "read_file", req.Tools[0].Function.Name)

	// No selection, no tools field.
	assert.Nil(t, ToChatRequest(d, nil, "gpt-4o").Tools)
}

func TestToChatRequest_StructuredToolResultContent(t *testing.T) {
	d := NewDraft()
	d.AddMessage(message.UserRole)
	d.UpdateMessage(0, message.Message{
		Role: message.UserRole,
		Content: message.ContentList{
			message.NewToolResultBlock("a1", map[string]any{"exit": 0}, false),
		},
	})

	req := ToChatRequest(d, nil, "gpt-4o")

	require.Len(t, req.Messages, 1)
	assert.JSONEq(t, `{"exit":0}`, req.Messages[0].Content)
}

func TestFromChatResponse(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: "done",
				ToolCalls: []openai.ToolCall{{
					ID:   "call_1",
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      "read_file",
						Arguments: `{"path":"main.go"}`,
					},
				}},
			},
		}},
	}

	msg, err := FromChatResponse(resp)
	require.NoError(t, err)

	assert.Equal(t, message.AssistantRole, msg.Role)
	require.Len(t, msg.Content, 2)
	assert.Equal(t, "done", msg.Content[0].OfText.Text)
	assert.Equal(t, "read_file", msg.Content[1].OfToolUse.Name)
	assert.Equal(t, map[string]any{"path": "main.go"}, msg.Content[1].OfToolUse.Input)
}

func TestFromChatResponse_NoChoices(t *testing.T) {
	_, err := FromChatResponse(openai.ChatCompletionResponse{})
	assert.Error(t, err)
}

type stubEngine struct {
	resp openai.ChatCompletionResponse
	err  error
	req  openai.ChatCompletionRequest
}

func (s *stubEngine) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.req = req
	return s.resp, s.err
}

func (s *stubEngine) Name() string { return "stub" }

type slowEngine struct {
	stubEngine
	delay time.Duration
}

func (s *slowEngine) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	time.Sleep(s.delay)
	return s.stubEngine.CreateChatCompletion(ctx, req)
}

// Call must read no draft state: the request is translated up front, so the
// draft can keep being edited on its own goroutine while the network round
// trip is in flight.
func TestCall_SafeWhileDraftIsEdited(t *testing.T) {
	d := NewDraft()
	d.AddMessage(message.UserRole)
	d.UpdateMessage(0, msgWithText(message.UserRole, "hello"))

	engine := &slowEngine{
		stubEngine: stubEngine{resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "hi there"},
			}},
		}},
		delay: 50 * time.Millisecond,
	}

	req := ToChatRequest(d, nil, "gpt-4o")

	done := make(chan struct{})
	var reply DraftMessage
	var callErr error
	go func() {
		defer close(done)
		reply, callErr = Call(context.Background(), engine, nil, req)
	}()

	d.AddMessage(message.UserRole)
	d.DeleteMessage(1)
	d.AddMessage(message.AssistantRole)

	<-done
	require.NoError(t, callErr)

	d.Messages = append(d.Messages, reply)
	assert.Equal(t, "hi there", d.Messages[len(d.Messages)-1].Preview())
	assert.Equal(t, "hello", d.Messages[0].Preview(), "in-flight edits must not leak into the request")
}

func TestSend_AppendsReply(t *testing.T) {
	d := NewDraft()
	d.AddMessage(message.UserRole)
	d.UpdateMessage(0, msgWithText(message.UserRole, "hello"))

	engine := &stubEngine{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "hi there"},
		}},
	}}

	reply, err := d.Send(context.Background(), engine, nil, nil, "gpt-4o")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", engine.req.Model)
	require.Len(t, d.Messages, 2)
	assert.Equal(t, "hi there", reply.Preview())
	assert.Equal(t, message.AssistantRole, d.Messages[1].Role)
}

func TestSend_FailureLeavesDraftIntactAndLogs(t *testing.T) {
	store, err := OpenStore(t.TempDir() + "/builder.db")
	require.NoError(t, err)
	defer store.Close()

	d := NewDraft()
	d.AddMessage(message.UserRole)

	engine := &stubEngine{err: errors.New("connection refused")}

	_, sendErr := d.Send(context.Background(), engine, store, nil, "gpt-4o")
	require.Error(t, sendErr)
	assert.Len(t, d.Messages, 1, "failed send must not touch the draft")

	log, err := store.CallLog()
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "error", log[0].Status)
	assert.Contains(t, log[0].Error, "connection refused")
}
