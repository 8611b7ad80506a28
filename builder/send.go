package builder

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/RooCodeInc/RooVersation/inference"
	"github.com/RooCodeInc/RooVersation/tools"
)

// Call runs a translated request against the engine and records the outcome
// in the call log. It reads no draft state, so the network round trip can run
// on a background goroutine while the draft keeps being edited; the caller
// appends the reply on its own goroutine once the call resolves. A nil store
// skips logging.
func Call(ctx context.Context, engine inference.Engine, store *Store, req openai.ChatCompletionRequest) (DraftMessage, error) {
	entry := CallLogEntry{
		Ts:     time.Now().UnixMilli(),
		Model:  req.Model,
		Tokens: inference.EstimateTokens(req),
	}

	start := time.Now()
	resp, err := engine.CreateChatCompletion(ctx, req)
	entry.DurationMs = time.Since(start).Milliseconds()

	var reply DraftMessage
	if err == nil {
		reply, err = FromChatResponse(resp)
	}

	if err != nil {
		entry.Status = "error"
		entry.Error = err.Error()
		if store != nil {
			store.AppendCallLog(entry)
		}
		return DraftMessage{}, err
	}

	entry.Status = "ok"
	if store != nil {
		store.AppendCallLog(entry)
	}
	return reply, nil
}

// Send translates the draft, calls the external API and appends the reply as
// a new assistant message. Failures are recorded in the call log and returned
// to the caller for display; the draft is only modified on success. The draft
// must not be edited concurrently: callers on an event loop should translate
// first, run Call off-loop, and append the reply back on-loop instead.
func (d *Draft) Send(ctx context.Context, engine inference.Engine, store *Store, defs []tools.ToolDefinition, model string) (*DraftMessage, error) {
	req := ToChatRequest(d, defs, model)
	reply, err := Call(ctx, engine, store, req)
	if err != nil {
		return nil, err
	}

	d.Messages = append(d.Messages, reply)
	return &d.Messages[len(d.Messages)-1], nil
}
