package task

import (
	"errors"

	"github.com/RooCodeInc/RooVersation/message"
)

var ErrTaskNotFound = errors.New("task not found")

// Sources a task can be recorded under.
const (
	SourceNightly    = "nightly"
	SourceProduction = "production"
)

func ValidSource(source string) bool {
	return source == SourceNightly || source == SourceProduction
}

// Task is the backend-owned list entry. The client holds a read-mostly cached
// copy reconciled on each poll.
type Task struct {
	ID           string `json:"id"`
	Timestamp    int64  `json:"timestamp"`
	FirstMessage string `json:"firstMessage"`
}

// Conversation is the payload served for a single task: the structured API
// message stream plus the optional free-form UI status stream.
type Conversation struct {
	APIConversation []message.Message   `json:"apiConversation"`
	UIMessages      []message.UIMessage `json:"uiMessages"`
}
