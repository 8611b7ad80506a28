// Package builder holds the editable draft conversation and its translation
// into an outgoing chat-completions request.
package builder

import (
	"time"

	"github.com/google/uuid"
	"github.com/huandu/go-clone"

	"github.com/RooCodeInc/RooVersation/message"
)

// DraftMessage pairs a persisted message with a client-only identity used for
// reordering. The local id never leaves memory: Strip projects it away at
// every serialization boundary.
type DraftMessage struct {
	LocalID string
	message.Message
}

type Draft struct {
	Messages []DraftMessage
}

func NewDraft() *Draft {
	return &Draft{Messages: make([]DraftMessage, 0)}
}

func newLocalID() string {
	return uuid.NewString()
}

// AddMessage appends a new message of the given role with a single empty text
// block.
func (d *Draft) AddMessage(role string) *DraftMessage {
	d.Messages = append(d.Messages, DraftMessage{
		LocalID: newLocalID(),
		Message: message.Message{
			Role:    role,
			Content: message.ContentList{message.NewTextBlock("")},
			Ts:      time.Now().UnixMilli(),
		},
	})
	return &d.Messages[len(d.Messages)-1]
}

// UpdateMessage replaces the message at index, keeping its local id. The
// index is always owned by the caller that renders the list, so a bad one is
// a programming error.
func (d *Draft) UpdateMessage(index int, msg message.Message) {
	d.Messages[index].Message = msg
}

func (d *Draft) DeleteMessage(index int) {
	d.Messages = append(d.Messages[:index], d.Messages[index+1:]...)
}

// DuplicateMessage deep-copies the message at index and inserts the copy
// right after it. Content blocks are otherwise shared by reference, so the
// copy must not alias the original.
func (d *Draft) DuplicateMessage(index int) *DraftMessage {
	src := d.Messages[index]
	dup := DraftMessage{
		LocalID: newLocalID(),
		Message: message.Message{
			Role:               src.Role,
			Content:            clone.Clone(src.Content).(message.ContentList),
			Ts:                 time.Now().UnixMilli(),
			IsSummary:          src.IsSummary,
			CondenseID:         src.CondenseID,
			CondenseParent:     src.CondenseParent,
			IsTruncationMarker: src.IsTruncationMarker,
			TruncationID:       src.TruncationID,
			TruncationParent:   src.TruncationParent,
		},
	}

	d.Messages = append(d.Messages, DraftMessage{})
	copy(d.Messages[index+2:], d.Messages[index+1:])
	d.Messages[index+1] = dup
	return &d.Messages[index+1]
}

// Reorder moves the message identified by fromID to the position currently
// held by toID. Unknown ids leave the draft unchanged.
func (d *Draft) Reorder(fromID, toID string) {
	from, to := -1, -1
	for i, msg := range d.Messages {
		switch msg.LocalID {
		case fromID:
			from = i
		case toID:
			to = i
		}
	}
	if from == -1 || to == -1 || from == to {
		return
	}

	moved := d.Messages[from]
	d.Messages = append(d.Messages[:from], d.Messages[from+1:]...)

	// Plain splice semantics: dragging down lands after the target, dragging
	// up lands before it.
	d.Messages = append(d.Messages, DraftMessage{})
	copy(d.Messages[to+1:], d.Messages[to:])
	d.Messages[to] = moved
}

func (d *Draft) AddBlock(msgIndex int, block message.ContentBlockUnion) {
	d.Messages[msgIndex].Content = append(d.Messages[msgIndex].Content, block)
}

func (d *Draft) UpdateBlock(msgIndex, blockIndex int, block message.ContentBlockUnion) {
	d.Messages[msgIndex].Content[blockIndex] = block
}

func (d *Draft) DeleteBlock(msgIndex, blockIndex int) {
	content := d.Messages[msgIndex].Content
	d.Messages[msgIndex].Content = append(content[:blockIndex], content[blockIndex+1:]...)
}

// Strip projects the draft onto its persisted shape, dropping local ids.
func (d *Draft) Strip() []message.Message {
	stripped := make([]message.Message, len(d.Messages))
	for i, msg := range d.Messages {
		stripped[i] = msg.Message
	}
	return stripped
}
