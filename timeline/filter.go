package timeline

import (
	"github.com/RooCodeInc/RooVersation/message"
)

// Filter hides messages superseded by condensation summaries or truncation
// markers. The two lookup indices are built once per render pass; membership
// is by id value, no links between messages are kept.
type Filter struct {
	condensed map[string]struct{}
	truncated map[string]struct{}
}

func NewFilter(messages []message.Message) *Filter {
	f := &Filter{
		condensed: make(map[string]struct{}),
		truncated: make(map[string]struct{}),
	}
	for _, msg := range messages {
		if msg.IsSummary && msg.CondenseID != "" {
			f.condensed[msg.CondenseID] = struct{}{}
		}
		if msg.IsTruncationMarker && msg.TruncationID != "" {
			f.truncated[msg.TruncationID] = struct{}{}
		}
	}
	return f
}

// Hidden reports whether the message was superseded by either mechanism.
// Marker messages are never their own parent, so they stay visible.
func (f *Filter) Hidden(msg message.Message) bool {
	if msg.CondenseParent != "" {
		if _, ok := f.condensed[msg.CondenseParent]; ok {
			return true
		}
	}
	if msg.TruncationParent != "" {
		if _, ok := f.truncated[msg.TruncationParent]; ok {
			return true
		}
	}
	return false
}

// Active returns the messages that survive the filter, in order.
func (f *Filter) Active(messages []message.Message) []message.Message {
	active := make([]message.Message, 0, len(messages))
	for _, msg := range messages {
		if !f.Hidden(msg) {
			active = append(active, msg)
		}
	}
	return active
}

// HiddenCount is computable whether or not the consumer currently hides
// superseded messages, so the view can always say "N hidden".
func (f *Filter) HiddenCount(messages []message.Message) int {
	count := 0
	for _, msg := range messages {
		if f.Hidden(msg) {
			count++
		}
	}
	return count
}
