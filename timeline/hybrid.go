package timeline

import (
	"sort"

	"github.com/RooCodeInc/RooVersation/message"
)

const (
	KindAPI = "api"
	KindUI  = "ui"
)

// HybridItem is one entry of the merged display timeline: either a structured
// API message or a free-form UI status message.
type HybridItem struct {
	Kind      string
	Ts        int64
	Message   *message.Message
	UIMessage *message.UIMessage
}

// MergeHybrid interleaves the two streams ascending by timestamp. The sort is
// stable: items sharing a timestamp keep their relative input order, so
// tool_use/tool_result pairs are never flipped.
func MergeHybrid(apiMessages []message.Message, uiMessages []message.UIMessage) []HybridItem {
	items := make([]HybridItem, 0, len(apiMessages)+len(uiMessages))
	for i := range apiMessages {
		items = append(items, HybridItem{
			Kind:    KindAPI,
			Ts:      apiMessages[i].Ts,
			Message: &apiMessages[i],
		})
	}
	for i := range uiMessages {
		items = append(items, HybridItem{
			Kind:      KindUI,
			Ts:        uiMessages[i].Ts,
			UIMessage: &uiMessages[i],
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Ts < items[j].Ts
	})
	return items
}
