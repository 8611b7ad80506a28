// Package timeline computes the derived views a rendered conversation needs:
// which tool invocations never received a result, which messages were
// superseded by condensation or truncation markers, and the merged hybrid
// timeline of API and UI message streams.
package timeline

import (
	"github.com/RooCodeInc/RooVersation/message"
)

// FindMissingResults returns the ids of tool_use blocks with no matching
// tool_result anywhere in the conversation. A tool_use in the final message
// is exempt: nothing later could have answered it yet, so it is pending
// rather than missing. Indexing is by position, never by timestamp.
//
// A tool_use in the second-to-last message is flagged even when the following
// message is an assistant turn that would never carry its result. That
// matches the recorded conversations this tool displays; a looser rule would
// hide genuinely dropped results.
func FindMissingResults(messages []message.Message) map[string]struct{} {
	answered := make(map[string]struct{})
	uses := make(map[string]int) // tool_use id -> message index

	for i, msg := range messages {
		for _, block := range msg.Content {
			switch {
			case block.OfToolResult != nil && block.OfToolResult.ToolUseID != "":
				answered[block.OfToolResult.ToolUseID] = struct{}{}
			case block.OfToolUse != nil && block.OfToolUse.ID != "":
				uses[block.OfToolUse.ID] = i
			}
		}
	}

	missing := make(map[string]struct{})
	for id, idx := range uses {
		if _, ok := answered[id]; ok {
			continue
		}
		if idx == len(messages)-1 {
			continue
		}
		missing[id] = struct{}{}
	}
	return missing
}
