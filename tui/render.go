package tui

import (
	"fmt"
	"strings"

	"github.com/RooCodeInc/RooVersation/message"
	"github.com/RooCodeInc/RooVersation/timeline"
)

// renderConversation formats the API stream for the conversation view.
// hideSuperseded applies the condensation/truncation filter; the hidden count
// is reported either way so the title can always show it.
func renderConversation(msgs []message.Message, hideSuperseded bool) (string, int) {
	filter := timeline.NewFilter(msgs)
	missing := timeline.FindMissingResults(msgs)
	hidden := filter.HiddenCount(msgs)

	shown := msgs
	if hideSuperseded {
		shown = filter.Active(msgs)
	}

	var b strings.Builder
	for _, msg := range shown {
		b.WriteString(renderMessage(msg, missing))
	}
	return b.String(), hidden
}

// renderHybrid formats the merged timeline. The filter and analyzer still run
// against the API stream alone.
func renderHybrid(msgs []message.Message, uiMsgs []message.UIMessage, hideSuperseded bool) (string, int) {
	filter := timeline.NewFilter(msgs)
	missing := timeline.FindMissingResults(msgs)
	hidden := filter.HiddenCount(msgs)

	shown := msgs
	if hideSuperseded {
		shown = filter.Active(msgs)
	}

	var b strings.Builder
	for _, item := range timeline.MergeHybrid(shown, uiMsgs) {
		switch item.Kind {
		case timeline.KindAPI:
			b.WriteString(renderMessage(*item.Message, missing))
		case timeline.KindUI:
			b.WriteString(renderUIMessage(*item.UIMessage))
		}
	}
	return b.String(), hidden
}

func renderMessage(msg message.Message, missing map[string]struct{}) string {
	var b strings.Builder

	switch msg.Role {
	case message.UserRole:
		b.WriteString("[red::]You:[-]\n")
	case message.AssistantRole:
		b.WriteString("[green::]Assistant:[-]\n")
	default:
		fmt.Fprintf(&b, "[white::]%s:[-]\n", msg.Role)
	}

	if msg.IsSummary {
		fmt.Fprintf(&b, "[purple]« summary %s »[-]\n", msg.CondenseID)
	}
	if msg.IsTruncationMarker {
		fmt.Fprintf(&b, "[purple]« truncated %s »[-]\n", msg.TruncationID)
	}

	for _, block := range msg.Content {
		b.WriteString(renderBlock(block, missing))
	}
	b.WriteString("\n")
	return b.String()
}

func renderBlock(block message.ContentBlockUnion, missing map[string]struct{}) string {
	switch {
	case block.OfText != nil:
		return block.OfText.Text + "\n"
	case block.OfReasoning != nil:
		var b strings.Builder
		if block.OfReasoning.Text != "" {
			fmt.Fprintf(&b, "[gray]%s[-]\n", block.OfReasoning.Text)
		}
		for _, line := range block.OfReasoning.Summary {
			fmt.Fprintf(&b, "[gray]· %s[-]\n", line)
		}
		return b.String()
	case block.OfToolUse != nil:
		badge := ""
		if _, ok := missing[block.OfToolUse.ID]; ok {
			badge = " [yellow]⚠ no result[-]"
		}
		return fmt.Sprintf("[blue]→ %s[-]%s\n", block.OfToolUse.Name, badge)
	case block.OfToolResult != nil:
		symbol := "[green]✓[-]"
		if block.OfToolResult.IsError {
			symbol = "[red]✗[-]"
		}
		return fmt.Sprintf("%s %s\n", symbol, previewContent(block.OfToolResult.Content))
	case block.OfImage != nil:
		return fmt.Sprintf("[blue][image %s, %d bytes base64][-]\n",
			block.OfImage.Source.MediaType, len(block.OfImage.Source.Data))
	}
	// Unknown block types get the generic fallback, never dropped.
	return fmt.Sprintf("[gray][%s block][-]\n", block.Type)
}

func renderUIMessage(msg message.UIMessage) string {
	partial := ""
	if msg.Partial {
		partial = " …"
	}
	if msg.Text == "" {
		return fmt.Sprintf("[teal]◦ %s[-]%s\n\n", msg.Tag(), partial)
	}
	return fmt.Sprintf("[teal]◦ %s[-] %s%s\n\n", msg.Tag(), msg.Text, partial)
}

func previewContent(content any) string {
	s := ""
	switch v := content.(type) {
	case string:
		s = v
	default:
		s = fmt.Sprintf("%v", v)
	}
	return truncateRunes(strings.ReplaceAll(s, "\n", " "), 120)
}

// truncateRunes shortens s to at most max visual characters. Cutting on rune
// boundaries keeps multi-byte text from turning into mojibake.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
