package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/RooCodeInc/RooVersation/builder"
	"github.com/RooCodeInc/RooVersation/inference"
	"github.com/RooCodeInc/RooVersation/message"
	"github.com/RooCodeInc/RooVersation/settings"
	"github.com/RooCodeInc/RooVersation/tools"
)

// Builder assembles a draft conversation and exercises the external API
// against it. The draft lives in memory; every mutation autosaves to the
// store so a crash never loses work.
type Builder struct {
	app    *tview.Application
	cfg    settings.Settings
	log    zerolog.Logger
	engine inference.Engine
	store  *builder.Store
	draft  *builder.Draft

	list     *tview.List
	preview  *tview.TextView
	editArea *tview.TextArea
	pathIn   *tview.InputField
	status   *tview.TextView

	editing int // message index being edited, -1 when idle
	sending bool
}

func NewBuilder(cfg settings.Settings, store *builder.Store, draft *builder.Draft, log zerolog.Logger) *Builder {
	b := &Builder{
		app:     tview.NewApplication(),
		cfg:     cfg,
		log:     log,
		engine:  inference.NewEngine(inference.Config{BaseURL: cfg.APIBaseURL, APIKey: cfg.APIKey, Model: cfg.Model}),
		store:   store,
		draft:   draft,
		editing: -1,
	}

	b.list = tview.NewList().ShowSecondaryText(true)
	b.list.SetTitle("Draft").SetBorder(true)

	b.preview = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	b.preview.SetTitle("Preview").SetBorder(true)

	b.editArea = tview.NewTextArea()
	b.editArea.SetTitle("Edit (ctrl-s: save, esc: cancel)").SetBorder(true)

	b.pathIn = tview.NewInputField().SetFieldWidth(60)
	b.pathIn.SetBorder(true)

	b.status = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	b.setHelp()

	b.wireEvents()
	b.refresh()
	return b
}

func (b *Builder) Run() error {
	return b.app.SetRoot(b.layout(), true).SetFocus(b.list).Run()
}

func (b *Builder) layout() *tview.Flex {
	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewFlex().SetDirection(tview.FlexColumn).
			AddItem(b.list, 0, 1, true).
			AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
				AddItem(b.preview, 0, 2, false).
				AddItem(b.editArea, 0, 1, false), 0, 2, false), 0, 1, true).
		AddItem(b.status, 1, 1, false)
}

func (b *Builder) setHelp() {
	b.status.SetText("a/A: add user/assistant, e: edit, d: delete, y: duplicate, J/K: move, i: import, x: export, s: send, l: call log, ctrl-c: quit")
}

func (b *Builder) wireEvents() {
	b.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		i := b.list.GetCurrentItem()
		switch event.Rune() {
		case 'a':
			b.draft.AddMessage(message.UserRole)
			b.afterMutation()
			return nil
		case 'A':
			b.draft.AddMessage(message.AssistantRole)
			b.afterMutation()
			return nil
		case 'd':
			if b.inRange(i) {
				b.draft.DeleteMessage(i)
				b.afterMutation()
			}
			return nil
		case 'y':
			if b.inRange(i) {
				b.draft.DuplicateMessage(i)
				b.afterMutation()
			}
			return nil
		case 'J':
			if b.inRange(i) && b.inRange(i+1) {
				b.draft.Reorder(b.draft.Messages[i].LocalID, b.draft.Messages[i+1].LocalID)
				b.afterMutation()
				b.list.SetCurrentItem(i + 1)
			}
			return nil
		case 'K':
			if b.inRange(i) && b.inRange(i-1) {
				b.draft.Reorder(b.draft.Messages[i].LocalID, b.draft.Messages[i-1].LocalID)
				b.afterMutation()
				b.list.SetCurrentItem(i - 1)
			}
			return nil
		case 'e':
			if b.inRange(i) {
				b.startEdit(i)
			}
			return nil
		case 'i':
			b.promptPath("Import from file", b.importFrom)
			return nil
		case 'x':
			b.promptPath("Export to file", b.exportTo)
			return nil
		case 's':
			b.send()
			return nil
		case 'l':
			b.renderCallLog()
			return nil
		case 'j':
			if i < b.list.GetItemCount()-1 {
				b.list.SetCurrentItem(i + 1)
			}
			return nil
		case 'k':
			if i > 0 {
				b.list.SetCurrentItem(i - 1)
			}
			return nil
		}
		return event
	})

	b.list.SetChangedFunc(func(i int, mainText, secondaryText string, shortcut rune) {
		b.renderPreview()
	})

	b.editArea.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlS:
			b.commitEdit()
			return nil
		case tcell.KeyESC:
			b.editing = -1
			b.app.SetFocus(b.list)
			return nil
		}
		return event
	})
}

func (b *Builder) inRange(i int) bool {
	return i >= 0 && i < len(b.draft.Messages)
}

func (b *Builder) afterMutation() {
	if err := b.store.SaveDraft(b.draft); err != nil {
		b.log.Warn().Err(err).Msg("draft autosave failed")
	}
	b.refresh()
}

func (b *Builder) refresh() {
	current := b.list.GetCurrentItem()
	b.list.Clear()
	for _, msg := range b.draft.Messages {
		label := fmt.Sprintf("[%s] %s", msg.Role, draftPreview(msg.Message))
		b.list.AddItem(label, fmt.Sprintf("%d blocks", len(msg.Content)), 0, nil)
	}
	if current >= 0 && current < b.list.GetItemCount() {
		b.list.SetCurrentItem(current)
	}
	b.renderPreview()
}

func (b *Builder) renderPreview() {
	body, _ := renderConversation(b.draft.Strip(), false)
	b.preview.SetText(body)

	req := builder.ToChatRequest(b.draft, b.selectedTools(), b.cfg.Model)
	b.preview.SetTitle(fmt.Sprintf("Preview (~%d tokens)", inference.EstimateTokens(req)))
}

// renderCallLog shows the newest API calls in the preview pane. Selecting a
// message brings the conversation preview back.
func (b *Builder) renderCallLog() {
	entries, err := b.store.CallLog()
	if err != nil {
		b.flashError(fmt.Sprintf("call log: %v", err))
		return
	}
	b.preview.SetTitle("Call log")
	if len(entries) == 0 {
		b.preview.SetText("No calls yet.")
		return
	}

	var sb strings.Builder
	for _, e := range entries {
		when := time.UnixMilli(e.Ts).Format("15:04:05")
		if e.Status == "ok" {
			fmt.Fprintf(&sb, "[green]✓[-] %s %s %dms ~%d tokens\n", when, e.Model, e.DurationMs, e.Tokens)
		} else {
			fmt.Fprintf(&sb, "[red]✗[-] %s %s %dms %s\n", when, e.Model, e.DurationMs, tview.Escape(e.Error))
		}
	}
	b.preview.SetText(sb.String())
}

func (b *Builder) selectedTools() []tools.ToolDefinition {
	return tools.Select(tools.Builtin(), b.cfg.SelectedTools)
}

// startEdit loads the message's text blocks into the edit area, one block per
// paragraph separated by a blank line.
func (b *Builder) startEdit(i int) {
	b.editing = i
	var texts []string
	for _, block := range b.draft.Messages[i].Content {
		if block.OfText != nil {
			texts = append(texts, block.OfText.Text)
		}
	}
	b.editArea.SetText(strings.Join(texts, "\n\n"), true)
	b.app.SetFocus(b.editArea)
}

// commitEdit replaces the message's text blocks with the edited text,
// keeping non-text blocks in place before them.
func (b *Builder) commitEdit() {
	if b.editing < 0 || b.editing >= len(b.draft.Messages) {
		return
	}

	msg := b.draft.Messages[b.editing].Message
	kept := make(message.ContentList, 0, len(msg.Content))
	for _, block := range msg.Content {
		if block.OfText == nil {
			kept = append(kept, block)
		}
	}
	kept = append(kept, message.NewTextBlock(b.editArea.GetText()))
	msg.Content = kept

	b.draft.UpdateMessage(b.editing, msg)
	b.editing = -1
	b.afterMutation()
	b.app.SetFocus(b.list)
}

func (b *Builder) promptPath(title string, accept func(path string)) {
	b.pathIn.SetTitle(title)
	b.pathIn.SetText("")
	b.pathIn.SetDoneFunc(func(key tcell.Key) {
		b.restoreRoot()
		if key != tcell.KeyEnter {
			return
		}
		path := strings.TrimSpace(b.pathIn.GetText())
		if path != "" {
			accept(path)
		}
	})

	modal := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(b.pathIn, 3, 1, true).
		AddItem(nil, 0, 1, false)
	b.app.SetRoot(tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(modal, 64, 1, true).
		AddItem(nil, 0, 1, false), true)
}

func (b *Builder) restoreRoot() {
	b.app.SetRoot(b.layout(), true).SetFocus(b.list)
}

func (b *Builder) importFrom(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		b.flashError(fmt.Sprintf("import: %v", err))
		return
	}
	if err := b.draft.Import(raw); err != nil {
		// The existing draft is untouched on a failed import.
		b.flashError(err.Error())
		return
	}
	b.afterMutation()
	b.flash(fmt.Sprintf("imported %d messages", len(b.draft.Messages)))
}

func (b *Builder) exportTo(path string) {
	raw, err := b.draft.Export()
	if err != nil {
		b.flashError(fmt.Sprintf("export: %v", err))
		return
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		b.flashError(fmt.Sprintf("export: %v", err))
		return
	}
	b.flash("exported to " + path)
}

// send translates the draft on the event loop, runs only the network call on
// a goroutine, and appends the reply back on the event loop. The draft stays
// single-goroutine throughout; editing while a call is in flight is safe.
func (b *Builder) send() {
	if b.sending {
		return
	}
	b.sending = true
	b.flash("sending…")

	req := builder.ToChatRequest(b.draft, b.selectedTools(), b.cfg.Model)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		reply, err := builder.Call(ctx, b.engine, b.store, req)

		b.app.QueueUpdateDraw(func() {
			b.sending = false
			if err != nil {
				// Logged in the call log by Call; the draft is intact.
				b.flashError(fmt.Sprintf("send failed: %v", err))
				return
			}
			b.draft.Messages = append(b.draft.Messages, reply)
			b.afterMutation()
			b.flash("assistant replied: " + draftPreview(reply.Message))
		})
	}()
}

func (b *Builder) flash(text string) {
	b.status.SetText(text)
}

func (b *Builder) flashError(text string) {
	b.status.SetText(fmt.Sprintf("[red]%s[-]", tview.Escape(text)))
}

func draftPreview(msg message.Message) string {
	preview := strings.ReplaceAll(msg.Preview(), "\n", " ")
	if preview == "" {
		preview = "(no text)"
	}
	return truncateRunes(preview, 50)
}
