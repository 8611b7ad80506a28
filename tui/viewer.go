package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/RooCodeInc/RooVersation/api"
	"github.com/RooCodeInc/RooVersation/settings"
	"github.com/RooCodeInc/RooVersation/task"
)

// Viewer polls the backend for recorded tasks and renders the selected
// conversation. All shared state is mutated only on the tview event loop via
// QueueUpdateDraw; poll results carry their generation and are dropped when
// stale.
type Viewer struct {
	app      *tview.Application
	client   *api.Client
	cfg      settings.Settings
	log      zerolog.Logger

	list        *tview.List
	textView    *tview.TextView
	searchInput *tview.InputField
	status      *tview.TextView

	taskPoller *api.Poller
	convPoller *api.Poller

	tasks          []task.Task
	query          string
	visible        []int // positions into tasks for the active query, rebuilt with the list
	selectedTaskID string
	conv           *task.Conversation

	hybrid         bool
	hideSuperseded bool
}

func NewViewer(cfg settings.Settings, log zerolog.Logger) *Viewer {
	v := &Viewer{
		app:            tview.NewApplication(),
		client:         api.NewClient(cfg.BackendURL),
		cfg:            cfg,
		log:            log,
		taskPoller:     api.NewPoller(time.Duration(cfg.TaskPollSeconds) * time.Second),
		convPoller:     api.NewPoller(time.Duration(cfg.ConversationPollSeconds) * time.Second),
		hybrid:         cfg.Hybrid,
		hideSuperseded: true,
	}

	v.list = tview.NewList().ShowSecondaryText(true)
	v.list.SetTitle(fmt.Sprintf("Tasks (%s)", cfg.Source)).SetBorder(true)

	v.textView = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetChangedFunc(func() {
			v.app.Draw()
		})
	v.textView.SetTitle("Conversation").SetBorder(true)

	v.searchInput = tview.NewInputField().
		SetFieldWidth(50).
		SetAcceptanceFunc(tview.InputFieldMaxLength(50))
	v.searchInput.SetTitle("Search").SetBorder(true)

	v.status = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	v.status.SetText("enter: open, /: search, h: hybrid, a: show hidden, j/k: down/up, ctrl-c: quit")

	v.wireEvents()
	return v
}

func (v *Viewer) Run() error {
	v.startTaskPolling()
	defer v.taskPoller.Stop()
	defer v.convPoller.Stop()

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewFlex().SetDirection(tview.FlexColumn).
			AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
				AddItem(v.searchInput, 3, 1, false).
				AddItem(v.list, 0, 1, true), 0, 1, true).
			AddItem(v.textView, 0, 3, false), 0, 1, true).
		AddItem(v.status, 1, 1, false)

	return v.app.SetRoot(layout, true).SetFocus(v.list).Run()
}

func (v *Viewer) wireEvents() {
	v.list.SetSelectedFunc(func(i int, mainText, secondaryText string, shortcut rune) {
		if t, ok := v.taskAt(i); ok {
			v.selectTask(t.ID)
		}
	})

	v.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'j':
			if v.list.GetCurrentItem() < v.list.GetItemCount()-1 {
				v.list.SetCurrentItem(v.list.GetCurrentItem() + 1)
			}
			return nil
		case 'k':
			if v.list.GetCurrentItem() > 0 {
				v.list.SetCurrentItem(v.list.GetCurrentItem() - 1)
			}
			return nil
		case '/':
			v.app.SetFocus(v.searchInput)
			return nil
		case 'h':
			v.hybrid = !v.hybrid
			v.renderSelected()
			return nil
		case 'a':
			v.hideSuperseded = !v.hideSuperseded
			v.renderSelected()
			return nil
		}
		if event.Key() == tcell.KeyESC {
			v.clearSelection()
			return nil
		}
		return event
	})

	v.searchInput.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			v.applySearch(v.searchInput.GetText())
			v.app.SetFocus(v.list)
		case tcell.KeyESC:
			v.searchInput.SetText("")
			v.applySearch("")
			v.app.SetFocus(v.list)
		}
	})

	v.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyESC {
			v.app.SetFocus(v.list)
		}
		return event
	})
}

func (v *Viewer) startTaskPolling() {
	v.taskPoller.Start(func(ctx context.Context, gen uint64) {
		fetched, err := v.client.ListTasks(ctx, v.cfg.Source)
		if err != nil {
			// Transient poll failure: keep previous state, next tick retries.
			v.log.Debug().Err(err).Msg("task list poll failed")
			return
		}
		v.app.QueueUpdateDraw(func() {
			if !v.taskPoller.Current(gen) {
				return
			}
			current := v.currentTaskID()
			v.tasks = task.Reconcile(v.tasks, fetched)
			v.refreshListKeeping(current)
		})
	})
}

func (v *Viewer) selectTask(id string) {
	v.selectedTaskID = id
	v.convPoller.Start(func(ctx context.Context, gen uint64) {
		conv, err := v.client.GetTask(ctx, v.cfg.Source, id)
		if err != nil {
			if errors.Is(err, task.ErrTaskNotFound) {
				v.app.QueueUpdateDraw(func() {
					if !v.convPoller.Current(gen) || v.selectedTaskID != id {
						return
					}
					// The task disappeared server-side: roll back the selection.
					v.showError(fmt.Sprintf("task %s no longer exists", id))
					v.clearSelection()
				})
				return
			}
			v.log.Debug().Err(err).Str("task", id).Msg("conversation poll failed")
			return
		}
		v.app.QueueUpdateDraw(func() {
			if !v.convPoller.Current(gen) || v.selectedTaskID != id {
				return
			}
			v.conv = conv
			v.renderSelected()
		})
	})
}

func (v *Viewer) clearSelection() {
	v.convPoller.Stop()
	v.selectedTaskID = ""
	v.conv = nil
	v.textView.Clear()
	v.textView.SetTitle("Conversation")
}

func (v *Viewer) renderSelected() {
	if v.conv == nil {
		return
	}

	var body string
	var hidden int
	if v.hybrid && v.conv.UIMessages != nil {
		body, hidden = renderHybrid(v.conv.APIConversation, v.conv.UIMessages, v.hideSuperseded)
	} else {
		body, hidden = renderConversation(v.conv.APIConversation, v.hideSuperseded)
	}

	title := "Conversation"
	if hidden > 0 {
		if v.hideSuperseded {
			title = fmt.Sprintf("Conversation (%d hidden)", hidden)
		} else {
			title = fmt.Sprintf("Conversation (%d superseded shown)", hidden)
		}
	}
	if v.hybrid && v.conv.UIMessages != nil {
		title += " [hybrid]"
	}

	v.textView.SetTitle(title)
	v.textView.SetText(body)
	v.textView.ScrollToEnd()
}

func (v *Viewer) refreshList() {
	v.refreshListKeeping(v.currentTaskID())
}

// refreshListKeeping rebuilds the list widget, restoring the cursor to the
// task with the given id so a poll tick never yanks it away. The search
// filter is recomputed against the current task list: reconcile reorders and
// prepends, so positions cached across a tick would point at the wrong tasks.
func (v *Viewer) refreshListKeeping(current string) {
	if v.query == "" {
		v.visible = nil
	} else {
		v.visible = buildIndex(v.tasks).search(v.query)
		if v.visible == nil {
			v.visible = []int{}
		}
	}

	v.list.Clear()
	for _, pos := range v.visiblePositions() {
		t := v.tasks[pos]
		v.list.AddItem(previewLine(t), timeLine(t), 0, nil)
	}

	if current != "" {
		for i, pos := range v.visiblePositions() {
			if v.tasks[pos].ID == current {
				v.list.SetCurrentItem(i)
				break
			}
		}
	}
}

func (v *Viewer) applySearch(query string) {
	v.query = strings.TrimSpace(query)
	v.refreshList()
}

func (v *Viewer) visiblePositions() []int {
	if v.visible == nil {
		all := make([]int, len(v.tasks))
		for i := range v.tasks {
			all[i] = i
		}
		return all
	}
	return v.visible
}

func (v *Viewer) taskAt(listIndex int) (task.Task, bool) {
	positions := v.visiblePositions()
	if listIndex < 0 || listIndex >= len(positions) {
		return task.Task{}, false
	}
	return v.tasks[positions[listIndex]], true
}

func (v *Viewer) currentTaskID() string {
	if t, ok := v.taskAt(v.list.GetCurrentItem()); ok {
		return t.ID
	}
	return ""
}

func (v *Viewer) showError(text string) {
	v.status.SetText(fmt.Sprintf("[red]%s[-] (press any key)", text))
}

func previewLine(t task.Task) string {
	preview := strings.ReplaceAll(t.FirstMessage, "\n", " ")
	if preview == "" {
		preview = t.ID
	}
	return truncateRunes(preview, 60)
}

func timeLine(t task.Task) string {
	return time.UnixMilli(t.Timestamp).Format("2006-01-02 15:04:05")
}
