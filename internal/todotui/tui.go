// Package todotui is the interactive terminal view over a todo.Store.
package todotui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	internalstrings "github.com/ihower/todoapp/internal/strings"
	"github.com/ihower/todoapp/internal/ui"
	"github.com/ihower/todoapp/todo"
	"github.com/muesli/reflow/wordwrap"
)

// Title is shown at the top of the list.
const Title = "待辦事項"

const (
	addPlaceholder = "新增待辦事項..."
	rowPrefixWidth = 6
	minTaskWidth   = 10
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type model struct {
	ctx         context.Context
	store       *todo.Store
	now         func() time.Time
	keys        keyMap
	help        help.Model
	input       textinput.Model
	mode        inputMode
	cursor      int
	width       int
	height      int
	busy        bool
	status      string
	statusLevel statusLevel
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, store *todo.Store) error {
	if store == nil {
		return fmt.Errorf("todo store is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(ctx, store, time.Now), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(ctx context.Context, store *todo.Store, now func() time.Time) model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = addPlaceholder
	input.Cursor.SetMode(cursor.CursorStatic)

	if now == nil {
		now = time.Now
	}
	return model{
		ctx:   ctx,
		store: store,
		now:   now,
		keys:  defaultKeyMap(),
		help:  help.New(),
		input: input,
		mode:  modeBrowse,
	}
}

func (m model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-rowPrefixWidth-2, minTaskWidth)
		return m, nil
	case loadedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Load failed: %v", msg.err), statusError)
		} else {
			m.setStatus(fmt.Sprintf("Loaded %d todos", m.store.Len()), statusInfo)
		}
		m.clampCursor()
		return m, nil
	case opDoneMsg:
		return m.handleOpDone(msg), nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.Placeholder = addPlaceholder
		m.input.SetValue(m.store.Input())
		m.input.CursorEnd()
		m.input.Focus()
	case key.Matches(msg, m.keys.Edit):
		item, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.StartEdit(item.ID, item.Task); err != nil {
			m.setStatus(err.Error(), statusError)
			return m, nil
		}
		m.mode = modeEdit
		m.input.Placeholder = ""
		m.input.SetValue(item.Task)
		m.input.CursorEnd()
		m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if item, ok := m.selected(); ok {
			m.busy = true
			return m, m.toggleCmd(item.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selected(); ok {
			m.busy = true
			return m, m.deleteCmd(item.ID)
		}
	case key.Matches(msg, m.keys.Reload):
		m.busy = true
		m.setStatus("Loading...", statusInfo)
		return m, m.loadCmd()
	case key.Matches(msg, m.keys.Cancel):
		m.store.ClearErr()
		m.setStatus("", statusNone)
	}
	return m, nil
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		m.store.SetInput(m.input.Value())
		m.leaveInput()
		if todo.IsBlank(m.store.Input()) {
			return m, nil
		}
		m.busy = true
		return m, m.submitCmd()
	case key.Matches(msg, m.keys.Cancel):
		m.store.SetInput(m.input.Value())
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.store.SetInput(m.input.Value())
	return m, cmd
}

func (m model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	session := m.store.Editing()
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		m.store.SetEditDraft(m.input.Value())
		if todo.IsBlank(m.input.Value()) {
			m.setStatus(todo.ErrEmptyTask.Error(), statusError)
			return m, nil
		}
		m.leaveInput()
		m.busy = true
		return m, m.saveCmd(session.ID)
	case key.Matches(msg, m.keys.Cancel):
		m.store.CancelEdit()
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.store.SetEditDraft(m.input.Value())
	return m, cmd
}

func (m *model) leaveInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
}

func (m model) handleOpDone(msg opDoneMsg) model {
	m.busy = false
	if msg.err != nil {
		m.setStatus(msg.err.Error(), statusError)
		m.clampCursor()
		return m
	}

	switch msg.op {
	case "add":
		if msg.id != 0 {
			m.cursor = m.store.Len() - 1
			m.setStatus(fmt.Sprintf("Added todo %d", msg.id), statusInfo)
		}
	case "toggle":
		if item, ok := m.store.Get(msg.id); ok && item.IsCompleted() {
			m.setStatus(fmt.Sprintf("Completed todo %d", msg.id), statusInfo)
		} else {
			m.setStatus(fmt.Sprintf("Reopened todo %d", msg.id), statusInfo)
		}
	case "delete":
		m.setStatus(fmt.Sprintf("Deleted todo %d", msg.id), statusInfo)
	case "edit":
		m.setStatus(fmt.Sprintf("Saved todo %d", msg.id), statusInfo)
	}
	m.clampCursor()
	return m
}

func (m model) selected() (todo.Todo, bool) {
	todos := m.store.Todos()
	if m.cursor < 0 || m.cursor >= len(todos) {
		return todo.Todo{}, false
	}
	return todos[m.cursor], true
}

func (m *model) clampCursor() {
	n := m.store.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// setStatus keeps the status line to one line; backend errors can carry
// multi-line response bodies.
func (m *model) setStatus(text string, level statusLevel) {
	m.status = internalstrings.NormalizeWhitespace(text)
	m.statusLevel = level
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString(" ")
	b.WriteString(modeStyle.Render("(" + m.store.Mode() + ")"))
	b.WriteString("\n\n")

	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderHelpLine())
	return b.String()
}

func (m model) renderList() string {
	todos := m.store.Todos()
	if len(todos) == 0 {
		return emptyStyle.Render("目前沒有待辦事項") + "\n"
	}

	editing := m.store.Editing()
	now := m.now()
	var b strings.Builder
	for i, item := range todos {
		pointer := "  "
		if i == m.cursor && m.mode != modeAdd {
			pointer = cursorStyle.Render("> ")
		}
		checkbox := ui.FormatCheckbox(item.IsCompleted())

		if m.mode == modeEdit && editing.ID == item.ID {
			b.WriteString(pointer + checkbox + " " + m.input.View() + "\n")
			continue
		}

		style := normalStyle
		switch {
		case item.IsCompleted():
			style = doneStyle
		case i == m.cursor:
			style = selectedStyle
		}

		lines := strings.Split(wordwrap.String(item.Task, m.taskWidth()), "\n")
		for j, line := range lines {
			if j == 0 {
				b.WriteString(pointer + checkbox + " " + style.Render(line))
				if item.IsCompleted() {
					b.WriteString("  " + valueMuted.Render(ui.FormatCompletion(item.CompletedAt, now)))
				}
			} else {
				b.WriteString(strings.Repeat(" ", rowPrefixWidth) + style.Render(line))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m model) taskWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(m.width-rowPrefixWidth-12, minTaskWidth)
}

func (m model) renderStatusLine() string {
	if m.busy {
		return valueMuted.Render("Saving...")
	}
	if err := m.store.Err(); err != nil {
		return statusErrStyle.Render(labelStyle.Render("Error: ") + internalstrings.NormalizeWhitespace(err.Error()))
	}
	switch m.statusLevel {
	case statusError:
		return statusErrStyle.Render(m.status)
	case statusInfo:
		return statusInfoStyle.Render(m.status)
	}
	return ""
}

func (m model) renderHelpLine() string {
	if m.mode == modeBrowse {
		return m.help.View(browseHelp{keys: m.keys})
	}
	return m.help.View(inputHelp{keys: m.keys})
}
