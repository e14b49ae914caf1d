package todotui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type loadedMsg struct {
	err error
}

type opDoneMsg struct {
	op  string
	id  int64
	err error
}

func (m model) loadCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: store.Load(ctx)}
	}
}

func (m model) submitCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		created, err := store.Submit(ctx)
		msg := opDoneMsg{op: "add", err: err}
		if created != nil {
			msg.id = created.ID
		}
		return msg
	}
}

func (m model) toggleCmd(id int64) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		_, err := store.ToggleComplete(ctx, id)
		return opDoneMsg{op: "toggle", id: id, err: err}
	}
}

func (m model) deleteCmd(id int64) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: "delete", id: id, err: store.Delete(ctx, id)}
	}
}

func (m model) saveCmd(id int64) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: "edit", id: id, err: store.SaveEdit(ctx, id)}
	}
}
