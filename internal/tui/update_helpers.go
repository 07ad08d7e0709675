package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.Pull):
		m.pull()
		return m, nil

	case key.Matches(msg, m.keys.Release):
		m.release()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
		return m, nil
	}

	return m, nil
}

// handleMouse maps the left button to touch gestures and the wheel to scrolling.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		m.scroll(-1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		m.scroll(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.grant(msg.Y)
	case msg.Action == tea.MouseActionMotion && m.view.dragging:
		if m.view.dragTo(msg.Y) {
			m.machine.OnScroll(m.view.metrics())
		}
	case msg.Action == tea.MouseActionRelease:
		m.release()
	}
}

func (m *Model) interactive() bool { return m.machine.Snapshot().InteractionEnabled }

func (m *Model) grant(y int) {
	if m.view.dragging || !m.interactive() {
		return
	}
	m.view.beginDrag(y)
	m.machine.OnResponderGrant()
}

// pull simulates dragging the content down by one row.
func (m *Model) pull() {
	if !m.view.dragging {
		m.grant(0)
		if !m.view.dragging {
			return
		}
	}
	if m.view.dragTo(m.view.pointerY() + 1) {
		m.machine.OnScroll(m.view.metrics())
	}
}

func (m *Model) release() {
	if !m.view.dragging {
		return
	}
	m.view.endDrag()
	m.machine.OnResponderRelease()
}

func (m *Model) scroll(rows float64) {
	if m.view.dragging || !m.interactive() {
		return
	}
	if m.view.scrollBy(rows) {
		m.machine.OnScroll(m.view.metrics())
	}
}
