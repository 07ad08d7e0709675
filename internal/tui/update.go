package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(x.Width, x.Height)
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(x)
		return m, tea.Batch(cmd, m.startRefreshes())

	case tea.MouseMsg:
		m.handleMouse(x)
		return m, m.startRefreshes()

	case frameMsg:
		moved, settled := m.view.step()
		if moved {
			m.machine.OnScroll(m.view.metrics())
		}
		if settled {
			m.machine.OnMomentumScrollEnd()
		}
		return m, tea.Batch(m.startRefreshes(), frame())

	case runMsg:
		x.f()
		return m, m.startRefreshes()

	case listedMsg:
		m.applyListing(x)
		if x.done != nil {
			x.done()
		}
		return m, m.startRefreshes()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(x)
		return m, cmd
	}

	return m, nil
}

// applyListing swaps in new rows and closes the history cycle, if any.
func (m *Model) applyListing(x listedMsg) {
	m.lastErr = x.Err
	if x.Err == nil {
		m.listing = x.Listing
		m.view.contentRows = len(x.Listing.Entries)
		m.content.SetContent(renderEntries(x.Listing, m.width))
	}
	if x.done != nil {
		m.cycles++
	}
	if m.history == nil || x.CycleID == "" {
		return
	}
	if err := m.history.EndCycle(x.CycleID, time.Now(), len(x.Listing.Entries), x.Err, m.demo.HistoryLimit); err != nil {
		logrus.Debugf("failed to record refresh cycle: %v", err)
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.view.height = max(height-headerLines-footerLines, 1)
	m.content.Width = width
	m.help.Width = width
	m.content.SetContent(renderEntries(m.listing, width))
	// A shorter view may have pushed the offset past the new bottom.
	if m.view.offset > m.view.maxOffset() && !m.view.dragging {
		m.view.offset = m.view.maxOffset()
		m.machine.OnScroll(m.view.metrics())
	}
}
