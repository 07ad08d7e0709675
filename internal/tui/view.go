package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/pullrefresh/internal/refresh"
)

//nolint:gochecknoglobals // shared styles.
var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	badgeStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	snap := m.machine.Snapshot()

	var b strings.Builder
	b.WriteString(renderHeader(m, snap))
	b.WriteString("\n")
	b.WriteString(renderStatus(m, snap))
	b.WriteString("\n")
	b.WriteString(renderSurface(m, snap))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderHeader(m Model, snap refresh.Snapshot) string {
	left := titleStyle.Render("pullrefresh") + " " + mutedStyle.Render(m.listing.Root)
	right := phaseBadge(snap.State.Phase())
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func phaseBadge(p refresh.Phase) string {
	switch p {
	case refresh.PhaseRefreshing:
		return badgeStyle.Foreground(lipgloss.Color("46")).Render("REFRESHING")
	case refresh.PhaseWaitingToRest:
		return badgeStyle.Foreground(lipgloss.Color("208")).Render("SETTLING")
	case refresh.PhaseReturningToTop:
		return badgeStyle.Foreground(lipgloss.Color("69")).Render("RETURNING")
	case refresh.PhaseIdle:
	}
	return badgeStyle.Foreground(lipgloss.Color("241")).Render("IDLE")
}

func renderStatus(m Model, snap refresh.Snapshot) string {
	parts := []string{
		m.progress.ViewAs(snap.State.PullProgress),
		fmt.Sprintf("%3.0f%%", snap.State.PullProgress*100),
		fmt.Sprintf("%d entries", len(m.listing.Entries)),
		fmt.Sprintf("%d refreshes", m.cycles),
	}
	if snap.State.Tracking {
		parts = append(parts, accentStyle.Render("tracking"))
	}
	if !snap.InteractionEnabled {
		parts = append(parts, warnStyle.Render("locked"))
	}
	if m.lastErr != nil {
		parts = append(parts, errorStyle.Render(m.lastErr.Error()))
	}
	return strings.Join(parts, mutedStyle.Render(" • "))
}

// renderSurface draws the overscroll band with the indicator at its bottom edge,
// followed by the visible content rows.
func renderSurface(m Model, snap refresh.Snapshot) string {
	height := m.view.height
	gap := m.view.gap()

	lines := make([]string, 0, height)
	for i := range gap {
		if i == gap-1 {
			lines = append(lines, renderIndicator(m, snap))
			continue
		}
		lines = append(lines, "")
	}
	if rest := height - gap; rest > 0 {
		vp := m.content
		vp.Height = rest
		vp.SetYOffset(m.view.firstRow())
		lines = append(lines, vp.View())
	}
	return strings.Join(lines, "\n")
}

func renderIndicator(m Model, snap refresh.Snapshot) string {
	ind := snap.Indicator
	var label string
	switch {
	case !ind.Visible:
		return ""
	case ind.Active:
		label = m.spinner.View() + " refreshing…"
	case ind.Progress >= 1 && m.machine.Config().ReleaseToRefresh:
		label = accentStyle.Render("↑ release to refresh")
	default:
		label = mutedStyle.Render("↓ pull to refresh")
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, label)
}
