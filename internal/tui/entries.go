package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/pullrefresh/internal/source"
)

// renderEntries renders one row per listed file with its size right-justified.
func renderEntries(l source.Listing, width int) string {
	if len(l.Entries) == 0 {
		return mutedStyle.Render("Nothing listed yet. Pull down to refresh.")
	}
	var b strings.Builder
	for i, e := range l.Entries {
		left := fmt.Sprintf("%4d  %s", i+1, e.Path)
		right := humanSize(e.Size)
		pad := width - lipgloss.Width(left) - sizeColumn
		if pad < 1 {
			pad = 1
		}
		b.WriteString(left)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%*s", sizeColumn, right)))
		if i < len(l.Entries)-1 {
			b.WriteString("\n")
		}
	}
	if l.Truncated {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("… listing truncated"))
	}
	return b.String()
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
