package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("78"))
)

// Title renders a section heading.
func Title(s string) string { return titleStyle.Render(s) }

// Label renders a muted field label.
func Label(s string) string { return labelStyle.Render(s) }

// FormatMinutes renders minutes as "2h 30m" (or "45m" under an hour).
func FormatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	if min%60 == 0 {
		return fmt.Sprintf("%dh", min/60)
	}
	return fmt.Sprintf("%dh %dm", min/60, min%60)
}

// UsageBar renders a fixed-width cap-usage bar, colored green under the
// cap, amber from 80%, and red when over.
func UsageBar(pct float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := okStyle
	switch {
	case pct > 100:
		style = dangerStyle
	case pct >= 80:
		style = warningStyle
	}
	return style.Render(bar) + fmt.Sprintf(" %.0f%%", pct)
}
