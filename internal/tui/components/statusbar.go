package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left, status
// on the right.
func RenderStatusBar(width int, hints, status string) string {
	t := theme.Active

	left := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" " + hints)
	right := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(status + " ")

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", padding))
	return left + fill + right
}
