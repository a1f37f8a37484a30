package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

// ColorForProgress returns the bar color for a goal that is pct complete.
func ColorForProgress(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.Income
	case pct >= 0.5:
		return t.Accent
	case pct >= 0.25:
		return t.Warning
	default:
		return t.Danger
	}
}

// ProgressBar renders a solid bar barWidth wide followed by the percentage.
// pct is a fraction; values outside [0, 1] are clamped for the bar but
// the label shows the real figure.
func ProgressBar(pct float64, barWidth int) string {
	t := theme.Active
	clamped := min(max(pct, 0), 1)
	color := ColorForProgress(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	label := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true).
		Render(fmt.Sprintf(" %3.0f%%", pct*100))
	return bar.ViewAs(clamped) + label
}
