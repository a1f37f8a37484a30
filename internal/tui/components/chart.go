package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

// Sparkline renders values as a row of block characters scaled to the peak.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // rendered value; defaults to %.0f
	Color lipgloss.Color
}

// BarChart renders bars as labelled horizontal bars scaled to the largest
// value, fitting width columns.
func BarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)

	labelW, textW := 0, 0
	peak := 0.0
	texts := make([]string, len(bars))
	for i, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		texts[i] = b.Text
		if texts[i] == "" {
			texts[i] = fmt.Sprintf("%.0f", b.Value)
		}
		textW = max(textW, lipgloss.Width(texts[i]))
		peak = max(peak, b.Value)
	}
	labelW = min(labelW, max(width/3, 6))
	barMax := max(width-labelW-textW-2, 4)
	if peak == 0 {
		peak = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(labelW).MaxWidth(labelW)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(textW).Align(lipgloss.Right)

	lines := make([]string, len(bars))
	for i, b := range bars {
		color := b.Color
		if color == "" {
			color = t.Accent
		}
		n := int(b.Value / peak * float64(barMax))
		n = min(max(n, 0), barMax)
		bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", n))
		pad := bg.Render(strings.Repeat(" ", barMax-n))
		lines[i] = labelStyle.Render(b.Label) + bg.Render(" ") + bar + pad + bg.Render(" ") + textStyle.Render(texts[i])
	}
	return strings.Join(lines, "\n")
}

// Series is one named line of a PairedBars chart.
type Series struct {
	Name  string
	Color lipgloss.Color
}

// PairedBars renders, per label, one bar for each series value, with a
// legend on top. values[i][j] is label i, series j.
func PairedBars(labels []string, series []Series, values [][]float64, width int) string {
	if len(labels) == 0 || len(series) == 0 {
		return ""
	}
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)

	var legend []string
	for _, s := range series {
		legend = append(legend, lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render("■ "+s.Name))
	}

	peak := 0.0
	labelW := 0
	for i, row := range values {
		for _, v := range row {
			peak = max(peak, v)
		}
		labelW = max(labelW, lipgloss.Width(labels[i]))
	}
	if peak == 0 {
		peak = 1
	}
	barMax := max(width-labelW-1, 4)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(labelW)

	lines := []string{strings.Join(legend, bg.Render("  "))}
	for i, label := range labels {
		for j, s := range series {
			v := 0.0
			if j < len(values[i]) {
				v = values[i][j]
			}
			n := min(max(int(v/peak*float64(barMax)), 0), barMax)
			prefix := strings.Repeat(" ", labelW)
			if j == 0 {
				prefix = label
			}
			lines = append(lines, labelStyle.Render(prefix)+bg.Render(" ")+
				lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render(strings.Repeat("▆", n)))
		}
	}
	return strings.Join(lines, "\n")
}
