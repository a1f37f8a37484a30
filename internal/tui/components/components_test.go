package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, LayoutRow(100, 3))
	assert.Nil(t, LayoutRow(100, 0))
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "1\n2\n3\n4\n5", 22)
	require.Less(t, lipgloss.Height(short), lipgloss.Height(tall))

	joined := CardRow([]string{tall, short})
	lines := strings.Split(joined, "\n")
	assert.Len(t, lines, lipgloss.Height(tall))
	for i, line := range lines {
		assert.Equal(t, 44, lipgloss.Width(line), "line %d", i)
		assert.Contains(t, line, "\x1b[", "line %d keeps its background", i)
	}
}

func TestMetricRowWidth(t *testing.T) {
	row := MetricRow([]Metric{
		{Label: "Net worth", Value: "$1,000.00"},
		{Label: "Savings rate", Value: "12.5%", Note: "this month"},
	}, 60)
	for _, line := range strings.Split(row, "\n") {
		assert.Equal(t, 60, lipgloss.Width(line))
	}
	assert.Contains(t, row, "Net worth")
	assert.Contains(t, row, "this month")
}

func TestTabBar(t *testing.T) {
	bar := RenderTabBar(TabGoals, 120, "")
	assert.Equal(t, 120, lipgloss.Width(bar))
	for _, tab := range Tabs {
		assert.Contains(t, bar, tab.Name)
	}
	assert.Equal(t, TabSettings, TabIdxByKey("5"))
	assert.Equal(t, -1, TabIdxByKey("x"))
	assert.Greater(t, TabVisualWidth(Tabs[0], false), TabVisualWidth(Tabs[0], true),
		"inactive tabs carry their shortcut key")
}

func TestStatusBarFillsWidth(t *testing.T) {
	bar := RenderStatusBar(80, "q quit", "page 1/3")
	assert.Equal(t, 80, lipgloss.Width(bar))
	assert.True(t, strings.HasSuffix(strings.TrimRight(stripANSI(bar), " "), "page 1/3"))
}

func TestProgressBar(t *testing.T) {
	out := ProgressBar(0.5, 20)
	assert.Contains(t, out, "50%")
	assert.Equal(t, 25, lipgloss.Width(out))
	assert.Contains(t, ProgressBar(1.4, 10), "140%")
	assert.Equal(t, theme.Active.Income, ColorForProgress(1))
	assert.Equal(t, theme.Active.Danger, ColorForProgress(0.1))
}

func TestBarChart(t *testing.T) {
	out := BarChart([]Bar{
		{Label: "Rent", Value: 100, Text: "$100"},
		{Label: "Food", Value: 50, Text: "$50"},
	}, 40)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Greater(t, strings.Count(lines[0], "█"), strings.Count(lines[1], "█"))
	assert.Empty(t, BarChart(nil, 40))
}

func TestSparkline(t *testing.T) {
	out := stripANSI(Sparkline([]float64{0, 5, 10}, theme.Active.Accent))
	assert.Equal(t, "▁▄█", out)
	assert.Empty(t, Sparkline(nil, theme.Active.Accent))
}

func TestPairedBars(t *testing.T) {
	out := PairedBars([]string{"Jan", "Feb"},
		[]Series{{Name: "Income", Color: theme.Active.Income}, {Name: "Expenses", Color: theme.Active.Expense}},
		[][]float64{{10, 5}, {8, 8}}, 30)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 5, "legend plus two bars per label")
	assert.Contains(t, lines[0], "Income")
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
