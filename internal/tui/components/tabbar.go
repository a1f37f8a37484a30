package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

// Tab is one entry of the tab bar.
type Tab struct {
	Name string
	Key  string
}

// Tabs are the top-level screens, in order.
var Tabs = []Tab{
	{Name: "Dashboard", Key: "1"},
	{Name: "Transactions", Key: "2"},
	{Name: "Periods", Key: "3"},
	{Name: "Goals", Key: "4"},
	{Name: "Settings", Key: "5"},
}

// Tab indexes.
const (
	TabDashboard = iota
	TabTransactions
	TabPeriods
	TabGoals
	TabSettings
)

func tabLabel(tab Tab, active bool) string {
	t := theme.Active
	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(tab.Key)
	name := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" " + tab.Name)
	return lipgloss.NewStyle().Background(t.Surface).Padding(0, 1).Render(key + name)
}

// TabVisualWidth is the rendered width of tab.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active))
}

// RenderTabBar renders the tab bar with activeIdx highlighted, followed by
// right, right-aligned.
func RenderTabBar(activeIdx, width int, right string) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = tabLabel(tab, i == activeIdx)
	}
	left := strings.Join(parts, sep)

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	fill := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap))
	return left + fill + right
}

// TabIdxByKey returns the tab bound to key, or -1.
func TabIdxByKey(key string) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
