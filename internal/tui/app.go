// Package tui provides the interactive Bubble Tea client for ledgr.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ledgr/internal/config"
	"github.com/theirongolddev/ledgr/internal/controller"
	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/store"
	"github.com/theirongolddev/ledgr/internal/tui/components"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

// Deps are the data sources and settings the app runs against.
type Deps struct {
	Profile    model.Profile
	Analytics  controller.AnalyticsSource
	Ledger     controller.TransactionSource
	Categories controller.CategoryLister
	Periods    controller.PeriodSource
	Goals      controller.GoalSource
	Settings   *store.DB // theme persistence; nil keeps the theme in memory
	Config     config.Config
	Logger     *logging.Logger
	Now        func() time.Time
}

type themeSavedMsg struct{ err error }

// SessionExpiredMsg reports that the server rejected the stored session.
// The app quits; SessionExpired reports it afterwards.
type SessionExpiredMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	profile  model.Profile
	currency string
	cfg      config.Config
	settings *store.DB
	log      *logging.Logger
	now      func() time.Time

	dash    *controller.Dashboard
	txs     *controller.Transactions
	periods *controller.Periods
	goals   *controller.Goals
	years   []int

	width     int
	height    int
	activeTab int
	showHelp  bool

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model

	txCursor     int
	periodCursor int
	goalCursor   int

	modal   *modal
	draft   *controller.TransactionDraft
	flash   string
	expired bool
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates the app. Requests are canceled when the app quits.
func NewApp(ctx context.Context, d Deps) App {
	ctx, cancel := context.WithCancel(ctx)
	log := d.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithComponent(logging.ComponentTUI)
	now := d.Now
	if now == nil {
		now = time.Now
	}

	years := controller.YearOptions(d.Profile.Stats, now())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		ctx:      ctx,
		cancel:   cancel,
		profile:  d.Profile,
		currency: d.Profile.User.CurrencyOrDefault(),
		cfg:      d.Config,
		settings: d.Settings,
		log:      log,
		now:      now,
		dash:     controller.NewDashboard(ctx, d.Analytics, log, years[len(years)-1]),
		txs:      controller.NewTransactions(ctx, d.Ledger, d.Categories, d.Periods, log, d.Config.PageSize()),
		periods:  controller.NewPeriods(ctx, d.Periods, log),
		goals:    controller.NewGoals(ctx, d.Goals, log, true),
		years:    years,
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  sp,
		viewport: viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		a.dash.Init(),
		a.txs.Init(),
		a.periods.Init(),
		a.goals.Init(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.update(msg)
	if app, ok := next.(App); ok {
		app.syncViewport()
		return app, cmd
	}
	return next, cmd
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.route(msg); ok {
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.modal != nil {
			a.modal.form = a.modal.form.WithWidth(a.modalWidth())
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case SessionExpiredMsg:
		a.expired = true
		return a.quit()

	case themeSavedMsg:
		if msg.err != nil {
			a.log.WarnErr(a.ctx, "saving theme failed", msg.err)
			a.flash = "Theme applied but could not be saved"
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		if a.modal != nil {
			return a.updateModal(msg)
		}
		return a.updateKey(msg)

	case tea.MouseMsg:
		if a.modal != nil || a.showHelp {
			return a, nil
		}
		return a.updateMouse(msg)
	}

	if a.modal != nil {
		return a.updateModal(msg)
	}
	return a, nil
}

// route hands controller results to their owner.
func (a *App) route(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case controller.DashboardLoadedMsg, controller.YearlyLoadedMsg:
		a.dash.Update(msg)
		return nil, true

	case controller.TransactionCreatedMsg:
		cmd := a.txs.Update(msg)
		v := a.txs.View()
		if v.CreateError != "" && a.draft != nil {
			return a.openModal(transactionForm(a.draft, v.Categories, v.CreateError)), true
		}
		a.draft = nil
		a.flash = "Transaction added"
		return cmd, true

	case controller.TransactionsLoadedMsg, controller.CategoriesLoadedMsg, controller.PeriodsLoadedMsg:
		cmd := a.txs.Update(msg)
		a.txCursor = clampCursor(a.txCursor, len(a.txs.View().Items))
		return cmd, true

	case controller.PeriodsLoadedListMsg, controller.PeriodCompletedMsg:
		cmd := a.periods.Update(msg)
		a.periodCursor = clampCursor(a.periodCursor, len(a.periods.View().Periods))
		return cmd, true

	case controller.GoalsLoadedMsg:
		cmd := a.goals.Update(msg)
		a.goalCursor = clampCursor(a.goalCursor, len(a.goals.View().Goals))
		return cmd, true

	case controller.GoalMutatedMsg:
		cmd := a.goals.Update(msg)
		v := a.goals.View()
		if v.MutationError != "" {
			a.flash = v.MutationError
		} else {
			a.flash = v.Notice
		}
		return cmd, true
	}
	return nil, false
}

// SessionExpired reports whether the app quit because the session ended.
func (a App) SessionExpired() bool {
	return a.expired
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.dash.Close()
	a.txs.Close()
	a.cancel()
	return a, tea.Quit
}

func (a *App) openModal(m *modal) tea.Cmd {
	a.modal = m
	if a.width > 0 {
		m.form = m.form.WithWidth(a.modalWidth())
	}
	return m.form.Init()
}

func (a App) modalWidth() int {
	return min(max(a.width-10, 40), 72)
}

func (a App) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	m := a.modal
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, a.keys.Back) {
		a.dismissModal()
		return a, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		a.modal = nil
		next := m.submit(&a)
		return a, next
	case huh.StateAborted:
		a.dismissModal()
		return a, nil
	}
	return a, cmd
}

func (a *App) dismissModal() {
	m := a.modal
	a.modal = nil
	if m != nil && m.cancel != nil {
		m.cancel(a)
	}
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Help) {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}
	a.flash = ""

	if tab := components.TabIdxByKey(msg.String()); tab >= 0 {
		a.activeTab = tab
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.NextTab):
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case key.Matches(msg, a.keys.PrevTab):
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}

	var cmd tea.Cmd
	switch a.activeTab {
	case components.TabDashboard:
		cmd = a.updateDashboardKey(msg)
	case components.TabTransactions:
		cmd = a.updateTransactionsKey(msg)
	case components.TabPeriods:
		cmd = a.updatePeriodsKey(msg)
	case components.TabGoals:
		cmd = a.updateGoalsKey(msg)
	case components.TabSettings:
		cmd = a.updateSettingsKey(msg)
	}
	return a, cmd
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case components.TabDashboard:
		if delta < 0 {
			a.viewport.ScrollUp(-delta)
		} else {
			a.viewport.ScrollDown(delta)
		}
	case components.TabTransactions:
		a.txCursor = clampCursor(a.txCursor+delta, len(a.txs.View().Items))
	case components.TabPeriods:
		a.periodCursor = clampCursor(a.periodCursor+delta, len(a.periods.View().Periods))
	case components.TabGoals:
		a.goalCursor = clampCursor(a.goalCursor+delta, len(a.goals.View().Goals))
	}
}

// tabAtX returns the tab under column x of the tab bar, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

func clampCursor(c, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(c, 0), n-1)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) contentHeight() int {
	return max(a.height-2, minContentHeight)
}

// syncViewport re-renders the scrollable dashboard so scrolling clamps to
// the current content.
func (a *App) syncViewport() {
	if a.width == 0 {
		return
	}
	a.viewport.Width = a.contentWidth()
	a.viewport.Height = a.contentHeight()
	a.viewport.SetContent(a.renderDashboardTab(a.contentWidth()))
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  ledgr needs at least %d columns.\n", a.width, minTerminalWidth)
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewMain() string {
	t := theme.Active
	w, cw := a.width, a.contentWidth()

	greeting := ""
	if name := a.profile.User.FirstName(); name != "" {
		greeting = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Hi, " + name + " ")
	}
	header := components.RenderTabBar(a.activeTab, w, greeting)

	status := a.flash
	if a.busy() {
		status = a.spinner.View() + " loading"
	}
	hints := a.help.ShortHelpView(a.keys.tabKeys(a.activeTab))
	statusBar := components.RenderStatusBar(w, hints, status)

	contentH := a.contentHeight()
	var content string
	switch {
	case a.modal != nil:
		content = lipgloss.Place(cw, contentH, lipgloss.Center, lipgloss.Center,
			components.FocusCard(a.modal.title, a.modal.form.View(), a.modalWidth()+4),
			lipgloss.WithWhitespaceBackground(t.Background))
	case a.activeTab == components.TabDashboard:
		content = a.viewport.View()
	case a.activeTab == components.TabTransactions:
		content = a.renderTransactionsTab(cw, contentH)
	case a.activeTab == components.TabPeriods:
		content = a.renderPeriodsTab(cw, contentH)
	case a.activeTab == components.TabGoals:
		content = a.renderGoalsTab(cw)
	case a.activeTab == components.TabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (a App) busy() bool {
	return a.dash.View().Loading || a.txs.View().Loading || a.txs.View().Creating ||
		a.periods.View().Loading || a.goals.View().Loading || a.goals.View().Pending != ""
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	sections := []struct {
		title string
		binds []key.Binding
	}{
		{"Navigation", []key.Binding{a.keys.NextTab, a.keys.PrevTab, a.keys.Up, a.keys.Down}},
		{"Dashboard", []key.Binding{a.keys.PrevYear, a.keys.NextYear, a.keys.Reload}},
		{"Transactions", []key.Binding{a.keys.Open, a.keys.Back, a.keys.NextPage, a.keys.PrevPage, a.keys.JumpPage, a.keys.Filter, a.keys.Clear, a.keys.Add}},
		{"Periods and goals", []key.Binding{a.keys.Close, a.keys.Add, a.keys.Give, a.keys.Delete}},
	}

	var b strings.Builder
	b.WriteString(keyStyle.Render("1-5") + descStyle.Render("  jump to tab") + "\n")
	for _, s := range sections {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true).Render(s.title) + "\n")
		for _, bind := range s.binds {
			h := bind.Help()
			fmt.Fprintf(&b, "%s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", h.Key)), descStyle.Render(h.Desc))
		}
	}
	b.WriteString("\n" + descStyle.Render("Press any key to close"))

	card := components.FocusCard("Keyboard shortcuts", b.String(), 50)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to w with bg.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
