package controller

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/model"
)

// DefaultSavingSinceYear starts the year selector when the profile does not
// say when saving began.
const DefaultSavingSinceYear = 2020

// DashboardLoadedMsg carries a dashboard snapshot response.
type DashboardLoadedMsg struct {
	Seq      uint64
	Snapshot model.DashboardSnapshot
	Err      error
}

// YearlyLoadedMsg carries a yearly analytics response.
type YearlyLoadedMsg struct {
	Seq       uint64
	Year      int
	Analytics model.YearlyAnalytics
	Err       error
}

// DashboardView is the render-ready dashboard state. Snapshot pointers are
// never mutated after they are stored; a refetch replaces them.
type DashboardView struct {
	Loading         bool
	Error           string
	Dashboard       *model.DashboardSnapshot
	DashboardStatus Status
	Yearly          *model.YearlyAnalytics
	YearlyStatus    Status
	SelectedYear    int
}

// Dashboard reconciles the dashboard snapshot and the year-dependent
// yearly analytics into one view.
//
// A dashboard failure is user-visible and terminal until Retry. A yearly
// failure is logged and leaves the yearly section absent.
type Dashboard struct {
	ctx context.Context
	src AnalyticsSource
	log *logging.Logger

	dashSeq Sequencer
	yearSeq Sequencer

	started    bool
	dashStatus Status
	dashboard  *model.DashboardSnapshot
	err        string

	year       int
	yearStatus Status
	yearly     *model.YearlyAnalytics
}

// NewDashboard creates a dashboard controller with year preselected.
// Requests are derived from ctx and die with it.
func NewDashboard(ctx context.Context, src AnalyticsSource, log *logging.Logger, year int) *Dashboard {
	return &Dashboard{
		ctx:  ctx,
		src:  src,
		log:  log.WithComponent(logging.ComponentDashboard),
		year: year,
	}
}

// Init dispatches the dashboard snapshot (once per controller) and the
// yearly analytics for the selected year.
func (d *Dashboard) Init() tea.Cmd {
	if d.started {
		return nil
	}
	d.started = true
	return tea.Batch(d.fetchDashboard(), d.fetchYearly())
}

// Retry re-dispatches the dashboard snapshot, and the yearly analytics when
// their last fetch failed. Fetches already in flight are left alone.
func (d *Dashboard) Retry() tea.Cmd {
	var cmds []tea.Cmd
	if d.dashStatus != StatusLoading {
		d.started = true
		cmds = append(cmds, d.fetchDashboard())
	}
	if d.yearStatus == StatusFailed {
		cmds = append(cmds, d.fetchYearly())
	}
	return tea.Batch(cmds...)
}

// SelectYear switches the yearly section to year. The previous year's data
// is dropped immediately; it is not cached.
func (d *Dashboard) SelectYear(year int) tea.Cmd {
	if year == d.year && (d.yearStatus == StatusLoading || d.yearStatus == StatusReady) {
		return nil
	}
	d.year = year
	d.yearly = nil
	return d.fetchYearly()
}

// Year returns the selected year.
func (d *Dashboard) Year() int {
	return d.year
}

func (d *Dashboard) fetchDashboard() tea.Cmd {
	t := d.dashSeq.Begin(d.ctx)
	d.dashStatus = StatusLoading
	src := d.src
	return func() tea.Msg {
		snap, err := src.Dashboard(t.Ctx)
		return DashboardLoadedMsg{Seq: t.Seq, Snapshot: snap, Err: err}
	}
}

func (d *Dashboard) fetchYearly() tea.Cmd {
	t := d.yearSeq.Begin(d.ctx)
	d.yearStatus = StatusLoading
	year, src := d.year, d.src
	return func() tea.Msg {
		a, err := src.Yearly(t.Ctx, year)
		return YearlyLoadedMsg{Seq: t.Seq, Year: year, Analytics: a, Err: err}
	}
}

// Update applies a response. Responses from superseded dispatches are
// dropped. It reports whether msg changed the view.
func (d *Dashboard) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case DashboardLoadedMsg:
		if !d.dashSeq.Finish(msg.Seq) {
			return false
		}
		if msg.Err != nil {
			d.dashStatus = StatusFailed
			d.err = MsgDashboardFailed
			d.log.Error("dashboard fetch failed", logging.FieldError, msg.Err)
			return true
		}
		snap := msg.Snapshot
		d.dashboard = &snap
		d.dashStatus = StatusReady
		d.err = ""
		return true

	case YearlyLoadedMsg:
		if !d.yearSeq.Finish(msg.Seq) {
			d.log.Debug("dropping stale yearly response", logging.FieldYear, msg.Year, logging.FieldSeq, msg.Seq)
			return false
		}
		if msg.Err != nil {
			d.yearStatus = StatusFailed
			d.yearly = nil
			if !errors.Is(msg.Err, context.Canceled) {
				d.log.WarnErr(d.ctx, "yearly analytics fetch failed", msg.Err, logging.FieldYear, msg.Year)
			}
			return true
		}
		a := msg.Analytics
		d.yearly = &a
		d.yearStatus = StatusReady
		return true
	}
	return false
}

// View returns the current view model.
func (d *Dashboard) View() DashboardView {
	return DashboardView{
		Loading:         d.dashStatus == StatusLoading,
		Error:           d.err,
		Dashboard:       d.dashboard,
		DashboardStatus: d.dashStatus,
		Yearly:          d.yearly,
		YearlyStatus:    d.yearStatus,
		SelectedYear:    d.year,
	}
}

// Close cancels any in-flight requests and drops their responses.
func (d *Dashboard) Close() {
	d.dashSeq.Invalidate()
	d.yearSeq.Invalidate()
}

// YearOptions lists selectable years, oldest first, from the year saving
// began (DefaultSavingSinceYear when unknown) through now's year.
func YearOptions(stats *model.ProfileStats, now time.Time) []int {
	from := stats.SavingSinceYear(DefaultSavingSinceYear)
	to := now.Year()
	if from > to {
		from = to
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}
