package controller

import (
	"context"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/model"
)

// PeriodsLoadedListMsg carries the period list for the periods screen.
type PeriodsLoadedListMsg struct {
	Seq     uint64
	Periods []model.BudgetPeriod
	Err     error
}

// PeriodCompletedMsg carries the result of closing a period.
type PeriodCompletedMsg struct {
	ID     string
	Period model.BudgetPeriod
	Err    error
}

// PeriodsView is the render-ready periods state, newest period first.
type PeriodsView struct {
	Periods       []model.BudgetPeriod
	Loading       bool
	Error         string
	CompletingID  string
	CompleteError string
}

// Periods lists budget periods and closes them.
type Periods struct {
	ctx context.Context
	src PeriodSource
	log *logging.Logger

	seq        Sequencer
	status     Status
	err        string
	periods    []model.BudgetPeriod
	completing string
	compErr    string
}

// NewPeriods creates a periods controller.
func NewPeriods(ctx context.Context, src PeriodSource, log *logging.Logger) *Periods {
	return &Periods{ctx: ctx, src: src, log: log.WithComponent(logging.ComponentPeriods)}
}

// Init fetches the list.
func (p *Periods) Init() tea.Cmd {
	return p.Reload()
}

// Reload refetches the list.
func (p *Periods) Reload() tea.Cmd {
	t := p.seq.Begin(p.ctx)
	p.status = StatusLoading
	src := p.src
	return func() tea.Msg {
		periods, err := src.List(t.Ctx)
		return PeriodsLoadedListMsg{Seq: t.Seq, Periods: periods, Err: err}
	}
}

// Find returns the loaded period with id.
func (p *Periods) Find(id string) (model.BudgetPeriod, bool) {
	for _, bp := range p.periods {
		if bp.ID == id {
			return bp, true
		}
	}
	return model.BudgetPeriod{}, false
}

// Complete closes the period with id at endedAt. Completed periods, unknown
// ids and a second close while one is in flight are ignored.
func (p *Periods) Complete(id string, endedAt time.Time) tea.Cmd {
	if p.completing != "" {
		return nil
	}
	bp, ok := p.Find(id)
	if !ok || bp.Completed() {
		return nil
	}
	p.completing = id
	p.compErr = ""

	ctx, src := p.ctx, p.src
	return func() tea.Msg {
		done, err := src.Complete(ctx, id, endedAt)
		return PeriodCompletedMsg{ID: id, Period: done, Err: err}
	}
}

// Update applies msg and returns any follow-up command.
func (p *Periods) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PeriodsLoadedListMsg:
		if !p.seq.Finish(msg.Seq) {
			return nil
		}
		if msg.Err != nil {
			p.status = StatusFailed
			p.err = MsgPeriodsFailed
			p.log.Error("periods fetch failed", logging.FieldError, msg.Err)
			return nil
		}
		p.status = StatusReady
		p.err = ""
		p.periods = model.SortPeriodsNewestFirst(msg.Periods)

	case PeriodCompletedMsg:
		p.completing = ""
		if msg.Err != nil {
			p.compErr = MsgCompleteFailed
			p.log.Error("complete period failed", logging.FieldError, msg.Err)
			return nil
		}
		return p.Reload()
	}
	return nil
}

// View returns the current view model.
func (p *Periods) View() PeriodsView {
	return PeriodsView{
		Periods:       slices.Clone(p.periods),
		Loading:       p.status == StatusLoading,
		Error:         p.err,
		CompletingID:  p.completing,
		CompleteError: p.compErr,
	}
}
