package controller

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/model"
)

// GoalOp names a goal mutation.
type GoalOp string

const (
	GoalCreate     GoalOp = "create"
	GoalDelete     GoalOp = "delete"
	GoalContribute GoalOp = "contribute"
)

var goalOpFailures = map[GoalOp]string{
	GoalCreate:     "Failed to create goal. Please try again.",
	GoalDelete:     "Failed to delete goal. Please try again.",
	GoalContribute: "Failed to add contribution. Please try again.",
}

// GoalsLoadedMsg carries the goal list.
type GoalsLoadedMsg struct {
	Seq   uint64
	Goals []model.FinancialGoal
	Err   error
}

// GoalMutatedMsg carries the result of a create, delete or contribution.
type GoalMutatedMsg struct {
	Op      GoalOp
	GoalID  string
	Message string
	Err     error
}

// GoalsView is the render-ready goals state.
type GoalsView struct {
	Goals         []model.FinancialGoal
	Loading       bool
	Error         string
	Pending       GoalOp
	PendingID     string
	MutationError string
	Notice        string
}

// Goals lists goals and applies mutations by refetching the full list.
// The displayed list is never edited locally.
type Goals struct {
	ctx    context.Context
	src    GoalSource
	log    *logging.Logger
	active bool

	seq     Sequencer
	status  Status
	err     string
	goals   []model.FinancialGoal
	pending GoalOp
	pendID  string
	mutErr  string
	notice  string
}

// NewGoals creates a goals controller listing active (or inactive) goals.
func NewGoals(ctx context.Context, src GoalSource, log *logging.Logger, active bool) *Goals {
	return &Goals{ctx: ctx, src: src, log: log.WithComponent(logging.ComponentGoals), active: active}
}

// Init fetches the list.
func (g *Goals) Init() tea.Cmd {
	return g.Reload()
}

// Reload refetches the list.
func (g *Goals) Reload() tea.Cmd {
	t := g.seq.Begin(g.ctx)
	g.status = StatusLoading
	src, active := g.src, g.active
	return func() tea.Msg {
		goals, err := src.List(t.Ctx, active)
		return GoalsLoadedMsg{Seq: t.Seq, Goals: goals, Err: err}
	}
}

// Create validates d and creates the goal.
func (g *Goals) Create(d GoalDraft) tea.Cmd {
	body, err := d.Build()
	if err != nil {
		g.mutErr = err.Error()
		return nil
	}
	src := g.src
	return g.mutate(GoalCreate, "", func(ctx context.Context) (string, error) {
		created, err := src.Create(ctx, body)
		return created.Name, err
	})
}

// Delete removes the goal with id.
func (g *Goals) Delete(id string) tea.Cmd {
	src := g.src
	return g.mutate(GoalDelete, id, func(ctx context.Context) (string, error) {
		return src.Delete(ctx, id)
	})
}

// Contribute adds amount to the goal with id. The amount must be positive.
func (g *Goals) Contribute(id, amount string) tea.Cmd {
	v, err := parsePositive("contribution", amount)
	if err != nil {
		g.mutErr = err.Error()
		return nil
	}
	src := g.src
	return g.mutate(GoalContribute, id, func(ctx context.Context) (string, error) {
		return src.Contribute(ctx, id, v)
	})
}

func (g *Goals) mutate(op GoalOp, id string, fn func(context.Context) (string, error)) tea.Cmd {
	if g.pending != "" {
		return nil
	}
	g.pending, g.pendID = op, id
	g.mutErr, g.notice = "", ""

	ctx := g.ctx
	return func() tea.Msg {
		msg, err := fn(ctx)
		return GoalMutatedMsg{Op: op, GoalID: id, Message: msg, Err: err}
	}
}

// Update applies msg and returns any follow-up command.
func (g *Goals) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case GoalsLoadedMsg:
		if !g.seq.Finish(msg.Seq) {
			return nil
		}
		if msg.Err != nil {
			g.status = StatusFailed
			g.err = MsgGoalsFailed
			g.log.Error("goals fetch failed", logging.FieldError, msg.Err)
			return nil
		}
		g.status = StatusReady
		g.err = ""
		g.goals = msg.Goals

	case GoalMutatedMsg:
		g.pending, g.pendID = "", ""
		if msg.Err != nil {
			g.mutErr = goalOpFailures[msg.Op]
			g.log.Error("goal mutation failed", "op", string(msg.Op), logging.FieldError, msg.Err)
			return nil
		}
		g.notice = msg.Message
		return g.Reload()
	}
	return nil
}

// View returns the current view model.
func (g *Goals) View() GoalsView {
	return GoalsView{
		Goals:         slices.Clone(g.goals),
		Loading:       g.status == StatusLoading,
		Error:         g.err,
		Pending:       g.pending,
		PendingID:     g.pendID,
		MutationError: g.mutErr,
		Notice:        g.notice,
	}
}
