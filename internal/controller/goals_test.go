package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/ledgr/internal/model"
)

func newGoals(t *testing.T, src *fakeGoals) *Goals {
	t.Helper()
	log, _ := testLogger()
	g := NewGoals(context.Background(), src, log, true)
	drive(t, g.Init(), g.Update)
	return g
}

func TestGoalMutationsRefetchList(t *testing.T) {
	src := &fakeGoals{goals: []model.FinancialGoal{{ID: "g1", Name: "Car", CurrentAmount: decimal.NewFromInt(10)}}}
	g := newGoals(t, src)
	require.Len(t, g.View().Goals, 1)

	drive(t, g.Contribute("g1", "15"), g.Update)
	v := g.View()
	assert.Equal(t, "25", v.Goals[0].CurrentAmount.String())
	assert.Equal(t, "Contribution added", v.Notice)
	assert.Equal(t, 2, src.listCalls)

	drive(t, g.Create(GoalDraft{Name: "House", TargetAmount: "100000"}), g.Update)
	assert.Len(t, g.View().Goals, 2)

	drive(t, g.Delete("g1"), g.Update)
	v = g.View()
	require.Len(t, v.Goals, 1)
	assert.Equal(t, "House", v.Goals[0].Name)
	assert.Equal(t, 4, src.listCalls)
	assert.Empty(t, v.Pending)
}

func TestGoalMutationFailureKeepsList(t *testing.T) {
	src := &fakeGoals{goals: []model.FinancialGoal{{ID: "g1", Name: "Car"}}}
	g := newGoals(t, src)
	src.mutErr = errors.New("500")

	drive(t, g.Delete("g1"), g.Update)
	v := g.View()
	assert.Equal(t, "Failed to delete goal. Please try again.", v.MutationError)
	assert.Len(t, v.Goals, 1)
	assert.Equal(t, 1, src.listCalls, "no refetch after a failed mutation")
}

func TestGoalContributionValidation(t *testing.T) {
	src := &fakeGoals{}
	g := newGoals(t, src)

	for _, amount := range []string{"", "abc", "0", "-5"} {
		assert.Nil(t, g.Contribute("g1", amount), amount)
		assert.Contains(t, g.View().MutationError, "contribution")
	}
}

func TestGoalListFailure(t *testing.T) {
	g := newGoals(t, &fakeGoals{listErr: errors.New("timeout")})
	v := g.View()
	assert.Equal(t, MsgGoalsFailed, v.Error)
	assert.False(t, v.Loading)
}

func TestGoalOneMutationAtATime(t *testing.T) {
	src := &fakeGoals{goals: []model.FinancialGoal{{ID: "g1"}}}
	g := newGoals(t, src)

	first := g.Delete("g1")
	require.NotNil(t, first)
	assert.Nil(t, g.Contribute("g1", "5"))
	assert.Equal(t, GoalDelete, g.View().Pending)
	assert.Equal(t, "g1", g.View().PendingID)
}
