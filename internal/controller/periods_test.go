package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/ledgr/internal/model"
)

func ts(y int, m time.Month, d int) *model.Timestamp {
	return &model.Timestamp{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestPeriodsSortedAndCompleted(t *testing.T) {
	src := &fakePeriods{periods: []model.BudgetPeriod{
		{ID: "old", StartedAt: ts(2024, 1, 25), Status: model.PeriodCompleted},
		{ID: "new", StartedAt: ts(2024, 3, 25), Status: model.PeriodActive},
		{ID: "mid", CreatedAt: *ts(2024, 2, 25), Status: model.PeriodCompleted},
	}}
	log, _ := testLogger()
	p := NewPeriods(context.Background(), src, log)
	drive(t, p.Init(), p.Update)

	var ids []string
	for _, bp := range p.View().Periods {
		ids = append(ids, bp.ID)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)

	assert.Nil(t, p.Complete("old", time.Now()), "completed periods cannot be closed again")
	assert.Nil(t, p.Complete("missing", time.Now()))

	cmd := p.Complete("new", time.Date(2024, 4, 24, 12, 0, 0, 0, time.UTC))
	require.NotNil(t, cmd)
	assert.Equal(t, "new", p.View().CompletingID)
	drive(t, cmd, p.Update)

	v := p.View()
	assert.Empty(t, v.CompletingID)
	assert.True(t, v.Periods[0].Completed())
	assert.Equal(t, []string{"new"}, src.completed)
	assert.Equal(t, 2, src.listCalls)
}

func TestPeriodCompleteFailure(t *testing.T) {
	src := &fakePeriods{periods: []model.BudgetPeriod{{ID: "p1", Status: model.PeriodActive}}, complErr: errors.New("409")}
	log, _ := testLogger()
	p := NewPeriods(context.Background(), src, log)
	drive(t, p.Init(), p.Update)

	drive(t, p.Complete("p1", time.Now()), p.Update)
	v := p.View()
	assert.Equal(t, MsgCompleteFailed, v.CompleteError)
	assert.False(t, v.Periods[0].Completed())
	assert.Equal(t, 1, src.listCalls)
}

func TestPeriodsListFailure(t *testing.T) {
	log, _ := testLogger()
	p := NewPeriods(context.Background(), &fakePeriods{err: errors.New("down")}, log)
	drive(t, p.Init(), p.Update)
	assert.Equal(t, MsgPeriodsFailed, p.View().Error)
}
