package service

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/ledgr/internal/api"
	"github.com/theirongolddev/ledgr/internal/model"
)

// Periods lists and closes budget periods.
type Periods struct {
	api *api.Client
}

// NewPeriods returns a Periods service.
func NewPeriods(c *api.Client) *Periods {
	return &Periods{api: c}
}

// List fetches all periods in server order.
func (s *Periods) List(ctx context.Context) ([]model.BudgetPeriod, error) {
	var out []model.BudgetPeriod
	if _, err := s.api.Get(ctx, "/api/v1/periods/", nil, &out); err != nil {
		return nil, fmt.Errorf("listing periods: %w", err)
	}
	return out, nil
}

// Complete closes the period at endedAt.
func (s *Periods) Complete(ctx context.Context, id string, endedAt time.Time) (model.BudgetPeriod, error) {
	if err := checkID("period", id); err != nil {
		return model.BudgetPeriod{}, err
	}
	body := map[string]string{"ended_at": endedAt.Format("2006-01-02T15:04:05")}

	var out model.BudgetPeriod
	if _, err := s.api.Post(ctx, pathID("/api/v1/periods/", id)+"/complete", nil, body, &out); err != nil {
		return model.BudgetPeriod{}, fmt.Errorf("completing period: %w", err)
	}
	return out, nil
}
