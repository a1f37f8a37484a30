package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/ledgr/internal/api"
	"github.com/theirongolddev/ledgr/internal/model"
)

// Goals manages financial goals.
type Goals struct {
	api *api.Client
}

// NewGoals returns a Goals service.
func NewGoals(c *api.Client) *Goals {
	return &Goals{api: c}
}

// List fetches goals filtered by active status.
func (s *Goals) List(ctx context.Context, active bool) ([]model.FinancialGoal, error) {
	q := url.Values{}
	q.Set("is_active", strconv.FormatBool(active))

	var out []model.FinancialGoal
	if _, err := s.api.Get(ctx, "/api/v1/goals/", q, &out); err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	return out, nil
}

// Create adds a goal.
func (s *Goals) Create(ctx context.Context, g model.NewGoal) (model.FinancialGoal, error) {
	var out model.FinancialGoal
	if _, err := s.api.Post(ctx, "/api/v1/goals/", nil, g, &out); err != nil {
		return model.FinancialGoal{}, fmt.Errorf("creating goal: %w", err)
	}
	return out, nil
}

// Get fetches one goal.
func (s *Goals) Get(ctx context.Context, id string) (model.FinancialGoal, error) {
	if err := checkID("goal", id); err != nil {
		return model.FinancialGoal{}, err
	}
	var out model.FinancialGoal
	if _, err := s.api.Get(ctx, pathID("/api/v1/goals/", id), nil, &out); err != nil {
		return model.FinancialGoal{}, fmt.Errorf("fetching goal: %w", err)
	}
	return out, nil
}

// Update changes the non-nil fields of u.
func (s *Goals) Update(ctx context.Context, id string, u model.GoalUpdate) (model.FinancialGoal, error) {
	if err := checkID("goal", id); err != nil {
		return model.FinancialGoal{}, err
	}
	var out model.FinancialGoal
	if _, err := s.api.Put(ctx, pathID("/api/v1/goals/", id), u, &out); err != nil {
		return model.FinancialGoal{}, fmt.Errorf("updating goal: %w", err)
	}
	return out, nil
}

// Delete removes a goal and returns the server's message.
func (s *Goals) Delete(ctx context.Context, id string) (string, error) {
	if err := checkID("goal", id); err != nil {
		return "", err
	}
	var out struct {
		Message string `json:"message"`
	}
	if _, err := s.api.Delete(ctx, pathID("/api/v1/goals/", id), &out); err != nil {
		return "", fmt.Errorf("deleting goal: %w", err)
	}
	return out.Message, nil
}

// Contribute adds amount to a goal's current amount.
func (s *Goals) Contribute(ctx context.Context, id string, amount decimal.Decimal) (string, error) {
	if err := checkID("goal", id); err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("amount", amount.String())

	var out struct {
		Message string `json:"message"`
	}
	if _, err := s.api.Patch(ctx, pathID("/api/v1/goals/", id)+"/contribute", q, nil, &out); err != nil {
		return "", fmt.Errorf("contributing to goal: %w", err)
	}
	return out.Message, nil
}
