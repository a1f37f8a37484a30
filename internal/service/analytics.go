package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/theirongolddev/ledgr/internal/api"
	"github.com/theirongolddev/ledgr/internal/model"
)

// Analytics serves the dashboard and yearly summaries.
type Analytics struct {
	api *api.Client
}

// NewAnalytics returns an Analytics service.
func NewAnalytics(c *api.Client) *Analytics {
	return &Analytics{api: c}
}

// Dashboard fetches the current dashboard snapshot.
func (s *Analytics) Dashboard(ctx context.Context) (model.DashboardSnapshot, error) {
	var out model.DashboardSnapshot
	if _, err := s.api.Get(ctx, "/api/v1/analytics/dashboard", nil, &out); err != nil {
		return model.DashboardSnapshot{}, fmt.Errorf("fetching dashboard: %w", err)
	}
	return out, nil
}

// Yearly fetches the summary for one calendar year.
func (s *Analytics) Yearly(ctx context.Context, year int) (model.YearlyAnalytics, error) {
	var out model.YearlyAnalytics
	if _, err := s.api.Get(ctx, "/api/v1/analytics/yearly/"+strconv.Itoa(year), nil, &out); err != nil {
		return model.YearlyAnalytics{}, fmt.Errorf("fetching %d analytics: %w", year, err)
	}
	if out.Year == 0 {
		out.Year = year
	}
	return out, nil
}
