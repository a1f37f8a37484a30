package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/theirongolddev/ledgr/internal/api"
	"github.com/theirongolddev/ledgr/internal/model"
)

// Categories lists transaction categories.
type Categories struct {
	api *api.Client
}

// NewCategories returns a Categories service.
func NewCategories(c *api.Client) *Categories {
	return &Categories{api: c}
}

// List fetches every category.
func (s *Categories) List(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if _, err := s.api.Get(ctx, "/api/v1/categories/", nil, &out); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return out, nil
}

// CategoryNotFoundError carries the closest known name, if any.
type CategoryNotFoundError struct {
	Name       string
	Suggestion string
}

func (e *CategoryNotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown category %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown category %q", e.Name)
}

// ResolveCategory matches name against cats by id, then case-insensitive
// name. A miss returns *CategoryNotFoundError with a suggestion within
// edit distance 3.
func ResolveCategory(cats []model.Category, name string) (model.Category, error) {
	want := strings.TrimSpace(name)
	for _, c := range cats {
		if c.ID == want || strings.EqualFold(c.Name, want) {
			return c, nil
		}
	}

	best, bestDist := "", 4
	lower := strings.ToLower(want)
	for _, c := range cats {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c.Name))
		if d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return model.Category{}, &CategoryNotFoundError{Name: want, Suggestion: best}
}
