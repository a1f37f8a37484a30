package service

import (
	"context"
	"fmt"

	"github.com/theirongolddev/ledgr/internal/api"
	"github.com/theirongolddev/ledgr/internal/model"
)

// Transactions lists and creates ledger entries.
type Transactions struct {
	api *api.Client
}

// NewTransactions returns a Transactions service.
func NewTransactions(c *api.Client) *Transactions {
	return &Transactions{api: c}
}

// List fetches one filtered page. Pagination is taken verbatim from the
// response meta; when the server omits it only Page and Limit are filled.
func (s *Transactions) List(ctx context.Context, f model.TransactionFilter, page, limit int) (model.TransactionPage, error) {
	var items []model.Transaction
	meta, err := s.api.Get(ctx, "/api/v1/transactions/", f.Query(page, limit), &items)
	if err != nil {
		return model.TransactionPage{}, fmt.Errorf("listing transactions: %w", err)
	}

	out := model.TransactionPage{Items: items}
	if meta.Pagination != nil {
		out.Pagination = *meta.Pagination
	} else {
		out.Pagination = model.Pagination{Page: page, Limit: limit}
	}
	return out, nil
}

// Create posts a new transaction.
func (s *Transactions) Create(ctx context.Context, tx model.NewTransaction) (model.Transaction, error) {
	var out model.Transaction
	if _, err := s.api.Post(ctx, "/api/v1/transactions/", nil, tx, &out); err != nil {
		return model.Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}
	return out, nil
}
