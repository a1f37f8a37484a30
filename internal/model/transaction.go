package model

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Transaction types accepted by the API.
const (
	TypeIncome     = "income"
	TypeExpense    = "expense"
	TypeSaving     = "saving"
	TypeInvestment = "investment"
)

// TransactionTypes lists every transaction type in display order.
var TransactionTypes = []string{TypeIncome, TypeExpense, TypeSaving, TypeInvestment}

// Transaction is one ledger entry.
type Transaction struct {
	ID                 string          `json:"id"`
	Amount             decimal.Decimal `json:"amount"`
	Description        *string         `json:"description"`
	TransactedAt       Timestamp       `json:"transacted_at"`
	Type               string          `json:"type"`
	CategoryID         string          `json:"category_id"`
	BudgetPeriodID     string          `json:"budget_period_id"`
	PaymentMethod      *string         `json:"payment_method"`
	Tags               []string        `json:"tags"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency *string         `json:"recurring_frequency"`
	Category           *Category       `json:"category"`
	CreatedAt          Timestamp       `json:"created_at"`
}

// DescriptionOr returns the description or fallback when absent.
func (t Transaction) DescriptionOr(fallback string) string {
	if t.Description == nil || *t.Description == "" {
		return fallback
	}
	return *t.Description
}

// CategoryName returns the embedded category name, if the API included one.
func (t Transaction) CategoryName() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Name
}

// paymentMethodLabels maps API payment method codes to display labels.
var paymentMethodLabels = map[string]string{
	"cash":           "Cash",
	"credit_card":    "Credit Card",
	"debit_card":     "Debit Card",
	"bank_transfer":  "Bank Transfer",
	"direct_debit":   "Direct Debit",
	"digital_wallet": "Digital Wallet",
	"direct_credit":  "Direct Credit",
}

// PaymentMethodLabel returns the display label for the payment method,
// the raw code when unknown, or "" when absent.
func (t Transaction) PaymentMethodLabel() string {
	if t.PaymentMethod == nil || *t.PaymentMethod == "" {
		return ""
	}
	if label, ok := paymentMethodLabels[*t.PaymentMethod]; ok {
		return label
	}
	return *t.PaymentMethod
}

// TransactionFilter narrows a transaction listing. Empty fields are unset.
type TransactionFilter struct {
	CategoryID string
	PeriodID   string
	Type       string
	StartDate  string
	EndDate    string
}

// Active reports whether any filter field is set.
func (f TransactionFilter) Active() bool {
	return f != TransactionFilter{}
}

// Query builds the listing query. Only non-empty filters are included.
func (f TransactionFilter) Query(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	setIf := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	setIf("category_id", f.CategoryID)
	setIf("period_id", f.PeriodID)
	setIf("transaction_type", f.Type)
	setIf("start_date", f.StartDate)
	setIf("end_date", f.EndDate)
	return q
}

// Pagination is the server-authoritative paging metadata.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// TransactionPage is one page of a listing. Item order is the server's.
type TransactionPage struct {
	Items      []Transaction
	Pagination Pagination
}

// NewTransaction is the POST /api/v1/transactions/ body.
type NewTransaction struct {
	Amount             string   `json:"amount"`
	Description        *string  `json:"description"`
	TransactedAt       string   `json:"transacted_at"`
	Type               string   `json:"type"`
	CategoryID         string   `json:"category_id"`
	PaymentMethod      *string  `json:"payment_method"`
	Tags               []string `json:"tags"`
	IsRecurring        bool     `json:"is_recurring"`
	RecurringFrequency *string  `json:"recurring_frequency"`
}

// Category is a user-defined transaction category.
type Category struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}
