package controller

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/ledgr/internal/model"
)

// RecurringFrequencies are the accepted recurrence values.
var RecurringFrequencies = []string{"daily", "weekly", "monthly", "yearly"}

// TransactionDraft is the create-transaction form as typed by the user.
type TransactionDraft struct {
	Amount             string
	Description        string
	Date               string // 2006-01-02; empty means today
	Time               string // 15:04; empty means now
	Type               string
	CategoryID         string
	PaymentMethod      string
	Tags               string // comma separated
	IsRecurring        bool
	RecurringFrequency string
}

// NewTransactionDraft returns a draft with the form defaults: an expense
// dated now.
func NewTransactionDraft(now time.Time) TransactionDraft {
	return TransactionDraft{
		Date: now.Format("2006-01-02"),
		Time: now.Format("15:04"),
		Type: model.TypeExpense,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Validate checks required fields: amount, type and category, plus the
// frequency when the transaction recurs.
func (d TransactionDraft) Validate() error {
	amount := strings.TrimSpace(d.Amount)
	if amount == "" {
		return invalid("amount is required")
	}
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return invalid("amount %q is not a number", amount)
	}
	if !v.IsPositive() {
		return invalid("amount must be greater than zero")
	}
	if d.Type == "" {
		return invalid("type is required")
	}
	if !slices.Contains(model.TransactionTypes, d.Type) {
		return invalid("unknown type %q", d.Type)
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		return invalid("category is required")
	}
	if d.Date != "" {
		if _, err := time.Parse("2006-01-02", d.Date); err != nil {
			return invalid("date %q must look like 2006-01-02", d.Date)
		}
	}
	if d.Time != "" {
		if _, err := time.Parse("15:04", d.Time); err != nil {
			return invalid("time %q must look like 15:04", d.Time)
		}
	}
	if d.IsRecurring && strings.TrimSpace(d.RecurringFrequency) == "" {
		return invalid("frequency is required for recurring transactions")
	}
	return nil
}

// Build validates the draft and converts it into the request body. The
// date and time are sent as typed, marked UTC, without zone conversion.
func (d TransactionDraft) Build(now time.Time) (model.NewTransaction, error) {
	if err := d.Validate(); err != nil {
		return model.NewTransaction{}, err
	}

	date, clock := d.Date, d.Time
	if date == "" {
		date = now.Format("2006-01-02")
	}
	if clock == "" {
		clock = now.Format("15:04")
	}

	tx := model.NewTransaction{
		Amount:        strings.TrimSpace(d.Amount),
		Description:   optional(d.Description),
		TransactedAt:  date + "T" + clock + ":00.000Z",
		Type:          d.Type,
		CategoryID:    strings.TrimSpace(d.CategoryID),
		PaymentMethod: optional(d.PaymentMethod),
		Tags:          splitTags(d.Tags),
		IsRecurring:   d.IsRecurring,
	}
	if d.IsRecurring {
		tx.RecurringFrequency = optional(d.RecurringFrequency)
	}
	return tx, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// GoalDraft is the create-goal form.
type GoalDraft struct {
	Name         string
	TargetAmount string
	TargetDate   string // optional, 2006-01-02
	Category     string
}

// Build validates the draft: a name and a positive target are required.
func (g GoalDraft) Build() (model.NewGoal, error) {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return model.NewGoal{}, invalid("name is required")
	}
	target, err := parsePositive("target amount", g.TargetAmount)
	if err != nil {
		return model.NewGoal{}, err
	}
	if g.TargetDate != "" {
		if _, err := time.Parse("2006-01-02", g.TargetDate); err != nil {
			return model.NewGoal{}, invalid("target date %q must look like 2006-01-02", g.TargetDate)
		}
	}
	return model.NewGoal{
		Name:         name,
		TargetAmount: target.String(),
		TargetDate:   optional(g.TargetDate),
		Category:     optional(g.Category),
	}, nil
}

func parsePositive(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, invalid("%s is required", field)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid("%s %q is not a number", field, raw)
	}
	if !v.IsPositive() {
		return decimal.Zero, invalid("%s must be greater than zero", field)
	}
	return v, nil
}
