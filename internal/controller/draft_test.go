package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/ledgr/internal/model"
)

func TestDraftBuild(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	d := TransactionDraft{
		Amount:             " 12.50 ",
		Description:        "  ",
		Date:               "2024-04-30",
		Time:               "18:05",
		Type:               model.TypeExpense,
		CategoryID:         "cat-1",
		PaymentMethod:      "credit_card",
		Tags:               "food, ,weekly ,",
		RecurringFrequency: "monthly",
	}

	tx, err := d.Build(now)
	require.NoError(t, err)
	assert.Equal(t, "12.50", tx.Amount)
	assert.Nil(t, tx.Description)
	assert.Equal(t, "2024-04-30T18:05:00.000Z", tx.TransactedAt)
	require.NotNil(t, tx.PaymentMethod)
	assert.Equal(t, "credit_card", *tx.PaymentMethod)
	assert.Equal(t, []string{"food", "weekly"}, tx.Tags)
	assert.False(t, tx.IsRecurring)
	assert.Nil(t, tx.RecurringFrequency, "frequency only sent for recurring transactions")
}

func TestDraftBuildDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	tx, err := TransactionDraft{Amount: "1", Type: model.TypeIncome, CategoryID: "c", IsRecurring: true, RecurringFrequency: "weekly"}.Build(now)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T09:30:00.000Z", tx.TransactedAt)
	assert.Nil(t, tx.Tags)
	require.NotNil(t, tx.RecurringFrequency)
	assert.Equal(t, "weekly", *tx.RecurringFrequency)
}

func TestDraftValidate(t *testing.T) {
	valid := TransactionDraft{Amount: "10", Type: model.TypeSaving, CategoryID: "c"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*TransactionDraft)
		want   string
	}{
		{"missing amount", func(d *TransactionDraft) { d.Amount = "" }, "amount is required"},
		{"bad amount", func(d *TransactionDraft) { d.Amount = "ten" }, "not a number"},
		{"zero amount", func(d *TransactionDraft) { d.Amount = "0" }, "greater than zero"},
		{"missing type", func(d *TransactionDraft) { d.Type = "" }, "type is required"},
		{"unknown type", func(d *TransactionDraft) { d.Type = "gift" }, "unknown type"},
		{"missing category", func(d *TransactionDraft) { d.CategoryID = " " }, "category is required"},
		{"bad date", func(d *TransactionDraft) { d.Date = "01/05/2024" }, "date"},
		{"bad time", func(d *TransactionDraft) { d.Time = "9am" }, "time"},
		{"recurring without frequency", func(d *TransactionDraft) { d.IsRecurring = true }, "frequency is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGoalDraftBuild(t *testing.T) {
	g, err := GoalDraft{Name: " Holiday ", TargetAmount: "1500.00", TargetDate: "2025-12-01"}.Build()
	require.NoError(t, err)
	assert.Equal(t, "Holiday", g.Name)
	assert.Equal(t, "1500", g.TargetAmount)
	require.NotNil(t, g.TargetDate)
	assert.Nil(t, g.Category)

	_, err = GoalDraft{TargetAmount: "10"}.Build()
	assert.ErrorIs(t, err, ErrValidation)
	_, err = GoalDraft{Name: "x", TargetAmount: "-1"}.Build()
	assert.ErrorIs(t, err, ErrValidation)
	_, err = GoalDraft{Name: "x", TargetAmount: "1", TargetDate: "soon"}.Build()
	assert.ErrorIs(t, err, ErrValidation)
}
