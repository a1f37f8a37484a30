package model

import "github.com/shopspring/decimal"

// InvestmentPerformance summarises the linked brokerage account.
type InvestmentPerformance struct {
	TotalInvested        decimal.Decimal `json:"total_invested"`
	CurrentValue         decimal.Decimal `json:"current_value"`
	ProfitLoss           decimal.Decimal `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal `json:"profit_loss_percentage"`
}

// CategoryBreakdown is one slice of a spend-by-category breakdown.
type CategoryBreakdown struct {
	CategoryName     string          `json:"category_name"`
	CategoryType     string          `json:"category_type"`
	Amount           decimal.Decimal `json:"amount"`
	Percentage       decimal.Decimal `json:"percentage"`
	TransactionCount int             `json:"transaction_count"`
}

// PeriodTrend is one budget period's totals inside a yearly summary.
type PeriodTrend struct {
	Period      string          `json:"period"`
	Month       string          `json:"month"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Savings     decimal.Decimal `json:"savings"`
	Investments decimal.Decimal `json:"investments"`
	NetWorth    decimal.Decimal `json:"net_worth"`
}

// Label returns the best available name for the trend point.
func (p PeriodTrend) Label() string {
	if p.Period != "" {
		return p.Period
	}
	return p.Month
}

// DashboardSnapshot is the payload of GET /api/v1/analytics/dashboard.
// It is replaced wholesale on every refetch.
type DashboardSnapshot struct {
	NetWorth               decimal.Decimal       `json:"net_worth"`
	AllTimeIncome          decimal.Decimal       `json:"all_time_income"`
	AllTimeExpenses        decimal.Decimal       `json:"all_time_expenses"`
	ThisMonthIncome        decimal.Decimal       `json:"this_month_income"`
	ThisMonthExpenses      decimal.Decimal       `json:"this_month_expenses"`
	ThisMonthSavings       decimal.Decimal       `json:"this_month_savings"`
	SavingsRate            decimal.Decimal       `json:"savings_rate"`
	InvestmentPerformance  InvestmentPerformance `json:"investment_performance"`
	CurrentPeriod          *BudgetPeriod         `json:"current_period"`
	TopExpenseCategories   []CategoryBreakdown   `json:"top_expense_categories"`
	RecentTransactions     []Transaction         `json:"recent_transactions"`
	FinancialGoalsProgress []FinancialGoal       `json:"financial_goals_progress"`
}

// YearlyAnalytics is the payload of GET /api/v1/analytics/yearly/{year}.
type YearlyAnalytics struct {
	Year              int                 `json:"year"`
	TotalIncome       decimal.Decimal     `json:"total_income"`
	TotalExpenses     decimal.Decimal     `json:"total_expenses"`
	TotalSavings      decimal.Decimal     `json:"total_savings"`
	TotalInvestments  decimal.Decimal     `json:"total_investments"`
	NetSavings        decimal.Decimal     `json:"net_savings"`
	SavingsRate       decimal.Decimal     `json:"savings_rate"`
	PeriodsCount      int                 `json:"periods_count"`
	PeriodTrends      []PeriodTrend       `json:"period_trends"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
}
