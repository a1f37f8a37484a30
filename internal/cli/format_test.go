package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		value string
		code  string
		want  string
	}{
		{"1234.5", "USD", "$1,234.50"},
		{"0", "USD", "$0.00"},
		{"1000", "GBP", "£1,000.00"},
		{"1234567.891", "usd", "$1,234,567.89"},
		{"-42", "USD", "-$42.00"},
		{"99.999", "EUR", "€100.00"},
		{"2500", "CAD", "C$2,500.00"},
		{"12345678901234567.89", "USD", "$12,345,678,901,234,567.89"},
		{"-9007199254740993.01", "GBP", "-£9,007,199,254,740,993.01"},
		{"-0.5", "USD", "-$0.50"},
	}
	for _, tt := range tests {
		got := FormatCurrency(decimal.RequireFromString(tt.value), tt.code)
		assert.Equal(t, tt.want, got, "FormatCurrency(%s, %s)", tt.value, tt.code)
	}
}

func TestFormatCurrencyUnknownFallsBackToUSD(t *testing.T) {
	v := decimal.RequireFromString("1234.5")
	want := FormatCurrency(v, "USD")
	for _, code := range []string{"", "XYZ", "usdollar", "€", "  ", "123"} {
		assert.NotPanics(t, func() {
			assert.Equal(t, want, FormatCurrency(v, code), "code %q", code)
		})
	}
}

func TestFormatCurrencyShort(t *testing.T) {
	assert.Equal(t, "$1,235", FormatCurrencyShort(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "£0", FormatCurrencyShort(decimal.Zero, "GBP"))
	assert.Equal(t, "-$10", FormatCurrencyShort(decimal.NewFromInt(-10), "nope"))
	assert.Equal(t, "$99,999,999,999,999,999", FormatCurrencyShort(decimal.RequireFromString("99999999999999999"), "USD"))
}

func TestFormatCurrencyEverySupportedCode(t *testing.T) {
	v := decimal.RequireFromString("1234.56")
	for _, c := range SupportedCurrencies() {
		got := FormatCurrency(v, c.Code)
		assert.True(t, strings.HasPrefix(got, c.Symbol), "%s: %q", c.Code, got)
		assert.NotEmpty(t, strings.TrimPrefix(got, c.Symbol))
	}
}

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		value    string
		decimals int
		want     string
	}{
		{"12.345", 1, "12.3%"},
		{"12.35", 1, "12.4%"},
		{"0", 2, "0.00%"},
		{"-5.5", 1, "-5.5%"},
		{"-0.04", 1, "-0.0%"},
		{"150", 0, "150%"},
		{"3", 3, "3.000%"},
	}
	for _, tt := range tests {
		got := FormatPercentage(decimal.RequireFromString(tt.value), tt.decimals)
		assert.Equal(t, tt.want, got, "FormatPercentage(%s, %d)", tt.value, tt.decimals)
	}
}

func TestFormatPercentageShape(t *testing.T) {
	for _, v := range []float64{-1234.5678, -1, -0.5, 0, 0.05, 1, 99.99, 100, 12345.678} {
		for d := 0; d <= 4; d++ {
			got := FormatPercentage(decimal.NewFromFloat(v), d)
			assert.True(t, strings.HasSuffix(got, "%"), got)

			body := strings.TrimSuffix(got, "%")
			if d == 0 {
				assert.NotContains(t, body, ".")
			} else {
				idx := strings.Index(body, ".")
				if assert.GreaterOrEqual(t, idx, 0, got) {
					assert.Len(t, body[idx+1:], d, got)
				}
			}
			assert.Equal(t, v < 0, strings.HasPrefix(got, "-"), got)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-1,000", FormatNumber(-1000))
}

func TestFormatDaysRemaining(t *testing.T) {
	days := func(n int) *int { return &n }
	assert.Equal(t, "No deadline", FormatDaysRemaining(nil))
	assert.Equal(t, "Due today", FormatDaysRemaining(days(0)))
	assert.Equal(t, "1 day left", FormatDaysRemaining(days(1)))
	assert.Equal(t, "12 days left", FormatDaysRemaining(days(12)))
	assert.Equal(t, "3 days overdue", FormatDaysRemaining(days(-3)))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Credit Card", Title("credit_card"))
	assert.Equal(t, "Income", Title("income"))
}
