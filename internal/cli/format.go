// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency describes how a currency code is displayed.
type Currency struct {
	Code   string
	Symbol string
	Locale string
	Name   string
}

var currencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Locale: "en-US", Name: "US Dollar"},
	"EUR": {Code: "EUR", Symbol: "€", Locale: "en-IE", Name: "Euro"},
	"GBP": {Code: "GBP", Symbol: "£", Locale: "en-GB", Name: "British Pound"},
	"NGN": {Code: "NGN", Symbol: "₦", Locale: "en-NG", Name: "Nigerian Naira"},
	"JPY": {Code: "JPY", Symbol: "¥", Locale: "ja-JP", Name: "Japanese Yen"},
	"CNY": {Code: "CNY", Symbol: "¥", Locale: "zh-CN", Name: "Chinese Yuan"},
	"INR": {Code: "INR", Symbol: "₹", Locale: "en-IN", Name: "Indian Rupee"},
	"CAD": {Code: "CAD", Symbol: "C$", Locale: "en-CA", Name: "Canadian Dollar"},
	"AUD": {Code: "AUD", Symbol: "A$", Locale: "en-AU", Name: "Australian Dollar"},
	"CHF": {Code: "CHF", Symbol: "Fr", Locale: "de-CH", Name: "Swiss Franc"},
}

// supportedOrder keeps SupportedCurrencies stable for pickers.
var supportedOrder = []string{"USD", "EUR", "GBP", "NGN", "JPY", "CNY", "INR", "CAD", "AUD", "CHF"}

// LookupCurrency returns the display config for code, or USD when unknown.
// Lookup is case-insensitive.
func LookupCurrency(code string) Currency {
	if c, ok := currencies[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c
	}
	return currencies["USD"]
}

// SupportedCurrencies returns the known currencies in display order.
func SupportedCurrencies() []Currency {
	out := make([]Currency, 0, len(supportedOrder))
	for _, code := range supportedOrder {
		out = append(out, currencies[code])
	}
	return out
}

// CurrencySymbol returns the symbol for code (USD's for unknown codes).
func CurrencySymbol(code string) string {
	return LookupCurrency(code).Symbol
}

// FormatCurrency formats value with exactly two fraction digits.
// e.g., (1234.5, "GBP") -> "£1,234.50", (-3, "xyz") -> "-$3.00"
func FormatCurrency(value decimal.Decimal, code string) string {
	return formatMoney(value, LookupCurrency(code), 2)
}

// FormatCurrencyShort formats value with no fraction digits, for chart axes.
func FormatCurrencyShort(value decimal.Decimal, code string) string {
	return formatMoney(value, LookupCurrency(code), 0)
}

// FormatCurrencyFloat is FormatCurrency for float inputs.
func FormatCurrencyFloat(value float64, code string) string {
	return FormatCurrency(decimal.NewFromFloat(value), code)
}

// formatMoney never panics: a failure in locale formatting is logged and
// the value is rendered again as USD.
func formatMoney(value decimal.Decimal, c Currency, digits int) (out string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("currency formatting failed", "currency", c.Code, "panic", r)
			out = renderMoney(value, currencies["USD"], digits)
		}
	}()

	// EUR uses en-US so the symbol leads.
	if c.Code == "EUR" {
		c.Locale = "en-US"
	}
	return renderMoney(value, c, digits)
}

// maxExactUnits is the largest integer part renderMoney prints digit for
// digit. Larger values go through float64.
var maxExactUnits = decimal.RequireFromString("18446744073709551615")

func renderMoney(value decimal.Decimal, c Currency, digits int) string {
	rounded := value.Round(int32(digits))
	abs := rounded.Abs()
	p := message.NewPrinter(language.MustParse(c.Locale))

	var body string
	units := abs.Truncate(0)
	if units.Cmp(maxExactUnits) <= 0 {
		body = p.Sprintf("%v", number.Decimal(units.BigInt().Uint64()))
		if digits > 0 {
			frac, _ := abs.Sub(units).Float64()
			body += strings.TrimPrefix(p.Sprintf("%v", number.Decimal(frac, number.Scale(digits))), "0")
		}
	} else {
		f, _ := abs.Float64()
		body = p.Sprintf("%v", number.Decimal(f, number.Scale(digits)))
	}

	if rounded.Sign() < 0 {
		return "-" + c.Symbol + body
	}
	return c.Symbol + body
}

// FormatPercentage formats value with a fixed number of decimals and a
// trailing %. The range is not clamped and negative values keep their sign.
func FormatPercentage(value decimal.Decimal, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	s := value.StringFixed(int32(decimals))
	if value.Sign() < 0 && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s + "%"
}

// FormatPercent formats a percentage with the default single decimal.
func FormatPercent(value decimal.Decimal) string {
	return FormatPercentage(value, 1)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatDate renders a date as "Jan 2, 2006", or an em placeholder for zero times.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime renders a timestamp as "Jan 2, 2006 03:04 PM".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2, 2006 03:04 PM")
}

// FormatDaysRemaining describes a goal deadline.
// e.g., 3 -> "3 days left", -2 -> "2 days overdue", 0 -> "Due today"
func FormatDaysRemaining(days *int) string {
	if days == nil {
		return "No deadline"
	}
	d := *days
	switch {
	case d == 0:
		return "Due today"
	case d == 1:
		return "1 day left"
	case d > 1:
		return fmt.Sprintf("%d days left", d)
	case d == -1:
		return "1 day overdue"
	default:
		return fmt.Sprintf("%d days overdue", -d)
	}
}

var titleCaser = cases.Title(language.English)

// Title converts API enum values like "credit_card" into "Credit Card".
func Title(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// Plural returns singular when n == 1 and plural otherwise.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
