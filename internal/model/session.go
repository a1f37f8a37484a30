// Package model defines domain types for ledgr accounts, analytics, and budgets.
package model

import (
	"strings"
	"time"
)

// DefaultCurrency is used whenever a profile carries no currency code.
const DefaultCurrency = "USD"

// Session holds the bearer credentials issued by the auth endpoints.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Empty reports whether neither token is present.
func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// UserProfile is the authenticated user as returned by /users/profile.
type UserProfile struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	AvatarURL *string    `json:"avatar_url"`
	Currency  string     `json:"currency"`
	Timezone  string     `json:"timezone"`
	SalaryDay int        `json:"salary_day"`
	CreatedAt Timestamp  `json:"created_at"`
	UpdatedAt *Timestamp `json:"updated_at"`
}

// CurrencyOrDefault returns the profile currency, falling back to USD.
func (u *UserProfile) CurrencyOrDefault() string {
	if u == nil || strings.TrimSpace(u.Currency) == "" {
		return DefaultCurrency
	}
	return u.Currency
}

// FirstName returns the first word of the display name.
func (u *UserProfile) FirstName() string {
	if u == nil {
		return ""
	}
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ProfileStats are account-level counters shipped alongside the profile.
type ProfileStats struct {
	TotalTransactions    int        `json:"total_transactions"`
	TotalBudgetPeriods   int        `json:"total_budget_periods"`
	ActiveFinancialGoals int        `json:"active_financial_goals"`
	DaysSinceSignup      int        `json:"days_since_signup"`
	MemberSince          Timestamp  `json:"member_since"`
	SavingSince          *Timestamp `json:"saving_since"`
}

// SavingSinceYear returns the year saving started, or fallback when unknown.
func (s *ProfileStats) SavingSinceYear(fallback int) int {
	if s == nil || s.SavingSince == nil || s.SavingSince.IsZero() {
		return fallback
	}
	return s.SavingSince.Year()
}

// Profile is the payload of GET /api/v1/users/profile.
type Profile struct {
	User  UserProfile   `json:"user"`
	Stats *ProfileStats `json:"stats"`
}

// Timestamp is a time that decodes the handful of layouts the API emits:
// RFC 3339, naive ISO datetimes (no zone, treated as UTC), and plain dates.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses s using the accepted API layouts.
func ParseTimestamp(s string) (Timestamp, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, true
		}
	}
	return Timestamp{}, false
}

// UnmarshalJSON accepts null, empty strings, and any layout in timestampLayouts.
// Unparseable values decode to the zero time rather than failing the payload.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	ts, _ := ParseTimestamp(s)
	*t = ts
	return nil
}

// MarshalJSON emits RFC 3339, or null for the zero time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}
