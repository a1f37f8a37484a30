package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/ledgr/internal/config"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

// SetupValues are the answers of the first-run setup form.
type SetupValues struct {
	BaseURL  string
	PageSize string
	Theme    string
}

// SetupValuesFrom prefills the form from cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		BaseURL:  cfg.API.BaseURL,
		PageSize: strconv.Itoa(cfg.PageSize()),
		Theme:    theme.ByName(cfg.Appearance.Theme).Name,
	}
}

// Apply writes the answers into cfg. A blank or unparsable page size
// keeps the current one.
func (v SetupValues) Apply(cfg config.Config) config.Config {
	if u := strings.TrimRight(strings.TrimSpace(v.BaseURL), "/"); u != "" {
		cfg.API.BaseURL = u
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.PageSize)); err == nil && n > 0 {
		cfg.Transactions.PageSize = n
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	}
	return cfg
}

// NewSetupForm builds the first-run form writing into vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	opts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		opts[i] = huh.NewOption(t.Name, t.Name)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Welcome to ledgr").Description("Point ledgr at your finance API."),
			huh.NewInput().Title("API base URL").Placeholder("http://localhost:8000").Value(&vals.BaseURL).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return errors.New("must start with http:// or https://")
					}
					return nil
				}),
			huh.NewInput().Title("Transactions per page").Placeholder("20").Value(&vals.PageSize),
			huh.NewSelect[string]().Title("Color theme").Options(opts...).Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeBase())
}
