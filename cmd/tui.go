package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/ledgr/internal/api"
	"github.com/theirongolddev/ledgr/internal/config"
	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/service"
	"github.com/theirongolddev/ledgr/internal/store"
	"github.com/theirongolddev/ledgr/internal/tui"
	"github.com/theirongolddev/ledgr/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// The terminal belongs to bubbletea from here on; log to a file.
	logFile, err := logging.OpenFile(config.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger = fileLogger(ctx, logFile)
	logging.SetDefault(logger)

	var program *tea.Program
	expire := func() {
		if program != nil {
			program.Send(tui.SessionExpiredMsg{})
		}
	}
	b, err := openBackend(api.OnUnauthorized(expire))
	if err != nil {
		return err
	}
	defer b.Close()

	progress("Signing in...")
	profile, err := b.profile(ctx)
	if err != nil {
		return err
	}

	themeName := cfg.Appearance.Theme
	if saved, ok, err := b.db.Get(ctx, store.KeyTheme); err != nil {
		logger.WarnErr(ctx, "reading saved theme", err)
	} else if ok {
		themeName = saved
	}
	theme.SetActive(themeName)

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	periods := service.NewPeriods(b.client)
	app := tui.NewApp(ctx, tui.Deps{
		Profile:    profile,
		Analytics:  service.NewAnalytics(b.client),
		Ledger:     service.NewTransactions(b.client),
		Categories: service.NewCategories(b.client),
		Periods:    periods,
		Goals:      service.NewGoals(b.client),
		Settings:   b.db,
		Config:     cfg,
		Logger:     logger,
		Now:        time.Now,
	})
	program = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if a, ok := final.(tui.App); ok && a.SessionExpired() {
		return errNotLoggedIn
	}
	return nil
}

// fileLogger builds the TUI's logger on w. A bad log.level falls back to
// warn and is recorded in the log itself.
func fileLogger(ctx context.Context, w io.Writer) *logging.Logger {
	level, levelErr := logging.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = slog.LevelDebug
	}
	l := logging.New(logging.Config{Level: level, Output: w})
	if levelErr != nil {
		l.WarnErr(ctx, "invalid log level, using warn", levelErr)
	}
	return l
}
