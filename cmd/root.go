// Package cmd implements the ledgr CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/ledgr/internal/api"
	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/config"
	"github.com/theirongolddev/ledgr/internal/logging"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/service"
	"github.com/theirongolddev/ledgr/internal/session"
	"github.com/theirongolddev/ledgr/internal/store"
)

var (
	flagAPIURL    string
	flagTimeout   int
	flagQuiet     bool
	flagVerbose   bool
	flagEphemeral bool
)

var (
	// fileCfg is config.toml as written on disk; cfg layers .env, LEDGR_*
	// and flags on top of it.
	fileCfg config.Config
	cfg     config.Config
	env     = config.NewViper()
	logger  = logging.Discard()
)

// Token keys read from the environment in --ephemeral mode, e.g.
// LEDGR_SESSION_ACCESS_TOKEN.
const (
	keyEnvAccessToken  = "session.access_token"
	keyEnvRefreshToken = "session.refresh_token"
)

var errNotLoggedIn = errors.New("not logged in: run `ledgr login` first")

var rootCmd = &cobra.Command{
	Use:   "ledgr",
	Short: "Personal finance in your terminal",
	Long:  "Track net worth, transactions, budget periods and savings goals against your ledgr server.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
	RunE:              runDashboard,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(errorText(err)))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API server base URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "Per-request timeout in seconds, 0 for none")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep tokens in memory only, seeded from LEDGR_SESSION_* variables")
}

// loadSettings resolves configuration and logging before any command runs.
func loadSettings(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	var err error
	fileCfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	env = config.NewViper()
	flags := cmd.Root().PersistentFlags()
	if err := env.BindPFlag(config.KeyBaseURL, flags.Lookup("api-url")); err != nil {
		return err
	}
	if err := env.BindPFlag(config.KeyTimeout, flags.Lookup("timeout")); err != nil {
		return err
	}
	cfg = config.Resolve(fileCfg, env)

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderWarning(err.Error()))
	}
	switch {
	case flagVerbose:
		level = slog.LevelDebug
	case flagQuiet:
		level = slog.LevelError
	}
	logger = logging.New(logging.Config{Level: level, Output: os.Stderr})
	logging.SetDefault(logger)
	return nil
}

// backend bundles everything a command needs to reach the server.
type backend struct {
	db     *store.DB
	client *api.Client
	auth   *service.Auth
}

func openBackend(opts ...api.Option) (*backend, error) {
	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	var tokens session.Store = session.NewPersistent(db)
	if flagEphemeral {
		tokens = session.NewMemory(model.Session{
			AccessToken:  env.GetString(keyEnvAccessToken),
			RefreshToken: env.GetString(keyEnvRefreshToken),
		})
	}
	opts = append([]api.Option{api.WithTimeout(cfg.Timeout()), api.WithLogger(logger)}, opts...)
	client := api.New(cfg.API.BaseURL, tokens, opts...)
	return &backend{db: db, client: client, auth: service.NewAuth(client, logger)}, nil
}

func (b *backend) Close() {
	if err := b.db.Close(); err != nil {
		logger.WarnErr(context.Background(), "closing store", err)
	}
}

// profile loads the signed-in user, refreshing the session once if needed.
func (b *backend) profile(ctx context.Context) (model.Profile, error) {
	if !b.auth.IsAuthenticated(ctx) {
		return model.Profile{}, errNotLoggedIn
	}
	p, err := b.auth.Bootstrap(ctx)
	if errors.Is(err, api.ErrUnauthorized) {
		logger.Debug("bootstrap rejected", logging.FieldError, err)
		return model.Profile{}, errNotLoggedIn
	}
	return p, err
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}

func errorText(err error) string {
	var se *api.StatusError
	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out (see --timeout)"
	case errors.As(err, &se) && se.Detail != "":
		return se.Detail
	}
	return err.Error()
}
