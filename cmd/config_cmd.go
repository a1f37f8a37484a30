package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/ledgr/internal/config"
	"github.com/theirongolddev/ledgr/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	timeout := "none"
	if cfg.API.TimeoutSec > 0 {
		timeout = strconv.Itoa(cfg.API.TimeoutSec) + "s"
	}
	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s\n", cfg.API.BaseURL)
	fmt.Printf("    Timeout:  %s\n", timeout)
	fmt.Println()

	fmt.Println("  [Transactions]")
	fmt.Printf("    Page size: %d\n", cfg.PageSize())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    TUI log file: %s\n", config.LogPath())
	fmt.Println()

	fmt.Println("  [Session]")
	fmt.Printf("    Store: %s\n", cfg.DBPath())
	db, err := store.Open(cfg.DBPath())
	if err != nil {
		fmt.Printf("    Status: unavailable (%v)\n", err)
	} else {
		defer db.Close()
		vals, err := db.GetMany(cmd.Context(), store.KeyAccessToken, store.KeyRefreshToken, store.KeyTheme)
		if err != nil {
			return err
		}
		if tok := vals[store.KeyAccessToken]; tok != "" {
			fmt.Printf("    Access token:  %s\n", maskToken(tok))
		} else {
			fmt.Println("    Access token:  not signed in")
		}
		if tok := vals[store.KeyRefreshToken]; tok != "" {
			fmt.Printf("    Refresh token: %s\n", maskToken(tok))
		}
		if name := vals[store.KeyTheme]; name != "" {
			fmt.Printf("    Saved theme:   %s\n", name)
		}
	}
	fmt.Println()

	fmt.Println("  Run `ledgr setup` to reconfigure.")
	return nil
}
