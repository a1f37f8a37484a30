package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/ledgr/internal/config"
	"github.com/theirongolddev/ledgr/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	fmt.Println()
	fmt.Println("  Welcome to ledgr!")
	fmt.Println()

	// Edit the file as written, so env vars and flags are not persisted.
	vals := tui.SetupValuesFrom(fileCfg)
	if err := tui.NewSetupForm(&vals).RunWithContext(cmd.Context()); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	if err := config.Save(vals.Apply(fileCfg)); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Next: run `ledgr login` to sign in.")
	fmt.Println()
	return nil
}
