package cmd

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/controller"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/service"
)

var (
	flagGoalsInactive bool
	flagGoal          controller.GoalDraft
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List savings goals",
	Args:  cobra.NoArgs,
	RunE:  runGoals,
}

var goalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a savings goal",
	Args:  cobra.NoArgs,
	RunE:  runGoalsAdd,
}

var goalsContributeCmd = &cobra.Command{
	Use:   "contribute <goal> <amount>",
	Short: "Add money to a goal (by name or id)",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalsContribute,
}

var goalsDeleteCmd = &cobra.Command{
	Use:   "delete <goal>",
	Short: "Delete a goal (by name or id)",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsDelete,
}

func init() {
	goalsCmd.Flags().BoolVar(&flagGoalsInactive, "inactive", false, "List inactive goals instead")

	f := goalsAddCmd.Flags()
	f.StringVar(&flagGoal.Name, "name", "", "Goal name")
	f.StringVar(&flagGoal.TargetAmount, "target", "", "Target amount")
	f.StringVar(&flagGoal.TargetDate, "date", "", "Target date (YYYY-MM-DD)")
	f.StringVar(&flagGoal.Category, "category", "", "Free-form category")
	_ = goalsAddCmd.MarkFlagRequired("name")
	_ = goalsAddCmd.MarkFlagRequired("target")

	goalsCmd.AddCommand(goalsAddCmd, goalsContributeCmd, goalsDeleteCmd)
	rootCmd.AddCommand(goalsCmd)
}

// loadGoals returns a goals controller with its list fetched. The caller
// must have checked the session.
func loadGoals(cmd *cobra.Command, b *backend, active bool) (*controller.Goals, error) {
	ctx := cmd.Context()
	goals := controller.NewGoals(ctx, service.NewGoals(b.client), logger, active)
	if err := controller.Drive(ctx, goals.Init(), goals.Update); err != nil {
		return nil, err
	}
	if v := goals.View(); v.Error != "" {
		return nil, errors.New(v.Error)
	}
	return goals, nil
}

// mutateGoal runs one goal mutation and the refetch that follows it.
func mutateGoal(cmd *cobra.Command, goals *controller.Goals, mutation tea.Cmd) (string, error) {
	if mutation == nil {
		if v := goals.View(); v.MutationError != "" {
			return "", errors.New(v.MutationError)
		}
		return "", errors.New("another change is still in progress")
	}
	if err := controller.Drive(cmd.Context(), mutation, goals.Update); err != nil {
		return "", err
	}
	v := goals.View()
	if v.MutationError != "" {
		return "", errors.New(v.MutationError)
	}
	return v.Notice, nil
}

// findGoal matches ref against goal ids, then names ignoring case.
func findGoal(goals []model.FinancialGoal, ref string) (model.FinancialGoal, error) {
	ref = strings.TrimSpace(ref)
	for _, g := range goals {
		if g.ID == ref {
			return g, nil
		}
	}
	var found []model.FinancialGoal
	for _, g := range goals {
		if strings.EqualFold(g.Name, ref) {
			found = append(found, g)
		}
	}
	switch len(found) {
	case 0:
		return model.FinancialGoal{}, fmt.Errorf("no goal named %q", ref)
	case 1:
		return found[0], nil
	default:
		return model.FinancialGoal{}, fmt.Errorf("%d goals are named %q; use the id", len(found), ref)
	}
}

func runGoals(cmd *cobra.Command, _ []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := b.profile(cmd.Context())
	if err != nil {
		return err
	}
	progress("Loading goals...")
	goals, err := loadGoals(cmd, b, !flagGoalsInactive)
	if err != nil {
		return err
	}
	printGoals(goals.View().Goals, p.User.CurrencyOrDefault())
	return nil
}

func printGoals(list []model.FinancialGoal, cur string) {
	fmt.Println()
	fmt.Println(cli.RenderTitle("GOALS"))
	fmt.Println()
	if len(list) == 0 {
		fmt.Println("  No goals yet. Create one with `ledgr goals add`.")
		fmt.Println()
		return
	}

	rows := make([][]string, 0, len(list))
	for _, g := range list {
		rows = append(rows, []string{
			g.Name,
			cli.RenderProgressBar(g.ProgressPercentage, 20),
			cli.FormatCurrency(g.CurrentAmount, cur),
			cli.FormatCurrency(g.TargetAmount, cur),
			cli.FormatDaysRemaining(g.DaysRemaining),
			g.ID,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:     []string{"Goal", "Progress", "Saved", "Target", "Deadline", "ID"},
		Rows:        rows,
		LeftAligned: map[int]bool{1: true, 4: true, 5: true},
	}))
	fmt.Println()
}

func runGoalsAdd(cmd *cobra.Command, _ []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	if _, err := b.profile(cmd.Context()); err != nil {
		return err
	}
	goals, err := loadGoals(cmd, b, true)
	if err != nil {
		return err
	}
	name, err := mutateGoal(cmd, goals, goals.Create(flagGoal))
	if err != nil {
		return err
	}
	if name == "" {
		name = flagGoal.Name
	}
	fmt.Printf("  Created goal %q.\n", name)
	return nil
}

func runGoalsContribute(cmd *cobra.Command, args []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	if _, err := b.profile(cmd.Context()); err != nil {
		return err
	}
	goals, err := loadGoals(cmd, b, true)
	if err != nil {
		return err
	}
	g, err := findGoal(goals.View().Goals, args[0])
	if err != nil {
		return err
	}
	notice, err := mutateGoal(cmd, goals, goals.Contribute(g.ID, args[1]))
	if err != nil {
		return err
	}
	if notice == "" {
		notice = "Contribution added to " + g.Name + "."
	}
	fmt.Println("  " + notice)
	return nil
}

func runGoalsDelete(cmd *cobra.Command, args []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	if _, err := b.profile(cmd.Context()); err != nil {
		return err
	}
	goals, err := loadGoals(cmd, b, true)
	if err != nil {
		return err
	}
	g, err := findGoal(goals.View().Goals, args[0])
	if err != nil {
		return err
	}
	notice, err := mutateGoal(cmd, goals, goals.Delete(g.ID))
	if err != nil {
		return err
	}
	if notice == "" {
		notice = "Deleted " + g.Name + "."
	}
	fmt.Println("  " + notice)
	return nil
}
