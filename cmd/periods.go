package cmd

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/controller"
	"github.com/theirongolddev/ledgr/internal/model"
	"github.com/theirongolddev/ledgr/internal/service"
)

var flagPeriodEnded string

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List budget periods, newest first",
	Args:  cobra.NoArgs,
	RunE:  runPeriods,
}

var periodsCompleteCmd = &cobra.Command{
	Use:   "complete [period-id]",
	Short: "Close a budget period (default: the active one)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPeriodsComplete,
}

func init() {
	periodsCompleteCmd.Flags().StringVar(&flagPeriodEnded, "ended", "", "End date (YYYY-MM-DD, default now)")
	periodsCmd.AddCommand(periodsCompleteCmd)
	rootCmd.AddCommand(periodsCmd)
}

// loadPeriods returns a periods controller with its list fetched.
func loadPeriods(cmd *cobra.Command, b *backend) (*controller.Periods, error) {
	ctx := cmd.Context()
	periods := controller.NewPeriods(ctx, service.NewPeriods(b.client), logger)
	if err := controller.Drive(ctx, periods.Init(), periods.Update); err != nil {
		return nil, err
	}
	if v := periods.View(); v.Error != "" {
		return nil, errors.New(v.Error)
	}
	return periods, nil
}

func runPeriods(cmd *cobra.Command, _ []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := b.profile(cmd.Context())
	if err != nil {
		return err
	}
	progress("Loading periods...")
	periods, err := loadPeriods(cmd, b)
	if err != nil {
		return err
	}
	printPeriods(periods.View().Periods, p.User.CurrencyOrDefault())
	return nil
}

func printPeriods(list []model.BudgetPeriod, cur string) {
	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET PERIODS"))
	fmt.Println()
	if len(list) == 0 {
		fmt.Println("  No budget periods yet.")
		fmt.Println()
		return
	}

	rows := make([][]string, 0, len(list))
	for _, bp := range list {
		ended := "-"
		if bp.EndedAt != nil && !bp.EndedAt.IsZero() {
			ended = cli.FormatDate(bp.EndedAt.Time)
		}
		rows = append(rows, []string{
			cli.FormatDate(bp.SortKey().Time),
			ended,
			cli.Title(bp.Status),
			cli.FormatCurrency(bp.ActualIncome, cur),
			cli.FormatCurrency(bp.TotalExpenses, cur),
			cli.FormatCurrency(bp.TotalSavings, cur),
			cli.FormatCurrency(bp.CarryForward, cur),
			bp.ID,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:     []string{"Started", "Ended", "Status", "Income", "Expenses", "Savings", "Carry fwd", "ID"},
		Rows:        rows,
		LeftAligned: map[int]bool{1: true, 2: true, 7: true},
	}))
	fmt.Println()
}

func runPeriodsComplete(cmd *cobra.Command, args []string) error {
	ended := time.Now()
	if flagPeriodEnded != "" {
		t, err := time.ParseInLocation("2006-01-02", flagPeriodEnded, time.Local)
		if err != nil {
			return fmt.Errorf("date %q must look like 2006-01-02", flagPeriodEnded)
		}
		ended = t
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	if _, err := b.profile(cmd.Context()); err != nil {
		return err
	}
	periods, err := loadPeriods(cmd, b)
	if err != nil {
		return err
	}

	var target model.BudgetPeriod
	if len(args) == 1 {
		bp, ok := periods.Find(args[0])
		if !ok {
			return fmt.Errorf("no budget period with id %q", args[0])
		}
		target = bp
	} else {
		for _, bp := range periods.View().Periods {
			if !bp.Completed() {
				target = bp
				break
			}
		}
		if target.ID == "" {
			return errors.New("there is no active budget period")
		}
	}
	if target.Completed() {
		return fmt.Errorf("period started %s is already closed", cli.FormatDate(target.SortKey().Time))
	}

	var closed *controller.PeriodCompletedMsg
	err = controller.Drive(cmd.Context(), periods.Complete(target.ID, ended), func(msg tea.Msg) tea.Cmd {
		if m, ok := msg.(controller.PeriodCompletedMsg); ok {
			closed = &m
		}
		return periods.Update(msg)
	})
	if err != nil {
		return err
	}
	if v := periods.View(); v.CompleteError != "" || closed == nil {
		return errors.New(controller.MsgCompleteFailed)
	}
	fmt.Printf("  Closed the period that started %s.\n", cli.FormatDate(target.SortKey().Time))
	return nil
}
