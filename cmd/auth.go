package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/ledgr/internal/cli"
	"github.com/theirongolddev/ledgr/internal/model"
)

var (
	flagAccessToken  string
	flagRefreshToken string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: "Prints the Google sign-in URL. After approving, paste the URL your browser was\n" +
		"redirected to. Tokens issued elsewhere can be stored with --token and --refresh.",
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new access token",
	RunE:  runRefresh,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&flagAccessToken, "token", "", "Store this access token instead of signing in")
	loginCmd.Flags().StringVar(&flagRefreshToken, "refresh", "", "Refresh token to store with --token")
	rootCmd.AddCommand(loginCmd, logoutCmd, refreshCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	if flagAccessToken != "" {
		if err := b.auth.Login(ctx, flagAccessToken, flagRefreshToken); err != nil {
			return err
		}
	} else {
		authURL, err := b.auth.GoogleAuthURL(ctx)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println("  Open this URL to sign in:")
		fmt.Println()
		fmt.Println("    " + authURL)
		fmt.Println()
		fmt.Print("  Paste the URL you were redirected to\n  > ")

		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			return fmt.Errorf("reading redirect url: %w", err)
		}
		params, err := callbackParams(line)
		if err != nil {
			return err
		}
		if _, err := b.auth.HandleGoogleCallback(ctx, params); err != nil {
			return err
		}
	}

	p, err := b.profile(ctx)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("  Signed in as %s <%s>\n\n", p.User.Name, p.User.Email)
	return nil
}

// callbackParams extracts the OAuth query from a pasted redirect URL or a
// bare query string.
func callbackParams(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("no redirect url given")
	}
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		return u.Query(), nil
	}
	params, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("parsing redirect url: %w", err)
	}
	if params.Get("code") == "" && params.Get("error") == "" {
		return nil, errors.New("redirect url has no code parameter")
	}
	return params, nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.auth.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("  Signed out.")
	return nil
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	token, err := b.auth.Refresh(cmd.Context())
	if err != nil {
		return err
	}
	if token == "" {
		return errNotLoggedIn
	}
	fmt.Printf("  Session refreshed (access token %s).\n", maskToken(token))
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := b.profile(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ACCOUNT"))
	fmt.Println()
	fmt.Print(cli.RenderKeyValues(accountPairs(p)))
	fmt.Println()
	return nil
}

func accountPairs(p model.Profile) [][2]string {
	u := p.User
	cur := u.CurrencyOrDefault()
	pairs := [][2]string{
		{"Name", u.Name},
		{"Email", u.Email},
		{"Currency", cur + " (" + cli.CurrencySymbol(cur) + ")"},
		{"Timezone", u.Timezone},
		{"Salary day", strconv.Itoa(u.SalaryDay)},
		{"Server", cfg.API.BaseURL},
	}
	if s := p.Stats; s != nil {
		pairs = append(pairs,
			[2]string{"Member since", cli.FormatDate(s.MemberSince.Time)},
			[2]string{"Transactions", cli.FormatNumber(int64(s.TotalTransactions))},
			[2]string{"Budget periods", cli.FormatNumber(int64(s.TotalBudgetPeriods))},
			[2]string{"Active goals", cli.FormatNumber(int64(s.ActiveFinancialGoals))},
		)
	}
	return pairs
}

// maskToken shows just enough of a secret to tell two apart.
func maskToken(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
