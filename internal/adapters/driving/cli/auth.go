package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

var authToken string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored GitHub token",
	Long: `Stores a personal access token in the config file. Authenticated scans get
5000 requests per hour instead of 60. No scopes are needed; scans only read
public data.

The ` + TokenEnv + ` environment variable and the --token flag take precedence
over the stored token.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Validate and store a token",
	Long: `Reads a token from --token or, without echo, from the terminal. The token
is checked against the API before it is stored.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which token is in use",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

func init() {
	authLoginCmd.Flags().StringVar(&authToken, "token", "", "token to store")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	token := strings.TrimSpace(authToken)
	if token == "" {
		cmd.Print("GitHub token: ")
		token = readPassword(cmd.InOrStdin())
		cmd.Println()
	}
	if token == "" {
		return fmt.Errorf("%w: no token given", domain.ErrInvalidInput)
	}

	client, err := connect(cmd, token, true)
	if err != nil {
		return err
	}
	login, err := client.ValidateCredentials(commandContext(cmd))
	if err != nil {
		if errors.Is(err, domain.ErrAuthInvalid) {
			return errors.New("token was rejected")
		}
		return fmt.Errorf("failed to validate token: %w", err)
	}

	if err := configStore.Set(KeyGitHubToken, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Success.Render("Logged in as " + login))
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	st := newStyles(cmd.OutOrStdout())

	source := ""
	token := ""
	switch {
	case strings.TrimSpace(os.Getenv(TokenEnv)) != "":
		source, token = TokenEnv, strings.TrimSpace(os.Getenv(TokenEnv))
	case configStore != nil && configStore.GetString(KeyGitHubToken) != "":
		source, token = configStore.Path(), configStore.GetString(KeyGitHubToken)
	default:
		cmd.Println(st.Warning.Render("Not logged in: requests are anonymous (60/hour)"))
		return nil
	}

	cmd.Println(st.Label.Render("Token") + maskToken(token) + st.Muted.Render(" from "+source))

	client, err := connect(cmd, token, true)
	if err != nil {
		return err
	}
	login, err := client.ValidateCredentials(commandContext(cmd))
	switch {
	case errors.Is(err, domain.ErrAuthInvalid):
		cmd.Println(st.Error.Render("Token was rejected"))
	case err != nil:
		return fmt.Errorf("failed to validate token: %w", err)
	default:
		cmd.Println(st.Label.Render("Login") + login)
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	if configStore.GetString(KeyGitHubToken) == "" {
		cmd.Println("No token stored.")
		return nil
	}
	if err := configStore.Set(KeyGitHubToken, ""); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	cmd.Println("Token removed.")
	return nil
}

// readPassword reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
