package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var rateLimitToken string

var rateLimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Show the remaining API quota",
	Long:  `Queries the core rate limit. This request does not count against the quota.`,
	Args:  cobra.NoArgs,
	RunE:  runRateLimit,
}

func init() {
	rateLimitCmd.Flags().StringVar(&rateLimitToken, "token", "", "GitHub token (overrides "+TokenEnv+" and the stored token)")
	rootCmd.AddCommand(rateLimitCmd)
}

func runRateLimit(cmd *cobra.Command, _ []string) error {
	client, err := connect(cmd, resolveToken(rateLimitToken), true)
	if err != nil {
		return err
	}

	q, err := client.RateLimit(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to get rate limit: %w", err)
	}

	st := newStyles(cmd.OutOrStdout())
	auth := "anonymous"
	if client.Authenticated() {
		auth = "authenticated"
	}
	remaining := humanize.Comma(int64(q.Remaining))
	switch {
	case q.Remaining == 0:
		remaining = st.Error.Render(remaining)
	case q.Limit > 0 && q.Remaining*10 < q.Limit:
		remaining = st.Warning.Render(remaining)
	default:
		remaining = st.Success.Render(remaining)
	}

	cmd.Println(st.Label.Render("Access") + auth)
	cmd.Println(st.Label.Render("Remaining") + remaining + " of " + humanize.Comma(int64(q.Limit)))
	if !q.Reset.IsZero() {
		cmd.Println(st.Label.Render("Resets") + q.Reset.Local().Format("15:04:05") + st.Muted.Render(" ("+humanize.Time(q.Reset)+")"))
	}
	return nil
}
