package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

var planOpts scanFlags

var planCmd = &cobra.Command{
	Use:   "plan <user>",
	Short: "Show which repositories a scan would cover and what it costs",
	Long: `Lists and filters the user's repositories, orders them by priority and
estimates the API calls a scan needs against the remaining quota. No commits
are collected.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planOpts.register(planCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if newScanner == nil {
		return errors.New("scan service not configured")
	}
	target := strings.TrimPrefix(args[0], "@")

	cfg, err := planOpts.scanConfig(cmd)
	if err != nil {
		return err
	}
	client, err := connect(cmd, resolveToken(planOpts.token), planOpts.noCache)
	if err != nil {
		return err
	}
	scanner, err := newScanner(client, cfg)
	if err != nil {
		return err
	}

	plan, err := scanner.Plan(commandContext(cmd), target)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("user %s does not exist", target)
		}
		return fmt.Errorf("plan failed: %w", err)
	}

	st := newStyles(cmd.OutOrStdout())
	b := plan.Budget

	cmd.Println(st.Title.Render("Scan plan for " + target))
	cmd.Println(st.Label.Render("Repositories") + fmt.Sprintf("%d selected of %d", len(plan.Selected), plan.Total))
	if plan.Partial {
		cmd.Println(st.Warning.Render(fmt.Sprintf("Repository listing incomplete (%s)", plan.ListOutcome)))
	}
	cmd.Println(st.Label.Render("Estimated calls") + humanize.Comma(int64(b.EstimatedCalls)))
	if q := plan.Quota; q != nil {
		cmd.Println(st.Label.Render("Quota") + fmt.Sprintf("%s of %s remaining, resets %s",
			humanize.Comma(int64(q.Remaining)), humanize.Comma(int64(q.Limit)), humanize.Time(q.Reset)))
	}
	if b.CanComplete {
		cmd.Println(st.Success.Render("The scan fits in the remaining quota."))
	} else {
		cmd.Println(st.Warning.Render(fmt.Sprintf("The scan exceeds the quota; about %d repositories fit.", b.SafeRepoCount)))
		for _, r := range b.Recommendations {
			cmd.Printf("  - %s\n", r.Message)
		}
	}

	if len(plan.Selected) == 0 {
		return nil
	}
	cmd.Println()
	t := st.table("#", "Repository", "Stars", "Pushed", "Priority")
	for i, r := range plan.Selected {
		pushed := "-"
		if r.PushedAt != nil {
			pushed = humanize.Time(*r.PushedAt)
		}
		name := r.FullName
		if name == "" {
			name = r.Name
		}
		if r.IsFork {
			name += st.Muted.Render(" (fork)")
		}
		t.Row(fmt.Sprint(i+1), name, humanize.Comma(int64(r.StarCount)), pushed, fmt.Sprintf("%.2f", r.Priority))
	}
	cmd.Println(t.String())
	return nil
}
