package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driving"
)

var scanOpts scanFlags

var scanCmd = &cobra.Command{
	Use:   "scan <user>",
	Short: "Collect and classify the email identities of a user",
	Long: `Scans the public activity of a GitHub user and aggregates every email
address observed in commit signatures. With --deep, push events, gists,
READMEs, anonymous contributors and the follower network are searched as
well, and commit messages and READMEs are checked for leaked secrets.

A snapshot of the scan is written to the output directory after every step,
so an interrupted or rate-limited scan still leaves its results behind.

Examples:
  recon scan octocat
  recon scan octocat --deep --smart -f all -o ./reports
  recon scan octocat --max-repos 20 --min-stars 1`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanOpts.register(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if newScanner == nil {
		return errors.New("scan service not configured")
	}
	target := strings.TrimPrefix(args[0], "@")

	cfg, err := scanOpts.scanConfig(cmd)
	if err != nil {
		return err
	}
	client, err := connect(cmd, resolveToken(scanOpts.token), scanOpts.noCache)
	if err != nil {
		return err
	}
	scanner, err := newScanner(client, cfg)
	if err != nil {
		return err
	}

	st := newStyles(cmd.OutOrStdout())
	mode := "standard"
	if cfg.DeepMode {
		mode = "deep"
	}
	auth := "anonymous"
	if client.Authenticated() {
		auth = "authenticated"
	}
	cmd.Println(st.Title.Render("Scanning "+target) + st.Muted.Render(fmt.Sprintf(" (%s, %s)", mode, auth)))

	ctx := commandContext(cmd)
	session, err := scanWithProgress(ctx, cmd, scanner, target)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("user %s does not exist", target)
		}
		return fmt.Errorf("scan failed: %w", err)
	}

	// Export even when the scan was interrupted.
	paths, exportErr := scanner.Export(context.WithoutCancel(ctx), session)

	printSummary(cmd, st, session)
	printIdentities(cmd, st, session, cfg)

	if len(paths) > 0 {
		cmd.Println()
		cmd.Println(st.Heading.Render("Reports"))
		for _, p := range paths {
			cmd.Printf("  %s\n", p)
		}
	}
	if exportErr != nil {
		return fmt.Errorf("export failed: %w", exportErr)
	}
	return nil
}

// scanWithProgress runs the scan while displaying progress on a terminal.
func scanWithProgress(ctx context.Context, cmd *cobra.Command, svc driving.ScanService, target string) (*domain.ScanSession, error) {
	// Verbose logs and the progress line would interleave.
	if quiet || verbose || !isTerminal(cmd.ErrOrStderr()) {
		return svc.Scan(ctx, target)
	}

	type result struct {
		session *domain.ScanSession
		err     error
	}
	done := make(chan result, 1)
	go func() {
		session, err := svc.Scan(ctx, target)
		done <- result{session, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	out := cmd.ErrOrStderr()
	for {
		select {
		case r := <-done:
			fmt.Fprint(out, "\r\033[K")
			return r.session, r.err
		case <-ticker.C:
			// Best effort
			status, err := svc.Status(ctx, target)
			if err == nil && status != nil && status.Running {
				fmt.Fprintf(out, "\r\033[KRepositories %d/%d, %d identities",
					status.ReposScanned, status.ReposSelected, status.Identities)
			}
		}
	}
}

func printSummary(cmd *cobra.Command, st *styles, s *domain.ScanSession) {
	cmd.Println()
	if p := s.Profile; p != nil {
		row := func(label, value string) {
			if value != "" {
				cmd.Println(st.Label.Render(label) + value)
			}
		}
		row("Name", p.Name)
		row("Company", p.Company)
		row("Location", p.Location)
		row("Public email", p.Email)
		row("Blog", p.Blog)
		if !p.CreatedAt.IsZero() {
			row("Joined", humanize.Time(p.CreatedAt))
		}
		row("Followers", fmt.Sprintf("%s followers, %s following",
			humanize.Comma(int64(p.Followers)), humanize.Comma(int64(p.Following))))
	}
	if len(s.Organizations) > 0 {
		orgs := make([]string, 0, len(s.Organizations))
		for _, o := range s.Organizations {
			orgs = append(orgs, o.Login)
		}
		cmd.Println(st.Label.Render("Organizations") + strings.Join(orgs, ", "))
	}

	pr := s.Progress
	cmd.Println(st.Label.Render("Repositories") +
		fmt.Sprintf("%d scanned, %d selected of %d", pr.ReposScanned, pr.ReposSelected, pr.ReposTotal))
	cmd.Println(st.Label.Render("Commits") + humanize.Comma(int64(pr.CommitsScanned)))
	if len(s.Keys) > 0 {
		cmd.Println(st.Label.Render("SSH keys") + fmt.Sprint(len(s.Keys)))
	}
	if !s.Completed() {
		cmd.Println(st.Warning.Render("Scan incomplete: results are partial"))
	}
	if pr.RateLimited {
		cmd.Println(st.Warning.Render("Rate limit reached: some resources were not collected"))
	}
	for _, w := range pr.Warnings {
		cmd.Println(st.Warning.Render("! " + w))
	}
}

func printIdentities(cmd *cobra.Command, st *styles, s *domain.ScanSession, cfg domain.ScanConfig) {
	var visible []*domain.EmailIdentity
	hidden := 0
	for _, id := range s.Identities.All() {
		if (cfg.SkipNoreply && id.Classification == domain.ClassNoreply) ||
			(cfg.SkipDisposable && id.Classification == domain.ClassDisposable) {
			hidden++
			continue
		}
		visible = append(visible, id)
	}

	cmd.Println()
	cmd.Println(st.Heading.Render(fmt.Sprintf("Identities (%d)", len(visible))))
	if len(visible) == 0 {
		cmd.Println(st.Muted.Render("  No email addresses found."))
	} else {
		t := st.table("Email", "Class", "Names", "Sources", "Repos")
		for _, id := range visible {
			t.Row(
				id.Email,
				st.classStyle(id.Classification).Render(string(id.Classification)),
				strings.Join(id.Names.Sorted(), ", "),
				strings.Join(id.Sources.Sorted(), ", "),
				fmt.Sprint(len(id.Repositories)),
			)
		}
		cmd.Println(t.String())
	}
	if hidden > 0 {
		cmd.Println(st.Muted.Render(fmt.Sprintf("  %d noreply or disposable addresses hidden", hidden)))
	}

	if len(s.Findings) > 0 {
		cmd.Println()
		cmd.Println(st.Error.Render(fmt.Sprintf("Sensitive findings (%d)", len(s.Findings))))
		for _, f := range s.Findings {
			for _, m := range f.Matches {
				cmd.Printf("  %s %s: %s\n", f.Repository, st.Muted.Render(f.Location), m.Pattern)
			}
		}
	}
}
