// Package cli implements the recon command line interface with cobra.
// Commands run against ports only; cmd/recon wires the adapters in through
// Configure.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recon-cli/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Platform is the client surface the CLI needs besides scanning.
type Platform interface {
	driven.PlatformClient
	ValidateCredentials(ctx context.Context) (string, error)
}

// ClientFactory builds a platform client for a token. An empty token means
// anonymous access.
type ClientFactory func(ctx context.Context, token string, useCache bool) (Platform, error)

// ScannerFactory builds a scan service for a client and configuration.
type ScannerFactory func(client driven.PlatformClient, cfg domain.ScanConfig) (driving.ScanService, error)

// Dependencies are the adapters the commands run against.
type Dependencies struct {
	Config     driven.ConfigStore
	Clients    ClientFactory
	Scanners   ScannerFactory
	Classifier driving.ClassifyService

	// Cache is nil when the response cache could not be opened.
	Cache driven.CacheMaintainer
}

var (
	configStore driven.ConfigStore
	newClient   ClientFactory
	newScanner  ScannerFactory
	classifier  driving.ClassifyService
	cacheStore  driven.CacheMaintainer
)

// Global flags
var (
	verbose bool
	quiet   bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "recon",
	Short: "Aggregate public identity evidence for a GitHub account",
	Long: `recon collects the email addresses a GitHub account has exposed through
public commits, events, gists, READMEs and contributor lists, classifies them
and writes a report.

Scans are sized against the remaining API quota before they start. Set a
token with 'recon auth login' or GITHUB_TOKEN for the 5000 requests/hour
authenticated limit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		logger.SetQuiet(quiet)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// Configure sets the dependencies used by every command.
func Configure(deps Dependencies) {
	configStore = deps.Config
	newClient = deps.Clients
	newScanner = deps.Scanners
	classifier = deps.Classifier
	cacheStore = deps.Cache
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context, which stops a running scan after the current repository.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command context, falling back to Background for
// commands executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
