package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// Config keys.
const (
	KeyGitHubToken     = "github.token"
	KeyConcurrency     = "scan.concurrency"
	KeyOutputDir       = "scan.output_dir"
	KeyFormats         = "scan.formats"
	KeyIncludeForks    = "scan.include_forks"
	KeyIncludeArchived = "scan.include_archived"
	KeyMaxAgeMonths    = "scan.max_age_months"
	KeyMaxRepos        = "scan.max_repos"
	KeyMinStars        = "scan.min_stars"
	KeyNetworkLimit    = "scan.network_limit"
	KeySkipNoreply     = "scan.skip_noreply"
	KeySkipDisposable  = "scan.skip_disposable"
	KeySmart           = "scan.smart"
	KeyDeep            = "scan.deep"
	KeyCacheEnabled    = "cache.enabled"
)

// TokenEnv overrides the stored token.
const TokenEnv = "GITHUB_TOKEN"

// knownKeys lists every key "recon config set" accepts.
var knownKeys = []string{
	KeyCacheEnabled,
	KeyGitHubToken,
	KeyConcurrency,
	KeyDeep,
	KeyFormats,
	KeyIncludeArchived,
	KeyIncludeForks,
	KeyMaxAgeMonths,
	KeyMaxRepos,
	KeyMinStars,
	KeyNetworkLimit,
	KeyOutputDir,
	KeySkipDisposable,
	KeySkipNoreply,
	KeySmart,
}

// scanFlags are the flags shared by scan and plan.
type scanFlags struct {
	token           string
	outputDir       string
	formats         []string
	concurrency     int
	maxAgeMonths    int
	maxRepos        int
	minStars        int
	networkLimit    int
	includeForks    bool
	includeArchived bool
	includeNoreply  bool
	skipDisposable  bool
	smart           bool
	deep            bool
	noCache         bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.token, "token", "", "GitHub token (overrides "+TokenEnv+" and the stored token)")
	flags.StringVarP(&f.outputDir, "output", "o", "", "directory for snapshots and reports")
	flags.StringSliceVarP(&f.formats, "format", "f", nil, "report formats: json, html or all")
	flags.IntVarP(&f.concurrency, "concurrency", "c", 0, "concurrent lookups (1-10)")
	flags.IntVar(&f.maxAgeMonths, "max-age", 0, "skip repositories not pushed within this many months")
	flags.IntVar(&f.maxRepos, "max-repos", 0, "scan at most this many repositories")
	flags.IntVar(&f.minStars, "min-stars", 0, "skip repositories with fewer stars")
	flags.IntVar(&f.networkLimit, "network-limit", 0, "profiles to look up from the follower network (deep mode)")
	flags.BoolVar(&f.includeForks, "forks", false, "include forked repositories")
	flags.BoolVar(&f.includeArchived, "archived", false, "include archived repositories")
	flags.BoolVar(&f.includeNoreply, "include-noreply", false, "keep noreply addresses in the report")
	flags.BoolVar(&f.skipDisposable, "skip-disposable", false, "hide disposable addresses in the report")
	flags.BoolVar(&f.smart, "smart", false, "limit the scan to what the remaining quota allows")
	flags.BoolVar(&f.deep, "deep", false, "also collect events, READMEs, gists, contributors and the network")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable the conditional request cache")
}

// resolveToken returns the token from the flag, the environment or the
// config store, in that order.
func resolveToken(flagToken string) string {
	if flagToken != "" {
		return flagToken
	}
	if env := strings.TrimSpace(os.Getenv(TokenEnv)); env != "" {
		return env
	}
	if configStore != nil {
		return configStore.GetString(KeyGitHubToken)
	}
	return ""
}

// cacheEnabled reports whether the response cache should be used.
func cacheEnabled(noCache bool) bool {
	if noCache || cacheStore == nil {
		return false
	}
	if configStore == nil {
		return true
	}
	if _, ok := configStore.Get(KeyCacheEnabled); !ok {
		return true
	}
	return configStore.GetBool(KeyCacheEnabled)
}

// scanConfig layers stored configuration and then changed flags over the
// defaults.
func (f *scanFlags) scanConfig(cmd *cobra.Command) (domain.ScanConfig, error) {
	cfg := domain.DefaultScanConfig()

	if s := configStore; s != nil {
		setInt := func(key string, dst *int) {
			if _, ok := s.Get(key); ok {
				*dst = s.GetInt(key)
			}
		}
		setBool := func(key string, dst *bool) {
			if _, ok := s.Get(key); ok {
				*dst = s.GetBool(key)
			}
		}
		setInt(KeyConcurrency, &cfg.Concurrency)
		setInt(KeyMaxAgeMonths, &cfg.MaxAgeMonths)
		setInt(KeyMaxRepos, &cfg.MaxRepoCount)
		setInt(KeyMinStars, &cfg.MinStars)
		setInt(KeyNetworkLimit, &cfg.NetworkLimit)
		setBool(KeyIncludeForks, &cfg.IncludeForks)
		setBool(KeyIncludeArchived, &cfg.IncludeArchived)
		setBool(KeySkipNoreply, &cfg.SkipNoreply)
		setBool(KeySkipDisposable, &cfg.SkipDisposable)
		setBool(KeySmart, &cfg.SmartMode)
		setBool(KeyDeep, &cfg.DeepMode)
		if dir := s.GetString(KeyOutputDir); dir != "" {
			cfg.OutputDir = dir
		}
		if formats := s.GetString(KeyFormats); formats != "" {
			parsed, err := parseFormats(strings.Split(formats, ","))
			if err != nil {
				return cfg, fmt.Errorf("config %s: %w", KeyFormats, err)
			}
			cfg.Formats = parsed
		}
	}

	changed := cmd.Flags().Changed
	if changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if changed("max-age") {
		cfg.MaxAgeMonths = f.maxAgeMonths
	}
	if changed("max-repos") {
		cfg.MaxRepoCount = f.maxRepos
	}
	if changed("min-stars") {
		cfg.MinStars = f.minStars
	}
	if changed("network-limit") {
		cfg.NetworkLimit = f.networkLimit
	}
	if changed("forks") {
		cfg.IncludeForks = f.includeForks
	}
	if changed("archived") {
		cfg.IncludeArchived = f.includeArchived
	}
	if changed("include-noreply") {
		cfg.SkipNoreply = !f.includeNoreply
	}
	if changed("skip-disposable") {
		cfg.SkipDisposable = f.skipDisposable
	}
	if changed("smart") {
		cfg.SmartMode = f.smart
	}
	if changed("deep") {
		cfg.DeepMode = f.deep
	}
	if changed("output") {
		cfg.OutputDir = f.outputDir
	}
	if changed("format") {
		parsed, err := parseFormats(f.formats)
		if err != nil {
			return cfg, err
		}
		cfg.Formats = parsed
	}

	return cfg, cfg.Validate()
}

func parseFormats(values []string) ([]domain.ExportFormat, error) {
	var out []domain.ExportFormat
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		f, err := domain.ParseExportFormat(v)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no formats given", domain.ErrUnsupportedFormat)
	}
	return out, nil
}

// connect builds a platform client for the resolved token.
func connect(cmd *cobra.Command, token string, noCache bool) (Platform, error) {
	if newClient == nil {
		return nil, errors.New("platform client not configured")
	}
	return newClient(commandContext(cmd), token, cacheEnabled(noCache))
}

// maskToken hides all but the edges of a token.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
