package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/recon-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recon-cli/internal/core/services"
)

// fakeClient implements Platform. Page methods are not used by the CLI and
// panic through the nil embedded interface.
type fakeClient struct {
	driven.PlatformClient

	authenticated bool
	quota         *domain.Quota
	login         string
	validateErr   error
}

func (f *fakeClient) Authenticated() bool { return f.authenticated }

func (f *fakeClient) RateLimit(_ context.Context) (*domain.Quota, error) {
	return f.quota, nil
}

func (f *fakeClient) ValidateCredentials(_ context.Context) (string, error) {
	return f.login, f.validateErr
}

// fakeScanner implements driving.ScanService with canned results.
type fakeScanner struct {
	plan      *driving.ScanPlan
	session   *domain.ScanSession
	err       error
	paths     []string
	exportErr error
	exported  bool
}

func (f *fakeScanner) Plan(_ context.Context, _ string) (*driving.ScanPlan, error) {
	return f.plan, f.err
}

func (f *fakeScanner) Scan(_ context.Context, _ string) (*domain.ScanSession, error) {
	return f.session, f.err
}

func (f *fakeScanner) Status(_ context.Context, target string) (*driving.ScanStatus, error) {
	return &driving.ScanStatus{Target: target}, nil
}

func (f *fakeScanner) Export(_ context.Context, _ *domain.ScanSession) ([]string, error) {
	f.exported = true
	return f.paths, f.exportErr
}

// fakeCache implements driven.CacheMaintainer.
type fakeCache struct {
	stats   domain.CacheStats
	cleared bool
	cutoff  time.Time
}

func (f *fakeCache) Stats(_ context.Context) (domain.CacheStats, error) { return f.stats, nil }

func (f *fakeCache) Clear(_ context.Context) (int64, error) {
	f.cleared = true
	return int64(f.stats.Entries), nil
}

func (f *fakeCache) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 1, nil
}

func (f *fakeCache) Path() string { return "/tmp/recon/cache.db" }

// testEnv records what the commands asked the factories for.
type testEnv struct {
	config  *memory.ConfigStore
	client  *fakeClient
	scanner *fakeScanner
	cache   *fakeCache

	token    string
	useCache bool
	cfg      domain.ScanConfig
}

func setupCLI(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(TokenEnv, "")

	env := &testEnv{
		config:  memory.NewConfigStore(),
		client:  &fakeClient{login: "octocat"},
		scanner: &fakeScanner{},
		cache:   &fakeCache{},
	}
	Configure(Dependencies{
		Config: env.config,
		Clients: func(_ context.Context, token string, useCache bool) (Platform, error) {
			env.token = token
			env.useCache = useCache
			env.client.authenticated = token != ""
			return env.client, nil
		},
		Scanners: func(_ driven.PlatformClient, cfg domain.ScanConfig) (driving.ScanService, error) {
			env.cfg = cfg
			return env.scanner, nil
		},
		Classifier: services.Classifier{},
		Cache:      env.cache,
	})
	t.Cleanup(func() {
		Configure(Dependencies{})
		resetFlags(rootCmd)
	})
	return env
}

// execute runs the root command with args and returns the combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so tests do not leak state
// through the package-level command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func sampleSession() *domain.ScanSession {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := domain.NewScanSession("id-1", "octocat", domain.PlatformGitHub, now)
	s.Profile = &domain.Profile{Login: "octocat", Name: "The Octocat", Company: "GitHub", Followers: 1200}
	s.Organizations = []domain.Organization{{Login: "github"}}
	s.Progress = domain.ScanProgress{ReposTotal: 8, ReposSelected: 3, ReposScanned: 3, CommitsScanned: 1500}
	for _, obs := range []domain.Observation{
		{Email: "octo@gmail.com", Name: "Octo", Source: domain.SourceCommit, Repository: "hello"},
		{Email: "octo@github.com", Name: "Octo Cat", Source: domain.SourceEvent, Repository: "hello"},
		{Email: "1+octocat@users.noreply.github.com", Name: "Octo", Source: domain.SourceCommit, Repository: "hello"},
	} {
		services.Merge(s.Identities, obs)
	}
	completed := now.Add(time.Minute)
	s.CompletedAt = &completed
	return s
}

func stringsReader(s string) *bytes.Buffer {
	return bytes.NewBufferString(s)
}
