package cli

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

func TestClassifyCmd(t *testing.T) {
	setupCLI(t)

	out, err := execute("classify", "jane@gmail.com", "jane@corp.co.uk", "123+jane@users.noreply.github.com", "not-an-email")

	require.NoError(t, err)
	assert.Contains(t, out, "jane@gmail.com")
	assert.Contains(t, out, "personal")
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "corp.co.uk")
	assert.Contains(t, out, "noreply")
	assert.Contains(t, out, "invalid")
}

func TestClassifyCmd_RequiresArgs(t *testing.T) {
	setupCLI(t)

	_, err := execute("classify")

	assert.Error(t, err)
}

func TestRateLimitCmd(t *testing.T) {
	env := setupCLI(t)
	env.client.quota = &domain.Quota{Limit: 5000, Remaining: 4321, Reset: time.Now().Add(30 * time.Minute)}
	require.NoError(t, env.config.Set(KeyGitHubToken, "ghp_stored"))

	out, err := execute("ratelimit")

	require.NoError(t, err)
	assert.Equal(t, "ghp_stored", env.token)
	assert.Contains(t, out, "authenticated")
	assert.Contains(t, out, "4,321 of 5,000")
	assert.Contains(t, out, "from now")
}

func TestConfigCmd_SetGetList(t *testing.T) {
	env := setupCLI(t)

	out, err := execute("config", "set", KeyConcurrency, "4")
	require.NoError(t, err)
	assert.Contains(t, out, "scan.concurrency = 4")
	assert.Equal(t, 4, env.config.GetInt(KeyConcurrency))

	_, err = execute("config", "set", KeyDeep, "true")
	require.NoError(t, err)
	assert.True(t, env.config.GetBool(KeyDeep))

	_, err = execute("config", "set", KeyGitHubToken, "ghp_abcdefghijkl")
	require.NoError(t, err)

	out, err = execute("config", "get", KeyGitHubToken)
	require.NoError(t, err)
	assert.Contains(t, out, "ghp_...ijkl")
	assert.NotContains(t, out, "ghp_abcdefghijkl")

	out, err = execute("config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "github.token = ghp_...ijkl")
	assert.Contains(t, out, "scan.concurrency = 4")
	assert.Contains(t, out, "scan.deep = true")
}

func TestConfigCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown key", []string{"set", "scan.colour", "blue"}, domain.ErrInvalidInput},
		{"bad int", []string{"set", KeyMaxRepos, "many"}, domain.ErrInvalidInput},
		{"concurrency range", []string{"set", KeyConcurrency, "20"}, domain.ErrInvalidInput},
		{"bad bool", []string{"set", KeySmart, "maybe"}, domain.ErrInvalidInput},
		{"bad format", []string{"set", KeyFormats, "json,pdf"}, domain.ErrUnsupportedFormat},
		{"missing key", []string{"get", KeyOutputDir}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)

			_, err := execute(append([]string{"config"}, tt.args...)...)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfigCmd_ListEmptyAndPath(t *testing.T) {
	setupCLI(t)

	out, err := execute("config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No settings stored.")

	out, err = execute("config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, ":memory:")
}

func TestAuthLogin(t *testing.T) {
	env := setupCLI(t)

	out, err := execute("auth", "login", "--token", "ghp_new")

	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as octocat")
	assert.Equal(t, "ghp_new", env.config.GetString(KeyGitHubToken))
	assert.False(t, env.useCache)
}

func TestAuthLogin_ReadsStdin(t *testing.T) {
	env := setupCLI(t)
	assert.Equal(t, "ghp_piped", readPassword(stringsReader("ghp_piped\n")))

	_, err := execute("auth", "login")

	assert.ErrorIs(t, err, domain.ErrInvalidInput, "empty input is rejected")
	assert.Empty(t, env.config.GetString(KeyGitHubToken))
}

func TestAuthLogin_Rejected(t *testing.T) {
	env := setupCLI(t)
	env.client.validateErr = fmt.Errorf("%w: bad credentials", domain.ErrAuthInvalid)

	_, err := execute("auth", "login", "--token", "ghp_bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token was rejected")
	assert.Empty(t, env.config.GetString(KeyGitHubToken))
}

func TestAuthStatusAndLogout(t *testing.T) {
	env := setupCLI(t)

	out, err := execute("auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	require.NoError(t, env.config.Set(KeyGitHubToken, "ghp_abcdefghijkl"))
	out, err = execute("auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "ghp_...ijkl")
	assert.Contains(t, out, "octocat")
	assert.False(t, env.useCache, "credentials are validated without the response cache")

	t.Setenv(TokenEnv, "ghp_fromenvironment")
	out, err = execute("auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "from "+TokenEnv)

	out, err = execute("auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Token removed.")
	assert.Empty(t, env.config.GetString(KeyGitHubToken))

	out, err = execute("auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "No token stored.")
}

func TestCacheCmd(t *testing.T) {
	env := setupCLI(t)
	env.cache.stats = domain.CacheStats{Entries: 1234, Bytes: 2 * 1000 * 1000, Oldest: time.Now().Add(-48 * time.Hour)}

	out, err := execute("cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "/tmp/recon/cache.db")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "2.0 MB")
	assert.Contains(t, out, "2 days ago")

	out, err = execute("cache", "clear", "--older-than", "24h")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 cached responses.")
	assert.False(t, env.cache.cleared)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), env.cache.cutoff, time.Minute)

	resetFlags(rootCmd)
	out, err = execute("cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1,234 cached responses.")
	assert.True(t, env.cache.cleared)
}

func TestCacheCmd_Unavailable(t *testing.T) {
	setupCLI(t)
	Configure(Dependencies{})

	_, err := execute("cache", "stats")

	assert.Error(t, err)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", maskToken("short"))
	assert.Equal(t, "ghp_...wxyz", maskToken("ghp_abcdefghijklmnopqrstuvwxyz"))
}
