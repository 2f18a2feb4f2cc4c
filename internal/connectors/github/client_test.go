package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// newTestClient starts a fake API server and returns a client pointed at it.
func newTestClient(t *testing.T, token string, mux *http.ServeMux) *Client {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), Config{Token: token, BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, body)
}

func TestNewClient(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		client, err := NewClient(context.Background(), Config{})
		require.NoError(t, err)
		assert.False(t, client.Authenticated())
		assert.Equal(t, AnonymousRateLimit, client.RateLimiter().Limit())
		assert.Equal(t, "https://api.github.com/", client.GitHub().BaseURL.String())
	})

	t.Run("authenticated with base url", func(t *testing.T) {
		client, err := NewClient(context.Background(), Config{Token: "t", BaseURL: "https://ghe.example.com/api/v3"})
		require.NoError(t, err)
		assert.True(t, client.Authenticated())
		assert.Equal(t, AuthenticatedRateLimit, client.RateLimiter().Limit())
		assert.Equal(t, "https://ghe.example.com/api/v3/", client.GitHub().BaseURL.String())
	})

	t.Run("invalid base url", func(t *testing.T) {
		_, err := NewClient(context.Background(), Config{BaseURL: "://bad"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestClient_Profile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{
			"login": "octocat", "name": "The Octocat", "company": "@github",
			"email": "octocat@github.com", "public_repos": 8, "followers": 20,
			"created_at": "2011-01-25T18:44:36Z"
		}`)
	})
	mux.HandleFunc("GET /users/ghost", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message": "Not Found"}`)
	})
	client := newTestClient(t, "secret", mux)

	profile, err := client.Profile(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "octocat", profile.Login)
	assert.Equal(t, "The Octocat", profile.Name)
	assert.Equal(t, "octocat@github.com", profile.Email)
	assert.Equal(t, 8, profile.PublicRepos)
	assert.Equal(t, 2011, profile.CreatedAt.Year())

	_, err = client.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestClient_Repositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "owner", q.Get("type"))
		writeJSON(w, http.StatusOK, `[
			{"name": "hello", "full_name": "octocat/hello", "owner": {"login": "octocat"},
			 "description": "My first repo", "fork": false, "archived": true,
			 "pushed_at": "2026-01-02T03:04:05Z", "stargazers_count": 42, "has_issues": true,
			 "language": "Go"},
			{"name": "spoon", "full_name": "octocat/spoon", "fork": true}
		]`)
	})
	client := newTestClient(t, "", mux)

	page := client.Repositories(context.Background(), "octocat", 2)

	require.Equal(t, domain.PageItems, page.Status)
	require.Len(t, page.Items, 2)
	hello := page.Items[0]
	assert.Equal(t, "hello", hello.Name)
	assert.Equal(t, "octocat", hello.Owner)
	assert.True(t, hello.HasDescription())
	assert.True(t, hello.IsArchived)
	assert.Equal(t, 42, hello.StarCount)
	assert.True(t, hello.HasIssues)
	require.NotNil(t, hello.PushedAt)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), hello.PushedAt.UTC())
	assert.True(t, page.Items[1].IsFork)
	assert.Nil(t, page.Items[1].PushedAt)
}

func TestClient_Commits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/hello/commits", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[
			{"sha": "abc123", "author": {"login": "octocat"},
			 "commit": {"message": "Initial commit",
			   "author": {"name": "Octo Cat", "email": "octo@acme-corp.io", "date": "2026-01-01T00:00:00Z"},
			   "committer": {"name": "GitHub", "email": "noreply@github.com"}}},
			{"sha": "def456", "author": null,
			 "commit": {"message": "Fix", "author": {"name": "Anon", "email": "anon@gmail.com"}}}
		]`)
	})
	mux.HandleFunc("GET /repos/octocat/empty/commits", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusConflict, `{"message": "Git Repository is empty."}`)
	})
	mux.HandleFunc("GET /repos/octocat/broken/commits", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadGateway, `{"message": "Server Error"}`)
	})
	mux.HandleFunc("GET /repos/octocat/gone/commits", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message": "Not Found"}`)
	})
	client := newTestClient(t, "", mux)
	ctx := context.Background()

	t.Run("maps commits", func(t *testing.T) {
		page := client.Commits(ctx, "octocat", "hello", 1)
		require.Equal(t, domain.PageItems, page.Status)
		require.Len(t, page.Items, 2)

		first := page.Items[0]
		assert.Equal(t, "abc123", first.SHA)
		assert.Equal(t, "Octo Cat", first.AuthorName)
		assert.Equal(t, "octo@acme-corp.io", first.AuthorEmail)
		assert.Equal(t, "noreply@github.com", first.CommitterEmail)
		assert.Equal(t, "octocat", first.AuthorLogin)
		assert.Empty(t, page.Items[1].AuthorLogin)
	})

	t.Run("empty repository", func(t *testing.T) {
		page := client.Commits(ctx, "octocat", "empty", 1)
		assert.Equal(t, domain.PageItems, page.Status)
		assert.Empty(t, page.Items)
	})

	t.Run("server error", func(t *testing.T) {
		page := client.Commits(ctx, "octocat", "broken", 1)
		assert.Equal(t, domain.PageTransientError, page.Status)
		assert.Contains(t, page.Message, "502")
	})

	t.Run("not found", func(t *testing.T) {
		page := client.Commits(ctx, "octocat", "gone", 1)
		assert.Equal(t, domain.PageNotFound, page.Status)
	})
}

func TestClient_RateLimited(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat/orgs", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set(HeaderRateLimit, "60")
		w.Header().Set(HeaderRateRemaining, "0")
		w.Header().Set(HeaderRateReset, strconv.FormatInt(reset, 10))
		writeJSON(w, http.StatusForbidden, `{"message": "API rate limit exceeded for 127.0.0.1."}`)
	})
	client := newTestClient(t, "", mux)

	page := client.Organizations(context.Background(), "octocat", 1)
	assert.Equal(t, domain.PageRateLimited, page.Status)
	assert.Equal(t, 0, client.RateLimiter().Remaining())
	assert.Equal(t, reset, client.RateLimiter().ResetTime().Unix())

	// Later calls fail fast without reaching the server.
	page = client.Organizations(context.Background(), "octocat", 2)
	assert.Equal(t, domain.PageRateLimited, page.Status)
	assert.Equal(t, int32(1), calls.Load())

	_, err := client.Profile(context.Background(), "octocat")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.True(t, IsRateLimited(err))
}

func TestClient_ContributorsIncludeAnonymous(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/hello/contributors", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("anon"))
		writeJSON(w, http.StatusOK, `[
			{"login": "octocat", "contributions": 30, "type": "User"},
			{"name": "Jane", "email": "jane@acme-corp.io", "contributions": 2, "type": "Anonymous"}
		]`)
	})
	client := newTestClient(t, "", mux)

	page := client.Contributors(context.Background(), "octocat", "hello", 1)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "octocat", page.Items[0].Login)
	assert.Equal(t, domain.Contributor{Name: "Jane", Email: "jane@acme-corp.io", Contributions: 2}, page.Items[1])
}

func TestClient_Events(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat/events/public", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[
			{"id": "1", "type": "PushEvent", "repo": {"name": "octocat/hello"},
			 "created_at": "2026-02-01T00:00:00Z",
			 "payload": {"commits": [
			   {"sha": "abc", "message": "wip", "author": {"name": "Octo", "email": "octo@home.dev"}}
			 ]}},
			{"id": "2", "type": "WatchEvent", "repo": {"name": "github/linguist"}, "payload": {"action": "started"}}
		]`)
	})
	client := newTestClient(t, "", mux)

	page := client.Events(context.Background(), "octocat", 1)

	require.Len(t, page.Items, 2)
	push := page.Items[0]
	assert.Equal(t, PushEventType, push.Type)
	assert.Equal(t, "octocat/hello", push.Repository)
	assert.Equal(t, []domain.EventCommit{{SHA: "abc", Name: "Octo", Email: "octo@home.dev", Message: "wip"}}, push.Commits)
	assert.Empty(t, page.Items[1].Commits)
}

func TestClient_Gists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat/gists", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id": "g1", "public": true, "files": {"b.txt": {"filename": "b.txt", "size": 3}}}]`)
	})
	mux.HandleFunc("GET /gists/g1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"id": "g1", "description": "notes", "files": {
			"b.txt": {"filename": "b.txt", "content": "bee"},
			"a.md": {"filename": "a.md", "language": "Markdown", "content": "mail me: me@gmail.com"}
		}}`)
	})
	client := newTestClient(t, "", mux)

	page := client.Gists(context.Background(), "octocat", 1)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "g1", page.Items[0].ID)
	assert.Empty(t, page.Items[0].Files[0].Content)

	gist, err := client.Gist(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, gist.Files, 2)
	assert.Equal(t, "a.md", gist.Files[0].Name)
	assert.Equal(t, "mail me: me@gmail.com", gist.Files[0].Content)
	assert.Equal(t, "b.txt", gist.Files[1].Name)
}

func TestClient_Readme(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("# Hello\nContact: docs@acme-corp.io\n"))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/hello/readme", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"type": "file", "encoding": "base64", "content": %q}`, encoded))
	})
	mux.HandleFunc("GET /repos/octocat/bare/readme", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message": "Not Found"}`)
	})
	client := newTestClient(t, "", mux)

	text, err := client.Readme(context.Background(), "octocat", "hello")
	require.NoError(t, err)
	assert.Contains(t, text, "docs@acme-corp.io")

	_, err = client.Readme(context.Background(), "octocat", "bare")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Network(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat/followers", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"login": "hubot", "type": "User"}]`)
	})
	mux.HandleFunc("GET /users/octocat/following", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"login": "github", "type": "Organization"}]`)
	})
	mux.HandleFunc("GET /users/octocat/starred", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"starred_at": "2026-01-02T03:04:05Z", "repo": {"name": "linguist", "full_name": "github/linguist"}}]`)
	})
	mux.HandleFunc("GET /users/octocat/keys", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id": 1, "key": "ssh-ed25519 AAAA"}]`)
	})
	client := newTestClient(t, "", mux)
	ctx := context.Background()

	assert.Equal(t, []domain.Account{{Login: "hubot", Type: "User"}}, client.Followers(ctx, "octocat", 1).Items)
	assert.Equal(t, []domain.Account{{Login: "github", Type: "Organization"}}, client.Following(ctx, "octocat", 1).Items)
	starred := client.Starred(ctx, "octocat", 1).Items
	require.Len(t, starred, 1)
	assert.Equal(t, "github/linguist", starred[0].FullName)
	assert.Equal(t, []domain.SSHKey{{ID: 1, Key: "ssh-ed25519 AAAA"}}, client.Keys(ctx, "octocat", 1).Items)
}

func TestClient_RateLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rate_limit", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"resources": {"core": {"limit": 5000, "remaining": 4321, "reset": 1767225600}}}`)
	})
	client := newTestClient(t, "t", mux)

	quota, err := client.RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5000, quota.Limit)
	assert.Equal(t, 4321, quota.Remaining)
	assert.Equal(t, int64(1767225600), quota.Reset.Unix())
}

func TestClient_ValidateCredentials(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		client := newTestClient(t, "", http.NewServeMux())
		_, err := client.ValidateCredentials(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("valid token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `{"login": "octocat"}`)
		})
		client := newTestClient(t, "good", mux)

		login, err := client.ValidateCredentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "octocat", login)
	})

	t.Run("rejected token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{"message": "Bad credentials"}`)
		})
		client := newTestClient(t, "bad", mux)

		_, err := client.ValidateCredentials(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})
}
