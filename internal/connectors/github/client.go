package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// UserAgent identifies requests made by recon.
	UserAgent = "recon-cli"
)

// Ensure Client implements the interface.
var _ driven.PlatformClient = (*Client)(nil)

// Config configures a Client.
type Config struct {
	// Token is a personal access or OAuth token. Empty means anonymous
	// access with the 60 requests/hour limit.
	Token string

	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise or tests.
	BaseURL string

	// Cache enables conditional requests when set.
	Cache driven.ResponseCache

	// Timeout bounds each HTTP request. Zero uses DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64
}

// Client wraps the go-github client and maps its responses into domain
// types. Page methods decide the error shape here, once, and report it as a
// domain.PageResult status.
type Client struct {
	gh            *gh.Client
	rateLimiter   *RateLimiter
	authenticated bool
}

// NewClient creates a GitHub API client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.Cache != nil {
		transport = NewCachingTransport(transport, cfg.Cache)
	}

	httpClient := &http.Client{Transport: transport}
	limit := AnonymousRateLimit
	if cfg.Token != "" {
		// oauth2.NewClient wraps the transport carried by ctx.
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
		limit = AuthenticatedRateLimit
	}
	httpClient.Timeout = timeout

	client := gh.NewClient(httpClient)
	client.UserAgent = UserAgent

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("%w: base url %q: %v", domain.ErrInvalidInput, cfg.BaseURL, err)
		}
		client.BaseURL = u
	}

	return &Client{
		gh:            client,
		rateLimiter:   NewRateLimiter(limit, cfg.RequestsPerSecond),
		authenticated: cfg.Token != "",
	}, nil
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// Authenticated reports whether requests carry a token.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// RateLimit returns the current core quota. The rate limit endpoint does not
// count against the quota.
func (c *Client) RateLimit(ctx context.Context) (*domain.Quota, error) {
	limits, resp, err := c.gh.RateLimit.Get(ctx)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get rate limit")
	}

	core := limits.GetCore()
	if core == nil {
		return &domain.Quota{
			Limit:     c.rateLimiter.Limit(),
			Remaining: c.rateLimiter.Remaining(),
			Reset:     c.rateLimiter.ResetTime(),
		}, nil
	}
	return &domain.Quota{Limit: core.Limit, Remaining: core.Remaining, Reset: core.Reset.Time}, nil
}

// ValidateCredentials checks the token by fetching the authenticated user and
// returns its login.
func (c *Client) ValidateCredentials(ctx context.Context) (string, error) {
	if !c.authenticated {
		return "", domain.ErrAuthRequired
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	user, resp, err := c.gh.Users.Get(ctx, "")
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		err = c.wrapError(err, "validate credentials")
		if IsUnauthorized(err) {
			return "", fmt.Errorf("%w: %v", domain.ErrAuthInvalid, err)
		}
		return "", err
	}
	return user.GetLogin(), nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Check for rate limit errors
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := c.rateLimiter.ResetTime()
		if d := abuseErr.GetRetryAfter(); d > 0 {
			resetAt = time.Now().Add(d)
		}
		return &RateLimitError{
			ResetAt:   resetAt,
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	// Check for GitHub error response
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		if rlErr := c.rateLimiter.CheckRateLimit(ghErr.Response); rlErr != nil {
			return rlErr
		}
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%s: %w", operation, err)
}

// toPage decides the page status for a fetch result. Empty repositories
// answer commit listings with 409 and are reported as an empty page.
func toPage[T any](items []T, err error) domain.PageResult[T] {
	switch {
	case err == nil:
		return domain.ItemsPage(items)
	case IsRateLimited(err):
		return domain.RateLimitedPage[T](err.Error())
	case IsNotFound(err):
		return domain.NotFoundPage[T](err.Error())
	case IsEmptyRepository(err):
		return domain.ItemsPage[T](nil)
	default:
		return domain.ErrorPage[T](err.Error())
	}
}

// listOptions returns go-github list options for a numbered page.
func listOptions(page int) gh.ListOptions {
	return gh.ListOptions{Page: page, PerPage: domain.PageSize}
}

// mapAll converts a page of go-github values.
func mapAll[In any, Out any](in []In, fn func(In) Out) []Out {
	out := make([]Out, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
