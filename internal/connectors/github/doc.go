// Package github implements the platform client for the GitHub REST API.
//
// The client reads public data about one account: profile, organization
// memberships, SSH keys, owned repositories and their commit history,
// contributors, READMEs, gists, public events, followers, following and
// starred repositories. It never writes.
//
// # Architecture
//
// The client follows the driven port pattern defined in [driven.PlatformClient].
// It comprises the following components:
//
//   - Client: go-github wrapper mapping API objects into domain types
//   - RateLimiter: proactive throttling plus quota tracking from headers
//   - CachingTransport: conditional requests backed by [driven.ResponseCache]
//
// # Pages
//
// Listing methods fetch exactly one numbered page of up to 100 items and
// never return an error. The error shape of a response is decided here, once,
// and reported as a [domain.PageResult] status:
//
//   - 2xx: items
//   - 403 with an exhausted quota, 429, secondary limits: rate limited
//   - 404: not found
//   - 409 on commit listings (empty repository): empty items
//   - anything else: transient error
//
// # Authentication
//
// A personal access token is optional. Without one, requests are anonymous
// and limited to 60 per hour; with one, the limit is 5,000 per hour.
//
// # Rate Limiting
//
// A token bucket optionally spaces requests. The X-RateLimit-Remaining and
// X-RateLimit-Reset headers of every response are tracked; once the quota is
// exhausted calls fail fast with a [RateLimitError] until the reset time
// instead of sleeping, so a scan can finish with a partial result.
//
// # Conditional Requests
//
// When a cache is configured, GET responses carrying an ETag are stored and
// later requests send If-None-Match. A 304 answer is replayed from the cache
// with the fresh rate limit headers. GitHub does not count 304 responses
// against the quota, which makes repeated scans of the same account cheap.
package github
