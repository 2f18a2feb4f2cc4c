package driven

import (
	"context"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// PlatformClient is the transport boundary to the source-control platform.
//
// Page methods never return errors: the error shape of a response is decided
// once here and expressed as a domain.PageResult status. Single-resource
// methods return domain.ErrNotFound or domain.ErrRateLimited (wrapped) for
// those conditions and any other error for transient failures.
type PlatformClient interface {
	// Profile fetches the public profile of user.
	Profile(ctx context.Context, user string) (*domain.Profile, error)

	// Repositories lists repositories owned by user.
	Repositories(ctx context.Context, user string, page int) domain.PageResult[domain.Repository]

	// Commits lists commits of owner/repo, newest first.
	Commits(ctx context.Context, owner, repo string, page int) domain.PageResult[domain.Commit]

	// Organizations lists the user's public organization memberships.
	Organizations(ctx context.Context, user string, page int) domain.PageResult[domain.Organization]

	// Keys lists the user's public SSH keys.
	Keys(ctx context.Context, user string, page int) domain.PageResult[domain.SSHKey]

	// Gists lists the user's public gists without file contents.
	Gists(ctx context.Context, user string, page int) domain.PageResult[domain.Gist]

	// Gist fetches one gist including file contents.
	Gist(ctx context.Context, id string) (*domain.Gist, error)

	// Events lists the user's public activity events.
	Events(ctx context.Context, user string, page int) domain.PageResult[domain.Event]

	// Contributors lists contributors of owner/repo, anonymous ones included.
	Contributors(ctx context.Context, owner, repo string, page int) domain.PageResult[domain.Contributor]

	// Followers lists accounts following user.
	Followers(ctx context.Context, user string, page int) domain.PageResult[domain.Account]

	// Following lists accounts user follows.
	Following(ctx context.Context, user string, page int) domain.PageResult[domain.Account]

	// Starred lists repositories starred by user.
	Starred(ctx context.Context, user string, page int) domain.PageResult[domain.Repository]

	// Readme fetches the decoded README of owner/repo.
	Readme(ctx context.Context, owner, repo string) (string, error)

	// RateLimit returns the current core quota.
	RateLimit(ctx context.Context) (*domain.Quota, error)

	// Authenticated reports whether requests carry a token.
	Authenticated() bool
}
