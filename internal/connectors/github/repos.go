package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// Repositories lists repositories owned by user, ordered by name so listing
// pages stay stable while activity happens.
func (c *Client) Repositories(ctx context.Context, user string, page int) domain.PageResult[domain.Repository] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.Repository](nil, err)
	}

	opts := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "full_name",
		Direction:   "asc",
		ListOptions: listOptions(page),
	}
	repos, resp, err := c.gh.Repositories.ListByUser(ctx, user, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.Repository](nil, c.wrapError(err, "list repositories"))
	}
	return domain.ItemsPage(mapAll(repos, toRepository))
}

// Commits lists commits of owner/repo, newest first. An empty repository
// yields an empty page.
func (c *Client) Commits(ctx context.Context, owner, repo string, page int) domain.PageResult[domain.Commit] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.Commit](nil, err)
	}

	opts := &gh.CommitsListOptions{ListOptions: listOptions(page)}
	commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.Commit](nil, c.wrapError(err, "list commits"))
	}
	return domain.ItemsPage(mapAll(commits, toCommit))
}

// Contributors lists contributors of owner/repo including anonymous ones,
// which carry a name and email instead of a login.
func (c *Client) Contributors(ctx context.Context, owner, repo string, page int) domain.PageResult[domain.Contributor] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.Contributor](nil, err)
	}

	opts := &gh.ListContributorsOptions{Anon: "true", ListOptions: listOptions(page)}
	contributors, resp, err := c.gh.Repositories.ListContributors(ctx, owner, repo, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.Contributor](nil, c.wrapError(err, "list contributors"))
	}
	return domain.ItemsPage(mapAll(contributors, func(ct *gh.Contributor) domain.Contributor {
		return domain.Contributor{
			Login:         ct.GetLogin(),
			Name:          ct.GetName(),
			Email:         ct.GetEmail(),
			Contributions: ct.GetContributions(),
		}
	}))
}

// Starred lists repositories starred by user.
func (c *Client) Starred(ctx context.Context, user string, page int) domain.PageResult[domain.Repository] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.Repository](nil, err)
	}

	opts := &gh.ActivityListStarredOptions{ListOptions: listOptions(page)}
	starred, resp, err := c.gh.Activity.ListStarred(ctx, user, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.Repository](nil, c.wrapError(err, "list starred"))
	}
	return domain.ItemsPage(mapAll(starred, func(s *gh.StarredRepository) domain.Repository {
		return toRepository(s.GetRepository())
	}))
}

// Readme fetches the decoded README of owner/repo.
func (c *Client) Readme(ctx context.Context, owner, repo string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	content, resp, err := c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "get readme")
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode readme: %w", err)
	}
	return decoded, nil
}

func toRepository(r *gh.Repository) domain.Repository {
	repo := domain.Repository{
		Name:            r.GetName(),
		FullName:        r.GetFullName(),
		Owner:           r.GetOwner().GetLogin(),
		Description:     r.GetDescription(),
		IsFork:          r.GetFork(),
		IsArchived:      r.GetArchived(),
		StarCount:       r.GetStargazersCount(),
		HasIssues:       r.GetHasIssues(),
		Detailed:        true,
		Language:        r.GetLanguage(),
		Size:            r.GetSize(),
		ForksCount:      r.GetForksCount(),
		OpenIssuesCount: r.GetOpenIssuesCount(),
		WatchersCount:   r.GetWatchersCount(),
		DefaultBranch:   r.GetDefaultBranch(),
		HTMLURL:         r.GetHTMLURL(),
	}
	if pushed := r.GetPushedAt(); !pushed.IsZero() {
		t := pushed.Time
		repo.PushedAt = &t
	}
	return repo
}

func toCommit(rc *gh.RepositoryCommit) domain.Commit {
	commit := rc.GetCommit()
	author := commit.GetAuthor()
	committer := commit.GetCommitter()
	return domain.Commit{
		SHA:            rc.GetSHA(),
		Message:        commit.GetMessage(),
		AuthorName:     author.GetName(),
		AuthorEmail:    author.GetEmail(),
		CommitterName:  committer.GetName(),
		CommitterEmail: committer.GetEmail(),
		Date:           author.GetDate().Time,
		AuthorLogin:    rc.GetAuthor().GetLogin(),
	}
}
