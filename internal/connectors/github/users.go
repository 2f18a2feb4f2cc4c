package github

import (
	"context"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// Profile fetches the public profile of user.
func (c *Client) Profile(ctx context.Context, user string) (*domain.Profile, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, resp, err := c.gh.Users.Get(ctx, user)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get user")
	}
	return toProfile(u), nil
}

// Organizations lists the user's public organization memberships.
func (c *Client) Organizations(ctx context.Context, user string, page int) domain.PageResult[domain.Organization] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.Organization](nil, err)
	}

	opts := listOptions(page)
	orgs, resp, err := c.gh.Organizations.List(ctx, user, &opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.Organization](nil, c.wrapError(err, "list organizations"))
	}
	return domain.ItemsPage(mapAll(orgs, toOrganization))
}

// Keys lists the user's public SSH keys.
func (c *Client) Keys(ctx context.Context, user string, page int) domain.PageResult[domain.SSHKey] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.SSHKey](nil, err)
	}

	opts := listOptions(page)
	keys, resp, err := c.gh.Users.ListKeys(ctx, user, &opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.SSHKey](nil, c.wrapError(err, "list keys"))
	}
	return domain.ItemsPage(mapAll(keys, func(k *gh.Key) domain.SSHKey {
		return domain.SSHKey{ID: k.GetID(), Key: k.GetKey()}
	}))
}

// Followers lists accounts following user.
func (c *Client) Followers(ctx context.Context, user string, page int) domain.PageResult[domain.Account] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.Account](nil, err)
	}

	opts := listOptions(page)
	users, resp, err := c.gh.Users.ListFollowers(ctx, user, &opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.Account](nil, c.wrapError(err, "list followers"))
	}
	return domain.ItemsPage(mapAll(users, toAccount))
}

// Following lists accounts user follows.
func (c *Client) Following(ctx context.Context, user string, page int) domain.PageResult[domain.Account] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.Account](nil, err)
	}

	opts := listOptions(page)
	users, resp, err := c.gh.Users.ListFollowing(ctx, user, &opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.Account](nil, c.wrapError(err, "list following"))
	}
	return domain.ItemsPage(mapAll(users, toAccount))
}

func toProfile(u *gh.User) *domain.Profile {
	return &domain.Profile{
		Login:           u.GetLogin(),
		Name:            u.GetName(),
		Type:            u.GetType(),
		Company:         u.GetCompany(),
		Blog:            u.GetBlog(),
		Location:        u.GetLocation(),
		Email:           u.GetEmail(),
		Bio:             u.GetBio(),
		TwitterUsername: u.GetTwitterUsername(),
		PublicRepos:     u.GetPublicRepos(),
		PublicGists:     u.GetPublicGists(),
		Followers:       u.GetFollowers(),
		Following:       u.GetFollowing(),
		AvatarURL:       u.GetAvatarURL(),
		HTMLURL:         u.GetHTMLURL(),
		CreatedAt:       u.GetCreatedAt().Time,
		UpdatedAt:       u.GetUpdatedAt().Time,
	}
}

func toOrganization(o *gh.Organization) domain.Organization {
	return domain.Organization{
		Login:       o.GetLogin(),
		Description: o.GetDescription(),
		URL:         o.GetHTMLURL(),
	}
}

func toAccount(u *gh.User) domain.Account {
	return domain.Account{Login: u.GetLogin(), Type: u.GetType()}
}
