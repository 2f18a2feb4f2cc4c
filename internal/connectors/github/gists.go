package github

import (
	"context"
	"slices"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// Gists lists the user's public gists. File contents are not included.
func (c *Client) Gists(ctx context.Context, user string, page int) domain.PageResult[domain.Gist] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.Gist](nil, err)
	}

	opts := &gh.GistListOptions{ListOptions: listOptions(page)}
	gists, resp, err := c.gh.Gists.List(ctx, user, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.Gist](nil, c.wrapError(err, "list gists"))
	}
	return domain.ItemsPage(mapAll(gists, toGist))
}

// Gist fetches one gist including file contents.
func (c *Client) Gist(ctx context.Context, id string) (*domain.Gist, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	g, resp, err := c.gh.Gists.Get(ctx, id)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get gist")
	}
	gist := toGist(g)
	return &gist, nil
}

func toGist(g *gh.Gist) domain.Gist {
	gist := domain.Gist{
		ID:          g.GetID(),
		Description: g.GetDescription(),
		Public:      g.GetPublic(),
		HTMLURL:     g.GetHTMLURL(),
		CreatedAt:   g.GetCreatedAt().Time,
		Files:       make([]domain.GistFile, 0, len(g.Files)),
	}
	for name, f := range g.Files {
		filename := f.GetFilename()
		if filename == "" {
			filename = string(name)
		}
		gist.Files = append(gist.Files, domain.GistFile{
			Name:     filename,
			Language: f.GetLanguage(),
			Size:     f.GetSize(),
			Content:  f.GetContent(),
		})
	}
	slices.SortFunc(gist.Files, func(a, b domain.GistFile) int {
		return strings.Compare(a.Name, b.Name)
	})
	return gist
}
