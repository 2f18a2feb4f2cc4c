package github

import (
	"context"
	"encoding/json"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/logger"
)

// PushEventType is the event type carrying commit signatures.
const PushEventType = "PushEvent"

// pushPayload is the subset of a push event payload we read.
type pushPayload struct {
	Commits []struct {
		SHA     string `json:"sha"`
		Message string `json:"message"`
		Author  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"author"`
	} `json:"commits"`
}

// Events lists the user's public activity events. Push events carry the
// commit author signatures from their payload.
func (c *Client) Events(ctx context.Context, user string, page int) domain.PageResult[domain.Event] {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return toPage[domain.Event](nil, err)
	}

	opts := listOptions(page)
	events, resp, err := c.gh.Activity.ListEventsPerformedByUser(ctx, user, true, &opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return toPage[domain.Event](nil, c.wrapError(err, "list events"))
	}
	return domain.ItemsPage(mapAll(events, toEvent))
}

func toEvent(e *gh.Event) domain.Event {
	event := domain.Event{
		ID:         e.GetID(),
		Type:       e.GetType(),
		Repository: e.GetRepo().GetName(),
		CreatedAt:  e.GetCreatedAt().Time,
	}
	if event.Type != PushEventType || e.RawPayload == nil {
		return event
	}

	var payload pushPayload
	if err := json.Unmarshal(*e.RawPayload, &payload); err != nil {
		logger.Debug("event %s: decode push payload: %v", event.ID, err)
		return event
	}
	for _, pc := range payload.Commits {
		event.Commits = append(event.Commits, domain.EventCommit{
			SHA:     pc.SHA,
			Name:    pc.Author.Name,
			Email:   pc.Author.Email,
			Message: pc.Message,
		})
	}
	return event
}
