package services

import (
	"context"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/logger"
)

// PageFetcher fetches one numbered page (starting at 1).
type PageFetcher[T any] func(ctx context.Context, page int) domain.PageResult[T]

// CollectOptions configures a paginated walk.
type CollectOptions[T any] struct {
	// Name labels the resource in log output.
	Name string

	// Key extracts the identity used for duplicate detection. Required.
	Key func(T) string

	// Skip drops items before key extraction. Skipped items are never
	// treated as duplicates.
	Skip func(T) bool

	// MaxPages caps the walk; 0 means unlimited.
	MaxPages int
}

// Collect walks a numbered-page resource until a termination condition fires
// and returns the ordered, deduplicated items.
//
// A page shorter than domain.PageSize is the last page. On a full page the
// walk stops at the first item whose key was already seen, keeping only the
// items before it; this guards against listings that shift while being read.
// Rate limits, missing resources and upstream errors end the walk with the
// items gathered so far.
func Collect[T any](ctx context.Context, fetch PageFetcher[T], opts CollectOptions[T]) domain.Collection[T] {
	if opts.Name == "" {
		opts.Name = "collection"
	}
	var out domain.Collection[T]
	seen := make(map[string]struct{})

	for page := 1; ; page++ {
		if opts.MaxPages > 0 && page > opts.MaxPages {
			out.Outcome = domain.OutcomePageLimit
			logger.Debug("%s: page limit %d reached", opts.Name, opts.MaxPages)
			return out
		}

		select {
		case <-ctx.Done():
			out.Outcome = domain.OutcomeCancelled
			out.Message = ctx.Err().Error()
			return out
		default:
		}

		res := fetch(ctx, page)
		out.Pages++

		switch res.Status {
		case domain.PageRateLimited:
			out.Outcome = domain.OutcomeRateLimited
			out.Message = res.Message
			logger.Warn("%s: rate limited on page %d, keeping %d items", opts.Name, page, len(out.Items))
			return out
		case domain.PageNotFound:
			out.Outcome = domain.OutcomeNotFound
			out.Message = res.Message
			logger.Debug("%s: not found", opts.Name)
			return out
		case domain.PageTransientError:
			out.Outcome = domain.OutcomeError
			out.Message = res.Message
			logger.Warn("%s: page %d failed: %s", opts.Name, page, res.Message)
			return out
		}

		full := len(res.Items) >= domain.PageSize
		for _, item := range res.Items {
			if opts.Skip != nil && opts.Skip(item) {
				continue
			}
			key := opts.Key(item)
			if _, dup := seen[key]; dup {
				if full {
					out.Outcome = domain.OutcomeDuplicate
					logger.Debug("%s: repeated item %q on page %d, stopping", opts.Name, key, page)
					return out
				}
				continue
			}
			seen[key] = struct{}{}
			out.Items = append(out.Items, item)
		}

		logger.Debug("%s: page %d returned %d items", opts.Name, page, len(res.Items))

		if !full {
			out.Outcome = domain.OutcomeComplete
			return out
		}
	}
}
