package domain

// PageSize is the fixed number of items requested per page.
const PageSize = 100

// PageStatus tags the outcome of a single page fetch.
type PageStatus int

const (
	// PageItems means the page returned a (possibly empty) list of items.
	PageItems PageStatus = iota
	// PageRateLimited means the quota was exhausted.
	PageRateLimited
	// PageNotFound means the resource does not exist.
	PageNotFound
	// PageTransientError means any other error-shaped response.
	PageTransientError
)

// String returns a human-readable status name.
func (s PageStatus) String() string {
	switch s {
	case PageItems:
		return "items"
	case PageRateLimited:
		return "rate_limited"
	case PageNotFound:
		return "not_found"
	case PageTransientError:
		return "error"
	default:
		return "unknown"
	}
}

// PageResult is the result of fetching one numbered page.
// The transport decides the status once; callers never inspect raw payloads.
type PageResult[T any] struct {
	Status  PageStatus
	Items   []T
	Message string
}

// ItemsPage returns a successful page.
func ItemsPage[T any](items []T) PageResult[T] {
	return PageResult[T]{Status: PageItems, Items: items}
}

// RateLimitedPage returns a rate-limited page result.
func RateLimitedPage[T any](message string) PageResult[T] {
	return PageResult[T]{Status: PageRateLimited, Message: message}
}

// NotFoundPage returns a not-found page result.
func NotFoundPage[T any](message string) PageResult[T] {
	return PageResult[T]{Status: PageNotFound, Message: message}
}

// ErrorPage returns a transient-error page result.
func ErrorPage[T any](message string) PageResult[T] {
	return PageResult[T]{Status: PageTransientError, Message: message}
}

// Outcome describes why a paginated collection stopped.
type Outcome string

const (
	// OutcomeComplete means a short page was reached.
	OutcomeComplete Outcome = "complete"
	// OutcomeDuplicate means a full page repeated an already-seen item.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeRateLimited means the quota ran out mid-walk.
	OutcomeRateLimited Outcome = "rate_limited"
	// OutcomeNotFound means the resource does not exist.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeError means an unexpected upstream error.
	OutcomeError Outcome = "error"
	// OutcomeCancelled means the context was cancelled between pages.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomePageLimit means the configured page cap was reached.
	OutcomePageLimit Outcome = "page_limit"
)

// Collection is the ordered, deduplicated result of a paginated walk.
type Collection[T any] struct {
	Items   []T
	Pages   int
	Outcome Outcome
	Message string
}

// Partial reports whether the walk ended before the listing was exhausted.
// A duplicate stop counts as complete: the listing wrapped onto itself.
func (c Collection[T]) Partial() bool {
	return c.Outcome != OutcomeComplete && c.Outcome != OutcomeDuplicate
}
