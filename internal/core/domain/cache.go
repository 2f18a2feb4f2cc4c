package domain

import (
	"net/http"
	"time"
)

// CachedResponse is a stored conditional-request entry keyed by URL.
type CachedResponse struct {
	URL       string
	ETag      string
	Header    http.Header
	Body      []byte
	UpdatedAt time.Time
}

// CacheStats summarises the response cache contents.
type CacheStats struct {
	Entries int
	Bytes   int64
	Oldest  time.Time
}
