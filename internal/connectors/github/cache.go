package github

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
	"github.com/custodia-labs/recon-cli/internal/logger"
)

// Header names used for conditional requests.
const (
	HeaderETag        = "ETag"
	HeaderIfNoneMatch = "If-None-Match"
)

// CachingTransport performs conditional GET requests backed by a
// ResponseCache. A 304 answer is replayed as the cached 200 response with
// the fresh rate limit headers, so callers never see the revalidation.
// GitHub does not charge 304 responses against the quota.
type CachingTransport struct {
	Base  http.RoundTripper
	Cache driven.ResponseCache
	now   func() time.Time
}

// NewCachingTransport wraps base. A nil base uses http.DefaultTransport.
func NewCachingTransport(base http.RoundTripper, cache driven.ResponseCache) *CachingTransport {
	return &CachingTransport{Base: base, Cache: cache, now: time.Now}
}

// RoundTrip implements http.RoundTripper.
func (t *CachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || t.Cache == nil {
		return t.base().RoundTrip(req)
	}

	key := req.URL.String()
	cached, err := t.Cache.Get(req.Context(), key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Debug("cache lookup %s: %v", key, err)
	}
	if cached != nil && cached.ETag != "" {
		req = req.Clone(req.Context())
		req.Header.Set(HeaderIfNoneMatch, cached.ETag)
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotModified && cached != nil:
		logger.Debug("cache hit %s", key)
		return replay(req, resp, cached), nil

	case resp.StatusCode == http.StatusOK && resp.Header.Get(HeaderETag) != "":
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))

		entry := &domain.CachedResponse{
			URL:       key,
			ETag:      resp.Header.Get(HeaderETag),
			Header:    resp.Header.Clone(),
			Body:      body,
			UpdatedAt: t.now(),
		}
		if err := t.Cache.Put(req.Context(), entry); err != nil {
			logger.Debug("cache store %s: %v", key, err)
		}
	}

	return resp, nil
}

func (t *CachingTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// replay builds a 200 response from a cache entry, overlaying the rate limit
// headers of the 304 that revalidated it.
func replay(req *http.Request, notModified *http.Response, cached *domain.CachedResponse) *http.Response {
	_, _ = io.Copy(io.Discard, notModified.Body)
	_ = notModified.Body.Close()

	header := cached.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	for name, values := range notModified.Header {
		if strings.HasPrefix(http.CanonicalHeaderKey(name), "X-Ratelimit-") {
			header[name] = values
		}
	}

	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         notModified.Proto,
		ProtoMajor:    notModified.ProtoMajor,
		ProtoMinor:    notModified.ProtoMinor,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(cached.Body)),
		ContentLength: int64(len(cached.Body)),
		Request:       req,
	}
}
