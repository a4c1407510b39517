// Package fetcher performs the outbound HTTP calls of the neighbourhood checker and
// decodes their semicolon-delimited and JSON payloads.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Fetcher defines the interface for talking to the remote data sources.
type Fetcher interface {
	// Get fetches the URL and returns the response body.
	Get(ctx context.Context, url string) (io.ReadCloser, error)

	// PostJSON marshals body as JSON, posts it to the URL and returns the response body.
	PostJSON(ctx context.Context, url string, body any) (io.ReadCloser, error)
}

// RequestObserver receives one call per completed HTTP exchange. status is 0 when
// the request failed before a response arrived.
type RequestObserver interface {
	ObserveRequest(host string, status int, elapsed time.Duration)
}

// StatusError reports a non-success HTTP status from a data source.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string // first bytes of the response, for diagnostics
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}
