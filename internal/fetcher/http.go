package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxErrorBody = 256

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	MaxAttempts  int           // total attempts per request; 1 disables retries
	BaseBackoff  time.Duration // first retry delay, doubled per attempt
	RateLimit    rate.Limit    // default per-host rate
	RateLimiters map[string]*rate.Limiter
	Observer     RequestObserver
	Client       *http.Client
}

// HTTPFetcher implements Fetcher using net/http with per-host rate limiting and optional retry.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.BaseBackoff == 0 {
		opts.BaseBackoff = time.Second
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 10
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "neighbourhood-cli/1.0"
	}
	limiters := make(map[string]*rate.Limiter)
	for k, v := range opts.RateLimiters {
		limiters[k] = v
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &HTTPFetcher{
		client:   client,
		opts:     opts,
		limiters: limiters,
	}
}

// limiterFor returns the limiter for the URL's host, creating one at the default rate.
func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	host := hostOf(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()
	if lim, ok := f.limiters[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(f.opts.RateLimit, int(math.Max(1, float64(f.opts.RateLimit))))
	f.limiters[host] = lim
	return lim
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Get fetches the URL and returns the response body.
func (f *HTTPFetcher) Get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	return f.do(ctx, http.MethodGet, rawURL, nil, "")
}

// PostJSON posts body as JSON and returns the response body.
func (f *HTTPFetcher) PostJSON(ctx context.Context, rawURL string, body any) (io.ReadCloser, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrap(err, "marshal request body")
	}
	return f.do(ctx, http.MethodPost, rawURL, payload, "application/json")
}

func (f *HTTPFetcher) do(ctx context.Context, method, rawURL string, payload []byte, contentType string) (io.ReadCloser, error) {
	lim := f.limiterFor(rawURL)

	var lastErr error
	for attempt := range f.opts.MaxAttempts {
		if attempt > 0 {
			f.backoff(ctx, attempt-1)
		}
		if err := lim.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
		if err != nil {
			return nil, eris.Wrap(err, "create request")
		}
		req.Header.Set("User-Agent", f.opts.UserAgent)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		start := time.Now()
		resp, err := f.client.Do(req)
		if err != nil {
			f.observe(req.URL.Host, 0, start)
			if ctx.Err() != nil {
				return nil, eris.Wrap(err, method+" request")
			}
			lastErr = eris.Wrap(err, method+" request")
			zap.L().Warn("http request failed",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}
		f.observe(req.URL.Host, resp.StatusCode, start)

		if resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		}

		statusErr := &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Body: readSnippet(resp.Body)}
		_ = resp.Body.Close()
		if !retryable(resp.StatusCode) {
			return nil, statusErr
		}
		lastErr = statusErr
		zap.L().Warn("retryable status from data source",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt+1),
		)
	}

	if f.opts.MaxAttempts == 1 {
		return nil, lastErr
	}
	return nil, eris.Wrap(lastErr, "all attempts exhausted")
}

func (f *HTTPFetcher) observe(host string, status int, start time.Time) {
	if f.opts.Observer != nil {
		f.opts.Observer.ObserveRequest(host, status, time.Since(start))
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}

func (f *HTTPFetcher) backoff(ctx context.Context, attempt int) {
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(f.opts.BaseBackoff) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	if half := int64(d) / 2; half > 0 {
		d += time.Duration(rand.Int64N(half))
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// AsStatusError reports whether err carries a StatusError and returns it.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
