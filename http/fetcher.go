// Package http provides the HTTP-based implementation of urlwatch.Fetcher.
// It retries transient failures with a fixed delay and carries a fixed
// User-Agent across all requests from one Fetcher instance.
package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/urlwatch"
)

// Defaults mirror the production configuration shipped with the tool.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 2 * time.Second
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Ensure Fetcher implements urlwatch.Fetcher at compile time.
var _ urlwatch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves document bodies over HTTP with bounded retry.
type Fetcher struct {
	client     *http.Client
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	userAgent  string
	limiter    *DomainLimiter
	logger     *slog.Logger
	sleep      func(context.Context, time.Duration) error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetries sets the total number of attempts (>= 1) and the fixed delay
// between them. The delay does not grow between attempts.
func WithRetries(maxRetries int, delay time.Duration) Option {
	return func(f *Fetcher) {
		f.maxRetries = maxRetries
		f.retryDelay = delay
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRateLimit throttles requests to at most rps per domain.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		f.limiter = NewDomainLimiter(rps)
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithSleep overrides the inter-attempt sleep. This is useful for testing
// retry behavior without waiting for real delays.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(f *Fetcher) {
		f.sleep = sleep
	}
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		userAgent:  DefaultUserAgent,
		logger:     slog.New(slog.DiscardHandler),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.maxRetries < 1 {
		f.maxRetries = 1
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body of the given URL. Network errors and non-2xx
// statuses are retried up to the configured attempt count with the fixed
// delay in between; the last error is returned once attempts are exhausted.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		f.logger.Debug("fetching", "url", url, "attempt", attempt, "max_attempts", f.maxRetries)

		body, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		f.logger.Warn("fetch attempt failed", "url", url, "attempt", attempt, "err", err)

		if attempt < f.maxRetries {
			if err := f.sleep(ctx, f.retryDelay); err != nil {
				return "", err
			}
		}
	}

	f.logger.Error("all fetch attempts failed", "url", url, "attempts", f.maxRetries)
	return "", urlwatch.Errorf(urlwatch.EUNAVAILABLE, "fetch %s failed after %d attempts: %v", url, f.maxRetries, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, url); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", urlwatch.Errorf(urlwatch.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases idle connections held by the underlying client.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
