// Package httpx is the shared plumbing for upstream REST providers:
// per-host rate limiting, a bounded-concurrency gate, and bounded retries
// with exponential backoff on transient failures.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/mhopper/edgeboard/internal/telemetry"
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

type Client struct {
	name       string
	httpClient *http.Client
	limiter    *rate.Limiter
	gate       *semaphore.Weighted
	header     http.Header
}

// New builds a provider client. name labels metrics and logs; rps/burst
// bound request rate; concurrency bounds in-flight requests to the host.
func New(name string, timeout time.Duration, rps float64, burst int, concurrency int64) *Client {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Client{
		name:       name,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		gate:       semaphore.NewWeighted(concurrency),
		header:     make(http.Header),
	}
}

// SetHeader sets a header sent on every request (API keys, user agent).
func (c *Client) SetHeader(key, value string) {
	c.header.Set(key, value)
}

// GetJSON fetches url and decodes the JSON body into out. Transport
// errors, 429s, and 5xx responses are retried with exponential backoff up
// to the attempt budget; exhausting it returns the last error rather than
// an empty result disguised as success.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%s: gate: %w", c.name, err)
	}
	defer c.gate.Release(1)

	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit wait: %w", c.name, err)
		}

		retryable, err := c.fetchOnce(ctx, url, out)
		if err == nil {
			telemetry.ProviderRequests.WithLabelValues(c.name, "ok").Inc()
			return nil
		}
		lastErr = err
		if !retryable {
			telemetry.ProviderRequests.WithLabelValues(c.name, "error").Inc()
			return lastErr
		}

		telemetry.ProviderRequests.WithLabelValues(c.name, "retry").Inc()
		telemetry.Debugf("%s: attempt %d/%d failed: %v", c.name, attempt, maxAttempts, err)

		if attempt < maxAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
	}

	telemetry.ProviderRequests.WithLabelValues(c.name, "error").Inc()
	return fmt.Errorf("%s: retries exhausted: %w", c.name, lastErr)
}

// fetchOnce performs one GET. The bool reports whether the failure is
// worth retrying.
func (c *Client) fetchOnce(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("new request: %w", err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return true, fmt.Errorf("status %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}

	telemetry.Debugf("%s: GET %s -> 200 (%s)", c.name, url, time.Since(start))
	return false, nil
}
