package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// Common errors.
var (
	// ErrAbsent means the gateway gave a permanent negative answer for the
	// CID (403/404 or an unrecognized status). Retrying will not help.
	ErrAbsent = errors.New("gateway: content absent")

	// ErrExhausted means every attempt in the retry budget failed with a
	// transient error (429, 5xx, or a network failure).
	ErrExhausted = errors.New("gateway: retry budget exhausted")
)

// Options configures the gateway client.
type Options struct {
	// BaseURL is the gateway root, e.g. "https://premium.w3ipfs.storage".
	// CIDs are fetched from BaseURL + "/ipfs/" + cid.
	BaseURL string

	// Timeout for individual attempts.
	// Default: 15s
	Timeout time.Duration

	// MaxRetries is the total attempt budget, including the first attempt.
	// Default: 10
	MaxRetries int

	// BaseDelay is the initial backoff duration.
	// Default: 2s
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff growth.
	// Default: 30s
	MaxDelay time.Duration

	// Jitter is the upper bound of the uniform random delay added to each
	// backoff sleep, de-synchronizing concurrent workers retrying against
	// the same gateway.
	// Default: 1s
	Jitter time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 100
	MaxIdleConnsPerHost int
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:             15 * time.Second,
		MaxRetries:          10,
		BaseDelay:           2 * time.Second,
		MaxDelay:            30 * time.Second,
		Jitter:              time.Second,
		MaxIdleConnsPerHost: 100,
	}
}

// Client fetches content-addressed blobs through an IPFS HTTP gateway.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new gateway client with the given options.
// Zero-valued fields in opts fall back to DefaultOptions.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = def.MaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = def.BaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = def.MaxDelay
	}
	if opts.Jitter <= 0 {
		opts.Jitter = def.Jitter
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = def.MaxIdleConnsPerHost
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// Fetch retrieves the blob addressed by cid. It returns the body bytes on
// success, ErrAbsent when the gateway answers with a permanent negative
// status, and ErrExhausted when the retry budget runs out on transient
// failures. The outcome is binary: bytes, or nothing.
//
// Status classification:
//   - 200: success
//   - 403, 404: absent, no retry
//   - 429, 5xx: transient, retried with backoff
//   - anything else: absent, no retry
//
// Network-level errors are treated as transient.
func (c *Client) Fetch(ctx context.Context, cid string) ([]byte, error) {
	url := c.opts.BaseURL + "/ipfs/" + cid

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 1 {
			if err := c.backoff(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			data, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				lastErr = fmt.Errorf("read body: %w", err)
				continue
			}
			return data, nil

		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %s (status %d)", ErrAbsent, cid, resp.StatusCode)

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status %d %s", resp.StatusCode, resp.Status)

		default:
			// Unexpected statuses are not assumed retryable.
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %s (unexpected status %d)", ErrAbsent, cid, resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrExhausted, cid, c.opts.MaxRetries, lastErr)
}

// backoff waits for an exponentially increasing duration with jitter.
// retry counts from 1 for the sleep before the second attempt.
func (c *Client) backoff(ctx context.Context, retry int) error {
	delay := c.opts.BaseDelay * time.Duration(1<<uint(retry-1))
	if delay <= 0 || delay > c.opts.MaxDelay {
		delay = c.opts.MaxDelay
	}
	delay += time.Duration(rand.Float64() * float64(c.opts.Jitter))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
