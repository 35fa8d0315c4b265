// Package fetch provides an HTTP client with status-code-aware retry and
// exponential backoff, used by every source adapter.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/athenaeum/internal/errors"
)

const (
	defaultRetries      = 3
	defaultInitialDelay = 2 * time.Second
	maxLoggedBodyBytes  = 1024
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client executes HTTP requests with the retry policy shared by all
// source adapters:
//
//   - 2xx: parse and return immediately.
//   - 429: wait Retry-After seconds if the header is present, otherwise
//     exponential backoff; the final attempt fails with a RateLimitError.
//   - 400: fail immediately, no retry (malformed request).
//   - 401/403/5xx: retry with exponential backoff, then fail with HTTPError.
//   - other non-2xx: fail immediately.
//   - network errors: retry unless it is the last attempt.
type Client struct {
	httpClient   HTTPDoer
	retries      int
	initialDelay time.Duration
	sleep        func(time.Duration)
	headers      map[string]string
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithRetries sets the total number of attempts for retryable failures.
func WithRetries(retries int) Option {
	return func(client *Client) {
		if retries > 0 {
			client.retries = retries
		}
	}
}

// WithInitialDelay sets the backoff delay for the first retry.
// Each subsequent retry doubles the delay.
func WithInitialDelay(d time.Duration) Option {
	return func(client *Client) {
		if d > 0 {
			client.initialDelay = d
		}
	}
}

// WithHeader adds a header sent with every request (e.g. Authorization).
func WithHeader(key, value string) Option {
	return func(client *Client) {
		client.headers[key] = value
	}
}

// New creates a Client with the default retry policy.
func New(opts ...Option) *Client {
	client := &Client{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		retries:      defaultRetries,
		initialDelay: defaultInitialDelay,
		sleep:        time.Sleep,
		headers:      make(map[string]string),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// GetJSON performs a GET request against url and decodes the JSON body
// into target, applying the retry policy.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	body, err := c.do(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// PostJSON performs a POST request with a JSON payload and decodes the
// JSON response into target, applying the retry policy.
func (c *Client) PostJSON(ctx context.Context, url string, payload, target any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request payload: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, url, data, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// Get performs a GET request and returns the raw response body,
// applying the retry policy. Used for non-JSON sources (HTML pages).
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil, "")
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, contentType string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.retries; attempt++ {
		last := attempt == c.retries-1

		body, retryAfter, err := c.doOnce(ctx, method, url, payload, contentType)
		if err == nil {
			return body, nil
		}
		lastErr = err

		switch e := err.(type) {
		case *errors.HTTPError:
			switch {
			case e.Status == http.StatusTooManyRequests:
				if last {
					return nil, errors.NewRateLimitError(fmt.Sprintf("rate limited by %s after %d attempts", url, c.retries))
				}
				delay := c.backoffDelay(attempt)
				if retryAfter > 0 {
					delay = retryAfter
				}
				slog.Debug("Rate limited, backing off", "url", url, "attempt", attempt+1, "delay", delay)
				c.sleep(delay)
			case e.Status == http.StatusBadRequest:
				// Malformed request, retrying will not help.
				return nil, e
			case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden || e.Status >= 500:
				if last {
					return nil, e
				}
				c.sleep(c.backoffDelay(attempt))
			default:
				return nil, e
			}
		default:
			// Network-level failure (DNS, timeout, connection reset).
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if last {
				return nil, fmt.Errorf("request to %s failed: %w", url, err)
			}
			slog.Debug("Request failed, retrying", "url", url, "attempt", attempt+1, "error", err)
			c.sleep(c.backoffDelay(attempt))
		}
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, url string, payload []byte, contentType string) ([]byte, time.Duration, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = strings.NewReader(string(payload))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, 0, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logged := string(body)
		if len(logged) > maxLoggedBodyBytes {
			logged = logged[:maxLoggedBodyBytes]
		}
		slog.Warn("Non-2xx response", "url", url, "status", resp.StatusCode, "body", logged)
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), errors.NewHTTPError(resp.StatusCode, strings.TrimSpace(logged))
	}

	return body, 0, nil
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	return c.initialDelay * time.Duration(1<<uint(attempt))
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
