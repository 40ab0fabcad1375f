// Package httpclient provides an enhanced HTTP client with retry, rate
// limiting, and timeout support.
package httpclient

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"leadrouter/internal/platform/errors"
	"leadrouter/internal/platform/logx"
	"leadrouter/internal/platform/rate"
)

// Client is an HTTP client with retry logic, rate limiting, and timeouts.
//
// Unlike a bare http.Client it never swallows the final response: when a
// retryable status persists past MaxRetries the last response is returned to
// the caller so it can be classified (a 429 stays a 429).
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-request timeout duration.
	// Default: 30 seconds
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 0 (no retries)
	MaxRetries int

	// RetryBackoff is the initial backoff duration for retries.
	// Backoff increases exponentially with each retry.
	// Default: 1 second
	RetryBackoff time.Duration

	// MaxRetryBackoff is the maximum backoff duration between retries.
	// Default: 30 seconds
	MaxRetryBackoff time.Duration

	// UserAgent is the User-Agent header value.
	// Default: "leadrouter/1.0"
	UserAgent string

	// RateLimit is the maximum requests per second.
	// 0 means no rate limiting.
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting.
	// Default: 1
	RateLimitBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      0,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 30 * time.Second,
		UserAgent:       "leadrouter/1.0",
		RateLimit:       0,
		RateLimitBurst:  1,
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 1 * time.Second
	}
	if config.MaxRetryBackoff == 0 {
		config.MaxRetryBackoff = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "leadrouter/1.0"
	}
	if config.RateLimitBurst == 0 {
		config.RateLimitBurst = 1
	}

	var rateLimiter *rate.Limiter
	if config.RateLimit > 0 {
		rateLimiter = rate.New(config.RateLimit, config.RateLimitBurst)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: rateLimiter,
		logger:      logger.With("component", "httpclient"),
		config:      config,
	}
}

// Request performs an HTTP request with retry logic and rate limiting.
// The body is buffered so it can be replayed across attempts.
func (c *Client) Request(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, errors.Wrap(err, "rate limit wait failed")
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create request for %s %s", method, url)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		c.logger.Debug("HTTP request",
			"method", method,
			"url", url,
			"attempt", attempt+1,
		)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.logger.Warn("HTTP request failed",
				"method", method,
				"url", url,
				"attempt", attempt+1,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)
			lastErr = err

			if attempt >= c.config.MaxRetries {
				return nil, errors.Wrapf(err, "request failed after %d attempts", attempt+1)
			}

			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.Wrap(err, "backoff interrupted")
			}
			continue
		}

		c.logger.Debug("HTTP response received",
			"method", method,
			"url", url,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)

		if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		// Retryable status: hand the final response to the caller once the
		// retry budget runs out, so it can classify the failure itself.
		if attempt >= c.config.MaxRetries {
			return resp, nil
		}

		resp.Body.Close()

		c.logger.Warn("HTTP request returned retryable status",
			"method", method,
			"url", url,
			"status", resp.StatusCode,
			"attempt", attempt+1,
		)

		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Wrap(err, "backoff interrupted")
		}
	}

	return nil, errors.Wrapf(lastErr, "request failed after %d attempts", c.config.MaxRetries+1)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, url, nil, headers)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodPost, url, body, headers)
}

// isRetryableStatus reports whether a status code should trigger a retry.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// backoff implements exponential backoff between retries.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	if backoff > c.config.MaxRetryBackoff {
		backoff = c.config.MaxRetryBackoff
	}

	c.logger.Debug("backing off before retry",
		"attempt", attempt+1,
		"backoff_ms", backoff.Milliseconds(),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
		return nil
	}
}

// ReadBody reads the response body and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	return body, nil
}
