package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultUserAgent   = "co2report/1.0"
	defaultMaxBodySize = 5 * 1024 * 1024
	defaultRetryDelay  = 3 * time.Second
)

// clientConfig is shared by both search clients.
type clientConfig struct {
	client     *http.Client
	timeout    time.Duration
	timeoutSet bool
	baseURL    string
	userAgent  string
	maxBody    int64
	retries    int
	retryDelay time.Duration
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// Option configures a search client.
type Option func(*clientConfig)

// WithHTTPClient sets the HTTP client. The client is copied, never modified.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) {
		if c != nil {
			cfg.client = c
		}
	}
}

// WithTimeout sets the request timeout, also over a client given with
// WithHTTPClient. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.timeout = d
		cfg.timeoutSet = true
	}
}

// WithBaseURL overrides the endpoint, mostly for tests.
func WithBaseURL(u string) Option {
	return func(cfg *clientConfig) {
		cfg.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cfg *clientConfig) {
		cfg.userAgent = ua
	}
}

// WithRetries retries failed requests n times, waiting delay between tries.
func WithRetries(n int, delay time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.retries = n
		cfg.retryDelay = delay
	}
}

// WithCacheTTL caches results per query for d. Zero disables caching.
func WithCacheTTL(d time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.cacheTTL = d
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(cfg *clientConfig) {
		cfg.log = log
	}
}

func newClientConfig(baseURL string, retries int, opts []Option) clientConfig {
	cfg := clientConfig{
		baseURL:    baseURL,
		userAgent:  defaultUserAgent,
		maxBody:    defaultMaxBodySize,
		retries:    retries,
		retryDelay: defaultRetryDelay,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := http.Client{Timeout: defaultTimeout}
	if cfg.client != nil {
		client = *cfg.client
	}
	if cfg.timeoutSet {
		client.Timeout = cfg.timeout
	}
	cfg.client = &client
	return cfg
}

// statusError is returned for non-2xx responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// get fetches url and returns the body, retrying transport failures and
// retryable statuses.
func (c *clientConfig) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.log.Debug().Int("attempt", attempt).Err(lastErr).Msg("retrying search request")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		body, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if se, ok := err.(*statusError); ok && !se.retryable() {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *clientConfig) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &statusError{code: resp.StatusCode, body: snippet}
	}
	return body, nil
}
