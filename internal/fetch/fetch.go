package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/rommelmarkt-events/internal/config"
)

// transientStatuses are the HTTP statuses worth retrying with backoff.
var transientStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client is the polite HTTP transport shared by the scrapers. It enforces a
// minimum wall-clock delay between requests (retries included), retries
// transient statuses with exponential backoff, and reports every failure as
// an error rather than panicking. Callers treat a failed fetch as "this
// page is unavailable this pass".
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries uint64
	retryDelay time.Duration
	logger     log.Logger
}

// New creates a Client from the scraping configuration.
func New(cfg config.ScrapingConfig, logger log.Logger) *Client {
	limit := rate.Inf
	if delay := cfg.Delay(); delay > 0 {
		limit = rate.Every(delay)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		limiter:    rate.NewLimiter(limit, 1),
		userAgent:  cfg.UserAgent,
		maxRetries: uint64(cfg.MaxRetries),
		retryDelay: cfg.RetryDelay(),
		logger:     logger,
	}
}

// Fetch performs a GET and returns the response body. Transient statuses and
// network errors are retried up to the configured maximum; anything left
// over surfaces as an error.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	c.logger.Info().Str("url", url).Msg("fetching")

	var body string
	attempt := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		data, err := c.get(ctx, url)
		if err != nil {
			return err
		}
		body = data
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryDelay
	policy.MaxElapsedTime = 0

	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))
	if err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("fetch failed")
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "nl-BE,nl;q=0.9,en;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting page: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case transientStatuses[resp.StatusCode]:
		return "", fmt.Errorf("transient status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(data), nil
}

// Close releases the transport's pooled connections. Safe to call on every
// exit path, including interruption.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
