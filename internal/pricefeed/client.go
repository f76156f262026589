package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mtlprog/zakat/internal/domain"
)

// Client fetches the gold/silver price table from the price feed.
type Client struct {
	url        string
	httpClient *http.Client
	delay      time.Duration
	maxRetries int
}

// NewClient creates a new price feed client.
func NewClient(url string, timeout, delay time.Duration, maxRetries int) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		delay:      delay,
		maxRetries: maxRetries,
	}
}

// URL returns the feed endpoint.
func (c *Client) URL() string { return c.url }

// Fetch downloads and validates the current price table.
func (c *Client) Fetch(ctx context.Context) (domain.PriceTable, error) {
	body, err := c.fetchWithRetry(ctx, c.maxRetries)
	if err != nil {
		return nil, err
	}
	return decodeTable(body)
}

// FetchOnce is Fetch without retries, for callers that are waiting on the answer.
func (c *Client) FetchOnce(ctx context.Context) (domain.PriceTable, error) {
	body, err := c.fetchWithRetry(ctx, 0)
	if err != nil {
		return nil, err
	}
	return decodeTable(body)
}

// LoadFile reads a feed document from disk.
func LoadFile(path string) (domain.PriceTable, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading price file: %w", err)
	}
	return decodeTable(body)
}

func decodeTable(body []byte) (domain.PriceTable, error) {
	var resp domain.FeedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing price feed response: %w", err)
	}
	return resp.Table()
}

func (c *Client) fetchWithRetry(ctx context.Context, maxRetries int) ([]byte, error) {
	var lastErr error
	for attempt := range maxRetries + 1 {
		if attempt > 0 {
			baseDelay := c.delay
			if baseDelay == 0 {
				baseDelay = time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating price feed request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("price feed request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading price feed response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("price feed HTTP %d (attempt %d/%d): %w", resp.StatusCode, attempt+1, maxRetries+1, domain.ErrFeedUnavailable)
			continue
		}

		return nil, fmt.Errorf("price feed HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil, lastErr
}

// FileFetcher serves a price table from a feed document on disk.
type FileFetcher string

// Fetch implements Fetcher.
func (f FileFetcher) Fetch(_ context.Context) (domain.PriceTable, error) {
	return LoadFile(string(f))
}
