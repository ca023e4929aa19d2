// Package rates fetches USD conversion rates from an external market-data
// HTTP API. Lookups are blocking with a fixed short deadline; failures
// degrade to "rate unavailable" rather than raising.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single rate lookup.
const DefaultTimeout = 10 * time.Second

// Quote is one conversion quote from the rate source.
type Quote struct {
	Rate  float64 `json:"quote"`
	Total float64 `json:"total"`
}

// Client talks to the convert and live_currencies_list endpoints.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a rate client. A zero timeout falls back to
// DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ConvertRate fetches the quote for converting one unit of the given
// currency to USD.
func (c *Client) ConvertRate(ctx context.Context, from string) (*Quote, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("from", from)
	q.Set("to", "USD")
	q.Set("amount", "1")

	var quote Quote
	if err := c.getJSON(ctx, "/convert?"+q.Encode(), &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// SupportedCurrencies lists the currency codes the rate source can quote.
func (c *Client) SupportedCurrencies(ctx context.Context) ([]string, error) {
	var payload struct {
		Available map[string]string `json:"available_currencies"`
	}
	if err := c.getJSON(ctx, "/live_currencies_list?api_key="+url.QueryEscape(c.apiKey), &payload); err != nil {
		return nil, err
	}
	if payload.Available == nil {
		return nil, fmt.Errorf("available_currencies key not found in response")
	}
	codes := make([]string, 0, len(payload.Available))
	for code := range payload.Available {
		codes = append(codes, code)
	}
	return codes, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rate lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("rate API error", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("rate API error %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
