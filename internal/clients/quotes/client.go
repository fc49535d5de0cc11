// Package quotes provides a client for the Yahoo-style chart API that
// serves daily price history, quote snapshots, and symbol search.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the QuoteClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new chart API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chart API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "wondash/"+common.GetVersion())

	c.logger.Debug().Str("url", c.baseURL+path).Msg("chart API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// chartResponse mirrors the chart endpoint payload. Closes arrive as a
// nullable array parallel to timestamps.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetChart retrieves the daily close history for a symbol over a range token.
func (c *Client) GetChart(ctx context.Context, symbol, rng string) (*models.PriceSeries, error) {
	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", "1d")

	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    resp.Chart.Error.Description,
			Endpoint:   path,
		}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart response for %s carried no result", symbol)
	}

	result := resp.Chart.Result[0]
	series := &models.PriceSeries{
		Symbol:     symbol,
		Range:      rng,
		Timestamps: result.Timestamp,
		FetchedAt:  time.Now().UTC(),
	}
	if len(result.Indicators.Quote) > 0 {
		series.Closes = result.Indicators.Quote[0].Close
	}

	// Some responses truncate the close array; trim both to the shorter.
	if len(series.Closes) < len(series.Timestamps) {
		series.Timestamps = series.Timestamps[:len(series.Closes)]
	} else if len(series.Timestamps) < len(series.Closes) {
		series.Closes = series.Closes[:len(series.Timestamps)]
	}

	c.logger.Debug().
		Str("symbol", symbol).
		Str("range", rng).
		Int("observations", series.Len()).
		Msg("chart fetched")

	return series, nil
}

// GetQuote retrieves the latest price snapshot for a symbol from the chart
// metadata of a one-day window.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")

	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    resp.Chart.Error.Description,
			Endpoint:   path,
		}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart response for %s carried no result", symbol)
	}

	meta := resp.Chart.Result[0].Meta
	quote := &models.Quote{
		Symbol:        symbol,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.ChartPreviousClose,
		Currency:      meta.Currency,
		Timestamp:     time.Unix(meta.RegularMarketTime, 0).UTC(),
	}
	quote.Change = quote.Price - quote.PreviousClose
	if quote.PreviousClose != 0 {
		quote.ChangePct = quote.Change / quote.PreviousClose * 100
	}

	return quote, nil
}

// searchResponse mirrors the search endpoint payload.
type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Search looks up symbols matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	params := url.Values{}
	params.Set("q", query)

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return nil, err
	}

	matches := make([]models.SymbolMatch, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		matches = append(matches, models.SymbolMatch{
			Symbol:   q.Symbol,
			Name:     name,
			Exchange: q.Exchange,
			Type:     q.QuoteType,
		})
	}

	return matches, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
