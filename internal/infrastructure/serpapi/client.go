package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shelflens/backend/internal/domain"
	"github.com/shelflens/backend/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	engineShopping         = "google_shopping"
	engineImmersiveProduct = "google_immersive_product"

	maxSearchAttempts = 3
)

// ClientConfig holds construction parameters for the SerpAPI client
type ClientConfig struct {
	APIKey          string
	BaseURL         string
	Country         string // gl parameter
	Language        string // hl parameter
	SearchesPerHour int
	Timeout         time.Duration
}

// Client handles communication with SerpAPI's shopping search and
// immersive product engines
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	country     string
	language    string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new SerpAPI client
func NewClient(cfg ClientConfig) *Client {
	perHour := cfg.SearchesPerHour
	if perHour <= 0 {
		perHour = 250
	}
	// rate.Limit is requests per second; allow short bursts of user clicks
	limiter := rate.NewLimiter(rate.Limit(float64(perHour)/3600.0), 5)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	country := cfg.Country
	if country == "" {
		country = "us"
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		country:     country,
		language:    language,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ShelfLens/1.0")

	return c.httpClient.Do(req)
}

// exponentialBackoff returns the wait duration before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

// isRetryable reports whether a status code is worth retrying. Provider-side
// and throttling failures are transient; other client errors are not.
func isRetryable(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusTooManyRequests
}

// SearchProducts issues one shopping search for the given query. Results come
// back in provider ranking order; page tokens are passed through untouched.
func (c *Client) SearchProducts(ctx context.Context, query domain.SearchQuery) (*domain.ShoppingSearchResponse, error) {
	params := url.Values{}
	params.Add("engine", engineShopping)
	params.Add("q", query.Text)
	params.Add("api_key", c.apiKey)
	params.Add("gl", c.country)
	params.Add("hl", c.language)
	if query.Location != "" {
		params.Add("location", query.Location)
	}

	reqURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	if c.debug {
		logger.Debugf("[serpapi] search query=%q location=%q", query.Text, query.Location)
	}

	// Retry transient failures
	var lastErr error
	for attempt := 1; attempt <= maxSearchAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			logger.Warnf("[serpapi] search request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrSearchProviderFailure, err)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if isRetryable(resp.StatusCode) {
				logger.Warnf("[serpapi] search status %d (attempt %d)", resp.StatusCode, attempt)
				lastErr = fmt.Errorf("%w: status %d", domain.ErrSearchProviderFailure, resp.StatusCode)
				time.Sleep(exponentialBackoff(attempt))
				continue
			}
			return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrSearchProviderFailure, resp.StatusCode, string(body))
		}

		var searchResp domain.ShoppingSearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", domain.ErrSearchProviderFailure, err)
		}

		// SerpAPI can report failures inside a 200 body
		if searchResp.Error != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrSearchProviderFailure, searchResp.Error)
		}

		if c.debug {
			logger.Debugf("[serpapi] search returned %d results for %q", len(searchResp.ShoppingResults), query.Text)
		}
		return &searchResp, nil
	}

	return nil, lastErr
}

// GetProductDetails resolves one page token into store-level availability.
// The token is the only search input; a rejection means the token is dead and
// the caller should pick a different candidate rather than retry.
func (c *Client) GetProductDetails(ctx context.Context, pageToken string) (*domain.ImmersiveProductResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Add("engine", engineImmersiveProduct)
	params.Add("page_token", pageToken)
	params.Add("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDetailProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUnresolvableToken, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrDetailProviderFailure, resp.StatusCode, string(body))
	}

	var detailResp domain.ImmersiveProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&detailResp); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrDetailProviderFailure, err)
	}

	// A provider error on this engine means the token itself was rejected
	if detailResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnresolvableToken, detailResp.Error)
	}

	if c.debug {
		logger.Debugf("[serpapi] resolved %d stores for %q", len(detailResp.ProductResults.Stores), detailResp.ProductResults.Title)
	}
	return &detailResp, nil
}
