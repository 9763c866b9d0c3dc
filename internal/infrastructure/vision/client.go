package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shelflens/backend/internal/domain"
	"github.com/shelflens/backend/pkg/logger"
)

// Client wraps the Google Cloud Vision images:annotate endpoint for text
// detection. The extracted text is handed to the caller as-is.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a new Vision OCR client
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type annotateResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// ExtractText runs text detection on the given image bytes and returns the
// full detected text block
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: API key not configured", domain.ErrOCRFailure)
	}

	payload := annotateRequest{
		Requests: []annotateEntry{
			{
				Image: annotateImage{Content: base64.StdEncoding.EncodeToString(image)},
				Features: []annotateFeature{
					{Type: "TEXT_DETECTION", MaxResults: 1},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: encode: %v", domain.ErrOCRFailure, err)
	}

	reqURL := fmt.Sprintf("%s/v1/images:annotate?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrOCRFailure, resp.StatusCode)
	}

	var result annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode: %v", domain.ErrOCRFailure, err)
	}

	if len(result.Responses) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrOCRFailure)
	}

	first := result.Responses[0]
	if first.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrOCRFailure, first.Error.Message)
	}

	if len(first.TextAnnotations) == 0 {
		return "", domain.ErrNoTextDetected
	}

	text := first.TextAnnotations[0].Description
	logger.Debugf("[vision] extracted %d bytes of text", len(text))
	return text, nil
}
