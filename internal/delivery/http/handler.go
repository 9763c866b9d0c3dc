package http

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelflens/backend/internal/domain"
	"github.com/shelflens/backend/internal/usecase"
	"github.com/shelflens/backend/pkg/logger"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	locator       *usecase.LocatorService
	ocr           domain.OCRClient
	ocrConfigured bool
}

// NewHandler creates a new HTTP handler
func NewHandler(locator *usecase.LocatorService, ocr domain.OCRClient, ocrConfigured bool) *Handler {
	return &Handler{
		locator:       locator,
		ocr:           ocr,
		ocrConfigured: ocrConfigured,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        "shelflens-backend",
		"version":        serviceVersion,
		"ocr_configured": h.ocrConfigured,
	})
}

// extractTextRequest carries an image as base64 JSON; file upload and storage
// are handled by the caller, not this service
type extractTextRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// ExtractText runs OCR on an uploaded image and returns the raw detected text
func (h *Handler) ExtractText(c *gin.Context) {
	var req extractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is required", "code": "invalid_request"})
		return
	}

	if !h.ocrConfigured {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OCR is not configured", "code": "ocr_unavailable"})
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is not valid base64", "code": "invalid_request"})
		return
	}

	text, err := h.ocr.ExtractText(c.Request.Context(), image)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoTextDetected):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no text detected in image, try a clearer photo", "code": "no_text_detected"})
		default:
			logger.Error("ocr extraction failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "text extraction failed", "code": "ocr_failure"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// searchRequest accepts either raw OCR text (normalized before searching) or
// a query the user typed directly
type searchRequest struct {
	RawText  string `json:"raw_text"`
	Query    string `json:"query"`
	Location string `json:"location"`
}

// SearchProducts returns a short list of product candidates for the given
// text, each carrying the token needed to locate its stores
func (h *Handler) SearchProducts(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "invalid_request"})
		return
	}

	if req.RawText == "" && req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "raw_text or query is required", "code": "invalid_request"})
		return
	}

	var candidates []domain.Candidate
	var err error
	if req.Query != "" {
		candidates, err = h.locator.Search(c.Request.Context(), req.Query, req.Location)
	} else {
		candidates, err = h.locator.NormalizeAndSearch(c.Request.Context(), req.RawText, req.Location)
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoUsableText):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no usable product text found, retake the photo or type the product name", "code": "no_usable_text"})
		case errors.Is(err, domain.ErrNoCandidates):
			c.JSON(http.StatusNotFound, gin.H{"error": "no products found, try a different search term", "code": "no_candidates"})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search parameters", "code": "invalid_request"})
		default:
			logger.Error("product search failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "product search failed, please retry", "code": "search_provider_failure"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": candidates,
		"count":    len(candidates),
	})
}

// locateRequest carries the opaque page token of the chosen candidate. Tokens
// are long provider blobs, so they travel in the body rather than the path.
type locateRequest struct {
	PageToken string `json:"page_token" binding:"required"`
}

// LocateStores resolves a candidate's stores and splits them into nearby and
// online-only groups
func (h *Handler) LocateStores(c *gin.Context) {
	var req locateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_token is required", "code": "invalid_request"})
		return
	}

	detail, err := h.locator.ResolveDetail(c.Request.Context(), req.PageToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnresolvableToken):
			c.JSON(http.StatusNotFound, gin.H{"error": "this product can no longer be resolved, pick a different result", "code": "unresolvable_token"})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page token", "code": "invalid_request"})
		default:
			logger.Error("product detail lookup failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "store lookup failed, please retry", "code": "detail_provider_failure"})
		}
		return
	}

	result := h.locator.Classify(detail.Stores)

	c.JSON(http.StatusOK, gin.H{
		"product": gin.H{
			"title":       detail.Title,
			"brand":       detail.Brand,
			"price_range": detail.PriceRange,
		},
		"nearby_stores": result.NearbyStores,
		"online_stores": result.OnlineStores,
		"total_stores":  len(detail.Stores),
	})
}
