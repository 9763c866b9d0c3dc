package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shelflens/backend/config"
	"github.com/shelflens/backend/internal/domain"
	"github.com/shelflens/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubShoppingClient fakes the shopping search provider
type stubShoppingClient struct {
	searchResp *domain.ShoppingSearchResponse
	searchErr  error
	detailResp *domain.ImmersiveProductResponse
	detailErr  error
}

func (s *stubShoppingClient) SearchProducts(ctx context.Context, query domain.SearchQuery) (*domain.ShoppingSearchResponse, error) {
	return s.searchResp, s.searchErr
}

func (s *stubShoppingClient) GetProductDetails(ctx context.Context, pageToken string) (*domain.ImmersiveProductResponse, error) {
	return s.detailResp, s.detailErr
}

// stubOCRClient fakes the text-detection collaborator
type stubOCRClient struct {
	text string
	err  error
}

func (s *stubOCRClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	return s.text, s.err
}

func setupTestRouter(shopping domain.ShoppingClient, ocr domain.OCRClient) *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}

	locator := usecase.NewLocatorService(shopping, usecase.LocatorConfig{MaxCandidates: 5})
	handler := NewHandler(locator, ocr, ocr != nil)

	return SetupRouter(cfg, handler)
}

func postJSON(router *gin.Engine, path, payload string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return body
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(&stubShoppingClient{}, &stubOCRClient{})

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	body := decodeBody(t, w)
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if body["service"] != "shelflens-backend" {
		t.Errorf("service = %v, want shelflens-backend", body["service"])
	}
	if body["ocr_configured"] != true {
		t.Errorf("ocr_configured = %v, want true", body["ocr_configured"])
	}
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("returns candidates for a raw_text search", func(t *testing.T) {
		shopping := &stubShoppingClient{searchResp: &domain.ShoppingSearchResponse{
			ShoppingResults: []domain.ShoppingResult{
				{Title: "Peach Hair Dye", Source: "Walmart", PageToken: "tok-1"},
				{Title: "Tokenless Result"},
			},
		}}
		router := setupTestRouter(shopping, nil)

		w := postJSON(router, "/api/v1/products/search", `{"raw_text":"ROLLBACK\nDYE APA PCHCT\n$6.97"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		body := decodeBody(t, w)
		if body["count"] != float64(1) {
			t.Errorf("count = %v, want 1", body["count"])
		}
		products := body["products"].([]interface{})
		first := products[0].(map[string]interface{})
		if first["page_token"] != "tok-1" {
			t.Errorf("page_token = %v, want tok-1", first["page_token"])
		}
	})

	t.Run("truncates to five candidates", func(t *testing.T) {
		results := make([]domain.ShoppingResult, 40)
		for i := range results {
			results[i] = domain.ShoppingResult{Title: fmt.Sprintf("P%d", i), PageToken: fmt.Sprintf("t%d", i)}
		}
		shopping := &stubShoppingClient{searchResp: &domain.ShoppingSearchResponse{ShoppingResults: results}}
		router := setupTestRouter(shopping, nil)

		w := postJSON(router, "/api/v1/products/search", `{"query":"coffee maker"}`)

		body := decodeBody(t, w)
		if body["count"] != float64(5) {
			t.Errorf("count = %v, want 5", body["count"])
		}
	})

	t.Run("unusable text yields 422", func(t *testing.T) {
		router := setupTestRouter(&stubShoppingClient{}, nil)

		w := postJSON(router, "/api/v1/products/search", `{"raw_text":"$6.97\nUPC 05530"}`)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
		}
		if decodeBody(t, w)["code"] != "no_usable_text" {
			t.Errorf("code = %v, want no_usable_text", decodeBody(t, w)["code"])
		}
	})

	t.Run("empty result set yields 404", func(t *testing.T) {
		shopping := &stubShoppingClient{searchResp: &domain.ShoppingSearchResponse{}}
		router := setupTestRouter(shopping, nil)

		w := postJSON(router, "/api/v1/products/search", `{"query":"gibberish product"}`)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("provider failure yields 502", func(t *testing.T) {
		shopping := &stubShoppingClient{searchErr: fmt.Errorf("%w: timeout", domain.ErrSearchProviderFailure)}
		router := setupTestRouter(shopping, nil)

		w := postJSON(router, "/api/v1/products/search", `{"query":"coffee"}`)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadGateway)
		}
	})

	t.Run("missing input yields 400", func(t *testing.T) {
		router := setupTestRouter(&stubShoppingClient{}, nil)

		w := postJSON(router, "/api/v1/products/search", `{}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestLocateEndpoint(t *testing.T) {
	t.Run("classifies stores into nearby and online", func(t *testing.T) {
		shopping := &stubShoppingClient{detailResp: &domain.ImmersiveProductResponse{
			ProductResults: domain.ProductResults{
				Title: "Tylenol Extra Strength",
				Brand: "Tylenol",
				Stores: []domain.StoreResult{
					{Name: "Walgreens", Tag: "Nearby"},
					{Name: "Amazon", DetailsAndOffers: []string{"Free shipping"}},
					{Name: "CVS", DetailsAndOffers: []string{"In stock online and nearby"}},
				},
			},
		}}
		router := setupTestRouter(shopping, nil)

		w := postJSON(router, "/api/v1/products/locate", `{"page_token":"opaque-token"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		body := decodeBody(t, w)
		nearby := body["nearby_stores"].([]interface{})
		online := body["online_stores"].([]interface{})

		if len(nearby) != 2 {
			t.Errorf("nearby stores = %d, want 2", len(nearby))
		}
		if len(online) != 1 {
			t.Errorf("online stores = %d, want 1", len(online))
		}
		if body["total_stores"] != float64(3) {
			t.Errorf("total_stores = %v, want 3", body["total_stores"])
		}

		product := body["product"].(map[string]interface{})
		if product["title"] != "Tylenol Extra Strength" {
			t.Errorf("product title = %v", product["title"])
		}
	})

	t.Run("empty store list yields two empty groups", func(t *testing.T) {
		shopping := &stubShoppingClient{detailResp: &domain.ImmersiveProductResponse{
			ProductResults: domain.ProductResults{Title: "Obscure Product"},
		}}
		router := setupTestRouter(shopping, nil)

		w := postJSON(router, "/api/v1/products/locate", `{"page_token":"tok"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		body := decodeBody(t, w)
		if len(body["nearby_stores"].([]interface{})) != 0 {
			t.Errorf("nearby_stores should be empty")
		}
		if len(body["online_stores"].([]interface{})) != 0 {
			t.Errorf("online_stores should be empty")
		}
	})

	t.Run("rejected token yields 404", func(t *testing.T) {
		shopping := &stubShoppingClient{detailErr: fmt.Errorf("%w: expired", domain.ErrUnresolvableToken)}
		router := setupTestRouter(shopping, nil)

		w := postJSON(router, "/api/v1/products/locate", `{"page_token":"stale"}`)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
		if decodeBody(t, w)["code"] != "unresolvable_token" {
			t.Errorf("code = %v, want unresolvable_token", decodeBody(t, w)["code"])
		}
	})

	t.Run("missing token yields 400", func(t *testing.T) {
		router := setupTestRouter(&stubShoppingClient{}, nil)

		w := postJSON(router, "/api/v1/products/locate", `{}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestExtractEndpoint(t *testing.T) {
	image := base64.StdEncoding.EncodeToString([]byte("fake-image"))

	t.Run("returns extracted text", func(t *testing.T) {
		ocr := &stubOCRClient{text: "ROLLBACK\nDYE APA PCHCT"}
		router := setupTestRouter(&stubShoppingClient{}, ocr)

		w := postJSON(router, "/api/v1/ocr/extract", fmt.Sprintf(`{"image_base64":%q}`, image))

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}
		if decodeBody(t, w)["text"] != "ROLLBACK\nDYE APA PCHCT" {
			t.Errorf("unexpected text: %v", decodeBody(t, w)["text"])
		}
	})

	t.Run("no text detected yields 422", func(t *testing.T) {
		ocr := &stubOCRClient{err: domain.ErrNoTextDetected}
		router := setupTestRouter(&stubShoppingClient{}, ocr)

		w := postJSON(router, "/api/v1/ocr/extract", fmt.Sprintf(`{"image_base64":%q}`, image))

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
		}
	})

	t.Run("unconfigured OCR yields 503", func(t *testing.T) {
		router := setupTestRouter(&stubShoppingClient{}, nil)

		w := postJSON(router, "/api/v1/ocr/extract", fmt.Sprintf(`{"image_base64":%q}`, image))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})

	t.Run("invalid base64 yields 400", func(t *testing.T) {
		router := setupTestRouter(&stubShoppingClient{}, &stubOCRClient{})

		w := postJSON(router, "/api/v1/ocr/extract", `{"image_base64":"not//valid!!base64"}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}
