package usecase

import (
	"context"
	"fmt"

	"github.com/shelflens/backend/internal/domain"
	"github.com/shelflens/backend/internal/infrastructure/serpapi"
	"github.com/shelflens/backend/pkg/logger"
)

// LocatorConfig holds configuration for the locator service
type LocatorConfig struct {
	MaxCandidates   int
	DefaultLocation string
	ExtraExclusions []string
}

// LocatorService sequences the retailer resolution pipeline: OCR text is
// normalized into a query, the query becomes a short candidate list, a chosen
// candidate's token resolves into store availability, and the stores are
// classified as nearby or online-only. Every stage is request-scoped; nothing
// is cached or shared between invocations.
type LocatorService struct {
	shopping        domain.ShoppingClient
	normalizer      *TextNormalizer
	classifier      *AvailabilityClassifier
	maxCandidates   int
	defaultLocation string
}

// NewLocatorService creates a new locator service with dependencies
func NewLocatorService(shopping domain.ShoppingClient, config LocatorConfig) *LocatorService {
	maxCandidates := config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 5
	}

	return &LocatorService{
		shopping:        shopping,
		normalizer:      NewTextNormalizer(config.ExtraExclusions...),
		classifier:      NewAvailabilityClassifier(),
		maxCandidates:   maxCandidates,
		defaultLocation: config.DefaultLocation,
	}
}

// NormalizeAndSearch cleans raw OCR text into a query and runs a product
// search with it. Returns ErrNoUsableText when nothing in the text survives
// filtering.
func (s *LocatorService) NormalizeAndSearch(ctx context.Context, rawText, location string) ([]domain.Candidate, error) {
	query, err := s.normalizer.Normalize(rawText)
	if err != nil {
		return nil, err
	}

	logger.Debugf("[locator] normalized query: %q", query)
	return s.Search(ctx, query, location)
}

// Search runs one product search and returns up to maxCandidates resolvable
// candidates in provider order. Results without a page token are dropped
// before truncation; an empty usable set is ErrNoCandidates, not a failure.
func (s *LocatorService) Search(ctx context.Context, query, location string) ([]domain.Candidate, error) {
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	if location == "" {
		location = s.defaultLocation
	}

	resp, err := s.shopping.SearchProducts(ctx, domain.SearchQuery{Text: query, Location: location})
	if err != nil {
		return nil, fmt.Errorf("product search: %w", err)
	}

	candidates := serpapi.MapCandidates(resp.ShoppingResults, s.maxCandidates)
	if len(candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}

	return candidates, nil
}

// ResolveDetail fetches the store-level availability record for one candidate
// by its page token. The token is forwarded verbatim; an unresolvable token
// is terminal for that candidate.
func (s *LocatorService) ResolveDetail(ctx context.Context, pageToken string) (*domain.ProductDetail, error) {
	if pageToken == "" {
		return nil, domain.ErrInvalidRequest
	}

	resp, err := s.shopping.GetProductDetails(ctx, pageToken)
	if err != nil {
		return nil, fmt.Errorf("product detail: %w", err)
	}

	return serpapi.MapProductDetail(&resp.ProductResults), nil
}

// Classify partitions a store list into nearby and online-only buckets
func (s *LocatorService) Classify(stores []domain.StoreListing) domain.ClassifiedResult {
	return s.classifier.Classify(stores)
}
