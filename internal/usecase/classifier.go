package usecase

import (
	"strings"

	"github.com/shelflens/backend/internal/domain"
)

// nearbySignal is the substring/tag value the provider uses to mark local
// availability
const nearbySignal = "nearby"

// AvailabilityClassifier partitions a product's stores into nearby and
// online-only buckets. Classification is a pure function of two fields on
// each listing; no external state is consulted.
type AvailabilityClassifier struct{}

// NewAvailabilityClassifier creates a new classifier
func NewAvailabilityClassifier() *AvailabilityClassifier {
	return &AvailabilityClassifier{}
}

// Classify routes each store to exactly one bucket, preserving input order
// within each bucket. An empty input yields two empty buckets.
func (c *AvailabilityClassifier) Classify(stores []domain.StoreListing) domain.ClassifiedResult {
	result := domain.ClassifiedResult{
		NearbyStores: make([]domain.StoreListing, 0, len(stores)),
		OnlineStores: make([]domain.StoreListing, 0, len(stores)),
	}

	for _, store := range stores {
		if c.isNearby(store) {
			result.NearbyStores = append(result.NearbyStores, store)
		} else {
			result.OnlineStores = append(result.OnlineStores, store)
		}
	}

	return result
}

// isNearby ORs the two signals the provider uses inconsistently: a free-text
// offer line mentioning "nearby", or a structured tag equal to "nearby". The
// checks stay separate so either can change with the provider's data shape.
func (c *AvailabilityClassifier) isNearby(store domain.StoreListing) bool {
	if detailsMentionNearby(store.DetailsAndOffers) {
		return true
	}
	return tagIsNearby(store.Tag)
}

func detailsMentionNearby(details []string) bool {
	for _, detail := range details {
		if strings.Contains(strings.ToLower(detail), nearbySignal) {
			return true
		}
	}
	return false
}

func tagIsNearby(tag string) bool {
	return strings.ToLower(tag) == nearbySignal
}
