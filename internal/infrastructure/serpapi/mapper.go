package serpapi

import "github.com/shelflens/backend/internal/domain"

// MapCandidates converts raw shopping results to candidates, dropping results
// without a page token (they cannot be resolved into store availability) and
// truncating to max entries. Provider order is preserved; filtered results do
// not count toward the cap.
func MapCandidates(results []domain.ShoppingResult, max int) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, max)

	for _, r := range results {
		if r.PageToken == "" {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Title:     r.Title,
			Price:     r.Price,
			Source:    r.Source,
			Thumbnail: r.Thumbnail,
			Rating:    r.Rating,
			Reviews:   r.Reviews,
			PageToken: r.PageToken,
		})
		if len(candidates) == max {
			break
		}
	}

	return candidates
}

// MapProductDetail converts a raw product block to the domain model. Store
// order is kept as delivered; an empty store list is a valid record.
func MapProductDetail(pr *domain.ProductResults) *domain.ProductDetail {
	stores := make([]domain.StoreListing, 0, len(pr.Stores))
	for _, s := range pr.Stores {
		stores = append(stores, mapStore(s))
	}

	return &domain.ProductDetail{
		Title:      pr.Title,
		Brand:      pr.Brand,
		PriceRange: pr.PriceRange,
		Stores:     stores,
	}
}

func mapStore(s domain.StoreResult) domain.StoreListing {
	return domain.StoreListing{
		Name:             s.Name,
		Price:            s.Price,
		OriginalPrice:    s.OriginalPrice,
		Rating:           s.Rating,
		Reviews:          s.Reviews,
		Tag:              s.Tag,
		DetailsAndOffers: s.DetailsAndOffers,
		Link:             s.Link,
		Shipping:         s.Shipping,
	}
}
