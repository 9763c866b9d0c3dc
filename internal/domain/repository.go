package domain

import "context"

// ShoppingClient defines the interface for the shopping search provider.
// SearchProducts issues a generic product search; GetProductDetails resolves
// one result's page token into store-level availability.
type ShoppingClient interface {
	SearchProducts(ctx context.Context, query SearchQuery) (*ShoppingSearchResponse, error)
	GetProductDetails(ctx context.Context, pageToken string) (*ImmersiveProductResponse, error)
}

// OCRClient defines the interface for the text-detection collaborator. The
// returned text is treated as opaque raw input for normalization.
type OCRClient interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
