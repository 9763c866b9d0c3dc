package domain

// ShoppingResult is one raw result from the shopping search engine. Not every
// result carries an immersive product page token; those without one cannot be
// resolved into store availability and are dropped during mapping.
type ShoppingResult struct {
	Title     string   `json:"title"`
	Price     string   `json:"price"`
	Source    string   `json:"source"`
	Thumbnail string   `json:"thumbnail"`
	Rating    *float64 `json:"rating"`
	Reviews   *int     `json:"reviews"`
	ProductID string   `json:"product_id"`
	PageToken string   `json:"immersive_product_page_token"`
}

// ShoppingSearchResponse is the wire response from a shopping search request.
type ShoppingSearchResponse struct {
	ShoppingResults []ShoppingResult `json:"shopping_results"`
	Error           string           `json:"error,omitempty"`
}

// StoreResult is one raw store entry from the immersive product engine.
type StoreResult struct {
	Name             string   `json:"name"`
	Price            string   `json:"price"`
	OriginalPrice    string   `json:"original_price"`
	Rating           *float64 `json:"rating"`
	Reviews          *int     `json:"reviews"`
	Tag              string   `json:"tag"`
	DetailsAndOffers []string `json:"details_and_offers"`
	Link             string   `json:"link"`
	Shipping         string   `json:"shipping"`
}

// ProductResults is the product block of an immersive product response.
type ProductResults struct {
	Title      string        `json:"title"`
	Brand      string        `json:"brand"`
	PriceRange string        `json:"price_range"`
	Stores     []StoreResult `json:"stores"`
}

// ImmersiveProductResponse is the wire response from a product detail request.
type ImmersiveProductResponse struct {
	ProductResults ProductResults `json:"product_results"`
	Error          string         `json:"error,omitempty"`
}
