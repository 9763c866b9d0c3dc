package domain

// SearchQuery is a normalized product search, built once per user search.
type SearchQuery struct {
	Text     string
	Location string
}

// Candidate represents one shopping search result offered to the user for
// confirmation. PageToken is the provider-issued handle needed to resolve
// store availability for this result and must be passed through verbatim.
type Candidate struct {
	Title     string   `json:"title"`
	Price     string   `json:"price,omitempty"`
	Source    string   `json:"source"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Reviews   *int     `json:"reviews,omitempty"`
	PageToken string   `json:"page_token"`
}

// StoreListing represents one retailer's offer for a resolved product.
type StoreListing struct {
	Name             string   `json:"name"`
	Price            string   `json:"price,omitempty"`
	OriginalPrice    string   `json:"original_price,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	Reviews          *int     `json:"reviews,omitempty"`
	Tag              string   `json:"tag,omitempty"`
	DetailsAndOffers []string `json:"details_and_offers,omitempty"`
	Link             string   `json:"link,omitempty"`
	Shipping         string   `json:"shipping,omitempty"`
}

// ProductDetail is the store-level availability record for one candidate.
// Store order carries the provider's price/relevance ranking and is preserved.
type ProductDetail struct {
	Title      string         `json:"title"`
	Brand      string         `json:"brand,omitempty"`
	PriceRange string         `json:"price_range,omitempty"`
	Stores     []StoreListing `json:"stores"`
}

// ClassifiedResult partitions a product's stores into those carrying a
// local-availability signal and everything else. Every input store lands in
// exactly one bucket.
type ClassifiedResult struct {
	NearbyStores []StoreListing `json:"nearby_stores"`
	OnlineStores []StoreListing `json:"online_stores"`
}
