package entities

// PricedProperty is one available property with pricing for the requested
// dates, used by both the full search and the alternate-property suggestions.
type PricedProperty struct {
	PropertySlug  string `json:"property_slug"`
	DisplayName   string `json:"display_name"`
	PageURL       string `json:"property_page_url"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	Nights        int    `json:"nights"`
	TotalPriceZAR int    `json:"total_price_zar"`
	Currency      string `json:"currency"`
}

type SearchDiagnostics struct {
	PropertiesTotal int      `json:"properties_total"`
	AvailableCount  int      `json:"available_count"`
	FailedFeeds     []string `json:"failed_feeds"`
	Ms              int64    `json:"ms"`
}

type SearchResponse struct {
	CheckIn     string            `json:"check_in"`
	CheckOut    string            `json:"check_out"`
	Results     []PricedProperty  `json:"results"`
	Diagnostics SearchDiagnostics `json:"diagnostics"`
}
