package entities

// FeedDiagnostics summarizes how the feed aggregation went for one property.
type FeedDiagnostics struct {
	FeedsOK     int      `json:"feeds_ok"`
	FailedFeeds []string `json:"failed_feeds,omitempty"`
}

// AvailabilityResponse answers "is this stay free of conflicts". It is only
// produced when at least one feed loaded; zero loaded feeds means
// availability is unknown and surfaces as an error instead.
type AvailabilityResponse struct {
	PropertySlug string           `json:"property_slug"`
	CheckIn      string           `json:"check_in"`
	CheckOut     string           `json:"check_out"`
	Available    bool             `json:"available"`
	Diagnostics  *FeedDiagnostics `json:"diagnostics,omitempty"`
}
