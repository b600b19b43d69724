package entities

// NearbySuggestion is an alternative stay on the same property, shifted from
// the requested dates by DistanceDays.
type NearbySuggestion struct {
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Nights        int    `json:"nights"`
	TotalPriceZAR int    `json:"total_price_zar"`
	Currency      string `json:"currency"`
	DistanceDays  int    `json:"distance_days"`
}

type SuggestResponse struct {
	Dates           []NearbySuggestion `json:"dates"`
	OtherProperties []PricedProperty   `json:"other_properties"`
}
