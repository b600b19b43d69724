package entities

// NightCharge is one line of a quote's per-night breakdown.
type NightCharge struct {
	Date           string `json:"date"`
	Season         string `json:"season"`
	NightlyRateZAR int    `json:"nightly_rate_zar"`
}

// Quote is the priced result for one stay at one property.
type Quote struct {
	Currency        string        `json:"currency"`
	Nights          int           `json:"nights"`
	MinStayRequired int           `json:"min_stay_required"`
	MinStayOk       bool          `json:"min_stay_ok"`
	SubtotalZAR     int           `json:"subtotal_nightly"`
	CleaningFeeZAR  int           `json:"cleaning_fee_zar"`
	TotalZAR        int           `json:"total_price_zar"`
	Breakdown       []NightCharge `json:"breakdown"`
}
