package api

import (
	"fmt"
	"strings"
	"time"
)

// StayRequest is the common property_slug + check_in/check_out payload.
// Searches leave property_slug empty.
type StayRequest struct {
	PropertySlug string `json:"property_slug"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
}

// SuggestRequest adds the optional radius and limit overrides. Pointers
// keep an absent parameter distinct from an explicit zero: only absent
// ones fall back to the service defaults.
type SuggestRequest struct {
	StayRequest
	RadiusBackDays     *int `json:"radius_back_days"`
	RadiusForwardDays  *int `json:"radius_forward_days"`
	MaxDateSuggestions *int `json:"max_date_suggestions"`
	MaxOtherProperties *int `json:"max_other_properties"`
}

// SearchRequest is a fixed-dates search over all properties.
type SearchRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Limit    int    `json:"limit"`
}

// parseDate parses a calendar date. All request dates are plain dates and
// land on midnight UTC.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return t, nil
}

func (r StayRequest) dates() (checkIn, checkOut time.Time, err error) {
	if checkIn, err = parseDate(r.CheckIn); err != nil {
		return
	}
	checkOut, err = parseDate(r.CheckOut)
	return
}
