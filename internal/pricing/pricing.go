package pricing

import (
	"fmt"
	"time"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/availability"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/config"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/entities"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/season"
)

// Season is a compiled season rule: the config record with its month spec
// parsed. Order matters: when month sets overlap, the first declared season
// wins.
type Season struct {
	Name        string
	Months      season.MonthSet
	NightlyRate int
	MinStay     int
	CleaningFee int
}

// UncoveredDateError reports a night no season rule covers. It indicates
// incomplete season configuration, not a bad request.
type UncoveredDateError struct {
	Date  time.Time
	Month time.Month
}

func (e *UncoveredDateError) Error() string {
	return fmt.Sprintf("no season rule covers %s (month %d)", e.Date.Format("2006-01-02"), int(e.Month))
}

// CompileSeasons parses a property's season month specs, preserving
// declaration order.
func CompileSeasons(prop config.Property) ([]Season, error) {
	seasons := make([]Season, 0, len(prop.Seasons))
	for _, sc := range prop.Seasons {
		months, err := season.Parse(sc.Months)
		if err != nil {
			return nil, fmt.Errorf("property %s season %q: %w", prop.Slug, sc.SeasonName, err)
		}
		minStay := sc.MinStayNights
		if minStay < 1 {
			minStay = 1
		}
		seasons = append(seasons, Season{
			Name:        sc.SeasonName,
			Months:      months,
			NightlyRate: sc.NightlyRateZAR,
			MinStay:     minStay,
			CleaningFee: sc.CleaningFeeZAR,
		})
	}
	return seasons, nil
}

// Calculator prices stays against compiled season rules.
type Calculator struct {
	Currency string
}

func NewCalculator(currency string) *Calculator {
	if currency == "" {
		currency = "ZAR"
	}
	return &Calculator{Currency: currency}
}

// Price computes the quote for [checkIn, checkOut). Each night is charged at
// the rate of the first declared season covering its month. The min-stay
// requirement is the strictest one among seasons the stay touches, and the
// cleaning fee is the largest among seasons the stay touches: one physical
// clean per stay, never one per season.
func (c *Calculator) Price(seasons []Season, checkIn, checkOut time.Time) (*entities.Quote, error) {
	nights := availability.StayNights(checkIn, checkOut)
	if nights <= 0 {
		return nil, availability.ErrInvalidDateRange
	}

	quote := &entities.Quote{
		Currency:        c.Currency,
		Nights:          nights,
		MinStayRequired: 1,
		Breakdown:       make([]entities.NightCharge, 0, nights),
	}

	for _, night := range availability.NightsBetween(checkIn, checkOut) {
		matched := matchSeason(seasons, night.Month())
		if matched == nil {
			return nil, &UncoveredDateError{Date: night, Month: night.Month()}
		}
		quote.SubtotalZAR += matched.NightlyRate
		if matched.MinStay > quote.MinStayRequired {
			quote.MinStayRequired = matched.MinStay
		}
		if matched.CleaningFee > quote.CleaningFeeZAR {
			quote.CleaningFeeZAR = matched.CleaningFee
		}
		quote.Breakdown = append(quote.Breakdown, entities.NightCharge{
			Date:           night.Format("2006-01-02"),
			Season:         matched.Name,
			NightlyRateZAR: matched.NightlyRate,
		})
	}

	quote.MinStayOk = nights >= quote.MinStayRequired
	quote.TotalZAR = quote.SubtotalZAR + quote.CleaningFeeZAR
	return quote, nil
}

func matchSeason(seasons []Season, m time.Month) *Season {
	for i := range seasons {
		if seasons[i].Months.Contains(m) {
			return &seasons[i]
		}
	}
	return nil
}
