package pricing

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/availability"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/config"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func compile(t *testing.T, prop config.Property) []Season {
	t.Helper()
	seasons, err := CompileSeasons(prop)
	if err != nil {
		t.Fatalf("CompileSeasons failed: %v", err)
	}
	return seasons
}

func villaA(t *testing.T) []Season {
	return compile(t, config.Property{
		Slug: "villa-a",
		Seasons: []config.SeasonConfig{
			{SeasonName: "summer", Months: "Nov-Feb", NightlyRateZAR: 1000, MinStayNights: 3, CleaningFeeZAR: 500},
		},
	})
}

func TestPrice(t *testing.T) {
	calc := NewCalculator("ZAR")

	t.Run("single season stay", func(t *testing.T) {
		q, err := calc.Price(villaA(t), date(2025, 12, 20), date(2025, 12, 23))
		if err != nil {
			t.Fatalf("Price failed: %v", err)
		}
		if q.Nights != 3 || q.SubtotalZAR != 3000 || q.CleaningFeeZAR != 500 || q.TotalZAR != 3500 {
			t.Fatalf("quote = %+v", q)
		}
		if !q.MinStayOk || q.MinStayRequired != 3 {
			t.Fatalf("min stay: required %d ok %v", q.MinStayRequired, q.MinStayOk)
		}
		if len(q.Breakdown) != 3 || q.Breakdown[0].Date != "2025-12-20" || q.Breakdown[0].Season != "summer" {
			t.Fatalf("breakdown = %+v", q.Breakdown)
		}
	})

	t.Run("min stay unmet is a normal outcome", func(t *testing.T) {
		q, err := calc.Price(villaA(t), date(2025, 12, 20), date(2025, 12, 22))
		if err != nil {
			t.Fatalf("Price failed: %v", err)
		}
		if q.MinStayOk {
			t.Fatal("2 nights must not satisfy a 3 night minimum")
		}
		if q.TotalZAR != 2500 {
			t.Fatalf("total = %d", q.TotalZAR)
		}
	})

	t.Run("invalid range", func(t *testing.T) {
		if _, err := calc.Price(villaA(t), date(2025, 12, 23), date(2025, 12, 23)); !errors.Is(err, availability.ErrInvalidDateRange) {
			t.Fatalf("err = %v, want ErrInvalidDateRange", err)
		}
	})

	t.Run("uncovered month fails hard", func(t *testing.T) {
		_, err := calc.Price(villaA(t), date(2025, 6, 1), date(2025, 6, 3))
		var uncovered *UncoveredDateError
		if !errors.As(err, &uncovered) {
			t.Fatalf("err = %v, want UncoveredDateError", err)
		}
		if uncovered.Month != time.June {
			t.Fatalf("uncovered month = %v", uncovered.Month)
		}
	})

	t.Run("first declared season wins on overlap", func(t *testing.T) {
		seasons := compile(t, config.Property{
			Slug: "overlap",
			Seasons: []config.SeasonConfig{
				{SeasonName: "peak", Months: "Dec", NightlyRateZAR: 2000, MinStayNights: 1},
				{SeasonName: "base", Months: "Jan-Dec", NightlyRateZAR: 800, MinStayNights: 1},
			},
		})
		q, err := calc.Price(seasons, date(2025, 12, 20), date(2025, 12, 21))
		if err != nil {
			t.Fatalf("Price failed: %v", err)
		}
		if q.SubtotalZAR != 2000 || q.Breakdown[0].Season != "peak" {
			t.Fatalf("expected peak to win, got %+v", q.Breakdown)
		}
	})

	t.Run("cleaning fee is max across touched seasons only", func(t *testing.T) {
		seasons := compile(t, config.Property{
			Slug: "two-seasons",
			Seasons: []config.SeasonConfig{
				{SeasonName: "high", Months: "Dec-Feb", NightlyRateZAR: 1500, MinStayNights: 2, CleaningFeeZAR: 900},
				{SeasonName: "low", Months: "Mar-Nov", NightlyRateZAR: 700, MinStayNights: 1, CleaningFeeZAR: 300},
			},
		})

		// Stay touching only the low season takes the low cleaning fee.
		q, err := calc.Price(seasons, date(2025, 6, 10), date(2025, 6, 12))
		if err != nil {
			t.Fatalf("Price failed: %v", err)
		}
		if q.CleaningFeeZAR != 300 {
			t.Fatalf("cleaning fee = %d, want 300 (high season untouched)", q.CleaningFeeZAR)
		}

		// Cross-season stay charges one clean at the highest touched fee,
		// and inherits the strictest touched min stay.
		q, err = calc.Price(seasons, date(2025, 11, 29), date(2025, 12, 2))
		if err != nil {
			t.Fatalf("Price failed: %v", err)
		}
		if q.CleaningFeeZAR != 900 {
			t.Fatalf("cleaning fee = %d, want 900 (max, not sum)", q.CleaningFeeZAR)
		}
		if q.MinStayRequired != 2 {
			t.Fatalf("min stay = %d, want 2", q.MinStayRequired)
		}
		if q.SubtotalZAR != 700*2+1500 {
			t.Fatalf("subtotal = %d", q.SubtotalZAR)
		}
	})

	t.Run("idempotent for identical inputs", func(t *testing.T) {
		a, err := calc.Price(villaA(t), date(2025, 12, 20), date(2025, 12, 23))
		if err != nil {
			t.Fatalf("Price failed: %v", err)
		}
		b, err := calc.Price(villaA(t), date(2025, 12, 20), date(2025, 12, 23))
		if err != nil {
			t.Fatalf("Price failed: %v", err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("quotes differ: %+v vs %+v", a, b)
		}
	})
}

func TestCompileSeasons(t *testing.T) {
	t.Run("bad month spec surfaces the season name", func(t *testing.T) {
		_, err := CompileSeasons(config.Property{
			Slug:    "broken",
			Seasons: []config.SeasonConfig{{SeasonName: "odd", Months: "Movember"}},
		})
		if err == nil {
			t.Fatal("expected error for unknown month token")
		}
	})

	t.Run("min stay defaults to one night", func(t *testing.T) {
		seasons := compile(t, config.Property{
			Seasons: []config.SeasonConfig{{SeasonName: "s", Months: "Jan-Dec", NightlyRateZAR: 100}},
		})
		if seasons[0].MinStay != 1 {
			t.Fatalf("min stay = %d, want 1", seasons[0].MinStay)
		}
	})
}
