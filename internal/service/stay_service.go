package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/availability"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/config"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/entities"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/feed"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/pricing"
)

var (
	// ErrUnknownProperty is returned for a slug the config does not know.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrAllFeedsFailed means every calendar feed of a property failed to
	// load, so its availability is unknown. Unknown is never available.
	ErrAllFeedsFailed = errors.New("all calendar feeds failed for this property")
)

const isoDate = "2006-01-02"

// Options carries the engine's search and suggestion defaults.
type Options struct {
	SearchDefaultLimit int
	RadiusBackDays     int
	RadiusForwardDays  int
	MaxDateSuggestions int
	MaxOtherProperties int
}

// DefaultOptions mirrors the widget's production defaults.
func DefaultOptions() Options {
	return Options{
		SearchDefaultLimit: 999,
		RadiusBackDays:     3,
		RadiusForwardDays:  12,
		MaxDateSuggestions: 4,
		MaxOtherProperties: 4,
	}
}

// StayService implements the engine's operations: availability checks,
// quotes, the all-property search, and suggestions.
type StayService struct {
	Provider config.Provider
	Agg      *feed.Aggregator
	Opts     Options
}

func NewStayService(provider config.Provider, agg *feed.Aggregator, opts Options) *StayService {
	return &StayService{Provider: provider, Agg: agg, Opts: opts}
}

func (s *StayService) snapshot() (*config.Config, error) {
	cfg, err := s.Provider.Get()
	if err != nil {
		return nil, fmt.Errorf("load properties config: %w", err)
	}
	return cfg, nil
}

// CheckAvailability reports whether [checkIn, checkOut) is free of
// conflicting bookings. When every feed fails it returns ErrAllFeedsFailed
// rather than guessing: unknown must never resolve to available.
func (s *StayService) CheckAvailability(ctx context.Context, slug string, checkIn, checkOut time.Time) (*entities.AvailabilityResponse, error) {
	cfg, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	prop, ok := cfg.FindProperty(slug)
	if !ok {
		return nil, ErrUnknownProperty
	}

	nights := availability.NightsBetween(checkIn, checkOut)
	if len(nights) == 0 {
		return nil, availability.ErrInvalidDateRange
	}

	res := s.Agg.LoadBusyNights(ctx, prop)
	if res.Unknown() {
		return nil, ErrAllFeedsFailed
	}

	return &entities.AvailabilityResponse{
		PropertySlug: slug,
		CheckIn:      checkIn.Format(isoDate),
		CheckOut:     checkOut.Format(isoDate),
		Available:    !res.Busy.HasConflict(nights),
		Diagnostics:  diagnostics(res),
	}, nil
}

// Quote prices the stay. It never touches the calendar feeds: a quote for
// conflicting dates is still a valid quote.
func (s *StayService) Quote(ctx context.Context, slug string, checkIn, checkOut time.Time) (*entities.Quote, error) {
	cfg, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	prop, ok := cfg.FindProperty(slug)
	if !ok {
		return nil, ErrUnknownProperty
	}
	return s.priceStay(cfg, prop, checkIn, checkOut)
}

func (s *StayService) priceStay(cfg *config.Config, prop config.Property, checkIn, checkOut time.Time) (*entities.Quote, error) {
	seasons, err := pricing.CompileSeasons(prop)
	if err != nil {
		return nil, err
	}
	return pricing.NewCalculator(cfg.Currency).Price(seasons, checkIn, checkOut)
}

// SearchAll returns every property available and priceable for the fixed
// dates, cheapest first. Properties whose feeds all failed are excluded and
// reported in diagnostics, never offered as available.
func (s *StayService) SearchAll(ctx context.Context, checkIn, checkOut time.Time, limit int) (*entities.SearchResponse, error) {
	cfg, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	nights := availability.NightsBetween(checkIn, checkOut)
	if len(nights) == 0 {
		return nil, availability.ErrInvalidDateRange
	}
	if limit <= 0 {
		limit = s.Opts.SearchDefaultLimit
	}

	started := time.Now()
	candidates, failed := s.collectAvailable(ctx, cfg, cfg.Properties, "", checkIn, checkOut, nights)

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].TotalPriceZAR < candidates[j].TotalPriceZAR
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return &entities.SearchResponse{
		CheckIn:  checkIn.Format(isoDate),
		CheckOut: checkOut.Format(isoDate),
		Results:  candidates,
		Diagnostics: entities.SearchDiagnostics{
			PropertiesTotal: len(cfg.Properties),
			AvailableCount:  len(candidates),
			FailedFeeds:     failed,
			Ms:              time.Since(started).Milliseconds(),
		},
	}, nil
}

// collectAvailable fans out feed aggregation across properties and keeps
// those that are conflict-free, priceable, and meet their minimum stay.
// excludeSlug skips one property (the suggestion target). The failed list
// names properties whose feeds all failed.
func (s *StayService) collectAvailable(ctx context.Context, cfg *config.Config, props []config.Property, excludeSlug string, checkIn, checkOut time.Time, nights []time.Time) ([]entities.PricedProperty, []string) {
	type outcome struct {
		priced     *entities.PricedProperty
		failedSlug string
	}

	results := make(chan outcome, len(props))
	count := 0
	for _, prop := range props {
		if prop.Slug == excludeSlug {
			continue
		}
		count++
		go func(prop config.Property) {
			res := s.Agg.LoadBusyNights(ctx, prop)
			if res.Unknown() {
				results <- outcome{failedSlug: prop.Slug}
				return
			}
			if res.Busy.HasConflict(nights) {
				results <- outcome{}
				return
			}
			quote, err := s.priceStay(cfg, prop, checkIn, checkOut)
			if err != nil {
				log.Printf("search: pricing %s failed: %v", prop.Slug, err)
				results <- outcome{}
				return
			}
			if !quote.MinStayOk {
				results <- outcome{}
				return
			}
			results <- outcome{priced: &entities.PricedProperty{
				PropertySlug:  prop.Slug,
				DisplayName:   prop.Name(),
				PageURL:       prop.PageURL,
				ThumbnailURL:  prop.ThumbnailURL,
				Nights:        quote.Nights,
				TotalPriceZAR: quote.TotalZAR,
				Currency:      quote.Currency,
			}}
		}(prop)
	}

	candidates := make([]entities.PricedProperty, 0, count)
	var failed []string
	for i := 0; i < count; i++ {
		o := <-results
		if o.failedSlug != "" {
			failed = append(failed, o.failedSlug)
			continue
		}
		if o.priced != nil {
			candidates = append(candidates, *o.priced)
		}
	}
	sort.Strings(failed)
	return candidates, failed
}

func diagnostics(res feed.Result) *entities.FeedDiagnostics {
	d := &entities.FeedDiagnostics{FeedsOK: res.FeedsOK}
	for _, f := range res.Failures {
		d.FailedFeeds = append(d.FailedFeeds, f.URL)
	}
	return d
}
