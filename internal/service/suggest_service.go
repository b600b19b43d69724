package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/availability"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/config"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/entities"
)

// SuggestOptions tunes one suggestion request. Nil fields fall back to
// the service defaults; an explicit zero is honored, so a caller can ask
// for a forward-only sweep or suppress one of the suggestion lists.
type SuggestOptions struct {
	RadiusBackDays     *int
	RadiusForwardDays  *int
	MaxDateSuggestions *int
	MaxOtherProperties *int
}

type suggestLimits struct {
	radiusBack    int
	radiusForward int
	maxDates      int
	maxOthers     int
}

func (s *StayService) fillSuggestOptions(o SuggestOptions) suggestLimits {
	pick := func(v *int, def int) int {
		if v == nil {
			return def
		}
		if *v < 0 {
			return 0
		}
		return *v
	}
	return suggestLimits{
		radiusBack:    pick(o.RadiusBackDays, s.Opts.RadiusBackDays),
		radiusForward: pick(o.RadiusForwardDays, s.Opts.RadiusForwardDays),
		maxDates:      pick(o.MaxDateSuggestions, s.Opts.MaxDateSuggestions),
		maxOthers:     pick(o.MaxOtherProperties, s.Opts.MaxOtherProperties),
	}
}

// Suggest searches for nearby viable dates on the requested property and
// for other properties free on the requested dates. Both searches are
// read-only and fail closed; they share no mutable state and run
// concurrently.
func (s *StayService) Suggest(ctx context.Context, slug string, checkIn, checkOut time.Time, opts SuggestOptions) (*entities.SuggestResponse, error) {
	cfg, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	prop, ok := cfg.FindProperty(slug)
	if !ok {
		return nil, ErrUnknownProperty
	}

	stayLen := availability.StayNights(checkIn, checkOut)
	if stayLen <= 0 {
		return nil, availability.ErrInvalidDateRange
	}
	limits := s.fillSuggestOptions(opts)

	selfBusy := s.Agg.LoadBusyNights(ctx, prop)
	if selfBusy.Unknown() {
		return nil, ErrAllFeedsFailed
	}

	resp := &entities.SuggestResponse{
		Dates:           []entities.NearbySuggestion{},
		OtherProperties: []entities.PricedProperty{},
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		resp.Dates = s.nearbyDates(cfg, prop, selfBusy.Busy, checkIn, stayLen, limits)
	}()
	go func() {
		defer wg.Done()
		resp.OtherProperties = s.otherProperties(ctx, cfg, slug, checkIn, checkOut, limits)
	}()
	wg.Wait()

	return resp, nil
}

// nearbyDates sweeps candidate start dates across the whole back/forward
// window, then sorts by (distance from the requested start, total price)
// and keeps the top K. The sweep is not truncated early: forward sweep
// order is not distance order around the requested date.
func (s *StayService) nearbyDates(cfg *config.Config, prop config.Property, busy availability.NightSet, checkIn time.Time, stayLen int, limits suggestLimits) []entities.NearbySuggestion {
	origin := availability.Night(checkIn)
	accepted := []entities.NearbySuggestion{}

	for offset := -limits.radiusBack; offset <= limits.radiusForward; offset++ {
		candIn := origin.AddDate(0, 0, offset)
		candOut := candIn.AddDate(0, 0, stayLen)
		if busy.HasConflict(availability.NightsBetween(candIn, candOut)) {
			continue
		}
		quote, err := s.priceStay(cfg, prop, candIn, candOut)
		if err != nil || !quote.MinStayOk {
			continue
		}
		distance := offset
		if distance < 0 {
			distance = -distance
		}
		accepted = append(accepted, entities.NearbySuggestion{
			CheckIn:       candIn.Format(isoDate),
			CheckOut:      candOut.Format(isoDate),
			Nights:        quote.Nights,
			TotalPriceZAR: quote.TotalZAR,
			Currency:      quote.Currency,
			DistanceDays:  distance,
		})
	}

	// Stable: equal (distance, price) candidates keep sweep order, so the
	// earlier start wins deterministically.
	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].DistanceDays != accepted[j].DistanceDays {
			return accepted[i].DistanceDays < accepted[j].DistanceDays
		}
		return accepted[i].TotalPriceZAR < accepted[j].TotalPriceZAR
	})
	if len(accepted) > limits.maxDates {
		accepted = accepted[:limits.maxDates]
	}
	return accepted
}

// otherProperties finds alternate properties free on the fixed requested
// dates, cheapest first, capped at K.
func (s *StayService) otherProperties(ctx context.Context, cfg *config.Config, excludeSlug string, checkIn, checkOut time.Time, limits suggestLimits) []entities.PricedProperty {
	nights := availability.NightsBetween(checkIn, checkOut)
	candidates, _ := s.collectAvailable(ctx, cfg, cfg.Properties, excludeSlug, checkIn, checkOut, nights)

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].TotalPriceZAR < candidates[j].TotalPriceZAR
	})
	if len(candidates) > limits.maxOthers {
		candidates = candidates[:limits.maxOthers]
	}
	return candidates
}
