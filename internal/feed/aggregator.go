package feed

import (
	"context"
	"log"
	"time"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/availability"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/cache"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/config"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/ical"
)

// Fetcher fetches and parses one calendar feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]ical.EventRange, error)
}

// Failure records one feed that could not be loaded this pass.
type Failure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// Result is one aggregation pass over a property's feeds. FeedsOK == 0
// means availability is unknown, which callers must never treat as
// available: an empty busy set only means "confirmed free" when at least
// one feed loaded.
type Result struct {
	FeedsOK  int
	Busy     availability.NightSet
	Failures []Failure
}

// Unknown reports whether no feed produced data.
func (r Result) Unknown() bool {
	return r.FeedsOK == 0
}

// Aggregator merges a property's calendar feeds into one busy-night set.
// Fetches go through the shared cache; each miss is bounded by the fetch
// timeout so one slow feed cannot stall aggregation.
type Aggregator struct {
	cache   *cache.Cache
	fetcher Fetcher
	timeout time.Duration
}

func NewAggregator(c *cache.Cache, f Fetcher, timeout time.Duration) *Aggregator {
	return &Aggregator{cache: c, fetcher: f, timeout: timeout}
}

// LoadBusyNights fetches every feed of the property concurrently and unions
// the resulting nights. A feed's failure is recorded and swallowed, never
// propagated: the pass continues with whatever feeds did load.
func (a *Aggregator) LoadBusyNights(ctx context.Context, prop config.Property) Result {
	res := Result{Busy: availability.NewNightSet()}
	urls := prop.FeedURLs()
	if len(urls) == 0 {
		return res
	}

	type fetchResult struct {
		url    string
		events []ical.EventRange
		err    error
	}
	results := make(chan fetchResult, len(urls))
	for _, url := range urls {
		go func(url string) {
			events, err := a.FetchFeed(ctx, url)
			results <- fetchResult{url: url, events: events, err: err}
		}(url)
	}

	for range urls {
		r := <-results
		if r.err != nil {
			log.Printf("feed %s failed for property %s: %v", r.url, prop.Slug, r.err)
			res.Failures = append(res.Failures, Failure{URL: r.url, Error: r.err.Error()})
			continue
		}
		res.FeedsOK++
		for _, ev := range r.events {
			res.Busy.AddRange(ev.Start, ev.End)
		}
	}
	return res
}

// FetchFeed returns one feed's events, served from the cache when fresh.
func (a *Aggregator) FetchFeed(ctx context.Context, url string) ([]ical.EventRange, error) {
	if events, ok := a.cache.Get(url); ok {
		return events, nil
	}
	fctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	events, err := a.fetcher.Fetch(fctx, url)
	if err != nil {
		return nil, err
	}
	a.cache.Set(url, events)
	return events, nil
}
