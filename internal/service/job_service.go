package service

import (
	"context"
	"log"
	"time"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/cache"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/config"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/feed"
)

// JobService runs the cron-driven maintenance passes over the feed cache.
type JobService struct {
	Provider config.Provider
	Agg      *feed.Aggregator
	Cache    *cache.Cache
}

func NewJobService(provider config.Provider, agg *feed.Aggregator, c *cache.Cache) *JobService {
	return &JobService{Provider: provider, Agg: agg, Cache: c}
}

// SweepFeedCache drops expired cache entries so dead feed URLs do not
// accumulate between requests.
func (s *JobService) SweepFeedCache() {
	if removed := s.Cache.Sweep(); removed > 0 {
		log.Printf("Cron Job: swept %d expired feed cache entries, %d remain", removed, s.Cache.Len())
	}
}

// PrewarmFeeds aggregates every property's feeds once so that interactive
// requests mostly hit a warm cache. Per-feed failures are already absorbed
// by the aggregator; this only logs the pass summary.
func (s *JobService) PrewarmFeeds(ctx context.Context, timeout time.Duration) {
	cfg, err := s.Provider.Get()
	if err != nil {
		log.Printf("Cron Job: prewarm skipped, config load failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, unknown := 0, 0
	for _, prop := range cfg.Properties {
		res := s.Agg.LoadBusyNights(ctx, prop)
		if res.Unknown() {
			unknown++
			continue
		}
		ok++
	}
	log.Printf("Cron Job: prewarmed feeds for %d properties (%d with no working feed)", ok, unknown)
}
