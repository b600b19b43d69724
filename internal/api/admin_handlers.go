package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/config"
	apperrors "github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/errors"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/feed"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/ical"
	"github.com/gorilla/mux"
)

const (
	feedSampleLimit   = 30
	defaultFeedWindow = 6 * 30 * 24 * time.Hour
)

// AdminHandler serves the operator diagnostics: a config summary and raw
// per-feed event samples.
type AdminHandler struct {
	Provider config.Provider
	Agg      *feed.Aggregator
}

func NewAdminHandler(provider config.Provider, agg *feed.Aggregator) *AdminHandler {
	return &AdminHandler{Provider: provider, Agg: agg}
}

type propertySummary struct {
	Slug    string `json:"slug"`
	Seasons int    `json:"seasons"`
	ICals   int    `json:"icals"`
}

// ConfigSummary handles GET /admin/config. It reports enough to verify the
// deployed properties.json without exposing feed URLs to the widget.
func (h *AdminHandler) ConfigSummary(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Provider.Get()
	if err != nil {
		respondError(w, err)
		return
	}
	summaries := make([]propertySummary, 0, len(cfg.Properties))
	for _, p := range cfg.Properties {
		summaries = append(summaries, propertySummary{
			Slug:    p.Slug,
			Seasons: len(p.Seasons),
			ICals:   len(p.FeedURLs()),
		})
	}
	respondJSON(w, map[string]any{
		"ok":         true,
		"timezone":   cfg.Timezone,
		"currency":   cfg.Currency,
		"properties": summaries,
	})
}

type feedSampleEvent struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Summary string `json:"summary"`
}

type feedStatus struct {
	URL    string            `json:"url"`
	OK     bool              `json:"ok"`
	Count  int               `json:"count,omitempty"`
	Sample []feedSampleEvent `json:"sample,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// FeedEvents handles GET /admin/feeds/{slug}. For each feed of the property
// it fetches (through the shared cache) and samples events inside the
// requested window, defaulting to the next six months.
func (h *AdminHandler) FeedEvents(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	cfg, err := h.Provider.Get()
	if err != nil {
		respondError(w, err)
		return
	}
	prop, ok := cfg.FindProperty(slug)
	if !ok {
		respondError(w, apperrors.NewHTTPError(http.StatusNotFound, "Unknown property"))
		return
	}
	urls := prop.FeedURLs()
	if len(urls) == 0 {
		badRequest(w, "No iCal URLs configured for this property")
		return
	}

	from := time.Now().UTC()
	to := from.Add(defaultFeedWindow)
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := parseDate(v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := parseDate(v); err == nil {
			to = t
		}
	}

	feeds := make([]feedStatus, 0, len(urls))
	for _, url := range urls {
		events, err := h.Agg.FetchFeed(r.Context(), url)
		if err != nil {
			feeds = append(feeds, feedStatus{URL: url, Error: err.Error()})
			continue
		}
		feeds = append(feeds, sampleFeed(url, events, from, to))
	}

	respondJSON(w, map[string]any{
		"property_slug": slug,
		"window": map[string]string{
			"from": from.Format(time.RFC3339),
			"to":   to.Format(time.RFC3339),
		},
		"feeds": feeds,
	})
}

func sampleFeed(url string, events []ical.EventRange, from, to time.Time) feedStatus {
	inWindow := make([]ical.EventRange, 0, len(events))
	for _, ev := range events {
		if from.Before(ev.End) && ev.Start.Before(to) {
			inWindow = append(inWindow, ev)
		}
	}
	sort.Slice(inWindow, func(i, j int) bool { return inWindow[i].Start.Before(inWindow[j].Start) })
	if len(inWindow) > feedSampleLimit {
		inWindow = inWindow[:feedSampleLimit]
	}

	status := feedStatus{URL: url, OK: true, Count: len(inWindow)}
	for _, ev := range inWindow {
		status.Sample = append(status.Sample, feedSampleEvent{
			Start:   ev.Start.UTC().Format("2006-01-02"),
			End:     ev.End.UTC().Format("2006-01-02"),
			Summary: ev.Summary,
		})
	}
	return status
}
