package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/cache"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/config"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/entities"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/feed"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/ical"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/service"
)

type staticProvider struct {
	cfg *config.Config
}

func (p staticProvider) Get() (*config.Config, error) {
	return p.cfg, nil
}

type stubFetcher struct {
	events map[string][]ical.EventRange
	errs   map[string]error
}

func (f stubFetcher) Fetch(ctx context.Context, url string) ([]ical.EventRange, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	return f.events[url], nil
}

func testHandler(fetcher feed.Fetcher) *StayHandler {
	cfg := &config.Config{
		Currency: "ZAR",
		Properties: []config.Property{{
			Slug:        "villa-a",
			DisplayName: "Villa A",
			Seasons: []config.SeasonConfig{
				{SeasonName: "summer", Months: "Nov-Feb", NightlyRateZAR: 1000, MinStayNights: 3, CleaningFeeZAR: 500},
			},
			ICal: map[string]string{"airbnb": "http://feed/a.ics"},
		}},
	}
	agg := feed.NewAggregator(cache.New(5*time.Minute, nil), fetcher, time.Second)
	return NewStayHandler(service.NewStayService(staticProvider{cfg: cfg}, agg, service.DefaultOptions()))
}

func bookedFetcher() stubFetcher {
	return stubFetcher{events: map[string][]ical.EventRange{
		"http://feed/a.ics": {{Start: time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC)}},
	}}
}

func TestCheckAvailabilityHandler(t *testing.T) {
	h := testHandler(bookedFetcher())

	get := func(t *testing.T, target string) *httptest.ResponseRecorder {
		t.Helper()
		rec := httptest.NewRecorder()
		h.CheckAvailability(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	t.Run("conflicting stay", func(t *testing.T) {
		rec := get(t, "/api/availability?property_slug=villa-a&check_in=2025-12-25&check_out=2025-12-26")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var resp entities.AvailabilityResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Available {
			t.Fatal("expected unavailable")
		}
	})

	t.Run("boundary stay is available", func(t *testing.T) {
		rec := get(t, "/api/availability?property_slug=villa-a&check_in=2025-12-27&check_out=2025-12-29")
		var resp entities.AvailabilityResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Available {
			t.Fatal("expected available")
		}
	})

	t.Run("missing params", func(t *testing.T) {
		if rec := get(t, "/api/availability?property_slug=villa-a"); rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("unknown property", func(t *testing.T) {
		rec := get(t, "/api/availability?property_slug=nope&check_in=2025-12-25&check_out=2025-12-26")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		rec := get(t, "/api/availability?property_slug=villa-a&check_in=25-12-2025&check_out=2025-12-26")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("all feeds down is 503", func(t *testing.T) {
		down := testHandler(stubFetcher{errs: map[string]error{"http://feed/a.ics": errors.New("down")}})
		rec := httptest.NewRecorder()
		down.CheckAvailability(rec, httptest.NewRequest(http.MethodGet,
			"/api/availability?property_slug=villa-a&check_in=2025-12-25&check_out=2025-12-26", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})
}

func TestQuoteHandler(t *testing.T) {
	h := testHandler(bookedFetcher())

	post := func(t *testing.T, body string) *httptest.ResponseRecorder {
		t.Helper()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		h.Quote(rec, req)
		return rec
	}

	t.Run("happy path", func(t *testing.T) {
		rec := post(t, `{"property_slug":"villa-a","check_in":"2025-12-20","check_out":"2025-12-23"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var q entities.Quote
		if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if q.TotalZAR != 3500 || q.Nights != 3 || !q.MinStayOk {
			t.Fatalf("quote = %+v", q)
		}
	})

	t.Run("uncovered month is a server error", func(t *testing.T) {
		rec := post(t, `{"property_slug":"villa-a","check_in":"2025-06-01","check_out":"2025-06-04"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	})

	t.Run("inverted range is a client error", func(t *testing.T) {
		rec := post(t, `{"property_slug":"villa-a","check_in":"2025-12-23","check_out":"2025-12-20"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		if rec := post(t, `{`); rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestSearchHandler(t *testing.T) {
	h := testHandler(bookedFetcher())

	t.Run("GET and POST agree", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/search?check_in=2025-11-10&check_out=2025-11-13", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET status = %d, body %s", rec.Code, rec.Body)
		}
		var getResp entities.SearchResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &getResp); err != nil {
			t.Fatalf("decode: %v", err)
		}

		rec = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"check_in":"2025-11-10","check_out":"2025-11-13"}`))
		h.Search(rec, req)
		var postResp entities.SearchResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &postResp); err != nil {
			t.Fatalf("decode: %v", err)
		}

		if len(getResp.Results) != 1 || len(postResp.Results) != 1 {
			t.Fatalf("GET %+v, POST %+v", getResp.Results, postResp.Results)
		}
	})
}

func TestSuggestHandler(t *testing.T) {
	h := testHandler(bookedFetcher())

	rec := httptest.NewRecorder()
	h.Suggest(rec, httptest.NewRequest(http.MethodGet,
		"/api/suggest?property_slug=villa-a&check_in=2025-12-24&check_out=2025-12-27&max_date_suggestions=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp entities.SuggestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Dates) != 2 {
		t.Fatalf("dates = %+v, want 2 (limit override)", resp.Dates)
	}
	if len(resp.OtherProperties) != 0 {
		t.Fatalf("other properties = %+v, want none (single property config)", resp.OtherProperties)
	}

	// An explicit radius_back_days=0 is not the same as leaving it out: the
	// sweep must stay forward-only instead of defaulting.
	rec = httptest.NewRecorder()
	h.Suggest(rec, httptest.NewRequest(http.MethodGet,
		"/api/suggest?property_slug=villa-a&check_in=2025-12-24&check_out=2025-12-27&radius_back_days=0", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var fwdResp entities.SuggestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &fwdResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fwdResp.Dates) == 0 {
		t.Fatal("got no date suggestions")
	}
	for _, s := range fwdResp.Dates {
		if s.CheckIn < "2025-12-24" {
			t.Fatalf("backdated suggestion %+v despite radius_back_days=0", s)
		}
	}
}
