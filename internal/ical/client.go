package ical

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
)

// EventRange is one scheduled occupancy pulled from a calendar feed,
// half-open over [Start, End).
type EventRange struct {
	Start   time.Time
	End     time.Time
	Summary string
}

// Client fetches and parses remote iCalendar feeds. The HTTP client carries
// the per-fetch timeout; callers additionally bound each fetch with a
// context deadline.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Fetch downloads one feed and returns its occupancy events. Only VEVENT
// components count as occupancy; everything else in the calendar is ignored.
func (c *Client) Fetch(ctx context.Context, url string) ([]EventRange, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: unexpected status %d", resp.StatusCode)
	}

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var events []EventRange
	for _, ev := range cal.Events() {
		start, ok := eventTime(ev.GetStartAt, ev.GetAllDayStartAt)
		if !ok {
			continue
		}
		end, ok := eventTime(ev.GetEndAt, ev.GetAllDayEndAt)
		if !ok {
			continue
		}
		events = append(events, EventRange{Start: start, End: end, Summary: summary(ev)})
	}
	return events, nil
}

// eventTime reads a timed value, falling back to the all-day form used by
// the booking platforms' feeds.
func eventTime(timed, allDay func() (time.Time, error)) (time.Time, bool) {
	if t, err := timed(); err == nil && !t.IsZero() {
		return t, true
	}
	if t, err := allDay(); err == nil && !t.IsZero() {
		return t, true
	}
	return time.Time{}, false
}

func summary(ev *ics.VEvent) string {
	if p := ev.GetProperty(ics.ComponentPropertySummary); p != nil {
		return p.Value
	}
	return ""
}
