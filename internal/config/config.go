package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// SeasonConfig is one season rule exactly as it appears in properties.json.
type SeasonConfig struct {
	SeasonName     string `json:"season_name"`
	Months         string `json:"months"`
	NightlyRateZAR int    `json:"nightly_rate_zar"`
	MinStayNights  int    `json:"min_stay_nights"`
	CleaningFeeZAR int    `json:"cleaning_fee_zar"`
}

// Property is an immutable property record. The ical map holds one calendar
// feed URL per label (e.g. "airbnb", "booking.com"); empty URLs are ignored.
type Property struct {
	Slug         string            `json:"property_slug"`
	DisplayName  string            `json:"display_name"`
	PageURL      string            `json:"property_page_url"`
	ThumbnailURL string            `json:"thumbnail_url"`
	Seasons      []SeasonConfig    `json:"seasons"`
	ICal         map[string]string `json:"ical"`
}

// FeedURLs returns the property's non-empty feed URLs in label order, so
// that fan-out and diagnostics are deterministic across requests.
func (p Property) FeedURLs() []string {
	labels := make([]string, 0, len(p.ICal))
	for label, url := range p.ICal {
		if url != "" {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	urls := make([]string, 0, len(labels))
	for _, label := range labels {
		urls = append(urls, p.ICal[label])
	}
	return urls
}

// Name returns the display name, falling back to the slug.
func (p Property) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Slug
}

type Config struct {
	Currency   string     `json:"currency"`
	Timezone   string     `json:"timezone"`
	Properties []Property `json:"properties"`
}

func (c *Config) FindProperty(slug string) (Property, bool) {
	for _, p := range c.Properties {
		if p.Slug == slug {
			return p, true
		}
	}
	return Property{}, false
}

// LoadFile reads a properties config file. Both file shapes are accepted:
// a bare array of properties, or an object with currency/timezone/properties.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read properties config: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Config, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	cfg := &Config{}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(raw, &cfg.Properties); err != nil {
			return nil, fmt.Errorf("parse properties config: %w", err)
		}
	} else if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse properties config: %w", err)
	}
	if cfg.Currency == "" {
		cfg.Currency = "ZAR"
	}
	return cfg, nil
}

// Provider hands the engine a fresh config snapshot per request cycle.
type Provider interface {
	Get() (*Config, error)
}

// FileProvider re-reads the config file on every request cycle, so edits to
// properties.json take effect without a restart.
type FileProvider struct {
	Path string
}

func (p *FileProvider) Get() (*Config, error) {
	return LoadFile(p.Path)
}
