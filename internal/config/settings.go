package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds the environment-driven server configuration.
type Settings struct {
	Port           string
	PropertiesPath string
	AdminToken     string
	AllowedOrigins []string

	FeedCacheTTL     time.Duration
	FeedFetchTimeout time.Duration

	SearchDefaultLimit int
	RadiusBackDays     int
	RadiusForwardDays  int
	MaxDateSuggestions int
	MaxOtherProperties int
}

// LoadSettings reads settings from the environment, applying defaults for
// anything unset.
func LoadSettings() Settings {
	return Settings{
		Port:           getEnv("PORT", "8080"),
		PropertiesPath: getEnv("PROPERTIES_CONFIG_PATH", "config/properties.json"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),

		FeedCacheTTL:     getEnvDuration("FEED_CACHE_TTL", 5*time.Minute),
		FeedFetchTimeout: getEnvDuration("FEED_FETCH_TIMEOUT", 10*time.Second),

		SearchDefaultLimit: getEnvInt("SEARCH_DEFAULT_LIMIT", 999),
		RadiusBackDays:     getEnvInt("SUGGEST_RADIUS_BACK_DAYS", 3),
		RadiusForwardDays:  getEnvInt("SUGGEST_RADIUS_FORWARD_DAYS", 12),
		MaxDateSuggestions: getEnvInt("SUGGEST_MAX_DATES", 4),
		MaxOtherProperties: getEnvInt("SUGGEST_MAX_OTHER_PROPERTIES", 4),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
