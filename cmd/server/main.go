package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/api"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/auth"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/cache"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/config"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/feed"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/ical"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	settings := config.LoadSettings()

	provider := &config.FileProvider{Path: settings.PropertiesPath}
	cfg, err := provider.Get()
	if err != nil {
		log.Fatalf("Failed to load properties config: %v", err)
	}
	log.Printf("Loaded %d properties (currency %s)", len(cfg.Properties), cfg.Currency)

	feedCache := cache.New(settings.FeedCacheTTL, nil)
	aggregator := feed.NewAggregator(feedCache, ical.NewClient(settings.FeedFetchTimeout), settings.FeedFetchTimeout)

	svc := service.NewStayService(provider, aggregator, service.Options{
		SearchDefaultLimit: settings.SearchDefaultLimit,
		RadiusBackDays:     settings.RadiusBackDays,
		RadiusForwardDays:  settings.RadiusForwardDays,
		MaxDateSuggestions: settings.MaxDateSuggestions,
		MaxOtherProperties: settings.MaxOtherProperties,
	})

	stayHandler := api.NewStayHandler(svc)
	adminHandler := api.NewAdminHandler(provider, aggregator)

	r := mux.NewRouter()
	r.Use(api.WithRequestID)

	// Public endpoints
	r.HandleFunc("/api/availability", stayHandler.CheckAvailability).Methods("GET")
	r.HandleFunc("/api/quote", stayHandler.Quote).Methods("POST")
	r.HandleFunc("/api/search", stayHandler.Search).Methods("GET", "POST")
	r.HandleFunc("/api/suggest", stayHandler.Suggest).Methods("GET", "POST")

	// Admin diagnostics (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(settings.AdminToken))
	admin.HandleFunc("/config", adminHandler.ConfigSummary).Methods("GET")
	admin.HandleFunc("/feeds/{slug}", adminHandler.FeedEvents).Methods("GET")

	// Feed cache maintenance
	jobs := service.NewJobService(provider, aggregator, feedCache)
	c := cron.New()
	c.AddFunc("@every 5m", jobs.SweepFeedCache)
	c.AddFunc("@every 4m", func() {
		jobs.PrewarmFeeds(context.Background(), settings.FeedFetchTimeout*4)
	})
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins(settings.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", api.RequestIDHeader}),
	)

	log.Printf("Server running on port %s", settings.Port)
	log.Fatal(http.ListenAndServe(":"+settings.Port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
