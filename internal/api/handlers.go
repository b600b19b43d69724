package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/errors"
	"github.com/boutiquesoutherntipescapes-cmd/bste-widget-live/internal/service"
)

// StayHandler exposes the engine operations over HTTP.
type StayHandler struct {
	Service *service.StayService
}

func NewStayHandler(svc *service.StayService) *StayHandler {
	return &StayHandler{Service: svc}
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	httpErr := apperrors.FromError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Code)
	json.NewEncoder(w).Encode(map[string]string{"error": httpErr.Message})
}

func badRequest(w http.ResponseWriter, message string) {
	respondError(w, apperrors.NewHTTPError(http.StatusBadRequest, message))
}

// queryInt returns nil when the parameter is absent or malformed, so an
// explicit zero stays distinguishable from an omitted one.
func queryInt(q url.Values, key string) *int {
	if !q.Has(key) {
		return nil
	}
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return nil
	}
	return &v
}

// CheckAvailability handles GET /api/availability.
func (h *StayHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	req := StayRequest{
		PropertySlug: r.URL.Query().Get("property_slug"),
		CheckIn:      r.URL.Query().Get("check_in"),
		CheckOut:     r.URL.Query().Get("check_out"),
	}
	if req.PropertySlug == "" || req.CheckIn == "" || req.CheckOut == "" {
		badRequest(w, "Missing property_slug, check_in, check_out")
		return
	}
	checkIn, checkOut, err := req.dates()
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	resp, err := h.Service.CheckAvailability(r.Context(), req.PropertySlug, checkIn, checkOut)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, resp)
}

// Quote handles POST /api/quote.
func (h *StayHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req StayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request")
		return
	}
	if req.PropertySlug == "" || req.CheckIn == "" || req.CheckOut == "" {
		badRequest(w, "Missing property_slug, check_in, check_out")
		return
	}
	checkIn, checkOut, err := req.dates()
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	quote, err := h.Service.Quote(r.Context(), req.PropertySlug, checkIn, checkOut)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, quote)
}

// Search handles GET and POST /api/search.
func (h *StayHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req.CheckIn = q.Get("check_in")
		req.CheckOut = q.Get("check_out")
		req.Limit, _ = strconv.Atoi(q.Get("limit"))
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request")
		return
	}
	if req.CheckIn == "" || req.CheckOut == "" {
		badRequest(w, "Missing check_in/check_out")
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	resp, err := h.Service.SearchAll(r.Context(), checkIn, checkOut, req.Limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, resp)
}

// Suggest handles GET and POST /api/suggest.
func (h *StayHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req.PropertySlug = q.Get("property_slug")
		req.CheckIn = q.Get("check_in")
		req.CheckOut = q.Get("check_out")
		req.RadiusBackDays = queryInt(q, "radius_back_days")
		req.RadiusForwardDays = queryInt(q, "radius_forward_days")
		req.MaxDateSuggestions = queryInt(q, "max_date_suggestions")
		req.MaxOtherProperties = queryInt(q, "max_other_properties")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request")
		return
	}
	if req.PropertySlug == "" || req.CheckIn == "" || req.CheckOut == "" {
		badRequest(w, "Missing property_slug, check_in, check_out")
		return
	}
	checkIn, checkOut, err := req.dates()
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	resp, err := h.Service.Suggest(r.Context(), req.PropertySlug, checkIn, checkOut, service.SuggestOptions{
		RadiusBackDays:     req.RadiusBackDays,
		RadiusForwardDays:  req.RadiusForwardDays,
		MaxDateSuggestions: req.MaxDateSuggestions,
		MaxOtherProperties: req.MaxOtherProperties,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, resp)
}
