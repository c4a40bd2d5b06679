package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wayfarer/planner/internal/llm"
	"github.com/wayfarer/planner/internal/response"
	"github.com/wayfarer/planner/internal/services/forecast"
	"github.com/wayfarer/planner/internal/services/geocode"
	"github.com/wayfarer/planner/internal/services/itinerary"
	"github.com/wayfarer/planner/internal/services/search"
	"github.com/wayfarer/planner/internal/types"
)

const defaultDays = 3

// Planner produces an itinerary for a resolved request.
type Planner interface {
	Plan(ctx context.Context, req types.PlanRequest) (types.ItineraryResult, error)
}

type ItineraryHandler struct {
	planner Planner
}

func NewItineraryHandler(planner Planner) *ItineraryHandler {
	return &ItineraryHandler{planner: planner}
}

// Health returns a simple health check response
func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// CreateItinerary accepts both request shapes (explicit date range or day
// count), resolves them into a tagged PlanRequest, and runs the pipeline.
func (h *ItineraryHandler) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var body types.ItineraryRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := resolveRequest(body)
	if err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()

	result, err := h.planner.Plan(r.Context(), req)
	if err != nil {
		writePlanError(w, err)
		return
	}

	// Add response time header for debugging
	w.Header().Set("X-Response-Time", time.Since(start).String())

	response.JSON(w, http.StatusOK, types.ItineraryResponse{
		ID:                result.ID,
		Itinerary:         result.Itinerary,
		Location:          result.Location,
		StartDate:         result.StartDate,
		EndDate:           result.EndDate,
		Days:              result.Days,
		Budget:            string(result.Budget),
		ForecastAvailable: result.ForecastAvailable,
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
	})
}

// resolveRequest validates the wire payload and decides its mode once, so the
// rest of the pipeline never checks field presence.
func resolveRequest(body types.ItineraryRequestBody) (types.PlanRequest, error) {
	if strings.TrimSpace(body.City) == "" {
		return types.PlanRequest{}, fmt.Errorf("city is required")
	}

	budget, ok := types.ParseBudgetTier(body.Budget)
	if !ok {
		return types.PlanRequest{}, fmt.Errorf("budget must be one of: budget, mid-range, luxury")
	}

	if body.StartDate != "" || body.EndDate != "" {
		if body.StartDate == "" || body.EndDate == "" {
			return types.PlanRequest{}, fmt.Errorf("start_date and end_date must be provided together")
		}
		start, err := time.Parse(forecast.DateLayout, body.StartDate)
		if err != nil {
			return types.PlanRequest{}, fmt.Errorf("start_date must be in YYYY-MM-DD format")
		}
		end, err := time.Parse(forecast.DateLayout, body.EndDate)
		if err != nil {
			return types.PlanRequest{}, fmt.Errorf("end_date must be in YYYY-MM-DD format")
		}
		if end.Before(start) {
			return types.PlanRequest{}, fmt.Errorf("end_date must not be before start_date")
		}

		return types.PlanRequest{
			Mode:      types.ModeRange,
			City:      body.City,
			StartDate: body.StartDate,
			EndDate:   body.EndDate,
			Budget:    budget,
		}, nil
	}

	days := body.Days
	if days == 0 {
		days = defaultDays
	}
	if days < 1 {
		return types.PlanRequest{}, fmt.Errorf("days must be at least 1")
	}

	return types.PlanRequest{
		Mode:   types.ModeDays,
		City:   body.City,
		Days:   days,
		Budget: budget,
	}, nil
}

func writePlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, geocode.ErrCityNotFound):
		response.ErrorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, search.ErrServiceFailure), errors.Is(err, llm.ErrGeneration):
		response.ErrorJSON(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, itinerary.ErrIncompleteWindow):
		response.ErrorJSON(w, http.StatusInternalServerError, err.Error())
	default:
		response.ErrorJSON(w, http.StatusInternalServerError, "failed to generate itinerary")
	}
}
