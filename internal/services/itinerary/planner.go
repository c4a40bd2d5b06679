package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer/planner/internal/services/forecast"
	"github.com/wayfarer/planner/internal/types"
)

// Geocoder resolves a free-text city name to a canonical location.
type Geocoder interface {
	Resolve(ctx context.Context, city string) (types.Location, error)
}

// Forecaster fetches the daily forecast series for a location.
type Forecaster interface {
	Fetch(ctx context.Context, loc types.Location) (types.RawDailySeries, error)
}

// TextStream is a lazy, finite, non-restartable sequence of generated text
// fragments.
type TextStream interface {
	Fragments() <-chan string
	Err() error
	Close()
}

// Generator produces itinerary text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (TextStream, error)
}

// Planner runs the itinerary pipeline: geocode, forecast, window, prompt,
// generate. Execution is strictly sequential; no two upstream calls overlap.
type Planner struct {
	geocoder   Geocoder
	forecaster Forecaster
	generator  Generator
}

func NewPlanner(geocoder Geocoder, forecaster Forecaster, generator Generator) *Planner {
	return &Planner{
		geocoder:   geocoder,
		forecaster: forecaster,
		generator:  generator,
	}
}

// Plan produces a complete itinerary for the request. Geocoding and
// generation failures abort the pipeline; a malformed forecast response is
// absorbed into a degraded window so the itinerary can still be produced
// without weather-dependent phrasing.
func (p *Planner) Plan(ctx context.Context, req types.PlanRequest) (types.ItineraryResult, error) {
	loc, err := p.geocoder.Resolve(ctx, req.City)
	if err != nil {
		return types.ItineraryResult{}, err
	}

	series, err := p.forecaster.Fetch(ctx, loc)
	if err != nil {
		if !errors.Is(err, forecast.ErrMalformedResponse) {
			return types.ItineraryResult{}, err
		}
		slog.Warn("forecast unavailable, planning without weather data",
			"location", loc.Name, "error", err)
		series = types.RawDailySeries{}
	}

	window, err := p.selectWindow(series, loc.Name, req)
	if err != nil {
		return types.ItineraryResult{}, err
	}

	prompt, err := BuildPrompt(window)
	if err != nil {
		return types.ItineraryResult{}, err
	}

	stream, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return types.ItineraryResult{}, err
	}
	defer stream.Close()

	var text strings.Builder
	for fragment := range stream.Fragments() {
		text.WriteString(fragment)
	}
	if err := stream.Err(); err != nil {
		return types.ItineraryResult{}, err
	}

	return types.ItineraryResult{
		ID:                uuid.NewString(),
		Itinerary:         text.String(),
		Location:          loc.Name,
		StartDate:         window.StartDate,
		EndDate:           window.EndDate,
		Days:              window.DayCount,
		Budget:            window.Budget,
		ForecastAvailable: window.ForecastAvailable,
	}, nil
}

func (p *Planner) selectWindow(series types.RawDailySeries, location string, req types.PlanRequest) (types.ForecastWindow, error) {
	switch req.Mode {
	case types.ModeRange:
		start, err := time.Parse(forecast.DateLayout, req.StartDate)
		if err != nil {
			return types.ForecastWindow{}, fmt.Errorf("invalid start date %q: %w", req.StartDate, err)
		}
		end, err := time.Parse(forecast.DateLayout, req.EndDate)
		if err != nil {
			return types.ForecastWindow{}, fmt.Errorf("invalid end date %q: %w", req.EndDate, err)
		}
		if end.Before(start) {
			return types.ForecastWindow{}, fmt.Errorf("end date %s is before start date %s", req.EndDate, req.StartDate)
		}
		return forecast.SelectRange(series, start, end, location, req.Budget), nil
	default:
		return forecast.SelectDays(series, req.Days, location, req.Budget), nil
	}
}
