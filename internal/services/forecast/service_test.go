package forecast

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/wayfarer/planner/internal/config"
	"github.com/wayfarer/planner/internal/types"
)

// mockTransport is a mock HTTP transport for testing
type mockTransport struct {
	status  int
	body    string
	lastURL string
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.lastURL = req.URL.String()
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
		Header:     make(http.Header),
	}, nil
}

func newTestService(transport *mockTransport) *Service {
	svc := NewService(&config.Config{ForecastBaseURL: "https://forecast.test"})
	svc.httpClient = &http.Client{Transport: transport}
	return svc
}

func TestFetch(t *testing.T) {
	loc := types.Location{Name: "Bandung", Latitude: -6.92222, Longitude: 107.60694}

	t.Run("parses parallel daily arrays in order", func(t *testing.T) {
		transport := &mockTransport{
			status: http.StatusOK,
			body: `{"daily":{
				"time":["2025-11-04","2025-11-05","2025-11-06"],
				"temperature_2m_max":[29.1,28.4,30.0],
				"temperature_2m_min":[21.0,20.7,21.3],
				"precipitation_probability_max":[40,65,10],
				"weather_code":[3,61,0]}}`,
		}
		svc := newTestService(transport)

		series, err := svc.Fetch(context.Background(), loc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if series.Len() != 3 {
			t.Fatalf("expected 3 days, got %d", series.Len())
		}
		if series.Dates[0] != "2025-11-04" || series.Dates[2] != "2025-11-06" {
			t.Errorf("chronological order not preserved: %v", series.Dates)
		}
		if series.MaxTemps[1] != 28.4 || series.MinTemps[1] != 20.7 {
			t.Errorf("temperature arrays misaligned: %v / %v", series.MaxTemps, series.MinTemps)
		}
		if series.PrecipChances[1] != 65 || series.WeatherCodes[1] != 61 {
			t.Errorf("precipitation/code arrays misaligned: %v / %v", series.PrecipChances, series.WeatherCodes)
		}

		if !strings.Contains(transport.lastURL, "timezone=auto") {
			t.Errorf("expected auto timezone in request, got %s", transport.lastURL)
		}
		if !strings.Contains(transport.lastURL, "forecast_days=16") {
			t.Errorf("expected full 16-day horizon in request, got %s", transport.lastURL)
		}
	})

	t.Run("missing daily series is a malformed response", func(t *testing.T) {
		transport := &mockTransport{status: http.StatusOK, body: `{"latitude":-6.92,"longitude":107.61}`}
		svc := newTestService(transport)

		_, err := svc.Fetch(context.Background(), loc)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("invalid JSON is a malformed response", func(t *testing.T) {
		transport := &mockTransport{status: http.StatusOK, body: `not json`}
		svc := newTestService(transport)

		_, err := svc.Fetch(context.Background(), loc)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("upstream error status is not malformed", func(t *testing.T) {
		transport := &mockTransport{status: http.StatusBadGateway, body: ``}
		svc := newTestService(transport)

		_, err := svc.Fetch(context.Background(), loc)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("status errors should not be classified as malformed: %v", err)
		}
	})
}
