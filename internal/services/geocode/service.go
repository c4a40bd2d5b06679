package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wayfarer/planner/internal/config"
	"github.com/wayfarer/planner/internal/types"
)

// ErrCityNotFound is returned when the geocoding service has no candidate for
// the query. The pipeline treats it as terminal: no retry, no fallback city.
var ErrCityNotFound = errors.New("city not found")

type Service struct {
	httpClient *http.Client
	baseURL    string
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: cfg.GeocodeBaseURL,
	}
}

// Resolve looks up the single best match for a free-text city name.
func (s *Service) Resolve(ctx context.Context, city string) (types.Location, error) {
	if strings.TrimSpace(city) == "" {
		return types.Location{}, fmt.Errorf("city name is required")
	}

	reqURL := fmt.Sprintf(
		"%s/v1/search?name=%s&count=1&language=en&format=json",
		s.baseURL, url.QueryEscape(city),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Location{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return types.Location{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Location{}, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var data types.OpenMeteoGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return types.Location{}, fmt.Errorf("decoding geocoding response: %w", err)
	}

	if len(data.Results) == 0 {
		return types.Location{}, fmt.Errorf("%q: %w", city, ErrCityNotFound)
	}

	best := data.Results[0]
	return types.Location{
		Name:      best.Name,
		Latitude:  best.Latitude,
		Longitude: best.Longitude,
	}, nil
}
