package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wayfarer/planner/internal/config"
	"github.com/wayfarer/planner/internal/types"
)

// ErrMalformedResponse is returned when the forecast service's response is
// missing the expected daily series. Callers recover from it by planning
// without weather data rather than aborting.
var ErrMalformedResponse = errors.New("malformed forecast response")

// horizonDays is the maximum number of future days the forecast service
// supports in one request.
const horizonDays = 16

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
		baseURL: cfg.ForecastBaseURL,
	}
}

// Fetch requests the full forecast horizon of daily max/min temperature,
// precipitation probability and weather code for a location, in the
// location's local timezone.
func (s *Service) Fetch(ctx context.Context, loc types.Location) (types.RawDailySeries, error) {
	reqURL := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&daily=temperature_2m_max,temperature_2m_min,precipitation_probability_max,weather_code&forecast_days=%d&timezone=auto",
		s.baseURL, loc.Latitude, loc.Longitude, horizonDays,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.RawDailySeries{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return types.RawDailySeries{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.RawDailySeries{}, fmt.Errorf("forecast API returned status %d", resp.StatusCode)
	}

	var data types.OpenMeteoDailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return types.RawDailySeries{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if data.Daily == nil {
		return types.RawDailySeries{}, fmt.Errorf("%w: missing daily series", ErrMalformedResponse)
	}

	return types.RawDailySeries{
		Dates:         data.Daily.Time,
		MaxTemps:      data.Daily.Temperature2mMax,
		MinTemps:      data.Daily.Temperature2mMin,
		PrecipChances: data.Daily.PrecipitationProbabilityMax,
		WeatherCodes:  data.Daily.WeatherCode,
	}, nil
}
