package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/wayfarer/planner/internal/config"
	"github.com/wayfarer/planner/internal/types"
)

// ErrServiceFailure is returned for any search backend failure. There is no
// fallback: an in-progress generation that depends on a search is allowed to
// abort with this error.
var ErrServiceFailure = errors.New("search service failure")

// maxResults caps how many ranked hits a single query returns.
const maxResults = 5

type Service struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

func NewService(cfg *config.Config) *Service {
	rps := cfg.SearchRPS
	if rps <= 0 {
		rps = 1
	}

	return &Service{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: cfg.SearchBaseURL,
		apiKey:  cfg.SearchAPIKey,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// braveSearchResponse represents the web search API response.
type braveSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs one web search, optionally scoped by a free-text date range
// appended to the query, and returns up to five ranked results.
func (s *Service) Search(ctx context.Context, query, dateRange string) ([]types.SearchResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceFailure, err)
	}

	q := query
	if dateRange != "" {
		q = query + " " + dateRange
	}

	reqURL := fmt.Sprintf(
		"%s/res/v1/web/search?q=%s&count=%d",
		s.baseURL, url.QueryEscape(q), maxResults,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search API returned status %d", ErrServiceFailure, resp.StatusCode)
	}

	var data braveSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrServiceFailure, err)
	}

	results := make([]types.SearchResult, 0, maxResults)
	for _, r := range data.Web.Results {
		if len(results) == maxResults {
			break
		}
		results = append(results, types.SearchResult{
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
		})
	}

	return results, nil
}
