package types

// BudgetTier is one of three spending levels guiding recommendation style in
// the generated itinerary. It never affects weather or search logic.
type BudgetTier string

const (
	BudgetLow  BudgetTier = "budget"
	BudgetMid  BudgetTier = "mid-range"
	BudgetHigh BudgetTier = "luxury"
)

// ParseBudgetTier validates a user-supplied tier string. An empty string maps
// to the mid-range default.
func ParseBudgetTier(s string) (BudgetTier, bool) {
	switch BudgetTier(s) {
	case BudgetLow, BudgetMid, BudgetHigh:
		return BudgetTier(s), true
	case "":
		return BudgetMid, true
	}
	return "", false
}

// Location is a geocoded city: the service's canonical name plus coordinates.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RawDailySeries holds the forecast service's per-day parallel arrays,
// aligned by index in ascending date order.
type RawDailySeries struct {
	Dates         []string
	MaxTemps      []float64
	MinTemps      []float64
	PrecipChances []int
	WeatherCodes  []int
}

// Len reports the number of days in the series, bounded by the shortest of
// the parallel arrays so a ragged response can never cause an index panic.
func (s RawDailySeries) Len() int {
	n := len(s.Dates)
	for _, m := range []int{len(s.MaxTemps), len(s.MinTemps), len(s.PrecipChances), len(s.WeatherCodes)} {
		if m < n {
			n = m
		}
	}
	return n
}

// DailyForecastEntry is one calendar day of decoded forecast data.
type DailyForecastEntry struct {
	Date         string  `json:"date"`
	MaxTemp      float64 `json:"max_temp_c"`
	MinTemp      float64 `json:"min_temp_c"`
	PrecipChance int     `json:"precipitation_chance"`
	Condition    string  `json:"condition"`
	Location     string  `json:"location"`
}

// ForecastWindow is the windowed, decoded forecast handed to the prompt
// builder. Every entry's date lies within [StartDate, EndDate] inclusive.
// DayCount comes from the calendar span in explicit-range mode and from the
// entry count in day-count mode, so it stays correct even when
// ForecastAvailable is false and Entries is empty.
type ForecastWindow struct {
	Entries           []DailyForecastEntry
	Location          string
	StartDate         string
	EndDate           string
	DayCount          int
	Budget            BudgetTier
	ForecastAvailable bool
	ExplicitRange     bool
}

// PlanMode tags which of the two request shapes a PlanRequest carries.
type PlanMode int

const (
	// ModeDays plans a trip of N days starting from the forecast's first day.
	ModeDays PlanMode = iota
	// ModeRange plans a trip over an explicit inclusive date range.
	ModeRange
)

// PlanRequest is the resolved, validated form of an itinerary request. The
// mode tag is decided once at the HTTP boundary; downstream code never checks
// field presence.
type PlanRequest struct {
	Mode      PlanMode
	City      string
	StartDate string // ModeRange only, YYYY-MM-DD
	EndDate   string // ModeRange only, YYYY-MM-DD
	Days      int    // ModeDays only
	Budget    BudgetTier
}

// ItineraryResult is the completed plan returned to the caller.
type ItineraryResult struct {
	ID                string
	Itinerary         string
	Location          string
	StartDate         string
	EndDate           string
	Days              int
	Budget            BudgetTier
	ForecastAvailable bool
}

// SearchResult is one ranked web search hit exposed to the language model.
type SearchResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// OpenMeteoGeocodeResponse represents the geocoding API response.
type OpenMeteoGeocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// OpenMeteoDailyResponse represents the daily forecast API response. Daily is
// a pointer so an absent top-level series can be told apart from an empty one.
type OpenMeteoDailyResponse struct {
	Daily *struct {
		Time                        []string  `json:"time"`
		Temperature2mMax            []float64 `json:"temperature_2m_max"`
		Temperature2mMin            []float64 `json:"temperature_2m_min"`
		PrecipitationProbabilityMax []int     `json:"precipitation_probability_max"`
		WeatherCode                 []int     `json:"weather_code"`
	} `json:"daily"`
}

// ItineraryRequestBody is the wire form of an itinerary request. Exactly one
// of the two shapes is expected: city+start_date+end_date or city+days.
type ItineraryRequestBody struct {
	City      string `json:"city"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Days      int    `json:"days,omitempty"`
	Budget    string `json:"budget,omitempty"`
}

// ItineraryResponse is the wire form of a completed plan.
type ItineraryResponse struct {
	ID                string `json:"id"`
	Itinerary         string `json:"itinerary"`
	Location          string `json:"location"`
	StartDate         string `json:"start_date,omitempty"`
	EndDate           string `json:"end_date,omitempty"`
	Days              int    `json:"days"`
	Budget            string `json:"budget"`
	ForecastAvailable bool   `json:"forecast_available"`
	GeneratedAt       string `json:"generated_at"`
}
