package itinerary

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wayfarer/planner/internal/services/forecast"
	"github.com/wayfarer/planner/internal/types"
)

// ErrIncompleteWindow is returned when the prompt builder receives a window
// missing a required field. It indicates an upstream contract violation and
// is terminal.
var ErrIncompleteWindow = errors.New("incomplete forecast window")

// BuildPrompt renders the instruction block handed to the language model. It
// is pure and deterministic: identical windows produce byte-identical output.
func BuildPrompt(window types.ForecastWindow) (string, error) {
	if window.Location == "" {
		return "", fmt.Errorf("%w: missing location", ErrIncompleteWindow)
	}
	if window.DayCount < 1 {
		return "", fmt.Errorf("%w: day count must be at least 1", ErrIncompleteWindow)
	}
	if window.Budget == "" {
		return "", fmt.Errorf("%w: missing budget tier", ErrIncompleteWindow)
	}
	if window.ExplicitRange && (window.StartDate == "" || window.EndDate == "") {
		return "", fmt.Errorf("%w: explicit-range window missing dates", ErrIncompleteWindow)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Create a detailed %d-day travel itinerary for %s on a %s budget.\n",
		window.DayCount, window.Location, window.Budget)
	if window.ExplicitRange {
		fmt.Fprintf(&b, "The trip runs from %s to %s inclusive.\n", window.StartDate, window.EndDate)
	}
	b.WriteString("\n")

	if window.ForecastAvailable {
		b.WriteString("Daily weather forecast:\n")
		for _, e := range window.Entries {
			fmt.Fprintf(&b, "- %s: %s, high %.1f C, low %.1f C, %d%% chance of precipitation\n",
				e.Date, e.Condition, e.MaxTemp, e.MinTemp, e.PrecipChance)
		}
		b.WriteString("\nTailor each day's activities to its forecast.\n")
	} else {
		b.WriteString("No weather forecast is available for these dates. " +
			"Do not invent or reference weather conditions; suggest activities that work in any weather.\n")
	}

	if window.ExplicitRange {
		start, err := time.Parse(forecast.DateLayout, window.StartDate)
		if err != nil {
			return "", fmt.Errorf("%w: unparseable start date %q", ErrIncompleteWindow, window.StartDate)
		}
		monthYear := start.Format("January 2006")

		b.WriteString("\nBefore writing the itinerary, research the destination using web search:\n")
		fmt.Fprintf(&b, "1. Search for festivals in %s during %s.\n", window.Location, monthYear)
		fmt.Fprintf(&b, "2. Search for local events in %s between %s and %s.\n",
			window.Location, window.StartDate, window.EndDate)
		fmt.Fprintf(&b, "3. Search for the best time to visit %s.\n", window.Location)
	}

	b.WriteString("\nThe itinerary must contain, in order:\n")
	b.WriteString("- A short destination overview.\n")
	b.WriteString("- An assessment of the best time to visit.\n")
	if window.ExplicitRange {
		b.WriteString("- A section on special events and festivals during the trip dates.\n")
	}
	b.WriteString("- For each day, a header with the date")
	if window.ForecastAvailable {
		b.WriteString(", a one-line weather summary,")
	}
	b.WriteString(" and named sections for Breakfast, Morning Activities, Lunch, Afternoon Activities, Dinner, and optionally an Evening Activity.\n")
	if window.DayCount > 1 {
		b.WriteString("- A closing Accommodation section with budget, mid-range, and luxury options.\n")
	}

	return b.String(), nil
}
