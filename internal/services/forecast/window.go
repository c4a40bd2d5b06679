package forecast

import (
	"time"

	"github.com/wayfarer/planner/internal/types"
)

// DateLayout is the calendar date format used across the pipeline.
const DateLayout = "2006-01-02"

// SelectRange filters the series to days within [start, end], inclusive on
// both ends. DayCount always comes from the calendar span, never from the
// entry count, so downstream day-dependent logic stays correct when the
// requested dates fall outside the forecast horizon. In that case the window
// comes back with no entries and ForecastAvailable false instead of an error.
func SelectRange(series types.RawDailySeries, start, end time.Time, location string, budget types.BudgetTier) types.ForecastWindow {
	dayCount := int(end.Sub(start).Hours()/24) + 1

	var entries []types.DailyForecastEntry
	for i := 0; i < series.Len(); i++ {
		day, err := time.Parse(DateLayout, series.Dates[i])
		if err != nil {
			continue
		}
		if day.Before(start) || day.After(end) {
			continue
		}
		entries = append(entries, entryAt(series, i, location))
	}

	return types.ForecastWindow{
		Entries:           entries,
		Location:          location,
		StartDate:         start.Format(DateLayout),
		EndDate:           end.Format(DateLayout),
		DayCount:          dayCount,
		Budget:            budget,
		ForecastAvailable: len(entries) > 0,
		ExplicitRange:     true,
	}
}

// SelectDays takes a prefix of the series of length min(days, available).
// The forecast service always returns at least one day once geocoding
// succeeded, so there is no degraded path here in practice.
func SelectDays(series types.RawDailySeries, days int, location string, budget types.BudgetTier) types.ForecastWindow {
	if days < 1 {
		days = 1
	}

	n := days
	if avail := series.Len(); avail < n {
		n = avail
	}

	entries := make([]types.DailyForecastEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, entryAt(series, i, location))
	}

	window := types.ForecastWindow{
		Entries:           entries,
		Location:          location,
		DayCount:          len(entries),
		Budget:            budget,
		ForecastAvailable: len(entries) > 0,
	}

	if len(entries) > 0 {
		window.StartDate = entries[0].Date
		window.EndDate = entries[len(entries)-1].Date
	} else {
		window.DayCount = days
	}

	return window
}

func entryAt(series types.RawDailySeries, i int, location string) types.DailyForecastEntry {
	return types.DailyForecastEntry{
		Date:         series.Dates[i],
		MaxTemp:      series.MaxTemps[i],
		MinTemp:      series.MinTemps[i],
		PrecipChance: series.PrecipChances[i],
		Condition:    DecodeCondition(series.WeatherCodes[i]),
		Location:     location,
	}
}
