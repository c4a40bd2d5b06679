package forecast

import (
	"testing"
	"time"

	"github.com/wayfarer/planner/internal/types"
)

func testSeries(dates ...string) types.RawDailySeries {
	series := types.RawDailySeries{Dates: dates}
	for i := range dates {
		series.MaxTemps = append(series.MaxTemps, 28.0+float64(i))
		series.MinTemps = append(series.MinTemps, 20.0+float64(i))
		series.PrecipChances = append(series.PrecipChances, 10*i)
		series.WeatherCodes = append(series.WeatherCodes, 3)
	}
	return series
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestSelectRange(t *testing.T) {
	series := testSeries("2025-11-03", "2025-11-04", "2025-11-05", "2025-11-06", "2025-11-07")

	t.Run("boundary dates are inclusive on both ends", func(t *testing.T) {
		window := SelectRange(series, mustDate(t, "2025-11-04"), mustDate(t, "2025-11-06"), "Alor Setar", types.BudgetMid)

		if window.DayCount != 3 {
			t.Errorf("expected day count 3, got %d", window.DayCount)
		}
		if len(window.Entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(window.Entries))
		}
		if window.Entries[0].Date != "2025-11-04" || window.Entries[2].Date != "2025-11-06" {
			t.Errorf("boundary dates missing: %v", window.Entries)
		}
		if !window.ForecastAvailable {
			t.Error("expected forecast to be available")
		}
		if !window.ExplicitRange {
			t.Error("expected explicit-range window")
		}
	})

	t.Run("no entry outside the range is ever included", func(t *testing.T) {
		window := SelectRange(series, mustDate(t, "2025-11-05"), mustDate(t, "2025-11-05"), "Alor Setar", types.BudgetMid)

		if len(window.Entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(window.Entries))
		}
		if window.Entries[0].Date != "2025-11-05" {
			t.Errorf("expected 2025-11-05, got %s", window.Entries[0].Date)
		}
		if window.DayCount != 1 {
			t.Errorf("expected day count 1, got %d", window.DayCount)
		}
	})

	t.Run("last available day equal to requested end is included", func(t *testing.T) {
		window := SelectRange(series, mustDate(t, "2025-11-07"), mustDate(t, "2025-11-07"), "Alor Setar", types.BudgetMid)

		if len(window.Entries) != 1 {
			t.Fatalf("expected the horizon's last day to be included, got %d entries", len(window.Entries))
		}
	})

	t.Run("range beyond horizon degrades without failing", func(t *testing.T) {
		window := SelectRange(series, mustDate(t, "2026-01-10"), mustDate(t, "2026-01-11"), "Alor Setar", types.BudgetMid)

		if window.ForecastAvailable {
			t.Error("expected degraded window")
		}
		if len(window.Entries) != 0 {
			t.Errorf("expected no entries, got %d", len(window.Entries))
		}
		// Day count comes from the calendar span, never the entry count.
		if window.DayCount != 2 {
			t.Errorf("expected day count 2, got %d", window.DayCount)
		}
		if window.StartDate != "2026-01-10" || window.EndDate != "2026-01-11" {
			t.Errorf("window dates not preserved: %s to %s", window.StartDate, window.EndDate)
		}
	})

	t.Run("empty series degrades with calendar span day count", func(t *testing.T) {
		window := SelectRange(types.RawDailySeries{}, mustDate(t, "2025-11-04"), mustDate(t, "2025-11-08"), "Alor Setar", types.BudgetLow)

		if window.ForecastAvailable || len(window.Entries) != 0 {
			t.Errorf("expected degraded empty window, got %+v", window)
		}
		if window.DayCount != 5 {
			t.Errorf("expected day count 5, got %d", window.DayCount)
		}
	})

	t.Run("entries stay in chronological order and carry decoded conditions", func(t *testing.T) {
		window := SelectRange(series, mustDate(t, "2025-11-03"), mustDate(t, "2025-11-07"), "Alor Setar", types.BudgetMid)

		for i := 1; i < len(window.Entries); i++ {
			if window.Entries[i-1].Date >= window.Entries[i].Date {
				t.Errorf("entries out of order at %d: %v", i, window.Entries)
			}
		}
		for _, e := range window.Entries {
			if e.Condition != "Overcast" {
				t.Errorf("expected decoded condition Overcast, got %q", e.Condition)
			}
			if e.Location != "Alor Setar" {
				t.Errorf("expected location stamped on entry, got %q", e.Location)
			}
		}
	})
}

func TestSelectDays(t *testing.T) {
	series := testSeries("2025-11-03", "2025-11-04", "2025-11-05", "2025-11-06")

	tests := []struct {
		name        string
		days        int
		wantEntries int
		wantStart   string
		wantEnd     string
	}{
		{name: "prefix of requested length", days: 3, wantEntries: 3, wantStart: "2025-11-03", wantEnd: "2025-11-05"},
		{name: "request beyond availability is truncated", days: 10, wantEntries: 4, wantStart: "2025-11-03", wantEnd: "2025-11-06"},
		{name: "single day", days: 1, wantEntries: 1, wantStart: "2025-11-03", wantEnd: "2025-11-03"},
		{name: "zero days is clamped to one", days: 0, wantEntries: 1, wantStart: "2025-11-03", wantEnd: "2025-11-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := SelectDays(series, tt.days, "Bandung", types.BudgetLow)

			if len(window.Entries) != tt.wantEntries {
				t.Fatalf("expected %d entries, got %d", tt.wantEntries, len(window.Entries))
			}
			if window.DayCount != tt.wantEntries {
				t.Errorf("expected day count %d, got %d", tt.wantEntries, window.DayCount)
			}
			if window.StartDate != tt.wantStart || window.EndDate != tt.wantEnd {
				t.Errorf("expected %s to %s, got %s to %s", tt.wantStart, tt.wantEnd, window.StartDate, window.EndDate)
			}
			if !window.ForecastAvailable {
				t.Error("expected forecast to be available")
			}
			if window.ExplicitRange {
				t.Error("day-count windows must not be marked explicit-range")
			}
		})
	}
}

func TestRawDailySeriesLenBoundsRaggedArrays(t *testing.T) {
	series := types.RawDailySeries{
		Dates:         []string{"2025-11-03", "2025-11-04", "2025-11-05"},
		MaxTemps:      []float64{29, 30},
		MinTemps:      []float64{20, 21},
		PrecipChances: []int{10, 20},
		WeatherCodes:  []int{0, 1},
	}

	if series.Len() != 2 {
		t.Fatalf("expected ragged series length 2, got %d", series.Len())
	}

	window := SelectDays(series, 5, "Bandung", types.BudgetMid)
	if len(window.Entries) != 2 {
		t.Errorf("expected selection bounded by shortest array, got %d entries", len(window.Entries))
	}
}
