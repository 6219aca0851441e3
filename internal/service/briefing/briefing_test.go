package briefing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ryokan-ops/stayboard/internal/engine"
)

func TestBuildPromptEmbedsAggregates(t *testing.T) {
	date := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)
	stats := Stats{
		Today: &engine.TodaySnapshot{
			Date: "2026-08-31", Arrivals: 3, Departures: 2,
			OccupiedRooms: 6, OccupancyRate: 75.0, NewBookings: 4, Revenue: 82000,
		},
		Trend: []engine.TrendPoint{
			{YearMonth: "2026-07", OccupancyRate: 81.2, Revenue: 1700000},
			{YearMonth: "2026-08", OccupancyRate: 55.0, Revenue: 1450000, LowSeason: true},
		},
		Ranking: []engine.RankedBuilding{
			{Name: "Sakura House", Value: 920000},
			{Name: "Momiji Annex", Value: 530000},
		},
	}

	p := BuildPrompt(date, stats, Signals{ExchangeRate: "USD/JPY 151.2", Weather: "clear, 31C"})

	assert.Contains(t, p, "2026-08-31")
	assert.Contains(t, p, "3 arrivals, 2 departures")
	assert.Contains(t, p, "75.0% occupancy")
	assert.Contains(t, p, "Current month (2026-08)")
	assert.Contains(t, p, "(low season)")
	assert.Contains(t, p, "1. Sakura House: 920000 JPY")
	assert.Contains(t, p, "2. Momiji Annex: 530000 JPY")
	assert.Contains(t, p, "Exchange rate: USD/JPY 151.2")
	assert.Contains(t, p, "Weather: clear, 31C")
	assert.NotContains(t, p, "Local events")
	assert.NotContains(t, p, "News:")
}

func TestBuildPromptOmitsMissingSections(t *testing.T) {
	p := BuildPrompt(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Stats{}, Signals{})

	assert.NotContains(t, p, "Today:")
	assert.NotContains(t, p, "Current month")
	assert.NotContains(t, p, "ranking")
	assert.NotContains(t, p, "External context")
	// the instruction block is always present
	assert.True(t, strings.Contains(p, "Write a concise briefing"))
}
