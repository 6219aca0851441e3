package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{Buildings: []Building{
		{Name: "B1", DisplayOrder: 1, Rooms: []string{"R1", "R2"}},
		{Name: "B2", DisplayOrder: 2, Rooms: []string{"R1"}},
		{Name: "B3", DisplayOrder: 3, Rooms: []string{}},
	}}
}

func TestRateZeroDivisionSafety(t *testing.T) {
	assert.Equal(t, 0.0, rate(5, 0))
	assert.Equal(t, 0.0, rate(0, 0))
	assert.Equal(t, 10.0, rate(3, 30))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 66.7, round1(200.0/3.0))
	assert.Equal(t, 0.0, round1(0))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		rate float64
		want string
	}{
		{95, "excellent"}, {80, "excellent"},
		{79.9, "good"}, {60, "good"},
		{59.9, "fair"}, {40, "fair"},
		{39.9, "poor"}, {0, "poor"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, classify(c.rate), "rate %.1f", c.rate)
	}
}

func TestBuildingRankingTieBreakIsCanonicalOrder(t *testing.T) {
	cat := testCatalog()
	batch, _ := Normalize([]Reservation{
		nightly("r1", "B2", "R1", "2024-06-10", "2024-06-11", Night{Date: d("2024-06-10"), Amount: 5000}),
		nightly("r2", "B1", "R1", "2024-06-10", "2024-06-11", Night{Date: d("2024-06-10"), Amount: 5000}),
	})
	a := Allocate(batch, MonthWindow(2024, time.June))

	for i := 0; i < 10; i++ {
		ranked := buildingRanking(a, cat, "2024-06")
		require.Len(t, ranked, 3)
		assert.Equal(t, "B1", ranked[0].Name, "equal revenue keeps display order")
		assert.Equal(t, "B2", ranked[1].Name)
		assert.Equal(t, "B3", ranked[2].Name)
	}
}

func TestBuildingRankingSortsByRevenue(t *testing.T) {
	cat := testCatalog()
	batch, _ := Normalize([]Reservation{
		nightly("r1", "B2", "R1", "2024-06-10", "2024-06-11", Night{Date: d("2024-06-10"), Amount: 9000}),
		nightly("r2", "B1", "R1", "2024-06-10", "2024-06-11", Night{Date: d("2024-06-10"), Amount: 5000}),
	})
	a := Allocate(batch, MonthWindow(2024, time.June))
	ranked := buildingRanking(a, cat, "2024-06")
	assert.Equal(t, []RankedBuilding{
		{Name: "B2", Value: 9000},
		{Name: "B1", Value: 5000},
		{Name: "B3", Value: 0},
	}, ranked)
}

func TestRoomReportDetail(t *testing.T) {
	cat := testCatalog()
	batch, _ := Normalize([]Reservation{
		nightly("r1", "B1", "R1", "2024-06-10", "2024-06-13",
			Night{Date: d("2024-06-10"), Amount: 5000},
			Night{Date: d("2024-06-11"), Amount: 5000},
			Night{Date: d("2024-06-12"), Amount: 5000},
		),
	})
	a := Allocate(batch, MonthWindow(2024, time.June))
	report := roomReport(a, cat, "B1", d("2024-06-01"))

	require.Len(t, report.Rooms, 2)
	r1 := report.Rooms[0]
	assert.Equal(t, "R1", r1.Room)
	assert.Equal(t, 3, r1.OccupiedDays)
	assert.Equal(t, 27, r1.VacantDays)
	assert.Equal(t, 1, r1.ReservationCount)
	assert.Equal(t, 10.0, r1.OccupancyRate)
	assert.Equal(t, "poor", r1.Classification)

	r2 := report.Rooms[1]
	assert.Equal(t, 0, r2.OccupiedDays)
	assert.Equal(t, 30, r2.VacantDays)

	assert.True(t, report.LowSeason, "league-wide occupancy below 60%")
}

func TestRoomReportBuildingWithNoRooms(t *testing.T) {
	cat := testCatalog()
	a := Allocate(nil, MonthWindow(2024, time.June))
	report := roomReport(a, cat, "B3", d("2024-06-01"))
	assert.Empty(t, report.Rooms)

	// Zero rooms never yields NaN at the trend level either.
	point := monthStats(a, Catalog{}, d("2024-06-01"), "")
	assert.Equal(t, 0.0, point.OccupancyRate)
}

func TestTrendSeriesCoversTrailingTwelveMonths(t *testing.T) {
	cat := testCatalog()
	batch, _ := Normalize([]Reservation{
		nightly("r1", "B1", "R1", "2024-06-10", "2024-06-13",
			Night{Date: d("2024-06-10"), Amount: 5000},
			Night{Date: d("2024-06-11"), Amount: 5000},
			Night{Date: d("2024-06-12"), Amount: 5000},
		),
	})
	anchor := d("2024-06-01")
	w := Window{Start: anchor.AddDate(0, -11, 0), End: MonthWindow(2024, time.June).End}
	a := Allocate(batch, w)

	series := trendSeries(a, cat, anchor, "")
	require.Len(t, series, 12)
	assert.Equal(t, "2023-07", series[0].YearMonth)
	assert.Equal(t, "2024-06", series[11].YearMonth)

	last := series[11]
	assert.Equal(t, 15000.0, last.Revenue)
	// 3 occupied days / (3 rooms * 30 days)
	assert.Equal(t, 3.3, last.OccupancyRate)
	assert.True(t, last.LowSeason)

	for _, p := range series[:11] {
		assert.Zero(t, p.Revenue, "%s has no data, zero is a value", p.YearMonth)
	}
}

func TestTrendSeriesBuildingFilter(t *testing.T) {
	cat := testCatalog()
	batch, _ := Normalize([]Reservation{
		nightly("r1", "B1", "R1", "2024-06-01", "2024-06-16",
			func() []Night {
				var ns []Night
				for i := 1; i <= 15; i++ {
					ns = append(ns, Night{Date: time.Date(2024, 6, i, 0, 0, 0, 0, time.UTC), Amount: 4000})
				}
				return ns
			}()...,
		),
		nightly("r2", "B2", "R1", "2024-06-01", "2024-06-03",
			Night{Date: d("2024-06-01"), Amount: 8000},
			Night{Date: d("2024-06-02"), Amount: 8000},
		),
	})
	a := Allocate(batch, MonthWindow(2024, time.June))

	b1 := monthStats(a, cat, d("2024-06-01"), "B1")
	assert.Equal(t, 60000.0, b1.Revenue)
	// 15 / (2 rooms * 30 days) = 25%
	assert.Equal(t, 25.0, b1.OccupancyRate)

	b2 := monthStats(a, cat, d("2024-06-01"), "B2")
	assert.Equal(t, 16000.0, b2.Revenue)
	// 2 / (1 room * 30 days) = 6.7%
	assert.Equal(t, 6.7, b2.OccupancyRate)
}

func TestYearRevenueByMonthZeroFill(t *testing.T) {
	batch, _ := Normalize([]Reservation{
		nightly("r1", "B1", "R1", "2024-03-05", "2024-03-06", Night{Date: d("2024-03-05"), Amount: 12000}),
	})
	a := Allocate(batch, YearWindow(2024))
	rev := yearRevenueByMonth(a, 2024)
	assert.Equal(t, 12000.0, rev[2])
	for i, v := range rev {
		if i != 2 {
			assert.Zero(t, v, "month %d", i+1)
		}
	}
}

func TestGuestCountries(t *testing.T) {
	mk := func(id, country, arrival, departure string) Reservation {
		r := nightly(id, "B1", "R1", arrival, departure, Night{Date: d(arrival), Amount: 1000})
		r.GuestCountry = country
		return r
	}
	batch, _ := Normalize([]Reservation{
		mk("r1", "JP", "2024-06-01", "2024-06-02"),
		mk("r2", "JP", "2024-06-03", "2024-06-04"),
		mk("r3", "US", "2024-06-05", "2024-06-06"),
		mk("r4", "", "2024-06-07", "2024-06-08"),
		mk("r5", "FR", "2024-01-01", "2024-01-02"), // outside window
	})
	out := guestCountries(batch, MonthWindow(2024, time.June))
	assert.Equal(t, []CountryCount{
		{Country: "JP", Count: 2},
		{Country: "US", Count: 1},
		{Country: "unknown", Count: 1},
	}, out)
}
