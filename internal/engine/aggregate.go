package engine

import (
	"math"
	"sort"
	"time"
)

// Occupancy classification and season thresholds, in percent.
const (
	thresholdExcellent = 80.0
	thresholdGood      = 60.0
	thresholdFair      = 40.0
	lowSeasonThreshold = 60.0
)

// TrendPoint is one month of the trailing occupancy/revenue series.
type TrendPoint struct {
	YearMonth     string  `json:"year_month"`
	OccupancyRate float64 `json:"occupancy_rate"` // percent, one decimal
	OccupiedDays  int     `json:"occupied_days"`
	Revenue       float64 `json:"revenue"`
	LowSeason     bool    `json:"low_season"`
}

// RankedBuilding is one row of the building revenue ranking.
type RankedBuilding struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// RoomDetail is the per-room breakdown for one month.
type RoomDetail struct {
	Room             string  `json:"room"`
	OccupiedDays     int     `json:"occupied_days"`
	VacantDays       int     `json:"vacant_days"`
	ReservationCount int     `json:"reservation_count"`
	OccupancyRate    float64 `json:"occupancy_rate"`
	Classification   string  `json:"classification"`
}

// RoomReport is the room detail view for one building and month.
type RoomReport struct {
	Building  string       `json:"building"`
	YearMonth string       `json:"year_month"`
	LowSeason bool         `json:"low_season"`
	Rooms     []RoomDetail `json:"rooms"`
}

// YoYPoint joins the same calendar month across two years. Zero revenue is
// a value, not missing data; no interpolation happens.
type YoYPoint struct {
	Month    int     `json:"month"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// TodaySnapshot is the dashboard's one-day view.
type TodaySnapshot struct {
	Date          string  `json:"date"`
	Arrivals      int     `json:"arrivals"`
	Departures    int     `json:"departures"`
	OccupiedRooms int     `json:"occupied_rooms"`
	OccupancyRate float64 `json:"occupancy_rate"`
	NewBookings   int     `json:"new_bookings"`
	Revenue       float64 `json:"revenue"`
}

// CountryCount is one slice of the guest-country chart.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// round1 rounds to one decimal place. Rounding happens here, at the
// presentation edge, never during allocation.
func round1(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Round(x*10) / 10
}

// rate returns occupied/capacity as a percentage, one decimal, guarding the
// zero denominator to 0 rather than NaN.
func rate(occupied, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return round1(float64(occupied) / float64(capacity) * 100)
}

func classify(occupancyRate float64) string {
	switch {
	case occupancyRate >= thresholdExcellent:
		return "excellent"
	case occupancyRate >= thresholdGood:
		return "good"
	case occupancyRate >= thresholdFair:
		return "fair"
	default:
		return "poor"
	}
}

// monthStats reduces one month of an allocation to the trend shape.
// building filters the series; empty means league-wide.
func monthStats(a *Allocation, cat Catalog, anchor time.Time, building string) TrendPoint {
	ym := monthKey(anchor)
	occupied := 0
	for key := range a.Occupied {
		if building != "" && key.Building != building {
			continue
		}
		occupied += a.OccupiedDaysInMonth(key, ym)
	}
	rooms := cat.TotalRooms()
	if building != "" {
		rooms = cat.RoomCount(building)
	}
	capacity := rooms * daysInMonth(anchor.Year(), anchor.Month())
	r := rate(occupied, capacity)
	return TrendPoint{
		YearMonth:     ym,
		OccupancyRate: r,
		OccupiedDays:  occupied,
		Revenue:       a.RevenueInMonth(ym, building),
		LowSeason:     r < lowSeasonThreshold,
	}
}

// trendSeries computes the trailing-12-month series ending at anchor from a
// single allocation spanning the whole range.
func trendSeries(a *Allocation, cat Catalog, anchor time.Time, building string) []TrendPoint {
	points := make([]TrendPoint, 0, 12)
	for i := 11; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		points = append(points, monthStats(a, cat, m, building))
	}
	return points
}

// buildingRanking sums one month's revenue per building and sorts
// descending. Ties keep the catalog's canonical display order, so repeated
// runs are deterministic.
func buildingRanking(a *Allocation, cat Catalog, ym string) []RankedBuilding {
	ranked := make([]RankedBuilding, 0, len(cat.Buildings))
	for _, b := range cat.Buildings {
		ranked = append(ranked, RankedBuilding{Name: b.Name, Value: a.RevenueInMonth(ym, b.Name)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return cat.OrderOf(ranked[i].Name) < cat.OrderOf(ranked[j].Name)
	})
	return ranked
}

// roomReport builds the per-room detail for one building and month. The
// low-season flag is league-wide occupancy, not the building's own.
func roomReport(a *Allocation, cat Catalog, building string, anchor time.Time) *RoomReport {
	ym := monthKey(anchor)
	days := daysInMonth(anchor.Year(), anchor.Month())
	league := monthStats(a, cat, anchor, "")

	rooms := cat.RoomsOf(building)
	details := make([]RoomDetail, 0, len(rooms))
	for _, room := range rooms {
		key := RoomKey{Building: building, Room: room}
		occupied := a.OccupiedDaysInMonth(key, ym)
		r := rate(occupied, days)
		details = append(details, RoomDetail{
			Room:             room,
			OccupiedDays:     occupied,
			VacantDays:       days - occupied,
			ReservationCount: a.Reservations[key],
			OccupancyRate:    r,
			Classification:   classify(r),
		})
	}
	return &RoomReport{
		Building:  building,
		YearMonth: ym,
		LowSeason: league.OccupancyRate < lowSeasonThreshold,
		Rooms:     details,
	}
}

// yearRevenueByMonth reduces a full-year allocation to twelve revenue sums.
func yearRevenueByMonth(a *Allocation, year int) [12]float64 {
	var out [12]float64
	for m := time.Month(1); m <= 12; m++ {
		out[m-1] = a.RevenueInMonth(monthKey(time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)), "")
	}
	return out
}

// guestCountries counts confirmed reservations intersecting the window per
// guest country. Blank countries bucket under "unknown". Sorted by count
// descending, ties alphabetical.
func guestCountries(batch []Normalized, w Window) []CountryCount {
	counts := map[string]int{}
	for _, r := range batch {
		if _, _, ok := effectiveRange(r.Reservation, w); !ok {
			continue
		}
		country := r.GuestCountry
		if country == "" {
			country = "unknown"
		}
		counts[country]++
	}
	out := make([]CountryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CountryCount{Country: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Country < out[j].Country
	})
	return out
}
