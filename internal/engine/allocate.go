package engine

import (
	"strings"
	"time"
)

// DayAllocation is one reservation's revenue contribution to one calendar
// day for one room. Ephemeral; recomputed per query.
type DayAllocation struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Building string `json:"building"`
	Room     string `json:"room"`
	Amount   float64
}

// MonthAllocation is the coarse legacy attribution: the whole stay's price
// in a single month bucket, no daily breakdown.
type MonthAllocation struct {
	YearMonth string `json:"year_month"` // YYYY-MM
	Building  string `json:"building"`
	Room      string `json:"room"`
	Amount    float64
}

// Allocation is the output of the temporal-allocation stage for one window:
// revenue split per day (or per legacy month) plus deduped occupancy sets.
type Allocation struct {
	Window Window
	Days   []DayAllocation
	Months []MonthAllocation

	// Occupied holds the set of occupied dates per room. A set, not a
	// count: overlapping reservations on the same room and date count one
	// occupied day. Revenue, in contrast, sums, so a double booking shows
	// up as an anomaly instead of being hidden.
	Occupied map[RoomKey]map[string]struct{}

	// Reservations counts reservations intersecting the window per room.
	Reservations map[RoomKey]int

	// Warnings collects anomalies found during allocation (double
	// bookings).
	Warnings []Warning
}

// Allocate distributes each reservation's value and occupancy across the
// calendar days of the window. The departure day never contributes.
func Allocate(batch []Normalized, w Window) *Allocation {
	a := &Allocation{
		Window:       w,
		Occupied:     make(map[RoomKey]map[string]struct{}),
		Reservations: make(map[RoomKey]int),
	}

	for _, r := range batch {
		start, end, ok := effectiveRange(r.Reservation, w)
		monthHit := r.Kind == PricingLegacyMonth && w.ContainsMonth(r.StayMonth)
		if !ok && !monthHit {
			continue
		}

		key := RoomKey{Building: r.Building, Room: r.Room}
		a.Reservations[key]++

		switch r.Kind {
		case PricingNightly:
			for _, n := range r.Nights {
				d := day(n.Date)
				if d.Before(start) || d.After(end) {
					continue
				}
				a.Days = append(a.Days, DayAllocation{
					Date:     dayKey(d),
					Building: r.Building,
					Room:     r.Room,
					Amount:   n.Amount,
				})
			}
		case PricingLegacyMonth:
			if monthHit {
				a.Months = append(a.Months, MonthAllocation{
					YearMonth: r.StayMonth,
					Building:  r.Building,
					Room:      r.Room,
					Amount:    r.TotalPrice,
				})
			}
		}

		// Occupancy counts from the stay dates regardless of pricing
		// shape; legacy records lose revenue precision, not occupancy.
		if ok {
			a.markOccupied(key, r.ID, start, end)
		}
	}

	return a
}

// effectiveRange clips [arrival, departure) to the window. ok is false when
// the reservation does not overlap the window at all, including degenerate
// records where the exclusive departure leaves no billed night.
func effectiveRange(r Reservation, w Window) (start, end time.Time, ok bool) {
	if r.Arrival.IsZero() || r.Departure.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	start = day(r.Arrival)
	if ws := day(w.Start); ws.After(start) {
		start = ws
	}
	end = day(r.Departure).AddDate(0, 0, -1) // departure day is not a billed night
	if we := day(w.End); we.Before(end) {
		end = we
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (a *Allocation) markOccupied(key RoomKey, reservationID string, start, end time.Time) {
	set := a.Occupied[key]
	if set == nil {
		set = make(map[string]struct{})
		a.Occupied[key] = set
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		k := dayKey(d)
		if _, dup := set[k]; dup {
			a.Warnings = append(a.Warnings, Warning{
				ReservationID: reservationID,
				Reason:        "overlapping reservation for " + key.Building + "/" + key.Room + " on " + k,
			})
		}
		set[k] = struct{}{}
	}
}

// OccupiedDaysInMonth counts the room's occupied dates inside one month.
func (a *Allocation) OccupiedDaysInMonth(key RoomKey, yearMonth string) int {
	n := 0
	for d := range a.Occupied[key] {
		if strings.HasPrefix(d, yearMonth) {
			n++
		}
	}
	return n
}

// OccupiedDaysOn counts rooms occupied on a single date.
func (a *Allocation) OccupiedDaysOn(date string) int {
	n := 0
	for _, set := range a.Occupied {
		if _, ok := set[date]; ok {
			n++
		}
	}
	return n
}

// RevenueInMonth sums revenue attributed to a month, optionally filtered to
// one building (empty string means all). Day allocations and legacy month
// buckets both count.
func (a *Allocation) RevenueInMonth(yearMonth, building string) float64 {
	total := 0.0
	for _, d := range a.Days {
		if building != "" && d.Building != building {
			continue
		}
		if strings.HasPrefix(d.Date, yearMonth) {
			total += d.Amount
		}
	}
	for _, m := range a.Months {
		if building != "" && m.Building != building {
			continue
		}
		if m.YearMonth == yearMonth {
			total += m.Amount
		}
	}
	return total
}
