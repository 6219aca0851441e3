package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func nightly(id, building, room string, arrival, departure string, nights ...Night) Reservation {
	total := 0.0
	for _, n := range nights {
		total += n.Amount
	}
	return Reservation{
		ID: id, Building: building, Room: room, Status: StatusConfirmed,
		Arrival: d(arrival), Departure: d(departure),
		TotalPrice: total, Nights: nights,
	}
}

func TestNormalizeResolvesPricingShape(t *testing.T) {
	raw := []Reservation{
		nightly("r1", "B1", "R1", "2024-03-05", "2024-03-07",
			Night{Date: d("2024-03-05"), Amount: 10000},
			Night{Date: d("2024-03-06"), Amount: 12000},
		),
		{ID: "r2", Building: "B1", Room: "R2", Status: StatusConfirmed,
			Arrival: d("2024-03-01"), Departure: d("2024-03-04"), TotalPrice: 30000, StayMonth: "2024-03"},
		{ID: "r3", Building: "B1", Room: "R1", Status: StatusCancelled,
			Arrival: d("2024-03-10"), Departure: d("2024-03-12"), TotalPrice: 5000},
	}

	batch, warnings := Normalize(raw)
	require.Len(t, batch, 2)
	assert.Empty(t, warnings)
	assert.Equal(t, PricingNightly, batch[0].Kind)
	assert.Equal(t, PricingLegacyMonth, batch[1].Kind)
}

func TestNormalizeDerivesStayMonthFromArrival(t *testing.T) {
	raw := []Reservation{{
		ID: "r1", Building: "B1", Room: "R1", Status: StatusConfirmed,
		Arrival: d("2024-05-20"), Departure: d("2024-05-22"), TotalPrice: 18000,
	}}
	batch, warnings := Normalize(raw)
	require.Len(t, batch, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, "2024-05", batch[0].StayMonth)
}

func TestNormalizeSkipsUnattributableRecord(t *testing.T) {
	raw := []Reservation{
		{ID: "broken", Building: "B1", Room: "R1", Status: StatusConfirmed, TotalPrice: 9999},
		nightly("ok", "B1", "R2", "2024-03-05", "2024-03-06", Night{Date: d("2024-03-05"), Amount: 7000}),
	}
	batch, warnings := Normalize(raw)
	require.Len(t, batch, 1)
	assert.Equal(t, "ok", batch[0].ID)
	require.Len(t, warnings, 1)
	assert.Equal(t, "broken", warnings[0].ReservationID)
}

func TestNormalizeWarnsOnNightSumMismatch(t *testing.T) {
	r := nightly("r1", "B1", "R1", "2024-03-05", "2024-03-07",
		Night{Date: d("2024-03-05"), Amount: 10000},
		Night{Date: d("2024-03-06"), Amount: 12000},
	)
	r.TotalPrice = 25000 // does not match 22000

	batch, warnings := Normalize([]Reservation{r})
	require.Len(t, batch, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Reason, "sum")
}

func TestAllocateNightArrayFidelity(t *testing.T) {
	batch, _ := Normalize([]Reservation{
		nightly("r1", "B1", "R1", "2024-03-05", "2024-03-07",
			Night{Date: d("2024-03-05"), Amount: 10000},
			Night{Date: d("2024-03-06"), Amount: 12000},
		),
	})

	march := Allocate(batch, MonthWindow(2024, time.March))
	assert.Equal(t, 22000.0, march.RevenueInMonth("2024-03", ""))

	feb := Allocate(batch, MonthWindow(2024, time.February))
	assert.Equal(t, 0.0, feb.RevenueInMonth("2024-02", ""))
	assert.Empty(t, feb.Days)
}

func TestAllocateClipsAcrossMonthBoundary(t *testing.T) {
	// 2024 is a leap year: nights 02-28, 02-29, 03-01, 03-02; departure
	// 03-03 contributes nothing.
	res := nightly("r1", "B1", "R1", "2024-02-28", "2024-03-03",
		Night{Date: d("2024-02-28"), Amount: 8000},
		Night{Date: d("2024-02-29"), Amount: 8000},
		Night{Date: d("2024-03-01"), Amount: 9000},
		Night{Date: d("2024-03-02"), Amount: 9000},
	)
	batch, _ := Normalize([]Reservation{res})

	feb := Allocate(batch, MonthWindow(2024, time.February))
	assert.Equal(t, 16000.0, feb.RevenueInMonth("2024-02", ""))
	assert.Equal(t, 2, feb.OccupiedDaysInMonth(RoomKey{"B1", "R1"}, "2024-02"))

	mar := Allocate(batch, MonthWindow(2024, time.March))
	assert.Equal(t, 18000.0, mar.RevenueInMonth("2024-03", ""))
	assert.Equal(t, 2, mar.OccupiedDaysInMonth(RoomKey{"B1", "R1"}, "2024-03"))
	for _, da := range mar.Days {
		assert.NotEqual(t, "2024-03-03", da.Date)
	}
}

func TestAllocateLegacyFallbackCoarseness(t *testing.T) {
	raw := []Reservation{{
		ID: "legacy", Building: "B1", Room: "R1", Status: StatusConfirmed,
		Arrival: d("2024-03-10"), Departure: d("2024-03-13"),
		TotalPrice: 30000, StayMonth: "2024-03",
	}}
	batch, _ := Normalize(raw)
	a := Allocate(batch, MonthWindow(2024, time.March))

	assert.Empty(t, a.Days, "legacy records produce no daily breakdown")
	assert.Equal(t, 30000.0, a.RevenueInMonth("2024-03", ""))
	// Occupancy still counts day-level from arrival..departure.
	assert.Equal(t, 3, a.OccupiedDaysInMonth(RoomKey{"B1", "R1"}, "2024-03"))
}

func TestAllocateOccupancyDedup(t *testing.T) {
	batch, _ := Normalize([]Reservation{
		nightly("r1", "B1", "R1", "2024-06-10", "2024-06-12",
			Night{Date: d("2024-06-10"), Amount: 5000},
			Night{Date: d("2024-06-11"), Amount: 5000},
		),
		nightly("r2", "B1", "R1", "2024-06-11", "2024-06-13",
			Night{Date: d("2024-06-11"), Amount: 6000},
			Night{Date: d("2024-06-12"), Amount: 6000},
		),
	})
	a := Allocate(batch, MonthWindow(2024, time.June))

	// 06-10, 06-11, 06-12: three occupied days, not four.
	assert.Equal(t, 3, a.OccupiedDaysInMonth(RoomKey{"B1", "R1"}, "2024-06"))
	// Revenue sums even on the double-booked night; the anomaly surfaces
	// as a warning instead of being hidden.
	assert.Equal(t, 22000.0, a.RevenueInMonth("2024-06", ""))
	require.NotEmpty(t, a.Warnings)
	assert.Contains(t, a.Warnings[0].Reason, "overlapping")
}

func TestAllocateNoOverlapContributesNothing(t *testing.T) {
	batch, _ := Normalize([]Reservation{
		nightly("r1", "B1", "R1", "2024-01-05", "2024-01-07",
			Night{Date: d("2024-01-05"), Amount: 5000},
			Night{Date: d("2024-01-06"), Amount: 5000},
		),
	})
	a := Allocate(batch, MonthWindow(2024, time.June))
	assert.Empty(t, a.Days)
	assert.Empty(t, a.Months)
	assert.Empty(t, a.Occupied)
	assert.Zero(t, a.Reservations[RoomKey{"B1", "R1"}])
}

func TestEffectiveRangeExclusiveDeparture(t *testing.T) {
	r := Reservation{Arrival: d("2024-06-10"), Departure: d("2024-06-11")}
	start, end, ok := effectiveRange(r, MonthWindow(2024, time.June))
	require.True(t, ok)
	assert.Equal(t, d("2024-06-10"), start)
	assert.Equal(t, d("2024-06-10"), end)

	// A same-day pair has no billed night at all.
	r = Reservation{Arrival: d("2024-06-10"), Departure: d("2024-06-10")}
	_, _, ok = effectiveRange(r, MonthWindow(2024, time.June))
	assert.False(t, ok)
}
