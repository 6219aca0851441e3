package engine

import (
	"fmt"
	"time"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Night is one calendar night of a stay with its exact monetary share.
// When a reservation carries nights, they are the authoritative revenue
// breakdown and are never re-derived from the total price.
type Night struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// Reservation is a raw booking record as read from the store.
// Departure is exclusive: the checkout day is not an occupied night.
type Reservation struct {
	ID           string    `json:"id"`
	Building     string    `json:"building"`
	Room         string    `json:"room"`
	Platform     string    `json:"platform"`
	Status       string    `json:"status"`
	Arrival      time.Time `json:"arrival"`
	Departure    time.Time `json:"departure"`
	TotalPrice   float64   `json:"total_price"`
	Nights       []Night   `json:"nights,omitempty"`
	StayMonth    string    `json:"stay_month,omitempty"` // YYYY-MM, legacy records only
	BookDate     time.Time `json:"book_date"`
	GuestCountry string    `json:"guest_country,omitempty"`
}

// TotalNights is the stay length in nights. Zero when the date pair is
// missing or inverted.
func (r Reservation) TotalNights() int {
	if r.Arrival.IsZero() || r.Departure.IsZero() {
		return 0
	}
	n := int(day(r.Departure).Sub(day(r.Arrival)).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// Window is an inclusive calendar-date range used for reporting queries.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow covers one full calendar month.
func MonthWindow(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

// DayWindow is the degenerate one-day window used by the today snapshot.
func DayWindow(t time.Time) Window {
	d := day(t)
	return Window{Start: d, End: d}
}

// YearWindow covers a full calendar year.
func YearWindow(year int) Window {
	return Window{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (w Window) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(day(w.Start)) && !d.After(day(w.End))
}

// ContainsMonth reports whether the YYYY-MM key falls inside the window's
// month span.
func (w Window) ContainsMonth(yearMonth string) bool {
	return yearMonth >= monthKey(w.Start) && yearMonth <= monthKey(w.End)
}

func (w Window) Key() string {
	return dayKey(w.Start) + ":" + dayKey(w.End)
}

// RoomKey identifies a room. Room names are only unique within their
// building, so every lookup keys on the pair.
type RoomKey struct {
	Building string
	Room     string
}

// Building is one property with its rooms and its fixed position in the
// dashboard's display order. The order doubles as the ranking tie-break.
type Building struct {
	Name         string
	DisplayOrder int
	Rooms        []string
}

// Catalog is the fixed set of buildings and rooms the operator manages.
type Catalog struct {
	Buildings []Building
}

func (c Catalog) TotalRooms() int {
	n := 0
	for _, b := range c.Buildings {
		n += len(b.Rooms)
	}
	return n
}

func (c Catalog) RoomCount(building string) int {
	for _, b := range c.Buildings {
		if b.Name == building {
			return len(b.Rooms)
		}
	}
	return 0
}

func (c Catalog) RoomsOf(building string) []string {
	for _, b := range c.Buildings {
		if b.Name == building {
			return b.Rooms
		}
	}
	return nil
}

// OrderOf returns the canonical display position of a building. Unknown
// buildings sort last.
func (c Catalog) OrderOf(building string) int {
	for _, b := range c.Buildings {
		if b.Name == building {
			return b.DisplayOrder
		}
	}
	return 1 << 30
}

// day truncates to a UTC calendar date. All engine arithmetic happens on
// these normalized values.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string   { return t.Format("2006-01-02") }
func monthKey(t time.Time) string { return t.Format("2006-01") }

// ParseYearMonth parses a YYYY-MM key.
func ParseYearMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year-month %q", s)
	}
	return t, nil
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}
