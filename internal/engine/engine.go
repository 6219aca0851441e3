package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReservationSource is the store-facing contract. The backing store only
// supports single-field equality/range predicates, so the source
// deliberately over-fetches (every confirmed reservation arriving up to the
// window end) and the precise interval intersection happens during
// allocation. A reservation starting before the window but ending inside it
// is therefore never missed.
type ReservationSource interface {
	ConfirmedByArrival(ctx context.Context, upTo time.Time) ([]Reservation, error)
	CountBookedOn(ctx context.Context, date time.Time) (int, error)
}

// Engine runs the three stages — ingest/normalize, allocate, aggregate —
// over an injected source and catalog. It holds no mutable state and never
// writes; every method is safe for concurrent use.
type Engine struct {
	source  ReservationSource
	catalog Catalog
	log     *zap.Logger
	onWarn  func(Warning)
}

func New(source ReservationSource, catalog Catalog, log *zap.Logger) *Engine {
	return &Engine{source: source, catalog: catalog, log: log}
}

// OnWarning installs a handler for data-quality warnings, called in
// addition to logging. Must be set before the engine is shared.
func (e *Engine) OnWarning(fn func(Warning)) { e.onWarn = fn }

func (e *Engine) Catalog() Catalog { return e.catalog }

func (e *Engine) emit(ws []Warning) {
	for _, w := range ws {
		e.log.Warn("data quality", zap.String("reservation_id", w.ReservationID), zap.String("reason", w.Reason))
		if e.onWarn != nil {
			e.onWarn(w)
		}
	}
}

// load fetches, normalizes, and allocates one window.
func (e *Engine) load(ctx context.Context, w Window) (*Allocation, []Normalized, error) {
	raw, err := e.source.ConfirmedByArrival(ctx, w.End)
	if err != nil {
		return nil, nil, err
	}
	batch, warnings := Normalize(raw)
	e.emit(warnings)
	a := Allocate(batch, w)
	e.emit(a.Warnings)
	return a, batch, nil
}

// MonthlyTrend returns the trailing-12-month occupancy/revenue series
// ending at the anchor month. building filters to one property; empty means
// all.
func (e *Engine) MonthlyTrend(ctx context.Context, anchor time.Time, building string) ([]TrendPoint, error) {
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	w := Window{Start: start, End: MonthWindow(anchor.Year(), anchor.Month()).End}
	a, _, err := e.load(ctx, w)
	if err != nil {
		return nil, err
	}
	return trendSeries(a, e.catalog, anchor, building), nil
}

// BuildingRanking ranks buildings by one month's revenue.
func (e *Engine) BuildingRanking(ctx context.Context, anchor time.Time) ([]RankedBuilding, error) {
	a, _, err := e.load(ctx, MonthWindow(anchor.Year(), anchor.Month()))
	if err != nil {
		return nil, err
	}
	return buildingRanking(a, e.catalog, monthKey(anchor)), nil
}

// RoomReport returns the per-room month detail for one building.
func (e *Engine) RoomReport(ctx context.Context, building string, anchor time.Time) (*RoomReport, error) {
	a, _, err := e.load(ctx, MonthWindow(anchor.Year(), anchor.Month()))
	if err != nil {
		return nil, err
	}
	return roomReport(a, e.catalog, building, anchor), nil
}

// YearOverYear compares monthly revenue for a year against the year before.
// The two fetches are independent and run concurrently; results join only
// after both complete, with no shared accumulator in between.
func (e *Engine) YearOverYear(ctx context.Context, year int) ([]YoYPoint, error) {
	var current, previous [12]float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, _, err := e.load(gctx, YearWindow(year))
		if err != nil {
			return err
		}
		current = yearRevenueByMonth(a, year)
		return nil
	})
	g.Go(func() error {
		a, _, err := e.load(gctx, YearWindow(year-1))
		if err != nil {
			return err
		}
		previous = yearRevenueByMonth(a, year-1)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	points := make([]YoYPoint, 12)
	for i := range points {
		points[i] = YoYPoint{Month: i + 1, Current: current[i], Previous: previous[i]}
	}
	return points, nil
}

// Today builds the one-day snapshot. Today's revenue is the average nightly
// rate (totalPrice / stay length) of reservations occupying today, not the
// monthly engine's nightly breakdown. The two formulas are separate and
// must stay that way.
func (e *Engine) Today(ctx context.Context, date time.Time) (*TodaySnapshot, error) {
	d := day(date)
	w := DayWindow(d)
	a, batch, err := e.load(ctx, w)
	if err != nil {
		return nil, err
	}

	snap := &TodaySnapshot{Date: dayKey(d)}
	for _, r := range batch {
		if day(r.Arrival).Equal(d) {
			snap.Arrivals++
			if n := r.TotalNights(); n > 0 {
				snap.Revenue += r.TotalPrice / float64(n)
			}
		}
		if day(r.Departure).Equal(d) {
			snap.Departures++
		}
	}
	snap.OccupiedRooms = a.OccupiedDaysOn(dayKey(d))
	snap.OccupancyRate = rate(snap.OccupiedRooms, e.catalog.TotalRooms())

	booked, err := e.source.CountBookedOn(ctx, d)
	if err != nil {
		return nil, err
	}
	snap.NewBookings = booked
	return snap, nil
}

// GuestCountries counts one month's reservations per guest country.
func (e *Engine) GuestCountries(ctx context.Context, anchor time.Time) ([]CountryCount, error) {
	w := MonthWindow(anchor.Year(), anchor.Month())
	_, batch, err := e.load(ctx, w)
	if err != nil {
		return nil, err
	}
	return guestCountries(batch, w), nil
}
