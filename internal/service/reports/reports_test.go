package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/engine"
)

type fakeSource struct {
	reservations []engine.Reservation
	err          error
}

func (f *fakeSource) ConfirmedByArrival(ctx context.Context, upTo time.Time) ([]engine.Reservation, error) {
	return f.reservations, f.err
}

func (f *fakeSource) CountBookedOn(ctx context.Context, date time.Time) (int, error) {
	return 0, nil
}

func testCatalog() engine.Catalog {
	return engine.Catalog{Buildings: []engine.Building{
		{Name: "Sakura House", DisplayOrder: 1, Rooms: []string{"101", "102"}},
	}}
}

func newService(src *fakeSource) *Service {
	eng := engine.New(src, testCatalog(), zap.NewNop())
	return NewService(zap.NewNop(), eng, nil, nil)
}

func TestMonthlyTrendWithoutCache(t *testing.T) {
	arrival := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	svc := newService(&fakeSource{reservations: []engine.Reservation{{
		ID: "r1", Building: "Sakura House", Room: "101", Status: engine.StatusConfirmed,
		Arrival: arrival, Departure: arrival.AddDate(0, 0, 3), TotalPrice: 30000,
		Nights: []engine.Night{
			{Date: arrival, Amount: 10000},
			{Date: arrival.AddDate(0, 0, 1), Amount: 10000},
			{Date: arrival.AddDate(0, 0, 2), Amount: 10000},
		},
		BookDate: arrival.AddDate(0, -1, 0),
	}}})

	points, err := svc.MonthlyTrend(context.Background(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	require.Len(t, points, 12)
	assert.Equal(t, "2026-06", points[11].YearMonth)
	assert.Equal(t, 30000.0, points[11].Revenue)
}

func TestFetchErrorSurfaces(t *testing.T) {
	svc := newService(&fakeSource{err: errors.New("connection refused")})

	_, err := svc.BuildingRanking(context.Background(), time.Now().UTC())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSupersededRequestIsStale(t *testing.T) {
	svc := newService(&fakeSource{})

	first := svc.begin("trend")
	second := svc.begin("trend")

	assert.False(t, first())
	assert.True(t, second())
}

func TestTodayNeverStale(t *testing.T) {
	svc := newService(&fakeSource{})

	snap, err := svc.Today(context.Background(), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", snap.Date)
	assert.Equal(t, 0, snap.Arrivals)
	assert.Equal(t, 0.0, snap.OccupancyRate)
}
