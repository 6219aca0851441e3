package reports

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/engine"
	"github.com/ryokan-ops/stayboard/internal/metrics"
	redisx "github.com/ryokan-ops/stayboard/internal/redis"
	"github.com/ryokan-ops/stayboard/internal/store"
)

// ErrStale marks a computation whose window was superseded by a newer
// request for the same report before it finished. Stale results are
// discarded — never cached, never served as current.
var ErrStale = errors.New("report superseded by a newer request")

type Service struct {
	log           *zap.Logger
	eng           *engine.Engine
	cancellations *store.CancellationsRepository
	cache         *redisx.ReportCache // may be nil

	mu  sync.Mutex
	gen map[string]uint64 // latest request generation per report kind
}

func NewService(log *zap.Logger, eng *engine.Engine, cancellations *store.CancellationsRepository, cache *redisx.ReportCache) *Service {
	return &Service{
		log:           log,
		eng:           eng,
		cancellations: cancellations,
		cache:         cache,
		gen:           make(map[string]uint64),
	}
}

// begin registers a new request for a report kind and returns a check that
// reports whether this request is still the latest one.
func (s *Service) begin(report string) func() bool {
	s.mu.Lock()
	s.gen[report]++
	token := s.gen[report]
	s.mu.Unlock()
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.gen[report] == token
	}
}

// run wraps one report computation with metrics, the report cache, and the
// stale-completion check. compute must fill dst.
func (s *Service) run(ctx context.Context, report, cacheKey string, dst any, compute func() (any, error)) error {
	start := time.Now()

	if s.cache != nil {
		if b, ok := s.cache.Get(ctx, cacheKey); ok {
			if err := json.Unmarshal(b, dst); err == nil {
				metrics.ReportRequestsTotal.WithLabelValues(report, "cache_hit").Inc()
				return nil
			}
		}
	}

	current := s.begin(report)
	out, err := compute()
	metrics.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ReportRequestsTotal.WithLabelValues(report, "error").Inc()
		return err
	}
	if !current() {
		metrics.ReportRequestsTotal.WithLabelValues(report, "stale").Inc()
		return ErrStale
	}
	metrics.ReportRequestsTotal.WithLabelValues(report, "ok").Inc()

	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, b)
	}
	return json.Unmarshal(b, dst)
}

func (s *Service) MonthlyTrend(ctx context.Context, anchor time.Time, building string) ([]engine.TrendPoint, error) {
	var out []engine.TrendPoint
	key := "trend:" + anchor.Format("2006-01") + ":" + building
	err := s.run(ctx, "trend", key, &out, func() (any, error) {
		return s.eng.MonthlyTrend(ctx, anchor, building)
	})
	return out, err
}

func (s *Service) BuildingRanking(ctx context.Context, anchor time.Time) ([]engine.RankedBuilding, error) {
	var out []engine.RankedBuilding
	key := "ranking:" + anchor.Format("2006-01")
	err := s.run(ctx, "ranking", key, &out, func() (any, error) {
		return s.eng.BuildingRanking(ctx, anchor)
	})
	return out, err
}

func (s *Service) RoomReport(ctx context.Context, building string, anchor time.Time) (*engine.RoomReport, error) {
	var out engine.RoomReport
	key := "rooms:" + anchor.Format("2006-01") + ":" + building
	err := s.run(ctx, "rooms", key, &out, func() (any, error) {
		return s.eng.RoomReport(ctx, building, anchor)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) YearOverYear(ctx context.Context, year int) ([]engine.YoYPoint, error) {
	var out []engine.YoYPoint
	key := "yoy:" + time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
	err := s.run(ctx, "yoy", key, &out, func() (any, error) {
		return s.eng.YearOverYear(ctx, year)
	})
	return out, err
}

// Today is never cached: the snapshot changes as bookings land during the
// day and it is cheap to recompute.
func (s *Service) Today(ctx context.Context, date time.Time) (*engine.TodaySnapshot, error) {
	start := time.Now()
	snap, err := s.eng.Today(ctx, date)
	metrics.ReportDuration.WithLabelValues("today").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ReportRequestsTotal.WithLabelValues("today", "error").Inc()
		return nil, err
	}
	metrics.ReportRequestsTotal.WithLabelValues("today", "ok").Inc()
	return snap, nil
}

func (s *Service) GuestCountries(ctx context.Context, anchor time.Time) ([]engine.CountryCount, error) {
	var out []engine.CountryCount
	key := "countries:" + anchor.Format("2006-01")
	err := s.run(ctx, "countries", key, &out, func() (any, error) {
		return s.eng.GuestCountries(ctx, anchor)
	})
	return out, err
}

func (s *Service) Cancellations(ctx context.Context, from, to time.Time) (store.CancellationSummary, error) {
	return s.cancellations.Summary(ctx, from, to)
}
