package pricing

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/metrics"
	"github.com/ryokan-ops/stayboard/internal/pricing"
)

// DayRate is one day's rate for a room, with the channel buckets resolved:
// Primary is p1 (falling back to p3), Secondary is p2.
type DayRate struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Primary   int    `json:"primary"`
	Secondary int    `json:"secondary"`
}

type RoomRates struct {
	RoomID string    `json:"roomId"`
	Days   []DayRate `json:"days"`
}

type SyncRequest struct {
	Rates map[string]int `json:"rates"` // YYYY-MM-DD -> price
}

type Service struct {
	log    *zap.Logger
	client *pricing.Client
}

func NewService(log *zap.Logger, client *pricing.Client) *Service {
	return &Service{log: log, client: client}
}

// RoomRates reads the channel API's per-day rates for every room of a
// building over an inclusive date range.
func (s *Service) RoomRates(ctx context.Context, building string, from, to time.Time) ([]RoomRates, int, error) {
	resp, err := s.client.GetRoomPrices(ctx, building, from, to)
	if err != nil {
		metrics.PricingProxyRequestsTotal.WithLabelValues("get", "error").Inc()
		return nil, http.StatusBadGateway, fmt.Errorf("fetch room prices: %w", err)
	}
	metrics.PricingProxyRequestsTotal.WithLabelValues("get", "ok").Inc()

	out := make([]RoomRates, 0, len(resp.PriceData))
	for roomID, prices := range resp.PriceData {
		rr := RoomRates{RoomID: roomID, Days: make([]DayRate, 0, len(prices.Dates))}
		for raw, e := range prices.Dates {
			d, err := time.Parse("20060102", raw)
			if err != nil {
				s.log.Warn("skipping malformed price date", zap.String("room", roomID), zap.String("date", raw))
				continue
			}
			primary := e.P1
			if primary == 0 {
				primary = e.P3
			}
			rr.Days = append(rr.Days, DayRate{
				Date:      d.Format("2006-01-02"),
				Primary:   primary,
				Secondary: e.P2,
			})
		}
		sort.Slice(rr.Days, func(i, j int) bool { return rr.Days[i].Date < rr.Days[j].Date })
		out = append(out, rr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out, http.StatusOK, nil
}

// SyncRoomRates pushes the requested per-day rates to the channel. When
// every day carries the same price it issues a single ranged call; when
// rates differ it issues one call per day.
func (s *Service) SyncRoomRates(ctx context.Context, building, roomID string, req SyncRequest) (int, int, error) {
	if len(req.Rates) == 0 {
		return 0, http.StatusBadRequest, fmt.Errorf("no rates supplied")
	}

	dates := make([]time.Time, 0, len(req.Rates))
	uniform := true
	var first int
	for raw, price := range req.Rates {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return 0, http.StatusBadRequest, fmt.Errorf("invalid date %q", raw)
		}
		if price <= 0 {
			return 0, http.StatusBadRequest, fmt.Errorf("invalid price for %s", raw)
		}
		if len(dates) == 0 {
			first = price
		} else if price != first {
			uniform = false
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if uniform {
		if err := s.client.SetRoomPrices(ctx, building, roomID, dates[0], dates[len(dates)-1], first); err != nil {
			metrics.PricingProxyRequestsTotal.WithLabelValues("set", "error").Inc()
			return 0, http.StatusBadGateway, fmt.Errorf("push room prices: %w", err)
		}
		metrics.PricingProxyRequestsTotal.WithLabelValues("set", "ok").Inc()
		return 1, http.StatusOK, nil
	}

	calls := 0
	for _, d := range dates {
		price := req.Rates[d.Format("2006-01-02")]
		if err := s.client.SetRoomPrices(ctx, building, roomID, d, d, price); err != nil {
			metrics.PricingProxyRequestsTotal.WithLabelValues("set", "error").Inc()
			return calls, http.StatusBadGateway, fmt.Errorf("push rate for %s: %w", d.Format("2006-01-02"), err)
		}
		calls++
	}
	metrics.PricingProxyRequestsTotal.WithLabelValues("set", "ok").Inc()
	return calls, http.StatusOK, nil
}
