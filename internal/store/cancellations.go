package store

import (
	"context"
	"math"
	"time"
)

// CancellationSummary is the simple cancellation-rate report, computed over
// a booking-date range. It is separate from the revenue/occupancy engine:
// cancelled records never reach that path at all.
type CancellationSummary struct {
	Confirmed int     `json:"confirmed"`
	Cancelled int     `json:"cancelled"`
	Rate      float64 `json:"rate"` // percent, one decimal
}

type CancellationsRepository struct{ db *DB }

func NewCancellationsRepository(db *DB) *CancellationsRepository {
	return &CancellationsRepository{db: db}
}

func (r *CancellationsRepository) Summary(ctx context.Context, from, to time.Time) (CancellationSummary, error) {
	var s CancellationSummary
	err := r.db.Pool.QueryRow(ctx, `
        SELECT
          COALESCE(SUM(CASE WHEN status='confirmed' THEN 1 ELSE 0 END),0) AS confirmed,
          COALESCE(SUM(CASE WHEN status='cancelled' THEN 1 ELSE 0 END),0) AS cancelled
        FROM reservations
        WHERE book_date >= $1 AND book_date <= $2`, from, to).Scan(&s.Confirmed, &s.Cancelled)
	if err != nil {
		return s, err
	}
	if total := s.Confirmed + s.Cancelled; total > 0 {
		s.Rate = math.Round(float64(s.Cancelled)/float64(total)*1000) / 10
	}
	return s, nil
}
