package reservations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/engine"
	"github.com/ryokan-ops/stayboard/internal/store"
)

// nightRow is the wire shape of one entry in the nights jsonb column.
type nightRow struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Amount float64 `json:"amount"`
}

type ReservationsRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewReservationsRepository(db *store.DB, log *zap.Logger) *ReservationsRepository {
	return &ReservationsRepository{db: db, log: log}
}

const reservationColumns = `
	id, building, room, platform, status, arrival, departure,
	COALESCE(total_price, 0), COALESCE(nights, '[]'::jsonb),
	COALESCE(stay_month, ''), book_date, COALESCE(guest_country, '')`

// ConfirmedByArrival returns every confirmed reservation arriving on or
// before upTo. The store cannot answer interval-overlap queries, so this is
// a deliberate over-fetch; the engine performs the precise intersection
// test during allocation.
func (r *ReservationsRepository) ConfirmedByArrival(ctx context.Context, upTo time.Time) ([]engine.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'confirmed' AND arrival <= $1
		ORDER BY arrival`

	rows, err := r.db.Pool.Query(ctx, query, upTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Reservation
	for rows.Next() {
		res, err := r.scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// CountBookedOn counts reservations created on a single date, any status.
func (r *ReservationsRepository) CountBookedOn(ctx context.Context, date time.Time) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reservations WHERE book_date = $1`, date).Scan(&n)
	return n, err
}

func (r *ReservationsRepository) scanReservation(scan func(...any) error) (engine.Reservation, error) {
	var (
		res        engine.Reservation
		nightsJSON []byte
		arrival    *time.Time
		departure  *time.Time
		bookDate   *time.Time
	)
	err := scan(
		&res.ID, &res.Building, &res.Room, &res.Platform, &res.Status,
		&arrival, &departure, &res.TotalPrice, &nightsJSON,
		&res.StayMonth, &bookDate, &res.GuestCountry,
	)
	if err != nil {
		return engine.Reservation{}, err
	}
	if arrival != nil {
		res.Arrival = *arrival
	}
	if departure != nil {
		res.Departure = *departure
	}
	if bookDate != nil {
		res.BookDate = *bookDate
	}

	var rows []nightRow
	if err := json.Unmarshal(nightsJSON, &rows); err != nil {
		// A malformed nights column degrades the record to the legacy
		// path rather than failing the whole fetch.
		r.log.Warn("malformed nights json", zap.String("reservation_id", res.ID), zap.Error(err))
		return res, nil
	}
	for _, n := range rows {
		d, err := time.Parse("2006-01-02", n.Date)
		if err != nil {
			r.log.Warn("malformed night date",
				zap.String("reservation_id", res.ID), zap.String("date", n.Date))
			continue
		}
		res.Nights = append(res.Nights, engine.Night{Date: d, Amount: n.Amount})
	}
	return res, nil
}

// Insert stores one reservation. Used by channel-sync tooling and tests;
// the dashboard itself only reads.
func (r *ReservationsRepository) Insert(ctx context.Context, res *engine.Reservation) error {
	nights := make([]nightRow, 0, len(res.Nights))
	for _, n := range res.Nights {
		nights = append(nights, nightRow{Date: n.Date.Format("2006-01-02"), Amount: n.Amount})
	}
	nightsJSON, err := json.Marshal(nights)
	if err != nil {
		return fmt.Errorf("marshal nights: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO reservations (id, building, room, platform, status, arrival, departure,
		                          total_price, nights, stay_month, book_date, guest_country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, NULLIF($12, ''))
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status, arrival = EXCLUDED.arrival,
			departure = EXCLUDED.departure, total_price = EXCLUDED.total_price,
			nights = EXCLUDED.nights, updated_at = now()
	`, res.ID, res.Building, res.Room, res.Platform, res.Status, res.Arrival, res.Departure,
		res.TotalPrice, nightsJSON, res.StayMonth, res.BookDate, res.GuestCountry)
	return err
}
