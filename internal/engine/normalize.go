package engine

import "math"

// PricingKind tags how a reservation's revenue can be attributed. It is
// resolved once at normalization time instead of being re-checked at every
// aggregation site.
type PricingKind int

const (
	// PricingNightly means the nights array is present and authoritative.
	PricingNightly PricingKind = iota
	// PricingLegacyMonth means only a month-level total is known; revenue
	// lands in a single month bucket with no daily breakdown.
	PricingLegacyMonth
)

// Normalized is a reservation whose pricing shape has been resolved.
type Normalized struct {
	Reservation
	Kind PricingKind
}

// Warning records a data-quality anomaly found while processing a
// reservation. Warnings never abort a batch; the operator audits them.
type Warning struct {
	ReservationID string `json:"reservation_id"`
	Reason        string `json:"reason"`
}

// nightSumTolerance absorbs float noise when comparing a nights sum against
// the stored total. Prices are whole yen.
const nightSumTolerance = 0.5

// Normalize filters a raw batch down to confirmed reservations and resolves
// each one's pricing shape. Records that cannot be attributed at all are
// dropped and reported; they must not zero out the rest of the batch.
func Normalize(raw []Reservation) ([]Normalized, []Warning) {
	out := make([]Normalized, 0, len(raw))
	var warnings []Warning

	for _, r := range raw {
		if r.Status != StatusConfirmed {
			continue
		}

		if len(r.Nights) > 0 {
			if r.TotalPrice > 0 {
				sum := 0.0
				for _, n := range r.Nights {
					sum += n.Amount
				}
				if math.Abs(sum-r.TotalPrice) > nightSumTolerance {
					warnings = append(warnings, Warning{
						ReservationID: r.ID,
						Reason:        "nightly breakdown does not sum to total price",
					})
				}
			}
			out = append(out, Normalized{Reservation: r, Kind: PricingNightly})
			continue
		}

		stayMonth := r.StayMonth
		if stayMonth == "" && !r.Arrival.IsZero() {
			stayMonth = monthKey(r.Arrival)
		}
		if stayMonth == "" {
			warnings = append(warnings, Warning{
				ReservationID: r.ID,
				Reason:        "no nights, stay month, or arrival; record skipped",
			})
			continue
		}

		n := r
		n.StayMonth = stayMonth
		out = append(out, Normalized{Reservation: n, Kind: PricingLegacyMonth})
	}

	return out, warnings
}
