package config

import (
	"context"
	"fmt"

	"github.com/ryokan-ops/stayboard/internal/store"
)

// defaultCatalog seeds a fresh database with the operator's buildings and
// rooms. The display order here is the canonical ranking tie-break; it is
// data, not code layout, so it can change without a redeploy once seeded.
var defaultCatalog = []struct {
	Building string
	Order    int
	Rooms    []string
}{
	{Building: "Sakura House", Order: 1, Rooms: []string{"101", "102", "201", "202"}},
	{Building: "Momiji Annex", Order: 2, Rooms: []string{"A", "B"}},
	{Building: "Tsubaki Villa", Order: 3, Rooms: []string{"East", "West"}},
}

// EnsureCatalog seeds the buildings and rooms tables when they are empty.
// An already-populated catalog is left untouched.
func EnsureCatalog(db *store.DB) error {
	ctx := context.Background()

	var count int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM buildings").Scan(&count); err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, b := range defaultCatalog {
		if _, err := db.Pool.Exec(ctx, `
			INSERT INTO buildings (name, display_order)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, b.Building, b.Order); err != nil {
			return fmt.Errorf("failed to seed building %s: %w", b.Building, err)
		}
		for _, room := range b.Rooms {
			if _, err := db.Pool.Exec(ctx, `
				INSERT INTO rooms (building, name)
				VALUES ($1, $2)
				ON CONFLICT (building, name) DO NOTHING
			`, b.Building, room); err != nil {
				return fmt.Errorf("failed to seed room %s/%s: %w", b.Building, room, err)
			}
		}
	}

	return nil
}
