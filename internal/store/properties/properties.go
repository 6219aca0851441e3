package properties

import (
	"context"

	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/engine"
	"github.com/ryokan-ops/stayboard/internal/store"
)

type PropertiesRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewPropertiesRepository(db *store.DB, log *zap.Logger) *PropertiesRepository {
	return &PropertiesRepository{db: db, log: log}
}

// Catalog loads the full building/room catalog in canonical display order.
// The display_order column is the ranking tie-break.
func (r *PropertiesRepository) Catalog(ctx context.Context) (engine.Catalog, error) {
	query := `
		SELECT b.name, b.display_order, r.name
		FROM buildings b
		LEFT JOIN rooms r ON r.building = b.name
		ORDER BY b.display_order, r.name`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return engine.Catalog{}, err
	}
	defer rows.Close()

	var cat engine.Catalog
	index := map[string]int{}
	for rows.Next() {
		var (
			building string
			order    int
			room     *string
		)
		if err := rows.Scan(&building, &order, &room); err != nil {
			return engine.Catalog{}, err
		}
		i, ok := index[building]
		if !ok {
			i = len(cat.Buildings)
			index[building] = i
			cat.Buildings = append(cat.Buildings, engine.Building{Name: building, DisplayOrder: order})
		}
		if room != nil {
			cat.Buildings[i].Rooms = append(cat.Buildings[i].Rooms, *room)
		}
	}
	return cat, rows.Err()
}
