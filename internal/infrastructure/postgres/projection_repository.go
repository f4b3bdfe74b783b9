package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

var _ repository.ProjectionRepository = (*ProjectionRepo)(nil)

// ProjectionRepo serie de proyecciones por ítem.
type ProjectionRepo struct {
	db DB
}

// NewProjectionRepository construye el adaptador. Acepta pool o tx.
func NewProjectionRepository(db DB) *ProjectionRepo {
	return &ProjectionRepo{db: db}
}

var projectionCopyColumns = []string{
	"item_id", "future_date_id", "ending_on_hand", "beginning_on_hand",
	"supply_in_transit", "supply_planned", "demand_planned", "generated_at",
}

// Replace borra y recrea la serie completa del ítem en una sola transacción (COPY para el alta).
func (r *ProjectionRepo) Replace(ctx context.Context, itemID string, projections []entity.Projection) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM projections WHERE item_id = $1`, itemID); err != nil {
			return fmt.Errorf("delete projections: %w", err)
		}
		if len(projections) == 0 {
			return nil
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"projections"}, projectionCopyColumns,
			pgx.CopyFromSlice(len(projections), func(i int) ([]any, error) {
				p := projections[i]
				return []any{
					itemID, p.FutureDateID, p.EndingOnHand, p.BeginningOnHand,
					p.SupplyInTransit, p.SupplyPlanned, p.DemandPlanned, p.GeneratedAt,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy projections: %w", err)
		}
		return nil
	})
}

// ListByItem serie del ítem unida a su FutureDate, ordenada por days_out.
func (r *ProjectionRepo) ListByItem(ctx context.Context, itemID string) ([]entity.Projection, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.item_id, p.future_date_id, f.date, f.days_out, p.ending_on_hand, p.beginning_on_hand,
		       p.supply_in_transit, p.supply_planned, p.demand_planned, p.generated_at
		FROM projections p
		JOIN future_dates f ON f.id = p.future_date_id
		WHERE p.item_id = $1
		ORDER BY f.days_out`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list projections: %w", err)
	}
	defer rows.Close()
	var list []entity.Projection
	for rows.Next() {
		var p entity.Projection
		if err := rows.Scan(&p.ItemID, &p.FutureDateID, &p.Date, &p.DaysOut, &p.EndingOnHand, &p.BeginningOnHand,
			&p.SupplyInTransit, &p.SupplyPlanned, &p.DemandPlanned, &p.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan projection: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
