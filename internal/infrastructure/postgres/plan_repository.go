package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

var (
	_ repository.InventoryPlanRepository = (*InventoryPlanRepo)(nil)
	_ repository.TransferPlanRepository  = (*TransferPlanRepo)(nil)
)

// InventoryPlanRepo planes de inventario sobre PostgreSQL.
type InventoryPlanRepo struct {
	q Querier
}

// NewInventoryPlanRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryPlanRepository(q Querier) *InventoryPlanRepo {
	return &InventoryPlanRepo{q: q}
}

const inventoryPlanColumns = `id, item_id, plan_type, start_date, end_date, daily_rate, created_at, updated_at`

func scanInventoryPlan(row pgx.Row) (entity.InventoryPlan, error) {
	var p entity.InventoryPlan
	err := row.Scan(&p.ID, &p.ItemID, &p.PlanType, &p.StartDate, &p.EndDate, &p.DailyRate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create persiste un plan. Un item_id inexistente devuelve domain.ErrNotFound.
func (r *InventoryPlanRepo) Create(ctx context.Context, plan *entity.InventoryPlan) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_plans (`+inventoryPlanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		plan.ID, plan.ItemID, plan.PlanType, plan.StartDate, plan.EndDate, plan.DailyRate, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert inventory plan: %w", err)
	}
	return nil
}

// GetByID obtiene un plan por ID. (nil, nil) si no existe.
func (r *InventoryPlanRepo) GetByID(ctx context.Context, id string) (*entity.InventoryPlan, error) {
	p, err := scanInventoryPlan(r.q.QueryRow(ctx, `SELECT `+inventoryPlanColumns+` FROM inventory_plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory plan: %w", err)
	}
	return &p, nil
}

// Update actualiza tipo, fechas y tasa. El ítem del plan no cambia.
func (r *InventoryPlanRepo) Update(ctx context.Context, plan *entity.InventoryPlan) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory_plans SET plan_type = $2, start_date = $3, end_date = $4, daily_rate = $5, updated_at = $6
		WHERE id = $1`,
		plan.ID, plan.PlanType, plan.StartDate, plan.EndDate, plan.DailyRate, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory plan: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un plan por ID.
func (r *InventoryPlanRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM inventory_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory plan: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByItem planes del ítem en orden de creación.
func (r *InventoryPlanRepo) ListByItem(ctx context.Context, itemID string) ([]entity.InventoryPlan, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+inventoryPlanColumns+` FROM inventory_plans
		WHERE item_id = $1 ORDER BY created_at, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list inventory plans: %w", err)
	}
	defer rows.Close()
	var list []entity.InventoryPlan
	for rows.Next() {
		p, err := scanInventoryPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// TransferPlanRepo planes de traslado sobre PostgreSQL.
type TransferPlanRepo struct {
	q Querier
}

// NewTransferPlanRepository construye el adaptador. Acepta pool o tx (Querier).
func NewTransferPlanRepository(q Querier) *TransferPlanRepo {
	return &TransferPlanRepo{q: q}
}

const transferPlanColumns = `id, from_item_id, to_item_id, ship_date, arrival_date, transfer_amount, created_at, updated_at`

func scanTransferPlan(row pgx.Row) (entity.TransferPlan, error) {
	var p entity.TransferPlan
	err := row.Scan(&p.ID, &p.FromItemID, &p.ToItemID, &p.ShipDate, &p.ArrivalDate, &p.TransferAmount, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create persiste un traslado. Si alguno de los ítems no existe devuelve domain.ErrNotFound.
func (r *TransferPlanRepo) Create(ctx context.Context, plan *entity.TransferPlan) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transfer_plans (`+transferPlanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		plan.ID, plan.FromItemID, plan.ToItemID, plan.ShipDate, plan.ArrivalDate, plan.TransferAmount, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert transfer plan: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID. (nil, nil) si no existe.
func (r *TransferPlanRepo) GetByID(ctx context.Context, id string) (*entity.TransferPlan, error) {
	p, err := scanTransferPlan(r.q.QueryRow(ctx, `SELECT `+transferPlanColumns+` FROM transfer_plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer plan: %w", err)
	}
	return &p, nil
}

// Delete elimina un traslado por ID.
func (r *TransferPlanRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM transfer_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transfer plan: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByItem traslados donde el ítem es origen o destino, en orden de creación.
func (r *TransferPlanRepo) ListByItem(ctx context.Context, itemID string) ([]entity.TransferPlan, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+transferPlanColumns+` FROM transfer_plans
		WHERE from_item_id = $1 OR to_item_id = $1 ORDER BY created_at, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list transfer plans: %w", err)
	}
	defer rows.Close()
	var list []entity.TransferPlan
	for rows.Next() {
		p, err := scanTransferPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
