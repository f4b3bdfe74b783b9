package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

var (
	_ repository.RuleRepository      = (*RuleRepo)(nil)
	_ repository.ViolationRepository = (*ViolationRepo)(nil)
)

// ruleLockKey llave del advisory lock que serializa la reparación del conjunto de reglas.
const ruleLockKey int64 = 0x72756c6573 // "rules"

// RuleRepo regla única de inventario mínimo.
type RuleRepo struct {
	db DB
}

// NewRuleRepository construye el adaptador. Acepta pool o tx.
func NewRuleRepository(db DB) *RuleRepo {
	return &RuleRepo{db: db}
}

func listRules(ctx context.Context, q Querier) ([]entity.Rule, error) {
	rows, err := q.Query(ctx, `SELECT id, name, min_allowed, created_at FROM rules ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()
	var list []entity.Rule
	for rows.Next() {
		var r entity.Rule
		if err := rows.Scan(&r.ID, &r.Name, &r.MinAllowed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func replaceRules(ctx context.Context, tx pgx.Tx, rules []entity.Rule) error {
	if _, err := tx.Exec(ctx, `DELETE FROM rules`); err != nil {
		return fmt.Errorf("delete rules: %w", err)
	}
	for _, r := range rules {
		if _, err := tx.Exec(ctx, `INSERT INTO rules (id, name, min_allowed, created_at) VALUES ($1, $2, $3, $4)`,
			r.ID, r.Name, r.MinAllowed, r.CreatedAt); err != nil {
			return fmt.Errorf("insert rule: %w", err)
		}
	}
	return nil
}

func lockRules(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ruleLockKey); err != nil {
		return fmt.Errorf("lock rules: %w", err)
	}
	return nil
}

// List todas las reglas.
func (r *RuleRepo) List(ctx context.Context) ([]entity.Rule, error) {
	return listRules(ctx, r.db)
}

// ReplaceRuleSet reemplaza todas las reglas en una transacción.
func (r *RuleRepo) ReplaceRuleSet(ctx context.Context, rules []entity.Rule) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockRules(ctx, tx); err != nil {
			return err
		}
		return replaceRules(ctx, tx, rules)
	})
}

// EnsureSingleActiveRule bajo advisory lock de transacción: si no hay exactamente una regla,
// reemplaza el conjunto por la regla por defecto. Dos recálculos concurrentes no pueden
// reparar a la vez.
func (r *RuleRepo) EnsureSingleActiveRule(ctx context.Context) (*entity.Rule, error) {
	var active entity.Rule
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockRules(ctx, tx); err != nil {
			return err
		}
		rules, err := listRules(ctx, tx)
		if err != nil {
			return err
		}
		if rule, ok := entity.ActiveRule(rules); ok {
			active = rule
			return nil
		}
		active = entity.DefaultRule(uuid.New().String(), time.Now())
		return replaceRules(ctx, tx, []entity.Rule{active})
	})
	if err != nil {
		return nil, err
	}
	return &active, nil
}

// ViolationRepo violaciones de la regla por ítem.
type ViolationRepo struct {
	q Querier
}

// NewViolationRepository construye el adaptador. Acepta pool o tx (Querier).
func NewViolationRepository(q Querier) *ViolationRepo {
	return &ViolationRepo{q: q}
}

// ClearByItem borra todas las violaciones del ítem.
func (r *ViolationRepo) ClearByItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM violations WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("clear violations: %w", err)
	}
	return nil
}

// Create persiste una violación (arista ítem -> regla).
func (r *ViolationRepo) Create(ctx context.Context, v *entity.Violation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO violations (id, item_id, rule_id, date, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		v.ID, v.ItemID, v.RuleID, v.Date, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert violation: %w", err)
	}
	return nil
}

// ListByItem violaciones del ítem ordenadas por fecha.
func (r *ViolationRepo) ListByItem(ctx context.Context, itemID string) ([]entity.Violation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, item_id, rule_id, date, created_at FROM violations
		WHERE item_id = $1 ORDER BY date`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list violations: %w", err)
	}
	defer rows.Close()
	var list []entity.Violation
	for rows.Next() {
		var v entity.Violation
		if err := rows.Scan(&v.ID, &v.ItemID, &v.RuleID, &v.Date, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
