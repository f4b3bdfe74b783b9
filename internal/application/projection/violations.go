package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/projection"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

// ViolationEvaluator mantiene las violaciones de un ítem sincronizadas con su última proyección.
type ViolationEvaluator struct {
	rules      repository.RuleRepository
	violations repository.ViolationRepository
	now        func() time.Time
}

// NewViolationEvaluator construye el evaluador.
func NewViolationEvaluator(rules repository.RuleRepository, violations repository.ViolationRepository, now func() time.Time) *ViolationEvaluator {
	if now == nil {
		now = time.Now
	}
	return &ViolationEvaluator{rules: rules, violations: violations, now: now}
}

// HandleViolations asegura una única regla activa, borra las violaciones previas del ítem
// y crea una por cada día cuyo EndingOnHand queda por debajo de MinAllowed.
// Devuelve cuántas violaciones creó.
func (v *ViolationEvaluator) HandleViolations(ctx context.Context, itemID string, today time.Time, projections []entity.Projection) (int, error) {
	rule, err := v.rules.EnsureSingleActiveRule(ctx)
	if err != nil {
		return 0, fmt.Errorf("ensure rule: %w", err)
	}
	if err := v.violations.ClearByItem(ctx, itemID); err != nil {
		return 0, fmt.Errorf("clear violations: %w", err)
	}

	today = projection.DateOnly(today)
	now := v.now()
	created := 0
	for i, p := range projections {
		if !p.EndingOnHand.LessThan(rule.MinAllowed) {
			continue
		}
		violation := &entity.Violation{
			ID:        uuid.New().String(),
			ItemID:    itemID,
			RuleID:    rule.ID,
			Date:      projection.AddDays(today, i),
			CreatedAt: now,
		}
		if err := v.violations.Create(ctx, violation); err != nil {
			return created, fmt.Errorf("create violation: %w", err)
		}
		created++
	}
	return created, nil
}
