package repository

import (
	"context"

	"github.com/jhoicas/inventory-projections/internal/domain/entity"
)

// RuleRepository puerto para la regla única de inventario mínimo.
type RuleRepository interface {
	List(ctx context.Context) ([]entity.Rule, error)
	// ReplaceRuleSet reemplaza todas las reglas por las indicadas.
	ReplaceRuleSet(ctx context.Context, rules []entity.Rule) error
	// EnsureSingleActiveRule deja exactamente una regla de forma atómica: si hay cero o más
	// de una, borra todas e inserta la regla por defecto (min_allowed = 0). Devuelve la regla activa.
	EnsureSingleActiveRule(ctx context.Context) (*entity.Rule, error)
}

// ViolationRepository puerto para las violaciones de la regla.
type ViolationRepository interface {
	ClearByItem(ctx context.Context, itemID string) error
	Create(ctx context.Context, violation *entity.Violation) error
	ListByItem(ctx context.Context, itemID string) ([]entity.Violation, error)
}
