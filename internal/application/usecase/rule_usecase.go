package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-projections/internal/application/dto"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

const (
	keyRule = "rule"
	// rulePageSize tamaño de página al encolar el recálculo de todos los ítems.
	rulePageSize = 500
)

// RuleUseCase consulta y reemplaza la regla de inventario mínimo.
type RuleUseCase struct {
	rules     repository.RuleRepository
	items     repository.ItemRepository
	publisher repository.ChangePublisher
	now       func() time.Time
}

// NewRuleUseCase construye el caso de uso.
func NewRuleUseCase(rules repository.RuleRepository, items repository.ItemRepository, publisher repository.ChangePublisher) *RuleUseCase {
	return &RuleUseCase{rules: rules, items: items, publisher: publisher, now: time.Now}
}

// Get devuelve la regla activa, reparando el conjunto si no hay exactamente una.
func (uc *RuleUseCase) Get(ctx context.Context) (*dto.RuleResponse, error) {
	rule, err := uc.rules.EnsureSingleActiveRule(ctx)
	if err != nil {
		return nil, err
	}
	return toRuleResponse(rule), nil
}

// Put reemplaza la regla y encola un cambio por ítem para que el motor reevalúe las violaciones.
func (uc *RuleUseCase) Put(ctx context.Context, in dto.RuleRequest) (*dto.RuleResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	rule := entity.Rule{
		ID:         uuid.New().String(),
		Name:       in.Name,
		MinAllowed: in.MinAllowed,
		CreatedAt:  uc.now(),
	}
	if err := uc.rules.ReplaceRuleSet(ctx, []entity.Rule{rule}); err != nil {
		return nil, err
	}
	if err := uc.enqueueAll(ctx, rule); err != nil {
		return nil, err
	}
	return toRuleResponse(&rule), nil
}

func (uc *RuleUseCase) enqueueAll(ctx context.Context, rule entity.Rule) error {
	for offset := 0; ; offset += rulePageSize {
		page, err := uc.items.List(ctx, rulePageSize, offset)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		changes := make([]entity.DataChange, 0, len(page))
		for _, it := range page {
			changes = append(changes, itemChange(entity.OperationAdd, it.ID, keyRule, amountValue(rule.MinAllowed)))
		}
		if err := uc.publisher.Publish(ctx, changes...); err != nil {
			return err
		}
		if len(page) < rulePageSize {
			return nil
		}
	}
}

func toRuleResponse(r *entity.Rule) *dto.RuleResponse {
	if r == nil {
		return nil
	}
	return &dto.RuleResponse{
		ID:         r.ID,
		Name:       r.Name,
		MinAllowed: r.MinAllowed,
		CreatedAt:  r.CreatedAt,
	}
}
