package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-projections/internal/application/dto"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

// PlanUseCase alta, modificación y baja de planes de inventario y de traslado.
type PlanUseCase struct {
	tx        TxRunner
	inventory repository.InventoryPlanRepository
	transfers repository.TransferPlanRepository
	now       func() time.Time
}

// NewPlanUseCase construye el caso de uso. Los repositorios se usan solo para lecturas.
func NewPlanUseCase(tx TxRunner, inventory repository.InventoryPlanRepository, transfers repository.TransferPlanRepository) *PlanUseCase {
	return &PlanUseCase{tx: tx, inventory: inventory, transfers: transfers, now: time.Now}
}

// CreateInventoryPlan crea un plan para el ítem. ErrNotFound si el ítem no existe.
func (uc *PlanUseCase) CreateInventoryPlan(ctx context.Context, itemID string, in dto.InventoryPlanRequest) (*dto.InventoryPlanResponse, error) {
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if !entity.ValidPlanType(in.PlanType) || in.DailyRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	plan := &entity.InventoryPlan{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		PlanType:  in.PlanType,
		StartDate: start,
		EndDate:   end,
		DailyRate: in.DailyRate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.tx.Run(ctx, func(_ repository.ItemRepository, planRepo repository.InventoryPlanRepository, _ repository.TransferPlanRepository, publisher repository.ChangePublisher) error {
		if err := planRepo.Create(ctx, plan); err != nil {
			return err
		}
		return publisher.Publish(ctx, inventoryPlanChange(entity.OperationAdd, plan))
	})
	if err != nil {
		return nil, err
	}
	return toInventoryPlanResponse(plan), nil
}

// UpdateInventoryPlan reemplaza tipo, fechas y tasa. (nil, nil) si el plan no existe.
func (uc *PlanUseCase) UpdateInventoryPlan(ctx context.Context, id string, in dto.InventoryPlanRequest) (*dto.InventoryPlanResponse, error) {
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if !entity.ValidPlanType(in.PlanType) || in.DailyRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.InventoryPlan
	err = uc.tx.Run(ctx, func(_ repository.ItemRepository, planRepo repository.InventoryPlanRepository, _ repository.TransferPlanRepository, publisher repository.ChangePublisher) error {
		plan, err := planRepo.GetByID(ctx, id)
		if err != nil || plan == nil {
			return err
		}
		plan.PlanType = in.PlanType
		plan.StartDate = start
		plan.EndDate = end
		plan.DailyRate = in.DailyRate
		plan.UpdatedAt = uc.now()
		if err := planRepo.Update(ctx, plan); err != nil {
			return err
		}
		updated = plan
		return publisher.Publish(ctx, inventoryPlanChange(entity.OperationAdd, plan))
	})
	if err != nil {
		return nil, err
	}
	return toInventoryPlanResponse(updated), nil
}

// DeleteInventoryPlan elimina el plan. El cambio REMOVE lleva el itemId porque el plan ya no
// se podrá consultar cuando el motor lo procese.
func (uc *PlanUseCase) DeleteInventoryPlan(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(_ repository.ItemRepository, planRepo repository.InventoryPlanRepository, _ repository.TransferPlanRepository, publisher repository.ChangePublisher) error {
		plan, err := planRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if plan == nil {
			return domain.ErrNotFound
		}
		if err := planRepo.Delete(ctx, id); err != nil {
			return err
		}
		return publisher.Publish(ctx, inventoryPlanChange(entity.OperationRemove, plan))
	})
}

// ListInventoryPlans planes del ítem en orden de creación.
func (uc *PlanUseCase) ListInventoryPlans(ctx context.Context, itemID string) ([]dto.InventoryPlanResponse, error) {
	plans, err := uc.inventory.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryPlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, *toInventoryPlanResponse(&plans[i]))
	}
	return out, nil
}

// CreateTransferPlan crea un traslado entre dos ítems distintos.
func (uc *PlanUseCase) CreateTransferPlan(ctx context.Context, in dto.TransferPlanRequest) (*dto.TransferPlanResponse, error) {
	ship, arrival, err := parseRange(in.ShipDate, in.ArrivalDate)
	if err != nil {
		return nil, err
	}
	if in.FromItemID == in.ToItemID || !in.TransferAmount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	plan := &entity.TransferPlan{
		ID:             uuid.New().String(),
		FromItemID:     in.FromItemID,
		ToItemID:       in.ToItemID,
		ShipDate:       ship,
		ArrivalDate:    arrival,
		TransferAmount: in.TransferAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = uc.tx.Run(ctx, func(_ repository.ItemRepository, _ repository.InventoryPlanRepository, transferRepo repository.TransferPlanRepository, publisher repository.ChangePublisher) error {
		if err := transferRepo.Create(ctx, plan); err != nil {
			return err
		}
		return publisher.Publish(ctx, transferPlanChanges(entity.OperationAdd, plan)...)
	})
	if err != nil {
		return nil, err
	}
	return toTransferPlanResponse(plan), nil
}

// DeleteTransferPlan elimina el traslado y recalcula ambos extremos.
func (uc *PlanUseCase) DeleteTransferPlan(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(_ repository.ItemRepository, _ repository.InventoryPlanRepository, transferRepo repository.TransferPlanRepository, publisher repository.ChangePublisher) error {
		plan, err := transferRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if plan == nil {
			return domain.ErrNotFound
		}
		if err := transferRepo.Delete(ctx, id); err != nil {
			return err
		}
		return publisher.Publish(ctx, transferPlanChanges(entity.OperationRemove, plan)...)
	})
}

// ListTransferPlans traslados donde el ítem es origen o destino.
func (uc *PlanUseCase) ListTransferPlans(ctx context.Context, itemID string) ([]dto.TransferPlanResponse, error) {
	plans, err := uc.transfers.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferPlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, *toTransferPlanResponse(&plans[i]))
	}
	return out, nil
}

// parseRange valida que el fin no sea anterior al inicio. Un rango vacío (fin == inicio) se
// acepta y no aporta nada a la proyección.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := parseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return start, end, nil
}

func toInventoryPlanResponse(p *entity.InventoryPlan) *dto.InventoryPlanResponse {
	if p == nil {
		return nil
	}
	return &dto.InventoryPlanResponse{
		ID:        p.ID,
		ItemID:    p.ItemID,
		PlanType:  p.PlanType,
		StartDate: formatDate(p.StartDate),
		EndDate:   formatDate(p.EndDate),
		DailyRate: p.DailyRate,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toTransferPlanResponse(p *entity.TransferPlan) *dto.TransferPlanResponse {
	if p == nil {
		return nil
	}
	return &dto.TransferPlanResponse{
		ID:             p.ID,
		FromItemID:     p.FromItemID,
		ToItemID:       p.ToItemID,
		ShipDate:       formatDate(p.ShipDate),
		ArrivalDate:    formatDate(p.ArrivalDate),
		TransferAmount: p.TransferAmount,
		CreatedAt:      p.CreatedAt,
	}
}
