package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-projections/internal/application/dto"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/projection"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ItemUseCase CRUD de ítems. Cada escritura publica su cambio en la misma transacción.
type ItemUseCase struct {
	tx    TxRunner
	items repository.ItemRepository
	now   func() time.Time
}

// NewItemUseCase construye el caso de uso. items se usa solo para lecturas.
func NewItemUseCase(tx TxRunner, items repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{tx: tx, items: items, now: time.Now}
}

// Create crea un ítem. La existencia no puede ser negativa.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	entryDate := projection.Today(now)
	if in.EntryDate != "" {
		d, err := parseDate(in.EntryDate)
		if err != nil {
			return nil, err
		}
		entryDate = d
	}
	item := &entity.Item{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Amount:    in.Amount,
		EntryDate: entryDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(itemRepo repository.ItemRepository, _ repository.InventoryPlanRepository, _ repository.TransferPlanRepository, publisher repository.ChangePublisher) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		return publisher.Publish(ctx, itemChange(entity.OperationAdd, item.ID, keyAmount, amountValue(item.Amount)))
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem. (nil, nil) si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista ítems con paginación.
func (uc *ItemUseCase) List(ctx context.Context, limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.items.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualización parcial. (nil, nil) si el ítem no existe.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	var updated *entity.Item
	err := uc.tx.Run(ctx, func(itemRepo repository.ItemRepository, _ repository.InventoryPlanRepository, _ repository.TransferPlanRepository, publisher repository.ChangePublisher) error {
		item, err := itemRepo.GetByID(ctx, id)
		if err != nil || item == nil {
			return err
		}
		change := itemChange(entity.OperationAdd, item.ID, keyName, stringValue(item.Name))
		if in.Name != nil {
			item.Name = *in.Name
			change.Value = stringValue(item.Name)
		}
		if in.EntryDate != nil {
			d, err := parseDate(*in.EntryDate)
			if err != nil {
				return err
			}
			item.EntryDate = d
			change.Key, change.Value = keyEntryDate, stringValue(*in.EntryDate)
		}
		if in.Amount != nil {
			if in.Amount.IsNegative() {
				return domain.ErrInvalidInput
			}
			item.Amount = *in.Amount
			change.Key, change.Value = keyAmount, amountValue(item.Amount)
		}
		item.UpdatedAt = uc.now()
		if err := itemRepo.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return publisher.Publish(ctx, change)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(updated), nil
}

// Delete elimina el ítem. Sus traslados caen en cascada, así que la contraparte de cada
// traslado también se recalcula.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(itemRepo repository.ItemRepository, _ repository.InventoryPlanRepository, transferRepo repository.TransferPlanRepository, publisher repository.ChangePublisher) error {
		transfers, err := transferRepo.ListByItem(ctx, id)
		if err != nil {
			return err
		}
		if err := itemRepo.Delete(ctx, id); err != nil {
			return err
		}
		changes := []entity.DataChange{itemChange(entity.OperationRemove, id, keyAmount, amountValue(decimal.Zero))}
		for _, tp := range transfers {
			other := tp.ToItemID
			if other == id {
				other = tp.FromItemID
			}
			if other == id {
				continue
			}
			changes = append(changes, itemChange(entity.OperationAdd, other, keyTransferPlan, stringValue(tp.ID)))
		}
		return publisher.Publish(ctx, changes...)
	})
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return d, nil
}

func formatDate(t time.Time) string {
	return t.Format(dto.DateLayout)
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Amount:    it.Amount,
		EntryDate: formatDate(it.EntryDate),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}
