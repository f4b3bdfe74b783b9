package repository

import (
	"context"

	"github.com/jhoicas/inventory-projections/internal/domain/entity"
)

// ProjectionRepository persiste la serie de proyecciones de un ítem.
type ProjectionRepository interface {
	// Replace borra y recrea, en una sola transacción, las proyecciones del ítem.
	Replace(ctx context.Context, itemID string, projections []entity.Projection) error
	ListByItem(ctx context.Context, itemID string) ([]entity.Projection, error)
}

// FutureDateRepository persiste el horizonte de fechas futuras y sus aristas marcadoras.
type FutureDateRepository interface {
	List(ctx context.Context) ([]entity.FutureDate, error)
	Delete(ctx context.Context, dates []entity.FutureDate) error
	Update(ctx context.Context, dates []entity.FutureDate) error
	Create(ctx context.Context, dates []entity.FutureDate) ([]entity.FutureDate, error)
	// FanOutMarkerEdge crea una arista newly-projects desde el FutureDate hacia cada ítem
	// existente y publica un cambio por arista. Devuelve cuántas aristas creó.
	FanOutMarkerEdge(ctx context.Context, futureDateID string) (int, error)
}
