package repository

import (
	"context"

	"github.com/jhoicas/inventory-projections/internal/domain/entity"
)

// ChangePublisher publica cambios (CDC) hacia la cola del motor de proyecciones.
// Las implementaciones atadas a una tx publican en la misma transacción que la escritura.
type ChangePublisher interface {
	Publish(ctx context.Context, changes ...entity.DataChange) error
}

// TransferSide lado de un plan de traslado: "gives" (origen) o "takes" (destino).
type TransferSide string

const (
	TransferSideGives TransferSide = "gives"
	TransferSideTakes TransferSide = "takes"
)

// ChangeLookupRepository recorridos del grafo usados para resolver un cambio a su ítem.
// Cuando la referencia ya no existe devuelven domain.ErrUnresolvable.
type ChangeLookupRepository interface {
	ItemIDForInventoryPlan(ctx context.Context, planID string) (string, error)
	ItemIDForTransferPlan(ctx context.Context, planID string, side TransferSide) (string, error)
	ItemIDForMarkerEdge(ctx context.Context, edgeID string) (string, error)
	// DeleteStaleMarkerEdges borra las aristas newly-projects pendientes del ítem.
	DeleteStaleMarkerEdges(ctx context.Context, itemID string) error
}
