package engine

import (
	"context"

	"github.com/jhoicas/inventory-projections/internal/application/projection"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
)

// Queue transporte durable de cambios (at-least-once).
type Queue interface {
	// Receive long-poll acotado; puede devolver un lote vacío.
	Receive(ctx context.Context) ([]entity.PendingMessage, error)
	// Delete confirma los mensajes por receipt handle. Idempotente.
	Delete(ctx context.Context, msgs []entity.PendingMessage) error
	// Requeue reenvía cada mensaje con backoff (o a dead-letter al llegar al techo de fallos)
	// y borra el original en la misma operación.
	Requeue(ctx context.Context, msgs []entity.PendingMessage) error
}

// Calculator recalcula los ítems afectados por un lote deduplicado.
type Calculator interface {
	Calculate(ctx context.Context, batch []entity.PendingMessage) (successes, failures []entity.PendingMessage, err error)
}

// Window mantiene el horizonte de fechas futuras.
type Window interface {
	UpdateFutureDates(ctx context.Context) (projection.WindowUpdate, error)
}
