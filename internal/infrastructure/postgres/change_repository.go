package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

var (
	_ repository.ChangePublisher        = (*ChangePublisher)(nil)
	_ repository.ChangeLookupRepository = (*ChangeLookupRepo)(nil)
)

// ChangePublisher encola DataChanges en queue_messages. Atado a una tx, el cambio se publica
// solo si la escritura que lo origina hace commit.
type ChangePublisher struct {
	q     Querier
	queue string
}

// NewChangePublisher construye el publicador sobre pool o tx.
func NewChangePublisher(q Querier, queue string) *ChangePublisher {
	return &ChangePublisher{q: q, queue: queue}
}

// Publish inserta un mensaje visible de inmediato por cada cambio.
func (p *ChangePublisher) Publish(ctx context.Context, changes ...entity.DataChange) error {
	if len(changes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, c := range changes {
		body, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode change %s: %w", c.ID, err)
		}
		batch.Queue(`
			INSERT INTO queue_messages (id, queue, change_id, body, sent_at, visible_at)
			VALUES ($1, $2, $3, $4, now(), now())`,
			uuid.New().String(), p.queue, c.ID, body)
	}
	if err := p.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("publish changes: %w", err)
	}
	return nil
}

// ChangeLookupRepo recorridos plan/arista -> ítem usados al resolver cambios.
type ChangeLookupRepo struct {
	q Querier
}

// NewChangeLookupRepository construye el adaptador. Acepta pool o tx (Querier).
func NewChangeLookupRepository(q Querier) *ChangeLookupRepo {
	return &ChangeLookupRepo{q: q}
}

func (r *ChangeLookupRepo) lookup(ctx context.Context, what, query, id string) (string, error) {
	var itemID string
	if err := r.q.QueryRow(ctx, query, id).Scan(&itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s %s: %w", what, id, domain.ErrUnresolvable)
		}
		return "", fmt.Errorf("lookup %s: %w", what, err)
	}
	return itemID, nil
}

// ItemIDForInventoryPlan ítem dueño del plan.
func (r *ChangeLookupRepo) ItemIDForInventoryPlan(ctx context.Context, planID string) (string, error) {
	return r.lookup(ctx, "inventory plan", `SELECT item_id FROM inventory_plans WHERE id = $1`, planID)
}

// ItemIDForTransferPlan ítem origen (gives) o destino (takes) del traslado.
func (r *ChangeLookupRepo) ItemIDForTransferPlan(ctx context.Context, planID string, side repository.TransferSide) (string, error) {
	switch side {
	case repository.TransferSideGives:
		return r.lookup(ctx, "transfer plan", `SELECT from_item_id FROM transfer_plans WHERE id = $1`, planID)
	case repository.TransferSideTakes:
		return r.lookup(ctx, "transfer plan", `SELECT to_item_id FROM transfer_plans WHERE id = $1`, planID)
	}
	return "", fmt.Errorf("transfer side %q: %w", side, domain.ErrInvalidInput)
}

// ItemIDForMarkerEdge ítem destino de la arista newly-projects.
func (r *ChangeLookupRepo) ItemIDForMarkerEdge(ctx context.Context, edgeID string) (string, error) {
	return r.lookup(ctx, "marker edge", `SELECT item_id FROM marker_edges WHERE id = $1`, edgeID)
}

// DeleteStaleMarkerEdges borra las aristas newly-projects pendientes del ítem.
func (r *ChangeLookupRepo) DeleteStaleMarkerEdges(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM marker_edges WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete marker edges: %w", err)
	}
	return nil
}
