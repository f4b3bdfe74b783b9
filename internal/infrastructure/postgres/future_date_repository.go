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

var _ repository.FutureDateRepository = (*FutureDateRepo)(nil)

// FutureDateRepo horizonte de fechas futuras y sus aristas newly-projects.
type FutureDateRepo struct {
	db    DB
	queue string
}

// NewFutureDateRepository construye el adaptador. queue es la cola donde se publican los
// cambios de las aristas marcadoras.
func NewFutureDateRepository(db DB, queue string) *FutureDateRepo {
	return &FutureDateRepo{db: db, queue: queue}
}

// List fechas del horizonte ordenadas por days_out.
func (r *FutureDateRepo) List(ctx context.Context) ([]entity.FutureDate, error) {
	rows, err := r.db.Query(ctx, `SELECT id, date, days_out FROM future_dates ORDER BY days_out`)
	if err != nil {
		return nil, fmt.Errorf("list future dates: %w", err)
	}
	defer rows.Close()
	var list []entity.FutureDate
	for rows.Next() {
		var fd entity.FutureDate
		if err := rows.Scan(&fd.ID, &fd.Date, &fd.DaysOut); err != nil {
			return nil, fmt.Errorf("scan future date: %w", err)
		}
		list = append(list, fd)
	}
	return list, rows.Err()
}

// Delete elimina las fechas indicadas (sus proyecciones y aristas caen en cascada).
func (r *FutureDateRepo) Delete(ctx context.Context, dates []entity.FutureDate) error {
	if len(dates) == 0 {
		return nil
	}
	ids := make([]string, len(dates))
	for i, fd := range dates {
		ids[i] = fd.ID
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM future_dates WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return fmt.Errorf("delete future dates: %w", err)
	}
	return nil
}

// Update persiste la renumeración de days_out en un batch.
func (r *FutureDateRepo) Update(ctx context.Context, dates []entity.FutureDate) error {
	if len(dates) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, fd := range dates {
		batch.Queue(`UPDATE future_dates SET days_out = $2 WHERE id = $1`, fd.ID, fd.DaysOut)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("update future dates: %w", err)
	}
	return nil
}

// Create inserta las fechas nuevas y las devuelve tal como quedaron guardadas.
func (r *FutureDateRepo) Create(ctx context.Context, dates []entity.FutureDate) ([]entity.FutureDate, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	batch := &pgx.Batch{}
	for _, fd := range dates {
		if fd.ID == "" {
			fd.ID = uuid.New().String()
		}
		batch.Queue(`INSERT INTO future_dates (id, date, days_out) VALUES ($1, $2, $3) RETURNING id, date, days_out`,
			fd.ID, fd.Date, fd.DaysOut)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	created := make([]entity.FutureDate, 0, len(dates))
	for range dates {
		var fd entity.FutureDate
		if err := results.QueryRow().Scan(&fd.ID, &fd.Date, &fd.DaysOut); err != nil {
			return nil, fmt.Errorf("insert future date: %w", err)
		}
		created = append(created, fd)
	}
	return created, nil
}

// FanOutMarkerEdge crea una arista newly-projects hacia cada ítem y publica un cambio por
// arista, todo en la misma transacción.
func (r *FutureDateRepo) FanOutMarkerEdge(ctx context.Context, futureDateID string) (int, error) {
	var count int
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO marker_edges (id, future_date_id, item_id, created_at)
			SELECT gen_random_uuid(), $1, id, $2 FROM items
			RETURNING id, item_id`, futureDateID, time.Now())
		if err != nil {
			return fmt.Errorf("insert marker edges: %w", err)
		}
		var changes []entity.DataChange
		for rows.Next() {
			var edge entity.MarkerEdge
			if err := rows.Scan(&edge.ID, &edge.ItemID); err != nil {
				rows.Close()
				return fmt.Errorf("scan marker edge: %w", err)
			}
			changes = append(changes, entity.DataChange{
				ID:        edge.ID,
				Operation: entity.OperationAdd,
				Label:     entity.LabelNewlyProjects,
				Key:       entity.KeyItemID,
				Value:     entity.ChangeValue{Value: edge.ItemID, DataType: "string"},
			})
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("insert marker edges: %w", err)
		}
		count = len(changes)
		return NewChangePublisher(tx, r.queue).Publish(ctx, changes...)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
