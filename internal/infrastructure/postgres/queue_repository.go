package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/retry"
	"github.com/rs/zerolog"
)

// QueueConfig parámetros de la cola sobre PostgreSQL.
type QueueConfig struct {
	Name         string
	DeadLetter   string
	BatchSize    int
	Wait         time.Duration // long-poll máximo
	Visibility   time.Duration // lease de cada mensaje recibido
	PollInterval time.Duration // espera entre consultas mientras la cola está vacía
}

// QueueRepo cola durable at-least-once en la tabla queue_messages. Receive toma un lease
// (visible_at en el futuro + receipt handle nuevo) con FOR UPDATE SKIP LOCKED, así que varios
// consumidores no reciben el mismo mensaje mientras el lease esté vigente.
type QueueRepo struct {
	db     DB
	cfg    QueueConfig
	policy retry.Policy
	log    zerolog.Logger
}

// NewQueueRepository construye la cola.
func NewQueueRepository(db DB, cfg QueueConfig, policy retry.Policy, log zerolog.Logger) *QueueRepo {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Visibility <= 0 {
		cfg.Visibility = 2 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	return &QueueRepo{db: db, cfg: cfg, policy: policy, log: log}
}

// Publisher publicador de cambios hacia la cola principal sobre q (pool o tx).
func (r *QueueRepo) Publisher(q Querier) *ChangePublisher {
	return NewChangePublisher(q, r.cfg.Name)
}

// Receive devuelve hasta BatchSize mensajes visibles. Si no hay, reintenta cada PollInterval
// hasta agotar Wait; puede devolver un lote vacío. Los cuerpos que no son un DataChange válido
// van directo a dead-letter.
func (r *QueueRepo) Receive(ctx context.Context) ([]entity.PendingMessage, error) {
	deadline := time.Now().Add(r.cfg.Wait)
	for {
		msgs, err := r.lease(ctx)
		if err != nil || len(msgs) > 0 {
			return msgs, err
		}
		if !time.Now().Add(r.cfg.PollInterval).Before(deadline) {
			return nil, nil
		}
		t := time.NewTimer(r.cfg.PollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *QueueRepo) lease(ctx context.Context) ([]entity.PendingMessage, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE queue_messages m
		SET receipt_handle = gen_random_uuid(),
		    receive_count = m.receive_count + 1,
		    visible_at = now() + make_interval(secs => $3)
		WHERE m.id IN (
			SELECT id FROM queue_messages
			WHERE queue = $1 AND visible_at <= now()
			ORDER BY sent_at, id
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING m.id, m.change_id, m.body, m.receipt_handle, m.receive_count, m.failure_count, m.sent_at, COALESCE(m.last_error, '')`,
		r.cfg.Name, r.cfg.BatchSize, r.cfg.Visibility.Seconds())
	if err != nil {
		return nil, fmt.Errorf("receive messages: %w", err)
	}
	defer rows.Close()

	var msgs, malformed []entity.PendingMessage
	for rows.Next() {
		var m entity.PendingMessage
		var changeID string
		var body []byte
		if err := rows.Scan(&m.MessageID, &changeID, &body, &m.ReceiptHandle, &m.ReceiveCount, &m.FailureCount, &m.SentAt, &m.LastError); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if err := json.Unmarshal(body, &m.Change); err != nil || m.Change.ID == "" {
			m.Change.ID = changeID
			m.LastError = fmt.Sprintf("malformed body: %v", err)
			malformed = append(malformed, m)
			continue
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("receive messages: %w", err)
	}
	rows.Close()

	for _, m := range malformed {
		r.log.Warn().Str("message_id", m.MessageID).Str("change_id", m.Change.ID).Msg("mensaje malformado enviado a dead-letter")
		if _, err := r.db.Exec(ctx, `
			UPDATE queue_messages
			SET queue = $2, last_error = $3, receipt_handle = NULL, visible_at = now()
			WHERE receipt_handle = $1`,
			m.ReceiptHandle, r.cfg.DeadLetter, m.LastError,
		); err != nil {
			return nil, fmt.Errorf("dead-letter malformed message: %w", err)
		}
	}
	return msgs, nil
}

// Delete confirma los mensajes por receipt handle. Un handle ya borrado no es error.
func (r *QueueRepo) Delete(ctx context.Context, msgs []entity.PendingMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	handles := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.ReceiptHandle != "" {
			handles = append(handles, m.ReceiptHandle)
		}
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM queue_messages WHERE receipt_handle = ANY($1::uuid[])`, handles); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return nil
}

// Requeue en una transacción: por cada mensaje inserta el reenvío (con backoff, o hacia
// dead-letter al alcanzar el techo de fallos) y borra el original.
func (r *QueueRepo) Requeue(ctx context.Context, msgs []entity.PendingMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, m := range msgs {
			d := r.policy.Next(m.FailureCount)
			target := r.cfg.Name
			if d.DeadLetter {
				target = r.cfg.DeadLetter
				r.log.Warn().
					Str("change_id", m.Change.ID).
					Int("failures", d.FailureCount).
					Str("last_error", m.LastError).
					Msg("mensaje enviado a dead-letter")
			}
			if err := r.moveTo(ctx, tx, m, target, d.FailureCount, d.Delay); err != nil {
				return err
			}
		}
		return nil
	})
}

// moveTo reenvía el cuerpo del mensaje a queue con el contador indicado y borra el original.
func (r *QueueRepo) moveTo(ctx context.Context, q Querier, m entity.PendingMessage, queue string, failures int, delay time.Duration) error {
	body, err := json.Marshal(m.Change)
	if err != nil {
		return fmt.Errorf("encode change %s: %w", m.Change.ID, err)
	}
	if _, err := q.Exec(ctx, `
		INSERT INTO queue_messages (id, queue, change_id, body, failure_count, last_error, sent_at, visible_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), now(), now() + make_interval(secs => $7))`,
		uuid.New().String(), queue, m.Change.ID, body, failures, m.LastError, delay.Seconds(),
	); err != nil {
		return fmt.Errorf("requeue message: %w", err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM queue_messages WHERE receipt_handle = $1`, m.ReceiptHandle); err != nil {
		return fmt.Errorf("delete requeued message: %w", err)
	}
	return nil
}

// Depth mensajes en una cola (visibles o no). Útil para observar la dead-letter.
func (r *QueueRepo) Depth(ctx context.Context, queue string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM queue_messages WHERE queue = $1`, queue).Scan(&n); err != nil {
		return 0, fmt.Errorf("queue depth: %w", err)
	}
	return n, nil
}
