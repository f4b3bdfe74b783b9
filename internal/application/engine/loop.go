package engine

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-projections/internal/application/projection"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/rs/zerolog"
)

// Config cadencias del loop.
type Config struct {
	// IdleSleep espera tras un poll vacío o un error de transporte.
	IdleSleep time.Duration
	// WindowInterval tiempo sin mensajes antes de actualizar el horizonte.
	WindowInterval time.Duration
	Now            func() time.Time
}

// BatchStats resumen de una iteración.
type BatchStats struct {
	Received      int
	Deduplicated  int
	Succeeded     int
	Failed        int
	WindowUpdated bool
}

// QueueExecutionLoop poll -> dedupe -> calcular -> disponer, hasta que se cancele el contexto.
type QueueExecutionLoop struct {
	queue      Queue
	calculator Calculator
	window     Window
	cfg        Config
	log        zerolog.Logger

	lastActivity time.Time
}

// NewQueueExecutionLoop construye el loop. La primera iteración ociosa actualiza el horizonte.
func NewQueueExecutionLoop(queue Queue, calculator Calculator, window Window, cfg Config, log zerolog.Logger) *QueueExecutionLoop {
	if cfg.IdleSleep <= 0 {
		cfg.IdleSleep = time.Second
	}
	if cfg.WindowInterval <= 0 {
		cfg.WindowInterval = 5 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &QueueExecutionLoop{queue: queue, calculator: calculator, window: window, cfg: cfg, log: log}
}

// Run procesa lotes hasta que ctx se cancele. La cancelación se revisa entre lotes.
func (l *QueueExecutionLoop) Run(ctx context.Context) error {
	l.log.Info().
		Dur("idle_sleep", l.cfg.IdleSleep).
		Dur("window_interval", l.cfg.WindowInterval).
		Msg("motor de proyecciones iniciado")
	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("motor de proyecciones detenido")
			return nil
		default:
		}
		l.RunOnce(ctx)
	}
}

// RunOnce ejecuta una iteración completa del loop.
func (l *QueueExecutionLoop) RunOnce(ctx context.Context) BatchStats {
	var stats BatchStats
	msgs, err := l.queue.Receive(ctx)
	if err != nil {
		if ctx.Err() == nil {
			l.log.Error().Err(err).Msg("recibir mensajes de la cola")
			l.sleep(ctx)
		}
		return stats
	}
	stats.Received = len(msgs)

	if len(msgs) == 0 {
		stats.WindowUpdated = l.maybeUpdateWindow(ctx)
		l.sleep(ctx)
		return stats
	}
	l.lastActivity = l.cfg.Now()

	batch := projection.ByOperation(msgs)
	stats.Deduplicated = len(batch)
	successes, failures, err := l.calculator.Calculate(ctx, batch)
	if err != nil {
		// Sin disposición: los mensajes vuelven al vencer su visibilidad.
		l.log.Error().Err(err).Int("received", len(msgs)).Msg("lote abortado")
		return stats
	}
	stats.Succeeded = len(successes)
	stats.Failed = len(failures)

	l.dispose(ctx, msgs, failures)
	l.log.Info().
		Int("received", stats.Received).
		Int("deduplicated", stats.Deduplicated).
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Msg("lote procesado")
	return stats
}

// dispose reenvía una vez cada identidad fallida y confirma todos los demás receipts del lote.
// Si el reenvío falla, las identidades fallidas no se confirman y vuelven por visibilidad.
func (l *QueueExecutionLoop) dispose(ctx context.Context, received, failures []entity.PendingMessage) {
	retries := projection.ByIdentity(failures)
	skip := make(map[string]struct{}, len(retries))
	if len(retries) > 0 {
		if err := l.queue.Requeue(ctx, retries); err != nil {
			l.log.Error().Err(err).Int("messages", len(retries)).Msg("reencolar mensajes fallidos")
			failed := make(map[string]struct{}, len(retries))
			for _, m := range retries {
				failed[m.Identity()] = struct{}{}
			}
			for _, group := range projection.GroupByIdentity(received) {
				if _, ok := failed[group[0].Identity()]; !ok {
					continue
				}
				for _, m := range group {
					skip[m.ReceiptHandle] = struct{}{}
				}
			}
		} else {
			for _, m := range retries {
				skip[m.ReceiptHandle] = struct{}{}
			}
		}
	}

	acks := make([]entity.PendingMessage, 0, len(received))
	for _, m := range received {
		if _, ok := skip[m.ReceiptHandle]; ok {
			continue
		}
		acks = append(acks, m)
	}
	if len(acks) == 0 {
		return
	}
	if err := l.queue.Delete(ctx, acks); err != nil {
		l.log.Error().Err(err).Int("messages", len(acks)).Msg("confirmar mensajes")
	}
}

func (l *QueueExecutionLoop) maybeUpdateWindow(ctx context.Context) bool {
	now := l.cfg.Now()
	if now.Sub(l.lastActivity) < l.cfg.WindowInterval {
		return false
	}
	l.lastActivity = now
	if _, err := l.window.UpdateFutureDates(ctx); err != nil {
		l.log.Error().Err(err).Msg("actualizar horizonte")
		return false
	}
	return true
}

func (l *QueueExecutionLoop) sleep(ctx context.Context) {
	t := time.NewTimer(l.cfg.IdleSleep)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
