package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/inventory-projections/internal/application/engine"
	"github.com/jhoicas/inventory-projections/internal/application/projection"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu         sync.Mutex
	batches    [][]entity.PendingMessage
	receiveErr error
	requeueErr error
	deleted    []string
	requeued   []entity.PendingMessage
	onReceive  func()
}

func (q *fakeQueue) Receive(context.Context) ([]entity.PendingMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.onReceive != nil {
		q.onReceive()
	}
	if q.receiveErr != nil {
		return nil, q.receiveErr
	}
	if len(q.batches) == 0 {
		return nil, nil
	}
	b := q.batches[0]
	q.batches = q.batches[1:]
	return b, nil
}

func (q *fakeQueue) Delete(_ context.Context, msgs []entity.PendingMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, m := range msgs {
		q.deleted = append(q.deleted, m.ReceiptHandle)
	}
	return nil
}

func (q *fakeQueue) Requeue(_ context.Context, msgs []entity.PendingMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.requeueErr != nil {
		return q.requeueErr
	}
	q.requeued = append(q.requeued, msgs...)
	return nil
}

// fakeCalculator falla las identidades de failIDs; err aborta el lote.
type fakeCalculator struct {
	failIDs map[string]bool
	err     error
	batches [][]entity.PendingMessage
}

func (c *fakeCalculator) Calculate(_ context.Context, batch []entity.PendingMessage) ([]entity.PendingMessage, []entity.PendingMessage, error) {
	c.batches = append(c.batches, batch)
	if c.err != nil {
		return nil, nil, c.err
	}
	var ok, failed []entity.PendingMessage
	for _, m := range batch {
		if c.failIDs[m.Identity()] {
			m.LastError = "boom"
			failed = append(failed, m)
			continue
		}
		ok = append(ok, m)
	}
	return ok, failed, nil
}

type fakeWindow struct {
	calls int
	err   error
}

func (w *fakeWindow) UpdateFutureDates(context.Context) (projection.WindowUpdate, error) {
	w.calls++
	return projection.WindowUpdate{}, w.err
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func pending(id, op, receipt string) entity.PendingMessage {
	return entity.PendingMessage{
		Change:        entity.DataChange{ID: id, Operation: op, Label: entity.LabelItem},
		ReceiptHandle: receipt,
	}
}

func newLoop(q *fakeQueue, c *fakeCalculator, w *fakeWindow, clk *fakeClock) *engine.QueueExecutionLoop {
	return engine.NewQueueExecutionLoop(q, c, w, engine.Config{
		IdleSleep:      time.Millisecond,
		WindowInterval: 5 * time.Minute,
		Now:            clk.Now,
	}, zerolog.Nop())
}

func TestRunOnce_ExitoConfirmaTodosLosReceipts(t *testing.T) {
	q := &fakeQueue{batches: [][]entity.PendingMessage{{
		pending("A", entity.OperationAdd, "r1"),
		pending("A", entity.OperationAdd, "r2"),
		pending("B", entity.OperationAdd, "r3"),
	}}}
	calc := &fakeCalculator{}
	loop := newLoop(q, calc, &fakeWindow{}, &fakeClock{now: time.Now()})

	stats := loop.RunOnce(context.Background())

	assert.Equal(t, 3, stats.Received)
	assert.Equal(t, 2, stats.Deduplicated)
	assert.Equal(t, 2, stats.Succeeded)
	require.Len(t, calc.batches, 1)
	assert.Len(t, calc.batches[0], 2)
	assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, q.deleted)
	assert.Empty(t, q.requeued)
}

func TestRunOnce_FallidoSeReencolaUnaVezPorIdentidad(t *testing.T) {
	q := &fakeQueue{batches: [][]entity.PendingMessage{{
		pending("A", entity.OperationAdd, "r1"),
		pending("A", entity.OperationRemove, "r2"),
		pending("B", entity.OperationAdd, "r3"),
	}}}
	calc := &fakeCalculator{failIDs: map[string]bool{"A": true}}
	loop := newLoop(q, calc, &fakeWindow{}, &fakeClock{now: time.Now()})

	stats := loop.RunOnce(context.Background())

	assert.Equal(t, 2, stats.Failed)
	require.Len(t, q.requeued, 1)
	assert.Equal(t, "r1", q.requeued[0].ReceiptHandle)
	assert.Equal(t, "boom", q.requeued[0].LastError)
	assert.ElementsMatch(t, []string{"r2", "r3"}, q.deleted, "el reencolado borra r1; el resto se confirma")
}

func TestRunOnce_ErrorDeReencoladoNoConfirmaFallidos(t *testing.T) {
	q := &fakeQueue{
		batches: [][]entity.PendingMessage{{
			pending("A", entity.OperationAdd, "r1"),
			pending("A", entity.OperationRemove, "r2"),
			pending("B", entity.OperationAdd, "r3"),
		}},
		requeueErr: errors.New("transport down"),
	}
	calc := &fakeCalculator{failIDs: map[string]bool{"A": true}}
	loop := newLoop(q, calc, &fakeWindow{}, &fakeClock{now: time.Now()})

	loop.RunOnce(context.Background())

	assert.Equal(t, []string{"r3"}, q.deleted)
}

func TestRunOnce_ViolacionDeContratoNoDispone(t *testing.T) {
	q := &fakeQueue{batches: [][]entity.PendingMessage{{pending("A", entity.OperationAdd, "r1")}}}
	calc := &fakeCalculator{err: domain.ErrContractViolation}
	loop := newLoop(q, calc, &fakeWindow{}, &fakeClock{now: time.Now()})

	stats := loop.RunOnce(context.Background())

	assert.Equal(t, 1, stats.Received)
	assert.Zero(t, stats.Succeeded)
	assert.Empty(t, q.deleted)
	assert.Empty(t, q.requeued)
}

func TestRunOnce_ErrorDeTransporteNoDetieneElLoop(t *testing.T) {
	q := &fakeQueue{receiveErr: errors.New("connection refused")}
	calc := &fakeCalculator{}
	w := &fakeWindow{}
	loop := newLoop(q, calc, w, &fakeClock{now: time.Now()})

	stats := loop.RunOnce(context.Background())

	assert.Zero(t, stats.Received)
	assert.Empty(t, calc.batches)
	assert.Zero(t, w.calls)
}

func TestRunOnce_HorizonteSoloTrasIntervaloOcioso(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)}
	q := &fakeQueue{}
	w := &fakeWindow{}
	loop := newLoop(q, &fakeCalculator{}, w, clk)

	assert.True(t, loop.RunOnce(context.Background()).WindowUpdated, "la primera espera ociosa actualiza")
	assert.Equal(t, 1, w.calls)

	clk.now = clk.now.Add(time.Minute)
	assert.False(t, loop.RunOnce(context.Background()).WindowUpdated)

	q.batches = [][]entity.PendingMessage{{pending("A", entity.OperationAdd, "r1")}}
	clk.now = clk.now.Add(10 * time.Minute)
	loop.RunOnce(context.Background())

	clk.now = clk.now.Add(4 * time.Minute)
	assert.False(t, loop.RunOnce(context.Background()).WindowUpdated, "un mensaje reinicia el intervalo")

	clk.now = clk.now.Add(time.Minute)
	assert.True(t, loop.RunOnce(context.Background()).WindowUpdated)
	assert.Equal(t, 2, w.calls)
}

func TestRun_TerminaAlCancelar(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	receives := 0
	q := &fakeQueue{}
	q.onReceive = func() {
		receives++
		if receives == 3 {
			cancel()
		}
	}
	loop := newLoop(q, &fakeCalculator{}, &fakeWindow{}, &fakeClock{now: time.Now()})

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.Equal(t, 3, receives)
	case <-time.After(2 * time.Second):
		t.Fatal("el loop no terminó tras cancelar el contexto")
	}
}
