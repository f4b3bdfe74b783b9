package projection

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/projection"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Repositories colaboradores de persistencia que usa el Calculator.
type Repositories struct {
	Items          repository.ItemRepository
	InventoryPlans repository.InventoryPlanRepository
	TransferPlans  repository.TransferPlanRepository
	FutureDates    repository.FutureDateRepository
	Projections    repository.ProjectionRepository
	Lookup         repository.ChangeLookupRepository
}

// Calculator orquesta un lote: resuelve cambios a ítems, recalcula cada ítem una vez y
// clasifica cada mensaje como éxito o fallo.
type Calculator struct {
	repos      Repositories
	resolver   *Resolver
	violations *ViolationEvaluator
	workers    int
	now        func() time.Time
	log        zerolog.Logger
}

// CalculatorConfig opciones del Calculator. Workers limita los ítems recalculados en paralelo.
type CalculatorConfig struct {
	Workers int
	Now     func() time.Time
}

// NewCalculator construye el orquestador.
func NewCalculator(repos Repositories, violations *ViolationEvaluator, cfg CalculatorConfig, log zerolog.Logger) *Calculator {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Calculator{
		repos:      repos,
		resolver:   NewResolver(repos.Lookup, cfg.Workers),
		violations: violations,
		workers:    cfg.Workers,
		now:        cfg.Now,
		log:        log,
	}
}

// Calculate procesa un lote ya deduplicado por operación. Devuelve los mensajes exitosos y los
// fallidos (copias con LastError informado). Un error solo se devuelve ante una violación de
// contrato de un colaborador; en ese caso no debe disponerse ningún mensaje del lote.
func (c *Calculator) Calculate(ctx context.Context, batch []entity.PendingMessage) (successes, failures []entity.PendingMessage, err error) {
	if len(batch) == 0 {
		return nil, nil, nil
	}
	results, err := c.resolver.Resolve(ctx, batch)
	if err != nil {
		return nil, nil, err
	}

	failed := make([]error, len(batch))
	var order []string
	contributors := make(map[string][]int)
	for _, res := range results {
		switch {
		case res.Err != nil:
			if failed[res.Index] == nil {
				failed[res.Index] = res.Err
			}
		case res.Ignored:
		default:
			if _, ok := contributors[res.ItemID]; !ok {
				order = append(order, res.ItemID)
			}
			if idx := contributors[res.ItemID]; !slices.Contains(idx, res.Index) {
				contributors[res.ItemID] = append(idx, res.Index)
			}
		}
	}

	if len(order) > 0 {
		itemErrs := c.recomputeAll(ctx, order)
		for i, itemID := range order {
			if itemErrs[i] == nil {
				continue
			}
			for _, idx := range contributors[itemID] {
				if failed[idx] == nil {
					failed[idx] = fmt.Errorf("recompute item %s: %w", itemID, itemErrs[i])
				}
			}
		}
	}

	for i, m := range batch {
		if failed[i] == nil {
			successes = append(successes, m)
			continue
		}
		m.LastError = failed[i].Error()
		failures = append(failures, m)
		c.log.Warn().
			Str("change_id", m.Change.ID).
			Str("label", m.Change.Label).
			Str("operation", m.Change.Operation).
			Err(failed[i]).
			Msg("cambio fallido")
	}
	return successes, failures, nil
}

// recomputeAll recalcula cada ítem una vez. Un ítem fallido no detiene a los demás.
func (c *Calculator) recomputeAll(ctx context.Context, itemIDs []string) []error {
	errs := make([]error, len(itemIDs))
	horizon, err := c.repos.FutureDates.List(ctx)
	if err != nil {
		for i := range errs {
			errs[i] = fmt.Errorf("list future dates: %w", err)
		}
		return errs
	}
	slices.SortStableFunc(horizon, func(a, b entity.FutureDate) int { return a.DaysOut - b.DaysOut })

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, itemID := range itemIDs {
		i, itemID := i, itemID
		g.Go(func() error {
			errs[i] = c.Recompute(ctx, itemID, horizon)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// Recompute carga el ítem con sus planes, proyecta sobre el horizonte, reemplaza sus
// proyecciones y reevalúa sus violaciones. Si el ítem ya no existe limpia ambas.
func (c *Calculator) Recompute(ctx context.Context, itemID string, horizon []entity.FutureDate) error {
	if err := c.repos.Lookup.DeleteStaleMarkerEdges(ctx, itemID); err != nil {
		return fmt.Errorf("delete marker edges: %w", err)
	}
	now := c.now()
	today := projection.Today(now)

	item, err := c.repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		if err := c.repos.Projections.Replace(ctx, itemID, nil); err != nil {
			return fmt.Errorf("clear projections: %w", err)
		}
		if _, err := c.violations.HandleViolations(ctx, itemID, today, nil); err != nil {
			return err
		}
		c.log.Debug().Str("item_id", itemID).Msg("ítem inexistente, proyecciones limpiadas")
		return nil
	}

	plans, err := c.repos.InventoryPlans.ListByItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("list inventory plans: %w", err)
	}
	transferPlans, err := c.repos.TransferPlans.ListByItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("list transfer plans: %w", err)
	}
	transfers := make([]entity.ItemTransfer, 0, len(transferPlans))
	for _, tp := range transferPlans {
		if view, ok := tp.ForItem(itemID); ok {
			transfers = append(transfers, view)
		}
	}

	projections := projection.Project(projection.ItemInput{
		ItemID:         itemID,
		Amount:         item.Amount,
		Horizon:        horizon,
		InventoryPlans: plans,
		Transfers:      transfers,
		Today:          today,
		GeneratedAt:    now,
	})
	if err := c.repos.Projections.Replace(ctx, itemID, projections); err != nil {
		return fmt.Errorf("replace projections: %w", err)
	}
	violations, err := c.violations.HandleViolations(ctx, itemID, today, projections)
	if err != nil {
		return err
	}
	c.log.Debug().
		Str("item_id", itemID).
		Int("days", len(projections)).
		Int("violations", violations).
		Msg("ítem recalculado")
	return nil
}
