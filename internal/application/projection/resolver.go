package projection

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
	"github.com/sourcegraph/conc/iter"
)

// Result resultado de resolver un cambio: el ítem afectado o el error. Ignored marca
// etiquetas que el motor no procesa (no es error). Un mismo mensaje puede producir
// dos Result (plan de traslado resuelto por ambos lados).
type Result struct {
	Index   int
	ItemID  string
	Err     error
	Ignored bool
}

// Resolver traduce cambios a ids de ítem según su etiqueta.
type Resolver struct {
	lookup repository.ChangeLookupRepository
	// maxGoroutines 0 = GOMAXPROCS.
	maxGoroutines int
}

// NewResolver construye el resolvedor.
func NewResolver(lookup repository.ChangeLookupRepository, maxGoroutines int) *Resolver {
	return &Resolver{lookup: lookup, maxGoroutines: maxGoroutines}
}

type resolution struct {
	index int
	run   func(ctx context.Context) (string, error)
}

// Resolve resuelve el lote de forma concurrente y espera todas las resoluciones.
// Los Result salen en el orden del lote. Una búsqueda que no devuelve ni id ni error
// es un defecto del colaborador: Resolve devuelve domain.ErrContractViolation.
func (r *Resolver) Resolve(ctx context.Context, batch []entity.PendingMessage) ([]Result, error) {
	var tasks []resolution
	var results []Result
	for i, m := range batch {
		steps, err := r.plan(m.Change)
		switch {
		case err != nil:
			results = append(results, Result{Index: i, Err: err})
		case len(steps) == 0:
			results = append(results, Result{Index: i, Ignored: true})
		}
		for _, step := range steps {
			tasks = append(tasks, resolution{index: i, run: step})
		}
	}

	mapper := iter.Mapper[resolution, Result]{MaxGoroutines: r.maxGoroutines}
	resolved := mapper.Map(tasks, func(t *resolution) Result {
		id, err := t.run(ctx)
		return Result{Index: t.index, ItemID: id, Err: err}
	})
	for _, res := range resolved {
		if res.ItemID == "" && res.Err == nil {
			return nil, fmt.Errorf("resolve change %s: %w", batch[res.Index].Identity(), domain.ErrContractViolation)
		}
	}
	results = append(results, resolved...)
	slices.SortStableFunc(results, func(a, b Result) int { return a.Index - b.Index })
	return results, nil
}

// plan decide los pasos de resolución de un cambio. Sin pasos y sin error = etiqueta ignorada.
func (r *Resolver) plan(c entity.DataChange) ([]func(context.Context) (string, error), error) {
	switch c.Label {
	case entity.LabelItem:
		id, err := parseItemID(c.ID)
		if err != nil {
			return nil, err
		}
		return []func(context.Context) (string, error){direct(id)}, nil

	case entity.LabelNewlyProjects:
		if c.Key == entity.KeyItemID {
			id, err := parseItemID(c.Value.Value)
			if err != nil {
				return nil, err
			}
			return []func(context.Context) (string, error){direct(id)}, nil
		}
		return []func(context.Context) (string, error){func(ctx context.Context) (string, error) {
			return r.lookup.ItemIDForMarkerEdge(ctx, c.ID)
		}}, nil

	case entity.LabelInventoryPlan:
		if c.Key == entity.KeyItemID {
			id, err := parseItemID(c.Value.Value)
			if err != nil {
				return nil, err
			}
			return []func(context.Context) (string, error){direct(id)}, nil
		}
		return []func(context.Context) (string, error){func(ctx context.Context) (string, error) {
			return r.lookup.ItemIDForInventoryPlan(ctx, c.ID)
		}}, nil

	case entity.LabelTransferPlan:
		if c.Key == entity.KeyFromItemID || c.Key == entity.KeyToItemID {
			id, err := parseItemID(c.Value.Value)
			if err != nil {
				return nil, err
			}
			return []func(context.Context) (string, error){direct(id)}, nil
		}
		side := func(s repository.TransferSide) func(context.Context) (string, error) {
			return func(ctx context.Context) (string, error) {
				return r.lookup.ItemIDForTransferPlan(ctx, c.ID, s)
			}
		}
		return []func(context.Context) (string, error){
			side(repository.TransferSideGives),
			side(repository.TransferSideTakes),
		}, nil
	}
	return nil, nil
}

func direct(id string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return id, nil }
}

func parseItemID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("item id %q: %w", raw, domain.ErrMalformedChange)
	}
	return id.String(), nil
}
