package projection_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

var errBoom = errors.New("boom")

var (
	_ repository.ItemRepository          = (*fakeItems)(nil)
	_ repository.InventoryPlanRepository = (*fakeInventoryPlans)(nil)
	_ repository.TransferPlanRepository  = (*fakeTransferPlans)(nil)
	_ repository.FutureDateRepository    = (*fakeFutureDates)(nil)
	_ repository.ProjectionRepository    = (*fakeProjections)(nil)
	_ repository.ChangeLookupRepository  = (*fakeLookup)(nil)
	_ repository.RuleRepository          = (*fakeRules)(nil)
	_ repository.ViolationRepository     = (*fakeViolations)(nil)
)

type fakeItems struct {
	mu    sync.Mutex
	items map[string]*entity.Item
	fail  map[string]bool
}

func newFakeItems(items ...*entity.Item) *fakeItems {
	f := &fakeItems{items: map[string]*entity.Item{}, fail: map[string]bool{}}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeItems) Create(_ context.Context, item *entity.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.ID] = item
	return nil
}

func (f *fakeItems) GetByID(_ context.Context, id string) (*entity.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[id] {
		return nil, errBoom
	}
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItems) Update(ctx context.Context, item *entity.Item) error { return f.Create(ctx, item) }

func (f *fakeItems) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeItems) List(_ context.Context, _, _ int) ([]*entity.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	return out, nil
}

type fakeInventoryPlans struct {
	byItem map[string][]entity.InventoryPlan
}

func (f *fakeInventoryPlans) Create(context.Context, *entity.InventoryPlan) error { return nil }
func (f *fakeInventoryPlans) GetByID(context.Context, string) (*entity.InventoryPlan, error) {
	return nil, nil
}
func (f *fakeInventoryPlans) Update(context.Context, *entity.InventoryPlan) error { return nil }
func (f *fakeInventoryPlans) Delete(context.Context, string) error                { return nil }
func (f *fakeInventoryPlans) ListByItem(_ context.Context, itemID string) ([]entity.InventoryPlan, error) {
	return f.byItem[itemID], nil
}

type fakeTransferPlans struct {
	plans []entity.TransferPlan
}

func (f *fakeTransferPlans) Create(context.Context, *entity.TransferPlan) error { return nil }
func (f *fakeTransferPlans) GetByID(context.Context, string) (*entity.TransferPlan, error) {
	return nil, nil
}
func (f *fakeTransferPlans) Delete(context.Context, string) error { return nil }
func (f *fakeTransferPlans) ListByItem(_ context.Context, itemID string) ([]entity.TransferPlan, error) {
	var out []entity.TransferPlan
	for _, p := range f.plans {
		if p.FromItemID == itemID || p.ToItemID == itemID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeFutureDates struct {
	mu       sync.Mutex
	dates    []entity.FutureDate
	items    int
	deleted  []entity.FutureDate
	updated  []entity.FutureDate
	created  []entity.FutureDate
	fannedTo []string
}

func (f *fakeFutureDates) List(context.Context) ([]entity.FutureDate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.FutureDate(nil), f.dates...), nil
}

func (f *fakeFutureDates) Delete(_ context.Context, dates []entity.FutureDate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, dates...)
	gone := map[string]bool{}
	for _, d := range dates {
		gone[d.ID] = true
	}
	kept := f.dates[:0]
	for _, d := range f.dates {
		if !gone[d.ID] {
			kept = append(kept, d)
		}
	}
	f.dates = kept
	return nil
}

func (f *fakeFutureDates) Update(_ context.Context, dates []entity.FutureDate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, dates...)
	for _, d := range dates {
		for i := range f.dates {
			if f.dates[i].ID == d.ID {
				f.dates[i] = d
			}
		}
	}
	return nil
}

func (f *fakeFutureDates) Create(_ context.Context, dates []entity.FutureDate) ([]entity.FutureDate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, dates...)
	f.dates = append(f.dates, dates...)
	return dates, nil
}

func (f *fakeFutureDates) FanOutMarkerEdge(_ context.Context, id string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fannedTo = append(f.fannedTo, id)
	return f.items, nil
}

type fakeProjections struct {
	mu     sync.Mutex
	byItem map[string][]entity.Projection
	calls  map[string]int
	fail   map[string]bool
}

func newFakeProjections() *fakeProjections {
	return &fakeProjections{byItem: map[string][]entity.Projection{}, calls: map[string]int{}, fail: map[string]bool{}}
}

func (f *fakeProjections) Replace(_ context.Context, itemID string, projections []entity.Projection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[itemID]++
	if f.fail[itemID] {
		return errBoom
	}
	f.byItem[itemID] = projections
	return nil
}

func (f *fakeProjections) ListByItem(_ context.Context, itemID string) ([]entity.Projection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byItem[itemID], nil
}

type fakeLookup struct {
	mu           sync.Mutex
	plans        map[string]string
	gives        map[string]string
	takes        map[string]string
	edges        map[string]string
	markerClears map[string]int
	// broken simula un colaborador que no devuelve ni id ni error.
	broken bool
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		plans:        map[string]string{},
		gives:        map[string]string{},
		takes:        map[string]string{},
		edges:        map[string]string{},
		markerClears: map[string]int{},
	}
}

func (f *fakeLookup) find(m map[string]string, id string) (string, error) {
	if f.broken {
		return "", nil
	}
	if v, ok := m[id]; ok {
		return v, nil
	}
	return "", domain.ErrUnresolvable
}

func (f *fakeLookup) ItemIDForInventoryPlan(_ context.Context, planID string) (string, error) {
	return f.find(f.plans, planID)
}

func (f *fakeLookup) ItemIDForTransferPlan(_ context.Context, planID string, side repository.TransferSide) (string, error) {
	if side == repository.TransferSideGives {
		return f.find(f.gives, planID)
	}
	return f.find(f.takes, planID)
}

func (f *fakeLookup) ItemIDForMarkerEdge(_ context.Context, edgeID string) (string, error) {
	return f.find(f.edges, edgeID)
}

func (f *fakeLookup) DeleteStaleMarkerEdges(_ context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markerClears[itemID]++
	return nil
}

// fakeRules aplica la misma reparación que el repositorio real, sin transacción.
type fakeRules struct {
	mu    sync.Mutex
	rules []entity.Rule
	heals int
}

func (f *fakeRules) List(context.Context) ([]entity.Rule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Rule(nil), f.rules...), nil
}

func (f *fakeRules) ReplaceRuleSet(_ context.Context, rules []entity.Rule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append([]entity.Rule(nil), rules...)
	return nil
}

func (f *fakeRules) EnsureSingleActiveRule(context.Context) (*entity.Rule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := entity.ActiveRule(f.rules); ok {
		return &r, nil
	}
	r := entity.DefaultRule(uuid.New().String(), time.Now())
	f.rules = []entity.Rule{r}
	f.heals++
	return &r, nil
}

type fakeViolations struct {
	mu     sync.Mutex
	byItem map[string][]entity.Violation
	clears map[string]int
}

func newFakeViolations() *fakeViolations {
	return &fakeViolations{byItem: map[string][]entity.Violation{}, clears: map[string]int{}}
}

func (f *fakeViolations) ClearByItem(_ context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears[itemID]++
	delete(f.byItem, itemID)
	return nil
}

func (f *fakeViolations) Create(_ context.Context, v *entity.Violation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byItem[v.ItemID] = append(f.byItem[v.ItemID], *v)
	return nil
}

func (f *fakeViolations) ListByItem(_ context.Context, itemID string) ([]entity.Violation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byItem[itemID], nil
}
