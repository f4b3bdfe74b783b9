package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/inventory-projections/internal/application/usecase"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

var errBoom = errors.New("boom")

// store base en memoria compartida por los repos falsos. Run aplica las escrituras y
// publicaciones solo si fn no falla, como una transacción.
type store struct {
	mu         sync.Mutex
	items      map[string]entity.Item
	plans      map[string]entity.InventoryPlan
	transfers  map[string]entity.TransferPlan
	published  []entity.DataChange
	publishErr error
}

func newStore() *store {
	return &store{
		items:     map[string]entity.Item{},
		plans:     map[string]entity.InventoryPlan{},
		transfers: map[string]entity.TransferPlan{},
	}
}

var _ usecase.TxRunner = (*store)(nil)

func (s *store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	inventoryPlanRepo repository.InventoryPlanRepository,
	transferPlanRepo repository.TransferPlanRepository,
	publisher repository.ChangePublisher,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &store{
		items:      clone(s.items),
		plans:      clone(s.plans),
		transfers:  clone(s.transfers),
		publishErr: s.publishErr,
	}
	if err := fn(itemRepo{tx}, planRepo{tx}, transferRepo{tx}, tx); err != nil {
		return err
	}
	s.items, s.plans, s.transfers = tx.items, tx.plans, tx.transfers
	s.published = append(s.published, tx.published...)
	return nil
}

func (s *store) Publish(_ context.Context, changes ...entity.DataChange) error {
	if s.publishErr != nil {
		return s.publishErr
	}
	s.published = append(s.published, changes...)
	return nil
}

func clone[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type itemRepo struct{ s *store }

func (r itemRepo) Create(_ context.Context, it *entity.Item) error {
	if _, ok := r.s.items[it.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.items[it.ID] = *it
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r itemRepo) Update(_ context.Context, it *entity.Item) error {
	if _, ok := r.s.items[it.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.items[it.ID] = *it
	return nil
}

func (r itemRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	for pid, p := range r.s.plans {
		if p.ItemID == id {
			delete(r.s.plans, pid)
		}
	}
	for tid, t := range r.s.transfers {
		if t.FromItemID == id || t.ToItemID == id {
			delete(r.s.transfers, tid)
		}
	}
	return nil
}

func (r itemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	ids := make([]string, 0, len(r.s.items))
	for id := range r.s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.Item
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		it := r.s.items[ids[i]]
		out = append(out, &it)
	}
	return out, nil
}

type planRepo struct{ s *store }

func (r planRepo) Create(_ context.Context, p *entity.InventoryPlan) error {
	if _, ok := r.s.items[p.ItemID]; !ok {
		return domain.ErrNotFound
	}
	r.s.plans[p.ID] = *p
	return nil
}

func (r planRepo) GetByID(_ context.Context, id string) (*entity.InventoryPlan, error) {
	p, ok := r.s.plans[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r planRepo) Update(_ context.Context, p *entity.InventoryPlan) error {
	r.s.plans[p.ID] = *p
	return nil
}

func (r planRepo) Delete(_ context.Context, id string) error {
	delete(r.s.plans, id)
	return nil
}

func (r planRepo) ListByItem(_ context.Context, itemID string) ([]entity.InventoryPlan, error) {
	var out []entity.InventoryPlan
	for _, p := range r.s.plans {
		if p.ItemID == itemID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type transferRepo struct{ s *store }

func (r transferRepo) Create(_ context.Context, p *entity.TransferPlan) error {
	_, from := r.s.items[p.FromItemID]
	_, to := r.s.items[p.ToItemID]
	if !from || !to {
		return domain.ErrNotFound
	}
	r.s.transfers[p.ID] = *p
	return nil
}

func (r transferRepo) GetByID(_ context.Context, id string) (*entity.TransferPlan, error) {
	p, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r transferRepo) Delete(_ context.Context, id string) error {
	delete(r.s.transfers, id)
	return nil
}

func (r transferRepo) ListByItem(_ context.Context, itemID string) ([]entity.TransferPlan, error) {
	var out []entity.TransferPlan
	for _, p := range r.s.transfers {
		if p.FromItemID == itemID || p.ToItemID == itemID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeRules struct {
	rules      []entity.Rule
	replaceErr error
}

func (f *fakeRules) List(context.Context) ([]entity.Rule, error) { return f.rules, nil }

func (f *fakeRules) ReplaceRuleSet(_ context.Context, rules []entity.Rule) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.rules = append([]entity.Rule(nil), rules...)
	return nil
}

func (f *fakeRules) EnsureSingleActiveRule(context.Context) (*entity.Rule, error) {
	if r, ok := entity.ActiveRule(f.rules); ok {
		return &r, nil
	}
	r := entity.DefaultRule("r-default", fixedNow)
	f.rules = []entity.Rule{r}
	return &r, nil
}

type fakeProjections struct {
	byItem map[string][]entity.Projection
}

func (f *fakeProjections) Replace(_ context.Context, itemID string, list []entity.Projection) error {
	f.byItem[itemID] = list
	return nil
}

func (f *fakeProjections) ListByItem(_ context.Context, itemID string) ([]entity.Projection, error) {
	return f.byItem[itemID], nil
}

type fakeViolations struct {
	byItem map[string][]entity.Violation
}

func (f *fakeViolations) ClearByItem(_ context.Context, itemID string) error {
	delete(f.byItem, itemID)
	return nil
}

func (f *fakeViolations) Create(_ context.Context, v *entity.Violation) error {
	f.byItem[v.ItemID] = append(f.byItem[v.ItemID], *v)
	return nil
}

func (f *fakeViolations) ListByItem(_ context.Context, itemID string) ([]entity.Violation, error) {
	return f.byItem[itemID], nil
}

type fakeReports struct {
	got usecase.ProjectionReport
}

func (f *fakeReports) GenerateProjectionReport(r usecase.ProjectionReport) ([]byte, error) {
	f.got = r
	return []byte("%PDF-1.4"), nil
}
