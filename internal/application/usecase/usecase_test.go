package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/inventory-projections/internal/application/dto"
	"github.com/jhoicas/inventory-projections/internal/application/projection"
	"github.com/jhoicas/inventory-projections/internal/application/usecase"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func pending(changes []entity.DataChange) []entity.PendingMessage {
	out := make([]entity.PendingMessage, 0, len(changes))
	for _, c := range changes {
		out = append(out, entity.PendingMessage{Change: c})
	}
	return out
}

func createItem(t *testing.T, s *store, name string, amount int64) string {
	t.Helper()
	uc := usecase.NewItemUseCase(s, itemRepo{s})
	out, err := uc.Create(context.Background(), dto.CreateItemRequest{Name: name, Amount: decimal.NewFromInt(amount)})
	require.NoError(t, err)
	return out.ID
}

func TestItemUseCase_CreatePublishesChange(t *testing.T) {
	s := newStore()
	uc := usecase.NewItemUseCase(s, itemRepo{s})

	out, err := uc.Create(context.Background(), dto.CreateItemRequest{
		Name: "Tornillo", Amount: decimal.NewFromInt(1000), EntryDate: "2026-10-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-01", out.EntryDate)

	require.Len(t, s.published, 1)
	c := s.published[0]
	assert.Equal(t, out.ID, c.ID)
	assert.Equal(t, entity.OperationAdd, c.Operation)
	assert.Equal(t, entity.LabelItem, c.Label)
	assert.Equal(t, "amount", c.Key)
	assert.Equal(t, "1000", c.Value.Value)
}

func TestItemUseCase_CreateRejectsInvalidInput(t *testing.T) {
	s := newStore()
	uc := usecase.NewItemUseCase(s, itemRepo{s})

	_, err := uc.Create(context.Background(), dto.CreateItemRequest{Name: "x", Amount: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), dto.CreateItemRequest{Name: "x", EntryDate: "16/10/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, s.items)
	assert.Empty(t, s.published)
}

func TestItemUseCase_PublishFailureRollsBack(t *testing.T) {
	s := newStore()
	s.publishErr = errBoom
	uc := usecase.NewItemUseCase(s, itemRepo{s})

	_, err := uc.Create(context.Background(), dto.CreateItemRequest{Name: "x", Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, s.items, "la escritura no se confirma si el cambio no se publica")
}

func TestItemUseCase_Update(t *testing.T) {
	s := newStore()
	id := createItem(t, s, "Tuerca", 10)
	uc := usecase.NewItemUseCase(s, itemRepo{s})

	amount := decimal.NewFromInt(25)
	out, err := uc.Update(context.Background(), id, dto.UpdateItemRequest{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, out.Amount.Equal(amount))

	last := s.published[len(s.published)-1]
	assert.Equal(t, id, last.ID)
	assert.Equal(t, "amount", last.Key)
	assert.Equal(t, "25", last.Value.Value)

	missing, err := uc.Update(context.Background(), "00000000-0000-0000-0000-000000000000", dto.UpdateItemRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestItemUseCase_DeleteNotifiesTransferCounterpart(t *testing.T) {
	s := newStore()
	a := createItem(t, s, "A", 10)
	b := createItem(t, s, "B", 10)
	plans := usecase.NewPlanUseCase(s, planRepo{s}, transferRepo{s})
	_, err := plans.CreateTransferPlan(context.Background(), dto.TransferPlanRequest{
		FromItemID: a, ToItemID: b, ShipDate: "2026-10-17", ArrivalDate: "2026-10-20", TransferAmount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	s.published = nil

	uc := usecase.NewItemUseCase(s, itemRepo{s})
	require.NoError(t, uc.Delete(context.Background(), a))

	require.Len(t, s.published, 2)
	assert.Equal(t, a, s.published[0].ID)
	assert.Equal(t, entity.OperationRemove, s.published[0].Operation)
	assert.Equal(t, b, s.published[1].ID)
	assert.Equal(t, entity.LabelItem, s.published[1].Label)
	assert.Empty(t, s.transfers)

	assert.ErrorIs(t, uc.Delete(context.Background(), a), domain.ErrNotFound)
}

func TestPlanUseCase_InventoryPlanLifecycle(t *testing.T) {
	s := newStore()
	itemID := createItem(t, s, "Perno", 100)
	uc := usecase.NewPlanUseCase(s, planRepo{s}, transferRepo{s})
	ctx := context.Background()
	s.published = nil

	plan, err := uc.CreateInventoryPlan(ctx, itemID, dto.InventoryPlanRequest{
		PlanType: entity.PlanTypeSales, StartDate: "2026-10-16", EndDate: "2026-10-26", DailyRate: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.Len(t, s.published, 1)
	assert.Equal(t, plan.ID, s.published[0].ID)
	assert.Equal(t, entity.LabelInventoryPlan, s.published[0].Label)
	assert.Equal(t, entity.KeyItemID, s.published[0].Key)
	assert.Equal(t, itemID, s.published[0].Value.Value)

	updated, err := uc.UpdateInventoryPlan(ctx, plan.ID, dto.InventoryPlanRequest{
		PlanType: entity.PlanTypeManufacturing, StartDate: "2026-10-16", EndDate: "2026-10-20", DailyRate: decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PlanTypeManufacturing, updated.PlanType)

	require.NoError(t, uc.DeleteInventoryPlan(ctx, plan.ID))
	last := s.published[len(s.published)-1]
	assert.Equal(t, entity.OperationRemove, last.Operation)
	assert.Equal(t, itemID, last.Value.Value, "el REMOVE se resuelve sin consultar el plan borrado")

	assert.ErrorIs(t, uc.DeleteInventoryPlan(ctx, plan.ID), domain.ErrNotFound)
}

func TestPlanUseCase_InventoryPlanValidation(t *testing.T) {
	s := newStore()
	itemID := createItem(t, s, "Perno", 100)
	uc := usecase.NewPlanUseCase(s, planRepo{s}, transferRepo{s})
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.InventoryPlanRequest
		want error
	}{
		{"tipo desconocido", dto.InventoryPlanRequest{PlanType: "RETURNS", StartDate: "2026-10-16", EndDate: "2026-10-17"}, domain.ErrInvalidInput},
		{"fin antes de inicio", dto.InventoryPlanRequest{PlanType: entity.PlanTypeSales, StartDate: "2026-10-16", EndDate: "2026-10-10"}, domain.ErrInvalidInput},
		{"tasa negativa", dto.InventoryPlanRequest{PlanType: entity.PlanTypeSales, StartDate: "2026-10-16", EndDate: "2026-10-17", DailyRate: decimal.NewFromInt(-1)}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateInventoryPlan(ctx, itemID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := uc.CreateInventoryPlan(ctx, "00000000-0000-0000-0000-000000000000", dto.InventoryPlanRequest{
		PlanType: entity.PlanTypeSales, StartDate: "2026-10-16", EndDate: "2026-10-17",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanUseCase_TransferChangesSurviveDeduplication(t *testing.T) {
	s := newStore()
	a := createItem(t, s, "A", 10)
	b := createItem(t, s, "B", 10)
	uc := usecase.NewPlanUseCase(s, planRepo{s}, transferRepo{s})
	ctx := context.Background()
	s.published = nil

	tp, err := uc.CreateTransferPlan(ctx, dto.TransferPlanRequest{
		FromItemID: a, ToItemID: b, ShipDate: "2026-10-17", ArrivalDate: "2026-10-20", TransferAmount: decimal.NewFromInt(7),
	})
	require.NoError(t, err)

	kept := projection.ByOperation(pending(s.published))
	require.Len(t, kept, 2, "ambos extremos deben llegar al motor")
	assert.Equal(t, tp.ID, kept[0].Change.ID)
	assert.Equal(t, a, kept[0].Change.Value.Value)
	assert.Equal(t, b, kept[1].Change.ID)

	listed, err := uc.ListTransferPlans(ctx, b)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = uc.CreateTransferPlan(ctx, dto.TransferPlanRequest{
		FromItemID: a, ToItemID: a, ShipDate: "2026-10-17", ArrivalDate: "2026-10-20", TransferAmount: decimal.NewFromInt(7),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s.published = nil
	require.NoError(t, uc.DeleteTransferPlan(ctx, tp.ID))
	assert.Len(t, s.published, 2)
	assert.ErrorIs(t, uc.DeleteTransferPlan(ctx, tp.ID), domain.ErrNotFound)
}

func TestRuleUseCase_GetHealsAndPutEnqueuesEveryItem(t *testing.T) {
	s := newStore()
	a := createItem(t, s, "A", 10)
	b := createItem(t, s, "B", 10)
	s.published = nil
	rules := &fakeRules{}
	uc := usecase.NewRuleUseCase(rules, itemRepo{s}, s)
	ctx := context.Background()

	got, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultRuleName, got.Name)
	assert.True(t, got.MinAllowed.IsZero())

	put, err := uc.Put(ctx, dto.RuleRequest{Name: "stock mínimo", MinAllowed: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, "stock mínimo", put.Name)
	require.Len(t, rules.rules, 1)

	ids := []string{}
	for _, c := range s.published {
		assert.Equal(t, entity.LabelItem, c.Label)
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{a, b}, ids)

	_, err = uc.Put(ctx, dto.RuleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRuleUseCase_ReplaceFailureEnqueuesNothing(t *testing.T) {
	s := newStore()
	createItem(t, s, "A", 10)
	s.published = nil
	uc := usecase.NewRuleUseCase(&fakeRules{replaceErr: errBoom}, itemRepo{s}, s)

	_, err := uc.Put(context.Background(), dto.RuleRequest{Name: "x"})
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, s.published)
}

func TestProjectionUseCase_Reads(t *testing.T) {
	s := newStore()
	id := createItem(t, s, "Arandela", 50)
	generated := fixedNow.Add(-time.Minute)
	projections := &fakeProjections{byItem: map[string][]entity.Projection{
		id: {
			{ItemID: id, Date: fixedNow, DaysOut: 1, BeginningOnHand: decimal.NewFromInt(50), EndingOnHand: decimal.NewFromInt(40), GeneratedAt: generated},
			{ItemID: id, Date: fixedNow.AddDate(0, 0, 1), DaysOut: 2, BeginningOnHand: decimal.NewFromInt(40), EndingOnHand: decimal.NewFromInt(-5), GeneratedAt: generated},
		},
	}}
	violations := &fakeViolations{byItem: map[string][]entity.Violation{
		id: {{ID: "v1", ItemID: id, RuleID: "r1", Date: fixedNow.AddDate(0, 0, 1)}},
	}}
	rules := &fakeRules{rules: []entity.Rule{{ID: "r1", Name: "min", MinAllowed: decimal.Zero}}}
	reports := &fakeReports{}
	uc := usecase.NewProjectionUseCase(itemRepo{s}, projections, violations, rules, reports)
	ctx := context.Background()

	proj, err := uc.GetProjection(ctx, id)
	require.NoError(t, err)
	require.Len(t, proj.Days, 2)
	assert.Equal(t, "Arandela", proj.ItemName)
	assert.Equal(t, generated, *proj.GeneratedAt)
	assert.Equal(t, "2026-10-17", proj.Days[1].Date)
	assert.Equal(t, "-5", proj.Days[1].EndingOnHand.String())

	vs, err := uc.ListViolations(ctx, id)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "2026-10-17", vs[0].Date)

	pdf, err := uc.Report(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	require.NotNil(t, reports.got.Rule)
	assert.Equal(t, "r1", reports.got.Rule.ID)
	assert.Len(t, reports.got.Projections, 2)

	missing, err := uc.GetProjection(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
	_, err = uc.ListViolations(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Report(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
