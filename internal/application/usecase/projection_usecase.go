package usecase

import (
	"context"

	"github.com/jhoicas/inventory-projections/internal/application/dto"
	"github.com/jhoicas/inventory-projections/internal/domain"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

// ProjectionUseCase lecturas de lo que el motor calculó: serie, violaciones y reporte PDF.
type ProjectionUseCase struct {
	items       repository.ItemRepository
	projections repository.ProjectionRepository
	violations  repository.ViolationRepository
	rules       repository.RuleRepository
	reports     ReportGenerator
}

// NewProjectionUseCase construye el caso de uso.
func NewProjectionUseCase(
	items repository.ItemRepository,
	projections repository.ProjectionRepository,
	violations repository.ViolationRepository,
	rules repository.RuleRepository,
	reports ReportGenerator,
) *ProjectionUseCase {
	return &ProjectionUseCase{items: items, projections: projections, violations: violations, rules: rules, reports: reports}
}

// GetProjection serie del ítem ordenada por daysOut. (nil, nil) si el ítem no existe.
// Un ítem aún no procesado por el motor devuelve Days vacío.
func (uc *ProjectionUseCase) GetProjection(ctx context.Context, itemID string) (*dto.ProjectionResponse, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil || item == nil {
		return nil, err
	}
	list, err := uc.projections.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProjectionResponse{
		ItemID:   item.ID,
		ItemName: item.Name,
		Days:     make([]dto.ProjectionDayResponse, 0, len(list)),
	}
	for _, p := range list {
		if out.GeneratedAt == nil {
			generated := p.GeneratedAt
			out.GeneratedAt = &generated
		}
		out.Days = append(out.Days, toProjectionDayResponse(p))
	}
	return out, nil
}

// ListViolations fechas en que el ítem rompe la regla. ErrNotFound si el ítem no existe.
func (uc *ProjectionUseCase) ListViolations(ctx context.Context, itemID string) ([]dto.ViolationResponse, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.violations.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ViolationResponse, 0, len(list))
	for _, v := range list {
		out = append(out, dto.ViolationResponse{ID: v.ID, RuleID: v.RuleID, Date: formatDate(v.Date)})
	}
	return out, nil
}

// Report genera el PDF de proyección del ítem. ErrNotFound si el ítem no existe.
func (uc *ProjectionUseCase) Report(ctx context.Context, itemID string) ([]byte, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	projections, err := uc.projections.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	violations, err := uc.violations.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	rules, err := uc.rules.List(ctx)
	if err != nil {
		return nil, err
	}
	report := ProjectionReport{Item: item, Projections: projections, Violations: violations}
	if rule, ok := entity.ActiveRule(rules); ok {
		report.Rule = &rule
	}
	return uc.reports.GenerateProjectionReport(report)
}

func toProjectionDayResponse(p entity.Projection) dto.ProjectionDayResponse {
	return dto.ProjectionDayResponse{
		Date:            formatDate(p.Date),
		DaysOut:         p.DaysOut,
		BeginningOnHand: p.BeginningOnHand,
		EndingOnHand:    p.EndingOnHand,
		SupplyInTransit: p.SupplyInTransit,
		SupplyPlanned:   p.SupplyPlanned,
		DemandPlanned:   p.DemandPlanned,
	}
}
