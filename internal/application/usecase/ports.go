package usecase

import (
	"context"

	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

// TxRunner ejecuta escrituras de ítems y planes junto con la publicación de sus cambios
// en una única transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		inventoryPlanRepo repository.InventoryPlanRepository,
		transferPlanRepo repository.TransferPlanRepository,
		publisher repository.ChangePublisher,
	) error) error
}

// ReportGenerator genera el PDF de proyección de un ítem.
type ReportGenerator interface {
	GenerateProjectionReport(report ProjectionReport) ([]byte, error)
}

// ProjectionReport datos que alimentan el reporte PDF.
type ProjectionReport struct {
	Item        *entity.Item
	Rule        *entity.Rule
	Projections []entity.Projection
	Violations  []entity.Violation
}
