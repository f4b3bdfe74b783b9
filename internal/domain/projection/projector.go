package projection

import (
	"time"

	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemInput datos de un ítem para un pase de proyección. Horizon debe venir ordenado por DaysOut.
type ItemInput struct {
	ItemID         string
	Amount         decimal.Decimal
	Horizon        []entity.FutureDate
	InventoryPlans []entity.InventoryPlan
	Transfers      []entity.ItemTransfer
	Today          time.Time
	GeneratedAt    time.Time
}

// ProjectDays calcula el arreglo día a día del ítem en tres pases: planes de inventario,
// traslados y derivación del inventario inicial de cada día.
func ProjectDays(in ItemInput) []Day {
	today := DateOnly(in.Today)
	days := NewDays(len(in.Horizon), in.Amount)

	for _, plan := range in.InventoryPlans {
		start := DaysOut(today, plan.StartDate)
		end := DaysOut(today, plan.EndDate)
		InventoryPlanEffect(days, start, end, plan.SignedRate())
	}

	totals := NewTransferTotals(len(days))
	for _, t := range in.Transfers {
		ship := DaysOut(today, t.ShipDate)
		arrival := DaysOut(today, t.ArrivalDate)
		TransferPlanEffect(days, totals, ship, arrival, t.TransferAmount, t.TransferringFrom)
	}
	totals.Apply(days)

	LinkBeginning(days, in.Amount)
	return days
}

// Project devuelve una proyección por FutureDate, en el orden del horizonte.
func Project(in ItemInput) []entity.Projection {
	days := ProjectDays(in)
	out := make([]entity.Projection, len(days))
	for i, d := range days {
		fd := in.Horizon[i]
		out[i] = entity.Projection{
			ItemID:          in.ItemID,
			FutureDateID:    fd.ID,
			Date:            fd.Date,
			DaysOut:         fd.DaysOut,
			EndingOnHand:    d.EndingOnHand,
			BeginningOnHand: d.BeginningOnHand,
			SupplyInTransit: d.SupplyInTransit,
			SupplyPlanned:   d.SupplyPlanned,
			DemandPlanned:   d.DemandPlanned,
			GeneratedAt:     in.GeneratedAt,
		}
	}
	return out
}
