package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferPlan traslado de cantidad entre dos ítems (origen "gives", destino "takes").
type TransferPlan struct {
	ID             string
	FromItemID     string
	ToItemID       string
	ShipDate       time.Time
	ArrivalDate    time.Time
	TransferAmount decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ItemTransfer vista de un TransferPlan desde uno de sus dos ítems.
// TransferringFrom es true cuando el ítem es el origen: la cantidad sale en ShipDate.
// Si es destino, la cantidad llega en ArrivalDate y está "en tránsito" entre ambas fechas.
type ItemTransfer struct {
	PlanID           string
	ShipDate         time.Time
	ArrivalDate      time.Time
	TransferAmount   decimal.Decimal
	TransferringFrom bool
}

// ForItem proyecta el plan sobre itemID. ok es false si el ítem no participa.
func (t TransferPlan) ForItem(itemID string) (ItemTransfer, bool) {
	view := ItemTransfer{
		PlanID:         t.ID,
		ShipDate:       t.ShipDate,
		ArrivalDate:    t.ArrivalDate,
		TransferAmount: t.TransferAmount,
	}
	switch itemID {
	case t.FromItemID:
		view.TransferringFrom = true
		return view, true
	case t.ToItemID:
		return view, true
	}
	return ItemTransfer{}, false
}
