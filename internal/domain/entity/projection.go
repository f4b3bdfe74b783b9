package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Projection inventario proyectado de un ítem para un FutureDate (arista item→future-date).
// Invariante: BeginningOnHand[0] = Item.Amount y BeginningOnHand[i] = EndingOnHand[i-1].
type Projection struct {
	ItemID          string
	FutureDateID    string
	Date            time.Time
	DaysOut         int
	EndingOnHand    decimal.Decimal
	BeginningOnHand decimal.Decimal
	SupplyInTransit decimal.Decimal
	SupplyPlanned   decimal.Decimal // llega ese día
	DemandPlanned   decimal.Decimal // sale ese día
	GeneratedAt     time.Time
}
