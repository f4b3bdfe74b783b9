package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de plan de inventario.
const (
	PlanTypeManufacturing = "MANUFACTURING"
	PlanTypeSales         = "SALES"
)

// InventoryPlan plan diario de un ítem: manufactura suma, ventas resta.
// EndDate es exclusivo: el primer día en que el plan ya no tiene efecto.
type InventoryPlan struct {
	ID        string
	ItemID    string
	PlanType  string
	StartDate time.Time
	EndDate   time.Time
	DailyRate decimal.Decimal // siempre positivo en almacenamiento; el signo lo da PlanType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignedRate devuelve la tasa con signo: negativa para ventas, positiva para manufactura.
func (p InventoryPlan) SignedRate() decimal.Decimal {
	if p.PlanType == PlanTypeSales {
		return p.DailyRate.Abs().Neg()
	}
	return p.DailyRate
}

// ValidPlanType indica si t es un tipo de plan conocido.
func ValidPlanType(t string) bool {
	return t == PlanTypeManufacturing || t == PlanTypeSales
}
