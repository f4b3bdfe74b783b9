package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryPlanRequest alta o modificación de un plan de inventario. EndDate es exclusivo.
type InventoryPlanRequest struct {
	PlanType  string          `json:"plan_type" validate:"required,oneof=MANUFACTURING SALES"`
	StartDate string          `json:"start_date" validate:"required" example:"2026-10-16"`
	EndDate   string          `json:"end_date" validate:"required" example:"2026-10-26"`
	DailyRate decimal.Decimal `json:"daily_rate"`
}

// InventoryPlanResponse salida de un plan de inventario.
type InventoryPlanResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	PlanType  string          `json:"plan_type"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransferPlanRequest alta de un traslado entre dos ítems.
type TransferPlanRequest struct {
	FromItemID     string          `json:"from_item_id" validate:"required,uuid"`
	ToItemID       string          `json:"to_item_id" validate:"required,uuid"`
	ShipDate       string          `json:"ship_date" validate:"required"`
	ArrivalDate    string          `json:"arrival_date" validate:"required"`
	TransferAmount decimal.Decimal `json:"transfer_amount"`
}

// TransferPlanResponse salida de un traslado.
type TransferPlanResponse struct {
	ID             string          `json:"id"`
	FromItemID     string          `json:"from_item_id"`
	ToItemID       string          `json:"to_item_id"`
	ShipDate       string          `json:"ship_date"`
	ArrivalDate    string          `json:"arrival_date"`
	TransferAmount decimal.Decimal `json:"transfer_amount"`
	CreatedAt      time.Time       `json:"created_at"`
}
