package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionDayResponse un día de la proyección de un ítem.
type ProjectionDayResponse struct {
	Date            string          `json:"date"`
	DaysOut         int             `json:"days_out"`
	BeginningOnHand decimal.Decimal `json:"beginning_on_hand"`
	EndingOnHand    decimal.Decimal `json:"ending_on_hand"`
	SupplyInTransit decimal.Decimal `json:"supply_in_transit"`
	SupplyPlanned   decimal.Decimal `json:"supply_planned"`
	DemandPlanned   decimal.Decimal `json:"demand_planned"`
}

// ProjectionResponse serie completa de un ítem.
type ProjectionResponse struct {
	ItemID      string                  `json:"item_id"`
	ItemName    string                  `json:"item_name"`
	GeneratedAt *time.Time              `json:"generated_at,omitempty"`
	Days        []ProjectionDayResponse `json:"days"`
}

// ViolationResponse una fecha en que el ítem rompe la regla.
type ViolationResponse struct {
	ID     string `json:"id"`
	RuleID string `json:"rule_id"`
	Date   string `json:"date"`
}

// RuleRequest reemplazo de la regla activa.
type RuleRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=100"`
	MinAllowed decimal.Decimal `json:"min_allowed"`
}

// RuleResponse regla activa.
type RuleResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	MinAllowed decimal.Decimal `json:"min_allowed"`
	CreatedAt  time.Time       `json:"created_at"`
}
