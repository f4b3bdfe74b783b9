package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas (solo día) en la API.
const DateLayout = "2006-01-02"

// CreateItemRequest entrada para crear un ítem. EntryDate vacío = hoy.
type CreateItemRequest struct {
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	Amount    decimal.Decimal `json:"amount"`
	EntryDate string          `json:"entry_date" example:"2026-10-16"`
}

// UpdateItemRequest actualización parcial de un ítem.
type UpdateItemRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Amount    *decimal.Decimal `json:"amount"`
	EntryDate *string          `json:"entry_date"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	EntryDate string          `json:"entry_date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
