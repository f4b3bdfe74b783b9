package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del inventario con su existencia actual (on-hand).
// El motor de proyecciones lo lee en modo solo lectura en cada recálculo.
type Item struct {
	ID        string
	Name      string
	Amount    decimal.Decimal // existencia actual
	EntryDate time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
