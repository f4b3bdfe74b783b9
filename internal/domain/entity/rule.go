package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRuleName nombre de la regla que se inserta al auto-reparar el conjunto de reglas.
const DefaultRuleName = "default"

// Rule umbral mínimo permitido de inventario. Solo existe una regla activa.
type Rule struct {
	ID         string
	Name       string
	MinAllowed decimal.Decimal
	CreatedAt  time.Time
}

// Violation ítem que rompe la regla en una fecha proyectada.
type Violation struct {
	ID        string
	ItemID    string
	RuleID    string
	Date      time.Time
	CreatedAt time.Time
}

// DefaultRule regla que se inserta al reparar el conjunto (min_allowed = 0).
func DefaultRule(id string, now time.Time) Rule {
	return Rule{ID: id, Name: DefaultRuleName, MinAllowed: decimal.Zero, CreatedAt: now}
}

// ActiveRule devuelve la regla activa cuando hay exactamente una. Con cero o varias
// devuelve ok = false y el conjunto debe reemplazarse por DefaultRule.
func ActiveRule(rules []Rule) (Rule, bool) {
	if len(rules) != 1 {
		return Rule{}, false
	}
	return rules[0], true
}
