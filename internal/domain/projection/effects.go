package projection

import "github.com/shopspring/decimal"

// Day una posición del arreglo de proyección (índice = daysOut - 1 del FutureDate).
type Day struct {
	EndingOnHand    decimal.Decimal
	BeginningOnHand decimal.Decimal
	SupplyInTransit decimal.Decimal
	SupplyPlanned   decimal.Decimal
	DemandPlanned   decimal.Decimal
}

// NewDays arreglo de n días con EndingOnHand = amount y el resto en cero.
func NewDays(n int, amount decimal.Decimal) []Day {
	days := make([]Day, n)
	for i := range days {
		days[i].EndingOnHand = amount
	}
	return days
}

// InventoryPlanEffect aplica un plan de tasa diaria (con signo) sobre days.
//
// Dentro de [start, end) el día i recibe la rampa (i - start + 1) * rate; desde end en
// adelante cada día recibe la cola constante (end - start) * rate. start puede ser negativo
// (plan ya iniciado): el índice se recorta a 0 pero el multiplicador usa el valor sin recortar,
// de modo que lo ya transcurrido entra como un solo bloque. Un plan totalmente pasado aporta
// su efecto completo a todos los días.
func InventoryPlanEffect(days []Day, start, end int, rate decimal.Decimal) {
	n := len(days)
	if end <= start || rate.IsZero() {
		return
	}
	for i := max(start, 0); i < min(end, n); i++ {
		ramp := decimal.NewFromInt(int64(i - start + 1)).Mul(rate)
		days[i].EndingOnHand = days[i].EndingOnHand.Add(ramp)
	}
	tail := decimal.NewFromInt(int64(end - start)).Mul(rate)
	applyTail(days, end, tail)
}

// applyTail suma delta a EndingOnHand desde el índice from (recortado a 0) hasta el final.
func applyTail(days []Day, from int, delta decimal.Decimal) {
	for i := max(from, 0); i < len(days); i++ {
		days[i].EndingOnHand = days[i].EndingOnHand.Add(delta)
	}
}

// TransferTotals acumuladores por índice de día para los traslados de un ítem.
// Se llenan plan a plan y se vuelcan una sola vez sobre el arreglo con Apply.
type TransferTotals struct {
	supply    []decimal.Decimal
	demand    []decimal.Decimal
	inTransit []decimal.Decimal
}

// NewTransferTotals acumuladores del tamaño del horizonte.
func NewTransferTotals(n int) *TransferTotals {
	return &TransferTotals{
		supply:    make([]decimal.Decimal, n),
		demand:    make([]decimal.Decimal, n),
		inTransit: make([]decimal.Decimal, n),
	}
}

// TransferPlanEffect aplica un traslado sobre days y registra oferta/demanda/tránsito en totals.
//
// Origen: pierde amount desde ship (inclusive) en adelante; la demanda va solo al día ship.
// Destino: gana amount desde arrival en adelante; la oferta va solo al día arrival y la cantidad
// queda en tránsito en [ship, arrival).
func TransferPlanEffect(days []Day, totals *TransferTotals, ship, arrival int, amount decimal.Decimal, transferringFrom bool) {
	n := len(days)
	if transferringFrom {
		applyTail(days, ship, amount.Neg())
		if ship >= 0 && ship < n {
			totals.demand[ship] = totals.demand[ship].Add(amount)
		}
		return
	}
	applyTail(days, arrival, amount)
	if arrival >= 0 && arrival < n {
		totals.supply[arrival] = totals.supply[arrival].Add(amount)
	}
	for i := max(ship, 0); i < min(arrival, n); i++ {
		totals.inTransit[i] = totals.inTransit[i].Add(amount)
	}
}

// Apply vuelca los acumuladores sobre days. Los índices se revalidan contra el largo actual.
func (t *TransferTotals) Apply(days []Day) {
	for i := 0; i < len(days) && i < len(t.supply); i++ {
		days[i].SupplyPlanned = t.supply[i]
		days[i].DemandPlanned = t.demand[i]
		days[i].SupplyInTransit = t.inTransit[i]
	}
}

// LinkBeginning deriva BeginningOnHand: el día 0 parte de amount y cada día siguiente del
// EndingOnHand anterior. Siempre es el último paso.
func LinkBeginning(days []Day, amount decimal.Decimal) {
	for i := range days {
		if i == 0 {
			days[i].BeginningOnHand = amount
			continue
		}
		days[i].BeginningOnHand = days[i-1].EndingOnHand
	}
}
