package entity

import "time"

// FutureDate marcador del horizonte de proyección. DaysOut es 1..N, contiguo y
// ordenado; Date es solo fecha (medianoche UTC).
type FutureDate struct {
	ID      string
	Date    time.Time
	DaysOut int
}

// MarkerEdge arista "newly-projects" de un FutureDate nuevo hacia un ítem.
// Su existencia es la señal para recalcular el ítem con el día agregado.
type MarkerEdge struct {
	ID           string
	FutureDateID string
	ItemID       string
}
