package projection

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
	"github.com/jhoicas/inventory-projections/internal/domain/projection"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
	"github.com/rs/zerolog"
)

// DefaultHorizon días del horizonte de proyección.
const DefaultHorizon = 30

// WindowUpdate resumen de una actualización del horizonte.
type WindowUpdate struct {
	Deleted     int
	Renumbered  int
	Created     int
	MarkerEdges int
}

// Changed indica si la actualización escribió algo.
func (u WindowUpdate) Changed() bool {
	return u.Deleted > 0 || u.Renumbered > 0 || u.Created > 0
}

// RollingDateWindow mantiene exactamente horizon FutureDates vivos, contiguos y sin fechas pasadas.
type RollingDateWindow struct {
	dates   repository.FutureDateRepository
	horizon int
	now     func() time.Time
	log     zerolog.Logger
}

// NewRollingDateWindow construye la ventana. horizon <= 0 usa DefaultHorizon.
func NewRollingDateWindow(dates repository.FutureDateRepository, horizon int, now func() time.Time, log zerolog.Logger) *RollingDateWindow {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if now == nil {
		now = time.Now
	}
	return &RollingDateWindow{dates: dates, horizon: horizon, now: now, log: log}
}

// UpdateFutureDates rota el horizonte: borra las fechas pasadas (y las que sobran si el
// horizonte se redujo), renumera las retenidas desde 1, agrega las fechas que faltan al final
// y crea una arista newly-projects de cada fecha nueva hacia cada ítem. Sin rotación no escribe.
func (w *RollingDateWindow) UpdateFutureDates(ctx context.Context) (WindowUpdate, error) {
	var res WindowUpdate
	existing, err := w.dates.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list future dates: %w", err)
	}
	slices.SortStableFunc(existing, func(a, b entity.FutureDate) int { return a.DaysOut - b.DaysOut })

	today := projection.Today(w.now())
	var stale, retained []entity.FutureDate
	for _, fd := range existing {
		if projection.DateOnly(fd.Date).Before(today) {
			stale = append(stale, fd)
			continue
		}
		retained = append(retained, fd)
	}
	if len(retained) > w.horizon {
		stale = append(stale, retained[w.horizon:]...)
		retained = retained[:w.horizon]
	}

	turnover := min(w.horizon-len(retained), w.horizon)
	if turnover == 0 && len(stale) == 0 {
		return res, nil
	}

	if len(stale) > 0 {
		if err := w.dates.Delete(ctx, stale); err != nil {
			return res, fmt.Errorf("delete future dates: %w", err)
		}
		res.Deleted = len(stale)
	}

	var renumbered []entity.FutureDate
	for i := range retained {
		if retained[i].DaysOut != i+1 {
			retained[i].DaysOut = i + 1
			renumbered = append(renumbered, retained[i])
		}
	}
	if len(renumbered) > 0 {
		if err := w.dates.Update(ctx, renumbered); err != nil {
			return res, fmt.Errorf("renumber future dates: %w", err)
		}
		res.Renumbered = len(renumbered)
	}

	if turnover <= 0 {
		w.log.Info().Int("deleted", res.Deleted).Int("renumbered", res.Renumbered).Msg("horizonte actualizado")
		return res, nil
	}

	base := projection.AddDays(today, -1)
	if n := len(retained); n > 0 {
		if latest := projection.DateOnly(retained[n-1].Date); !latest.Before(today) {
			base = latest
		}
	}
	fresh := make([]entity.FutureDate, turnover)
	for i := range fresh {
		fresh[i] = entity.FutureDate{
			ID:      uuid.New().String(),
			Date:    projection.AddDays(base, i+1),
			DaysOut: len(retained) + i + 1,
		}
	}
	created, err := w.dates.Create(ctx, fresh)
	if err != nil {
		return res, fmt.Errorf("create future dates: %w", err)
	}
	res.Created = len(created)

	for _, fd := range created {
		n, err := w.dates.FanOutMarkerEdge(ctx, fd.ID)
		if err != nil {
			return res, fmt.Errorf("fan out future date %s: %w", fd.ID, err)
		}
		res.MarkerEdges += n
	}

	w.log.Info().
		Int("deleted", res.Deleted).
		Int("renumbered", res.Renumbered).
		Int("created", res.Created).
		Int("marker_edges", res.MarkerEdges).
		Msg("horizonte actualizado")
	return res, nil
}
