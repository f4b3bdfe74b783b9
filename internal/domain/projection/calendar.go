package projection

import "time"

const day = 24 * time.Hour

// DateOnly trunca t a la medianoche de su fecha calendario en UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today fecha de hoy (medianoche UTC) según el reloj dado.
func Today(now time.Time) time.Time {
	return DateOnly(now)
}

// DaysOut días calendario entre today y date (negativo si date ya pasó).
// Compara solo fechas UTC, así que un cambio de horario no altera el resultado.
func DaysOut(today, date time.Time) int {
	return int(DateOnly(date).Sub(DateOnly(today)) / day)
}

// AddDays suma n días calendario a la fecha (hora en cero).
func AddDays(date time.Time, n int) time.Time {
	return DateOnly(date).AddDate(0, 0, n)
}
