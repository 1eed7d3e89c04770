package pantry

import "time"

// Item representa un producto de la despensa.
// ExpiresAt en nil significa "no vence" (cables, pilas, etc.);
// esos items nunca aparecen en consultas por vencimiento.
type Item struct {
	ID string

	Name     string
	Quantity int
	Category string // libre, opcional ("Pantry", "Electronics", ...)

	// Fecha calendario, normalizada a medianoche UTC.
	ExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpiresWithin reporta si el item vence dentro de [start, end], ambos inclusive.
// Items sin vencimiento quedan fuera siempre.
func (it Item) ExpiresWithin(start, end time.Time) bool {
	if it.ExpiresAt == nil {
		return false
	}
	d := *it.ExpiresAt
	return !d.Before(start) && !d.After(end)
}

// DateOnly trunca un instante a su fecha calendario en UTC.
// Replica la semántica de comparar fechas sin hora.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
