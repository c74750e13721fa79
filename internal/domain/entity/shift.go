package entity

import "time"

// Shift turno de bodega; habilita la creación de traslados.
type Shift struct {
	ID          string
	ShiftNumber string
	OpenedBy    string
	ClosedBy    string
	OpenedAt    time.Time
	ClosedAt    *time.Time
	Status      string
	Notes       string
}
