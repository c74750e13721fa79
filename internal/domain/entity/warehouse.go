package entity

import "time"

// Warehouse representa una bodega (principal, cocina, barra...).
type Warehouse struct {
	ID          string
	Name        string // único
	Description string
	IsDefault   bool
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
