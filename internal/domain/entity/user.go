package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleCashier    = "cashier"
	RoleAccountant = "accountant"
	RoleBodega     = "bodega"
	RoleCocina     = "cocina"
)

// User usuario del sistema. La administración de usuarios queda fuera; solo se consulta para login.
type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string // bcrypt
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor quien ejecuta una operación; se toma del token y queda registrado en las entidades.
type Actor struct {
	ID   string
	Name string
	Role string
}
