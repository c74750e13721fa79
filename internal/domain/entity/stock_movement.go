package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// Motivos de movimiento.
const (
	ReasonSale        = "sale"
	ReasonSaleCancel  = "sale_cancel"
	ReasonTransferOut = "transfer_out"
	ReasonTransferIn  = "transfer_in"
	ReasonPurchase    = "purchase"
)

// StockMovement registro (kardex) de cada cambio aplicado al stock.
type StockMovement struct {
	ID          string
	ProductID   string
	WarehouseID string
	Type        string // in, out
	Reason      string
	Quantity    int // siempre positiva; el signo lo da Type
	Balance     int // saldo resultante en la bodega
	ReferenceID string
	CreatedBy   string
	CreatedAt   time.Time
}
