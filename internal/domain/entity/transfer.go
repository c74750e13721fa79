package entity

import "time"

// Estados de traslado.
const (
	TransferPending   = "pending"
	TransferConfirmed = "confirmed"
	TransferRejected  = "rejected"
)

// InventoryTransfer movimiento de stock entre bodegas; solo afecta stock al confirmarse.
type InventoryTransfer struct {
	ID              string
	TransferNumber  string
	FromWarehouseID string
	ToWarehouseID   string
	ShiftID         string
	Items           []TransferItem
	Status          string
	RequestedBy     string
	ConfirmedBy     string
	RejectedBy      string
	RejectReason    string
	Notes           string
	CreatedAt       time.Time
	ConfirmedAt     *time.Time
	UpdatedAt       time.Time
}

// TransferItem línea del traslado con el nombre congelado al solicitarlo.
type TransferItem struct {
	ProductID   string
	ProductName string
	Quantity    int
}

// Clone copia profunda.
func (t *InventoryTransfer) Clone() *InventoryTransfer {
	if t == nil {
		return nil
	}
	c := *t
	c.Items = append([]TransferItem(nil), t.Items...)
	return &c
}
