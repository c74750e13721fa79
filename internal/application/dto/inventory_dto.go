package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRow fila de la vista de inventario: un producto con su cantidad por bodega.
type InventoryRow struct {
	ProductID   string         `json:"product_id"`
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	MinStock    int            `json:"min_stock"`
	ByWarehouse map[string]int `json:"by_warehouse"` // warehouse_id → cantidad
	Total       int            `json:"total"`
	LowStock    bool           `json:"low_stock"`
}

// InventoryView matriz productos × bodegas.
type InventoryView struct {
	Warehouses []WarehouseResponse `json:"warehouses"`
	Products   []InventoryRow      `json:"products"`
}

// ReceiveStockRequest entrada de mercancía (compra) a una bodega.
type ReceiveStockRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Notes       string          `json:"notes" validate:"max=500"`
}

// StockMovementResponse línea del kardex.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Type        string    `json:"type"`
	Reason      string    `json:"reason"`
	Quantity    int       `json:"quantity"`
	Balance     int       `json:"balance"`
	ReferenceID string    `json:"reference_id"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// OpenShiftRequest apertura de turno de bodega.
type OpenShiftRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// ShiftResponse salida de un turno.
type ShiftResponse struct {
	ID          string     `json:"id"`
	ShiftNumber string     `json:"shift_number"`
	OpenedBy    string     `json:"opened_by"`
	ClosedBy    string     `json:"closed_by,omitempty"`
	OpenedAt    time.Time  `json:"opened_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
}

// TransferLineRequest línea de un traslado.
type TransferLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateTransferRequest solicitud de traslado entre bodegas.
type CreateTransferRequest struct {
	FromWarehouseID string                `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string                `json:"to_warehouse_id" validate:"required,nefield=FromWarehouseID"`
	Items           []TransferLineRequest `json:"items" validate:"required,min=1,dive"`
	Notes           string                `json:"notes" validate:"max=500"`
}

// RejectRequest motivo de rechazo/anulación/cancelación.
type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// TransferItemResponse línea de traslado en la salida.
type TransferItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID              string                 `json:"id"`
	TransferNumber  string                 `json:"transfer_number"`
	FromWarehouseID string                 `json:"from_warehouse_id"`
	ToWarehouseID   string                 `json:"to_warehouse_id"`
	ShiftID         string                 `json:"shift_id"`
	Items           []TransferItemResponse `json:"items"`
	Status          string                 `json:"status"`
	RequestedBy     string                 `json:"requested_by"`
	ConfirmedBy     string                 `json:"confirmed_by,omitempty"`
	RejectedBy      string                 `json:"rejected_by,omitempty"`
	RejectReason    string                 `json:"reject_reason,omitempty"`
	Notes           string                 `json:"notes"`
	CreatedAt       time.Time              `json:"created_at"`
	ConfirmedAt     *time.Time             `json:"confirmed_at,omitempty"`
}
