package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de la orden.
type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest entrada para registrar una venta.
type CreateOrderRequest struct {
	Items         []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=cash card transfer"`
	Discount      decimal.Decimal    `json:"discount"`
	Notes         string             `json:"notes" validate:"max=500"`
}

// CancelOrderRequest motivo de cancelación.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// OrderComponentResponse descuento de stock aplicado por una línea.
type OrderComponentResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// OrderItemResponse línea de la orden en la salida.
type OrderItemResponse struct {
	ProductID   string                   `json:"product_id"`
	ProductName string                   `json:"product_name"`
	Quantity    int                      `json:"quantity"`
	UnitPrice   decimal.Decimal          `json:"unit_price"`
	UnitCost    decimal.Decimal          `json:"unit_cost"`
	Subtotal    decimal.Decimal          `json:"subtotal"`
	IsCombo     bool                     `json:"is_combo"`
	Components  []OrderComponentResponse `json:"components"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID                 string              `json:"id"`
	OrderNumber        string              `json:"order_number"`
	Items              []OrderItemResponse `json:"items"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	Discount           decimal.Decimal     `json:"discount"`
	Total              decimal.Decimal     `json:"total"`
	TotalCost          decimal.Decimal     `json:"total_cost"`
	PaymentMethod      string              `json:"payment_method"`
	Status             string              `json:"status"`
	CashSessionID      string              `json:"cash_session_id"`
	CashierID          string              `json:"cashier_id"`
	CashierName        string              `json:"cashier_name"`
	WarehouseID        string              `json:"warehouse_id"`
	Notes              string              `json:"notes"`
	DeliveredAt        *time.Time          `json:"delivered_at,omitempty"`
	DeliveredBy        string              `json:"delivered_by,omitempty"`
	CancelledAt        *time.Time          `json:"cancelled_at,omitempty"`
	CancelledBy        string              `json:"cancelled_by,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// ValidateOrderResponse resultado de validar un número de orden (cocina/entrega).
type ValidateOrderResponse struct {
	Status string         `json:"status"` // valid | delivered | cancelled | not_found
	Order  *OrderResponse `json:"order,omitempty"`
}

// SalesLedgerResponse libro de ventas de un rango de fechas.
type SalesLedgerResponse struct {
	Orders        []OrderResponse `json:"orders"`
	TotalOrders   int             `json:"total_orders"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	CashSales     decimal.Decimal `json:"cash_sales"`
	CardSales     decimal.Decimal `json:"card_sales"`
	TransferSales decimal.Decimal `json:"transfer_sales"`
}
