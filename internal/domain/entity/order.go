package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden.
const (
	OrderPaid      = "paid"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Métodos de pago.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// ValidPaymentMethod indica si el método de pago es soportado.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentTransfer
}

// Order venta registrada en una caja.
type Order struct {
	ID                 string
	OrderNumber        string
	Items              []OrderItem
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	Total              decimal.Decimal
	TotalCost          decimal.Decimal
	PaymentMethod      string
	Status             string
	CashSessionID      string
	CashierID          string
	CashierName        string
	WarehouseID        string // bodega de venta de la que se descontó el stock
	Notes              string
	DeliveredAt        *time.Time
	DeliveredBy        string
	CancelledAt        *time.Time
	CancelledBy        string
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderItem línea de la orden. Nombre, precios y componentes quedan congelados al crearla.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	Subtotal    decimal.Decimal
	AccountCode string
	IsCombo     bool
	Components  []OrderComponent
}

// OrderComponent descuento de stock efectivamente aplicado por la línea.
type OrderComponent struct {
	ProductID   string
	ProductName string
	Quantity    int
}

// CanTransition aplica la máquina de estados paid→delivered, paid|delivered→cancelled.
func (o *Order) CanTransition(to string) bool {
	switch to {
	case OrderDelivered:
		return o.Status == OrderPaid
	case OrderCancelled:
		return o.Status == OrderPaid || o.Status == OrderDelivered
	}
	return false
}

// Clone copia profunda.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = make([]OrderItem, len(o.Items))
	for i, it := range o.Items {
		it.Components = append([]OrderComponent(nil), it.Components...)
		c.Items[i] = it
	}
	return &c
}
