package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenCashRequest apertura de caja.
type OpenCashRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount"`
	Notes         string          `json:"notes" validate:"max=500"`
}

// CloseCashRequest cierre de caja con el efectivo contado.
type CloseCashRequest struct {
	ActualAmount decimal.Decimal `json:"actual_amount"`
	CashierID    string          `json:"cashier_id"` // opcional: admin cerrando la caja de otro cajero
	Notes        string          `json:"notes" validate:"max=500"`
}

// CashSessionResponse salida de una caja.
type CashSessionResponse struct {
	ID             string           `json:"id"`
	CashierID      string           `json:"cashier_id"`
	CashierName    string           `json:"cashier_name"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	Status         string           `json:"status"`
	InitialAmount  decimal.Decimal  `json:"initial_amount"`
	CashSales      decimal.Decimal  `json:"cash_sales"`
	CardSales      decimal.Decimal  `json:"card_sales"`
	TransferSales  decimal.Decimal  `json:"transfer_sales"`
	TotalSales     decimal.Decimal  `json:"total_sales"`
	TotalOrders    int              `json:"total_orders"`
	ExpectedAmount decimal.Decimal  `json:"expected_amount"`
	ActualAmount   *decimal.Decimal `json:"actual_amount,omitempty"`
	Difference     *decimal.Decimal `json:"difference,omitempty"`
	ClosedBy       string           `json:"closed_by,omitempty"`
	ClosedByName   string           `json:"closed_by_name,omitempty"`
	Notes          string           `json:"notes"`
}
