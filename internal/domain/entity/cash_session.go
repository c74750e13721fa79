package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de caja y turno.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// CashSession ventana de trabajo de un cajero entre apertura y cierre de caja.
type CashSession struct {
	ID             string
	CashierID      string
	CashierName    string
	OpenedAt       time.Time
	ClosedAt       *time.Time
	Status         string
	InitialAmount  decimal.Decimal
	CashSales      decimal.Decimal
	CardSales      decimal.Decimal
	TransferSales  decimal.Decimal
	TotalSales     decimal.Decimal
	TotalOrders    int
	ExpectedAmount decimal.Decimal
	ActualAmount   *decimal.Decimal
	Difference     *decimal.Decimal
	ClosedBy       string
	ClosedByName   string
	Notes          string
}

// Clone copia superficial suficiente (los punteros apuntan a valores inmutables).
func (s *CashSession) Clone() *CashSession {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
