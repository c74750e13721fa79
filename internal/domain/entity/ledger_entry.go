package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento.
const (
	EntrySale       = "sale"
	EntryPurchase   = "purchase"
	EntryExpense    = "expense"
	EntryAdjustment = "adjustment"
	EntryOpening    = "opening"
	EntryClosing    = "closing"
	EntryManual     = "manual"
)

// Estados de asiento.
const (
	EntryActive = "active"
	EntryVoid   = "void"
)

// Tipos de referencia de origen.
const (
	RefOrder       = "order"
	RefCashSession = "cash_session"
	RefPurchase    = "purchase"
	RefManual      = "manual"
)

// ValidEntryType indica si el tipo de asiento es soportado.
func ValidEntryType(t string) bool {
	switch t {
	case EntrySale, EntryPurchase, EntryExpense, EntryAdjustment, EntryOpening, EntryClosing, EntryManual:
		return true
	}
	return false
}

// LedgerEntry asiento contable de partida doble. Inmutable salvo anulación.
type LedgerEntry struct {
	ID            string
	EntryNumber   string
	Date          time.Time
	Description   string
	Type          string
	Lines         []EntryLine
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	Status        string
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
	CreatedByName string
	VoidedAt      *time.Time
	VoidedBy      string
	VoidReason    string
	CreatedAt     time.Time
}

// EntryLine movimiento a una cuenta; solo uno de Debit/Credit es distinto de cero.
type EntryLine struct {
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Clone copia profunda.
func (e *LedgerEntry) Clone() *LedgerEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.Lines = append([]EntryLine(nil), e.Lines...)
	return &c
}
