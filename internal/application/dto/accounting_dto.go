package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryLineRequest línea de un asiento manual.
type EntryLineRequest struct {
	AccountCode string          `json:"account_code" validate:"required,max=20"`
	AccountName string          `json:"account_name" validate:"max=200"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// CreateEntryRequest asiento manual.
type CreateEntryRequest struct {
	Date        *time.Time         `json:"date"`
	Description string             `json:"description" validate:"required,min=1,max=500"`
	Type        string             `json:"type" validate:"omitempty,oneof=purchase expense adjustment manual"`
	Lines       []EntryLineRequest `json:"lines" validate:"required,min=2,dive"`
}

// EntryLineResponse línea de asiento.
type EntryLineResponse struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// EntryResponse salida de un asiento.
type EntryResponse struct {
	ID            string              `json:"id"`
	EntryNumber   string              `json:"entry_number"`
	Date          time.Time           `json:"date"`
	Description   string              `json:"description"`
	Type          string              `json:"type"`
	Lines         []EntryLineResponse `json:"lines"`
	TotalDebit    decimal.Decimal     `json:"total_debit"`
	TotalCredit   decimal.Decimal     `json:"total_credit"`
	Status        string              `json:"status"`
	ReferenceType string              `json:"reference_type,omitempty"`
	ReferenceID   string              `json:"reference_id,omitempty"`
	CreatedBy     string              `json:"created_by"`
	CreatedByName string              `json:"created_by_name"`
	VoidedAt      *time.Time          `json:"voided_at,omitempty"`
	VoidedBy      string              `json:"voided_by,omitempty"`
	VoidReason    string              `json:"void_reason,omitempty"`
}

// AccountResponse cuenta del plan de cuentas.
type AccountResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Parent string `json:"parent,omitempty"`
}

// AccountAmount saldo de una cuenta en un reporte.
type AccountAmount struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatementResponse estado de resultados.
type IncomeStatementResponse struct {
	From              *time.Time      `json:"from,omitempty"`
	To                *time.Time      `json:"to,omitempty"`
	Sales             decimal.Decimal `json:"sales"`
	CostOfSales       decimal.Decimal `json:"cost_of_sales"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	GrossMargin       decimal.Decimal `json:"gross_margin"` // porcentaje
	OperatingExpenses decimal.Decimal `json:"operating_expenses"`
	NetIncome         decimal.Decimal `json:"net_income"`
	NetMargin         decimal.Decimal `json:"net_margin"` // porcentaje
	IncomeAccounts    []AccountAmount `json:"income_accounts"`
	ExpenseAccounts   []AccountAmount `json:"expense_accounts"`
}

// BalanceSheetResponse balance general a una fecha.
type BalanceSheetResponse struct {
	AsOf                 time.Time       `json:"as_of"`
	Assets               decimal.Decimal `json:"assets"`
	CashAndBanks         decimal.Decimal `json:"cash_and_banks"`
	Inventory            decimal.Decimal `json:"inventory"`
	Liabilities          decimal.Decimal `json:"liabilities"`
	Equity               decimal.Decimal `json:"equity"`
	CurrentEarnings      decimal.Decimal `json:"current_earnings"`
	LiabilitiesAndEquity decimal.Decimal `json:"liabilities_and_equity"`
	Balanced             bool            `json:"balanced"`
	AssetAccounts        []AccountAmount `json:"asset_accounts"`
	LiabilityAccounts    []AccountAmount `json:"liability_accounts"`
	EquityAccounts       []AccountAmount `json:"equity_accounts"`
}

// CashFlowMovement movimiento de la cuenta caja.
type CashFlowMovement struct {
	EntryNumber string          `json:"entry_number"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Inflow      decimal.Decimal `json:"inflow"`
	Outflow     decimal.Decimal `json:"outflow"`
}

// CashFlowResponse flujo de caja (cuenta 1.1.01).
type CashFlowResponse struct {
	From      *time.Time         `json:"from,omitempty"`
	To        *time.Time         `json:"to,omitempty"`
	Inflows   decimal.Decimal    `json:"inflows"`
	Outflows  decimal.Decimal    `json:"outflows"`
	NetFlow   decimal.Decimal    `json:"net_flow"`
	Movements []CashFlowMovement `json:"movements"`
}
