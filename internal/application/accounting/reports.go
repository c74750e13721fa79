package accounting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
)

// tolerancia del balance general: una unidad monetaria.
var balanceTolerance = decimal.NewFromInt(1)

// IncomeStatement estado de resultados: ventas (4) − costo de ventas (5.1) − gastos operacionales (5.2).
func (s *Service) IncomeStatement(ctx context.Context, from, to *time.Time) (*dto.IncomeStatementResponse, error) {
	entries, err := s.activeEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	bal := domacc.Balances(entries, from, to)

	out := &dto.IncomeStatementResponse{From: from, To: to}
	for _, b := range bal {
		switch {
		case domacc.HasPrefix(b.AccountCode, "4"):
			out.Sales = out.Sales.Add(b.CreditBalance())
			out.IncomeAccounts = append(out.IncomeAccounts, amount(b, b.CreditBalance()))
		case domacc.HasPrefix(b.AccountCode, "5.1"):
			out.CostOfSales = out.CostOfSales.Add(b.DebitBalance())
			out.ExpenseAccounts = append(out.ExpenseAccounts, amount(b, b.DebitBalance()))
		case domacc.HasPrefix(b.AccountCode, "5.2"):
			out.OperatingExpenses = out.OperatingExpenses.Add(b.DebitBalance())
			out.ExpenseAccounts = append(out.ExpenseAccounts, amount(b, b.DebitBalance()))
		}
	}
	out.GrossProfit = out.Sales.Sub(out.CostOfSales)
	out.NetIncome = out.GrossProfit.Sub(out.OperatingExpenses)
	out.GrossMargin = percent(out.GrossProfit, out.Sales)
	out.NetMargin = percent(out.NetIncome, out.Sales)
	return out, nil
}

// BalanceSheet balance general acumulado hasta asOf (fin del día).
// El resultado del ejercicio no cerrado (4 − 5) se presenta dentro del patrimonio.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (*dto.BalanceSheetResponse, error) {
	to := domacc.EndOfDay(asOf)
	entries, err := s.activeEntries(ctx, nil, &to)
	if err != nil {
		return nil, err
	}
	bal := domacc.Balances(entries, nil, &to)

	out := &dto.BalanceSheetResponse{AsOf: to}
	for _, b := range bal {
		switch {
		case domacc.HasPrefix(b.AccountCode, "1"):
			out.Assets = out.Assets.Add(b.DebitBalance())
			out.AssetAccounts = append(out.AssetAccounts, amount(b, b.DebitBalance()))
			if b.AccountCode == domacc.AccountCash || b.AccountCode == domacc.AccountBank {
				out.CashAndBanks = out.CashAndBanks.Add(b.DebitBalance())
			}
			if b.AccountCode == domacc.AccountInventory {
				out.Inventory = out.Inventory.Add(b.DebitBalance())
			}
		case domacc.HasPrefix(b.AccountCode, "2"):
			out.Liabilities = out.Liabilities.Add(b.CreditBalance())
			out.LiabilityAccounts = append(out.LiabilityAccounts, amount(b, b.CreditBalance()))
		case domacc.HasPrefix(b.AccountCode, "3"):
			out.Equity = out.Equity.Add(b.CreditBalance())
			out.EquityAccounts = append(out.EquityAccounts, amount(b, b.CreditBalance()))
		case domacc.HasPrefix(b.AccountCode, "4"):
			out.CurrentEarnings = out.CurrentEarnings.Add(b.CreditBalance())
		case domacc.HasPrefix(b.AccountCode, "5"):
			out.CurrentEarnings = out.CurrentEarnings.Sub(b.DebitBalance())
		}
	}
	out.LiabilitiesAndEquity = out.Liabilities.Add(out.Equity).Add(out.CurrentEarnings)
	out.Balanced = out.Assets.Sub(out.LiabilitiesAndEquity).Abs().LessThan(balanceTolerance)
	return out, nil
}

// CashFlow entradas y salidas de la cuenta caja (1.1.01).
func (s *Service) CashFlow(ctx context.Context, from, to *time.Time) (*dto.CashFlowResponse, error) {
	entries, err := s.activeEntries(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.CashFlowResponse{From: from, To: to, Movements: []dto.CashFlowMovement{}}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !domacc.InRange(e.Date, from, to) {
			continue
		}
		in, outflow := decimal.Zero, decimal.Zero
		for _, l := range e.Lines {
			if l.AccountCode == domacc.AccountCash {
				in = in.Add(l.Debit)
				outflow = outflow.Add(l.Credit)
			}
		}
		if in.IsZero() && outflow.IsZero() {
			continue
		}
		out.Inflows = out.Inflows.Add(in)
		out.Outflows = out.Outflows.Add(outflow)
		out.Movements = append(out.Movements, dto.CashFlowMovement{
			EntryNumber: e.EntryNumber,
			Date:        e.Date,
			Description: e.Description,
			Inflow:      in,
			Outflow:     outflow,
		})
	}
	out.NetFlow = out.Inflows.Sub(out.Outflows)
	return out, nil
}

func amount(b domacc.Balance, v decimal.Decimal) dto.AccountAmount {
	return dto.AccountAmount{AccountCode: b.AccountCode, AccountName: b.AccountName, Amount: v}
}
