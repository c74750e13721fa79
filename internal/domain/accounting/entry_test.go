package accounting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestValidateLines(t *testing.T) {
	cases := []struct {
		name  string
		lines []entity.EntryLine
		want  error
	}{
		{"cuadrado", []entity.EntryLine{accounting.Debit("1.1.01", d("10")), accounting.Credit("3.1", d("10"))}, nil},
		{"dentro de tolerancia", []entity.EntryLine{accounting.Debit("1.1.01", d("10.005")), accounting.Credit("3.1", d("10"))}, nil},
		{"descuadrado", []entity.EntryLine{accounting.Debit("1.1.01", d("10.02")), accounting.Credit("3.1", d("10"))}, domain.ErrUnbalancedEntry},
		{"una sola línea", []entity.EntryLine{accounting.Debit("1.1.01", d("10"))}, domain.ErrInvalidEntry},
		{"monto negativo", []entity.EntryLine{accounting.Debit("1.1.01", d("-10")), accounting.Credit("3.1", d("-10"))}, domain.ErrInvalidEntry},
		{"ambos lados", []entity.EntryLine{{AccountCode: "1.1.01", Debit: d("5"), Credit: d("5")}, accounting.Credit("3.1", d("0.01"))}, domain.ErrInvalidEntry},
		{"sin cuenta", []entity.EntryLine{accounting.Debit("", d("1")), accounting.Credit("3.1", d("1"))}, domain.ErrInvalidEntry},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := accounting.ValidateLines(tc.lines)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSaleLines_CuadraConDescuentoYCosto(t *testing.T) {
	o := &entity.Order{
		PaymentMethod: entity.PaymentCard,
		Subtotal:      d("30"),
		Discount:      d("5"),
		Total:         d("25"),
		Items: []entity.OrderItem{
			{Quantity: 2, Subtotal: d("20"), UnitCost: d("4"), AccountCode: accounting.AccountFoodSales},
			{Quantity: 1, Subtotal: d("10"), UnitCost: d("3"), AccountCode: accounting.AccountBeverageSales},
		},
	}
	lines := accounting.SaleLines(o)
	require.NoError(t, accounting.ValidateLines(lines))

	assert.Equal(t, accounting.AccountBank, lines[0].AccountCode)
	assert.True(t, lines[0].Debit.Equal(d("25")))

	debit, credit := accounting.Totals(lines)
	assert.True(t, debit.Equal(d("41")), "25 total + 5 descuento + 11 costo")
	assert.True(t, credit.Equal(d("41")))
}

func TestReverse_IntercambiaLados(t *testing.T) {
	lines := []entity.EntryLine{accounting.Debit("1.1.01", d("7")), accounting.Credit("4.1.01", d("7"))}
	rev := accounting.Reverse(lines)
	assert.True(t, rev[0].Credit.Equal(d("7")))
	assert.True(t, rev[0].Debit.IsZero())
	assert.True(t, rev[1].Debit.Equal(d("7")))
}

func TestCashDifferenceLines(t *testing.T) {
	deficit := accounting.CashDifferenceLines(d("-12.50"))
	assert.Equal(t, accounting.AccountOtherExpenses, deficit[0].AccountCode)
	assert.True(t, deficit[0].Debit.Equal(d("12.50")))
	assert.Equal(t, accounting.AccountCash, deficit[1].AccountCode)
	require.NoError(t, accounting.ValidateLines(deficit))

	surplus := accounting.CashDifferenceLines(d("3"))
	assert.Equal(t, accounting.AccountCash, surplus[0].AccountCode)
	assert.Equal(t, accounting.AccountOtherIncome, surplus[1].AccountCode)
}

func TestBalances_IgnoraAnuladosYFueraDeRango(t *testing.T) {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []*entity.LedgerEntry{
		{Status: entity.EntryActive, Date: day, Lines: accounting.OpeningLines(d("100"))},
		{Status: entity.EntryVoid, Date: day, Lines: accounting.OpeningLines(d("50"))},
		{Status: entity.EntryActive, Date: day.AddDate(0, 0, 5), Lines: accounting.OpeningLines(d("10"))},
	}
	to := accounting.EndOfDay(day)
	bal := accounting.Balances(entries, nil, &to)

	debit, _ := accounting.SumByPrefix(bal, "1.1.01")
	assert.True(t, debit.Equal(d("100")))
	_, credit := accounting.SumByPrefix(bal, "3")
	assert.True(t, credit.Equal(d("100")))
}

func TestHasPrefix(t *testing.T) {
	assert.True(t, accounting.HasPrefix("5.1.01", "5.1"))
	assert.True(t, accounting.HasPrefix("5.1", "5.1"))
	assert.False(t, accounting.HasPrefix("5.10", "5.1"))
	assert.False(t, accounting.HasPrefix("4.1.01", "5"))
}
