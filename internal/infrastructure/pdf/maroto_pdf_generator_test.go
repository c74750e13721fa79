package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

func TestCashSessionReport_GeneraPDF(t *testing.T) {
	closedAt := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	actual := decimal.NewFromInt(95000)
	diff := decimal.NewFromInt(-5000)
	s := &entity.CashSession{
		ID: "caja-1", CashierID: "u1", CashierName: "Ana",
		OpenedAt: closedAt.Add(-8 * time.Hour), ClosedAt: &closedAt, Status: entity.SessionClosed,
		InitialAmount: decimal.NewFromInt(50000), CashSales: decimal.NewFromInt(50000),
		TotalSales: decimal.NewFromInt(50000), TotalOrders: 1,
		ExpectedAmount: decimal.NewFromInt(100000), ActualAmount: &actual, Difference: &diff,
	}
	orders := []*entity.Order{
		{OrderNumber: "ORD-20260301-0001", PaymentMethod: entity.PaymentCash, Status: entity.OrderPaid, Total: decimal.NewFromInt(50000), CreatedAt: closedAt.Add(-time.Hour)},
		{OrderNumber: "ORD-20260301-0002", PaymentMethod: entity.PaymentCard, Status: entity.OrderCancelled, Total: decimal.NewFromInt(12000), CreatedAt: closedAt.Add(-30 * time.Minute)},
	}

	out, err := NewMarotoPDFGenerator().CashSessionReport(s, orders)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestCashSessionReport_SinOrdenesNiCierre(t *testing.T) {
	s := &entity.CashSession{ID: "caja-2", CashierName: "Luis", OpenedAt: time.Now(), Status: entity.SessionOpen}
	out, err := NewMarotoPDFGenerator().CashSessionReport(s, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCashSessionReport_CajaNula(t *testing.T) {
	_, err := NewMarotoPDFGenerator().CashSessionReport(nil, nil)
	assert.Error(t, err)
}

func TestMoney(t *testing.T) {
	g := NewMarotoPDFGenerator()
	assert.Contains(t, g.money(decimal.NewFromInt(25000)), "25")
	assert.True(t, len(g.money(decimal.NewFromInt(-5000))) > 0)
	assert.Equal(t, "$0", g.money(decimal.Zero))
}
