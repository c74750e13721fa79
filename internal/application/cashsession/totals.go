package cashsession

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// RecomputeTotals recalcula los totales de la caja sobre sus órdenes no canceladas
// y persiste solo esos totales. ExpectedAmount = InitialAmount + ventas en efectivo.
// La caja debe haberse leído con bloqueo dentro de la misma unidad de trabajo.
func RecomputeTotals(ctx context.Context, r repository.Repos, s *entity.CashSession) error {
	orders, err := r.Orders.ListBySession(ctx, s.ID)
	if err != nil {
		return err
	}
	applyTotals(s, orders)
	return r.Sessions.UpdateTotals(ctx, s)
}

func applyTotals(s *entity.CashSession, orders []*entity.Order) {
	cash, card, transfer := decimal.Zero, decimal.Zero, decimal.Zero
	count := 0
	for _, o := range orders {
		if o.Status == entity.OrderCancelled {
			continue
		}
		count++
		switch o.PaymentMethod {
		case entity.PaymentCash:
			cash = cash.Add(o.Total)
		case entity.PaymentCard:
			card = card.Add(o.Total)
		case entity.PaymentTransfer:
			transfer = transfer.Add(o.Total)
		}
	}
	s.CashSales = cash
	s.CardSales = card
	s.TransferSales = transfer
	s.TotalSales = cash.Add(card).Add(transfer)
	s.TotalOrders = count
	s.ExpectedAmount = s.InitialAmount.Add(cash)
}
