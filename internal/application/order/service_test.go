package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/cashsession"
	"github.com/jhoicas/pos-backoffice/internal/application/order"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/cache"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

var cajero = entity.Actor{ID: "u-cajero", Name: "Ana Cajera", Role: entity.RoleCashier}

type env struct {
	*apptest.Fixture
	orders   *order.Service
	sessions *cashsession.Service
}

func setup(t *testing.T) *env {
	t.Helper()
	f := apptest.New(t)
	e := &env{
		Fixture:  f,
		orders:   order.NewService(f.Store, cache.NewInMemoryIdempotencyStore(0), "Cocina", logger.Nop()).WithClock(f.Clock()),
		sessions: cashsession.NewService(f.Store, nil, logger.Nop()).WithClock(f.Clock()),
	}
	_, err := e.sessions.Open(context.Background(), cajero, decimal.NewFromInt(50000), "")
	require.NoError(t, err)
	return e
}

func line(id string, qty int) order.LineInput { return order.LineInput{ProductID: id, Quantity: qty} }

func (e *env) create(lines ...order.LineInput) (*entity.Order, error) {
	return e.orders.Create(context.Background(), order.CreateInput{
		Cashier:       cajero,
		Lines:         lines,
		PaymentMethod: entity.PaymentCash,
	})
}

func assertBalanced(t *testing.T, entries []*entity.LedgerEntry) {
	t.Helper()
	for _, en := range entries {
		d, c := domacc.Totals(en.Lines)
		assert.True(t, d.Sub(c).Abs().LessThanOrEqual(domacc.Epsilon), "asiento %s descuadrado: %s vs %s", en.EntryNumber, d, c)
	}
}

func TestCreate_DescuentaStockContabilizaYActualizaCaja(t *testing.T) {
	e := setup(t)
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Product("soda", "Gaseosa", entity.CategoryBeverage, 4000, 1500)
	e.Stock("burger", apptest.Cocina, 10)
	e.Stock("soda", apptest.Cocina, 10)

	o, err := e.orders.Create(context.Background(), order.CreateInput{
		Cashier:       cajero,
		Lines:         []order.LineInput{line("burger", 2), line("soda", 1)},
		PaymentMethod: entity.PaymentCash,
		Discount:      decimal.NewFromInt(4000),
	})
	require.NoError(t, err)

	assert.Equal(t, "202603140001", o.OrderNumber)
	assert.Equal(t, entity.OrderPaid, o.Status)
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(34000)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(30000)))
	assert.True(t, o.TotalCost.Equal(decimal.NewFromInt(13500)))
	assert.Equal(t, 8, e.Qty("burger", apptest.Cocina))
	assert.Equal(t, 9, e.Qty("soda", apptest.Cocina))

	entries := e.Entries()
	assertBalanced(t, entries)
	bal := e.Balances()
	assert.True(t, bal[domacc.AccountFoodSales].CreditBalance().Equal(decimal.NewFromInt(30000)))
	assert.True(t, bal[domacc.AccountBeverageSales].CreditBalance().Equal(decimal.NewFromInt(4000)))
	assert.True(t, bal[domacc.AccountSalesDiscount].DebitBalance().Equal(decimal.NewFromInt(4000)))
	assert.True(t, bal[domacc.AccountBeverageCost].DebitBalance().Equal(decimal.NewFromInt(1500)))
	assert.True(t, bal[domacc.AccountFoodCost].DebitBalance().Equal(decimal.NewFromInt(12000)))

	cs, err := e.sessions.Current(context.Background(), cajero.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cs.TotalOrders)
	assert.True(t, cs.CashSales.Equal(decimal.NewFromInt(30000)))
	assert.True(t, cs.ExpectedAmount.Equal(decimal.NewFromInt(80000)))

	second, err := e.create(line("soda", 1))
	require.NoError(t, err)
	assert.Equal(t, "202603140002", second.OrderNumber)
}

func TestCreate_FallidaNoModificaNada(t *testing.T) {
	e := setup(t)
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Product("soda", "Gaseosa", entity.CategoryBeverage, 4000, 1500)
	e.Stock("burger", apptest.Cocina, 5)
	e.Stock("soda", apptest.Cocina, 1)
	before := len(e.Entries())

	_, err := e.create(line("burger", 2), line("soda", 2))
	var se *domain.InsufficientStockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Gaseosa", se.ProductName)
	assert.Equal(t, 2, se.Requested)
	assert.Equal(t, 1, se.Available)

	assert.Equal(t, 5, e.Qty("burger", apptest.Cocina))
	assert.Equal(t, 1, e.Qty("soda", apptest.Cocina))
	assert.Len(t, e.Entries(), before)
	list, err := e.orders.List(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_Validaciones(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Stock("burger", apptest.Cocina, 5)

	cases := []struct {
		name string
		in   order.CreateInput
		want error
	}{
		{"sin líneas", order.CreateInput{Cashier: cajero, PaymentMethod: entity.PaymentCash}, domain.ErrValidation},
		{"cantidad cero", order.CreateInput{Cashier: cajero, Lines: []order.LineInput{line("burger", 0)}, PaymentMethod: entity.PaymentCash}, domain.ErrValidation},
		{"método inválido", order.CreateInput{Cashier: cajero, Lines: []order.LineInput{line("burger", 1)}, PaymentMethod: "bitcoin"}, domain.ErrValidation},
		{"descuento negativo", order.CreateInput{Cashier: cajero, Lines: []order.LineInput{line("burger", 1)}, PaymentMethod: entity.PaymentCash, Discount: decimal.NewFromInt(-1)}, domain.ErrValidation},
		{"descuento mayor al subtotal", order.CreateInput{Cashier: cajero, Lines: []order.LineInput{line("burger", 1)}, PaymentMethod: entity.PaymentCash, Discount: decimal.NewFromInt(15001)}, domain.ErrValidation},
		{"producto inexistente", order.CreateInput{Cashier: cajero, Lines: []order.LineInput{line("nada", 1)}, PaymentMethod: entity.PaymentCash}, domain.ErrNotFound},
		{"sin caja abierta", order.CreateInput{Cashier: entity.Actor{ID: "otro"}, Lines: []order.LineInput{line("burger", 1)}, PaymentMethod: entity.PaymentCash}, domain.ErrNoOpenCashSession},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.orders.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 5, e.Qty("burger", apptest.Cocina))
		})
	}
}

func TestCreate_ComboDisponibilidadNyNmas1(t *testing.T) {
	e := setup(t)
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Product("papas", "Papas", entity.CategoryFood, 5000, 1000)
	e.Combo("combo", "Combo Clásico", 22000,
		entity.ComboItem{ProductID: "burger", Quantity: 1},
		entity.ComboItem{ProductID: "papas", Quantity: 2},
	)
	e.Stock("burger", apptest.Cocina, 3)
	e.Stock("papas", apptest.Cocina, 7)

	_, err := e.create(line("combo", 4))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "N+1 combos no se pueden armar")
	assert.Equal(t, 3, e.Qty("burger", apptest.Cocina))
	assert.Equal(t, 7, e.Qty("papas", apptest.Cocina))

	o, err := e.create(line("combo", 3))
	require.NoError(t, err)
	assert.Equal(t, 0, e.Qty("burger", apptest.Cocina))
	assert.Equal(t, 1, e.Qty("papas", apptest.Cocina))
	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].IsCombo)
	assert.Len(t, o.Items[0].Components, 2)
	assert.True(t, o.Items[0].UnitCost.Equal(decimal.NewFromInt(8000)))
}

func TestCreate_ComboYLineaSueltaCompartenStock(t *testing.T) {
	e := setup(t)
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Combo("doble", "Doble", 28000, entity.ComboItem{ProductID: "burger", Quantity: 2})
	e.Stock("burger", apptest.Cocina, 3)

	_, err := e.create(line("doble", 1), line("burger", 2))
	var se *domain.InsufficientStockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 4, se.Requested)
	assert.Equal(t, 3, e.Qty("burger", apptest.Cocina))
}

func TestCancel_RestauraStockYRegistraAsientoInverso(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Stock("burger", apptest.Cocina, 5)

	o, err := e.create(line("burger", 2))
	require.NoError(t, err)
	_, err = e.orders.Deliver(ctx, o.OrderNumber, cajero)
	require.NoError(t, err)

	cancelled, err := e.orders.Cancel(ctx, o.ID, cajero, "cliente se arrepintió")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
	assert.Equal(t, 5, e.Qty("burger", apptest.Cocina))

	entries := e.Entries()
	assertBalanced(t, entries)
	var sale, reversal *entity.LedgerEntry
	for _, en := range entries {
		if en.ReferenceID != o.ID {
			continue
		}
		if en.Type == entity.EntrySale {
			sale = en
		} else {
			reversal = en
		}
	}
	require.NotNil(t, sale)
	require.NotNil(t, reversal)
	require.Len(t, reversal.Lines, len(sale.Lines))
	for i := range sale.Lines {
		assert.Equal(t, sale.Lines[i].AccountCode, reversal.Lines[i].AccountCode)
		assert.True(t, sale.Lines[i].Debit.Equal(reversal.Lines[i].Credit))
		assert.True(t, sale.Lines[i].Credit.Equal(reversal.Lines[i].Debit))
	}
	bal := e.Balances()
	assert.True(t, bal[domacc.AccountFoodSales].CreditBalance().IsZero())

	cs, err := e.sessions.Current(ctx, cajero.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cs.TotalOrders)
	assert.True(t, cs.ExpectedAmount.Equal(decimal.NewFromInt(50000)))

	_, err = e.orders.Cancel(ctx, o.ID, cajero, "otra vez")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 5, e.Qty("burger", apptest.Cocina))
}

func TestCancel_ComboRestauraCadaComponente(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Product("papas", "Papas", entity.CategoryFood, 5000, 1000)
	e.Product("soda", "Gaseosa", entity.CategoryBeverage, 4000, 1500)
	e.Combo("combo", "Combo Clásico", 22000,
		entity.ComboItem{ProductID: "burger", Quantity: 1},
		entity.ComboItem{ProductID: "papas", Quantity: 2},
		entity.ComboItem{ProductID: "soda", Quantity: 1},
	)
	e.Stock("burger", apptest.Cocina, 6)
	e.Stock("papas", apptest.Cocina, 9)
	e.Stock("soda", apptest.Cocina, 4)

	o, err := e.create(line("combo", 2), line("soda", 1))
	require.NoError(t, err)
	assert.Equal(t, 4, e.Qty("burger", apptest.Cocina))
	assert.Equal(t, 5, e.Qty("papas", apptest.Cocina))
	assert.Equal(t, 1, e.Qty("soda", apptest.Cocina))

	_, err = e.orders.Cancel(ctx, o.ID, cajero, "")
	require.NoError(t, err)
	assert.Equal(t, 6, e.Qty("burger", apptest.Cocina))
	assert.Equal(t, 9, e.Qty("papas", apptest.Cocina))
	assert.Equal(t, 4, e.Qty("soda", apptest.Cocina))
	assert.Equal(t, 0, e.Qty("combo", apptest.Cocina), "el combo no tiene stock propio")
}

func TestCancel_DevuelveLosComponentesRegistradosAunqueCambieLaReceta(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Product("papas", "Papas", entity.CategoryFood, 5000, 1000)
	e.Product("aros", "Aros de cebolla", entity.CategoryFood, 6000, 1200)
	e.Combo("combo", "Combo Clásico", 22000,
		entity.ComboItem{ProductID: "burger", Quantity: 1},
		entity.ComboItem{ProductID: "papas", Quantity: 1},
	)
	e.Stock("burger", apptest.Cocina, 5)
	e.Stock("papas", apptest.Cocina, 5)
	e.Stock("aros", apptest.Cocina, 5)

	o, err := e.create(line("combo", 2))
	require.NoError(t, err)

	// La receta cambia después de la venta: papas por aros y doble hamburguesa.
	require.NoError(t, e.Store.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, "combo")
		if err != nil {
			return err
		}
		p.ComboItems = []entity.ComboItem{
			{ProductID: "burger", ProductName: "Hamburguesa", Quantity: 2},
			{ProductID: "aros", ProductName: "Aros de cebolla", Quantity: 1},
		}
		return r.Products.Update(ctx, p)
	}))

	_, err = e.orders.Cancel(ctx, o.ID, cajero, "")
	require.NoError(t, err)
	assert.Equal(t, 5, e.Qty("burger", apptest.Cocina))
	assert.Equal(t, 5, e.Qty("papas", apptest.Cocina))
	assert.Equal(t, 5, e.Qty("aros", apptest.Cocina), "los aros nunca salieron")
}

func TestCancel_ConCajaCerradaNoLaReabre(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Stock("burger", apptest.Cocina, 5)

	o, err := e.create(line("burger", 1))
	require.NoError(t, err)
	closed, err := e.sessions.Close(ctx, "", decimal.NewFromInt(65000), "", cajero)
	require.NoError(t, err)

	_, err = e.orders.Cancel(ctx, o.ID, cajero, "")
	require.NoError(t, err)
	assert.Equal(t, 5, e.Qty("burger", apptest.Cocina))

	after, err := e.sessions.Get(ctx, closed.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionClosed, after.Status)
	assert.Equal(t, 1, after.TotalOrders, "los totales de una caja cerrada no se recalculan")
	assert.True(t, after.ExpectedAmount.Equal(closed.ExpectedAmount))
	_, err = e.sessions.Current(ctx, cajero.ID)
	assert.ErrorIs(t, err, domain.ErrNoOpenCashSession)
}

func TestDeliver_YValidateByNumber(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Stock("burger", apptest.Cocina, 5)
	o, err := e.create(line("burger", 1))
	require.NoError(t, err)

	status, got, err := e.orders.ValidateByNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ValidationValid, status)
	assert.Equal(t, o.ID, got.ID)

	_, err = e.orders.Deliver(ctx, o.OrderNumber, cajero)
	require.NoError(t, err)
	status, _, _ = e.orders.ValidateByNumber(ctx, o.OrderNumber)
	assert.Equal(t, order.ValidationDelivered, status)

	_, err = e.orders.Deliver(ctx, o.OrderNumber, cajero)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.orders.Cancel(ctx, o.ID, cajero, "")
	require.NoError(t, err)
	status, _, _ = e.orders.ValidateByNumber(ctx, o.OrderNumber)
	assert.Equal(t, order.ValidationCancelled, status)

	status, got, err = e.orders.ValidateByNumber(ctx, "209901010001")
	require.NoError(t, err)
	assert.Equal(t, order.ValidationNotFound, status)
	assert.Nil(t, got)
}

func TestCreate_IdempotenciaDevuelveLaMismaOrden(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Stock("burger", apptest.Cocina, 5)

	in := order.CreateInput{Cashier: cajero, Lines: []order.LineInput{line("burger", 1)}, PaymentMethod: entity.PaymentCard, IdempotencyKey: "tablet-1-42"}
	first, err := e.orders.Create(ctx, in)
	require.NoError(t, err)
	again, err := e.orders.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 4, e.Qty("burger", apptest.Cocina))
}

func TestCreate_ConcurrenteNuncaDejaStockNegativo(t *testing.T) {
	e := setup(t)
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Stock("burger", apptest.Cocina, 10)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		numbers = map[string]bool{}
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := e.create(line("burger", 1))
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ok++
			numbers[o.OrderNumber] = true
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Len(t, numbers, 10, "números de orden únicos")
	assert.Equal(t, 0, e.Qty("burger", apptest.Cocina))
	assertBalanced(t, e.Entries())
}

func TestSalesLedger_ExcluyeCanceladas(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.Product("burger", "Hamburguesa", entity.CategoryFood, 15000, 6000)
	e.Stock("burger", apptest.Cocina, 5)

	_, err := e.create(line("burger", 1))
	require.NoError(t, err)
	o2, err := e.orders.Create(ctx, order.CreateInput{Cashier: cajero, Lines: []order.LineInput{line("burger", 2)}, PaymentMethod: entity.PaymentTransfer})
	require.NoError(t, err)
	o3, err := e.create(line("burger", 1))
	require.NoError(t, err)
	_, err = e.orders.Cancel(ctx, o3.ID, cajero, "")
	require.NoError(t, err)

	sl, err := e.orders.SalesLedger(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sl.TotalOrders)
	assert.True(t, sl.Total.Equal(decimal.NewFromInt(45000)))
	assert.True(t, sl.TransferSales.Equal(o2.Total))
	assert.True(t, sl.CashSales.Equal(decimal.NewFromInt(15000)))
}
