//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/pos-backoffice/internal/application/accounting"
	"github.com/jhoicas/pos-backoffice/internal/application/cashsession"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/order"
	"github.com/jhoicas/pos-backoffice/internal/application/transfer"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

var cajero = entity.Actor{ID: "u-caja", Name: "Caja 1", Role: entity.RoleCashier}

// newDB levanta PostgreSQL en un contenedor y aplica las migraciones embebidas.
func newDB(t *testing.T) (*pgxpool.Pool, *postgres.TxRunner) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(dsn, logger.Nop()))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool, postgres.NewTxRunner(pool)
}

func seed(t *testing.T, tx *postgres.TxRunner, stock int) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, tx.Run(ctx, func(r repository.Repos) error {
		for _, w := range []*entity.Warehouse{
			{ID: "wh-cocina", Name: "Cocina", Active: true, CreatedAt: now, UpdatedAt: now},
			{ID: "wh-bodega", Name: "Bodega Principal", IsDefault: true, Active: true, CreatedAt: now, UpdatedAt: now},
		} {
			if err := r.Warehouses.Create(ctx, w); err != nil {
				return err
			}
		}
		for _, p := range []*entity.Product{
			{ID: "burger", Code: "HAM-1", Name: "Hamburguesa", Category: entity.CategoryFood, Price: decimal.NewFromInt(15000),
				Cost: decimal.NewFromInt(6000), Active: true, AccountCode: entity.AccountFoodSales, CreatedAt: now, UpdatedAt: now},
			{ID: "soda", Code: "GAS-1", Name: "Gaseosa", Category: entity.CategoryBeverage, Price: decimal.NewFromInt(4000),
				Cost: decimal.NewFromInt(1500), Active: true, AccountCode: entity.AccountBeverageSales, CreatedAt: now, UpdatedAt: now},
			{ID: "combo", Code: "CMB-1", Name: "Combo", Category: entity.CategoryCombo, Price: decimal.NewFromInt(17000),
				Active: true, AccountCode: entity.AccountFoodSales, IsCombo: true, CreatedAt: now, UpdatedAt: now,
				ComboItems: []entity.ComboItem{{ProductID: "burger", ProductName: "Hamburguesa", Quantity: 1}, {ProductID: "soda", ProductName: "Gaseosa", Quantity: 1}}},
		} {
			if err := r.Products.Create(ctx, p); err != nil {
				return err
			}
		}
		for _, id := range []string{"burger", "soda"} {
			if _, err := r.Stock.Increment(ctx, entity.StockKey{ProductID: id, WarehouseID: "wh-cocina"}, stock); err != nil {
				return err
			}
		}
		return nil
	}))
}

func qty(t *testing.T, tx *postgres.TxRunner, productID, warehouseID string) int {
	t.Helper()
	var n int
	require.NoError(t, tx.View(context.Background(), func(r repository.Repos) error {
		s, err := r.Stock.Get(context.Background(), entity.StockKey{ProductID: productID, WarehouseID: warehouseID})
		if err != nil {
			return err
		}
		n = s.Quantity
		return nil
	}))
	return n
}

func TestIntegration_OrdenesConcurrentesNoDejanStockNegativo(t *testing.T) {
	_, tx := newDB(t)
	seed(t, tx, 10)
	ctx := context.Background()

	_, err := cashsession.NewService(tx, nil, logger.Nop()).Open(ctx, cajero, decimal.NewFromInt(50000), "")
	require.NoError(t, err)
	orders := order.NewService(tx, nil, "Cocina", logger.Nop())

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orders.Create(ctx, order.CreateInput{
				Cashier:       cajero,
				Lines:         []order.LineInput{{ProductID: "combo", Quantity: 1}},
				PaymentMethod: entity.PaymentCash,
			})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 0, qty(t, tx, "burger", "wh-cocina"))
	assert.Equal(t, 0, qty(t, tx, "soda", "wh-cocina"))

	require.NoError(t, tx.View(ctx, func(r repository.Repos) error {
		list, err := r.Orders.List(ctx, repository.OrderFilter{})
		require.NoError(t, err)
		require.Len(t, list, 10)
		assert.Len(t, list[0].Items, 1)
		assert.Len(t, list[0].Items[0].Components, 2)

		entries, err := r.Ledger.List(ctx, repository.EntryFilter{Type: entity.EntrySale})
		require.NoError(t, err)
		assert.Len(t, entries, 10)
		for _, e := range entries {
			assert.True(t, e.TotalDebit.Equal(e.TotalCredit))
			assert.NotEmpty(t, e.Lines)
		}
		return nil
	}))
}

func TestIntegration_UnaCajaAbiertaPorCajero(t *testing.T) {
	_, tx := newDB(t)
	seed(t, tx, 1)
	ctx := context.Background()
	now := time.Now()

	open := func(id string) error {
		return tx.Run(ctx, func(r repository.Repos) error {
			return r.Sessions.Create(ctx, &entity.CashSession{
				ID: id, CashierID: cajero.ID, CashierName: cajero.Name, OpenedAt: now, Status: entity.SessionOpen,
			})
		})
	}
	require.NoError(t, open("s1"))
	assert.ErrorIs(t, open("s2"), domain.ErrSessionAlreadyOpen)
}

func TestIntegration_TrasladoConfirmado(t *testing.T) {
	_, tx := newDB(t)
	seed(t, tx, 10)
	ctx := context.Background()
	bodega := entity.Actor{ID: "u-bod", Name: "Bodega", Role: entity.RoleBodega}

	shifts := transfer.NewShiftGate(tx, logger.Nop())
	_, err := shifts.Open(ctx, bodega, "")
	require.NoError(t, err)
	_, err = shifts.Open(ctx, bodega, "")
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)

	coord := transfer.NewCoordinator(tx, logger.Nop())
	tr, err := coord.Request(ctx, transfer.RequestInput{
		FromWarehouseID: "wh-cocina", ToWarehouseID: "wh-bodega",
		Lines: []transfer.Line{{ProductID: "burger", Quantity: 4}},
	}, bodega)
	require.NoError(t, err)
	_, err = coord.Confirm(ctx, tr.ID, bodega)
	require.NoError(t, err)

	assert.Equal(t, 6, qty(t, tx, "burger", "wh-cocina"))
	assert.Equal(t, 4, qty(t, tx, "burger", "wh-bodega"))

	require.NoError(t, tx.View(ctx, func(r repository.Repos) error {
		moves, err := r.StockMovements.List(ctx, repository.StockMovementFilter{ProductID: "burger"})
		require.NoError(t, err)
		assert.Len(t, moves, 2)
		return nil
	}))
}

// concurrently lanza n veces fn a la vez y devuelve los errores.
func concurrently(n int, fn func() error) []error {
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

// oneWinner exige exactamente un éxito; el resto debe ser una transición inválida.
func oneWinner(t *testing.T, errs []error) {
	t.Helper()
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	assert.Equal(t, 1, ok)
}

func TestIntegration_CancelacionConcurrenteDevuelveStockUnaVez(t *testing.T) {
	_, tx := newDB(t)
	seed(t, tx, 10)
	ctx := context.Background()
	admin := entity.Actor{ID: "u-admin", Name: "Admin", Role: entity.RoleAdmin}

	_, err := cashsession.NewService(tx, nil, logger.Nop()).Open(ctx, cajero, decimal.Zero, "")
	require.NoError(t, err)
	orders := order.NewService(tx, nil, "Cocina", logger.Nop())
	o, err := orders.Create(ctx, order.CreateInput{
		Cashier:       cajero,
		Lines:         []order.LineInput{{ProductID: "combo", Quantity: 2}},
		PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)
	require.Equal(t, 8, qty(t, tx, "burger", "wh-cocina"))

	oneWinner(t, concurrently(8, func() error {
		_, err := orders.Cancel(ctx, o.ID, admin, "doble clic")
		return err
	}))

	assert.Equal(t, 10, qty(t, tx, "burger", "wh-cocina"))
	assert.Equal(t, 10, qty(t, tx, "soda", "wh-cocina"))
	require.NoError(t, tx.View(ctx, func(r repository.Repos) error {
		reversals, err := r.Ledger.List(ctx, repository.EntryFilter{Type: entity.EntryAdjustment})
		require.NoError(t, err)
		assert.Len(t, reversals, 1)
		return nil
	}))
}

func TestIntegration_EntregaYCancelacionConcurrentes(t *testing.T) {
	_, tx := newDB(t)
	seed(t, tx, 10)
	ctx := context.Background()
	admin := entity.Actor{ID: "u-admin", Name: "Admin", Role: entity.RoleAdmin}

	_, err := cashsession.NewService(tx, nil, logger.Nop()).Open(ctx, cajero, decimal.Zero, "")
	require.NoError(t, err)
	orders := order.NewService(tx, nil, "Cocina", logger.Nop())
	o, err := orders.Create(ctx, order.CreateInput{
		Cashier:       cajero,
		Lines:         []order.LineInput{{ProductID: "burger", Quantity: 1}},
		PaymentMethod: entity.PaymentCard,
	})
	require.NoError(t, err)

	var turn sync.Mutex
	n := 0
	errs := concurrently(2, func() error {
		turn.Lock()
		n++
		mine := n
		turn.Unlock()
		if mine == 1 {
			_, err := orders.Cancel(ctx, o.ID, admin, "")
			return err
		}
		_, err := orders.Deliver(ctx, o.OrderNumber, admin)
		return err
	})
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}
	}

	// Nunca queda entregada con el stock devuelto.
	got, err := orders.Get(ctx, o.ID)
	require.NoError(t, err)
	if got.Status == entity.OrderCancelled {
		assert.Equal(t, 10, qty(t, tx, "burger", "wh-cocina"))
	} else {
		assert.Equal(t, entity.OrderDelivered, got.Status)
		assert.Equal(t, 9, qty(t, tx, "burger", "wh-cocina"))
	}
}

func TestIntegration_ConfirmacionConcurrenteMueveUnaVez(t *testing.T) {
	_, tx := newDB(t)
	seed(t, tx, 10)
	ctx := context.Background()
	bodega := entity.Actor{ID: "u-bod", Name: "Bodega", Role: entity.RoleBodega}

	_, err := transfer.NewShiftGate(tx, logger.Nop()).Open(ctx, bodega, "")
	require.NoError(t, err)
	coord := transfer.NewCoordinator(tx, logger.Nop())
	tr, err := coord.Request(ctx, transfer.RequestInput{
		FromWarehouseID: "wh-cocina", ToWarehouseID: "wh-bodega",
		Lines: []transfer.Line{{ProductID: "burger", Quantity: 4}},
	}, bodega)
	require.NoError(t, err)

	oneWinner(t, concurrently(6, func() error {
		_, err := coord.Confirm(ctx, tr.ID, bodega)
		return err
	}))

	assert.Equal(t, 6, qty(t, tx, "burger", "wh-cocina"))
	assert.Equal(t, 4, qty(t, tx, "burger", "wh-bodega"))

	_, err = coord.Reject(ctx, tr.ID, bodega, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestIntegration_VentasDuranteElCierreQuedanEnLaCaja(t *testing.T) {
	_, tx := newDB(t)
	seed(t, tx, 50)
	ctx := context.Background()

	cash := cashsession.NewService(tx, nil, logger.Nop())
	session, err := cash.Open(ctx, cajero, decimal.NewFromInt(10000), "")
	require.NoError(t, err)
	orders := order.NewService(tx, nil, "Cocina", logger.Nop())

	var turn sync.Mutex
	n := 0
	errs := concurrently(12, func() error {
		turn.Lock()
		n++
		mine := n
		turn.Unlock()
		if mine == 6 {
			// actual 0: faltante, así el cierre también toma el consecutivo de asientos.
			_, err := cash.Close(ctx, cajero.ID, decimal.Zero, "", cajero)
			return err
		}
		_, err := orders.Create(ctx, order.CreateInput{
			Cashier:       cajero,
			Lines:         []order.LineInput{{ProductID: "burger", Quantity: 1}},
			PaymentMethod: entity.PaymentCash,
		})
		return err
	})
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrNoOpenCashSession)
		}
	}

	closed, err := cash.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	require.NotNil(t, closed.Difference)

	require.NoError(t, tx.View(ctx, func(r repository.Repos) error {
		inSession, err := r.Orders.ListBySession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, len(inSession), closed.TotalOrders)
		expected := decimal.NewFromInt(10000)
		for _, o := range inSession {
			expected = expected.Add(o.Total)
		}
		assert.True(t, expected.Equal(closed.ExpectedAmount), "esperado %s, cierre %s", expected, closed.ExpectedAmount)
		assert.True(t, closed.Difference.Equal(expected.Neg()))
		return nil
	}))
	assert.Equal(t, 50-closed.TotalOrders, qty(t, tx, "burger", "wh-cocina"))
}

func TestIntegration_AsientoConCentavoDeDiferenciaSePersiste(t *testing.T) {
	_, tx := newDB(t)
	ctx := context.Background()
	contador := entity.Actor{ID: "u-cont", Name: "Contador", Role: entity.RoleAccountant}
	svc := accounting.NewService(tx, nil, logger.Nop())

	e, err := svc.AppendManual(ctx, dto.CreateEntryRequest{
		Description: "Redondeo",
		Lines: []dto.EntryLineRequest{
			{AccountCode: domacc.AccountBank, Debit: decimal.RequireFromString("100.01")},
			{AccountCode: domacc.AccountCapital, Credit: decimal.RequireFromString("100.00")},
		},
	}, contador)
	require.NoError(t, err)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalDebit.Sub(got.TotalCredit).Equal(decimal.RequireFromString("0.01")))

	_, err = svc.AppendManual(ctx, dto.CreateEntryRequest{
		Description: "Descuadre",
		Lines: []dto.EntryLineRequest{
			{AccountCode: domacc.AccountBank, Debit: decimal.RequireFromString("100.02")},
			{AccountCode: domacc.AccountCapital, Credit: decimal.RequireFromString("100.00")},
		},
	}, contador)
	assert.ErrorIs(t, err, domain.ErrUnbalancedEntry)
}
