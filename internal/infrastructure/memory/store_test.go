package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
)

func TestRun_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	key := entity.StockKey{ProductID: "p1", WarehouseID: "w1"}

	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		_, err := r.Stock.Increment(ctx, key, 10)
		return err
	}))

	boom := errors.New("falla a mitad de camino")
	err := store.Run(ctx, func(r repository.Repos) error {
		if _, err := r.Stock.Decrement(ctx, key, 4); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, store.View(ctx, func(r repository.Repos) error {
		s, err := r.Stock.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 10, s.Quantity, "el descuento no debe sobrevivir al error")
		return nil
	}))
}

func TestDecrement_NoPermiteNegativos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	key := entity.StockKey{ProductID: "p1", WarehouseID: "w1"}

	err := store.Run(ctx, func(r repository.Repos) error {
		_, err := r.Stock.Decrement(ctx, key, 1)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestSessions_UnaAbiertaPorCajero(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	create := func(id, cashier string) error {
		return store.Run(ctx, func(r repository.Repos) error {
			return r.Sessions.Create(ctx, &entity.CashSession{ID: id, CashierID: cashier, Status: entity.SessionOpen})
		})
	}
	require.NoError(t, create("s1", "c1"))
	assert.ErrorIs(t, create("s2", "c1"), domain.ErrSessionAlreadyOpen)
	assert.NoError(t, create("s3", "c2"))
}

func TestView_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		return r.Products.Create(ctx, &entity.Product{ID: "p1", Code: "HAM", Name: "Hamburguesa"})
	}))

	require.NoError(t, store.View(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, "p1")
		require.NoError(t, err)
		p.Name = "modificado fuera de una transacción"
		return nil
	}))
	require.NoError(t, store.View(ctx, func(r repository.Repos) error {
		p, _ := r.Products.GetByID(ctx, "p1")
		assert.Equal(t, "Hamburguesa", p.Name)
		return nil
	}))
}

func TestLastNumber_PorPrefijo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		for i, n := range []string{"202401010001", "202401010007", "202401020001"} {
			if err := r.Orders.Create(ctx, &entity.Order{ID: string(rune('a' + i)), OrderNumber: n}); err != nil {
				return err
			}
		}
		last, err := r.Orders.LastNumber(ctx, "20240101")
		require.NoError(t, err)
		assert.Equal(t, "202401010007", last)
		return nil
	}))
}

func TestOrders_UpdateExigeElEstadoLeido(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		return r.Orders.Create(ctx, &entity.Order{ID: "o1", OrderNumber: "20260314-0001", Status: entity.OrderPaid})
	}))

	cancel := func() error {
		return store.Run(ctx, func(r repository.Repos) error {
			o, err := r.Orders.GetByIDForUpdate(ctx, "o1")
			if err != nil {
				return err
			}
			o.Status = entity.OrderCancelled
			return r.Orders.Update(ctx, o, entity.OrderPaid)
		})
	}
	require.NoError(t, cancel())

	err := cancel()
	var te *domain.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, entity.OrderCancelled, te.From)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = store.Run(ctx, func(r repository.Repos) error {
		return r.Orders.Update(ctx, &entity.Order{ID: "nada"}, entity.OrderPaid)
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessions_TotalesNoReabrenUnaCajaCerrada(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		return r.Sessions.Create(ctx, &entity.CashSession{ID: "s1", CashierID: "c1", Status: entity.SessionOpen})
	}))

	var stale *entity.CashSession
	require.NoError(t, store.View(ctx, func(r repository.Repos) error {
		s, err := r.Sessions.GetByID(ctx, "s1")
		stale = s
		return err
	}))

	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		s, err := r.Sessions.GetByIDForUpdate(ctx, "s1")
		if err != nil {
			return err
		}
		s.Status = entity.SessionClosed
		return r.Sessions.Close(ctx, s)
	}))

	// Una copia leída antes del cierre todavía dice "open".
	stale.TotalOrders = 3
	err := store.Run(ctx, func(r repository.Repos) error { return r.Sessions.UpdateTotals(ctx, stale) })
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	err = store.Run(ctx, func(r repository.Repos) error { return r.Sessions.Close(ctx, stale) })
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, store.View(ctx, func(r repository.Repos) error {
		s, err := r.Sessions.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, entity.SessionClosed, s.Status)
		assert.Equal(t, 0, s.TotalOrders)
		open, err := r.Sessions.GetOpenByCashier(ctx, "c1")
		require.NoError(t, err)
		assert.Nil(t, open)
		return nil
	}))
}

func TestSessions_UpdateTotalsSoloTocaLosTotales(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		return r.Sessions.Create(ctx, &entity.CashSession{ID: "s1", CashierID: "c1", Status: entity.SessionOpen, Notes: "apertura"})
	}))

	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		s, err := r.Sessions.GetByIDForUpdate(ctx, "s1")
		if err != nil {
			return err
		}
		s.TotalOrders = 2
		s.Status = entity.SessionClosed
		s.Notes = "otra cosa"
		return r.Sessions.UpdateTotals(ctx, s)
	}))

	require.NoError(t, store.View(ctx, func(r repository.Repos) error {
		s, err := r.Sessions.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 2, s.TotalOrders)
		assert.Equal(t, entity.SessionOpen, s.Status)
		assert.Equal(t, "apertura", s.Notes)
		return nil
	}))
}

func TestTransfers_UpdateExigePendiente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		return r.Transfers.Create(ctx, &entity.InventoryTransfer{ID: "t1", TransferNumber: "TR-0001", Status: entity.TransferPending})
	}))

	set := func(to string) error {
		return store.Run(ctx, func(r repository.Repos) error {
			tr, err := r.Transfers.GetByIDForUpdate(ctx, "t1")
			if err != nil {
				return err
			}
			tr.Status = to
			return r.Transfers.Update(ctx, tr, entity.TransferPending)
		})
	}
	require.NoError(t, set(entity.TransferConfirmed))
	assert.ErrorIs(t, set(entity.TransferRejected), domain.ErrInvalidTransition)
	assert.ErrorIs(t, set(entity.TransferConfirmed), domain.ErrInvalidTransition)
}
