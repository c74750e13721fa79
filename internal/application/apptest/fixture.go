// Package apptest arma un almacén en memoria con bodegas y productos para los tests
// de los servicios de aplicación.
package apptest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/memory"
)

// IDs fijos de las bodegas sembradas.
const (
	Cocina = "wh-cocina"
	Bodega = "wh-bodega"
)

// Fixture estado compartido de un test.
type Fixture struct {
	t     testing.TB
	Store *memory.Store
	Now   time.Time
}

// New almacén con las bodegas "Cocina" (venta) y "Bodega Principal".
func New(t testing.TB) *Fixture {
	t.Helper()
	f := &Fixture{t: t, Store: memory.NewStore(), Now: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	ctx := context.Background()
	require.NoError(t, f.Store.Run(ctx, func(r repository.Repos) error {
		if err := r.Warehouses.Create(ctx, &entity.Warehouse{ID: Cocina, Name: "Cocina", Active: true}); err != nil {
			return err
		}
		return r.Warehouses.Create(ctx, &entity.Warehouse{ID: Bodega, Name: "Bodega Principal", IsDefault: true, Active: true})
	}))
	return f
}

// Clock reloj controlado por f.Now.
func (f *Fixture) Clock() func() time.Time {
	return func() time.Time { return f.Now }
}

// Product crea un producto activo; precio y costo en unidades enteras.
func (f *Fixture) Product(id, name, category string, price, cost int64) *entity.Product {
	f.t.Helper()
	p := &entity.Product{
		ID:          id,
		Code:        id,
		Name:        name,
		Category:    category,
		Price:       decimal.NewFromInt(price),
		Cost:        decimal.NewFromInt(cost),
		Active:      true,
		AccountCode: entity.DefaultAccountCode(category),
	}
	f.save(p)
	return p
}

// Combo crea un combo con la receta dada (producto → cantidad por unidad).
func (f *Fixture) Combo(id, name string, price int64, items ...entity.ComboItem) *entity.Product {
	f.t.Helper()
	p := &entity.Product{
		ID:          id,
		Code:        id,
		Name:        name,
		Category:    entity.CategoryCombo,
		Price:       decimal.NewFromInt(price),
		Active:      true,
		AccountCode: entity.DefaultAccountCode(entity.CategoryCombo),
		IsCombo:     true,
		ComboItems:  items,
	}
	f.save(p)
	return p
}

func (f *Fixture) save(p *entity.Product) {
	ctx := context.Background()
	require.NoError(f.t, f.Store.Run(ctx, func(r repository.Repos) error { return r.Products.Create(ctx, p) }))
}

// Stock suma qty al stock de (producto, bodega).
func (f *Fixture) Stock(productID, warehouseID string, qty int) {
	f.t.Helper()
	ctx := context.Background()
	require.NoError(f.t, f.Store.Run(ctx, func(r repository.Repos) error {
		_, err := r.Stock.Increment(ctx, entity.StockKey{ProductID: productID, WarehouseID: warehouseID}, qty)
		return err
	}))
}

// Qty cantidad actual de (producto, bodega).
func (f *Fixture) Qty(productID, warehouseID string) int {
	f.t.Helper()
	ctx := context.Background()
	var n int
	require.NoError(f.t, f.Store.View(ctx, func(r repository.Repos) error {
		s, err := r.Stock.Get(ctx, entity.StockKey{ProductID: productID, WarehouseID: warehouseID})
		if err != nil {
			return err
		}
		n = s.Quantity
		return nil
	}))
	return n
}

// Entries asientos registrados, más recientes primero.
func (f *Fixture) Entries() []*entity.LedgerEntry {
	f.t.Helper()
	ctx := context.Background()
	var out []*entity.LedgerEntry
	require.NoError(f.t, f.Store.View(ctx, func(r repository.Repos) error {
		list, err := r.Ledger.List(ctx, repository.EntryFilter{})
		out = list
		return err
	}))
	return out
}

// Balances saldos por cuenta de todos los asientos activos.
func (f *Fixture) Balances() map[string]accounting.Balance {
	out := map[string]accounting.Balance{}
	for _, b := range accounting.Balances(f.Entries(), nil, nil) {
		out[b.AccountCode] = b
	}
	return out
}
