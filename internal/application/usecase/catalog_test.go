package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/apptest"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func intPtr(n int) *int { return &n }

func TestProduct_CreateAsignaCuentaPorCategoria(t *testing.T) {
	f := apptest.New(t)
	uc := usecase.NewProductUseCase(f.Store, "Cocina")

	p, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Code: "GAS-1", Name: "Gaseosa", Category: entity.CategoryBeverage,
		Price: decimal.NewFromInt(4000), Cost: decimal.NewFromInt(1500), MinStock: intPtr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AccountBeverageSales, p.AccountCode)
	assert.True(t, p.Active)
	require.NotNil(t, p.Stock)
	assert.Equal(t, 0, *p.Stock)

	_, err = uc.Create(context.Background(), dto.CreateProductRequest{
		Code: "gas-1", Name: "Otra", Category: entity.CategoryBeverage,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_CuentaDebeSerDeIngresos(t *testing.T) {
	f := apptest.New(t)
	uc := usecase.NewProductUseCase(f.Store, "Cocina")

	for _, code := range []string{"1.1.01", "4.1.90", "9.9"} {
		_, err := uc.Create(context.Background(), dto.CreateProductRequest{
			Code: "X-" + code, Name: "X", Category: entity.CategoryFood, AccountCode: code,
		})
		assert.ErrorIs(t, err, domain.ErrValidation, code)
	}
}

func TestProduct_ValidacionesDeCombo(t *testing.T) {
	f := apptest.New(t)
	f.Product("ham", "Hamburguesa", entity.CategoryFood, 18000, 7000)
	f.Combo("c1", "Combo 1", 25000, entity.ComboItem{ProductID: "ham", Quantity: 1})
	uc := usecase.NewProductUseCase(f.Store, "Cocina")
	ctx := context.Background()

	cases := []struct {
		name  string
		items []dto.ComboItemRequest
		want  error
	}{
		{"sin componentes", nil, domain.ErrValidation},
		{"combo anidado", []dto.ComboItemRequest{{ProductID: "c1", Quantity: 1}}, domain.ErrValidation},
		{"componente inexistente", []dto.ComboItemRequest{{ProductID: "nada", Quantity: 1}}, domain.ErrNotFound},
		{"repetido", []dto.ComboItemRequest{{ProductID: "ham", Quantity: 1}, {ProductID: "ham", Quantity: 2}}, domain.ErrValidation},
		{"cantidad cero", []dto.ComboItemRequest{{ProductID: "ham", Quantity: 0}}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, dto.CreateProductRequest{
				Code: "C-" + tc.name, Name: "Combo", Category: entity.CategoryCombo,
				Price: decimal.NewFromInt(1000), ComboItems: tc.items,
			})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestProduct_StockDerivadoDelCombo(t *testing.T) {
	f := apptest.New(t)
	f.Product("ham", "Hamburguesa", entity.CategoryFood, 18000, 7000)
	f.Product("gas", "Gaseosa", entity.CategoryBeverage, 4000, 1500)
	f.Stock("ham", apptest.Cocina, 7)
	f.Stock("gas", apptest.Cocina, 4)
	f.Stock("ham", apptest.Bodega, 50)
	uc := usecase.NewProductUseCase(f.Store, "Cocina")

	combo, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Code: "CMB", Name: "Combo", Category: entity.CategoryCombo, Price: decimal.NewFromInt(20000),
		ComboItems: []dto.ComboItemRequest{{ProductID: "ham", Quantity: 2}, {ProductID: "gas", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, combo.IsCombo)
	require.Len(t, combo.ComboItems, 2)
	assert.Equal(t, "Hamburguesa", combo.ComboItems[0].ProductName)
	require.NotNil(t, combo.Stock)
	assert.Equal(t, 3, *combo.Stock) // min(7/2, 4/1)

	ham, err := uc.GetByID(context.Background(), "ham")
	require.NoError(t, err)
	assert.Equal(t, 7, *ham.Stock)
}

func TestProduct_UpdateYDeleteLogico(t *testing.T) {
	f := apptest.New(t)
	f.Product("ham", "Hamburguesa", entity.CategoryFood, 18000, 7000)
	uc := usecase.NewProductUseCase(f.Store, "Cocina")
	ctx := context.Background()

	price := decimal.NewFromInt(19000)
	name := "Hamburguesa Doble"
	p, err := uc.Update(ctx, "ham", dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Hamburguesa Doble", p.Name)
	assert.True(t, p.Price.Equal(price))
	assert.True(t, p.Cost.Equal(decimal.NewFromInt(7000)))

	combo := entity.CategoryCombo
	_, err = uc.Update(ctx, "ham", dto.UpdateProductRequest{Category: &combo})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, uc.Delete(ctx, "ham"))
	got, err := uc.GetByID(ctx, "ham")
	require.NoError(t, err)
	assert.False(t, got.Active)

	active, err := uc.List(ctx, repository.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, uc.Delete(ctx, "nada"), domain.ErrNotFound)
}

func TestWarehouse_UnaPorDefectoYNombreUnico(t *testing.T) {
	f := apptest.New(t)
	uc := usecase.NewWarehouseUseCase(f.Store)
	ctx := context.Background()

	barra, err := uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Barra", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, barra.IsDefault)

	old, err := uc.GetByID(ctx, apptest.Bodega)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)

	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Name: "barra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestWarehouse_DeleteConStockSeRechaza(t *testing.T) {
	f := apptest.New(t)
	f.Product("ham", "Hamburguesa", entity.CategoryFood, 18000, 7000)
	f.Stock("ham", apptest.Bodega, 5)
	uc := usecase.NewWarehouseUseCase(f.Store)
	ctx := context.Background()

	assert.ErrorIs(t, uc.Delete(ctx, apptest.Bodega), domain.ErrConflict)
	require.NoError(t, uc.Delete(ctx, apptest.Cocina))
	_, err := uc.GetByID(ctx, apptest.Cocina)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInventory_VistaYBajoStock(t *testing.T) {
	f := apptest.New(t)
	ham := f.Product("ham", "Hamburguesa", entity.CategoryFood, 18000, 7000)
	gas := f.Product("gas", "Gaseosa", entity.CategoryBeverage, 4000, 1500)
	f.Combo("c1", "Combo", 20000, entity.ComboItem{ProductID: "ham", Quantity: 1})
	require.NoError(t, f.Store.Run(context.Background(), func(r repository.Repos) error {
		ham.MinStock = 10
		gas.MinStock = 24
		if err := r.Products.Update(context.Background(), ham); err != nil {
			return err
		}
		return r.Products.Update(context.Background(), gas)
	}))
	f.Stock("ham", apptest.Cocina, 3)
	f.Stock("ham", apptest.Bodega, 5)
	f.Stock("gas", apptest.Bodega, 20)
	uc := usecase.NewInventoryUseCase(f.Store)
	ctx := context.Background()

	view, err := uc.View(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Warehouses, 2)
	require.Len(t, view.Products, 2) // el combo no tiene stock propio
	for _, row := range view.Products {
		if row.ProductID == "ham" {
			assert.Equal(t, 8, row.Total)
			assert.Equal(t, 3, row.ByWarehouse[apptest.Cocina])
			assert.True(t, row.LowStock)
		}
	}

	low, err := uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	// ham: déficit 2, ideal 15 → sugerido 7; gas: déficit 4, ideal 36 → sugerido 16
	assert.Equal(t, "gas", low[0].ProductID)
	assert.Equal(t, 1, low[0].Priority)
	assert.Equal(t, 16, low[0].SuggestedQty)
	assert.True(t, low[0].EstimatedCost.Equal(decimal.NewFromInt(24000)))
	assert.Equal(t, "ham", low[1].ProductID)
	assert.Equal(t, 7, low[1].SuggestedQty)
}

func TestSeed_Idempotente(t *testing.T) {
	f := apptest.New(t)
	uc := usecase.NewSeedUseCase(f.Store, logger.Nop())
	cfg := usecase.SeedConfig{SaleWarehouse: "Cocina", AdminPassword: "Admin123!", SampleProducts: true}
	ctx := context.Background()

	res, err := uc.Run(ctx, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Warehouses) // el fixture ya las tiene
	assert.Equal(t, "admin", res.AdminUser)
	assert.Equal(t, 4, res.Products)

	res, err = uc.Run(ctx, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.AdminUser)
	assert.Zero(t, res.Products)

	require.NoError(t, f.Store.View(ctx, func(r repository.Repos) error {
		combo, err := r.Products.GetByCode(ctx, "COM-001")
		require.NoError(t, err)
		assert.Len(t, combo.ComboItems, 3)
		n, err := r.Users.Count(ctx)
		assert.Equal(t, 1, n)
		return err
	}))
}
