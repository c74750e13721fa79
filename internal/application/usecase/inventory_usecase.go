package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// reorderFactor múltiplo del stock mínimo al que se repone.
var reorderFactor = decimal.NewFromFloat(1.5)

// InventoryUseCase vistas de lectura del inventario.
type InventoryUseCase struct {
	tx repository.TxRunner
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(tx repository.TxRunner) *InventoryUseCase {
	return &InventoryUseCase{tx: tx}
}

// View matriz productos × bodegas de los productos con stock propio (los combos no tienen).
func (uc *InventoryUseCase) View(ctx context.Context) (*dto.InventoryView, error) {
	out := &dto.InventoryView{Warehouses: []dto.WarehouseResponse{}, Products: []dto.InventoryRow{}}
	err := uc.tx.View(ctx, func(r repository.Repos) error {
		warehouses, err := r.Warehouses.List(ctx)
		if err != nil {
			return err
		}
		for _, w := range warehouses {
			out.Warehouses = append(out.Warehouses, *toWarehouseResponse(w))
		}
		products, err := r.Products.List(ctx, repository.ProductFilter{})
		if err != nil {
			return err
		}
		byProduct, err := stockByProduct(ctx, r)
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.IsCombo {
				continue
			}
			row := dto.InventoryRow{
				ProductID:   p.ID,
				Code:        p.Code,
				Name:        p.Name,
				Category:    p.Category,
				MinStock:    p.MinStock,
				ByWarehouse: map[string]int{},
			}
			for wid, qty := range byProduct[p.ID] {
				row.ByWarehouse[wid] = qty
				row.Total += qty
			}
			row.LowStock = p.MinStock > 0 && row.Total < p.MinStock
			out.Products = append(out.Products, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LowStock productos activos bajo su mínimo con la cantidad sugerida de pedido
// (1.5 × mínimo − stock). Prioridad 1 = mayor déficit.
func (uc *InventoryUseCase) LowStock(ctx context.Context) ([]dto.LowStockItem, error) {
	items := []dto.LowStockItem{}
	err := uc.tx.View(ctx, func(r repository.Repos) error {
		products, err := r.Products.List(ctx, repository.ProductFilter{ActiveOnly: true})
		if err != nil {
			return err
		}
		byProduct, err := stockByProduct(ctx, r)
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.IsCombo || p.MinStock <= 0 {
				continue
			}
			total := 0
			for _, qty := range byProduct[p.ID] {
				total += qty
			}
			if total >= p.MinStock {
				continue
			}
			ideal := decimal.NewFromInt(int64(p.MinStock)).Mul(reorderFactor).Ceil().IntPart()
			suggested := int(ideal) - total
			items = append(items, dto.LowStockItem{
				ProductID:     p.ID,
				Code:          p.Code,
				Name:          p.Name,
				Stock:         total,
				MinStock:      p.MinStock,
				SuggestedQty:  suggested,
				UnitCost:      p.Cost,
				EstimatedCost: p.Cost.Mul(decimal.NewFromInt(int64(suggested))),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].MinStock-items[i].Stock, items[j].MinStock-items[j].Stock
		if di != dj {
			return di > dj
		}
		return items[i].EstimatedCost.GreaterThan(items[j].EstimatedCost)
	})
	for i := range items {
		items[i].Priority = i + 1
	}
	return items, nil
}

func stockByProduct(ctx context.Context, r repository.Repos) (map[string]map[string]int, error) {
	all, err := r.Stock.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]map[string]int{}
	for _, s := range all {
		if out[s.ProductID] == nil {
			out[s.ProductID] = map[string]int{}
		}
		out[s.ProductID][s.WarehouseID] += s.Quantity
	}
	return out, nil
}
