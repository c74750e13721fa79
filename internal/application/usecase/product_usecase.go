package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y combos. El costo y el stock
// solo cambian con movimientos (entradas, ventas, traslados).
type ProductUseCase struct {
	tx            repository.TxRunner
	saleWarehouse string
}

// NewProductUseCase construye el caso de uso. saleWarehouse es la bodega donde se
// informa la disponibilidad de cada producto.
func NewProductUseCase(tx repository.TxRunner, saleWarehouse string) *ProductUseCase {
	return &ProductUseCase{tx: tx, saleWarehouse: saleWarehouse}
}

// Create crea un nuevo producto o combo con código único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.NewValidationError("code", "es requerido")
	}
	if !entity.ValidCategory(in.Category) {
		return nil, domain.NewValidationError("category", fmt.Sprintf("%q no es válida", in.Category))
	}
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, domain.NewValidationError("price", "precio y costo no pueden ser negativos")
	}
	account, err := incomeAccount(in.AccountCode, in.Category)
	if err != nil {
		return nil, err
	}
	minStock := 0
	if in.MinStock != nil {
		minStock = *in.MinStock
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Cost:        in.Cost,
		MinStock:    minStock,
		Active:      true,
		AccountCode: account,
		IsCombo:     in.IsCombo || in.Category == entity.CategoryCombo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}

	var stock *int
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Products.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("código %s: %w", code, domain.ErrDuplicate)
		}
		if err := resolveCombo(ctx, r, product, in.ComboItems); err != nil {
			return err
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		stock, err = uc.availability(ctx, r, product)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, stock), nil
}

// GetByID obtiene un producto con su disponibilidad en la bodega de venta.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var out *dto.ProductResponse
	err := uc.tx.View(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFoundError("producto", id)
		}
		stock, err := uc.availability(ctx, r, p)
		if err != nil {
			return err
		}
		out = toProductResponse(p, stock)
		return nil
	})
	return out, err
}

// Update actualiza un producto. No permite modificar costo ni stock ni convertir
// un producto simple en combo (o viceversa).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var out *dto.ProductResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		product, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFoundError("producto", id)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.NewValidationError("name", "es requerido")
			}
			product.Name = name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Category != nil {
			if !entity.ValidCategory(*in.Category) {
				return domain.NewValidationError("category", fmt.Sprintf("%q no es válida", *in.Category))
			}
			if (*in.Category == entity.CategoryCombo) != product.IsCombo {
				return domain.NewValidationError("category", "no se puede convertir entre producto y combo")
			}
			product.Category = *in.Category
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return domain.NewValidationError("price", "no puede ser negativo")
			}
			product.Price = *in.Price
		}
		if in.MinStock != nil {
			product.MinStock = *in.MinStock
		}
		if in.AccountCode != nil {
			account, err := incomeAccount(*in.AccountCode, product.Category)
			if err != nil {
				return err
			}
			product.AccountCode = account
		}
		if in.Active != nil {
			product.Active = *in.Active
		}
		if in.ComboItems != nil {
			if !product.IsCombo {
				return domain.NewValidationError("combo_items", "solo un combo tiene componentes")
			}
			if err := resolveCombo(ctx, r, product, in.ComboItems); err != nil {
				return err
			}
		}
		product.UpdatedAt = time.Now()
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		stock, err := uc.availability(ctx, r, product)
		if err != nil {
			return err
		}
		out = toProductResponse(product, stock)
		return nil
	})
	return out, err
}

// List lista productos filtrados con su disponibilidad.
func (uc *ProductUseCase) List(ctx context.Context, f repository.ProductFilter) ([]dto.ProductResponse, error) {
	var items []dto.ProductResponse
	err := uc.tx.View(ctx, func(r repository.Repos) error {
		list, err := r.Products.List(ctx, f)
		if err != nil {
			return err
		}
		items = make([]dto.ProductResponse, 0, len(list))
		for _, p := range list {
			stock, err := uc.availability(ctx, r, p)
			if err != nil {
				return err
			}
			items = append(items, *toProductResponse(p, stock))
		}
		return nil
	})
	return items, err
}

// Delete desactiva el producto; las órdenes existentes lo siguen referenciando.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFoundError("producto", id)
		}
		p.Active = false
		p.UpdatedAt = time.Now()
		return r.Products.Update(ctx, p)
	})
}

// availability stock del producto (o derivado si es combo) en la bodega de venta;
// nil si la bodega no existe.
func (uc *ProductUseCase) availability(ctx context.Context, r repository.Repos, p *entity.Product) (*int, error) {
	w, err := r.Warehouses.GetByName(ctx, uc.saleWarehouse)
	if err != nil || w == nil {
		return nil, err
	}
	n, err := inventory.ComboAvailability(ctx, r, p, w.ID)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// resolveCombo valida y fija la receta: componentes existentes, no combos, sin repetir.
func resolveCombo(ctx context.Context, r repository.Repos, p *entity.Product, items []dto.ComboItemRequest) error {
	if !p.IsCombo {
		if len(items) > 0 {
			return domain.NewValidationError("combo_items", "solo un combo tiene componentes")
		}
		return nil
	}
	if len(items) == 0 {
		return domain.NewValidationError("combo_items", "un combo requiere al menos un componente")
	}
	seen := map[string]bool{}
	recipe := make([]entity.ComboItem, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return domain.NewValidationError("combo_items", "la cantidad debe ser al menos 1")
		}
		if seen[it.ProductID] {
			return domain.NewValidationError("combo_items", "componente repetido: "+it.ProductID)
		}
		seen[it.ProductID] = true
		if it.ProductID == p.ID {
			return domain.NewValidationError("combo_items", "un combo no puede contenerse a sí mismo")
		}
		comp, err := r.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if comp == nil {
			return domain.NotFoundError("producto", it.ProductID)
		}
		if comp.IsCombo {
			return domain.NewValidationError("combo_items", comp.Name+" es un combo; no se permiten combos anidados")
		}
		recipe = append(recipe, entity.ComboItem{ProductID: comp.ID, ProductName: comp.Name, Quantity: it.Quantity})
	}
	p.ComboItems = recipe
	return nil
}

// incomeAccount cuenta de ingresos del producto: la indicada (debe ser de ingresos)
// o la de su categoría.
func incomeAccount(code, category string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return entity.DefaultAccountCode(category), nil
	}
	acc, ok := domacc.Lookup(code)
	if !ok || acc.Type != domacc.TypeIncome || code == domacc.AccountSalesDiscount {
		return "", domain.NewValidationError("account_code", fmt.Sprintf("%s no es una cuenta de ingresos válida", code))
	}
	return code, nil
}

func toProductResponse(p *entity.Product, stock *int) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Cost:        p.Cost,
		MinStock:    p.MinStock,
		Active:      p.Active,
		AccountCode: p.AccountCode,
		IsCombo:     p.IsCombo,
		Stock:       stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, ci := range p.ComboItems {
		out.ComboItems = append(out.ComboItems, dto.ComboItemResponse{ProductID: ci.ProductID, ProductName: ci.ProductName, Quantity: ci.Quantity})
	}
	return out
}
