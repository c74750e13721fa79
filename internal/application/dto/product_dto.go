package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComboItemRequest componente de un combo.
type ComboItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code        string             `json:"code" validate:"required,min=1,max=50"`
	Name        string             `json:"name" validate:"required,min=1,max=200"`
	Description string             `json:"description" validate:"max=1000"`
	Category    string             `json:"category" validate:"required,oneof=food beverage combo other"`
	Price       decimal.Decimal    `json:"price"`
	Cost        decimal.Decimal    `json:"cost"`
	MinStock    *int               `json:"min_stock" validate:"omitempty,min=0"`
	AccountCode string             `json:"account_code" validate:"omitempty,max=20"`
	IsCombo     bool               `json:"is_combo"`
	ComboItems  []ComboItemRequest `json:"combo_items" validate:"dive"`
}

// UpdateProductRequest entrada para actualizar un producto. ComboItems no nulo reemplaza la receta.
type UpdateProductRequest struct {
	Name        *string            `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=1000"`
	Category    *string            `json:"category" validate:"omitempty,oneof=food beverage combo other"`
	Price       *decimal.Decimal   `json:"price"`
	MinStock    *int               `json:"min_stock" validate:"omitempty,min=0"`
	AccountCode *string            `json:"account_code" validate:"omitempty,max=20"`
	Active      *bool              `json:"active"`
	ComboItems  []ComboItemRequest `json:"combo_items" validate:"omitempty,dive"`
}

// ComboItemResponse componente de combo en la salida.
type ComboItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// ProductResponse salida de un producto. Stock es la disponibilidad en la bodega de venta
// (derivada para combos).
type ProductResponse struct {
	ID          string              `json:"id"`
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Price       decimal.Decimal     `json:"price"`
	Cost        decimal.Decimal     `json:"cost"`
	MinStock    int                 `json:"min_stock"`
	Active      bool                `json:"active"`
	AccountCode string              `json:"account_code"`
	IsCombo     bool                `json:"is_combo"`
	ComboItems  []ComboItemResponse `json:"combo_items,omitempty"`
	Stock       *int                `json:"stock,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// LowStockItem producto con stock total por debajo del mínimo y la reposición sugerida.
type LowStockItem struct {
	ProductID     string          `json:"product_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"min_stock"`
	SuggestedQty  int             `json:"suggested_qty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Priority      int             `json:"priority"`
}
