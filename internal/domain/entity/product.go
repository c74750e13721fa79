package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de producto.
const (
	CategoryFood     = "food"
	CategoryBeverage = "beverage"
	CategoryCombo    = "combo"
	CategoryOther    = "other"
)

// Cuentas de ingreso por defecto según categoría.
const (
	AccountFoodSales     = "4.1.01"
	AccountBeverageSales = "4.1.02"
)

// Product representa un producto vendible. Un combo no tiene stock propio:
// su disponibilidad se deriva de los productos que lo componen.
type Product struct {
	ID          string
	Code        string // único
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo promedio ponderado
	MinStock    int
	Active      bool
	AccountCode string // cuenta de ingresos (4.1.01 alimentos, 4.1.02 bebidas)
	IsCombo     bool
	ComboItems  []ComboItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ComboItem componente de un combo: producto y cantidad requerida por unidad de combo.
type ComboItem struct {
	ProductID   string
	ProductName string
	Quantity    int
}

// ValidCategory indica si la categoría es una de las soportadas.
func ValidCategory(c string) bool {
	switch c {
	case CategoryFood, CategoryBeverage, CategoryCombo, CategoryOther:
		return true
	}
	return false
}

// DefaultAccountCode cuenta de ingresos que corresponde a la categoría.
func DefaultAccountCode(category string) string {
	if category == CategoryBeverage {
		return AccountBeverageSales
	}
	return AccountFoodSales
}

// Clone copia profunda (la receta del combo no se comparte).
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.ComboItems = append([]ComboItem(nil), p.ComboItems...)
	return &c
}
