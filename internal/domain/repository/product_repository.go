package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	Category   string
	ActiveOnly bool
	CombosOnly bool
	Search     string // coincide con código o nombre
	Limit      int
	Offset     int
}

// ProductRepository puerto de persistencia para productos.
// GetByID/GetByCode devuelven (nil, nil) cuando no existe.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
}
