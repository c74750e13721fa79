package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// StockMovementFilter criterios del kardex.
type StockMovementFilter struct {
	ProductID   string
	WarehouseID string
	Limit       int
}

// StockMovementRepository kardex de movimientos de stock (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	List(ctx context.Context, f StockMovementFilter) ([]*entity.StockMovement, error)
}
