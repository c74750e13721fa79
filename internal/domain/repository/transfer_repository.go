package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// TransferFilter criterios de listado de traslados.
type TransferFilter struct {
	Status  string
	ShiftID string
	Limit   int
}

// TransferRepository puerto de persistencia de traslados.
// Update solo escribe si el estado guardado sigue siendo from.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.InventoryTransfer) error
	Update(ctx context.Context, t *entity.InventoryTransfer, from string) error
	GetByID(ctx context.Context, id string) (*entity.InventoryTransfer, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryTransfer, error)
	List(ctx context.Context, f TransferFilter) ([]*entity.InventoryTransfer, error)
	LastNumber(ctx context.Context, prefix string) (string, error)
}
