package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ShiftRepository puerto de persistencia de turnos.
// Create devuelve domain.ErrSessionAlreadyOpen si ya hay un turno abierto.
type ShiftRepository interface {
	Create(ctx context.Context, s *entity.Shift) error
	Update(ctx context.Context, s *entity.Shift) error
	GetByID(ctx context.Context, id string) (*entity.Shift, error)
	GetOpen(ctx context.Context) (*entity.Shift, error)
	List(ctx context.Context, limit int) ([]*entity.Shift, error)
	LastNumber(ctx context.Context, prefix string) (string, error)
}
