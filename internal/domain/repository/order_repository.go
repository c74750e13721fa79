package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// OrderFilter criterios de listado de órdenes.
type OrderFilter struct {
	Status        string
	CashSessionID string
	CashierID     string
	From          *time.Time
	To            *time.Time
	Limit         int
}

// OrderRepository puerto de persistencia para órdenes.
//
// Los métodos ForUpdate bloquean la fila hasta el fin de la unidad de trabajo.
// Update solo escribe si el estado guardado sigue siendo from; si cambió devuelve
// *domain.TransitionError.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	Update(ctx context.Context, o *entity.Order, from string) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	GetByNumberForUpdate(ctx context.Context, number string) (*entity.Order, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Order, error)
	// LastNumber mayor número de orden con el prefijo dado ("" si no hay).
	LastNumber(ctx context.Context, prefix string) (string, error)
}
