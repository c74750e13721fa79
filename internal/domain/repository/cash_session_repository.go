package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// SessionFilter criterios del historial de cajas.
type SessionFilter struct {
	CashierID string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// CashSessionRepository puerto de persistencia de cajas.
// Create devuelve domain.ErrSessionAlreadyOpen si el cajero ya tiene una caja abierta.
// UpdateTotals y Close solo actúan sobre una caja abierta; si ya estaba cerrada
// devuelven *domain.TransitionError.
type CashSessionRepository interface {
	Create(ctx context.Context, s *entity.CashSession) error
	UpdateTotals(ctx context.Context, s *entity.CashSession) error
	Close(ctx context.Context, s *entity.CashSession) error
	GetByID(ctx context.Context, id string) (*entity.CashSession, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.CashSession, error)
	GetOpenByCashier(ctx context.Context, cashierID string) (*entity.CashSession, error)
	GetOpenByCashierForUpdate(ctx context.Context, cashierID string) (*entity.CashSession, error)
	List(ctx context.Context, f SessionFilter) ([]*entity.CashSession, error)
}
