package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// EntryFilter criterios de listado de asientos.
type EntryFilter struct {
	From   *time.Time
	To     *time.Time
	Type   string
	Status string
	Limit  int
}

// LedgerRepository libro diario: solo inserción, más la anulación.
type LedgerRepository interface {
	Create(ctx context.Context, e *entity.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error)
	// FindByReference primer asiento activo del tipo dado para la referencia.
	FindByReference(ctx context.Context, refType, refID, entryType string) (*entity.LedgerEntry, error)
	List(ctx context.Context, f EntryFilter) ([]*entity.LedgerEntry, error)
	Void(ctx context.Context, id, by, reason string, at time.Time) error
	LastNumber(ctx context.Context, prefix string) (string, error)
}
