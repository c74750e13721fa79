package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// StockRepository puerto de persistencia para stock por (producto, bodega).
type StockRepository interface {
	// Get devuelve la cantidad actual; un registro ausente se reporta con cantidad cero.
	Get(ctx context.Context, key entity.StockKey) (*entity.Stock, error)
	// LockForUpdate bloquea las llaves (en el orden recibido) hasta el fin de la transacción
	// y devuelve sus cantidades actuales.
	LockForUpdate(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]int, error)
	// Decrement resta qty solo si alcanza; si no, devuelve domain.ErrInsufficientStock sin modificar.
	Decrement(ctx context.Context, key entity.StockKey, qty int) (int, error)
	// Increment suma qty creando el registro si no existe.
	Increment(ctx context.Context, key entity.StockKey, qty int) (int, error)
	ListAll(ctx context.Context) ([]*entity.Stock, error)
	CountByWarehouse(ctx context.Context, warehouseID string) (int, error)
}
