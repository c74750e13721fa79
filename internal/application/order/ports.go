package order

import "context"

// IdempotencyStore reserva llaves de idempotencia de creación de órdenes.
type IdempotencyStore interface {
	// Reserve toma la llave. Si ya estaba tomada devuelve reserved=false y, si la
	// operación original terminó, el ID de la orden creada.
	Reserve(ctx context.Context, key string) (orderID string, reserved bool, err error)
	// Complete asocia la llave reservada a la orden creada.
	Complete(ctx context.Context, key, orderID string) error
	// Release libera la llave cuando la creación falló.
	Release(ctx context.Context, key string) error
}
