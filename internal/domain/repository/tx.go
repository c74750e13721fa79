package repository

import "context"

// KeyLocker serializa secciones críticas por llave hasta el fin de la transacción
// (p. ej. la asignación de consecutivos por prefijo).
type KeyLocker interface {
	Lock(ctx context.Context, key string) error
}

// Repos conjunto de repositorios atados a una misma unidad de trabajo.
type Repos struct {
	Products       ProductRepository
	Stock          StockRepository
	StockMovements StockMovementRepository
	Warehouses     WarehouseRepository
	Users          UserRepository
	Orders         OrderRepository
	Ledger         LedgerRepository
	Sessions       CashSessionRepository
	Shifts         ShiftRepository
	Transfers      TransferRepository
	Locks          KeyLocker
}

// TxRunner ejecuta unidades de trabajo. Run es todo-o-nada: si fn devuelve error
// no queda ningún cambio. View es de solo lectura.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
	View(ctx context.Context, fn func(r Repos) error) error
}
