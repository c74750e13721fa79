// Package memory implementa los repositorios en memoria. Cada unidad de trabajo
// trabaja sobre una copia del estado y la publica solo si termina sin error,
// lo que da atomicidad y serialización completa dentro de un proceso.
//
// No es un almacenamiento para volumen de producción: cada Run copia el estado
// completo (costo proporcional a todos los datos) y las escrituras se serializan
// bajo un único mutex. Sirve para tests, demos y despliegues de una sola caja;
// con datos reales se usa STORAGE_DRIVER=postgres.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type state struct {
	products   map[string]*entity.Product
	stock      map[entity.StockKey]*entity.Stock
	movements  []*entity.StockMovement
	warehouses map[string]*entity.Warehouse
	users      map[string]*entity.User
	orders     map[string]*entity.Order
	entries    map[string]*entity.LedgerEntry
	sessions   map[string]*entity.CashSession
	shifts     map[string]*entity.Shift
	transfers  map[string]*entity.InventoryTransfer
}

func newState() *state {
	return &state{
		products:   map[string]*entity.Product{},
		stock:      map[entity.StockKey]*entity.Stock{},
		warehouses: map[string]*entity.Warehouse{},
		users:      map[string]*entity.User{},
		orders:     map[string]*entity.Order{},
		entries:    map[string]*entity.LedgerEntry{},
		sessions:   map[string]*entity.CashSession{},
		shifts:     map[string]*entity.Shift{},
		transfers:  map[string]*entity.InventoryTransfer{},
	}
}

// clone copia profunda; los movimientos son inmutables y se comparten.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v.Clone()
	}
	for k, v := range s.stock {
		st := *v
		c.stock[k] = &st
	}
	c.movements = append([]*entity.StockMovement(nil), s.movements...)
	for k, v := range s.warehouses {
		w := *v
		c.warehouses[k] = &w
	}
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.orders {
		c.orders[k] = v.Clone()
	}
	for k, v := range s.entries {
		c.entries[k] = v.Clone()
	}
	for k, v := range s.sessions {
		c.sessions[k] = v.Clone()
	}
	for k, v := range s.shifts {
		sh := *v
		c.shifts[k] = &sh
	}
	for k, v := range s.transfers {
		c.transfers[k] = v.Clone()
	}
	return c
}

// Store TxRunner en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado y la publica si fn no falla.
// La copia es O(datos totales) en cada llamada.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposFor(work)); err != nil {
		return err
	}
	s.st = work
	return nil
}

// View ejecuta fn sobre el estado publicado (solo lectura).
func (s *Store) View(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(reposFor(s.st))
}

func reposFor(st *state) repository.Repos {
	return repository.Repos{
		Products:       &productRepo{st: st},
		Stock:          &stockRepo{st: st},
		StockMovements: &movementRepo{st: st},
		Warehouses:     &warehouseRepo{st: st},
		Users:          &userRepo{st: st},
		Orders:         &orderRepo{st: st},
		Ledger:         &ledgerRepo{st: st},
		Sessions:       &sessionRepo{st: st},
		Shifts:         &shiftRepo{st: st},
		Transfers:      &transferRepo{st: st},
		Locks:          noLocks{},
	}
}

// noLocks: el mutex del Store ya serializa las unidades de trabajo.
type noLocks struct{}

func (noLocks) Lock(context.Context, string) error { return nil }

func lastWithPrefix(prefix string, numbers func(yield func(string))) string {
	last := ""
	numbers(func(n string) {
		if len(n) >= len(prefix) && n[:len(prefix)] == prefix && n > last {
			last = n
		}
	})
	return last
}

func applyLimit[T any](list []T, limit int) []T {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
