package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// View ejecuta fn en una transacción de solo lectura.
func (r *TxRunner) View(ctx context.Context, fn func(repos repository.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", domain.ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("commit transaction: %w", domain.ErrConflict)
		}
		return fmt.Errorf("commit transaction: %w: %w", domain.ErrUnavailable, err)
	}
	return nil
}

func reposFor(tx pgx.Tx) repository.Repos {
	return repository.Repos{
		Products:       NewProductRepository(tx),
		Stock:          NewStockRepository(tx),
		StockMovements: NewStockMovementRepository(tx),
		Warehouses:     NewWarehouseRepository(tx),
		Users:          NewUserRepository(tx),
		Orders:         NewOrderRepository(tx),
		Ledger:         NewLedgerRepository(tx),
		Sessions:       NewCashSessionRepository(tx),
		Shifts:         NewShiftRepository(tx),
		Transfers:      NewTransferRepository(tx),
		Locks:          advisoryLocker{q: tx},
	}
}

// advisoryLocker serializa por llave con pg_advisory_xact_lock; el lock se libera
// al terminar la transacción.
type advisoryLocker struct {
	q Querier
}

func (l advisoryLocker) Lock(ctx context.Context, key string) error {
	if _, err := l.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return wrap("advisory lock", err)
	}
	return nil
}
