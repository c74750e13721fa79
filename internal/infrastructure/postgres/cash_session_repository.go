package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.CashSessionRepository = (*CashSessionRepo)(nil)

// CashSessionRepo cajas sobre PostgreSQL. La unicidad de la caja abierta por cajero
// la garantiza el índice parcial cash_sessions_one_open.
type CashSessionRepo struct {
	q Querier
}

// NewCashSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashSessionRepository(q Querier) *CashSessionRepo {
	return &CashSessionRepo{q: q}
}

const sessionColumns = `id, cashier_id, cashier_name, opened_at, closed_at, status, initial_amount,
	cash_sales, card_sales, transfer_sales, total_sales, total_orders, expected_amount,
	actual_amount, difference, closed_by, closed_by_name, notes`

// Create abre una caja. Devuelve domain.ErrSessionAlreadyOpen si el cajero ya tiene una.
func (r *CashSessionRepo) Create(ctx context.Context, s *entity.CashSession) error {
	query := `
		INSERT INTO cash_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CashierID, s.CashierName, s.OpenedAt, s.ClosedAt, s.Status, s.InitialAmount,
		s.CashSales, s.CardSales, s.TransferSales, s.TotalSales, s.TotalOrders, s.ExpectedAmount,
		s.ActualAmount, s.Difference, s.ClosedBy, s.ClosedByName, s.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionAlreadyOpen
		}
		return wrap("insert cash session", err)
	}
	return nil
}

// UpdateTotals guarda solo los totales de una caja abierta. Estado y datos de
// cierre no se tocan.
func (r *CashSessionRepo) UpdateTotals(ctx context.Context, s *entity.CashSession) error {
	query := `
		UPDATE cash_sessions SET cash_sales = $2, card_sales = $3, transfer_sales = $4,
			total_sales = $5, total_orders = $6, expected_amount = $7
		WHERE id = $1 AND status = 'open'`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.CashSales, s.CardSales, s.TransferSales, s.TotalSales, s.TotalOrders, s.ExpectedAmount,
	)
	if err != nil {
		return wrap("update cash session totals", err)
	}
	if cmd.RowsAffected() == 0 {
		return staleWrite(ctx, r.q, "cash_sessions", "caja", s.ID, entity.SessionOpen)
	}
	return nil
}

// Close guarda totales finales y datos de cierre de una caja abierta.
func (r *CashSessionRepo) Close(ctx context.Context, s *entity.CashSession) error {
	query := `
		UPDATE cash_sessions SET closed_at = $2, status = $3, cash_sales = $4, card_sales = $5,
			transfer_sales = $6, total_sales = $7, total_orders = $8, expected_amount = $9,
			actual_amount = $10, difference = $11, closed_by = $12, closed_by_name = $13, notes = $14
		WHERE id = $1 AND status = 'open'`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.ClosedAt, s.Status, s.CashSales, s.CardSales,
		s.TransferSales, s.TotalSales, s.TotalOrders, s.ExpectedAmount,
		s.ActualAmount, s.Difference, s.ClosedBy, s.ClosedByName, s.Notes,
	)
	if err != nil {
		return wrap("close cash session", err)
	}
	if cmd.RowsAffected() == 0 {
		return staleWrite(ctx, r.q, "cash_sessions", "caja", s.ID, entity.SessionClosed)
	}
	return nil
}

// GetByID obtiene una caja.
func (r *CashSessionRepo) GetByID(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByIDForUpdate como GetByID, bloqueando la fila.
func (r *CashSessionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.getOne(ctx, `WHERE id = $1 FOR UPDATE`, id)
}

// GetOpenByCashier caja abierta del cajero; nil si no tiene.
func (r *CashSessionRepo) GetOpenByCashier(ctx context.Context, cashierID string) (*entity.CashSession, error) {
	return r.getOne(ctx, `WHERE cashier_id = $1 AND status = 'open'`, cashierID)
}

// GetOpenByCashierForUpdate bloquea la caja abierta del cajero. Si otra
// transacción la cierra mientras se espera el bloqueo, la fila ya no cumple
// status = 'open' al re-evaluarse y se devuelve nil.
func (r *CashSessionRepo) GetOpenByCashierForUpdate(ctx context.Context, cashierID string) (*entity.CashSession, error) {
	return r.getOne(ctx, `WHERE cashier_id = $1 AND status = 'open' FOR UPDATE`, cashierID)
}

func (r *CashSessionRepo) getOne(ctx context.Context, where, arg string) (*entity.CashSession, error) {
	s, err := scanSession(r.q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM cash_sessions `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get cash session", err)
	}
	return s, nil
}

// List historial de cajas, más recientes primero.
func (r *CashSessionRepo) List(ctx context.Context, f repository.SessionFilter) ([]*entity.CashSession, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.CashierID != "" {
		add("cashier_id = $%d", f.CashierID)
	}
	if f.From != nil {
		add("opened_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("opened_at <= $%d", *f.To)
	}
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY opened_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list cash sessions", err)
	}
	defer rows.Close()
	var list []*entity.CashSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrap("scan cash session", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSession(row pgx.Row) (*entity.CashSession, error) {
	var s entity.CashSession
	err := row.Scan(
		&s.ID, &s.CashierID, &s.CashierName, &s.OpenedAt, &s.ClosedAt, &s.Status, &s.InitialAmount,
		&s.CashSales, &s.CardSales, &s.TransferSales, &s.TotalSales, &s.TotalOrders, &s.ExpectedAmount,
		&s.ActualAmount, &s.Difference, &s.ClosedBy, &s.ClosedByName, &s.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
