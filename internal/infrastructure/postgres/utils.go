package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-backoffice/internal/domain"
)

// Querier lo común entre pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// constraintName nombre del constraint violado, si el error viene de PostgreSQL.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// wrap marca los fallos de infraestructura como ErrUnavailable conservando el detalle.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
}

// staleWrite explica un UPDATE condicionado por estado que no tocó filas: la fila
// no existe (NotFound) o su estado ya no es el esperado (TransitionError).
func staleWrite(ctx context.Context, q Querier, table, entityName, id, to string) error {
	var current string
	err := q.QueryRow(ctx, `SELECT status FROM `+table+` WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFoundError(entityName, id)
	}
	if err != nil {
		return wrap("status "+table, err)
	}
	return &domain.TransitionError{Entity: entityName, From: current, To: to}
}

// limitOr devuelve limit si es positivo; si no, def.
func limitOr(limit, def int) int {
	if limit > 0 {
		return limit
	}
	return def
}
