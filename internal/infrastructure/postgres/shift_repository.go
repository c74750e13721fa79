package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.ShiftRepository = (*ShiftRepo)(nil)

// ShiftRepo turnos de bodega sobre PostgreSQL.
type ShiftRepo struct {
	q Querier
}

// NewShiftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShiftRepository(q Querier) *ShiftRepo {
	return &ShiftRepo{q: q}
}

const shiftColumns = `id, shift_number, opened_by, closed_by, opened_at, closed_at, status, notes`

// Create abre un turno. El índice shifts_one_open rechaza un segundo turno abierto.
func (r *ShiftRepo) Create(ctx context.Context, s *entity.Shift) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shifts (`+shiftColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.ShiftNumber, s.OpenedBy, s.ClosedBy, s.OpenedAt, s.ClosedAt, s.Status, s.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == "shifts_one_open" {
				return domain.ErrSessionAlreadyOpen
			}
			return domain.ErrDuplicate
		}
		return wrap("insert shift", err)
	}
	return nil
}

// Update guarda el cierre del turno.
func (r *ShiftRepo) Update(ctx context.Context, s *entity.Shift) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE shifts SET closed_by = $2, closed_at = $3, status = $4, notes = $5 WHERE id = $1`,
		s.ID, s.ClosedBy, s.ClosedAt, s.Status, s.Notes,
	)
	if err != nil {
		return wrap("update shift", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFoundError("turno", s.ID)
	}
	return nil
}

// GetByID obtiene un turno.
func (r *ShiftRepo) GetByID(ctx context.Context, id string) (*entity.Shift, error) {
	return r.getOne(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id)
}

// GetOpen turno abierto; nil si no hay.
func (r *ShiftRepo) GetOpen(ctx context.Context) (*entity.Shift, error) {
	return r.getOne(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE status = 'open'`)
}

func (r *ShiftRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Shift, error) {
	var s entity.Shift
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.ShiftNumber, &s.OpenedBy, &s.ClosedBy, &s.OpenedAt, &s.ClosedAt, &s.Status, &s.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get shift", err)
	}
	return &s, nil
}

// List turnos más recientes primero.
func (r *ShiftRepo) List(ctx context.Context, limit int) ([]*entity.Shift, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+shiftColumns+` FROM shifts ORDER BY opened_at DESC LIMIT $1`, limitOr(limit, 100))
	if err != nil {
		return nil, wrap("list shifts", err)
	}
	defer rows.Close()
	var list []*entity.Shift
	for rows.Next() {
		var s entity.Shift
		if err := rows.Scan(&s.ID, &s.ShiftNumber, &s.OpenedBy, &s.ClosedBy, &s.OpenedAt, &s.ClosedAt, &s.Status, &s.Notes); err != nil {
			return nil, wrap("scan shift", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// LastNumber mayor número de turno con el prefijo dado.
func (r *ShiftRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.q, "shifts", "shift_number", prefix)
}
