package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo libro diario sobre PostgreSQL: cabecera en ledger_entries y
// movimientos en ledger_entry_lines.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const entryColumns = `id, entry_number, date, description, type, total_debit, total_credit, status,
	reference_type, reference_id, created_by, created_by_name, voided_at, voided_by, void_reason, created_at`

// Create persiste el asiento y sus líneas.
func (r *LedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.EntryNumber, e.Date, e.Description, e.Type, e.TotalDebit, e.TotalCredit, e.Status,
		e.ReferenceType, e.ReferenceID, e.CreatedBy, e.CreatedByName, e.VoidedAt, e.VoidedBy, e.VoidReason, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("asiento %s: %w", e.EntryNumber, domain.ErrDuplicate)
		}
		return wrap("insert ledger entry", err)
	}
	for i, l := range e.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO ledger_entry_lines (entry_id, line_no, account_code, account_name, debit, credit)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, i+1, l.AccountCode, l.AccountName, l.Debit, l.Credit,
		)
		if err != nil {
			return wrap("insert ledger line", err)
		}
	}
	return nil
}

// GetByID obtiene un asiento con sus líneas.
func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get ledger entry", err)
	}
	if err := r.loadLines(ctx, []*entity.LedgerEntry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// FindByReference primer asiento activo del tipo dado para el documento de origen.
func (r *LedgerRepo) FindByReference(ctx context.Context, refType, refID, entryType string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries
		WHERE reference_type = $1 AND reference_id = $2 AND type = $3 AND status = $4
		ORDER BY entry_number LIMIT 1`
	e, err := scanEntry(r.q.QueryRow(ctx, query, refType, refID, entryType, entity.EntryActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("find ledger entry", err)
	}
	if err := r.loadLines(ctx, []*entity.LedgerEntry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// List asientos filtrados, más recientes primero.
func (r *LedgerRepo) List(ctx context.Context, f repository.EntryFilter) ([]*entity.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}
	query := `SELECT ` + entryColumns + ` FROM ledger_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, entry_number DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list ledger entries", err)
	}
	var list []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, wrap("scan ledger entry", err)
		}
		list = append(list, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("list ledger entries", err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Void marca el asiento como anulado.
func (r *LedgerRepo) Void(ctx context.Context, id, by, reason string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE ledger_entries SET status = $2, voided_at = $3, voided_by = $4, void_reason = $5
		WHERE id = $1`, id, entity.EntryVoid, at, by, reason)
	if err != nil {
		return wrap("void ledger entry", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFoundError("asiento", id)
	}
	return nil
}

// LastNumber mayor número de asiento con el prefijo dado.
func (r *LedgerRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.q, "ledger_entries", "entry_number", prefix)
}

func (r *LedgerRepo) loadLines(ctx context.Context, entries []*entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	byID := make(map[string]*entity.LedgerEntry, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		byID[e.ID] = e
	}
	rows, err := r.q.Query(ctx, `
		SELECT entry_id, account_code, account_name, debit, credit
		FROM ledger_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_no`, ids)
	if err != nil {
		return wrap("list ledger lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var entryID string
		var l entity.EntryLine
		if err := rows.Scan(&entryID, &l.AccountCode, &l.AccountName, &l.Debit, &l.Credit); err != nil {
			return wrap("scan ledger line", err)
		}
		if e := byID[entryID]; e != nil {
			e.Lines = append(e.Lines, l)
		}
	}
	return rows.Err()
}

func scanEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	err := row.Scan(
		&e.ID, &e.EntryNumber, &e.Date, &e.Description, &e.Type, &e.TotalDebit, &e.TotalCredit, &e.Status,
		&e.ReferenceType, &e.ReferenceID, &e.CreatedBy, &e.CreatedByName, &e.VoidedAt, &e.VoidedBy, &e.VoidReason, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
