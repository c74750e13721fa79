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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados entre bodegas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, transfer_number, from_warehouse_id, to_warehouse_id, shift_id, status,
	requested_by, confirmed_by, rejected_by, reject_reason, notes, created_at, confirmed_at, updated_at`

// Create persiste el traslado con sus líneas.
func (r *TransferRepo) Create(ctx context.Context, t *entity.InventoryTransfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		t.ID, t.TransferNumber, t.FromWarehouseID, t.ToWarehouseID, t.ShiftID, t.Status,
		t.RequestedBy, t.ConfirmedBy, t.RejectedBy, t.RejectReason, t.Notes, t.CreatedAt, t.ConfirmedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("traslado %s: %w", t.TransferNumber, domain.ErrDuplicate)
		}
		return wrap("insert transfer", err)
	}
	for i, it := range t.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO transfer_items (transfer_id, line_no, product_id, product_name, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			t.ID, i+1, it.ProductID, it.ProductName, it.Quantity,
		)
		if err != nil {
			return wrap("insert transfer item", err)
		}
	}
	return nil
}

// Update guarda la confirmación o el rechazo si el traslado sigue en estado from.
func (r *TransferRepo) Update(ctx context.Context, t *entity.InventoryTransfer, from string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory_transfers SET status = $2, confirmed_by = $3, rejected_by = $4,
			reject_reason = $5, confirmed_at = $6, updated_at = $7
		WHERE id = $1 AND status = $8`,
		t.ID, t.Status, t.ConfirmedBy, t.RejectedBy, t.RejectReason, t.ConfirmedAt, t.UpdatedAt, from,
	)
	if err != nil {
		return wrap("update transfer", err)
	}
	if cmd.RowsAffected() == 0 {
		return staleWrite(ctx, r.q, "inventory_transfers", "traslado", t.ID, t.Status)
	}
	return nil
}

// GetByID obtiene un traslado con sus líneas.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.getOne(ctx, id, "")
}

// GetByIDForUpdate como GetByID, bloqueando la fila del traslado.
func (r *TransferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.getOne(ctx, id, " FOR UPDATE")
}

func (r *TransferRepo) getOne(ctx context.Context, id, lock string) (*entity.InventoryTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE id = $1`+lock, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get transfer", err)
	}
	if err := r.loadItems(ctx, []*entity.InventoryTransfer{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// List traslados filtrados, más recientes primero.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.InventoryTransfer, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.ShiftID != "" {
		args = append(args, f.ShiftID)
		where = append(where, fmt.Sprintf("shift_id = $%d", len(args)))
	}
	query := `SELECT ` + transferColumns + ` FROM inventory_transfers`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY transfer_number DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list transfers", err)
	}
	var list []*entity.InventoryTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, wrap("scan transfer", err)
		}
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("list transfers", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// LastNumber mayor número de traslado con el prefijo dado.
func (r *TransferRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.q, "inventory_transfers", "transfer_number", prefix)
}

func (r *TransferRepo) loadItems(ctx context.Context, transfers []*entity.InventoryTransfer) error {
	if len(transfers) == 0 {
		return nil
	}
	ids := make([]string, len(transfers))
	byID := make(map[string]*entity.InventoryTransfer, len(transfers))
	for i, t := range transfers {
		ids[i] = t.ID
		byID[t.ID] = t
	}
	rows, err := r.q.Query(ctx, `
		SELECT transfer_id, product_id, product_name, quantity
		FROM transfer_items WHERE transfer_id = ANY($1) ORDER BY transfer_id, line_no`, ids)
	if err != nil {
		return wrap("list transfer items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var transferID string
		var it entity.TransferItem
		if err := rows.Scan(&transferID, &it.ProductID, &it.ProductName, &it.Quantity); err != nil {
			return wrap("scan transfer item", err)
		}
		if t := byID[transferID]; t != nil {
			t.Items = append(t.Items, it)
		}
	}
	return rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.InventoryTransfer, error) {
	var t entity.InventoryTransfer
	err := row.Scan(
		&t.ID, &t.TransferNumber, &t.FromWarehouseID, &t.ToWarehouseID, &t.ShiftID, &t.Status,
		&t.RequestedBy, &t.ConfirmedBy, &t.RejectedBy, &t.RejectReason, &t.Notes, &t.CreatedAt, &t.ConfirmedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
