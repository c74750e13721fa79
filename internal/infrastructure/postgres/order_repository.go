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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo órdenes y sus líneas sobre PostgreSQL. Los componentes descontados de
// cada línea se guardan como JSONB.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, order_number, subtotal, discount, total, total_cost, payment_method, status,
	cash_session_id, cashier_id, cashier_name, warehouse_id, notes, delivered_at, delivered_by,
	cancelled_at, cancelled_by, cancellation_reason, created_at, updated_at`

// Create persiste la orden con sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderNumber, o.Subtotal, o.Discount, o.Total, o.TotalCost, o.PaymentMethod, o.Status,
		o.CashSessionID, o.CashierID, o.CashierName, o.WarehouseID, o.Notes, o.DeliveredAt, o.DeliveredBy,
		o.CancelledAt, o.CancelledBy, o.CancellationReason, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("orden %s: %w", o.OrderNumber, domain.ErrDuplicate)
		}
		return wrap("insert order", err)
	}
	for i, it := range o.Items {
		components := it.Components
		if components == nil {
			components = []entity.OrderComponent{}
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (order_id, line_no, product_id, product_name, quantity, unit_price,
				unit_cost, subtotal, account_code, is_combo, components)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			o.ID, i+1, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice,
			it.UnitCost, it.Subtotal, it.AccountCode, it.IsCombo, components,
		)
		if err != nil {
			return wrap("insert order item", err)
		}
	}
	return nil
}

// Update actualiza estado y datos de entrega/cancelación si el estado guardado
// sigue siendo from. Las líneas no cambian.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order, from string) error {
	query := `
		UPDATE orders SET status = $2, delivered_at = $3, delivered_by = $4, cancelled_at = $5,
			cancelled_by = $6, cancellation_reason = $7, notes = $8, updated_at = $9
		WHERE id = $1 AND status = $10`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.Status, o.DeliveredAt, o.DeliveredBy, o.CancelledAt,
		o.CancelledBy, o.CancellationReason, o.Notes, o.UpdatedAt, from,
	)
	if err != nil {
		return wrap("update order", err)
	}
	if cmd.RowsAffected() == 0 {
		return staleWrite(ctx, r.q, "orders", "orden", o.ID, o.Status)
	}
	return nil
}

// GetByID obtiene una orden con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByNumber obtiene una orden por su número.
func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	return r.getOne(ctx, `WHERE order_number = $1`, number)
}

// GetByIDForUpdate como GetByID, bloqueando la fila de la orden.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `WHERE id = $1 FOR UPDATE`, id)
}

// GetByNumberForUpdate como GetByNumber, bloqueando la fila de la orden.
func (r *OrderRepo) GetByNumberForUpdate(ctx context.Context, number string) (*entity.Order, error) {
	return r.getOne(ctx, `WHERE order_number = $1 FOR UPDATE`, number)
}

func (r *OrderRepo) getOne(ctx context.Context, where, arg string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get order", err)
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// List órdenes filtradas, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.CashSessionID != "" {
		add("cash_session_id = $%d", f.CashSessionID)
	}
	if f.CashierID != "" {
		add("cashier_id = $%d", f.CashierID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY order_number DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list orders", err)
	}
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, wrap("scan order", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("list orders", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListBySession todas las órdenes de una caja.
func (r *OrderRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.Order, error) {
	return r.List(ctx, repository.OrderFilter{CashSessionID: sessionID})
}

// LastNumber mayor número de orden con el prefijo dado ("" si no hay).
func (r *OrderRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	return lastNumber(ctx, r.q, "orders", "order_number", prefix)
}

func (r *OrderRepo) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}
	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, product_name, quantity, unit_price, unit_cost, subtotal,
			account_code, is_combo, components
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, line_no`, ids)
	if err != nil {
		return wrap("list order items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var it entity.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice,
			&it.UnitCost, &it.Subtotal, &it.AccountCode, &it.IsCombo, &it.Components); err != nil {
			return wrap("scan order item", err)
		}
		if o := byID[orderID]; o != nil {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Subtotal, &o.Discount, &o.Total, &o.TotalCost, &o.PaymentMethod, &o.Status,
		&o.CashSessionID, &o.CashierID, &o.CashierName, &o.WarehouseID, &o.Notes, &o.DeliveredAt, &o.DeliveredBy,
		&o.CancelledAt, &o.CancelledBy, &o.CancellationReason, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// lastNumber mayor valor de column que empieza por prefix. Los números tienen
// ancho fijo por prefijo, así que el orden de texto coincide con el numérico.
func lastNumber(ctx context.Context, q Querier, table, column, prefix string) (string, error) {
	query := fmt.Sprintf(`SELECT COALESCE(max(%[2]s), '') FROM %[1]s WHERE %[2]s LIKE $1 || '%%'`, table, column)
	var last string
	if err := q.QueryRow(ctx, query, prefix).Scan(&last); err != nil {
		return "", wrap("last number "+table, err)
	}
	return last, nil
}
