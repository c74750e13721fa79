package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una bodega.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, key.ProductID, key.WarehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: key.ProductID, WarehouseID: key.WarehouseID}, nil
		}
		return nil, wrap("get stock", err)
	}
	return &s, nil
}

// LockForUpdate bloquea las filas existentes (SELECT FOR UPDATE) en orden de llave.
// El orden COLLATE "C" coincide con StockKey.Less, así dos transacciones nunca se cruzan.
func (r *StockRepo) LockForUpdate(ctx context.Context, keys []entity.StockKey) (map[entity.StockKey]int, error) {
	out := make(map[entity.StockKey]int, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	products := make([]string, len(keys))
	warehouses := make([]string, len(keys))
	for i, k := range keys {
		products[i], warehouses[i] = k.ProductID, k.WarehouseID
		out[k] = 0
	}
	query := `
		SELECT s.product_id, s.warehouse_id, s.quantity
		FROM stock s
		JOIN unnest($1::text[], $2::text[]) AS k(product_id, warehouse_id)
			ON s.product_id = k.product_id AND s.warehouse_id = k.warehouse_id
		ORDER BY s.product_id COLLATE "C", s.warehouse_id COLLATE "C"
		FOR UPDATE OF s`
	rows, err := r.q.Query(ctx, query, products, warehouses)
	if err != nil {
		return nil, wrap("lock stock", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k entity.StockKey
		var qty int
		if err := rows.Scan(&k.ProductID, &k.WarehouseID, &qty); err != nil {
			return nil, wrap("scan stock", err)
		}
		out[k] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("lock stock", err)
	}
	return out, nil
}

// Decrement resta qty solo si la cantidad alcanza (decremento condicional).
func (r *StockRepo) Decrement(ctx context.Context, key entity.StockKey, qty int) (int, error) {
	query := `
		UPDATE stock SET quantity = quantity - $3, updated_at = now()
		WHERE product_id = $1 AND warehouse_id = $2 AND quantity >= $3
		RETURNING quantity`
	var balance int
	err := r.q.QueryRow(ctx, query, key.ProductID, key.WarehouseID, qty).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, wrap("decrement stock", err)
	}
	return balance, nil
}

// Increment suma qty (upsert por producto y bodega).
func (r *StockRepo) Increment(ctx context.Context, key entity.StockKey, qty int) (int, error) {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING quantity`
	var balance int
	if err := r.q.QueryRow(ctx, query, key.ProductID, key.WarehouseID, qty).Scan(&balance); err != nil {
		return 0, wrap("increment stock", err)
	}
	return balance, nil
}

// ListAll todo el stock ordenado por llave.
func (r *StockRepo) ListAll(ctx context.Context) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock ORDER BY product_id COLLATE "C", warehouse_id COLLATE "C"`)
	if err != nil {
		return nil, wrap("list stock", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, wrap("scan stock", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// CountByWarehouse número de registros de stock que referencian la bodega.
func (r *StockRepo) CountByWarehouse(ctx context.Context, warehouseID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock WHERE warehouse_id = $1`, warehouseID).Scan(&n); err != nil {
		return 0, wrap("count stock", err)
	}
	return n, nil
}
