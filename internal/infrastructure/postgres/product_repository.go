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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, code, name, description, category, price, cost, min_stock, active, account_code, is_combo, created_at, updated_at`

// Create persiste un nuevo producto con su receta.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.Category, p.Price, p.Cost, p.MinStock,
		p.Active, p.AccountCode, p.IsCombo, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("código %s: %w", p.Code, domain.ErrDuplicate)
		}
		return wrap("insert product", err)
	}
	return r.saveComboItems(ctx, p)
}

// Update actualiza el producto y reemplaza su receta.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $2, name = $3, description = $4, category = $5, price = $6,
			cost = $7, min_stock = $8, active = $9, account_code = $10, is_combo = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.Category, p.Price,
		p.Cost, p.MinStock, p.Active, p.AccountCode, p.IsCombo, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("código %s: %w", p.Code, domain.ErrDuplicate)
		}
		return wrap("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFoundError("producto", p.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM product_combo_items WHERE combo_id = $1`, p.ID); err != nil {
		return wrap("delete combo items", err)
	}
	return r.saveComboItems(ctx, p)
}

func (r *ProductRepo) saveComboItems(ctx context.Context, p *entity.Product) error {
	for i, ci := range p.ComboItems {
		_, err := r.q.Exec(ctx, `
			INSERT INTO product_combo_items (combo_id, line_no, product_id, product_name, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			p.ID, i+1, ci.ProductID, ci.ProductName, ci.Quantity,
		)
		if err != nil {
			return wrap("insert combo item", err)
		}
	}
	return nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByCode busca por código sin distinguir mayúsculas.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE lower(code) = lower($1)`, code)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get product", err)
	}
	if p.IsCombo {
		items, err := r.comboItems(ctx, []string{p.ID})
		if err != nil {
			return nil, err
		}
		p.ComboItems = items[p.ID]
	}
	return p, nil
}

// List lista productos con filtros, ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.ActiveOnly {
		where = append(where, "active")
	}
	if f.CombosOnly {
		where = append(where, "is_combo")
	}
	if f.Search != "" {
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
		where = append(where, fmt.Sprintf("(lower(name) LIKE $%d OR lower(code) LIKE $%d)", len(args), len(args)))
	}
	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list products", err)
	}
	defer rows.Close()
	var (
		list   []*entity.Product
		combos []string
	)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrap("scan product", err)
		}
		if p.IsCombo {
			combos = append(combos, p.ID)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list products", err)
	}
	if len(combos) > 0 {
		items, err := r.comboItems(ctx, combos)
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			p.ComboItems = items[p.ID]
		}
	}
	return list, nil
}

func (r *ProductRepo) comboItems(ctx context.Context, comboIDs []string) (map[string][]entity.ComboItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT combo_id, product_id, product_name, quantity
		FROM product_combo_items WHERE combo_id = ANY($1) ORDER BY combo_id, line_no`, comboIDs)
	if err != nil {
		return nil, wrap("list combo items", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.ComboItem, len(comboIDs))
	for rows.Next() {
		var comboID string
		var ci entity.ComboItem
		if err := rows.Scan(&comboID, &ci.ProductID, &ci.ProductName, &ci.Quantity); err != nil {
			return nil, wrap("scan combo item", err)
		}
		out[comboID] = append(out[comboID], ci)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Category, &p.Price, &p.Cost, &p.MinStock,
		&p.Active, &p.AccountCode, &p.IsCombo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
