package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

type productRepo struct{ st *state }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; ok {
		return fmt.Errorf("producto %s: %w", p.ID, domain.ErrDuplicate)
	}
	for _, other := range r.st.products {
		if strings.EqualFold(other.Code, p.Code) {
			return fmt.Errorf("código %s: %w", p.Code, domain.ErrDuplicate)
		}
	}
	r.st.products[p.ID] = p.Clone()
	return nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; !ok {
		return domain.NotFoundError("producto", p.ID)
	}
	for _, other := range r.st.products {
		if other.ID != p.ID && strings.EqualFold(other.Code, p.Code) {
			return fmt.Errorf("código %s: %w", p.Code, domain.ErrDuplicate)
		}
	}
	r.st.products[p.ID] = p.Clone()
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.st.products[id].Clone(), nil
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range r.st.products {
		if strings.EqualFold(p.Code, code) {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	search := strings.ToLower(f.Search)
	var list []*entity.Product
	for _, p := range r.st.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.ActiveOnly && !p.Active {
			continue
		}
		if f.CombosOnly && !p.IsCombo {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Code), search) {
			continue
		}
		list = append(list, p.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			return nil, nil
		}
		list = list[f.Offset:]
	}
	return applyLimit(list, f.Limit), nil
}

type warehouseRepo struct{ st *state }

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	for _, other := range r.st.warehouses {
		if strings.EqualFold(other.Name, w.Name) {
			return fmt.Errorf("bodega %s: %w", w.Name, domain.ErrDuplicate)
		}
	}
	c := *w
	r.st.warehouses[w.ID] = &c
	return nil
}

func (r *warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	if _, ok := r.st.warehouses[w.ID]; !ok {
		return domain.NotFoundError("bodega", w.ID)
	}
	for _, other := range r.st.warehouses {
		if other.ID != w.ID && strings.EqualFold(other.Name, w.Name) {
			return fmt.Errorf("bodega %s: %w", w.Name, domain.ErrDuplicate)
		}
	}
	c := *w
	r.st.warehouses[w.ID] = &c
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	c := *w
	return &c, nil
}

func (r *warehouseRepo) GetByName(_ context.Context, name string) (*entity.Warehouse, error) {
	for _, w := range r.st.warehouses {
		if strings.EqualFold(w.Name, name) {
			c := *w
			return &c, nil
		}
	}
	return nil, nil
}

func (r *warehouseRepo) List(context.Context) ([]*entity.Warehouse, error) {
	list := make([]*entity.Warehouse, 0, len(r.st.warehouses))
	for _, w := range r.st.warehouses {
		c := *w
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *warehouseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.st.warehouses[id]; !ok {
		return domain.NotFoundError("bodega", id)
	}
	delete(r.st.warehouses, id)
	return nil
}

type userRepo struct{ st *state }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	for _, other := range r.st.users {
		if strings.EqualFold(other.Username, u.Username) {
			return fmt.Errorf("usuario %s: %w", u.Username, domain.ErrDuplicate)
		}
	}
	c := *u
	r.st.users[u.ID] = &c
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.st.users {
		if strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Count(context.Context) (int, error) {
	return len(r.st.users), nil
}

type stockRepo struct{ st *state }

func (r *stockRepo) Get(_ context.Context, key entity.StockKey) (*entity.Stock, error) {
	if s, ok := r.st.stock[key]; ok {
		c := *s
		return &c, nil
	}
	return &entity.Stock{ProductID: key.ProductID, WarehouseID: key.WarehouseID}, nil
}

func (r *stockRepo) LockForUpdate(_ context.Context, keys []entity.StockKey) (map[entity.StockKey]int, error) {
	out := make(map[entity.StockKey]int, len(keys))
	for _, k := range keys {
		if s, ok := r.st.stock[k]; ok {
			out[k] = s.Quantity
		} else {
			out[k] = 0
		}
	}
	return out, nil
}

func (r *stockRepo) Decrement(_ context.Context, key entity.StockKey, qty int) (int, error) {
	s, ok := r.st.stock[key]
	if !ok || s.Quantity < qty {
		return 0, domain.ErrInsufficientStock
	}
	s.Quantity -= qty
	s.UpdatedAt = time.Now()
	return s.Quantity, nil
}

func (r *stockRepo) Increment(_ context.Context, key entity.StockKey, qty int) (int, error) {
	s, ok := r.st.stock[key]
	if !ok {
		s = &entity.Stock{ProductID: key.ProductID, WarehouseID: key.WarehouseID}
		r.st.stock[key] = s
	}
	s.Quantity += qty
	s.UpdatedAt = time.Now()
	return s.Quantity, nil
}

func (r *stockRepo) ListAll(context.Context) ([]*entity.Stock, error) {
	list := make([]*entity.Stock, 0, len(r.st.stock))
	for _, s := range r.st.stock {
		c := *s
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		return entity.StockKey{ProductID: list[i].ProductID, WarehouseID: list[i].WarehouseID}.
			Less(entity.StockKey{ProductID: list[j].ProductID, WarehouseID: list[j].WarehouseID})
	})
	return list, nil
}

func (r *stockRepo) CountByWarehouse(_ context.Context, warehouseID string) (int, error) {
	n := 0
	for k := range r.st.stock {
		if k.WarehouseID == warehouseID {
			n++
		}
	}
	return n, nil
}

type movementRepo struct{ st *state }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	c := *m
	r.st.movements = append(r.st.movements, &c)
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.StockMovementFilter) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
			continue
		}
		c := *m
		list = append(list, &c)
	}
	return applyLimit(list, f.Limit), nil
}
