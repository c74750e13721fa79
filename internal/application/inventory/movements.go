package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// Movement cantidad a mover de un producto en una bodega.
type Movement struct {
	ProductID   string
	ProductName string
	WarehouseID string
	Quantity    int
}

// Reference origen de los movimientos, registrado en el kardex.
type Reference struct {
	Reason string
	ID     string
	By     string
	At     time.Time
}

type aggregated struct {
	keys  []entity.StockKey
	qty   map[entity.StockKey]int
	names map[string]string
}

// aggregate suma las cantidades por (producto, bodega) y ordena las llaves.
// El orden fijo evita interbloqueos entre transacciones que tocan las mismas filas.
func aggregate(moves []Movement) (*aggregated, error) {
	a := &aggregated{qty: map[entity.StockKey]int{}, names: map[string]string{}}
	for _, m := range moves {
		if m.Quantity <= 0 {
			return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
		if m.ProductID == "" || m.WarehouseID == "" {
			return nil, domain.NewValidationError("product_id", "producto y bodega son requeridos")
		}
		k := entity.StockKey{ProductID: m.ProductID, WarehouseID: m.WarehouseID}
		if _, ok := a.qty[k]; !ok {
			a.keys = append(a.keys, k)
		}
		a.qty[k] += m.Quantity
		if m.ProductName != "" {
			a.names[m.ProductID] = m.ProductName
		}
	}
	sort.Slice(a.keys, func(i, j int) bool { return a.keys[i].Less(a.keys[j]) })
	return a, nil
}

func (a *aggregated) shortage(k entity.StockKey, available int) error {
	return &domain.InsufficientStockError{
		ProductID:   k.ProductID,
		ProductName: a.names[k.ProductID],
		WarehouseID: k.WarehouseID,
		Requested:   a.qty[k],
		Available:   available,
	}
}

// CheckAvailable verifica sin bloquear que el stock actual cubra todos los movimientos.
func CheckAvailable(ctx context.Context, r repository.Repos, moves []Movement) error {
	a, err := aggregate(moves)
	if err != nil {
		return err
	}
	for _, k := range a.keys {
		s, err := r.Stock.Get(ctx, k)
		if err != nil {
			return err
		}
		if s.Quantity < a.qty[k] {
			return a.shortage(k, s.Quantity)
		}
	}
	return nil
}

// DebitAll descuenta todos los movimientos o ninguno: bloquea las filas, valida cada
// llave agregada y solo entonces aplica los descuentos y registra el kardex.
func DebitAll(ctx context.Context, r repository.Repos, moves []Movement, ref Reference) ([]*entity.StockMovement, error) {
	a, err := aggregate(moves)
	if err != nil {
		return nil, err
	}
	current, err := r.Stock.LockForUpdate(ctx, a.keys)
	if err != nil {
		return nil, fmt.Errorf("bloquear stock: %w", err)
	}
	for _, k := range a.keys {
		if current[k] < a.qty[k] {
			return nil, a.shortage(k, current[k])
		}
	}
	out := make([]*entity.StockMovement, 0, len(a.keys))
	for _, k := range a.keys {
		balance, err := r.Stock.Decrement(ctx, k, a.qty[k])
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, a.shortage(k, current[k])
			}
			return nil, err
		}
		m, err := record(ctx, r, k, entity.MovementOut, a.qty[k], balance, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// CreditAll suma todos los movimientos y registra el kardex.
func CreditAll(ctx context.Context, r repository.Repos, moves []Movement, ref Reference) ([]*entity.StockMovement, error) {
	a, err := aggregate(moves)
	if err != nil {
		return nil, err
	}
	if _, err := r.Stock.LockForUpdate(ctx, a.keys); err != nil {
		return nil, fmt.Errorf("bloquear stock: %w", err)
	}
	out := make([]*entity.StockMovement, 0, len(a.keys))
	for _, k := range a.keys {
		balance, err := r.Stock.Increment(ctx, k, a.qty[k])
		if err != nil {
			return nil, err
		}
		m, err := record(ctx, r, k, entity.MovementIn, a.qty[k], balance, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func record(ctx context.Context, r repository.Repos, k entity.StockKey, typ string, qty, balance int, ref Reference) (*entity.StockMovement, error) {
	m := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   k.ProductID,
		WarehouseID: k.WarehouseID,
		Type:        typ,
		Reason:      ref.Reason,
		Quantity:    qty,
		Balance:     balance,
		ReferenceID: ref.ID,
		CreatedBy:   ref.By,
		CreatedAt:   ref.At,
	}
	if err := r.StockMovements.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ExpandLine descuentos que implica vender qty unidades de p en la bodega dada.
// Un combo se expande a sus componentes (requerido × cantidad); un producto simple a sí mismo.
func ExpandLine(p *entity.Product, qty int, warehouseID string) []Movement {
	if !p.IsCombo {
		return []Movement{{ProductID: p.ID, ProductName: p.Name, WarehouseID: warehouseID, Quantity: qty}}
	}
	out := make([]Movement, 0, len(p.ComboItems))
	for _, ci := range p.ComboItems {
		out = append(out, Movement{
			ProductID:   ci.ProductID,
			ProductName: ci.ProductName,
			WarehouseID: warehouseID,
			Quantity:    ci.Quantity * qty,
		})
	}
	return out
}

// ComboAvailability unidades de combo que se pueden armar con el stock de la bodega:
// mínimo sobre los componentes de floor(stock / requerido). Cero si ningún componente
// se puede resolver; un componente inexistente no es un error.
func ComboAvailability(ctx context.Context, r repository.Repos, p *entity.Product, warehouseID string) (int, error) {
	if !p.IsCombo {
		s, err := r.Stock.Get(ctx, entity.StockKey{ProductID: p.ID, WarehouseID: warehouseID})
		if err != nil {
			return 0, err
		}
		return s.Quantity, nil
	}
	best := -1
	for _, ci := range p.ComboItems {
		if ci.Quantity <= 0 {
			continue
		}
		comp, err := r.Products.GetByID(ctx, ci.ProductID)
		if err != nil {
			return 0, err
		}
		if comp == nil {
			// Un componente que ya no existe no se puede despachar.
			return 0, nil
		}
		s, err := r.Stock.Get(ctx, entity.StockKey{ProductID: ci.ProductID, WarehouseID: warehouseID})
		if err != nil {
			return 0, err
		}
		n := s.Quantity / ci.Quantity
		if best < 0 || n < best {
			best = n
		}
	}
	if best < 0 {
		return 0, nil
	}
	return best, nil
}
