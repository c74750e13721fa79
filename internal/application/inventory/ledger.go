package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	costing "github.com/jhoicas/pos-backoffice/internal/domain/inventory"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// Ledger stock por (producto, bodega). Toda mutación corre en una unidad de trabajo
// y deja su movimiento en el kardex.
type Ledger struct {
	tx            repository.TxRunner
	saleWarehouse string
	log           *logger.Logger
	now           func() time.Time
}

// NewLedger construye el libro de stock. saleWarehouse es el nombre de la bodega de venta.
func NewLedger(tx repository.TxRunner, saleWarehouse string, log *logger.Logger) *Ledger {
	return &Ledger{tx: tx, saleWarehouse: saleWarehouse, log: log.Named("inventory"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// SaleWarehouse resuelve por nombre la bodega de la que descuentan las ventas.
func SaleWarehouse(ctx context.Context, r repository.Repos, name string) (*entity.Warehouse, error) {
	w, err := r.Warehouses.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NotFoundError("bodega de venta", name)
	}
	return w, nil
}

// QuantityOf cantidad actual; cero si no hay registro.
func (l *Ledger) QuantityOf(ctx context.Context, productID, warehouseID string) (int, error) {
	var qty int
	err := l.tx.View(ctx, func(r repository.Repos) error {
		s, err := r.Stock.Get(ctx, entity.StockKey{ProductID: productID, WarehouseID: warehouseID})
		if err != nil {
			return err
		}
		qty = s.Quantity
		return nil
	})
	return qty, err
}

// Credit suma qty (> 0) al stock.
func (l *Ledger) Credit(ctx context.Context, productID, warehouseID string, qty int, by string) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	return l.tx.Run(ctx, func(r repository.Repos) error {
		_, err := CreditAll(ctx, r, []Movement{{ProductID: productID, WarehouseID: warehouseID, Quantity: qty}},
			Reference{Reason: entity.ReasonPurchase, By: by, At: l.now()})
		return err
	})
}

// Debit resta qty (> 0); falla con InsufficientStockError si no alcanza.
func (l *Ledger) Debit(ctx context.Context, productID, warehouseID string, qty int, reason, by string) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	return l.tx.Run(ctx, func(r repository.Repos) error {
		name := ""
		if p, err := r.Products.GetByID(ctx, productID); err == nil && p != nil {
			name = p.Name
		}
		_, err := DebitAll(ctx, r, []Movement{{ProductID: productID, ProductName: name, WarehouseID: warehouseID, Quantity: qty}},
			Reference{Reason: reason, By: by, At: l.now()})
		return err
	})
}

// ComboAvailability disponibilidad del producto (derivada si es combo) en la bodega de venta.
func (l *Ledger) ComboAvailability(ctx context.Context, productID string) (int, error) {
	var n int
	err := l.tx.View(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFoundError("producto", productID)
		}
		w, err := SaleWarehouse(ctx, r, l.saleWarehouse)
		if err != nil {
			return err
		}
		n, err = ComboAvailability(ctx, r, p, w.ID)
		return err
	})
	return n, err
}

// ReceiveInput entrada de mercancía.
type ReceiveInput struct {
	ProductID   string
	WarehouseID string
	Quantity    int
	UnitCost    decimal.Decimal
	Notes       string
	By          string
	ByName      string
}

// Receive registra una compra: suma stock, recalcula el costo promedio ponderado y,
// si hay costo, contabiliza el asiento de compra. Todo en una transacción.
func (l *Ledger) Receive(ctx context.Context, in ReceiveInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost", "no puede ser negativo")
	}

	var mov *entity.StockMovement
	err := l.tx.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFoundError("producto", in.ProductID)
		}
		if p.IsCombo {
			return domain.NewValidationError("product_id", "un combo no maneja stock propio")
		}
		w, err := r.Warehouses.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.NotFoundError("bodega", in.WarehouseID)
		}

		now := l.now()
		if in.UnitCost.IsPositive() {
			total, err := totalStock(ctx, r, p.ID)
			if err != nil {
				return err
			}
			p.Cost = costing.CostCalculator(total, p.Cost, in.Quantity, in.UnitCost)
			p.UpdatedAt = now
			if err := r.Products.Update(ctx, p); err != nil {
				return err
			}
		}

		ref := Reference{Reason: entity.ReasonPurchase, ID: p.ID, By: in.By, At: now}
		moved, err := CreditAll(ctx, r, []Movement{{ProductID: p.ID, ProductName: p.Name, WarehouseID: w.ID, Quantity: in.Quantity}}, ref)
		if err != nil {
			return err
		}
		mov = moved[0]

		amount := in.UnitCost.Mul(decimal.NewFromInt(int64(in.Quantity)))
		if amount.IsPositive() {
			desc := fmt.Sprintf("Compra %d x %s a %s", in.Quantity, p.Name, w.Name)
			if n := strings.TrimSpace(in.Notes); n != "" {
				desc += " - " + n
			}
			if _, err := accounting.Append(ctx, r, now, accounting.AppendInput{
				Description:   desc,
				Type:          entity.EntryPurchase,
				Lines:         domacc.PurchaseLines(amount),
				ReferenceType: entity.RefPurchase,
				ReferenceID:   p.ID,
				CreatedBy:     in.By,
				CreatedByName: in.ByName,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("product", in.ProductID).Str("warehouse", in.WarehouseID).Int("qty", in.Quantity).Msg("mercancía recibida")
	return mov, nil
}

// Movements kardex filtrado.
func (l *Ledger) Movements(ctx context.Context, f repository.StockMovementFilter) ([]*entity.StockMovement, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 500
	}
	var out []*entity.StockMovement
	err := l.tx.View(ctx, func(r repository.Repos) error {
		list, err := r.StockMovements.List(ctx, f)
		out = list
		return err
	})
	return out, err
}

// totalStock suma del producto en todas las bodegas.
func totalStock(ctx context.Context, r repository.Repos, productID string) (int, error) {
	all, err := r.Stock.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, s := range all {
		if s.ProductID == productID {
			total += s.Quantity
		}
	}
	return total, nil
}
