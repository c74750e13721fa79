package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/accounting"
	"github.com/jhoicas/pos-backoffice/internal/application/cashsession"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/sequence"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// Resultados de ValidateByNumber.
const (
	ValidationValid     = "valid"
	ValidationDelivered = "delivered"
	ValidationCancelled = "cancelled"
	ValidationNotFound  = "not_found"
)

// MaxList tope de órdenes por listado.
const MaxList = 500

// LineInput producto y cantidad pedidos.
type LineInput struct {
	ProductID string
	Quantity  int
}

// CreateInput datos de una venta.
type CreateInput struct {
	Cashier        entity.Actor
	Lines          []LineInput
	PaymentMethod  string
	Discount       decimal.Decimal
	Notes          string
	IdempotencyKey string
}

// Service registra ventas: stock, orden, asiento y totales de caja en una sola unidad de trabajo.
type Service struct {
	tx            repository.TxRunner
	idem          IdempotencyStore
	saleWarehouse string
	log           *logger.Logger
	now           func() time.Time
}

// NewService construye el procesador de órdenes. idem puede ser nil.
func NewService(tx repository.TxRunner, idem IdempotencyStore, saleWarehouse string, log *logger.Logger) *Service {
	return &Service{tx: tx, idem: idem, saleWarehouse: saleWarehouse, log: log.Named("order"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func validateCreate(in CreateInput) error {
	if len(in.Lines) == 0 {
		return domain.NewValidationError("items", "la orden debe tener al menos un producto")
	}
	for _, l := range in.Lines {
		if l.ProductID == "" {
			return domain.NewValidationError("product_id", "es requerido")
		}
		if l.Quantity < 1 {
			return domain.NewValidationError("quantity", "debe ser al menos 1")
		}
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return domain.NewValidationError("payment_method", fmt.Sprintf("%q no es válido", in.PaymentMethod))
	}
	if in.Discount.IsNegative() {
		return domain.NewValidationError("discount", "no puede ser negativo")
	}
	return nil
}

// Create registra una venta pagada. Falla sin efectos si algún paso no se cumple.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Order, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" && s.idem != nil {
		key = in.Cashier.ID + ":" + key
		existing, reserved, err := s.idem.Reserve(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("idempotencia: %w", err)
		}
		if !reserved {
			if existing == "" {
				return nil, fmt.Errorf("orden con la misma llave en curso: %w", domain.ErrConflict)
			}
			return s.Get(ctx, existing)
		}
	} else {
		key = ""
	}

	var out *entity.Order
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		o, err := s.create(ctx, r, in)
		out = o
		return err
	})
	if key != "" {
		if err != nil {
			if rerr := s.idem.Release(ctx, key); rerr != nil {
				s.log.Warn().Err(rerr).Str("key", key).Msg("no se pudo liberar la llave de idempotencia")
			}
		} else if cerr := s.idem.Complete(ctx, key, out.ID); cerr != nil {
			s.log.Warn().Err(cerr).Str("key", key).Msg("no se pudo completar la llave de idempotencia")
		}
	}
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order", out.OrderNumber).Str("cashier", out.CashierID).Str("total", out.Total.String()).Msg("orden creada")
	return out, nil
}

// create bloquea primero la caja, luego el stock (DebitAll) y por último el
// consecutivo; Cancel y Close respetan el mismo orden.
func (s *Service) create(ctx context.Context, r repository.Repos, in CreateInput) (*entity.Order, error) {
	session, err := r.Sessions.GetOpenByCashierForUpdate(ctx, in.Cashier.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoOpenCashSession
	}
	wh, err := inventory.SaleWarehouse(ctx, r, s.saleWarehouse)
	if err != nil {
		return nil, err
	}

	items := make([]entity.OrderItem, 0, len(in.Lines))
	var moves []inventory.Movement
	subtotal, totalCost := decimal.Zero, decimal.Zero
	for _, l := range in.Lines {
		it, lineMoves, err := resolveLine(ctx, r, l, wh.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
		moves = append(moves, lineMoves...)
		subtotal = subtotal.Add(it.Subtotal)
		totalCost = totalCost.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !subtotal.IsPositive() {
		return nil, domain.NewValidationError("items", "el subtotal debe ser mayor que cero")
	}
	if in.Discount.GreaterThan(subtotal) {
		return nil, domain.NewValidationError("discount", "no puede superar el subtotal")
	}

	now := s.now()
	o := &entity.Order{
		ID:            uuid.New().String(),
		Items:         items,
		Subtotal:      subtotal,
		Discount:      in.Discount,
		Total:         subtotal.Sub(in.Discount),
		TotalCost:     totalCost,
		PaymentMethod: in.PaymentMethod,
		Status:        entity.OrderPaid,
		CashSessionID: session.ID,
		CashierID:     in.Cashier.ID,
		CashierName:   in.Cashier.Name,
		WarehouseID:   wh.ID,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := inventory.DebitAll(ctx, r, moves, inventory.Reference{Reason: entity.ReasonSale, ID: o.ID, By: in.Cashier.ID, At: now}); err != nil {
		return nil, err
	}
	if o.OrderNumber, err = sequence.NextOrderNumber(ctx, r, now); err != nil {
		return nil, err
	}
	if err := r.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	if _, err := accounting.Append(ctx, r, now, accounting.AppendInput{
		Description:   "Venta orden #" + o.OrderNumber,
		Type:          entity.EntrySale,
		Lines:         domacc.SaleLines(o),
		ReferenceType: entity.RefOrder,
		ReferenceID:   o.ID,
		CreatedBy:     in.Cashier.ID,
		CreatedByName: in.Cashier.Name,
	}); err != nil {
		return nil, err
	}
	if err := cashsession.RecomputeTotals(ctx, r, session); err != nil {
		return nil, err
	}
	return o, nil
}

// resolveLine congela nombre, precio, costo y cuenta del producto y calcula los
// descuentos de stock que implica la línea. Un combo usa su receta vigente.
func resolveLine(ctx context.Context, r repository.Repos, l LineInput, warehouseID string) (entity.OrderItem, []inventory.Movement, error) {
	p, err := r.Products.GetByID(ctx, l.ProductID)
	if err != nil {
		return entity.OrderItem{}, nil, err
	}
	if p == nil {
		return entity.OrderItem{}, nil, domain.NotFoundError("producto", l.ProductID)
	}
	if !p.Active {
		return entity.OrderItem{}, nil, domain.NewValidationError("product_id", p.Name+" no está activo")
	}
	account := p.AccountCode
	if account == "" {
		account = entity.DefaultAccountCode(p.Category)
	}
	it := entity.OrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    l.Quantity,
		UnitPrice:   p.Price,
		UnitCost:    p.Cost,
		Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		AccountCode: account,
		IsCombo:     p.IsCombo,
	}

	moves := inventory.ExpandLine(p, l.Quantity, warehouseID)
	if p.IsCombo {
		if len(moves) == 0 {
			return entity.OrderItem{}, nil, domain.NewValidationError("product_id", "el combo "+p.Name+" no tiene componentes")
		}
		unitCost := decimal.Zero
		for i, ci := range p.ComboItems {
			comp, err := r.Products.GetByID(ctx, ci.ProductID)
			if err != nil {
				return entity.OrderItem{}, nil, err
			}
			if comp == nil {
				return entity.OrderItem{}, nil, domain.NewValidationError("product_id",
					fmt.Sprintf("el combo %s referencia un producto inexistente", p.Name))
			}
			moves[i].ProductName = comp.Name
			unitCost = unitCost.Add(comp.Cost.Mul(decimal.NewFromInt(int64(ci.Quantity))))
		}
		it.UnitCost = unitCost
	}
	for _, m := range moves {
		it.Components = append(it.Components, entity.OrderComponent{ProductID: m.ProductID, ProductName: m.ProductName, Quantity: m.Quantity})
	}
	return it, moves, nil
}

// Deliver marca como entregada una orden pagada.
func (s *Service) Deliver(ctx context.Context, orderNumber string, actor entity.Actor) (*entity.Order, error) {
	var out *entity.Order
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		o, err := r.Orders.GetByNumberForUpdate(ctx, orderNumber)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.NotFoundError("orden", orderNumber)
		}
		if !o.CanTransition(entity.OrderDelivered) {
			return &domain.TransitionError{Entity: "orden", From: o.Status, To: entity.OrderDelivered}
		}
		from := o.Status
		now := s.now()
		o.Status = entity.OrderDelivered
		o.DeliveredAt = &now
		o.DeliveredBy = actor.ID
		o.UpdatedAt = now
		if err := r.Orders.Update(ctx, o, from); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order", out.OrderNumber).Str("by", actor.ID).Msg("orden entregada")
	return out, nil
}

// Cancel anula una orden: devuelve el stock descontado, registra el asiento inverso
// y recalcula la caja si sigue abierta.
func (s *Service) Cancel(ctx context.Context, orderID string, actor entity.Actor, reason string) (*entity.Order, error) {
	var out *entity.Order
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		o, err := r.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.NotFoundError("orden", orderID)
		}
		if !o.CanTransition(entity.OrderCancelled) {
			return &domain.TransitionError{Entity: "orden", From: o.Status, To: entity.OrderCancelled}
		}
		// Caja antes que stock, igual que en create.
		session, err := r.Sessions.GetByIDForUpdate(ctx, o.CashSessionID)
		if err != nil {
			return err
		}
		from := o.Status
		now := s.now()

		var moves []inventory.Movement
		for _, it := range o.Items {
			for _, c := range it.Components {
				moves = append(moves, inventory.Movement{ProductID: c.ProductID, ProductName: c.ProductName, WarehouseID: o.WarehouseID, Quantity: c.Quantity})
			}
		}
		if len(moves) > 0 {
			if _, err := inventory.CreditAll(ctx, r, moves, inventory.Reference{Reason: entity.ReasonSaleCancel, ID: o.ID, By: actor.ID, At: now}); err != nil {
				return err
			}
		}

		o.Status = entity.OrderCancelled
		o.CancelledAt = &now
		o.CancelledBy = actor.ID
		o.CancellationReason = reason
		o.UpdatedAt = now
		if err := r.Orders.Update(ctx, o, from); err != nil {
			return err
		}

		lines := domacc.SaleLines(o)
		orig, err := r.Ledger.FindByReference(ctx, entity.RefOrder, o.ID, entity.EntrySale)
		if err != nil {
			return err
		}
		if orig != nil {
			lines = orig.Lines
		}
		desc := "Anulación venta orden #" + o.OrderNumber
		if reason != "" {
			desc += " - " + reason
		}
		if _, err := accounting.Append(ctx, r, now, accounting.AppendInput{
			Description:   desc,
			Type:          entity.EntryAdjustment,
			Lines:         domacc.Reverse(lines),
			ReferenceType: entity.RefOrder,
			ReferenceID:   o.ID,
			CreatedBy:     actor.ID,
			CreatedByName: actor.Name,
		}); err != nil {
			return err
		}

		if session != nil && session.Status == entity.SessionOpen {
			if err := cashsession.RecomputeTotals(ctx, r, session); err != nil {
				return err
			}
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order", out.OrderNumber).Str("by", actor.ID).Str("reason", reason).Msg("orden cancelada")
	return out, nil
}

// ValidateByNumber estado de una orden para cocina/entrega.
func (s *Service) ValidateByNumber(ctx context.Context, number string) (string, *entity.Order, error) {
	o, err := s.GetByNumber(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return ValidationNotFound, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	switch o.Status {
	case entity.OrderDelivered:
		return ValidationDelivered, o, nil
	case entity.OrderCancelled:
		return ValidationCancelled, o, nil
	}
	return ValidationValid, o, nil
}

// Get orden por ID.
func (s *Service) Get(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := s.tx.View(ctx, func(r repository.Repos) error {
		o, err := r.Orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.NotFoundError("orden", id)
		}
		out = o
		return nil
	})
	return out, err
}

// GetByNumber orden por número.
func (s *Service) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	var out *entity.Order
	err := s.tx.View(ctx, func(r repository.Repos) error {
		o, err := r.Orders.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.NotFoundError("orden", number)
		}
		out = o
		return nil
	})
	return out, err
}

// List órdenes filtradas, más recientes primero.
func (s *Service) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	if f.Limit <= 0 || f.Limit > MaxList {
		f.Limit = MaxList
	}
	var out []*entity.Order
	err := s.tx.View(ctx, func(r repository.Repos) error {
		list, err := r.Orders.List(ctx, f)
		out = list
		return err
	})
	return out, err
}

// SalesLedger órdenes no canceladas del rango con sus totales por método de pago.
func (s *Service) SalesLedger(ctx context.Context, from, to *time.Time) (*dto.SalesLedgerResponse, error) {
	var orders []*entity.Order
	err := s.tx.View(ctx, func(r repository.Repos) error {
		list, err := r.Orders.List(ctx, repository.OrderFilter{From: from, To: to})
		orders = list
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SalesLedgerResponse{Orders: []dto.OrderResponse{}}
	for _, o := range orders {
		if o.Status == entity.OrderCancelled {
			continue
		}
		out.Orders = append(out.Orders, *dto.FromOrder(o))
		out.TotalOrders++
		out.Subtotal = out.Subtotal.Add(o.Subtotal)
		out.Discount = out.Discount.Add(o.Discount)
		out.Total = out.Total.Add(o.Total)
		out.TotalCost = out.TotalCost.Add(o.TotalCost)
		switch o.PaymentMethod {
		case entity.PaymentCash:
			out.CashSales = out.CashSales.Add(o.Total)
		case entity.PaymentCard:
			out.CardSales = out.CardSales.Add(o.Total)
		case entity.PaymentTransfer:
			out.TransferSales = out.TransferSales.Add(o.Total)
		}
	}
	return out, nil
}
