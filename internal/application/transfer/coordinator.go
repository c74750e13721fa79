package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/sequence"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// Line producto y cantidad a trasladar.
type Line struct {
	ProductID string
	Quantity  int
}

// RequestInput solicitud de traslado.
type RequestInput struct {
	FromWarehouseID string
	ToWarehouseID   string
	Lines           []Line
	Notes           string
}

// Coordinator ciclo de vida de traslados: pending → confirmed | rejected.
// El stock solo se mueve al confirmar.
type Coordinator struct {
	tx  repository.TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewCoordinator construye el coordinador de traslados.
func NewCoordinator(tx repository.TxRunner, log *logger.Logger) *Coordinator {
	return &Coordinator{tx: tx, log: log.Named("transfer"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// Request registra un traslado pendiente dentro del turno abierto, tras verificar
// (sin bloquear) que el stock de origen alcanza.
func (c *Coordinator) Request(ctx context.Context, in RequestInput, actor entity.Actor) (*entity.InventoryTransfer, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("items", "se requiere al menos una línea")
	}
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, domain.NewValidationError("warehouse", "origen y destino son requeridos")
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.NewValidationError("to_warehouse_id", "origen y destino deben ser distintos")
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
		}
	}

	var out *entity.InventoryTransfer
	err := c.tx.Run(ctx, func(r repository.Repos) error {
		shift, err := r.Shifts.GetOpen(ctx)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNoOpenShift
		}
		for _, id := range []string{in.FromWarehouseID, in.ToWarehouseID} {
			w, err := r.Warehouses.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if w == nil {
				return domain.NotFoundError("bodega", id)
			}
		}

		items := make([]entity.TransferItem, 0, len(in.Lines))
		moves := make([]inventory.Movement, 0, len(in.Lines))
		for _, l := range in.Lines {
			p, err := r.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.NotFoundError("producto", l.ProductID)
			}
			if p.IsCombo {
				return domain.NewValidationError("product_id", p.Name+" es un combo y no se traslada")
			}
			items = append(items, entity.TransferItem{ProductID: p.ID, ProductName: p.Name, Quantity: l.Quantity})
			moves = append(moves, inventory.Movement{ProductID: p.ID, ProductName: p.Name, WarehouseID: in.FromWarehouseID, Quantity: l.Quantity})
		}
		if err := inventory.CheckAvailable(ctx, r, moves); err != nil {
			return err
		}

		now := c.now()
		number, err := sequence.NextTransferNumber(ctx, r, now)
		if err != nil {
			return err
		}
		t := &entity.InventoryTransfer{
			ID:              uuid.New().String(),
			TransferNumber:  number,
			FromWarehouseID: in.FromWarehouseID,
			ToWarehouseID:   in.ToWarehouseID,
			ShiftID:         shift.ID,
			Items:           items,
			Status:          entity.TransferPending,
			RequestedBy:     actor.ID,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := r.Transfers.Create(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.With("transfer", out.TransferNumber).Info().Str("by", actor.ID).Msg("traslado solicitado")
	return out, nil
}

// Confirm revalida y mueve el stock de origen a destino en una sola transacción.
func (c *Coordinator) Confirm(ctx context.Context, id string, actor entity.Actor) (*entity.InventoryTransfer, error) {
	var out *entity.InventoryTransfer
	err := c.tx.Run(ctx, func(r repository.Repos) error {
		t, err := c.pending(ctx, r, id, entity.TransferConfirmed)
		if err != nil {
			return err
		}
		now := c.now()
		debits := make([]inventory.Movement, 0, len(t.Items))
		credits := make([]inventory.Movement, 0, len(t.Items))
		for _, it := range t.Items {
			debits = append(debits, inventory.Movement{ProductID: it.ProductID, ProductName: it.ProductName, WarehouseID: t.FromWarehouseID, Quantity: it.Quantity})
			credits = append(credits, inventory.Movement{ProductID: it.ProductID, ProductName: it.ProductName, WarehouseID: t.ToWarehouseID, Quantity: it.Quantity})
		}
		if _, err := inventory.DebitAll(ctx, r, debits, inventory.Reference{Reason: entity.ReasonTransferOut, ID: t.ID, By: actor.ID, At: now}); err != nil {
			return err
		}
		if _, err := inventory.CreditAll(ctx, r, credits, inventory.Reference{Reason: entity.ReasonTransferIn, ID: t.ID, By: actor.ID, At: now}); err != nil {
			return err
		}
		t.Status = entity.TransferConfirmed
		t.ConfirmedBy = actor.ID
		t.ConfirmedAt = &now
		t.UpdatedAt = now
		if err := r.Transfers.Update(ctx, t, entity.TransferPending); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.With("transfer", out.TransferNumber).Info().Str("by", actor.ID).Msg("traslado confirmado")
	return out, nil
}

// Reject descarta un traslado pendiente sin mover stock.
func (c *Coordinator) Reject(ctx context.Context, id string, actor entity.Actor, reason string) (*entity.InventoryTransfer, error) {
	var out *entity.InventoryTransfer
	err := c.tx.Run(ctx, func(r repository.Repos) error {
		t, err := c.pending(ctx, r, id, entity.TransferRejected)
		if err != nil {
			return err
		}
		t.Status = entity.TransferRejected
		t.RejectedBy = actor.ID
		t.RejectReason = reason
		t.UpdatedAt = c.now()
		if err := r.Transfers.Update(ctx, t, entity.TransferPending); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.With("transfer", out.TransferNumber).Info().Str("by", actor.ID).Msg("traslado rechazado")
	return out, nil
}

// pending lee el traslado con bloqueo y exige que siga pendiente.
func (c *Coordinator) pending(ctx context.Context, r repository.Repos, id, to string) (*entity.InventoryTransfer, error) {
	t, err := r.Transfers.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFoundError("traslado", id)
	}
	if t.Status != entity.TransferPending {
		return nil, &domain.TransitionError{Entity: "traslado", From: t.Status, To: to}
	}
	return t, nil
}

// Get detalle de un traslado.
func (c *Coordinator) Get(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	var out *entity.InventoryTransfer
	err := c.tx.View(ctx, func(r repository.Repos) error {
		t, err := r.Transfers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.NotFoundError("traslado", id)
		}
		out = t
		return nil
	})
	return out, err
}

// List traslados filtrados, más recientes primero.
func (c *Coordinator) List(ctx context.Context, f repository.TransferFilter) ([]*entity.InventoryTransfer, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 200
	}
	var out []*entity.InventoryTransfer
	err := c.tx.View(ctx, func(r repository.Repos) error {
		list, err := r.Transfers.List(ctx, f)
		out = list
		return err
	})
	return out, err
}
