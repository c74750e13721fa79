package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/sequence"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// ShiftGate turno de bodega global: a lo sumo uno abierto, requerido para solicitar traslados.
type ShiftGate struct {
	tx  repository.TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewShiftGate construye el control de turnos.
func NewShiftGate(tx repository.TxRunner, log *logger.Logger) *ShiftGate {
	return &ShiftGate{tx: tx, log: log.Named("shift"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (g *ShiftGate) WithClock(now func() time.Time) *ShiftGate {
	g.now = now
	return g
}

// Open abre un turno; ErrSessionAlreadyOpen si ya hay uno abierto.
func (g *ShiftGate) Open(ctx context.Context, actor entity.Actor, notes string) (*entity.Shift, error) {
	var out *entity.Shift
	err := g.tx.Run(ctx, func(r repository.Repos) error {
		open, err := r.Shifts.GetOpen(ctx)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrSessionAlreadyOpen
		}
		now := g.now()
		number, err := sequence.NextShiftNumber(ctx, r, now)
		if err != nil {
			return err
		}
		sh := &entity.Shift{
			ID:          uuid.New().String(),
			ShiftNumber: number,
			OpenedBy:    actor.ID,
			OpenedAt:    now,
			Status:      entity.SessionOpen,
			Notes:       notes,
		}
		if err := r.Shifts.Create(ctx, sh); err != nil {
			return err
		}
		out = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.log.Info().Str("shift", out.ShiftNumber).Str("by", actor.ID).Msg("turno abierto")
	return out, nil
}

// Close cierra el turno; cerrar uno ya cerrado es una transición inválida.
func (g *ShiftGate) Close(ctx context.Context, shiftID string, actor entity.Actor) (*entity.Shift, error) {
	var out *entity.Shift
	err := g.tx.Run(ctx, func(r repository.Repos) error {
		sh, err := r.Shifts.GetByID(ctx, shiftID)
		if err != nil {
			return err
		}
		if sh == nil {
			return domain.NotFoundError("turno", shiftID)
		}
		if sh.Status != entity.SessionOpen {
			return &domain.TransitionError{Entity: "turno", From: sh.Status, To: entity.SessionClosed}
		}
		now := g.now()
		sh.Status = entity.SessionClosed
		sh.ClosedAt = &now
		sh.ClosedBy = actor.ID
		if err := r.Shifts.Update(ctx, sh); err != nil {
			return err
		}
		out = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.log.Info().Str("shift", out.ShiftNumber).Str("by", actor.ID).Msg("turno cerrado")
	return out, nil
}

// Current turno abierto o ErrNoOpenShift.
func (g *ShiftGate) Current(ctx context.Context) (*entity.Shift, error) {
	var out *entity.Shift
	err := g.tx.View(ctx, func(r repository.Repos) error {
		sh, err := r.Shifts.GetOpen(ctx)
		if err != nil {
			return err
		}
		if sh == nil {
			return domain.ErrNoOpenShift
		}
		out = sh
		return nil
	})
	return out, err
}

// List turnos, más recientes primero.
func (g *ShiftGate) List(ctx context.Context, limit int) ([]*entity.Shift, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var out []*entity.Shift
	err := g.tx.View(ctx, func(r repository.Repos) error {
		list, err := r.Shifts.List(ctx, limit)
		out = list
		return err
	})
	return out, err
}
