package cashsession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// MaxHistory tope del historial de cajas.
const MaxHistory = 50

// ReportGenerator genera el reporte de cierre de una caja.
type ReportGenerator interface {
	CashSessionReport(s *entity.CashSession, orders []*entity.Order) ([]byte, error)
}

// Service apertura, consulta y cierre de cajas.
type Service struct {
	tx     repository.TxRunner
	report ReportGenerator
	log    *logger.Logger
	now    func() time.Time
}

// NewService construye el servicio de cajas.
func NewService(tx repository.TxRunner, report ReportGenerator, log *logger.Logger) *Service {
	return &Service{tx: tx, report: report, log: log.Named("cashsession"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Open abre la caja del cajero. Con fondo inicial se contabiliza el asiento de apertura.
func (s *Service) Open(ctx context.Context, cashier entity.Actor, initial decimal.Decimal, notes string) (*entity.CashSession, error) {
	if initial.IsNegative() {
		return nil, domain.NewValidationError("initial_amount", "no puede ser negativo")
	}
	var out *entity.CashSession
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		open, err := r.Sessions.GetOpenByCashier(ctx, cashier.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return fmt.Errorf("cajero %s: %w", cashier.ID, domain.ErrSessionAlreadyOpen)
		}
		now := s.now()
		cs := &entity.CashSession{
			ID:             uuid.New().String(),
			CashierID:      cashier.ID,
			CashierName:    cashier.Name,
			OpenedAt:       now,
			Status:         entity.SessionOpen,
			InitialAmount:  initial,
			ExpectedAmount: initial,
			Notes:          notes,
		}
		if err := r.Sessions.Create(ctx, cs); err != nil {
			return err
		}
		if initial.IsPositive() {
			if _, err := accounting.Append(ctx, r, now, accounting.AppendInput{
				Description:   "Apertura de caja - " + cashier.Name,
				Type:          entity.EntryOpening,
				Lines:         domacc.OpeningLines(initial),
				ReferenceType: entity.RefCashSession,
				ReferenceID:   cs.ID,
				CreatedBy:     cashier.ID,
				CreatedByName: cashier.Name,
			}); err != nil {
				return err
			}
		}
		out = cs
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("session", out.ID).Str("cashier", cashier.ID).Str("initial", initial.String()).Msg("caja abierta")
	return out, nil
}

// Current caja abierta del cajero con totales recalculados.
func (s *Service) Current(ctx context.Context, cashierID string) (*entity.CashSession, error) {
	var out *entity.CashSession
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		cs, err := r.Sessions.GetOpenByCashierForUpdate(ctx, cashierID)
		if err != nil {
			return err
		}
		if cs == nil {
			return domain.ErrNoOpenCashSession
		}
		if err := RecomputeTotals(ctx, r, cs); err != nil {
			return err
		}
		out = cs
		return nil
	})
	return out, err
}

// Close cierra la caja abierta de cashierID (vacío = la del actor). Solo un admin
// puede cerrar la caja de otro cajero. Una diferencia distinta de cero se contabiliza.
func (s *Service) Close(ctx context.Context, cashierID string, actual decimal.Decimal, notes string, actor entity.Actor) (*entity.CashSession, error) {
	if actual.IsNegative() {
		return nil, domain.NewValidationError("actual_amount", "no puede ser negativo")
	}
	if cashierID == "" {
		cashierID = actor.ID
	}
	if cashierID != actor.ID && actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	var out *entity.CashSession
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		cs, err := r.Sessions.GetOpenByCashierForUpdate(ctx, cashierID)
		if err != nil {
			return err
		}
		if cs == nil {
			return domain.ErrNoOpenCashSession
		}
		orders, err := r.Orders.ListBySession(ctx, cs.ID)
		if err != nil {
			return err
		}
		applyTotals(cs, orders)

		now := s.now()
		diff := actual.Sub(cs.ExpectedAmount)
		cs.ActualAmount = &actual
		cs.Difference = &diff
		cs.Status = entity.SessionClosed
		cs.ClosedAt = &now
		cs.ClosedBy = actor.ID
		cs.ClosedByName = actor.Name
		if notes != "" {
			cs.Notes = notes
		}
		if err := r.Sessions.Close(ctx, cs); err != nil {
			return err
		}

		if !diff.IsZero() {
			kind := "Sobrante"
			if diff.IsNegative() {
				kind = "Faltante"
			}
			if _, err := accounting.Append(ctx, r, now, accounting.AppendInput{
				Description:   fmt.Sprintf("%s en cierre de caja - %s", kind, cs.CashierName),
				Type:          entity.EntryClosing,
				Lines:         domacc.CashDifferenceLines(diff),
				ReferenceType: entity.RefCashSession,
				ReferenceID:   cs.ID,
				CreatedBy:     actor.ID,
				CreatedByName: actor.Name,
			}); err != nil {
				return err
			}
		}
		out = cs
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("session", out.ID).Str("expected", out.ExpectedAmount.String()).
		Str("difference", out.Difference.String()).Msg("caja cerrada")
	return out, nil
}

// History cajas filtradas, más recientes primero; el límite se acota a MaxHistory.
func (s *Service) History(ctx context.Context, f repository.SessionFilter) ([]*entity.CashSession, error) {
	if f.Limit <= 0 || f.Limit > MaxHistory {
		f.Limit = MaxHistory
	}
	var out []*entity.CashSession
	err := s.tx.View(ctx, func(r repository.Repos) error {
		list, err := r.Sessions.List(ctx, f)
		out = list
		return err
	})
	return out, err
}

// Get detalle de una caja.
func (s *Service) Get(ctx context.Context, id string) (*entity.CashSession, error) {
	var out *entity.CashSession
	err := s.tx.View(ctx, func(r repository.Repos) error {
		cs, err := r.Sessions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cs == nil {
			return domain.NotFoundError("caja", id)
		}
		out = cs
		return nil
	})
	return out, err
}

// Report PDF de la caja con sus órdenes.
func (s *Service) Report(ctx context.Context, id string) ([]byte, error) {
	if s.report == nil {
		return nil, errors.New("generador de reportes no configurado")
	}
	var (
		cs     *entity.CashSession
		orders []*entity.Order
	)
	err := s.tx.View(ctx, func(r repository.Repos) error {
		var err error
		cs, err = r.Sessions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cs == nil {
			return domain.NotFoundError("caja", id)
		}
		orders, err = r.Orders.ListBySession(ctx, id)
		if err != nil {
			return err
		}
		if cs.Status == entity.SessionOpen {
			applyTotals(cs, orders)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.report.CashSessionReport(cs, orders)
}
