package accounting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// MaxEntries tope de asientos por listado.
const MaxEntries = 500

// JournalExporter serializa asientos a un formato de intercambio (XML).
type JournalExporter interface {
	ExportJournal(entries []*entity.LedgerEntry) ([]byte, error)
}

// Service libro diario: asientos manuales, anulación, consultas y reportes.
type Service struct {
	tx       repository.TxRunner
	exporter JournalExporter
	log      *logger.Logger
	now      func() time.Time
}

// NewService construye el servicio contable.
func NewService(tx repository.TxRunner, exporter JournalExporter, log *logger.Logger) *Service {
	return &Service{tx: tx, exporter: exporter, log: log.Named("accounting"), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AppendManual registra un asiento manual en su propia transacción.
func (s *Service) AppendManual(ctx context.Context, in dto.CreateEntryRequest, actor entity.Actor) (*entity.LedgerEntry, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.NewValidationError("description", "es requerida")
	}
	typ := in.Type
	if typ == "" {
		typ = entity.EntryManual
	}
	lines := make([]entity.EntryLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, entity.EntryLine{
			AccountCode: strings.TrimSpace(l.AccountCode),
			AccountName: l.AccountName,
			Debit:       l.Debit,
			Credit:      l.Credit,
		})
	}
	var date time.Time
	if in.Date != nil {
		date = *in.Date
	}

	var out *entity.LedgerEntry
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		e, err := Append(ctx, r, s.now(), AppendInput{
			Date:          date,
			Description:   in.Description,
			Type:          typ,
			Lines:         lines,
			ReferenceType: entity.RefManual,
			CreatedBy:     actor.ID,
			CreatedByName: actor.Name,
		})
		out = e
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("entry", out.EntryNumber).Str("by", actor.ID).Msg("asiento manual registrado")
	return out, nil
}

// Void anula un asiento activo; es la única modificación permitida.
func (s *Service) Void(ctx context.Context, id, reason string, actor entity.Actor) (*entity.LedgerEntry, error) {
	var out *entity.LedgerEntry
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		e, err := r.Ledger.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.NotFoundError("asiento", id)
		}
		if e.Status != entity.EntryActive {
			return &domain.TransitionError{Entity: "asiento", From: e.Status, To: entity.EntryVoid}
		}
		at := s.now()
		if err := r.Ledger.Void(ctx, id, actor.ID, reason, at); err != nil {
			return err
		}
		e.Status = entity.EntryVoid
		e.VoidedAt = &at
		e.VoidedBy = actor.ID
		e.VoidReason = reason
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("entry", out.EntryNumber).Str("by", actor.ID).Msg("asiento anulado")
	return out, nil
}

// Get detalle de un asiento.
func (s *Service) Get(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	var out *entity.LedgerEntry
	err := s.tx.View(ctx, func(r repository.Repos) error {
		e, err := r.Ledger.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.NotFoundError("asiento", id)
		}
		out = e
		return nil
	})
	return out, err
}

// List asientos filtrados; el límite se acota a MaxEntries.
func (s *Service) List(ctx context.Context, f repository.EntryFilter) ([]*entity.LedgerEntry, error) {
	if f.Limit <= 0 || f.Limit > MaxEntries {
		f.Limit = MaxEntries
	}
	var out []*entity.LedgerEntry
	err := s.tx.View(ctx, func(r repository.Repos) error {
		list, err := r.Ledger.List(ctx, f)
		out = list
		return err
	})
	return out, err
}

// ExportJournal asientos filtrados serializados por el exportador.
func (s *Service) ExportJournal(ctx context.Context, f repository.EntryFilter) ([]byte, error) {
	entries, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.exporter.ExportJournal(entries)
}

// ChartOfAccounts plan de cuentas.
func (s *Service) ChartOfAccounts() []dto.AccountResponse {
	chart := domacc.ChartOfAccounts()
	out := make([]dto.AccountResponse, 0, len(chart))
	for _, a := range chart {
		out = append(out, dto.AccountResponse{Code: a.Code, Name: a.Name, Type: a.Type, Parent: a.Parent})
	}
	return out
}

// activeEntries asientos activos hasta to (inclusive); from/to nulos no limitan.
func (s *Service) activeEntries(ctx context.Context, from, to *time.Time) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := s.tx.View(ctx, func(r repository.Repos) error {
		list, err := r.Ledger.List(ctx, repository.EntryFilter{From: from, To: to, Status: entity.EntryActive})
		out = list
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("leer asientos: %w", err)
	}
	return out, nil
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}
