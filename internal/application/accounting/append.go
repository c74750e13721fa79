package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/sequence"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	domacc "github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// AppendInput datos de un asiento a registrar.
type AppendInput struct {
	Date          time.Time // cero = now
	Description   string
	Type          string
	Lines         []entity.EntryLine
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
	CreatedByName string
}

// Append valida y registra un asiento dentro de la unidad de trabajo r.
// Un asiento descuadrado o con menos de dos líneas nunca llega a persistirse.
func Append(ctx context.Context, r repository.Repos, now time.Time, in AppendInput) (*entity.LedgerEntry, error) {
	if !entity.ValidEntryType(in.Type) {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidEntry, in.Type)
	}
	lines := make([]entity.EntryLine, len(in.Lines))
	for i, l := range in.Lines {
		if l.AccountName == "" {
			l.AccountName = domacc.AccountName(l.AccountCode)
		}
		lines[i] = l
	}
	if err := domacc.ValidateLines(lines); err != nil {
		return nil, err
	}

	number, err := sequence.NextEntryNumber(ctx, r, now)
	if err != nil {
		return nil, fmt.Errorf("número de asiento: %w", err)
	}
	date := in.Date
	if date.IsZero() {
		date = now
	}
	debit, credit := domacc.Totals(lines)
	e := &entity.LedgerEntry{
		ID:            uuid.New().String(),
		EntryNumber:   number,
		Date:          date,
		Description:   in.Description,
		Type:          in.Type,
		Lines:         lines,
		TotalDebit:    debit,
		TotalCredit:   credit,
		Status:        entity.EntryActive,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		CreatedBy:     in.CreatedBy,
		CreatedByName: in.CreatedByName,
		CreatedAt:     now,
	}
	if err := r.Ledger.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
