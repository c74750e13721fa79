package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/accounting"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

type orderRepo struct{ st *state }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	for _, other := range r.st.orders {
		if other.OrderNumber == o.OrderNumber {
			return fmt.Errorf("orden %s: %w", o.OrderNumber, domain.ErrDuplicate)
		}
	}
	r.st.orders[o.ID] = o.Clone()
	return nil
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order, from string) error {
	cur, ok := r.st.orders[o.ID]
	if !ok {
		return domain.NotFoundError("orden", o.ID)
	}
	if cur.Status != from {
		return &domain.TransitionError{Entity: "orden", From: cur.Status, To: o.Status}
	}
	r.st.orders[o.ID] = o.Clone()
	return nil
}

// Las lecturas ForUpdate equivalen a las normales: Run ya es exclusivo.
func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) GetByNumberForUpdate(ctx context.Context, number string) (*entity.Order, error) {
	return r.GetByNumber(ctx, number)
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return r.st.orders[id].Clone(), nil
}

func (r *orderRepo) GetByNumber(_ context.Context, number string) (*entity.Order, error) {
	for _, o := range r.st.orders {
		if o.OrderNumber == number {
			return o.Clone(), nil
		}
	}
	return nil, nil
}

func (r *orderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var list []*entity.Order
	for _, o := range r.st.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.CashSessionID != "" && o.CashSessionID != f.CashSessionID {
			continue
		}
		if f.CashierID != "" && o.CashierID != f.CashierID {
			continue
		}
		if !accounting.InRange(o.CreatedAt, f.From, f.To) {
			continue
		}
		list = append(list, o.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OrderNumber > list[j].OrderNumber })
	return applyLimit(list, f.Limit), nil
}

func (r *orderRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.Order, error) {
	return r.List(ctx, repository.OrderFilter{CashSessionID: sessionID})
}

func (r *orderRepo) LastNumber(_ context.Context, prefix string) (string, error) {
	return lastWithPrefix(prefix, func(yield func(string)) {
		for _, o := range r.st.orders {
			yield(o.OrderNumber)
		}
	}), nil
}

type ledgerRepo struct{ st *state }

func (r *ledgerRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	for _, other := range r.st.entries {
		if other.EntryNumber == e.EntryNumber {
			return fmt.Errorf("asiento %s: %w", e.EntryNumber, domain.ErrDuplicate)
		}
	}
	r.st.entries[e.ID] = e.Clone()
	return nil
}

func (r *ledgerRepo) GetByID(_ context.Context, id string) (*entity.LedgerEntry, error) {
	return r.st.entries[id].Clone(), nil
}

func (r *ledgerRepo) FindByReference(_ context.Context, refType, refID, entryType string) (*entity.LedgerEntry, error) {
	var found *entity.LedgerEntry
	for _, e := range r.st.entries {
		if e.ReferenceType != refType || e.ReferenceID != refID || e.Type != entryType || e.Status != entity.EntryActive {
			continue
		}
		if found == nil || e.EntryNumber < found.EntryNumber {
			found = e
		}
	}
	return found.Clone(), nil
}

func (r *ledgerRepo) List(_ context.Context, f repository.EntryFilter) ([]*entity.LedgerEntry, error) {
	var list []*entity.LedgerEntry
	for _, e := range r.st.entries {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if !accounting.InRange(e.Date, f.From, f.To) {
			continue
		}
		list = append(list, e.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].EntryNumber > list[j].EntryNumber
	})
	return applyLimit(list, f.Limit), nil
}

func (r *ledgerRepo) Void(_ context.Context, id, by, reason string, at time.Time) error {
	e, ok := r.st.entries[id]
	if !ok {
		return domain.NotFoundError("asiento", id)
	}
	e.Status = entity.EntryVoid
	e.VoidedAt = &at
	e.VoidedBy = by
	e.VoidReason = reason
	return nil
}

func (r *ledgerRepo) LastNumber(_ context.Context, prefix string) (string, error) {
	return lastWithPrefix(prefix, func(yield func(string)) {
		for _, e := range r.st.entries {
			yield(e.EntryNumber)
		}
	}), nil
}

type sessionRepo struct{ st *state }

func (r *sessionRepo) Create(_ context.Context, s *entity.CashSession) error {
	for _, other := range r.st.sessions {
		if other.CashierID == s.CashierID && other.Status == entity.SessionOpen {
			return domain.ErrSessionAlreadyOpen
		}
	}
	r.st.sessions[s.ID] = s.Clone()
	return nil
}

func (r *sessionRepo) open(id, to string) (*entity.CashSession, error) {
	cur, ok := r.st.sessions[id]
	if !ok {
		return nil, domain.NotFoundError("caja", id)
	}
	if cur.Status != entity.SessionOpen {
		return nil, &domain.TransitionError{Entity: "caja", From: cur.Status, To: to}
	}
	return cur, nil
}

func (r *sessionRepo) UpdateTotals(_ context.Context, s *entity.CashSession) error {
	cur, err := r.open(s.ID, entity.SessionOpen)
	if err != nil {
		return err
	}
	cur.CashSales = s.CashSales
	cur.CardSales = s.CardSales
	cur.TransferSales = s.TransferSales
	cur.TotalSales = s.TotalSales
	cur.TotalOrders = s.TotalOrders
	cur.ExpectedAmount = s.ExpectedAmount
	return nil
}

func (r *sessionRepo) Close(_ context.Context, s *entity.CashSession) error {
	if _, err := r.open(s.ID, entity.SessionClosed); err != nil {
		return err
	}
	r.st.sessions[s.ID] = s.Clone()
	return nil
}

func (r *sessionRepo) GetByID(_ context.Context, id string) (*entity.CashSession, error) {
	return r.st.sessions[id].Clone(), nil
}

func (r *sessionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.GetByID(ctx, id)
}

func (r *sessionRepo) GetOpenByCashierForUpdate(ctx context.Context, cashierID string) (*entity.CashSession, error) {
	return r.GetOpenByCashier(ctx, cashierID)
}

func (r *sessionRepo) GetOpenByCashier(_ context.Context, cashierID string) (*entity.CashSession, error) {
	for _, s := range r.st.sessions {
		if s.CashierID == cashierID && s.Status == entity.SessionOpen {
			return s.Clone(), nil
		}
	}
	return nil, nil
}

func (r *sessionRepo) List(_ context.Context, f repository.SessionFilter) ([]*entity.CashSession, error) {
	var list []*entity.CashSession
	for _, s := range r.st.sessions {
		if f.CashierID != "" && s.CashierID != f.CashierID {
			continue
		}
		if !accounting.InRange(s.OpenedAt, f.From, f.To) {
			continue
		}
		list = append(list, s.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OpenedAt.After(list[j].OpenedAt) })
	return applyLimit(list, f.Limit), nil
}

type shiftRepo struct{ st *state }

func (r *shiftRepo) Create(_ context.Context, s *entity.Shift) error {
	for _, other := range r.st.shifts {
		if other.Status == entity.SessionOpen {
			return domain.ErrSessionAlreadyOpen
		}
	}
	c := *s
	r.st.shifts[s.ID] = &c
	return nil
}

func (r *shiftRepo) Update(_ context.Context, s *entity.Shift) error {
	if _, ok := r.st.shifts[s.ID]; !ok {
		return domain.NotFoundError("turno", s.ID)
	}
	c := *s
	r.st.shifts[s.ID] = &c
	return nil
}

func (r *shiftRepo) GetByID(_ context.Context, id string) (*entity.Shift, error) {
	s, ok := r.st.shifts[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *shiftRepo) GetOpen(context.Context) (*entity.Shift, error) {
	for _, s := range r.st.shifts {
		if s.Status == entity.SessionOpen {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *shiftRepo) List(_ context.Context, limit int) ([]*entity.Shift, error) {
	list := make([]*entity.Shift, 0, len(r.st.shifts))
	for _, s := range r.st.shifts {
		c := *s
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OpenedAt.After(list[j].OpenedAt) })
	return applyLimit(list, limit), nil
}

func (r *shiftRepo) LastNumber(_ context.Context, prefix string) (string, error) {
	return lastWithPrefix(prefix, func(yield func(string)) {
		for _, s := range r.st.shifts {
			yield(s.ShiftNumber)
		}
	}), nil
}

type transferRepo struct{ st *state }

func (r *transferRepo) Create(_ context.Context, t *entity.InventoryTransfer) error {
	for _, other := range r.st.transfers {
		if other.TransferNumber == t.TransferNumber {
			return fmt.Errorf("traslado %s: %w", t.TransferNumber, domain.ErrDuplicate)
		}
	}
	r.st.transfers[t.ID] = t.Clone()
	return nil
}

func (r *transferRepo) Update(_ context.Context, t *entity.InventoryTransfer, from string) error {
	cur, ok := r.st.transfers[t.ID]
	if !ok {
		return domain.NotFoundError("traslado", t.ID)
	}
	if cur.Status != from {
		return &domain.TransitionError{Entity: "traslado", From: cur.Status, To: t.Status}
	}
	r.st.transfers[t.ID] = t.Clone()
	return nil
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.st.transfers[id].Clone(), nil
}

func (r *transferRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.InventoryTransfer, error) {
	var list []*entity.InventoryTransfer
	for _, t := range r.st.transfers {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.ShiftID != "" && t.ShiftID != f.ShiftID {
			continue
		}
		list = append(list, t.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TransferNumber > list[j].TransferNumber })
	return applyLimit(list, f.Limit), nil
}

func (r *transferRepo) LastNumber(_ context.Context, prefix string) (string, error) {
	return lastWithPrefix(prefix, func(yield func(string)) {
		for _, t := range r.st.transfers {
			yield(t.TransferNumber)
		}
	}), nil
}
