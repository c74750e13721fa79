package dto

import "github.com/jhoicas/pos-backoffice/internal/domain/entity"

// FromOrder convierte una orden a su salida.
func FromOrder(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		comps := make([]OrderComponentResponse, 0, len(it.Components))
		for _, c := range it.Components {
			comps = append(comps, OrderComponentResponse{ProductID: c.ProductID, ProductName: c.ProductName, Quantity: c.Quantity})
		}
		items = append(items, OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			UnitCost:    it.UnitCost,
			Subtotal:    it.Subtotal,
			IsCombo:     it.IsCombo,
			Components:  comps,
		})
	}
	return &OrderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		Items:              items,
		Subtotal:           o.Subtotal,
		Discount:           o.Discount,
		Total:              o.Total,
		TotalCost:          o.TotalCost,
		PaymentMethod:      o.PaymentMethod,
		Status:             o.Status,
		CashSessionID:      o.CashSessionID,
		CashierID:          o.CashierID,
		CashierName:        o.CashierName,
		WarehouseID:        o.WarehouseID,
		Notes:              o.Notes,
		DeliveredAt:        o.DeliveredAt,
		DeliveredBy:        o.DeliveredBy,
		CancelledAt:        o.CancelledAt,
		CancelledBy:        o.CancelledBy,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt,
	}
}

// FromOrders convierte un listado de órdenes.
func FromOrders(list []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *FromOrder(o))
	}
	return out
}

// FromEntry convierte un asiento a su salida.
func FromEntry(e *entity.LedgerEntry) *EntryResponse {
	if e == nil {
		return nil
	}
	lines := make([]EntryLineResponse, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, EntryLineResponse{AccountCode: l.AccountCode, AccountName: l.AccountName, Debit: l.Debit, Credit: l.Credit})
	}
	return &EntryResponse{
		ID:            e.ID,
		EntryNumber:   e.EntryNumber,
		Date:          e.Date,
		Description:   e.Description,
		Type:          e.Type,
		Lines:         lines,
		TotalDebit:    e.TotalDebit,
		TotalCredit:   e.TotalCredit,
		Status:        e.Status,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		CreatedBy:     e.CreatedBy,
		CreatedByName: e.CreatedByName,
		VoidedAt:      e.VoidedAt,
		VoidedBy:      e.VoidedBy,
		VoidReason:    e.VoidReason,
	}
}

// FromEntries convierte un listado de asientos.
func FromEntries(list []*entity.LedgerEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *FromEntry(e))
	}
	return out
}

// FromCashSession convierte una caja a su salida.
func FromCashSession(s *entity.CashSession) *CashSessionResponse {
	if s == nil {
		return nil
	}
	return &CashSessionResponse{
		ID:             s.ID,
		CashierID:      s.CashierID,
		CashierName:    s.CashierName,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
		Status:         s.Status,
		InitialAmount:  s.InitialAmount,
		CashSales:      s.CashSales,
		CardSales:      s.CardSales,
		TransferSales:  s.TransferSales,
		TotalSales:     s.TotalSales,
		TotalOrders:    s.TotalOrders,
		ExpectedAmount: s.ExpectedAmount,
		ActualAmount:   s.ActualAmount,
		Difference:     s.Difference,
		ClosedBy:       s.ClosedBy,
		ClosedByName:   s.ClosedByName,
		Notes:          s.Notes,
	}
}

// FromCashSessions convierte el historial de cajas.
func FromCashSessions(list []*entity.CashSession) []CashSessionResponse {
	out := make([]CashSessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *FromCashSession(s))
	}
	return out
}

// FromShift convierte un turno a su salida.
func FromShift(s *entity.Shift) *ShiftResponse {
	if s == nil {
		return nil
	}
	return &ShiftResponse{
		ID:          s.ID,
		ShiftNumber: s.ShiftNumber,
		OpenedBy:    s.OpenedBy,
		ClosedBy:    s.ClosedBy,
		OpenedAt:    s.OpenedAt,
		ClosedAt:    s.ClosedAt,
		Status:      s.Status,
		Notes:       s.Notes,
	}
}

// FromShifts convierte un listado de turnos.
func FromShifts(list []*entity.Shift) []ShiftResponse {
	out := make([]ShiftResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *FromShift(s))
	}
	return out
}

// FromTransfer convierte un traslado a su salida.
func FromTransfer(t *entity.InventoryTransfer) *TransferResponse {
	if t == nil {
		return nil
	}
	items := make([]TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, TransferItemResponse{ProductID: it.ProductID, ProductName: it.ProductName, Quantity: it.Quantity})
	}
	return &TransferResponse{
		ID:              t.ID,
		TransferNumber:  t.TransferNumber,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		ShiftID:         t.ShiftID,
		Items:           items,
		Status:          t.Status,
		RequestedBy:     t.RequestedBy,
		ConfirmedBy:     t.ConfirmedBy,
		RejectedBy:      t.RejectedBy,
		RejectReason:    t.RejectReason,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		ConfirmedAt:     t.ConfirmedAt,
	}
}

// FromTransfers convierte un listado de traslados.
func FromTransfers(list []*entity.InventoryTransfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *FromTransfer(t))
	}
	return out
}

// FromMovements convierte el kardex.
func FromMovements(list []*entity.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, StockMovementResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			WarehouseID: m.WarehouseID,
			Type:        m.Type,
			Reason:      m.Reason,
			Quantity:    m.Quantity,
			Balance:     m.Balance,
			ReferenceID: m.ReferenceID,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}
