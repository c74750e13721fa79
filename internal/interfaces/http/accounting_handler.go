package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/accounting"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// AccountingHandler libro diario, reportes financieros y plan de cuentas.
type AccountingHandler struct {
	svc *accounting.Service
}

// NewAccountingHandler construye el handler.
func NewAccountingHandler(svc *accounting.Service) *AccountingHandler {
	return &AccountingHandler{svc: svc}
}

func (h *AccountingHandler) entryFilter(c *fiber.Ctx) (repository.EntryFilter, bool, error) {
	from, to, ok, err := dateRange(c)
	if !ok {
		return repository.EntryFilter{}, false, err
	}
	return repository.EntryFilter{
		From:   from,
		To:     to,
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit", 0),
	}, true, nil
}

// ListEntries godoc
// @Summary      Listar asientos
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD"
// @Param        type    query  string  false  "sale | purchase | expense | adjustment | opening | closing | manual"
// @Param        status  query  string  false  "active | void"
// @Param        limit   query  int     false  "máximo 500"
// @Success      200  {object}  dto.ListResponse[dto.EntryResponse]
// @Router       /api/accounting/entries [get]
func (h *AccountingHandler) ListEntries(c *fiber.Ctx) error {
	f, ok, err := h.entryFilter(c)
	if !ok {
		return err
	}
	list, err := h.svc.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.FromEntries(list)))
}

// GetEntry godoc
// @Summary      Detalle de asiento
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del asiento"
// @Success      200  {object}  dto.EntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounting/entries/{id} [get]
func (h *AccountingHandler) GetEntry(c *fiber.Ctx) error {
	e, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromEntry(e))
}

// CreateEntry godoc
// @Summary      Asiento manual
// @Tags         accounting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEntryRequest  true  "líneas débito/crédito"
// @Success      201  {object}  dto.EntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/accounting/entries [post]
func (h *AccountingHandler) CreateEntry(c *fiber.Ctx) error {
	var in dto.CreateEntryRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	e, err := h.svc.AppendManual(c.UserContext(), in, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromEntry(e))
}

// VoidEntry godoc
// @Summary      Anular asiento
// @Tags         accounting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del asiento"
// @Param        body  body  dto.RejectRequest  true  "motivo"
// @Success      200  {object}  dto.EntryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/accounting/entries/{id}/void [put]
func (h *AccountingHandler) VoidEntry(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	e, err := h.svc.Void(c.UserContext(), c.Params("id"), in.Reason, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromEntry(e))
}

// ExportJournal godoc
// @Summary      Exportar libro diario en XML
// @Tags         accounting
// @Security     Bearer
// @Produce      application/xml
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD"
// @Param        status  query  string  false  "active | void"
// @Success      200  {string}  string
// @Router       /api/accounting/entries/export.xml [get]
func (h *AccountingHandler) ExportJournal(c *fiber.Ctx) error {
	f, ok, err := h.entryFilter(c)
	if !ok {
		return err
	}
	out, err := h.svc.ExportJournal(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="libro-diario.xml"`)
	return c.Send(out)
}

// IncomeStatement godoc
// @Summary      Estado de resultados
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.IncomeStatementResponse
// @Router       /api/accounting/income-statement [get]
func (h *AccountingHandler) IncomeStatement(c *fiber.Ctx) error {
	from, to, ok, err := dateRange(c)
	if !ok {
		return err
	}
	out, err := h.svc.IncomeStatement(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BalanceSheet godoc
// @Summary      Balance general
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.BalanceSheetResponse
// @Router       /api/accounting/balance-sheet [get]
func (h *AccountingHandler) BalanceSheet(c *fiber.Ctx) error {
	asOf, err := queryTime(c, "as_of", false)
	if err != nil {
		return badRequest(c, "INVALID_DATE", "as_of: formato YYYY-MM-DD o RFC3339")
	}
	if asOf == nil {
		now := time.Now()
		asOf = &now
	}
	out, err := h.svc.BalanceSheet(c.UserContext(), *asOf)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CashFlow godoc
// @Summary      Flujo de caja
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.CashFlowResponse
// @Router       /api/accounting/cash-flow [get]
func (h *AccountingHandler) CashFlow(c *fiber.Ctx) error {
	from, to, ok, err := dateRange(c)
	if !ok {
		return err
	}
	out, err := h.svc.CashFlow(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChartOfAccounts godoc
// @Summary      Plan de cuentas
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.AccountResponse]
// @Router       /api/accounting/chart-of-accounts [get]
func (h *AccountingHandler) ChartOfAccounts(c *fiber.Ctx) error {
	return c.JSON(dto.NewList(h.svc.ChartOfAccounts()))
}
