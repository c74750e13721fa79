package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/cashsession"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// CashHandler apertura, cierre y consulta de cajas.
type CashHandler struct {
	svc *cashsession.Service
}

// NewCashHandler construye el handler.
func NewCashHandler(svc *cashsession.Service) *CashHandler {
	return &CashHandler{svc: svc}
}

// Open godoc
// @Summary      Abrir caja
// @Tags         cash-register
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashRequest  true  "base inicial"
// @Success      201  {object}  dto.CashSessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cash-register/open [post]
func (h *CashHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCashRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	s, err := h.svc.Open(c.UserContext(), actor(c), in.InitialAmount, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromCashSession(s))
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Recalcula totales y contabiliza faltante o sobrante.
// @Tags         cash-register
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseCashRequest  true  "efectivo contado"
// @Success      200  {object}  dto.CashSessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cash-register/close [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	s, err := h.svc.Close(c.UserContext(), in.CashierID, in.ActualAmount, in.Notes, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCashSession(s))
}

// Current godoc
// @Summary      Caja abierta del usuario
// @Tags         cash-register
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashSessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cash-register/current [get]
func (h *CashHandler) Current(c *fiber.Ctx) error {
	s, err := h.svc.Current(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCashSession(s))
}

// History godoc
// @Summary      Historial de cajas
// @Tags         cash-register
// @Security     Bearer
// @Produce      json
// @Param        cashier_id  query  string  false  "cajero"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD"
// @Param        limit       query  int     false  "máximo 50"
// @Success      200  {object}  dto.ListResponse[dto.CashSessionResponse]
// @Router       /api/cash-register/history [get]
func (h *CashHandler) History(c *fiber.Ctx) error {
	from, to, ok, err := dateRange(c)
	if !ok {
		return err
	}
	list, err := h.svc.History(c.UserContext(), repository.SessionFilter{
		CashierID: c.Query("cashier_id"),
		From:      from,
		To:        to,
		Limit:     c.QueryInt("limit", cashsession.MaxHistory),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.FromCashSessions(list)))
}

// GetByID godoc
// @Summary      Detalle de caja
// @Tags         cash-register
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.CashSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-register/{id} [get]
func (h *CashHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCashSession(s))
}

// Report godoc
// @Summary      Reporte PDF de cierre
// @Tags         cash-register
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-register/{id}/report.pdf [get]
func (h *CashHandler) Report(c *fiber.Ctx) error {
	id := c.Params("id")
	if GetRole(c) != entity.RoleAdmin {
		// Un cajero solo descarga el reporte de sus propias cajas.
		s, err := h.svc.Get(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		if s.CashierID != GetUserID(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la caja pertenece a otro cajero"})
		}
	}
	pdf, err := h.svc.Report(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="caja-`+id+`.pdf"`)
	return c.Send(pdf)
}
