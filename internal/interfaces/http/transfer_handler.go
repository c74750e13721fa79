package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/transfer"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// TransferHandler turnos de bodega y traslados entre bodegas.
type TransferHandler struct {
	shifts *transfer.ShiftGate
	coord  *transfer.Coordinator
}

// NewTransferHandler construye el handler.
func NewTransferHandler(shifts *transfer.ShiftGate, coord *transfer.Coordinator) *TransferHandler {
	return &TransferHandler{shifts: shifts, coord: coord}
}

// ListShifts godoc
// @Summary      Listar turnos
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "límite"
// @Success      200  {object}  dto.ListResponse[dto.ShiftResponse]
// @Router       /api/inventory/shifts [get]
func (h *TransferHandler) ListShifts(c *fiber.Ctx) error {
	list, err := h.shifts.List(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.FromShifts(list)))
}

// CurrentShift godoc
// @Summary      Turno abierto
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ShiftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/shifts/current [get]
func (h *TransferHandler) CurrentShift(c *fiber.Ctx) error {
	sh, err := h.shifts.Current(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromShift(sh))
}

// StartShift godoc
// @Summary      Abrir turno de bodega
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenShiftRequest  false  "notas"
// @Success      201  {object}  dto.ShiftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/shifts/start [post]
func (h *TransferHandler) StartShift(c *fiber.Ctx) error {
	var in dto.OpenShiftRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	sh, err := h.shifts.Open(c.UserContext(), actor(c), in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromShift(sh))
}

// CloseShift godoc
// @Summary      Cerrar turno
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/shifts/{id}/close [post]
func (h *TransferHandler) CloseShift(c *fiber.Ctx) error {
	sh, err := h.shifts.Close(c.UserContext(), c.Params("id"), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromShift(sh))
}

// Request godoc
// @Summary      Solicitar traslado
// @Description  Requiere turno abierto; el stock se mueve al confirmar.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "origen, destino y líneas"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *TransferHandler) Request(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	lines := make([]transfer.Line, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, transfer.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	t, err := h.coord.Request(c.UserContext(), transfer.RequestInput{
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Lines:           lines,
		Notes:           in.Notes,
	}, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromTransfer(t))
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "pending | confirmed | rejected"
// @Param        shift_id  query  string  false  "turno"
// @Param        limit     query  int     false  "límite"
// @Success      200  {object}  dto.ListResponse[dto.TransferResponse]
// @Router       /api/inventory/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	list, err := h.coord.List(c.UserContext(), repository.TransferFilter{
		Status:  c.Query("status"),
		ShiftID: c.Query("shift_id"),
		Limit:   c.QueryInt("limit", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.FromTransfers(list)))
}

// GetByID godoc
// @Summary      Detalle de traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.coord.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Confirm godoc
// @Summary      Confirmar traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	t, err := h.coord.Confirm(c.UserContext(), c.Params("id"), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}

// Reject godoc
// @Summary      Rechazar traslado
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID del traslado"
// @Param        body  body  dto.RejectRequest  false  "motivo"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	t, err := h.coord.Reject(c.UserContext(), c.Params("id"), actor(c), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromTransfer(t))
}
