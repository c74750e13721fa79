package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/order"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// IdempotencyHeader permite reintentar un POST /orders sin duplicar la venta.
const IdempotencyHeader = "Idempotency-Key"

// OrderHandler ventas: registro, entrega, anulación y consultas.
type OrderHandler struct {
	svc *order.Service
}

// NewOrderHandler construye el handler.
func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de la bodega de venta, contabiliza y actualiza la caja abierta del cajero.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "clave de reintento"
// @Param        body             body    dto.CreateOrderRequest  true   "líneas y pago"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	lines := make([]order.LineInput, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, order.LineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	o, err := h.svc.Create(c.UserContext(), order.CreateInput{
		Cashier:        actor(c),
		Lines:          lines,
		PaymentMethod:  in.PaymentMethod,
		Discount:       in.Discount,
		Notes:          in.Notes,
		IdempotencyKey: c.Get(IdempotencyHeader),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromOrder(o))
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "paid | delivered | cancelled"
// @Param        cash_session_id  query  string  false  "caja"
// @Param        from             query  string  false  "YYYY-MM-DD"
// @Param        to               query  string  false  "YYYY-MM-DD"
// @Param        limit            query  int     false  "máximo 500"
// @Success      200  {object}  dto.ListResponse[dto.OrderResponse]
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	from, to, ok, err := dateRange(c)
	if !ok {
		return err
	}
	f := repository.OrderFilter{
		Status:        c.Query("status"),
		CashSessionID: c.Query("cash_session_id"),
		From:          from,
		To:            to,
		Limit:         c.QueryInt("limit", order.MaxList),
	}
	// Un cajero solo ve sus propias ventas.
	if GetRole(c) == entity.RoleCashier {
		f.CashierID = GetUserID(c)
	}
	list, err := h.svc.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.FromOrders(list)))
}

// GetByID godoc
// @Summary      Detalle de orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// Validate godoc
// @Summary      Validar orden por número
// @Description  Estado para cocina: valid | delivered | cancelled | not_found.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        orderNumber  path  string  true  "número de orden"
// @Success      200  {object}  dto.ValidateOrderResponse
// @Router       /api/orders/validate/{orderNumber} [get]
func (h *OrderHandler) Validate(c *fiber.Ctx) error {
	status, o, err := h.svc.ValidateByNumber(c.UserContext(), c.Params("orderNumber"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ValidateOrderResponse{Status: status, Order: dto.FromOrder(o)})
}

// Deliver godoc
// @Summary      Marcar orden entregada
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        orderNumber  path  string  true  "número de orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{orderNumber}/deliver [put]
func (h *OrderHandler) Deliver(c *fiber.Ctx) error {
	o, err := h.svc.Deliver(c.UserContext(), c.Params("orderNumber"), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// Cancel godoc
// @Summary      Anular orden
// @Description  Devuelve el stock y registra el asiento inverso.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.CancelOrderRequest  true  "motivo"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	o, err := h.svc.Cancel(c.UserContext(), c.Params("id"), actor(c), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// SalesLedger godoc
// @Summary      Libro de ventas
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.SalesLedgerResponse
// @Router       /api/accounting/sales-ledger [get]
func (h *OrderHandler) SalesLedger(c *fiber.Ctx) error {
	from, to, ok, err := dateRange(c)
	if !ok {
		return err
	}
	out, err := h.svc.SalesLedger(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
