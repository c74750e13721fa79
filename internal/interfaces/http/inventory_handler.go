package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// InventoryHandler matriz de existencias, entradas de mercancía y kardex.
type InventoryHandler struct {
	view   *usecase.InventoryUseCase
	ledger *inventory.Ledger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(view *usecase.InventoryUseCase, ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{view: view, ledger: ledger}
}

// View godoc
// @Summary      Inventario por bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryView
// @Router       /api/inventory [get]
func (h *InventoryHandler) View(c *fiber.Ctx) error {
	out, err := h.view.View(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Entrada de mercancía
// @Description  Suma stock, recalcula el costo promedio y contabiliza la compra si hay costo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "producto, bodega, cantidad y costo"
// @Success      201  {object}  dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	mv, err := h.ledger.Receive(c.UserContext(), inventory.ReceiveInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		Notes:       in.Notes,
		By:          GetUserID(c),
		ByName:      GetUserName(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovements([]*entity.StockMovement{mv})[0])
}

// Movements godoc
// @Summary      Kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "producto"
// @Param        warehouse_id  query  string  false  "bodega"
// @Param        limit         query  int     false  "límite"
// @Success      200  {object}  dto.ListResponse[dto.StockMovementResponse]
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	list, err := h.ledger.Movements(c.UserContext(), repository.StockMovementFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		Limit:       c.QueryInt("limit", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.FromMovements(list)))
}

// LowStock godoc
// @Summary      Productos bajo mínimo
// @Description  Sugerencia de reposición ordenada por prioridad.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.LowStockItem]
// @Router       /api/products/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.view.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(out))
}
