package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/accounting"
	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/cashsession"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/order"
	"github.com/jhoicas/pos-backoffice/internal/application/transfer"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Orders      *order.Service
	Cash        *cashsession.Service
	Accounting  *accounting.Service
	Ledger      *inventory.Ledger
	Shifts      *transfer.ShiftGate
	Transfers   *transfer.Coordinator
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	InventoryUC *usecase.InventoryUseCase
	JWTSecret   string
}

const (
	admin      = entity.RoleAdmin
	cashier    = entity.RoleCashier
	accountant = entity.RoleAccountant
	bodega     = entity.RoleBodega
	cocina     = entity.RoleCocina
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMw := AuthMiddleware(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/me", authMw, authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", authMw)

	// Orders
	orderHandler := NewOrderHandler(deps.Orders)
	orders := protected.Group("/orders")
	orders.Get("/", orderHandler.List)
	orders.Post("/", RequireRole(admin, cashier), orderHandler.Create)
	orders.Get("/validate/:orderNumber", orderHandler.Validate)
	orders.Put("/:orderNumber/deliver", RequireRole(admin, cashier, cocina), orderHandler.Deliver)
	orders.Put("/:id/cancel", RequireRole(admin), orderHandler.Cancel)
	orders.Get("/:id", orderHandler.GetByID)

	// Cash register
	cashHandler := NewCashHandler(deps.Cash)
	cash := protected.Group("/cash-register")
	cash.Get("/current", RequireRole(admin, cashier), cashHandler.Current)
	cash.Get("/history", RequireRole(admin), cashHandler.History)
	cash.Post("/open", RequireRole(admin, cashier), cashHandler.Open)
	cash.Post("/close", RequireRole(admin, cashier), cashHandler.Close)
	cash.Get("/:id/report.pdf", RequireRole(admin, cashier), cashHandler.Report)
	cash.Get("/:id", RequireRole(admin), cashHandler.GetByID)

	// Accounting
	accHandler := NewAccountingHandler(deps.Accounting)
	acc := protected.Group("/accounting", RequireRole(admin, accountant))
	acc.Get("/entries", accHandler.ListEntries)
	acc.Post("/entries", accHandler.CreateEntry)
	acc.Get("/entries/export.xml", accHandler.ExportJournal)
	acc.Get("/entries/:id", accHandler.GetEntry)
	acc.Put("/entries/:id/void", accHandler.VoidEntry)
	acc.Get("/income-statement", accHandler.IncomeStatement)
	acc.Get("/balance-sheet", accHandler.BalanceSheet)
	acc.Get("/cash-flow", accHandler.CashFlow)
	acc.Get("/sales-ledger", orderHandler.SalesLedger)
	acc.Get("/chart-of-accounts", accHandler.ChartOfAccounts)

	// Inventory
	invHandler := NewInventoryHandler(deps.InventoryUC, deps.Ledger)
	inv := protected.Group("/inventory")
	inv.Get("/", RequireRole(admin, bodega, cocina), invHandler.View)
	inv.Post("/receive", RequireRole(admin, bodega), invHandler.Receive)
	inv.Get("/movements", RequireRole(admin, bodega, cocina, accountant), invHandler.Movements)

	whHandler := NewWarehouseHandler(deps.WarehouseUC)
	inv.Get("/warehouses", RequireRole(admin, bodega, cocina), whHandler.List)
	inv.Post("/warehouses", RequireRole(admin), whHandler.Create)
	inv.Get("/warehouses/:id", RequireRole(admin, bodega, cocina), whHandler.GetByID)
	inv.Put("/warehouses/:id", RequireRole(admin), whHandler.Update)
	inv.Delete("/warehouses/:id", RequireRole(admin), whHandler.Delete)

	trHandler := NewTransferHandler(deps.Shifts, deps.Transfers)
	inv.Get("/shifts", RequireRole(admin, bodega, cocina), trHandler.ListShifts)
	inv.Get("/shifts/current", RequireRole(admin, bodega, cocina), trHandler.CurrentShift)
	inv.Post("/shifts/start", RequireRole(admin, bodega), trHandler.StartShift)
	inv.Post("/shifts/:id/close", RequireRole(admin, bodega), trHandler.CloseShift)
	inv.Get("/transfers", RequireRole(admin, bodega, cocina), trHandler.List)
	inv.Post("/transfers", RequireRole(admin, bodega), trHandler.Request)
	inv.Get("/transfers/:id", RequireRole(admin, bodega, cocina), trHandler.GetByID)
	inv.Post("/transfers/:id/confirm", RequireRole(admin, cocina), trHandler.Confirm)
	inv.Post("/transfers/:id/reject", RequireRole(admin, cocina), trHandler.Reject)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/low-stock", RequireRole(admin), invHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(admin), productHandler.Create)
	products.Put("/:id", RequireRole(admin), productHandler.Update)
	products.Delete("/:id", RequireRole(admin), productHandler.Delete)
}
