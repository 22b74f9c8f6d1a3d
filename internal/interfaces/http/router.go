package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/equipment"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/movements"
	"github.com/jhoicas/almacen-api/internal/application/purchasing"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	MovementUC   *movements.UseCase
	EquipmentUC  *equipment.UseCase
	PurchasingUC *purchasing.UseCase
	StockAlertUC *inventory.StockAlertUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todas requieren Bearer Token y el permiso de la ruta.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Catálogo (las rutas fijas antes de /:code)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/categories", RequirePermission(InventoryRead), productHandler.Categories)
	products.Get("/locations", RequirePermission(InventoryRead), productHandler.Locations)
	products.Post("/", RequirePermission(InventoryCreate), productHandler.Create)
	products.Get("/", RequirePermission(InventoryRead), productHandler.List)
	products.Get("/:code", RequirePermission(InventoryRead), productHandler.GetByCode)
	products.Put("/:code", RequirePermission(InventoryUpdate), productHandler.Update)
	products.Delete("/:code", RequirePermission(InventoryDelete), productHandler.Archive)

	// Entradas y salidas
	entryHandler := NewEntryHandler(deps.MovementUC)
	exitHandler := NewExitHandler(deps.MovementUC)
	registerMovementRoutes(api.Group("/entries"), entryHandler)
	registerMovementRoutes(api.Group("/exits"), exitHandler)
	api.Get("/movements/search", RequirePermission(MovementsRead), entryHandler.Search)

	// Equipos
	equipmentGroup := api.Group("/equipment")
	equipmentHandler := NewEquipmentHandler(deps.EquipmentUC)
	equipmentGroup.Post("/", RequirePermission(EquipmentCreate), equipmentHandler.Checkout)
	equipmentGroup.Get("/", RequirePermission(EquipmentRead), equipmentHandler.List)
	equipmentGroup.Get("/code/:code", RequirePermission(EquipmentRead), equipmentHandler.LatestByCode)
	equipmentGroup.Get("/:id", RequirePermission(EquipmentRead), equipmentHandler.Get)
	equipmentGroup.Put("/:id", RequirePermission(EquipmentUpdate), equipmentHandler.Update)
	equipmentGroup.Post("/:id/return", RequirePermission(EquipmentUpdate), equipmentHandler.Return)
	equipmentGroup.Delete("/:id", RequirePermission(EquipmentDelete), equipmentHandler.Delete)

	// Órdenes de compra: sus líneas descuentan stock como salidas
	orders := api.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.PurchasingUC)
	orders.Post("/", RequirePermission(MovementsCreate), orderHandler.Create)
	orders.Get("/", RequirePermission(MovementsRead), orderHandler.List)
	orders.Get("/:id", RequirePermission(MovementsRead), orderHandler.Get)
	orders.Put("/:id", RequirePermission(MovementsUpdate), orderHandler.Update)
	orders.Delete("/:id", RequirePermission(MovementsDelete), orderHandler.Delete)
	orders.Post("/:id/lines", RequirePermission(MovementsCreate), orderHandler.AddLine)
	orders.Put("/:id/lines/:lineId", RequirePermission(MovementsUpdate), orderHandler.UpdateLine)
	orders.Delete("/:id/lines/:lineId", RequirePermission(MovementsDelete), orderHandler.RemoveLine)

	// Reportes
	reports := api.Group("/reports", RequirePermission(ReportsRead))
	alertHandler := NewStockAlertHandler(deps.StockAlertUC)
	reports.Get("/stock-alerts", alertHandler.List)
	reports.Get("/stock-alerts/statistics", alertHandler.Statistics)
	reports.Get("/stock-alerts/pdf", alertHandler.PDF)
}

func registerMovementRoutes(g fiber.Router, h *MovementHandler) {
	g.Post("/", RequirePermission(MovementsCreate), h.Create)
	g.Get("/", RequirePermission(MovementsRead), h.List)
	g.Get("/:id", RequirePermission(MovementsRead), h.Get)
	g.Put("/:id", RequirePermission(MovementsUpdate), h.Update)
	g.Patch("/:id/quantity", RequirePermission(MovementsUpdate), h.UpdateQuantity)
	g.Delete("/:id", RequirePermission(MovementsDelete), h.Delete)
}
