package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/bus"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemRepo         repository.InventoryItemRepository
	MovementRepo     repository.MovementRepository
	QuoteRepo        repository.QuoteRepository
	InterventionRepo repository.InterventionRepository
	PurchaseRepo     repository.PurchaseOrderRepository
	Engine           *inventory.ReservationEngine
	Aggregator       *inventory.StockAggregator
	Bus              *bus.Bus
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventario: catálogo, historial, alertas y mantenimiento (protegido)
	items := protected.Group("/items")
	inventoryHandler := NewInventoryHandler(deps.ItemRepo, deps.MovementRepo, deps.Engine, deps.Aggregator)
	items.Post("/", inventoryHandler.CreateItem)
	items.Get("/", inventoryHandler.ListItems)
	items.Get("/alerts", inventoryHandler.ListAlerts)
	items.Get("/:id", inventoryHandler.GetItem)
	items.Get("/:id/movements", inventoryHandler.ListItemMovements)
	items.Post("/:id/recompute", RequireRole("admin", "oficina"), inventoryHandler.Recompute)

	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", inventoryHandler.RegisterManual)
	invGroup.Post("/recompute-all", RequireRole("admin"), inventoryHandler.RecomputeAll)

	// Cotizaciones (protegido)
	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteRepo, deps.Bus)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Patch("/:id/status", quoteHandler.ChangeStatus)

	// Intervenciones (protegido)
	interventions := protected.Group("/interventions")
	interventionHandler := NewInterventionHandler(deps.InterventionRepo, deps.Bus)
	interventions.Post("/", interventionHandler.Create)
	interventions.Get("/", interventionHandler.List)
	interventions.Get("/:id", interventionHandler.GetByID)
	interventions.Patch("/:id/status", interventionHandler.ChangeStatus)
	interventions.Patch("/:id/reschedule", interventionHandler.Reschedule)

	// Órdenes de compra (protegido)
	purchases := protected.Group("/purchase-orders")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseRepo, deps.Bus)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Patch("/:id/status", purchaseHandler.ChangeStatus)
	purchases.Patch("/:id/receive", purchaseHandler.Receive)
}
