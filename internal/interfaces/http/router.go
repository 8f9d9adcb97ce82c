package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/report"
	"github.com/jhoicas/Inventario-ledger/internal/application/ticket"
	"github.com/jhoicas/Inventario-ledger/internal/application/workflow"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TicketUC   *ticket.UseCase
	WorkflowUC *workflow.UseCase
	CatalogUC  *catalog.UseCase
	StockUC    *inventory.StockUseCase
	ReportUC   *report.UseCase
	JWTSecret  string
	Logger     *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", LoggerMiddleware(deps.Logger))
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Tickets
	tickets := protected.Group("/tickets")
	ticketHandler := NewTicketHandler(deps.TicketUC)
	tickets.Post("/", ticketHandler.Create)
	tickets.Get("/", ticketHandler.List)
	tickets.Get("/pending", ticketHandler.Pending)
	tickets.Get("/:id", ticketHandler.GetByID)
	tickets.Post("/:id/submit", ticketHandler.Submit)
	tickets.Post("/:id/approve", ticketHandler.Approve)
	tickets.Post("/:id/reject", ticketHandler.Reject)
	tickets.Post("/:id/cancel", ticketHandler.Cancel)

	// Workflows (WORKFLOW_MANAGE)
	workflows := protected.Group("/workflows")
	workflowHandler := NewWorkflowHandler(deps.WorkflowUC)
	workflows.Post("/", workflowHandler.Create)
	workflows.Get("/", workflowHandler.List)
	workflows.Get("/:id", workflowHandler.GetByID)
	workflows.Put("/:id", workflowHandler.Update)
	workflows.Delete("/:id", workflowHandler.Delete)

	// Catálogo y ubicaciones
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	items := protected.Group("/items")
	items.Post("/", catalogHandler.CreateItem)
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id", catalogHandler.GetItem)
	items.Post("/:id/conversions", catalogHandler.AddConversion)

	factories := protected.Group("/factories")
	factories.Post("/", catalogHandler.CreateFactory)
	factories.Get("/", catalogHandler.ListFactories)

	warehouses := protected.Group("/warehouses")
	warehouses.Post("/", catalogHandler.CreateWarehouse)
	warehouses.Get("/", catalogHandler.ListWarehouses)
	warehouses.Post("/:id/locations", catalogHandler.CreateLocation)
	warehouses.Get("/:id/locations", catalogHandler.ListLocations)
	protected.Delete("/locations/:id", catalogHandler.DeleteLocation)

	// Stock vivo
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", stockHandler.List)
	stock.Get("/check", stockHandler.Check)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/stock-history", reportHandler.StockHistory)
	reports.Get("/monthly-stock", reportHandler.MonthlyStock)
}
