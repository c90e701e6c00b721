package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adpopescu/panex-api/internal/application/billing"
	"github.com/adpopescu/panex-api/internal/application/export"
	"github.com/adpopescu/panex-api/internal/application/groups"
	"github.com/adpopescu/panex-api/internal/application/orders"
)

// RouterDeps are the router's dependencies.
type RouterDeps struct {
	OrderUC   *orders.UseCase
	ExportUC  *export.UseCase
	BillingUC *billing.UseCase
	GroupUC   *groups.UseCase
	JWTSecret string
}

// Router registers the API routes. Everything is behind the Bearer token;
// day reopening and billing settings additionally require the admin role.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Orders
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Post("/", orderHandler.Save)
	ordersGroup.Get("/", orderHandler.ListByDate)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Delete("/:id", orderHandler.Delete)

	// Local invoices, attached to their order
	invoiceHandler := NewInvoiceHandler(deps.BillingUC)
	ordersGroup.Post("/:id/invoice", invoiceHandler.Generate)
	ordersGroup.Get("/:id/invoice", invoiceHandler.GetByOrder)
	ordersGroup.Get("/:id/invoice/pdf", invoiceHandler.DownloadPDF)

	// Exports and counters
	exportsGroup := api.Group("/exports")
	exportHandler := NewExportHandler(deps.ExportUC)
	exportsGroup.Post("/:date/invoices", exportHandler.ExportInvoices)
	exportsGroup.Post("/:date/receipts", exportHandler.ExportReceipts)
	exportsGroup.Post("/:date/production", exportHandler.ExportProduction)
	exportsGroup.Get("/:date/counters", exportHandler.GetCounters)

	// Day status
	daysGroup := api.Group("/days")
	daysGroup.Get("/:date", exportHandler.GetDay)
	daysGroup.Post("/:date/reopen", RequireRole("admin"), exportHandler.ReopenDay)

	// Product groups
	groupsGroup := api.Group("/groups")
	groupHandler := NewGroupHandler(deps.GroupUC)
	groupsGroup.Post("/", groupHandler.Save)
	groupsGroup.Get("/", groupHandler.List)

	// Billing settings
	billingGroup := api.Group("/billing")
	billingGroup.Get("/settings", invoiceHandler.GetSettings)
	billingGroup.Put("/settings", RequireRole("admin"), invoiceHandler.UpdateSettings)
}
