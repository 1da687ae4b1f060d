package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque/internal/application/analytics"
	"github.com/jhoicas/estoque/internal/application/catalog"
	"github.com/jhoicas/estoque/internal/application/inventory"
	"github.com/jhoicas/estoque/pkg/jwt"
	"github.com/jhoicas/estoque/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog       *catalog.Service
	Reports       *analytics.ReportUseCase
	Replenishment *inventory.ReplenishmentUseCase
	PDF           ReportPDF
	JWTSecret     string
	Logger        *logger.Logger
}

// Router registra las rutas de la API. Todo bajo /api exige Bearer Token; la escritura de
// categorías y proveedores exige rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	log := logger.OrNop(deps.Logger).Named("http")
	protected := app.Group("/api", WithLogger(log), AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Catalog)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stock movements
	movements := protected.Group("/stock-movements")
	inventoryHandler := NewInventoryHandler(deps.Catalog, deps.Replenishment)
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Post("/", inventoryHandler.RegisterMovement)
	movements.Get("/replenishment", inventoryHandler.GetReplenishmentList)

	// Settings: categorías y proveedores
	settingsHandler := NewSettingsHandler(deps.Catalog)
	categories := protected.Group("/categories")
	categories.Get("/", settingsHandler.ListCategories)
	categories.Post("/", adminOnly, settingsHandler.CreateCategory)
	categories.Put("/:id", adminOnly, settingsHandler.UpdateCategory)
	categories.Delete("/:id", adminOnly, settingsHandler.DeleteCategory)

	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", settingsHandler.ListSuppliers)
	suppliers.Post("/", adminOnly, settingsHandler.CreateSupplier)
	suppliers.Put("/:id", adminOnly, settingsHandler.UpdateSupplier)
	suppliers.Delete("/:id", adminOnly, settingsHandler.DeleteSupplier)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.Catalog)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports, deps.PDF)
	reports.Get("/", reportHandler.Get)
	reports.Get("/report.pdf", reportHandler.ReportPDF)
	reports.Get("/products.pdf", reportHandler.ProductsPDF)
}
