// Package app arma el grafo de dependencias compartido por la API y el CLI.
package app

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque/internal/application/analytics"
	"github.com/jhoicas/estoque/internal/application/catalog"
	"github.com/jhoicas/estoque/internal/application/inventory"
	"github.com/jhoicas/estoque/internal/application/query"
	"github.com/jhoicas/estoque/internal/application/usecase"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
	"github.com/jhoicas/estoque/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque/internal/infrastructure/remote"
	"github.com/jhoicas/estoque/pkg/config"
	"github.com/jhoicas/estoque/pkg/logger"
)

// Container dependencias listas para usar.
type Container struct {
	Client        backend.Client
	Products      *remote.ProductRepo
	Movements     *remote.MovementRepo
	Categories    *remote.CategoryRepo
	ProductUC     *usecase.ProductUseCase
	Catalog       *catalog.Service
	Reports       *analytics.ReportUseCase
	Dashboard     *analytics.DashboardUseCase
	Replenishment *inventory.ReplenishmentUseCase

	closers []func()
}

// Close libera caché y conexiones en orden inverso.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// NewClient abre el backend configurado. El cierre devuelto es no-op para memory.
func NewClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (backend.Client, func(), error) {
	switch cfg.Backend.Driver {
	case config.DriverMemory:
		return backend.NewMemory(), func() {}, nil
	case config.DriverPostgres:
		gw, closeGW, err := postgres.Open(ctx, cfg.DB, log)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return gw, closeGW, nil
	}
	return nil, nil, fmt.Errorf("driver de backend desconocido %q", cfg.Backend.Driver)
}

// Build abre el backend y construye repositorios, casos de uso y el servicio de catálogo.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	client, closeClient, err := NewClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return Wire(client, cfg, log, closeClient), nil
}

// Wire construye el contenedor sobre un cliente ya abierto.
func Wire(client backend.Client, cfg *config.Config, log *logger.Logger, closers ...func()) *Container {
	products := remote.NewProductRepository(client)
	movements := remote.NewMovementRepository(client)
	categories := remote.NewCategoryRepository(client)
	suppliers := remote.NewSupplierRepository(client)

	productUC := usecase.NewProductUseCase(products)
	dashboardUC := analytics.NewDashboardUseCase(remote.NewDashboardRepository(client), products, movements, categories)
	cache := query.New(query.Options{Logger: log})
	svc := catalog.NewService(cache, catalog.Deps{
		Products:   productUC,
		Movements:  inventory.NewStockMovementUseCase(movements),
		Categories: usecase.NewCategoryUseCase(categories),
		Suppliers:  usecase.NewSupplierUseCase(suppliers),
		Dashboard:  dashboardUC,
	}, cfg.Cache, log)

	return &Container{
		Client:        client,
		Products:      products,
		Movements:     movements,
		Categories:    categories,
		ProductUC:     productUC,
		Catalog:       svc,
		Reports:       analytics.NewReportUseCase(products, movements, categories),
		Dashboard:     dashboardUC,
		Replenishment: inventory.NewReplenishmentUseCase(products, movements),
		closers:       append(closers, cache.Close),
	}
}
