// Package catalog une el caché de consultas con los casos de uso: lecturas cacheadas por
// recurso y escrituras optimistas que actualizan el caché antes de que el backend confirme.
package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jhoicas/estoque/internal/application/analytics"
	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/application/inventory"
	"github.com/jhoicas/estoque/internal/application/query"
	"github.com/jhoicas/estoque/internal/application/usecase"
	"github.com/jhoicas/estoque/pkg/config"
	"github.com/jhoicas/estoque/pkg/logger"
)

// Recursos del caché.
const (
	ResourceProducts   = "products"
	ResourceMovements  = "stockMovements"
	ResourceCategories = "categories"
	ResourceSuppliers  = "suppliers"
	ResourceDashboard  = "dashboard"
)

// Deps casos de uso que respaldan al servicio.
type Deps struct {
	Products   *usecase.ProductUseCase
	Movements  *inventory.StockMovementUseCase
	Categories *usecase.CategoryUseCase
	Suppliers  *usecase.SupplierUseCase
	Dashboard  *analytics.DashboardUseCase
}

// Service lecturas y escrituras del catálogo a través del caché.
// Los valores devueltos por las lecturas son compartidos con el caché y no deben modificarse.
type Service struct {
	cache *query.Cache
	deps  Deps
	stale config.CacheConfig
	log   *logger.Logger
}

// NewService construye el servicio.
func NewService(cache *query.Cache, deps Deps, stale config.CacheConfig, log *logger.Logger) *Service {
	return &Service{
		cache: cache,
		deps:  deps,
		stale: stale,
		log:   logger.OrNop(log).Named("catalog"),
	}
}

// Cache expone el caché subyacente (suscripciones, inspección en tests).
func (s *Service) Cache() *query.Cache { return s.cache }

// ProductsKey clave de una página de productos ya normalizada.
func ProductsKey(in dto.ListProductsRequest) query.Key {
	return query.NewKey(ResourceProducts, in.Page, url.Values{
		"page_size": {strconv.Itoa(in.PageSize)},
		"search":    {in.Search},
	})
}

// MovementsKey clave de una página del ledger ya normalizada.
func MovementsKey(in dto.ListMovementsRequest) query.Key {
	return query.NewKey(ResourceMovements, in.Page, url.Values{
		"page_size":  {strconv.Itoa(in.PageSize)},
		"product_id": {in.ProductID},
	})
}

// Products página de productos.
func (s *Service) Products(ctx context.Context, in dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	in.Normalize(dto.DefaultProductPageSize)
	return query.Fetch(ctx, s.cache, ProductsKey(in), func(ctx context.Context) (*dto.ProductListResponse, error) {
		return s.deps.Products.List(ctx, in)
	}, query.FetchOptions{StaleTime: s.stale.ProductsStaleTime})
}

// Product lectura directa, sin caché.
func (s *Service) Product(ctx context.Context, id string) (*dto.ProductResponse, error) {
	return s.deps.Products.GetByID(ctx, id)
}

// Movements página del ledger.
func (s *Service) Movements(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	in.Normalize(dto.DefaultMovementPageSize)
	return query.Fetch(ctx, s.cache, MovementsKey(in), func(ctx context.Context) (*dto.MovementListResponse, error) {
		return s.deps.Movements.List(ctx, in)
	}, query.FetchOptions{StaleTime: s.stale.MovementsStaleTime})
}

// Categories lista completa de categorías.
func (s *Service) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	return query.Fetch(ctx, s.cache, query.NewKey(ResourceCategories, 0, nil), s.deps.Categories.List,
		query.FetchOptions{StaleTime: s.stale.CategoriesStaleTime})
}

// Suppliers lista completa de proveedores; comparte frescura con categorías.
func (s *Service) Suppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	return query.Fetch(ctx, s.cache, query.NewKey(ResourceSuppliers, 0, nil), s.deps.Suppliers.List,
		query.FetchOptions{StaleTime: s.stale.CategoriesStaleTime})
}

// Dashboard resumen del dashboard. Con DashboardStaleTime 0 siempre consulta salvo durante una mutación.
func (s *Service) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	return query.Fetch(ctx, s.cache, query.NewKey(ResourceDashboard, 0, nil), s.deps.Dashboard.GetSummary,
		query.FetchOptions{StaleTime: s.stale.DashboardStaleTime})
}
