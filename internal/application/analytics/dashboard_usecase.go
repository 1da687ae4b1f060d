// Package analytics contiene los casos de uso del dashboard y de la página de reportes.
// Cargan los datos por los repositorios y delegan los cálculos en internal/domain/inventory.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/inventory"
	"github.com/jhoicas/estoque/internal/domain/repository"
)

// Widget de stock bajo del dashboard.
const (
	LowStockThreshold = 10
	LowStockLimit     = 5
)

// DashboardUseCase arma KPIs, valoración, stock bajo y resumen de movimientos por categoría.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
	productRepo   repository.ProductRepository
	movementRepo  repository.StockMovementRepository
	categoryRepo  repository.CategoryRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	dashboardRepo repository.DashboardRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	categoryRepo repository.CategoryRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		dashboardRepo: dashboardRepo,
		productRepo:   productRepo,
		movementRepo:  movementRepo,
		categoryRepo:  categoryRepo,
	}
}

// GetSummary lanza las cinco lecturas en paralelo y espera todas antes de calcular.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	type kpisResult struct {
		kpis *entity.DashboardKPIs
		err  error
	}
	type productsResult struct {
		products []*entity.Product
		err      error
	}
	type movementsResult struct {
		movements []*entity.StockMovement
		err       error
	}
	type categoriesResult struct {
		categories []*entity.Category
		err        error
	}

	kpisCh := make(chan kpisResult, 1)
	allCh := make(chan productsResult, 1)
	lowCh := make(chan productsResult, 1)
	movCh := make(chan movementsResult, 1)
	catCh := make(chan categoriesResult, 1)

	go func() {
		k, err := uc.dashboardRepo.KPIs(ctx)
		kpisCh <- kpisResult{k, err}
	}()
	go func() {
		p, err := uc.productRepo.ListAll(ctx)
		allCh <- productsResult{p, err}
	}()
	go func() {
		p, err := uc.productRepo.ListLowStock(ctx, LowStockThreshold, LowStockLimit)
		lowCh <- productsResult{p, err}
	}()
	go func() {
		m, err := uc.movementRepo.ListRecent(ctx, 0)
		movCh <- movementsResult{m, err}
	}()
	go func() {
		c, err := uc.categoryRepo.List(ctx)
		catCh <- categoriesResult{c, err}
	}()

	kpis := <-kpisCh
	all := <-allCh
	low := <-lowCh
	movs := <-movCh
	cats := <-catCh

	if kpis.err != nil {
		return nil, fmt.Errorf("dashboard: kpis: %w", kpis.err)
	}
	if all.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", all.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if movs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos: %w", movs.err)
	}
	if cats.err != nil {
		return nil, fmt.Errorf("dashboard: categorías: %w", cats.err)
	}

	lowItems := make([]dto.LowStockItemDTO, 0, len(low.products))
	for _, p := range low.products {
		lowItems = append(lowItems, dto.LowStockItemDTO{ID: p.ID, Name: p.Name, SKU: p.SKU, CurrentStock: p.CurrentStock})
	}

	summary := inventory.SummarizeMovementsByCategory(movs.movements, all.products, cats.categories)
	byCategory := make([]dto.CategoryMovementSummaryDTO, 0, len(summary))
	for _, s := range summary {
		byCategory = append(byCategory, dto.CategoryMovementSummaryDTO{
			CategoryID:   s.CategoryID,
			CategoryName: s.CategoryName,
			Entries:      s.Entries,
			Exits:        s.Exits,
			Net:          s.Net,
		})
	}

	return &dto.DashboardDTO{
		KPIs:                ToKPIsDTO(kpis.kpis),
		Valuation:           toValuationDTO(inventory.ComputeInventoryValuation(all.products)),
		LowStock:            lowItems,
		MovementsByCategory: byCategory,
	}, nil
}

// KPIs solo el registro del procedimiento.
func (uc *DashboardUseCase) KPIs(ctx context.Context) (dto.KPIsDTO, error) {
	k, err := uc.dashboardRepo.KPIs(ctx)
	if err != nil {
		return dto.KPIsDTO{}, err
	}
	return ToKPIsDTO(k), nil
}

// ToKPIsDTO convierte el registro de KPIs.
func ToKPIsDTO(k *entity.DashboardKPIs) dto.KPIsDTO {
	if k == nil {
		return dto.KPIsDTO{}
	}
	return dto.KPIsDTO{
		TotalProducts:   k.TotalProducts,
		LowStockCount:   k.LowStockCount,
		TotalStockValue: k.TotalStockValue,
		MovementsToday:  k.MovementsToday,
		Extra:           k.Extra,
	}
}

func toValuationDTO(v inventory.Valuation) dto.ValuationDTO {
	return dto.ValuationDTO{
		TotalCost:             v.TotalCost,
		TotalPotentialRevenue: v.TotalPotentialRevenue,
		AverageMarginPercent:  v.AverageMarginPercent,
	}
}
