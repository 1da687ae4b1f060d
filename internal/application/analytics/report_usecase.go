package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/inventory"
	"github.com/jhoicas/estoque/internal/domain/repository"
)

// ReportUseCase indicadores de la página de reportes sobre un rango de fechas opcional.
type ReportUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	categoryRepo repository.CategoryRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	categoryRepo repository.CategoryRepository,
) *ReportUseCase {
	return &ReportUseCase{productRepo: productRepo, movementRepo: movementRepo, categoryRepo: categoryRepo}
}

// ReportData datos crudos de un reporte, para exportadores (PDF) que no usan el DTO.
type ReportData struct {
	Products   []*entity.Product
	Movements  []*entity.StockMovement
	Categories []*entity.Category
}

// Load lee productos, movimientos y categorías en paralelo. El primer error cancela el resto.
func (uc *ReportUseCase) Load(ctx context.Context) (*ReportData, error) {
	var data ReportData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := uc.productRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("reporte: productos: %w", err)
		}
		data.Products = p
		return nil
	})
	g.Go(func() error {
		m, err := uc.movementRepo.ListRecent(gctx, 0)
		if err != nil {
			return fmt.Errorf("reporte: movimientos: %w", err)
		}
		data.Movements = m
		return nil
	})
	g.Go(func() error {
		c, err := uc.categoryRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("reporte: categorías: %w", err)
		}
		data.Categories = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Generate filtra los movimientos por [From, To] y calcula todos los indicadores.
// La valoración y la composición del stock usan el stock actual, no el rango.
func (uc *ReportUseCase) Generate(ctx context.Context, in dto.ReportRequest) (*dto.ReportDTO, error) {
	data, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReport(data, in), nil
}

// BuildReport calcula el reporte sobre datos ya cargados.
func BuildReport(data *ReportData, in dto.ReportRequest) *dto.ReportDTO {
	var r *inventory.DateRange
	if in.From != nil && in.To != nil {
		r = &inventory.DateRange{From: *in.From, To: *in.To}
	}
	movements := inventory.FilterMovementsByDate(data.Movements, r)

	scp := inventory.ComputeSalesCostProfit(movements, data.Products)

	sales := inventory.ComputeSalesByCategory(movements, data.Products, data.Categories)
	salesDTO := make([]dto.CategoryValueDTO, 0, len(sales))
	for _, s := range sales {
		salesDTO = append(salesDTO, dto.CategoryValueDTO{CategoryID: s.CategoryID, Name: s.Name, Value: s.Total})
	}

	composition := inventory.ComputeStockValueComposition(data.Products, data.Categories)
	compDTO := make([]dto.CategoryValueDTO, 0, len(composition))
	for _, c := range composition {
		compDTO = append(compDTO, dto.CategoryValueDTO{CategoryID: c.CategoryID, Name: c.Name, Value: c.Value})
	}

	top := inventory.ComputeTopMovedProducts(movements, data.Products, in.Limit)
	topDTO := make([]dto.TopMovedDTO, 0, len(top))
	for _, t := range top {
		topDTO = append(topDTO, dto.TopMovedDTO{
			ProductID: t.ProductID,
			Name:      t.Name,
			Entries:   t.Entries,
			Exits:     t.Exits,
			Total:     t.Total,
		})
	}

	return &dto.ReportDTO{
		From:                  in.From,
		To:                    in.To,
		MovementCount:         len(movements),
		TotalSales:            scp.TotalSales,
		TotalCost:             scp.TotalCost,
		GrossProfit:           scp.GrossProfit,
		SalesByCategory:       salesDTO,
		StockValueComposition: compDTO,
		TopMovedProducts:      topDTO,
		Valuation:             toValuationDTO(inventory.ComputeInventoryValuation(data.Products)),
	}
}
