package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/inventory"
	"github.com/jhoicas/estoque/internal/domain/repository"
)

// Ventana y tamaño del historial de salidas usado para priorizar.
const (
	replenishmentWindow  = 90 * 24 * time.Hour
	replenishmentHistory = 500
)

// ReplenishmentUseCase genera la lista de reposición: productos en o bajo su stock mínimo,
// con pedido sugerido hasta el stock máximo.
type ReplenishmentUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	now          func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		now:          time.Now,
	}
}

// GenerateReplenishmentList ordena por margen bruto, luego por unidades salidas en los últimos
// 90 días y finalmente por déficit respecto al mínimo. Priority 1 = más urgente.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	products, err := uc.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	below := make([]*entity.Product, 0)
	for _, p := range products {
		if p.CurrentStock <= p.MinStock {
			below = append(below, p)
		}
	}
	if len(below) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	recent, err := uc.movementRepo.ListRecent(ctx, replenishmentHistory)
	if err != nil {
		return nil, err
	}
	end := uc.now()
	recent = inventory.FilterMovementsByDate(recent, &inventory.DateRange{From: end.Add(-replenishmentWindow), To: end})
	outByID := make(map[string]int)
	for _, m := range recent {
		if m.Type == entity.MovementTypeOut {
			outByID[m.ProductID] += m.Quantity
		}
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(below))
	for _, p := range below {
		qty := p.MaxStock - p.CurrentStock
		if qty < 0 {
			qty = 0
		}
		margin := decimal.Zero
		if p.Price.GreaterThan(decimal.Zero) {
			margin = p.Price.Sub(p.Cost).Div(p.Price).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       p.CurrentStock,
			MinStock:           p.MinStock,
			MaxStock:           p.MaxStock,
			SuggestedOrderQty:  qty,
			UnitCost:           p.Cost,
			EstimatedOrderCost: p.Cost.Mul(decimal.NewFromInt(int64(qty))),
			GrossMarginPct:     margin,
			UnitsOutRecent:     outByID[p.ID],
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsOutRecent != b.UnitsOutRecent {
			return a.UnitsOutRecent > b.UnitsOutRecent
		}
		return a.MinStock-a.CurrentStock > b.MinStock-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
