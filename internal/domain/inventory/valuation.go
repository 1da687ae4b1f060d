// Package inventory contiene los cálculos puros sobre colecciones en memoria: valoración del
// inventario, resúmenes por categoría y los indicadores de reportes. Ninguna función hace I/O ni
// modifica sus entradas.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Valuation resumen monetario del stock actual.
type Valuation struct {
	TotalCost             decimal.Decimal // Σ currentStock * cost
	TotalPotentialRevenue decimal.Decimal // Σ currentStock * price
	AverageMarginPercent  decimal.Decimal // media de (price-cost)/price*100, 2 decimales
}

// ComputeInventoryValuation calcula la valoración. Los productos con price = 0 suman al costo y al
// ingreso pero no entran en la media de margen; sin productos con precio la media es 0.
func ComputeInventoryValuation(products []*entity.Product) Valuation {
	totalCost := decimal.Zero
	totalRevenue := decimal.Zero
	marginSum := decimal.Zero
	marginCount := 0
	for _, p := range products {
		if p == nil {
			continue
		}
		qty := decimal.NewFromInt(int64(p.CurrentStock))
		totalCost = totalCost.Add(qty.Mul(p.Cost))
		totalRevenue = totalRevenue.Add(qty.Mul(p.Price))
		if p.Price.GreaterThan(decimal.Zero) {
			marginSum = marginSum.Add(p.Price.Sub(p.Cost).Div(p.Price).Mul(hundred))
			marginCount++
		}
	}
	avg := decimal.Zero
	if marginCount > 0 {
		avg = marginSum.Div(decimal.NewFromInt(int64(marginCount))).Round(2)
	}
	return Valuation{
		TotalCost:             totalCost,
		TotalPotentialRevenue: totalRevenue,
		AverageMarginPercent:  avg,
	}
}

// StockValueSlice valor del stock (a costo) de una categoría.
type StockValueSlice struct {
	CategoryID string
	Name       string
	Value      decimal.Decimal
}

// ComputeStockValueComposition devuelve una porción por categoría, en el orden de categories.
func ComputeStockValueComposition(products []*entity.Product, categories []*entity.Category) []StockValueSlice {
	byCategory := make(map[string]decimal.Decimal, len(categories))
	for _, p := range products {
		if p == nil {
			continue
		}
		v := p.Cost.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
		byCategory[p.CategoryID] = byCategory[p.CategoryID].Add(v)
	}
	out := make([]StockValueSlice, 0, len(categories))
	for _, c := range categories {
		if c == nil {
			continue
		}
		out = append(out, StockValueSlice{CategoryID: c.ID, Name: c.Name, Value: byCategory[c.ID]})
	}
	return out
}
