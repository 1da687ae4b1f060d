package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/estoque/internal/domain/entity"
)

// UncategorizedLabel nombre usado cuando la categoría del producto no existe.
const UncategorizedLabel = "Sin categoría"

// DefaultTopMovedLimit límite de ComputeTopMovedProducts cuando limit <= 0.
const DefaultTopMovedLimit = 5

// CollationLanguage idioma de ordenación de nombres de categoría.
var CollationLanguage = language.BrazilianPortuguese

func productIndex(products []*entity.Product) map[string]*entity.Product {
	idx := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		if p != nil {
			idx[p.ID] = p
		}
	}
	return idx
}

func categoryNames(categories []*entity.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		if c != nil {
			names[c.ID] = c.Name
		}
	}
	return names
}

// CategoryMovementSummary entradas, salidas y neto de una categoría.
type CategoryMovementSummary struct {
	CategoryID   string
	CategoryName string
	Entries      int
	Exits        int
	Net          int
}

// SummarizeMovementsByCategory agrupa cantidades por categoría del producto.
// Los movimientos cuyo producto no existe se ignoran. Resultado ordenado por nombre (pt-BR).
func SummarizeMovementsByCategory(
	movements []*entity.StockMovement,
	products []*entity.Product,
	categories []*entity.Category,
) []CategoryMovementSummary {
	prods := productIndex(products)
	names := categoryNames(categories)

	order := make([]string, 0)
	acc := make(map[string]*CategoryMovementSummary)
	for _, m := range movements {
		if m == nil {
			continue
		}
		p, ok := prods[m.ProductID]
		if !ok {
			continue
		}
		s, ok := acc[p.CategoryID]
		if !ok {
			name, found := names[p.CategoryID]
			if !found || name == "" {
				name = UncategorizedLabel
			}
			s = &CategoryMovementSummary{CategoryID: p.CategoryID, CategoryName: name}
			acc[p.CategoryID] = s
			order = append(order, p.CategoryID)
		}
		if m.Type == entity.MovementTypeIn {
			s.Entries += m.Quantity
			s.Net += m.Quantity
		} else {
			s.Exits += m.Quantity
			s.Net -= m.Quantity
		}
	}

	out := make([]CategoryMovementSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *acc[id])
	}
	col := collate.New(CollationLanguage)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].CategoryName, out[j].CategoryName) < 0
	})
	return out
}

// SalesCostProfit totales de ventas, compras y utilidad bruta.
type SalesCostProfit struct {
	TotalSales  decimal.Decimal
	TotalCost   decimal.Decimal
	GrossProfit decimal.Decimal
}

// ComputeSalesCostProfit suma price*qty de cada salida como venta y cost*qty de cada entrada como
// compra. Es una aproximación: no empareja el costo de las unidades vendidas (sin FIFO ni lotes).
func ComputeSalesCostProfit(movements []*entity.StockMovement, products []*entity.Product) SalesCostProfit {
	prods := productIndex(products)
	sales := decimal.Zero
	cost := decimal.Zero
	for _, m := range movements {
		if m == nil {
			continue
		}
		p, ok := prods[m.ProductID]
		if !ok {
			continue
		}
		qty := decimal.NewFromInt(int64(m.Quantity))
		switch m.Type {
		case entity.MovementTypeOut:
			sales = sales.Add(p.Price.Mul(qty))
		case entity.MovementTypeIn:
			cost = cost.Add(p.Cost.Mul(qty))
		}
	}
	return SalesCostProfit{TotalSales: sales, TotalCost: cost, GrossProfit: sales.Sub(cost)}
}

// CategorySales ventas (price*qty de salidas) por categoría.
type CategorySales struct {
	CategoryID string
	Name       string
	Total      decimal.Decimal
}

// ComputeSalesByCategory agrupa las salidas por categoría en orden de aparición.
func ComputeSalesByCategory(
	movements []*entity.StockMovement,
	products []*entity.Product,
	categories []*entity.Category,
) []CategorySales {
	prods := productIndex(products)
	names := categoryNames(categories)

	order := make([]string, 0)
	acc := make(map[string]decimal.Decimal)
	for _, m := range movements {
		if m == nil || m.Type != entity.MovementTypeOut {
			continue
		}
		p, ok := prods[m.ProductID]
		if !ok {
			continue
		}
		if _, seen := acc[p.CategoryID]; !seen {
			order = append(order, p.CategoryID)
		}
		acc[p.CategoryID] = acc[p.CategoryID].Add(p.Price.Mul(decimal.NewFromInt(int64(m.Quantity))))
	}

	out := make([]CategorySales, 0, len(order))
	for _, id := range order {
		name, ok := names[id]
		if !ok || name == "" {
			name = UncategorizedLabel
		}
		out = append(out, CategorySales{CategoryID: id, Name: name, Total: acc[id]})
	}
	return out
}

// TopMoved volumen movido de un producto.
type TopMoved struct {
	ProductID string
	Name      string
	Entries   int
	Exits     int
	Total     int
}

// ComputeTopMovedProducts ordena por entradas+salidas descendente; los empates conservan el orden
// de aparición. limit <= 0 usa DefaultTopMovedLimit.
func ComputeTopMovedProducts(movements []*entity.StockMovement, products []*entity.Product, limit int) []TopMoved {
	if limit <= 0 {
		limit = DefaultTopMovedLimit
	}
	prods := productIndex(products)

	order := make([]string, 0)
	acc := make(map[string]*TopMoved)
	for _, m := range movements {
		if m == nil {
			continue
		}
		p, ok := prods[m.ProductID]
		if !ok {
			continue
		}
		t, ok := acc[p.ID]
		if !ok {
			t = &TopMoved{ProductID: p.ID, Name: p.Name}
			acc[p.ID] = t
			order = append(order, p.ID)
		}
		if m.Type == entity.MovementTypeIn {
			t.Entries += m.Quantity
		} else {
			t.Exits += m.Quantity
		}
		t.Total += m.Quantity
	}

	out := make([]TopMoved, 0, len(order))
	for _, id := range order {
		out = append(out, *acc[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DateRange intervalo cerrado [From, To]. Un extremo en cero se considera ausente.
type DateRange struct {
	From time.Time
	To   time.Time
}

// FilterMovementsByDate conserva los movimientos con From <= CreatedAt <= To. Si el rango o alguno
// de sus extremos falta, devuelve la misma slice. Los movimientos sin fecha se conservan.
func FilterMovementsByDate(movements []*entity.StockMovement, r *DateRange) []*entity.StockMovement {
	if r == nil || r.From.IsZero() || r.To.IsZero() {
		return movements
	}
	out := make([]*entity.StockMovement, 0, len(movements))
	for _, m := range movements {
		if m == nil {
			continue
		}
		if m.CreatedAt.IsZero() || (!m.CreatedAt.Before(r.From) && !m.CreatedAt.After(r.To)) {
			out = append(out, m)
		}
	}
	return out
}
