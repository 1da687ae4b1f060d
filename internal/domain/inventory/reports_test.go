package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"esperado %s, obtenido %s", want, got.String()}, msgAndArgs...)...)
}

func fixtureProducts() []*entity.Product {
	return []*entity.Product{
		{ID: "p1", Name: "Prod A", SKU: "A1", CategoryID: "c1", Price: dec("50"), Cost: dec("20"), CurrentStock: 10, MinStock: 1, MaxStock: 100},
		{ID: "p2", Name: "Prod B", SKU: "B1", CategoryID: "c2", Price: dec("100"), Cost: dec("60"), CurrentStock: 5, MinStock: 1, MaxStock: 100},
		{ID: "p3", Name: "Prod C", SKU: "C1", CategoryID: "c1", Price: dec("30"), Cost: dec("10"), CurrentStock: 3, MinStock: 1, MaxStock: 100},
	}
}

func fixtureCategories() []*entity.Category {
	return []*entity.Category{
		{ID: "c1", Name: "Cat1"},
		{ID: "c2", Name: "Cat2"},
	}
}

func fixtureMovements() []*entity.StockMovement {
	return []*entity.StockMovement{
		{ID: "m1", ProductID: "p1", Type: entity.MovementTypeIn, Quantity: 4, CreatedAt: now},
		{ID: "m2", ProductID: "p1", Type: entity.MovementTypeOut, Quantity: 2, CreatedAt: now},
		{ID: "m3", ProductID: "p2", Type: entity.MovementTypeOut, Quantity: 1, CreatedAt: now},
		{ID: "m4", ProductID: "p3", Type: entity.MovementTypeIn, Quantity: 5, CreatedAt: now.AddDate(0, 0, -10)},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Valoración
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeInventoryValuation(t *testing.T) {
	v := inventory.ComputeInventoryValuation(fixtureProducts())

	assertDecimal(t, "530", v.TotalCost)
	assertDecimal(t, "1090", v.TotalPotentialRevenue)
	// (60 + 40 + 66.666...) / 3 = 55.555... → 55.56
	assertDecimal(t, "55.56", v.AverageMarginPercent)
}

func TestComputeInventoryValuation_PrecioCeroFueraDeLaMedia(t *testing.T) {
	products := []*entity.Product{
		{ID: "a", Price: dec("0"), Cost: dec("5"), CurrentStock: 2},
		{ID: "b", Price: dec("10"), Cost: dec("5"), CurrentStock: 1},
	}
	v := inventory.ComputeInventoryValuation(products)

	assertDecimal(t, "15", v.TotalCost, "el producto sin precio suma al costo")
	assertDecimal(t, "10", v.TotalPotentialRevenue)
	assertDecimal(t, "50", v.AverageMarginPercent, "solo el producto con precio entra en la media")
}

func TestComputeInventoryValuation_SinPrecios(t *testing.T) {
	v := inventory.ComputeInventoryValuation([]*entity.Product{{ID: "a", Cost: dec("3.5"), CurrentStock: 4}})
	assertDecimal(t, "0", v.AverageMarginPercent)
	assertDecimal(t, "14", v.TotalCost)

	empty := inventory.ComputeInventoryValuation(nil)
	assertDecimal(t, "0", empty.TotalCost)
	assertDecimal(t, "0", empty.AverageMarginPercent)
}

func TestComputeInventoryValuation_TotalCostExacto(t *testing.T) {
	products := []*entity.Product{
		{ID: "a", Price: dec("1.005"), Cost: dec("0.333"), CurrentStock: 3},
		{ID: "b", Price: dec("2"), Cost: dec("0.001"), CurrentStock: 7},
	}
	v := inventory.ComputeInventoryValuation(products)
	// 3*0.333 + 7*0.001 sin redondeo intermedio
	assertDecimal(t, "1.006", v.TotalCost)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen por categoría
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarizeMovementsByCategory(t *testing.T) {
	out := inventory.SummarizeMovementsByCategory(fixtureMovements(), fixtureProducts(), fixtureCategories())
	require.Len(t, out, 2)

	assert.Equal(t, inventory.CategoryMovementSummary{CategoryID: "c1", CategoryName: "Cat1", Entries: 9, Exits: 2, Net: 7}, out[0])
	assert.Equal(t, inventory.CategoryMovementSummary{CategoryID: "c2", CategoryName: "Cat2", Entries: 0, Exits: 1, Net: -1}, out[1])
}

func TestSummarizeMovementsByCategory_ProductoDesconocidoYCategoriaSinNombre(t *testing.T) {
	products := append(fixtureProducts(), &entity.Product{ID: "p9", Name: "Huérfano", CategoryID: "c9"})
	movements := append(fixtureMovements(),
		&entity.StockMovement{ID: "m5", ProductID: "no-existe", Type: entity.MovementTypeIn, Quantity: 100},
		&entity.StockMovement{ID: "m6", ProductID: "p9", Type: entity.MovementTypeIn, Quantity: 3},
	)

	out := inventory.SummarizeMovementsByCategory(movements, products, fixtureCategories())
	require.Len(t, out, 3)

	totalNet := 0
	for _, s := range out {
		assert.Equal(t, s.Entries-s.Exits, s.Net)
		totalNet += s.Net
	}
	// 4 - 2 - 1 + 5 + 3: el movimiento de producto desconocido se ignora
	assert.Equal(t, 9, totalNet)

	var orphan *inventory.CategoryMovementSummary
	for i := range out {
		if out[i].CategoryID == "c9" {
			orphan = &out[i]
		}
	}
	require.NotNil(t, orphan)
	assert.Equal(t, inventory.UncategorizedLabel, orphan.CategoryName)
}

func TestSummarizeMovementsByCategory_OrdenLocale(t *testing.T) {
	categories := []*entity.Category{{ID: "z", Name: "Zeta"}, {ID: "b", Name: "bebidas"}, {ID: "a", Name: "Água"}}
	products := []*entity.Product{
		{ID: "pz", CategoryID: "z"}, {ID: "pb", CategoryID: "b"}, {ID: "pa", CategoryID: "a"},
	}
	movements := []*entity.StockMovement{
		{ProductID: "pz", Type: entity.MovementTypeIn, Quantity: 1},
		{ProductID: "pb", Type: entity.MovementTypeIn, Quantity: 1},
		{ProductID: "pa", Type: entity.MovementTypeIn, Quantity: 1},
	}

	out := inventory.SummarizeMovementsByCategory(movements, products, categories)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"Água", "bebidas", "Zeta"}, []string{out[0].CategoryName, out[1].CategoryName, out[2].CategoryName})
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeSalesCostProfit(t *testing.T) {
	r := inventory.ComputeSalesCostProfit(fixtureMovements(), fixtureProducts())

	// Ventas: p1 (2*50) + p2 (1*100) = 200; Compras: p1 (4*20) + p3 (5*10) = 130
	assertDecimal(t, "200", r.TotalSales)
	assertDecimal(t, "130", r.TotalCost)
	assertDecimal(t, "70", r.GrossProfit)
}

func TestComputeSalesByCategory(t *testing.T) {
	out := inventory.ComputeSalesByCategory(fixtureMovements(), fixtureProducts(), fixtureCategories())
	require.Len(t, out, 2)

	assert.Equal(t, "Cat1", out[0].Name)
	assertDecimal(t, "100", out[0].Total)
	assert.Equal(t, "Cat2", out[1].Name)
	assertDecimal(t, "100", out[1].Total)
}

func TestComputeStockValueComposition(t *testing.T) {
	out := inventory.ComputeStockValueComposition(fixtureProducts(), fixtureCategories())
	require.Len(t, out, 2)

	assertDecimal(t, "230", out[0].Value) // 20*10 + 10*3
	assertDecimal(t, "300", out[1].Value) // 60*5
}

func TestComputeTopMovedProducts(t *testing.T) {
	top := inventory.ComputeTopMovedProducts(fixtureMovements(), fixtureProducts(), 2)
	require.Len(t, top, 2)

	assert.Equal(t, "Prod A", top[0].Name)
	assert.Equal(t, 6, top[0].Total)
	assert.Equal(t, 4, top[0].Entries)
	assert.Equal(t, 2, top[0].Exits)
	assert.Equal(t, "Prod C", top[1].Name)
	assert.Equal(t, 5, top[1].Total)
}

func TestComputeTopMovedProducts_EmpateEstable(t *testing.T) {
	movements := []*entity.StockMovement{
		{ProductID: "p2", Type: entity.MovementTypeOut, Quantity: 3},
		{ProductID: "p3", Type: entity.MovementTypeIn, Quantity: 3},
		{ProductID: "p1", Type: entity.MovementTypeIn, Quantity: 3},
	}
	top := inventory.ComputeTopMovedProducts(movements, fixtureProducts(), 0)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"p2", "p3", "p1"}, []string{top[0].ProductID, top[1].ProductID, top[2].ProductID})
}

func TestFilterMovementsByDate(t *testing.T) {
	movements := fixtureMovements()

	filtered := inventory.FilterMovementsByDate(movements, &inventory.DateRange{
		From: now.AddDate(0, 0, -2),
		To:   now.AddDate(0, 0, 1),
	})
	assert.Len(t, filtered, 3, "m4 queda fuera del rango")

	inclusive := inventory.FilterMovementsByDate(movements, &inventory.DateRange{From: now, To: now})
	assert.Len(t, inclusive, 3, "ambos extremos son inclusivos")

	assert.Len(t, inventory.FilterMovementsByDate(movements, nil), 4)
	assert.Len(t, inventory.FilterMovementsByDate(movements, &inventory.DateRange{From: now}), 4)
	assert.Len(t, movements, 4, "la entrada no se modifica")
}
