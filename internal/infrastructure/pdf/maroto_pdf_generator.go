// Package pdf exporta el catálogo de productos y el reporte de inventario a PDF.
//
// Layout A4 común:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                    │  Fecha de emisión      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA / BLOQUES de indicadores                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES                                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera los PDF con Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

func (g *MarotoPDFGenerator) document(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor("Estoque", true).
		Build()
	m := maroto.New(cfg)
	m.AddRows(headerRow(title, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	return m
}

// GenerateProductsPDF lista los productos con categoría, stock y valor a costo.
// Los productos en o bajo su stock mínimo se marcan en rojo.
func (g *MarotoPDFGenerator) GenerateProductsPDF(
	_ context.Context,
	products []*entity.Product,
	categories []*entity.Category,
) ([]byte, error) {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	m := g.document("Relatório de Produtos")
	m.AddRows(productTableHeader())
	total := decimal.Zero
	for _, p := range products {
		category := names[p.CategoryID]
		if category == "" {
			category = inventory.UncategorizedLabel
		}
		value := p.Cost.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
		total = total.Add(value)
		m.AddRows(productRow(p, category, value))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Produtos:", fmt.Sprintf("%d", len(products))},
		{"Valor em estoque:", FormatBRL(total)},
	}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar productos: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateReportPDF vuelca los indicadores de un reporte ya calculado.
func (g *MarotoPDFGenerator) GenerateReportPDF(_ context.Context, r *dto.ReportDTO) ([]byte, error) {
	m := g.document("Relatório de Estoque")
	m.AddRows(periodRow(r.From, r.To))

	m.AddRows(sectionRow("RESULTADO"))
	m.AddRows(totalsRow([][2]string{
		{"Movimentações:", fmt.Sprintf("%d", r.MovementCount)},
		{"Vendas:", FormatBRL(r.TotalSales)},
		{"Compras:", FormatBRL(r.TotalCost)},
		{"Lucro bruto:", FormatBRL(r.GrossProfit)},
	}))

	m.AddRows(sectionRow("VALORIZAÇÃO"))
	m.AddRows(totalsRow([][2]string{
		{"Custo total:", FormatBRL(r.Valuation.TotalCost)},
		{"Receita potencial:", FormatBRL(r.Valuation.TotalPotentialRevenue)},
		{"Margem média:", FormatPercent(r.Valuation.AverageMarginPercent)},
	}))

	m.AddRows(sectionRow("VENDAS POR CATEGORIA"))
	for _, c := range r.SalesByCategory {
		m.AddRows(keyValueRow(c.Name, FormatBRL(c.Value)))
	}
	m.AddRows(sectionRow("COMPOSIÇÃO DO ESTOQUE"))
	for _, c := range r.StockValueComposition {
		m.AddRows(keyValueRow(c.Name, FormatBRL(c.Value)))
	}
	m.AddRows(sectionRow("PRODUTOS MAIS MOVIMENTADOS"))
	for i, t := range r.TopMovedProducts {
		m.AddRows(keyValueRow(fmt.Sprintf("%d. %s", i+1, t.Name),
			fmt.Sprintf("%d (entradas %d / saídas %d)", t.Total, t.Entries, t.Exits)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Emitido em "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func periodRow(from, to *time.Time) core.Row {
	label := "Período: todo o histórico"
	if from != nil && to != nil {
		label = fmt.Sprintf("Período: %s a %s", from.Format("02/01/2006"), to.Format("02/01/2006"))
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func sectionRow(title string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 3}),
	))
}

func productTableHeader() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Produto", 3, align.Left),
		h("Categoria", 2, align.Left),
		h("Estoque", 1, align.Center),
		h("Preço", 2, align.Right),
		h("Valor (custo)", 2, align.Right),
	)
}

func productRow(p *entity.Product, category string, value decimal.Decimal) core.Row {
	stockProps := props.Text{Size: 8, Align: align.Center, Top: 1}
	if p.CurrentStock <= p.MinStock {
		stockProps.Style = fontstyle.Bold
		stockProps.Color = colorAlert
	}
	return row.New(7).Add(
		col.New(2).Add(text.New(p.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(category, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
		col.New(1).Add(text.New(fmt.Sprintf("%d", p.CurrentStock), stockProps)),
		col.New(2).Add(text.New(FormatBRL(p.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(FormatBRL(value), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func keyValueRow(key, value string) core.Row {
	return row.New(6).Add(
		col.New(8).Add(text.New(key, props.Text{Size: 8, Top: 1, Left: 2})),
		col.New(4).Add(text.New(value, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// totalsRow: pares etiqueta/valor alineados a la derecha.
func totalsRow(pairs [][2]string) core.Row {
	labels := make([]core.Component, 0, len(pairs))
	values := make([]core.Component, 0, len(pairs))
	for i, p := range pairs {
		top := float64(i*5 + 1)
		labels = append(labels, text.New(p[0], props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		}))
		values = append(values, text.New(p[1], props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}))
	}
	return row.New(float64(len(pairs)*5+3)).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}
