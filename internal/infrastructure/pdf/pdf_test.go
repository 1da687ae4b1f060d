package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/infrastructure/pdf"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,50", pdf.FormatBRL(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 0,00", pdf.FormatBRL(decimal.Zero))
	assert.Equal(t, "R$ 1.000.000,01", pdf.FormatBRL(decimal.RequireFromString("1000000.005")))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "55,56%", pdf.FormatPercent(decimal.RequireFromString("55.555")))
}

func TestGenerateProductsPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	products := []*entity.Product{
		{ID: "p1", Name: "Café", SKU: "CAFE-01", CategoryID: "c1", Price: decimal.NewFromInt(20), Cost: decimal.NewFromInt(12), CurrentStock: 4, MinStock: 5, MaxStock: 20},
		{ID: "p2", Name: "Chá", SKU: "CHA-01", CategoryID: "ghost", Price: decimal.NewFromInt(8), Cost: decimal.NewFromInt(3), CurrentStock: 30, MaxStock: 50},
	}
	categories := []*entity.Category{{ID: "c1", Name: "Bebidas"}}

	out, err := g.GenerateProductsPDF(context.Background(), products, categories)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReportPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	out, err := g.GenerateReportPDF(context.Background(), &dto.ReportDTO{
		From: &from, To: &to, MovementCount: 3,
		TotalSales: decimal.NewFromInt(200), TotalCost: decimal.NewFromInt(130), GrossProfit: decimal.NewFromInt(70),
		SalesByCategory:  []dto.CategoryValueDTO{{CategoryID: "c1", Name: "Bebidas", Value: decimal.NewFromInt(200)}},
		TopMovedProducts: []dto.TopMovedDTO{{ProductID: "p1", Name: "Café", Entries: 2, Exits: 4, Total: 6}},
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
