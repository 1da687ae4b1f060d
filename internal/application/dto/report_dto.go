package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRequest parámetros de GET /api/reports. From/To nil = sin filtro de fecha.
type ReportRequest struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// ReportDTO indicadores de la página de reportes.
type ReportDTO struct {
	From                  *time.Time         `json:"from,omitempty"`
	To                    *time.Time         `json:"to,omitempty"`
	MovementCount         int                `json:"movement_count"`
	TotalSales            decimal.Decimal    `json:"total_sales"`
	TotalCost             decimal.Decimal    `json:"total_cost"`
	GrossProfit           decimal.Decimal    `json:"gross_profit"`
	SalesByCategory       []CategoryValueDTO `json:"sales_by_category"`
	StockValueComposition []CategoryValueDTO `json:"stock_value_composition"`
	TopMovedProducts      []TopMovedDTO      `json:"top_moved_products"`
	Valuation             ValuationDTO       `json:"valuation"`
}

// CategoryValueDTO valor monetario por categoría.
type CategoryValueDTO struct {
	CategoryID string          `json:"category_id"`
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`
}

// TopMovedDTO producto por volumen movido.
type TopMovedDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Entries   int    `json:"entries"`
	Exits     int    `json:"exits"`
	Total     int    `json:"total"`
}
