package dto

import "github.com/shopspring/decimal"

// DashboardDTO respuesta de GET /api/dashboard.
type DashboardDTO struct {
	KPIs                KPIsDTO                      `json:"kpis"`
	Valuation           ValuationDTO                 `json:"valuation"`
	LowStock            []LowStockItemDTO            `json:"low_stock"`
	MovementsByCategory []CategoryMovementSummaryDTO `json:"movements_by_category"`
}

// KPIsDTO registro del procedimiento get_dashboard_kpis. Extra conserva las claves no modeladas.
type KPIsDTO struct {
	TotalProducts   int             `json:"total_products"`
	LowStockCount   int             `json:"low_stock_count"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	MovementsToday  int             `json:"movements_today"`
	Extra           map[string]any  `json:"extra,omitempty"`
}

// ValuationDTO valoración del inventario.
type ValuationDTO struct {
	TotalCost             decimal.Decimal `json:"total_cost"`
	TotalPotentialRevenue decimal.Decimal `json:"total_potential_revenue"`
	AverageMarginPercent  decimal.Decimal `json:"average_margin_percent"`
}

// LowStockItemDTO producto con stock bajo (current_stock <= 10).
type LowStockItemDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	CurrentStock int    `json:"current_stock"`
}

// CategoryMovementSummaryDTO entradas/salidas por categoría.
type CategoryMovementSummaryDTO struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Entries      int    `json:"entries"`
	Exits        int    `json:"exits"`
	Net          int    `json:"net"`
}
