package entity

import "github.com/shopspring/decimal"

// DashboardKPIs registro calculado por el procedimiento get_dashboard_kpis.
// Las claves que el núcleo no conoce se conservan en Extra.
type DashboardKPIs struct {
	TotalProducts   int
	LowStockCount   int
	TotalStockValue decimal.Decimal
	MovementsToday  int
	Extra           map[string]any
}
