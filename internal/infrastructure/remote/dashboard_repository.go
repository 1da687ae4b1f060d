package remote

import (
	"context"

	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo lee los KPIs del procedimiento get_dashboard_kpis.
type DashboardRepo struct {
	c backend.Client
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(c backend.Client) *DashboardRepo {
	return &DashboardRepo{c: c}
}

var kpiColumns = map[string]bool{
	"total_products":    true,
	"low_stock_count":   true,
	"total_stock_value": true,
	"movements_today":   true,
}

// KPIs toma el primer registro. Sin registros devuelve KPIs en cero.
func (r *DashboardRepo) KPIs(ctx context.Context) (*entity.DashboardKPIs, error) {
	rows, err := r.c.CallProcedure(ctx, backend.ProcDashboardKPIs, nil)
	if err != nil {
		return nil, mapErr("dashboard kpis", err)
	}
	k := &entity.DashboardKPIs{Extra: map[string]any{}}
	if len(rows) == 0 {
		return k, nil
	}
	row := rows[0]
	rd := &reader{table: backend.ProcDashboardKPIs, row: row}
	if _, ok := row["total_products"]; ok {
		k.TotalProducts = rd.integer("total_products")
	}
	if _, ok := row["low_stock_count"]; ok {
		k.LowStockCount = rd.integer("low_stock_count")
	}
	if _, ok := row["total_stock_value"]; ok {
		k.TotalStockValue = rd.money("total_stock_value")
	}
	if _, ok := row["movements_today"]; ok {
		k.MovementsToday = rd.integer("movements_today")
	}
	if err := rd.err(); err != nil {
		return nil, mapErr("dashboard kpis", err)
	}
	for col, v := range row {
		if !kpiColumns[col] {
			k.Extra[col] = v
		}
	}
	return k, nil
}
