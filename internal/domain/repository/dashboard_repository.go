package repository

import (
	"context"

	"github.com/jhoicas/estoque/internal/domain/entity"
)

// DashboardRepository lectura de KPIs calculados en el servidor.
type DashboardRepository interface {
	KPIs(ctx context.Context) (*entity.DashboardKPIs, error)
}
