package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque/internal/domain/entity"
)

// NewProductData datos para crear un producto; el backend asigna ID y timestamps.
type NewProductData struct {
	Name         string
	Description  string
	SKU          string
	CategoryID   string
	Price        decimal.Decimal
	Cost         decimal.Decimal
	CurrentStock int
	MinStock     int
	MaxStock     int
}

// ProductPatch actualización parcial: solo los campos no nil se envían al backend.
type ProductPatch struct {
	Name         *string
	Description  *string
	SKU          *string
	CategoryID   *string
	Price        *decimal.Decimal
	Cost         *decimal.Decimal
	CurrentStock *int
	MinStock     *int
	MaxStock     *int
}

// IsEmpty indica que el patch no modifica ningún campo.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.SKU == nil && p.CategoryID == nil &&
		p.Price == nil && p.Cost == nil && p.CurrentStock == nil && p.MinStock == nil && p.MaxStock == nil
}

// ProductListParams filtros del listado paginado (búsqueda por nombre, case-insensitive).
type ProductListParams struct {
	Search string
	Limit  int
	Offset int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// FindByID y FindBySKU devuelven (nil, nil) cuando no existe.
type ProductRepository interface {
	Create(ctx context.Context, data NewProductData) (*entity.Product, error)
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	FindBySKU(ctx context.Context, sku string) (*entity.Product, error)
	ListWithCount(ctx context.Context, params ProductListParams) ([]*entity.Product, int, error)
	ListAll(ctx context.Context) ([]*entity.Product, error)
	ListLowStock(ctx context.Context, threshold, limit int) ([]*entity.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
