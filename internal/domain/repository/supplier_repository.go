package repository

import (
	"context"

	"github.com/jhoicas/estoque/internal/domain/entity"
)

// SupplierFields campos editables de un proveedor (nil = sin cambio en Update).
type SupplierFields struct {
	Name    *string
	Contact *string
	Email   *string
	Phone   *string
	Address *string
}

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	List(ctx context.Context) ([]*entity.Supplier, error)
	Create(ctx context.Context, s entity.Supplier) (*entity.Supplier, error)
	Update(ctx context.Context, id string, fields SupplierFields) (*entity.Supplier, error)
	Delete(ctx context.Context, id string) error
}
