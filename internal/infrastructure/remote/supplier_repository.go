package remote

import (
	"context"

	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre backend.Client.
type SupplierRepo struct {
	c backend.Client
}

// NewSupplierRepository construye el adaptador de proveedores.
func NewSupplierRepository(c backend.Client) *SupplierRepo {
	return &SupplierRepo{c: c}
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	res, err := r.c.List(ctx, backend.TableSuppliers, backend.ListQuery{
		Columns: supplierColumns,
		OrderBy: []backend.Order{{Column: "name"}},
	})
	if err != nil {
		return nil, mapErr("list suppliers", err)
	}
	items, err := mapRows(res.Rows, RowToSupplier)
	return items, mapErr("list suppliers", err)
}

func (r *SupplierRepo) Create(ctx context.Context, s entity.Supplier) (*entity.Supplier, error) {
	row, err := r.c.Insert(ctx, backend.TableSuppliers, backend.Row{
		"name":    s.Name,
		"contact": s.Contact,
		"email":   s.Email,
		"phone":   s.Phone,
		"address": s.Address,
	})
	if err != nil {
		return nil, mapErr("insert supplier", err)
	}
	out, err := RowToSupplier(row)
	return out, mapErr("insert supplier", err)
}

func (r *SupplierRepo) Update(ctx context.Context, id string, fields repository.SupplierFields) (*entity.Supplier, error) {
	patch := backend.Row{}
	set := func(col string, v *string) {
		if v != nil {
			patch[col] = *v
		}
	}
	set("name", fields.Name)
	set("contact", fields.Contact)
	set("email", fields.Email)
	set("phone", fields.Phone)
	set("address", fields.Address)

	row, err := r.c.Update(ctx, backend.TableSuppliers, id, patch)
	if err != nil {
		return nil, mapErr("update supplier", err)
	}
	out, err := RowToSupplier(row)
	return out, mapErr("update supplier", err)
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	return mapErr("delete supplier", r.c.Delete(ctx, backend.TableSuppliers, id))
}
