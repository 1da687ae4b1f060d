package remote

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre backend.Client.
type ProductRepo struct {
	c   backend.Client
	now func() time.Time
}

// NewProductRepository construye el adaptador de productos.
func NewProductRepository(c backend.Client) *ProductRepo {
	return &ProductRepo{c: c, now: time.Now}
}

// NewProductRow fila de insert; id y timestamps los asigna el backend.
func NewProductRow(d repository.NewProductData) backend.Row {
	return backend.Row{
		"name":          d.Name,
		"description":   d.Description,
		"sku":           d.SKU,
		"category_id":   d.CategoryID,
		"price":         d.Price,
		"cost":          d.Cost,
		"current_stock": int64(d.CurrentStock),
		"min_stock":     int64(d.MinStock),
		"max_stock":     int64(d.MaxStock),
	}
}

// ProductPatchToRow traduce sólo los campos presentes en el patch, más updated_at.
func ProductPatchToRow(p repository.ProductPatch, now time.Time) backend.Row {
	row := backend.Row{"updated_at": now}
	if p.Name != nil {
		row["name"] = *p.Name
	}
	if p.Description != nil {
		row["description"] = *p.Description
	}
	if p.SKU != nil {
		row["sku"] = *p.SKU
	}
	if p.CategoryID != nil {
		row["category_id"] = *p.CategoryID
	}
	if p.Price != nil {
		row["price"] = *p.Price
	}
	if p.Cost != nil {
		row["cost"] = *p.Cost
	}
	if p.CurrentStock != nil {
		row["current_stock"] = int64(*p.CurrentStock)
	}
	if p.MinStock != nil {
		row["min_stock"] = int64(*p.MinStock)
	}
	if p.MaxStock != nil {
		row["max_stock"] = int64(*p.MaxStock)
	}
	return row
}

// Create inserta el producto. SKU repetido -> domain.ErrDuplicateSKU.
func (r *ProductRepo) Create(ctx context.Context, data repository.NewProductData) (*entity.Product, error) {
	row, err := r.c.Insert(ctx, backend.TableProducts, NewProductRow(data))
	if err != nil {
		return nil, mapErr("insert product", err)
	}
	p, err := RowToProduct(row)
	return p, mapErr("insert product", err)
}

// FindByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	row, err := r.c.GetByKey(ctx, backend.TableProducts, id)
	if err != nil {
		if errors.Is(err, backend.ErrRowNotFound) {
			return nil, nil
		}
		return nil, mapErr("get product", err)
	}
	p, err := RowToProduct(row)
	return p, mapErr("get product", err)
}

// FindBySKU devuelve (nil, nil) si no existe.
func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	res, err := r.c.List(ctx, backend.TableProducts, backend.ListQuery{
		Columns: productColumns,
		Filters: []backend.Filter{backend.Eq("sku", sku)},
		Range:   backend.PageRange(1, 0),
	})
	if err != nil {
		return nil, mapErr("get product by sku", err)
	}
	if len(res.Rows) == 0 {
		return nil, nil
	}
	p, err := RowToProduct(res.Rows[0])
	return p, mapErr("get product by sku", err)
}

// ListWithCount página ordenada por created_at descendente, con búsqueda por nombre o SKU.
func (r *ProductRepo) ListWithCount(ctx context.Context, params repository.ProductListParams) ([]*entity.Product, int, error) {
	q := backend.ListQuery{
		Columns: productColumns,
		OrderBy: []backend.Order{{Column: "created_at", Desc: true}},
		Range:   backend.PageRange(params.Limit, params.Offset),
	}
	if params.Search != "" {
		q.Filters = append(q.Filters, backend.IlikeAny(params.Search, "name", "sku"))
	}
	res, err := r.c.List(ctx, backend.TableProducts, q)
	if err != nil {
		return nil, 0, mapErr("list products", err)
	}
	items, err := mapRows(res.Rows, RowToProduct)
	if err != nil {
		return nil, 0, mapErr("list products", err)
	}
	return items, res.Count, nil
}

// ListAll todos los productos por nombre.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	res, err := r.c.List(ctx, backend.TableProducts, backend.ListQuery{
		Columns: productColumns,
		OrderBy: []backend.Order{{Column: "name"}},
	})
	if err != nil {
		return nil, mapErr("list all products", err)
	}
	items, err := mapRows(res.Rows, RowToProduct)
	return items, mapErr("list all products", err)
}

// ListLowStock productos con current_stock <= threshold.
func (r *ProductRepo) ListLowStock(ctx context.Context, threshold, limit int) ([]*entity.Product, error) {
	res, err := r.c.List(ctx, backend.TableProducts, backend.ListQuery{
		Columns: productColumns,
		Filters: []backend.Filter{backend.Lte("current_stock", int64(threshold))},
		OrderBy: []backend.Order{{Column: "current_stock"}},
		Range:   backend.PageRange(limit, 0),
	})
	if err != nil {
		return nil, mapErr("list low stock", err)
	}
	items, err := mapRows(res.Rows, RowToProduct)
	return items, mapErr("list low stock", err)
}

// Update envía sólo los campos del patch.
func (r *ProductRepo) Update(ctx context.Context, id string, patch repository.ProductPatch) (*entity.Product, error) {
	row, err := r.c.Update(ctx, backend.TableProducts, id, ProductPatchToRow(patch, r.now()))
	if err != nil {
		return nil, mapErr("update product", err)
	}
	p, err := RowToProduct(row)
	return p, mapErr("update product", err)
}

// Delete elimina el producto; la integridad con movimientos la resuelve el backend.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return mapErr("delete product", r.c.Delete(ctx, backend.TableProducts, id))
}
