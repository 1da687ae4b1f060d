package catalog

import (
	"context"
	"time"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/application/query"
	"github.com/jhoicas/estoque/internal/domain/entity"
)

// PendingProductName nombre del movimiento provisional hasta que el ledger lo confirme.
const PendingProductName = "(actualizando...)"

// Done salida de mutaciones sin valor.
type Done struct{}

type productUpdate struct {
	id string
	in dto.UpdateProductRequest
}

// CreateProduct antepone un producto provisional en las primeras páginas y suma 1 al total.
// Al confirmar, el provisional se reemplaza por el registro del backend (mismo id temporal).
func (s *Service) CreateProduct(ctx context.Context, in dto.CreateProductRequest) *query.Pending[*dto.ProductResponse] {
	return query.Start(ctx, s.cache, query.Mutation[dto.CreateProductRequest, *dto.ProductResponse]{
		Resources: []string{ResourceProducts, ResourceDashboard},
		Apply: func(tx *query.Tx, in dto.CreateProductRequest) {
			now := time.Now()
			placeholder := dto.ProductResponse{
				ID:           tx.TempID(),
				Name:         in.Name,
				Description:  in.Description,
				SKU:          in.SKU,
				CategoryID:   in.CategoryID,
				Price:        in.Price,
				Cost:         in.Cost,
				CurrentStock: in.CurrentStock,
				MinStock:     in.MinStock,
				MaxStock:     in.MaxStock,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			tx.Update(ResourceProducts, func(k query.Key, data any) (any, bool) {
				if !k.IsFirstPage() {
					return nil, false
				}
				return prependProduct(data, placeholder)
			})
		},
		Run: s.deps.Products.Create,
		Reconcile: func(tx *query.Tx, _ dto.CreateProductRequest, out *dto.ProductResponse) {
			tx.Update(ResourceProducts, func(_ query.Key, data any) (any, bool) {
				return mapProducts(data, func(p dto.ProductResponse) (dto.ProductResponse, bool) {
					if p.ID != tx.TempID() {
						return p, false
					}
					return *out, true
				})
			})
		},
	}, in)
}

// UpdateProduct aplica el parche a cada copia cacheada del producto.
func (s *Service) UpdateProduct(ctx context.Context, id string, in dto.UpdateProductRequest) *query.Pending[*dto.ProductResponse] {
	return query.Start(ctx, s.cache, query.Mutation[productUpdate, *dto.ProductResponse]{
		Resources: []string{ResourceProducts, ResourceDashboard},
		Apply: func(tx *query.Tx, u productUpdate) {
			tx.Update(ResourceProducts, func(_ query.Key, data any) (any, bool) {
				return mapProducts(data, func(p dto.ProductResponse) (dto.ProductResponse, bool) {
					if p.ID != u.id {
						return p, false
					}
					return patchProduct(p, u.in), true
				})
			})
		},
		Run: func(ctx context.Context, u productUpdate) (*dto.ProductResponse, error) {
			return s.deps.Products.Update(ctx, u.id, u.in)
		},
		Reconcile: func(tx *query.Tx, u productUpdate, out *dto.ProductResponse) {
			tx.Update(ResourceProducts, func(_ query.Key, data any) (any, bool) {
				return mapProducts(data, func(p dto.ProductResponse) (dto.ProductResponse, bool) {
					if p.ID != u.id {
						return p, false
					}
					return *out, true
				})
			})
		},
	}, productUpdate{id: id, in: in})
}

// DeleteProduct quita el producto de las páginas cacheadas y resta 1 al total (mínimo 0).
func (s *Service) DeleteProduct(ctx context.Context, id string) *query.Pending[Done] {
	return query.Start(ctx, s.cache, query.Mutation[string, Done]{
		Resources: []string{ResourceProducts, ResourceMovements, ResourceDashboard},
		Apply: func(tx *query.Tx, id string) {
			tx.Update(ResourceProducts, func(_ query.Key, data any) (any, bool) {
				return removeProduct(data, id)
			})
		},
		Run: func(ctx context.Context, id string) (Done, error) {
			return Done{}, s.deps.Products.Delete(ctx, id)
		},
	}, id)
}

// RegisterMovement antepone un movimiento provisional en las primeras páginas del ledger que
// lo incluirían y aplica el delta al stock cacheado del producto (mínimo 0).
func (s *Service) RegisterMovement(ctx context.Context, in dto.RegisterMovementRequest) *query.Pending[Done] {
	return query.Start(ctx, s.cache, query.Mutation[dto.RegisterMovementRequest, Done]{
		Resources: []string{ResourceProducts, ResourceMovements, ResourceDashboard},
		Apply: func(tx *query.Tx, in dto.RegisterMovementRequest) {
			typ, err := entity.ParseMovementType(in.Type)
			if err != nil || in.Quantity <= 0 {
				return
			}
			placeholder := dto.MovementResponse{
				ID:          tx.TempID(),
				ProductID:   in.ProductID,
				ProductName: PendingProductName,
				Type:        string(typ),
				Quantity:    in.Quantity,
				Reason:      in.Reason,
				CreatedAt:   time.Now(),
			}
			tx.Update(ResourceMovements, func(k query.Key, data any) (any, bool) {
				if !k.IsFirstPage() {
					return nil, false
				}
				if pid := k.Values().Get("product_id"); pid != "" && pid != in.ProductID {
					return nil, false
				}
				return prependMovement(data, placeholder)
			})
			delta := typ.Sign() * in.Quantity
			tx.Update(ResourceProducts, func(_ query.Key, data any) (any, bool) {
				return mapProducts(data, func(p dto.ProductResponse) (dto.ProductResponse, bool) {
					if p.ID != in.ProductID {
						return p, false
					}
					p.CurrentStock = max(0, p.CurrentStock+delta)
					return p, true
				})
			})
		},
		Run: func(ctx context.Context, in dto.RegisterMovementRequest) (Done, error) {
			return Done{}, s.deps.Movements.Register(ctx, in)
		},
	}, in)
}

// CreateCategory sin aplicación optimista: confirma e invalida categorías y dashboard.
func (s *Service) CreateCategory(ctx context.Context, in dto.CategoryRequest) *query.Pending[*dto.CategoryResponse] {
	return query.Start(ctx, s.cache, query.Mutation[dto.CategoryRequest, *dto.CategoryResponse]{
		Resources: []string{ResourceCategories, ResourceDashboard},
		Run:       s.deps.Categories.Create,
	}, in)
}

type categoryUpdate struct {
	id string
	in dto.UpdateCategoryRequest
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in dto.UpdateCategoryRequest) *query.Pending[*dto.CategoryResponse] {
	return query.Start(ctx, s.cache, query.Mutation[categoryUpdate, *dto.CategoryResponse]{
		Resources: []string{ResourceCategories, ResourceDashboard},
		Run: func(ctx context.Context, u categoryUpdate) (*dto.CategoryResponse, error) {
			return s.deps.Categories.Update(ctx, u.id, u.in)
		},
	}, categoryUpdate{id: id, in: in})
}

func (s *Service) DeleteCategory(ctx context.Context, id string) *query.Pending[Done] {
	return query.Start(ctx, s.cache, query.Mutation[string, Done]{
		Resources: []string{ResourceCategories, ResourceDashboard},
		Run: func(ctx context.Context, id string) (Done, error) {
			return Done{}, s.deps.Categories.Delete(ctx, id)
		},
	}, id)
}

func (s *Service) CreateSupplier(ctx context.Context, in dto.SupplierRequest) *query.Pending[*dto.SupplierResponse] {
	return query.Start(ctx, s.cache, query.Mutation[dto.SupplierRequest, *dto.SupplierResponse]{
		Resources: []string{ResourceSuppliers},
		Run:       s.deps.Suppliers.Create,
	}, in)
}

type supplierUpdate struct {
	id string
	in dto.UpdateSupplierRequest
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, in dto.UpdateSupplierRequest) *query.Pending[*dto.SupplierResponse] {
	return query.Start(ctx, s.cache, query.Mutation[supplierUpdate, *dto.SupplierResponse]{
		Resources: []string{ResourceSuppliers},
		Run: func(ctx context.Context, u supplierUpdate) (*dto.SupplierResponse, error) {
			return s.deps.Suppliers.Update(ctx, u.id, u.in)
		},
	}, supplierUpdate{id: id, in: in})
}

func (s *Service) DeleteSupplier(ctx context.Context, id string) *query.Pending[Done] {
	return query.Start(ctx, s.cache, query.Mutation[string, Done]{
		Resources: []string{ResourceSuppliers},
		Run: func(ctx context.Context, id string) (Done, error) {
			return Done{}, s.deps.Suppliers.Delete(ctx, id)
		},
	}, id)
}
