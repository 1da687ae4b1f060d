package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/domain"
	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías (página de ajustes, solo administradores).
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// List todas las categorías.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// Create exige nombre.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if err := requireName(name); err != nil {
		return nil, err
	}
	c, err := uc.repo.Create(ctx, name, in.Description)
	if err != nil {
		return nil, err
	}
	res := toCategoryResponse(c)
	return &res, nil
}

// Update edición parcial; un nombre presente no puede quedar vacío.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := requireName(name); err != nil {
			return nil, err
		}
		in.Name = &name
	}
	c, err := uc.repo.Update(ctx, id, repository.CategoryFields{Name: in.Name, Description: in.Description})
	if err != nil {
		return nil, err
	}
	res := toCategoryResponse(c)
	return &res, nil
}

// Delete elimina la categoría; los productos que la referencian quedan como "Sin categoría".
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

// SupplierUseCase CRUD de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

func (uc *SupplierUseCase) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if err := requireName(name); err != nil {
		return nil, err
	}
	s, err := uc.repo.Create(ctx, entity.Supplier{
		Name:    name,
		Contact: in.Contact,
		Email:   strings.TrimSpace(in.Email),
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		return nil, err
	}
	res := toSupplierResponse(s)
	return &res, nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := requireName(name); err != nil {
			return nil, err
		}
		in.Name = &name
	}
	s, err := uc.repo.Update(ctx, id, repository.SupplierFields{
		Name:    in.Name,
		Contact: in.Contact,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		return nil, err
	}
	res := toSupplierResponse(s)
	return &res, nil
}

func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}

func requireName(name string) error {
	var v domain.Validator
	v.Check(name != "", "name", "obligatorio")
	return v.Err()
}
