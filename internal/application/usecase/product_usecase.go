package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/domain"
	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
)

// Longitudes mínimas de los campos de texto del producto.
const (
	minProductNameLen = 3
	minSKULen         = 4
)

// ProductUseCase casos de uso CRUD para productos.
// El stock solo cambia por movimientos o por edición explícita del administrador.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create valida forma, luego min <= max, luego unicidad del SKU. El repositorio solo se escribe
// si todas las comprobaciones pasan.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)

	var v domain.Validator
	checkName(&v, in.Name)
	checkSKU(&v, in.SKU)
	v.Check(strings.TrimSpace(in.CategoryID) != "", "category_id", "obligatorio")
	checkPositive(&v, "price", in.Price)
	checkPositive(&v, "cost", in.Cost)
	v.Check(in.CurrentStock >= 0, "current_stock", "no puede ser negativo")
	v.Check(in.MinStock >= 0, "min_stock", "no puede ser negativo")
	v.Check(in.MaxStock >= 0, "max_stock", "no puede ser negativo")
	if err := v.Err(); err != nil {
		return nil, err
	}
	if in.MinStock > in.MaxStock {
		return nil, domain.NewBusinessRuleError("el stock mínimo no puede ser mayor que el máximo")
	}

	existing, err := uc.repo.FindBySKU(ctx, in.SKU)
	if err != nil {
		return nil, fmt.Errorf("buscar sku: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateSKU
	}

	product, err := uc.repo.Create(ctx, repository.NewProductData{
		Name:         in.Name,
		Description:  in.Description,
		SKU:          in.SKU,
		CategoryID:   in.CategoryID,
		Price:        in.Price,
		Cost:         in.Cost,
		CurrentStock: in.CurrentStock,
		MinStock:     in.MinStock,
		MaxStock:     in.MaxStock,
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update aplica solo los campos presentes. Valida min <= max con los valores efectivos y,
// si cambia el SKU, que ningún otro producto lo use.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var v domain.Validator
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
		checkName(&v, trimmed)
	}
	if in.SKU != nil {
		trimmed := strings.TrimSpace(*in.SKU)
		in.SKU = &trimmed
		checkSKU(&v, trimmed)
	}
	if in.CategoryID != nil {
		v.Check(strings.TrimSpace(*in.CategoryID) != "", "category_id", "obligatorio")
	}
	if in.Price != nil {
		checkPositive(&v, "price", *in.Price)
	}
	if in.Cost != nil {
		checkPositive(&v, "cost", *in.Cost)
	}
	checkNonNegative(&v, "current_stock", in.CurrentStock)
	checkNonNegative(&v, "min_stock", in.MinStock)
	checkNonNegative(&v, "max_stock", in.MaxStock)
	if err := v.Err(); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	minStock, maxStock := existing.MinStock, existing.MaxStock
	if in.MinStock != nil {
		minStock = *in.MinStock
	}
	if in.MaxStock != nil {
		maxStock = *in.MaxStock
	}
	if minStock > maxStock {
		return nil, domain.NewBusinessRuleError("el stock mínimo no puede ser mayor que el máximo")
	}

	if in.SKU != nil && *in.SKU != existing.SKU {
		other, err := uc.repo.FindBySKU(ctx, *in.SKU)
		if err != nil {
			return nil, fmt.Errorf("buscar sku: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, domain.ErrDuplicateSKU
		}
	}

	patch := repository.ProductPatch{
		Name:         in.Name,
		Description:  in.Description,
		SKU:          in.SKU,
		CategoryID:   in.CategoryID,
		Price:        in.Price,
		Cost:         in.Cost,
		CurrentStock: in.CurrentStock,
		MinStock:     in.MinStock,
		MaxStock:     in.MaxStock,
	}
	if patch.IsEmpty() {
		return ToProductResponse(existing), nil
	}
	updated, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(updated), nil
}

// Delete elimina sin comprobar referencias; el backend decide sobre los movimientos asociados.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// List lista paginado. Nunca devuelve page < 1 ni total_pages < 1.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	in.Normalize(dto.DefaultProductPageSize)
	products, count, err := uc.repo.ListWithCount(ctx, repository.ProductListParams{
		Search: strings.TrimSpace(in.Search),
		Limit:  in.PageSize,
		Offset: in.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, count)}, nil
}

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		SKU:          p.SKU,
		CategoryID:   p.CategoryID,
		Price:        p.Price,
		Cost:         p.Cost,
		CurrentStock: p.CurrentStock,
		MinStock:     p.MinStock,
		MaxStock:     p.MaxStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func checkName(v *domain.Validator, name string) {
	v.Check(utf8.RuneCountInString(name) >= minProductNameLen, "name", "mínimo 3 caracteres")
}

func checkSKU(v *domain.Validator, sku string) {
	v.Check(utf8.RuneCountInString(sku) >= minSKULen, "sku", "mínimo 4 caracteres")
}

func checkPositive(v *domain.Validator, field string, d decimal.Decimal) {
	v.Check(d.GreaterThan(decimal.Zero), field, "debe ser mayor que cero")
}

func checkNonNegative(v *domain.Validator, field string, n *int) {
	if n != nil {
		v.Check(*n >= 0, field, "no puede ser negativo")
	}
}
