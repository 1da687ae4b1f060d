package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/application/usecase"
	"github.com/jhoicas/estoque/internal/domain"
	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
	"github.com/jhoicas/estoque/internal/infrastructure/remote"
)

func validCreate() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:       "Teste",
		SKU:        "SKU9999",
		CategoryID: "c1",
		Price:      decimal.NewFromInt(10),
		Cost:       decimal.NewFromInt(5),
		MaxStock:   10,
	}
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

// ─── Create ───────────────────────────────────────────────────────────────────

func TestProductUseCase_Create_RepositorioVacio(t *testing.T) {
	repo := remote.NewProductRepository(backend.NewMemory())
	uc := usecase.NewProductUseCase(repo)

	res, err := uc.Create(context.Background(), validCreate())

	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "SKU9999", res.SKU)
}

func TestProductUseCase_Create_SKUDuplicado(t *testing.T) {
	uc := usecase.NewProductUseCase(remote.NewProductRepository(backend.NewMemory()))
	ctx := context.Background()

	_, err := uc.Create(ctx, validCreate())
	require.NoError(t, err)

	_, err = uc.Create(ctx, validCreate())
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
}

func TestProductUseCase_Create_MinMayorQueMax_NoTocaRepositorio(t *testing.T) {
	repo := new(productRepoMock)
	uc := usecase.NewProductUseCase(repo)

	in := validCreate()
	in.MinStock, in.MaxStock = 10, 5
	_, err := uc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "FindBySKU", mock.Anything, mock.Anything)
}

func TestProductUseCase_Create_ValidacionListaTodasLasViolaciones(t *testing.T) {
	repo := new(productRepoMock)
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:         "ab",
		SKU:          "S1",
		Price:        decimal.Zero,
		Cost:         decimal.NewFromInt(-1),
		CurrentStock: -1,
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, domain.ErrValidation)
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"name", "sku", "category_id", "price", "cost", "current_stock"}, fields)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUseCase_Create_ErrorDeTransporteEnBusqueda(t *testing.T) {
	repo := new(productRepoMock)
	repo.On("FindBySKU", mock.Anything, "SKU9999").
		Return(nil, &domain.TransportError{Op: "get products", Err: errors.New("timeout")})
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Create(context.Background(), validCreate())

	assert.ErrorIs(t, err, domain.ErrTransport)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ─── Update ───────────────────────────────────────────────────────────────────

func existingProduct() *entity.Product {
	return &entity.Product{
		ID: "p1", Name: "Café", SKU: "CAFE-01", CategoryID: "c1",
		Price: decimal.NewFromInt(20), Cost: decimal.NewFromInt(12),
		CurrentStock: 4, MinStock: 2, MaxStock: 20,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestProductUseCase_Update_NoEncontrado(t *testing.T) {
	repo := new(productRepoMock)
	repo.On("FindByID", mock.Anything, "x").Return(nil, nil)
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Update(context.Background(), "x", dto.UpdateProductRequest{Name: strPtr("Nuevo")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_Update_MinEfectivoMayorQueMax(t *testing.T) {
	repo := new(productRepoMock)
	repo.On("FindByID", mock.Anything, "p1").Return(existingProduct(), nil)
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Update(context.Background(), "p1", dto.UpdateProductRequest{MinStock: intPtr(25)})

	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUseCase_Update_SKUDeOtroProducto(t *testing.T) {
	repo := new(productRepoMock)
	repo.On("FindByID", mock.Anything, "p1").Return(existingProduct(), nil)
	repo.On("FindBySKU", mock.Anything, "TEA-01").Return(&entity.Product{ID: "p2", SKU: "TEA-01"}, nil)
	uc := usecase.NewProductUseCase(repo)

	_, err := uc.Update(context.Background(), "p1", dto.UpdateProductRequest{SKU: strPtr("TEA-01")})

	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
}

func TestProductUseCase_Update_SoloCamposPresentes(t *testing.T) {
	repo := new(productRepoMock)
	repo.On("FindByID", mock.Anything, "p1").Return(existingProduct(), nil)
	updated := existingProduct()
	updated.Name = "Café especial"
	repo.On("Update", mock.Anything, "p1", repository.ProductPatch{Name: strPtr("Café especial")}).
		Return(updated, nil)
	uc := usecase.NewProductUseCase(repo)

	res, err := uc.Update(context.Background(), "p1", dto.UpdateProductRequest{Name: strPtr("  Café especial ")})

	require.NoError(t, err)
	assert.Equal(t, "Café especial", res.Name)
	assert.Equal(t, "CAFE-01", res.SKU)
	repo.AssertExpectations(t)
}

func TestProductUseCase_Update_ContraBackendConservaCamposOmitidos(t *testing.T) {
	uc := usecase.NewProductUseCase(remote.NewProductRepository(backend.NewMemory()))
	ctx := context.Background()
	created, err := uc.Create(ctx, validCreate())
	require.NoError(t, err)

	res, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{CurrentStock: intPtr(7)})

	require.NoError(t, err)
	assert.Equal(t, 7, res.CurrentStock)
	assert.Equal(t, "Teste", res.Name)
	assert.True(t, res.Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 10, res.MaxStock)
}

// ─── Delete / List ────────────────────────────────────────────────────────────

func TestProductUseCase_Delete(t *testing.T) {
	uc := usecase.NewProductUseCase(remote.NewProductRepository(backend.NewMemory()))
	ctx := context.Background()
	created, err := uc.Create(ctx, validCreate())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrNotFound)
	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_List_DosProductos(t *testing.T) {
	uc := usecase.NewProductUseCase(remote.NewProductRepository(backend.NewMemory()))
	ctx := context.Background()
	_, err := uc.Create(ctx, validCreate())
	require.NoError(t, err)
	second := validCreate()
	second.SKU = "SKU8888"
	_, err = uc.Create(ctx, second)
	require.NoError(t, err)

	res, err := uc.List(ctx, dto.ListProductsRequest{PageRequest: dto.PageRequest{Page: 1, PageSize: 10}})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Page.Count)
	assert.Equal(t, 1, res.Page.TotalPages)
	assert.Len(t, res.Items, 2)
}

func TestProductUseCase_List_NormalizaPaginacion(t *testing.T) {
	repo := new(productRepoMock)
	repo.On("ListWithCount", mock.Anything, repository.ProductListParams{Limit: 10, Offset: 0}).
		Return([]*entity.Product{}, 0, nil)
	repo.On("ListWithCount", mock.Anything, repository.ProductListParams{Search: "caf", Limit: 3, Offset: 6}).
		Return([]*entity.Product{existingProduct()}, 7, nil)
	uc := usecase.NewProductUseCase(repo)
	ctx := context.Background()

	empty, err := uc.List(ctx, dto.ListProductsRequest{PageRequest: dto.PageRequest{Page: -2, PageSize: 0}})
	require.NoError(t, err)
	assert.Equal(t, 1, empty.Page.Page)
	assert.Equal(t, 10, empty.Page.PageSize)
	assert.Equal(t, 1, empty.Page.TotalPages)

	third, err := uc.List(ctx, dto.ListProductsRequest{PageRequest: dto.PageRequest{Page: 3, PageSize: 3}, Search: " caf "})
	require.NoError(t, err)
	assert.Equal(t, 3, third.Page.TotalPages)
	assert.Len(t, third.Items, 1)
	repo.AssertExpectations(t)
}

func TestProductUseCase_List_Idempotente(t *testing.T) {
	uc := usecase.NewProductUseCase(remote.NewProductRepository(backend.NewMemory()))
	ctx := context.Background()
	_, err := uc.Create(ctx, validCreate())
	require.NoError(t, err)
	req := dto.ListProductsRequest{PageRequest: dto.PageRequest{Page: 1, PageSize: 5}}

	a, err := uc.List(ctx, req)
	require.NoError(t, err)
	b, err := uc.List(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
