package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
)

// ─── Dobles de repositorio ────────────────────────────────────────────────────

type productRepoMock struct{ mock.Mock }

var _ repository.ProductRepository = (*productRepoMock)(nil)

func (m *productRepoMock) Create(ctx context.Context, data repository.NewProductData) (*entity.Product, error) {
	args := m.Called(ctx, data)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) FindBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	args := m.Called(ctx, sku)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) ListWithCount(ctx context.Context, params repository.ProductListParams) ([]*entity.Product, int, error) {
	args := m.Called(ctx, params)
	items, _ := args.Get(0).([]*entity.Product)
	return items, args.Int(1), args.Error(2)
}

func (m *productRepoMock) ListAll(ctx context.Context) ([]*entity.Product, error) {
	panic("no usado en estos tests")
}

func (m *productRepoMock) ListLowStock(ctx context.Context, threshold, limit int) ([]*entity.Product, error) {
	panic("no usado en estos tests")
}

func (m *productRepoMock) Update(ctx context.Context, id string, patch repository.ProductPatch) (*entity.Product, error) {
	args := m.Called(ctx, id, patch)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type categoryRepoMock struct{ mock.Mock }

func (m *categoryRepoMock) List(ctx context.Context) ([]*entity.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]*entity.Category)
	return items, args.Error(1)
}

func (m *categoryRepoMock) Create(ctx context.Context, name, description string) (*entity.Category, error) {
	args := m.Called(ctx, name, description)
	c, _ := args.Get(0).(*entity.Category)
	return c, args.Error(1)
}

func (m *categoryRepoMock) Update(ctx context.Context, id string, fields repository.CategoryFields) (*entity.Category, error) {
	args := m.Called(ctx, id, fields)
	c, _ := args.Get(0).(*entity.Category)
	return c, args.Error(1)
}

func (m *categoryRepoMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
