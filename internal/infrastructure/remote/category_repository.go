package remote

import (
	"context"

	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre backend.Client.
type CategoryRepo struct {
	c backend.Client
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(c backend.Client) *CategoryRepo {
	return &CategoryRepo{c: c}
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	res, err := r.c.List(ctx, backend.TableCategories, backend.ListQuery{
		Columns: categoryColumns,
		OrderBy: []backend.Order{{Column: "name"}},
	})
	if err != nil {
		return nil, mapErr("list categories", err)
	}
	items, err := mapRows(res.Rows, RowToCategory)
	return items, mapErr("list categories", err)
}

func (r *CategoryRepo) Create(ctx context.Context, name, description string) (*entity.Category, error) {
	row, err := r.c.Insert(ctx, backend.TableCategories, backend.Row{"name": name, "description": description})
	if err != nil {
		return nil, mapErr("insert category", err)
	}
	c, err := RowToCategory(row)
	return c, mapErr("insert category", err)
}

func (r *CategoryRepo) Update(ctx context.Context, id string, fields repository.CategoryFields) (*entity.Category, error) {
	patch := backend.Row{}
	if fields.Name != nil {
		patch["name"] = *fields.Name
	}
	if fields.Description != nil {
		patch["description"] = *fields.Description
	}
	row, err := r.c.Update(ctx, backend.TableCategories, id, patch)
	if err != nil {
		return nil, mapErr("update category", err)
	}
	c, err := RowToCategory(row)
	return c, mapErr("update category", err)
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return mapErr("delete category", r.c.Delete(ctx, backend.TableCategories, id))
}
