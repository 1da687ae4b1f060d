package repository

import (
	"context"

	"github.com/jhoicas/estoque/internal/domain/entity"
)

// CategoryFields campos editables de una categoría (nil = sin cambio en Update).
type CategoryFields struct {
	Name        *string
	Description *string
}

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	Create(ctx context.Context, name, description string) (*entity.Category, error)
	Update(ctx context.Context, id string, fields CategoryFields) (*entity.Category, error)
	Delete(ctx context.Context, id string) error
}
