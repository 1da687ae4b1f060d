package repository

import (
	"context"

	"github.com/jhoicas/estoque/internal/domain/entity"
)

// MovementListParams paginación del ledger; ProductID vacío = todos los productos.
type MovementListParams struct {
	ProductID string
	Limit     int
	Offset    int
}

// MovementInput argumentos del procedimiento de stock.
type MovementInput struct {
	ProductID string
	Type      entity.MovementType
	Quantity  int
	Reason    string
}

// StockMovementRepository define el puerto del ledger de movimientos.
// Register delega en el procedimiento del backend, que aplica el delta de stock y la inserción
// del ledger de forma atómica.
type StockMovementRepository interface {
	ListWithCount(ctx context.Context, params MovementListParams) ([]*entity.StockMovement, int, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.StockMovement, error)
	Register(ctx context.Context, in MovementInput) error
}
