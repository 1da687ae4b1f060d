package remote

import (
	"context"

	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

var productNameEmbed = &backend.Embed{
	Table:      backend.TableProducts,
	ForeignKey: "product_id",
	Columns:    []string{"name"},
}

// MovementRepo implementación del puerto StockMovementRepository sobre backend.Client.
type MovementRepo struct {
	c backend.Client
}

// NewMovementRepository construye el adaptador del ledger.
func NewMovementRepository(c backend.Client) *MovementRepo {
	return &MovementRepo{c: c}
}

// ListWithCount página del ledger, más recientes primero.
func (r *MovementRepo) ListWithCount(ctx context.Context, params repository.MovementListParams) ([]*entity.StockMovement, int, error) {
	q := backend.ListQuery{
		Columns: movementColumns,
		OrderBy: []backend.Order{{Column: "created_at", Desc: true}},
		Range:   backend.PageRange(params.Limit, params.Offset),
		Embed:   productNameEmbed,
	}
	if params.ProductID != "" {
		q.Filters = append(q.Filters, backend.Eq("product_id", params.ProductID))
	}
	res, err := r.c.List(ctx, backend.TableMovements, q)
	if err != nil {
		return nil, 0, mapErr("list movements", err)
	}
	items, err := mapRows(res.Rows, RowToMovement)
	if err != nil {
		return nil, 0, mapErr("list movements", err)
	}
	return items, res.Count, nil
}

// ListRecent últimos limit movimientos; limit <= 0 trae todos.
func (r *MovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.StockMovement, error) {
	items, _, err := r.ListWithCount(ctx, repository.MovementListParams{Limit: limit})
	return items, err
}

// Register llama a handle_stock_movement, que aplica el delta y agrega el movimiento.
func (r *MovementRepo) Register(ctx context.Context, in repository.MovementInput) error {
	_, err := r.c.CallProcedure(ctx, backend.ProcStockMovement, backend.Row{
		backend.ArgProductID:    in.ProductID,
		backend.ArgMovementType: string(in.Type),
		backend.ArgQuantity:     int64(in.Quantity),
		backend.ArgReason:       in.Reason,
	})
	return mapErr("register movement", err)
}
