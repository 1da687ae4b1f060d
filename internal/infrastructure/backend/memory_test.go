package backend_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque/internal/domain"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
)

var ctx = context.Background()

func seedProducts(m *backend.Memory) {
	m.Seed(backend.TableCategories, backend.Row{"id": "c1", "name": "Bebidas"})
	m.Seed(backend.TableProducts,
		backend.Row{"id": "p1", "name": "Café", "sku": "CAF1", "category_id": "c1", "cost": decimal.NewFromInt(5), "current_stock": int64(3), "min_stock": int64(5)},
		backend.Row{"id": "p2", "name": "Chá", "sku": "CHA1", "category_id": "c1", "cost": decimal.NewFromInt(2), "current_stock": int64(20), "min_stock": int64(1)},
		backend.Row{"id": "p3", "name": "Cacau", "sku": "CAC1", "category_id": "c1", "cost": decimal.NewFromInt(1), "current_stock": int64(8), "min_stock": int64(0)},
	)
}

func TestMemory_ListFiltraCuentaYRecorta(t *testing.T) {
	m := backend.NewMemory()
	seedProducts(m)

	res, err := m.List(ctx, backend.TableProducts, backend.ListQuery{
		Filters: []backend.Filter{backend.Ilike("name", "ca")},
		OrderBy: []backend.Order{{Column: "name"}},
		Range:   backend.PageRange(1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count, "el conteo es del total filtrado, no de la página")
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Cacau", res.Rows[0]["name"])

	low, err := m.List(ctx, backend.TableProducts, backend.ListQuery{
		Filters: []backend.Filter{backend.Lte("current_stock", 10)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, low.Count)
}

func TestMemory_ListFiltroOr(t *testing.T) {
	m := backend.NewMemory()
	seedProducts(m)

	res, err := m.List(ctx, backend.TableProducts, backend.ListQuery{
		Filters: []backend.Filter{backend.IlikeAny("cha", "name", "sku"), backend.Lte("current_stock", 30)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "p2", res.Rows[0]["id"])

	res, err = m.List(ctx, backend.TableProducts, backend.ListQuery{
		Filters: []backend.Filter{backend.IlikeAny("caf1", "name", "sku")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count, "coincide por sku aunque el nombre no")
	assert.Equal(t, "p1", res.Rows[0]["id"])

	res, err = m.List(ctx, backend.TableProducts, backend.ListQuery{Filters: []backend.Filter{backend.Or()}})
	require.NoError(t, err)
	assert.Zero(t, res.Count, "disyunción vacía no coincide")
}

func TestMemory_ListFueraDeRango(t *testing.T) {
	m := backend.NewMemory()
	seedProducts(m)

	res, err := m.List(ctx, backend.TableProducts, backend.ListQuery{Range: backend.PageRange(10, 30)})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, 3, res.Count)
}

func TestMemory_InsertAsignaIDYRechazaSKUDuplicado(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := backend.NewMemory(backend.WithClock(func() time.Time { return now }))

	row, err := m.Insert(ctx, backend.TableProducts, backend.Row{"name": "X", "sku": "SKU9999"})
	require.NoError(t, err)
	assert.NotEmpty(t, row["id"])
	assert.Equal(t, now, row["created_at"])
	assert.Equal(t, now, row["updated_at"])

	_, err = m.Insert(ctx, backend.TableProducts, backend.Row{"name": "Y", "sku": "SKU9999"})
	assert.ErrorIs(t, err, backend.ErrUniqueViolation)
	assert.Equal(t, 1, m.Count(backend.TableProducts))
}

func TestMemory_UpdateParcial(t *testing.T) {
	m := backend.NewMemory()
	seedProducts(m)

	row, err := m.Update(ctx, backend.TableProducts, "p1", backend.Row{"name": "Café Especial"})
	require.NoError(t, err)
	assert.Equal(t, "Café Especial", row["name"])
	assert.Equal(t, "CAF1", row["sku"], "las columnas omitidas no cambian")

	_, err = m.Update(ctx, backend.TableProducts, "nope", backend.Row{"name": "x"})
	assert.ErrorIs(t, err, backend.ErrRowNotFound)
}

func TestMemory_Delete(t *testing.T) {
	m := backend.NewMemory()
	seedProducts(m)

	require.NoError(t, m.Delete(ctx, backend.TableProducts, "p2"))
	_, err := m.GetByKey(ctx, backend.TableProducts, "p2")
	assert.ErrorIs(t, err, backend.ErrRowNotFound)
	assert.ErrorIs(t, m.Delete(ctx, backend.TableProducts, "p2"), backend.ErrRowNotFound)
}

func TestMemory_ProcedimientoDeStock(t *testing.T) {
	m := backend.NewMemory()
	seedProducts(m)

	_, err := m.CallProcedure(ctx, backend.ProcStockMovement, backend.Row{
		backend.ArgProductID: "p1", backend.ArgMovementType: "ENTRADA", backend.ArgQuantity: int64(4), backend.ArgReason: "Compra",
	})
	require.NoError(t, err)

	p, err := m.GetByKey(ctx, backend.TableProducts, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), p["current_stock"])

	res, err := m.List(ctx, backend.TableMovements, backend.ListQuery{
		Embed: &backend.Embed{Table: backend.TableProducts, ForeignKey: "product_id", Columns: []string{"name"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, backend.Row{"name": "Café"}, res.Rows[0][backend.TableProducts])

	_, err = m.CallProcedure(ctx, backend.ProcStockMovement, backend.Row{
		backend.ArgProductID: "p1", backend.ArgMovementType: "SAÍDA", backend.ArgQuantity: int64(8), backend.ArgReason: "Venda",
	})
	assert.ErrorIs(t, err, backend.ErrCheckViolation)
	p, _ = m.GetByKey(ctx, backend.TableProducts, "p1")
	assert.Equal(t, int64(7), p["current_stock"], "un movimiento rechazado no toca el stock")
	assert.Equal(t, 1, m.Count(backend.TableMovements))

	_, err = m.CallProcedure(ctx, backend.ProcStockMovement, backend.Row{
		backend.ArgProductID: "zzz", backend.ArgMovementType: "ENTRADA", backend.ArgQuantity: int64(1),
	})
	assert.ErrorIs(t, err, backend.ErrRowNotFound)
}

func TestMemory_KPIs(t *testing.T) {
	m := backend.NewMemory()
	seedProducts(m)

	rows, err := m.CallProcedure(ctx, backend.ProcDashboardKPIs, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0]["total_products"])
	assert.Equal(t, int64(1), rows[0]["low_stock_count"])
	assert.True(t, decimal.NewFromInt(63).Equal(rows[0]["total_stock_value"].(decimal.Decimal)))
}

func TestMemory_FalloInyectadoYLatencia(t *testing.T) {
	m := backend.NewMemory(backend.WithLatency(5 * time.Millisecond))
	boom := errors.New("connection refused")
	m.FailNext(backend.OpInsert, boom)

	_, err := m.Insert(ctx, backend.TableCategories, backend.Row{"name": "x"})
	assert.ErrorIs(t, err, boom)
	_, err = m.Insert(ctx, backend.TableCategories, backend.Row{"name": "x"})
	assert.NoError(t, err, "el fallo se consume una sola vez")

	short, cancel := context.WithTimeout(ctx, time.Millisecond)
	defer cancel()
	_, err = m.List(short, backend.TableCategories, backend.ListQuery{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, backend.Translate("op", nil))
	assert.ErrorIs(t, backend.Translate("op", backend.ErrRowNotFound), backend.ErrRowNotFound)

	err := backend.Translate("listar productos", errors.New(`permission denied for table products`))
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "permiso denegado")

	err = backend.Translate("listar", errors.New(`relation "x" does not exist`))
	assert.Contains(t, err.Error(), "inexistente")

	err = backend.Translate("listar", context.DeadlineExceeded)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
