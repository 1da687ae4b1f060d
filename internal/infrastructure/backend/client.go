// Package backend define el conjunto de capacidades que el núcleo usa del servidor de datos:
// listado con conteo exacto, lectura por clave, insert, update, delete y llamada a procedimientos.
// Las filas usan nombres de columna snake_case y valores canónicos (string, int64,
// decimal.Decimal, time.Time o nil).
package backend

import (
	"context"
)

// Tablas y procedimientos conocidos.
const (
	TableProducts   = "products"
	TableCategories = "categories"
	TableSuppliers  = "suppliers"
	TableMovements  = "stock_movements"

	ProcDashboardKPIs = "get_dashboard_kpis"
	ProcStockMovement = "handle_stock_movement"
)

// Argumentos de handle_stock_movement.
const (
	ArgProductID    = "product_id_param"
	ArgMovementType = "movement_type"
	ArgQuantity     = "quantity_param"
	ArgReason       = "reason_param"
)

// Row fila del backend.
type Row map[string]any

// Clone copia superficial; los valores canónicos son inmutables.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		if nested, ok := v.(Row); ok {
			v = nested.Clone()
		}
		out[k] = v
	}
	return out
}

// Op operador de filtro.
type Op string

const (
	OpEq    Op = "eq"
	OpLte   Op = "lte"
	OpIlike Op = "ilike" // contiene, sin distinguir mayúsculas
	OpOr    Op = "or"    // Value es []Filter; basta con que uno se cumpla
)

// Filter condición sobre una columna.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq, Lte, Ilike atajos para construir filtros.
func Eq(col string, v any) Filter   { return Filter{Column: col, Op: OpEq, Value: v} }
func Lte(col string, v any) Filter  { return Filter{Column: col, Op: OpLte, Value: v} }
func Ilike(col, term string) Filter { return Filter{Column: col, Op: OpIlike, Value: term} }

// Or disyunción de filtros. Column queda vacío.
func Or(filters ...Filter) Filter { return Filter{Op: OpOr, Value: filters} }

// IlikeAny term contenido en cualquiera de cols.
func IlikeAny(term string, cols ...string) Filter {
	fs := make([]Filter, 0, len(cols))
	for _, c := range cols {
		fs = append(fs, Ilike(c, term))
	}
	return Or(fs...)
}

// Order criterio de orden.
type Order struct {
	Column string
	Desc   bool
}

// Range intervalo de filas [Start, End], inclusivo y base 0.
type Range struct {
	Start int
	End   int
}

// PageRange convierte limit/offset en Range. limit <= 0 devuelve nil (sin límite).
func PageRange(limit, offset int) *Range {
	if limit <= 0 {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	return &Range{Start: offset, End: offset + limit - 1}
}

// Embed trae columnas de la fila referenciada por ForeignKey en Table, anidadas bajo la clave Table.
// Si la referencia no existe, el valor anidado es nil.
type Embed struct {
	Table      string
	ForeignKey string
	Columns    []string
}

// ListQuery parámetros de List.
type ListQuery struct {
	Columns []string // vacío = todas
	Filters []Filter
	OrderBy []Order
	Range   *Range
	Embed   *Embed
}

// ListResult filas de la página pedida y conteo exacto del total filtrado.
type ListResult struct {
	Rows  []Row
	Count int
}

// Client conjunto de capacidades del backend.
type Client interface {
	List(ctx context.Context, table string, q ListQuery) (ListResult, error)
	GetByKey(ctx context.Context, table, id string) (Row, error)
	Insert(ctx context.Context, table string, row Row) (Row, error)
	Update(ctx context.Context, table, id string, patch Row) (Row, error)
	Delete(ctx context.Context, table, id string) error
	CallProcedure(ctx context.Context, name string, args Row) ([]Row, error)
}
