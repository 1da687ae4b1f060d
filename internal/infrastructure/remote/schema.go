// Package remote adapta los puertos de repositorio al conjunto de capacidades de backend.Client.
// La traducción fila <-> entidad se hace con esquemas explícitos por tabla: la lista de columnas es
// exhaustiva y una columna obligatoria ausente es un error de mapeo, nunca un valor por defecto.
package remote

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
)

// FallbackProductName nombre del movimiento cuyo producto no se pudo resolver.
const FallbackProductName = "Producto"

// Columnas por tabla.
var (
	productColumns  = []string{"id", "name", "description", "sku", "category_id", "price", "cost", "current_stock", "min_stock", "max_stock", "created_at", "updated_at"}
	categoryColumns = []string{"id", "name", "description", "created_at"}
	supplierColumns = []string{"id", "name", "contact", "email", "phone", "address", "created_at"}
	movementColumns = []string{"id", "product_id", "type", "quantity", "reason", "created_at"}
)

// MappingError fila que no cumple el esquema.
type MappingError struct {
	Table    string
	Problems []string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("remote: fila de %s inválida: %s", e.Table, strings.Join(e.Problems, "; "))
}

// reader lee columnas tipadas y acumula los problemas.
type reader struct {
	table    string
	row      backend.Row
	problems []string
}

func (r *reader) fail(col, msg string) {
	r.problems = append(r.problems, col+": "+msg)
}

func (r *reader) err() error {
	if len(r.problems) == 0 {
		return nil
	}
	return &MappingError{Table: r.table, Problems: r.problems}
}

// str lee texto. Si optional, nil se lee como "".
func (r *reader) str(col string, optional bool) string {
	v, ok := r.row[col]
	if !ok || v == nil {
		if !optional {
			r.fail(col, "ausente")
		}
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case [16]byte:
		return uuid.UUID(s).String()
	case uuid.UUID:
		return s.String()
	}
	r.fail(col, fmt.Sprintf("tipo %T", v))
	return ""
}

func (r *reader) integer(col string) int {
	v, ok := r.row[col]
	if !ok || v == nil {
		r.fail(col, "ausente")
		return 0
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case int32:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	case decimal.Decimal:
		return int(n.IntPart())
	}
	r.fail(col, fmt.Sprintf("tipo %T", v))
	return 0
}

func (r *reader) money(col string) decimal.Decimal {
	v, ok := r.row[col]
	if !ok || v == nil {
		r.fail(col, "ausente")
		return decimal.Zero
	}
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case int64:
		return decimal.NewFromInt(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case float64:
		return decimal.NewFromFloat(n)
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			r.fail(col, err.Error())
		}
		return d
	}
	r.fail(col, fmt.Sprintf("tipo %T", v))
	return decimal.Zero
}

// timestamp lee una fecha; ok=false si la columna es nil o no existe.
func (r *reader) timestamp(col string, optional bool) (time.Time, bool) {
	v, present := r.row[col]
	if !present || v == nil {
		if !optional {
			r.fail(col, "ausente")
		}
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			r.fail(col, err.Error())
			return time.Time{}, false
		}
		return parsed, true
	}
	r.fail(col, fmt.Sprintf("tipo %T", v))
	return time.Time{}, false
}

// RowToProduct mapea una fila de products. description y category_id nulos se leen como "";
// updated_at nulo toma created_at.
func RowToProduct(row backend.Row) (*entity.Product, error) {
	r := &reader{table: backend.TableProducts, row: row}
	p := &entity.Product{
		ID:           r.str("id", false),
		Name:         r.str("name", false),
		Description:  r.str("description", true),
		SKU:          r.str("sku", false),
		CategoryID:   r.str("category_id", true),
		Price:        r.money("price"),
		Cost:         r.money("cost"),
		CurrentStock: r.integer("current_stock"),
		MinStock:     r.integer("min_stock"),
		MaxStock:     r.integer("max_stock"),
	}
	p.CreatedAt, _ = r.timestamp("created_at", false)
	if updated, ok := r.timestamp("updated_at", true); ok {
		p.UpdatedAt = updated
	} else {
		p.UpdatedAt = p.CreatedAt
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductToRow inversa de RowToProduct.
func ProductToRow(p *entity.Product) backend.Row {
	return backend.Row{
		"id":            p.ID,
		"name":          p.Name,
		"description":   p.Description,
		"sku":           p.SKU,
		"category_id":   p.CategoryID,
		"price":         p.Price,
		"cost":          p.Cost,
		"current_stock": int64(p.CurrentStock),
		"min_stock":     int64(p.MinStock),
		"max_stock":     int64(p.MaxStock),
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	}
}

// RowToCategory mapea una fila de categories.
func RowToCategory(row backend.Row) (*entity.Category, error) {
	r := &reader{table: backend.TableCategories, row: row}
	c := &entity.Category{
		ID:          r.str("id", false),
		Name:        r.str("name", false),
		Description: r.str("description", true),
	}
	c.CreatedAt, _ = r.timestamp("created_at", false)
	if err := r.err(); err != nil {
		return nil, err
	}
	return c, nil
}

// CategoryToRow inversa de RowToCategory.
func CategoryToRow(c *entity.Category) backend.Row {
	return backend.Row{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
		"created_at":  c.CreatedAt,
	}
}

// RowToSupplier mapea una fila de suppliers. Los datos de contacto son opcionales.
func RowToSupplier(row backend.Row) (*entity.Supplier, error) {
	r := &reader{table: backend.TableSuppliers, row: row}
	s := &entity.Supplier{
		ID:      r.str("id", false),
		Name:    r.str("name", false),
		Contact: r.str("contact", true),
		Email:   r.str("email", true),
		Phone:   r.str("phone", true),
		Address: r.str("address", true),
	}
	s.CreatedAt, _ = r.timestamp("created_at", false)
	if err := r.err(); err != nil {
		return nil, err
	}
	return s, nil
}

// SupplierToRow inversa de RowToSupplier.
func SupplierToRow(s *entity.Supplier) backend.Row {
	return backend.Row{
		"id":         s.ID,
		"name":       s.Name,
		"contact":    s.Contact,
		"email":      s.Email,
		"phone":      s.Phone,
		"address":    s.Address,
		"created_at": s.CreatedAt,
	}
}

// RowToMovement mapea una fila de stock_movements. El nombre del producto sale del embebido
// products.name o, si falta, de FallbackProductName.
func RowToMovement(row backend.Row) (*entity.StockMovement, error) {
	r := &reader{table: backend.TableMovements, row: row}
	m := &entity.StockMovement{
		ID:        r.str("id", false),
		ProductID: r.str("product_id", false),
		Quantity:  r.integer("quantity"),
		Reason:    r.str("reason", true),
	}
	kind := r.str("type", false)
	if kind != "" {
		t, err := entity.ParseMovementType(kind)
		if err != nil {
			r.fail("type", err.Error())
		}
		m.Type = t
	}
	m.CreatedAt, _ = r.timestamp("created_at", false)
	m.ProductName = FallbackProductName
	if nested, ok := row[backend.TableProducts].(backend.Row); ok {
		if name, ok := nested["name"].(string); ok && name != "" {
			m.ProductName = name
		}
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return m, nil
}

// MovementToRow inversa de RowToMovement (sin el embebido).
func MovementToRow(m *entity.StockMovement) backend.Row {
	return backend.Row{
		"id":         m.ID,
		"product_id": m.ProductID,
		"type":       string(m.Type),
		"quantity":   int64(m.Quantity),
		"reason":     m.Reason,
		"created_at": m.CreatedAt,
	}
}

// mapRows aplica fn a cada fila.
func mapRows[E any](rows []backend.Row, fn func(backend.Row) (*E, error)) ([]*E, error) {
	out := make([]*E, 0, len(rows))
	for _, row := range rows {
		e, err := fn(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
