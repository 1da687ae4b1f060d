package backend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Operaciones para FailNext.
const (
	OpList   = "list"
	OpGet    = "get"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	OpCall   = "call"
)

// uniqueColumns columnas con restricción UNIQUE por tabla.
var uniqueColumns = map[string][]string{
	TableProducts: {"sku"},
}

// touchesUpdatedAt tablas con columna updated_at.
var touchesUpdatedAt = map[string]bool{
	TableProducts: true,
}

// Memory implementación en proceso de Client. Asigna ids uuid y timestamps como lo haría el
// servidor y permite inyectar latencia y fallos.
type Memory struct {
	mu      sync.RWMutex
	tables  map[string]map[string]Row
	order   map[string][]string
	now     func() time.Time
	latency time.Duration
	fail    map[string][]error
}

// MemoryOption configura Memory.
type MemoryOption func(*Memory)

// WithClock fija el reloj usado para created_at / updated_at.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithLatency retrasa cada operación.
func WithLatency(d time.Duration) MemoryOption {
	return func(m *Memory) { m.latency = d }
}

// NewMemory crea un backend vacío con las cuatro tablas.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		tables: make(map[string]map[string]Row),
		order:  make(map[string][]string),
		now:    time.Now,
		fail:   make(map[string][]error),
	}
	for _, t := range []string{TableProducts, TableCategories, TableSuppliers, TableMovements} {
		m.tables[t] = make(map[string]Row)
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

var _ Client = (*Memory)(nil)

// FailNext hace que la próxima operación op devuelva err.
func (m *Memory) FailNext(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op] = append(m.fail[op], err)
}

// SetLatency cambia la latencia simulada.
func (m *Memory) SetLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = d
}

// Seed inserta filas tal cual (con su id), sin asignar timestamps.
func (m *Memory) Seed(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.tableLocked(table)
	for _, r := range rows {
		id, _ := r["id"].(string)
		if id == "" {
			id = uuid.NewString()
		}
		row := r.Clone()
		row["id"] = id
		if _, exists := t[id]; !exists {
			m.order[table] = append(m.order[table], id)
		}
		t[id] = row
	}
}

// Count filas de la tabla.
func (m *Memory) Count(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func (m *Memory) tableLocked(table string) map[string]Row {
	t, ok := m.tables[table]
	if !ok {
		t = make(map[string]Row)
		m.tables[table] = t
	}
	return t
}

// enter aplica latencia y fallos inyectados.
func (m *Memory) enter(ctx context.Context, op string) error {
	m.mu.Lock()
	d := m.latency
	var injected error
	if q := m.fail[op]; len(q) > 0 {
		injected, m.fail[op] = q[0], q[1:]
	}
	m.mu.Unlock()

	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return injected
}

// List filtra, ordena, cuenta y recorta según q.
func (m *Memory) List(ctx context.Context, table string, q ListQuery) (ListResult, error) {
	if err := m.enter(ctx, OpList); err != nil {
		return ListResult{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[table]
	if !ok {
		return ListResult{}, fmt.Errorf("relation %q does not exist", table)
	}
	ids := append([]string(nil), m.order[table]...)
	if len(q.OrderBy) > 0 && q.OrderBy[0].Desc {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}

	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		r := t[id]
		if matches(r, q.Filters) {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range q.OrderBy {
			c, _ := compare(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	count := len(rows)
	if q.Range != nil {
		start, end := q.Range.Start, q.Range.End+1
		if start > len(rows) {
			start = len(rows)
		}
		if end > len(rows) {
			end = len(rows)
		}
		if end < start {
			end = start
		}
		rows = rows[start:end]
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		c := project(r, q.Columns)
		if q.Embed != nil {
			c[q.Embed.Table] = m.embedLocked(r, q.Embed)
		}
		out = append(out, c)
	}
	return ListResult{Rows: out, Count: count}, nil
}

func (m *Memory) embedLocked(r Row, e *Embed) any {
	ref, _ := r[e.ForeignKey].(string)
	target, ok := m.tables[e.Table][ref]
	if !ok {
		return nil
	}
	nested := make(Row, len(e.Columns))
	for _, col := range e.Columns {
		nested[col] = target[col]
	}
	return nested
}

// GetByKey devuelve la fila con id o ErrRowNotFound.
func (m *Memory) GetByKey(ctx context.Context, table, id string) (Row, error) {
	if err := m.enter(ctx, OpGet); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.tables[table][id]
	if !ok {
		return nil, ErrRowNotFound
	}
	return r.Clone(), nil
}

// Insert asigna id y timestamps y verifica columnas únicas.
func (m *Memory) Insert(ctx context.Context, table string, row Row) (Row, error) {
	if err := m.enter(ctx, OpInsert); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(table, row)
}

func (m *Memory) insertLocked(table string, row Row) (Row, error) {
	t := m.tableLocked(table)
	r := row.Clone()
	if r == nil {
		r = Row{}
	}
	if err := m.checkUniqueLocked(table, "", r); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	now := m.now()
	r["id"] = id
	r["created_at"] = now
	if touchesUpdatedAt[table] {
		r["updated_at"] = now
	}
	t[id] = r
	m.order[table] = append(m.order[table], id)
	return r.Clone(), nil
}

// Update aplica sólo las columnas de patch.
func (m *Memory) Update(ctx context.Context, table, id string, patch Row) (Row, error) {
	if err := m.enter(ctx, OpUpdate); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(table, id, patch)
}

func (m *Memory) updateLocked(table, id string, patch Row) (Row, error) {
	current, ok := m.tables[table][id]
	if !ok {
		return nil, ErrRowNotFound
	}
	next := current.Clone()
	for k, v := range patch {
		if k == "id" || k == "created_at" {
			continue
		}
		next[k] = v
	}
	if err := m.checkUniqueLocked(table, id, next); err != nil {
		return nil, err
	}
	if touchesUpdatedAt[table] {
		if _, explicit := patch["updated_at"]; !explicit {
			next["updated_at"] = m.now()
		}
	}
	m.tables[table][id] = next
	return next.Clone(), nil
}

func (m *Memory) checkUniqueLocked(table, selfID string, r Row) error {
	for _, col := range uniqueColumns[table] {
		v, ok := r[col]
		if !ok {
			continue
		}
		for id, other := range m.tables[table] {
			if id != selfID && other[col] == v {
				return fmt.Errorf("%w: %s.%s", ErrUniqueViolation, table, col)
			}
		}
	}
	return nil
}

// Delete elimina la fila; ErrRowNotFound si no existe.
func (m *Memory) Delete(ctx context.Context, table, id string) error {
	if err := m.enter(ctx, OpDelete); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.tables[table]
	if _, ok := t[id]; !ok {
		return ErrRowNotFound
	}
	delete(t, id)
	ids := m.order[table]
	for i, v := range ids {
		if v == id {
			m.order[table] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// CallProcedure ejecuta get_dashboard_kpis o handle_stock_movement.
func (m *Memory) CallProcedure(ctx context.Context, name string, args Row) ([]Row, error) {
	if err := m.enter(ctx, OpCall); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch name {
	case ProcDashboardKPIs:
		return []Row{m.kpisLocked()}, nil
	case ProcStockMovement:
		return nil, m.stockMovementLocked(args)
	}
	return nil, fmt.Errorf("function %s does not exist", name)
}

func (m *Memory) kpisLocked() Row {
	products := m.tables[TableProducts]
	lowStock := int64(0)
	value := decimal.Zero
	for _, p := range products {
		stock := asInt64(p["current_stock"])
		if stock <= asInt64(p["min_stock"]) {
			lowStock++
		}
		cost, _ := p["cost"].(decimal.Decimal)
		value = value.Add(cost.Mul(decimal.NewFromInt(stock)))
	}
	y, mo, d := m.now().Date()
	today := int64(0)
	for _, mv := range m.tables[TableMovements] {
		if at, ok := mv["created_at"].(time.Time); ok {
			ay, amo, ad := at.Date()
			if ay == y && amo == mo && ad == d {
				today++
			}
		}
	}
	return Row{
		"total_products":    int64(len(products)),
		"low_stock_count":   lowStock,
		"total_stock_value": value,
		"movements_today":   today,
	}
}

// stockMovementLocked aplica el delta de stock e inserta el movimiento en una sola sección crítica.
func (m *Memory) stockMovementLocked(args Row) error {
	productID, _ := args[ArgProductID].(string)
	kind, _ := args[ArgMovementType].(string)
	qty := asInt64(args[ArgQuantity])
	reason, _ := args[ArgReason].(string)

	if qty <= 0 {
		return fmt.Errorf("%w: quantity_param debe ser positivo", ErrCheckViolation)
	}
	var sign int64
	switch kind {
	case "ENTRADA":
		sign = 1
	case "SAÍDA":
		sign = -1
	default:
		return fmt.Errorf("%w: movement_type %q", ErrCheckViolation, kind)
	}
	p, ok := m.tables[TableProducts][productID]
	if !ok {
		return ErrRowNotFound
	}
	next := asInt64(p["current_stock"]) + sign*qty
	if next < 0 {
		return fmt.Errorf("%w: stock insuficiente", ErrCheckViolation)
	}
	if _, err := m.updateLocked(TableProducts, productID, Row{"current_stock": next}); err != nil {
		return err
	}
	_, err := m.insertLocked(TableMovements, Row{
		"product_id": productID,
		"type":       kind,
		"quantity":   qty,
		"reason":     reason,
	})
	return err
}

func project(r Row, columns []string) Row {
	if len(columns) == 0 {
		return r.Clone()
	}
	out := make(Row, len(columns))
	for _, col := range columns {
		if v, ok := r[col]; ok {
			out[col] = v
		}
	}
	return out
}

func matches(r Row, filters []Filter) bool {
	for _, f := range filters {
		v := r[f.Column]
		switch f.Op {
		case OpEq:
			if c, ok := compare(v, f.Value); !ok || c != 0 {
				return false
			}
		case OpLte:
			if c, ok := compare(v, f.Value); !ok || c > 0 {
				return false
			}
		case OpIlike:
			s, _ := v.(string)
			term, _ := f.Value.(string)
			if !strings.Contains(strings.ToLower(s), strings.ToLower(term)) {
				return false
			}
		case OpOr:
			subs, _ := f.Value.([]Filter)
			if !matchesAny(r, subs) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchesAny(r Row, filters []Filter) bool {
	for _, f := range filters {
		if matches(r, []Filter{f}) {
			return true
		}
	}
	return false
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case decimal.Decimal:
		return n.IntPart()
	}
	return 0
}

// compare ordena valores canónicos. ok=false si los tipos no son comparables.
func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case nil:
		if b == nil {
			return 0, true
		}
		return -1, true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case decimal.Decimal:
		switch y := b.(type) {
		case decimal.Decimal:
			return x.Cmp(y), true
		case int, int32, int64:
			return x.Cmp(decimal.NewFromInt(asInt64(y))), true
		}
		return 0, false
	case int, int32, int64:
		switch y := b.(type) {
		case int, int32, int64:
			xi, yi := asInt64(x), asInt64(y)
			switch {
			case xi < yi:
				return -1, true
			case xi > yi:
				return 1, true
			}
			return 0, true
		case decimal.Decimal:
			return decimal.NewFromInt(asInt64(x)).Cmp(y), true
		}
		return 0, false
	}
	if b == nil {
		return 1, true
	}
	return 0, false
}
