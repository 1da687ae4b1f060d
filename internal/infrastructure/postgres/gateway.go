package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/estoque/internal/infrastructure/backend"
)

// Querier abstrae pool y tx para que el gateway funcione con cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ backend.Client = (*Gateway)(nil)

// Gateway implementación de backend.Client sobre PostgreSQL (Supabase expone la misma base).
type Gateway struct {
	q Querier
}

// NewGateway construye el gateway. Pasar pool o tx.
func NewGateway(q Querier) *Gateway {
	return &Gateway{q: q}
}

const (
	totalColumn = "__total"
	embedPrefix = "__embed_"
	embedKey    = embedPrefix + "id"
)

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// buildList arma el SELECT paginado con conteo por ventana.
func buildList(table string, q backend.ListQuery) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(q.Filters)+2)

	cols := "t.*"
	if len(q.Columns) > 0 {
		parts := make([]string, 0, len(q.Columns))
		for _, c := range q.Columns {
			parts = append(parts, "t."+ident(c))
		}
		cols = strings.Join(parts, ", ")
	}
	b.WriteString("SELECT ")
	b.WriteString(cols)
	b.WriteString(", count(*) OVER() AS " + totalColumn)
	if e := q.Embed; e != nil {
		b.WriteString(", e.id AS " + embedKey)
		for _, c := range e.Columns {
			b.WriteString(", e." + ident(c) + " AS " + ident(embedPrefix+c))
		}
	}
	b.WriteString(" FROM " + ident(table) + " t")
	if e := q.Embed; e != nil {
		b.WriteString(" LEFT JOIN " + ident(e.Table) + " e ON e.id = t." + ident(e.ForeignKey))
	}

	where := buildWhere(q.Filters, &args)
	if where != "" {
		b.WriteString(" WHERE " + where)
	}
	if len(q.OrderBy) > 0 {
		parts := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, "t."+ident(o.Column)+" "+dir)
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if q.Range != nil {
		args = append(args, q.Range.End-q.Range.Start+1, q.Range.Start)
		fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return b.String(), args
}

func buildWhere(filters []backend.Filter, args *[]any) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if cond := buildCond(f, args); cond != "" {
			parts = append(parts, cond)
		}
	}
	return strings.Join(parts, " AND ")
}

func buildCond(f backend.Filter, args *[]any) string {
	col := "t." + ident(f.Column)
	switch f.Op {
	case backend.OpEq:
		*args = append(*args, f.Value)
		return fmt.Sprintf("%s = $%d", col, len(*args))
	case backend.OpLte:
		*args = append(*args, f.Value)
		return fmt.Sprintf("%s <= $%d", col, len(*args))
	case backend.OpIlike:
		term, _ := f.Value.(string)
		*args = append(*args, escapeLike(term))
		return fmt.Sprintf("%s ILIKE $%d", col, len(*args))
	case backend.OpOr:
		subs, _ := f.Value.([]backend.Filter)
		parts := make([]string, 0, len(subs))
		for _, sf := range subs {
			if cond := buildCond(sf, args); cond != "" {
				parts = append(parts, cond)
			}
		}
		if len(parts) == 0 {
			return "FALSE"
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	}
	return ""
}

func buildCount(table string, filters []backend.Filter) (string, []any) {
	args := make([]any, 0, len(filters))
	sql := "SELECT count(*) FROM " + ident(table) + " t"
	if where := buildWhere(filters, &args); where != "" {
		sql += " WHERE " + where
	}
	return sql, args
}

// sortedColumns columnas de row en orden estable para generar SQL determinista.
func sortedColumns(row backend.Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func buildInsert(table string, row backend.Row) (string, []any) {
	cols := sortedColumns(row)
	names := make([]string, 0, len(cols))
	marks := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for i, c := range cols {
		names = append(names, ident(c))
		marks = append(marks, fmt.Sprintf("$%d", i+1))
		args = append(args, row[c])
	}
	if len(cols) == 0 {
		return "INSERT INTO " + ident(table) + " DEFAULT VALUES RETURNING *", nil
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(table), strings.Join(names, ", "), strings.Join(marks, ", ")), args
}

func buildUpdate(table, id string, patch backend.Row) (string, []any) {
	cols := sortedColumns(patch)
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		if c == "id" || c == "created_at" {
			continue
		}
		args = append(args, patch[c])
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(c), len(args)))
	}
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *",
		ident(table), strings.Join(sets, ", "), len(args)), args
}

func buildCall(name string, args backend.Row) (string, []any) {
	cols := sortedColumns(args)
	parts := make([]string, 0, len(cols))
	values := make([]any, 0, len(cols))
	for i, c := range cols {
		parts = append(parts, fmt.Sprintf("%s => $%d", ident(c), i+1))
		values = append(values, args[c])
	}
	return fmt.Sprintf("SELECT * FROM %s(%s)", ident(name), strings.Join(parts, ", ")), values
}

// normalize convierte los tipos que devuelve pgx a los valores canónicos de backend.Row.
func normalize(v any) any {
	switch x := v.(type) {
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case [16]byte:
		return uuid.UUID(x).String()
	}
	return v
}

func collect(rows pgx.Rows) ([]backend.Row, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	out := make([]backend.Row, 0, len(maps))
	for _, m := range maps {
		r := make(backend.Row, len(m))
		for k, v := range m {
			r[k] = normalize(v)
		}
		out = append(out, r)
	}
	return out, nil
}

// List ejecuta el SELECT y separa el conteo y el embebido.
func (g *Gateway) List(ctx context.Context, table string, q backend.ListQuery) (backend.ListResult, error) {
	sql, args := buildList(table, q)
	rows, err := g.q.Query(ctx, sql, args...)
	if err != nil {
		return backend.ListResult{}, classify("list "+table, err)
	}
	raw, err := collect(rows)
	if err != nil {
		return backend.ListResult{}, classify("list "+table, err)
	}

	res := backend.ListResult{Rows: make([]backend.Row, 0, len(raw))}
	for _, r := range raw {
		if n, ok := r[totalColumn].(int64); ok {
			res.Count = int(n)
		}
		delete(r, totalColumn)
		if e := q.Embed; e != nil {
			var nested backend.Row
			if r[embedKey] != nil {
				nested = backend.Row{}
				for _, c := range e.Columns {
					nested[c] = r[embedPrefix+c]
				}
			}
			for k := range r {
				if strings.HasPrefix(k, embedPrefix) {
					delete(r, k)
				}
			}
			if nested != nil {
				r[e.Table] = nested
			} else {
				r[e.Table] = nil
			}
		}
		res.Rows = append(res.Rows, r)
	}

	// Página vacía: la ventana no devuelve filas, el total se consulta aparte.
	if len(raw) == 0 && q.Range != nil && q.Range.Start > 0 {
		sql, args := buildCount(table, q.Filters)
		var n int64
		if err := g.q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
			return backend.ListResult{}, classify("count "+table, err)
		}
		res.Count = int(n)
	}
	return res, nil
}

// GetByKey SELECT por id.
func (g *Gateway) GetByKey(ctx context.Context, table, id string) (backend.Row, error) {
	rows, err := g.q.Query(ctx, "SELECT * FROM "+ident(table)+" WHERE id = $1", id)
	if err != nil {
		return nil, classify("get "+table, err)
	}
	return single("get "+table, rows)
}

// Insert con RETURNING *; id y timestamps los asignan los defaults de la tabla.
func (g *Gateway) Insert(ctx context.Context, table string, row backend.Row) (backend.Row, error) {
	sql, args := buildInsert(table, row)
	rows, err := g.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify("insert "+table, err)
	}
	return single("insert "+table, rows)
}

// Update sólo de las columnas de patch.
func (g *Gateway) Update(ctx context.Context, table, id string, patch backend.Row) (backend.Row, error) {
	sql, args := buildUpdate(table, id, patch)
	if len(args) == 1 {
		return g.GetByKey(ctx, table, id)
	}
	rows, err := g.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify("update "+table, err)
	}
	return single("update "+table, rows)
}

// Delete por id.
func (g *Gateway) Delete(ctx context.Context, table, id string) error {
	tag, err := g.q.Exec(ctx, "DELETE FROM "+ident(table)+" WHERE id = $1", id)
	if err != nil {
		return classify("delete "+table, err)
	}
	if tag.RowsAffected() == 0 {
		return backend.ErrRowNotFound
	}
	return nil
}

// CallProcedure invoca la función con argumentos nombrados.
func (g *Gateway) CallProcedure(ctx context.Context, name string, args backend.Row) ([]backend.Row, error) {
	sql, values := buildCall(name, args)
	rows, err := g.q.Query(ctx, sql, values...)
	if err != nil {
		return nil, classify("call "+name, err)
	}
	out, err := collect(rows)
	if err != nil {
		return nil, classify("call "+name, err)
	}
	return out, nil
}

func single(op string, rows pgx.Rows) (backend.Row, error) {
	out, err := collect(rows)
	if err != nil {
		return nil, classify(op, err)
	}
	if len(out) == 0 {
		return nil, backend.ErrRowNotFound
	}
	return out[0], nil
}

// classify mapea errores de PostgreSQL a los errores de backend.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return backend.ErrRowNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, backend.ErrUniqueViolation)
	case isConstraintViolation(err):
		return fmt.Errorf("%s: %w: %s", op, backend.ErrCheckViolation, pgMessage(err))
	}
	return backend.Translate(op, err)
}
