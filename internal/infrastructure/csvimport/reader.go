// Package csvimport lee planillas de productos (CSV) exportadas de otros sistemas.
//
// La primera fila es la cabecera; el orden de columnas es libre. Columnas requeridas:
// name, sku, category_id, price, cost. Opcionales: description, current_stock, min_stock,
// max_stock. Los decimales aceptan coma ("12,50").
package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/estoque/internal/application/dto"
)

var requiredColumns = []string{"name", "sku", "category_id", "price", "cost"}

// ErrMissingColumn la cabecera no trae una columna requerida.
var ErrMissingColumn = errors.New("csvimport: columna requerida ausente")

// Options formato del archivo.
type Options struct {
	Latin1    bool // ISO-8859-1 en vez de UTF-8
	Delimiter rune // ',' por defecto
}

// RowError error de una fila concreta; Line es 1-based e incluye la cabecera.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }

// Record fila válida con su número de línea.
type Record struct {
	Line    int
	Product dto.CreateProductRequest
}

// Read decodifica todas las filas. Las filas mal formadas se devuelven en rowErrs y no detienen la
// lectura; err sólo se usa para fallos de formato global (cabecera, E/S).
func Read(r io.Reader, opts Options) (rows []Record, rowErrs []RowError, err error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("csvimport: leer cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return rows, rowErrs, fmt.Errorf("csvimport: leer: %w", err)
			}
			rowErrs = append(rowErrs, RowError{Line: pe.StartLine, Err: pe.Err})
			continue
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		p, err := parseRecord(rec, idx)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		rows = append(rows, Record{Line: line, Product: p})
	}
	return rows, rowErrs, nil
}

func parseRecord(rec []string, idx map[string]int) (dto.CreateProductRequest, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	var p dto.CreateProductRequest
	var err error
	p.Name = get("name")
	p.SKU = get("sku")
	p.CategoryID = get("category_id")
	p.Description = get("description")
	if p.Price, err = parseDecimal("price", get("price")); err != nil {
		return p, err
	}
	if p.Cost, err = parseDecimal("cost", get("cost")); err != nil {
		return p, err
	}
	if p.CurrentStock, err = parseInt("current_stock", get("current_stock")); err != nil {
		return p, err
	}
	if p.MinStock, err = parseInt("min_stock", get("min_stock")); err != nil {
		return p, err
	}
	if p.MaxStock, err = parseInt("max_stock", get("max_stock")); err != nil {
		return p, err
	}
	return p, nil
}

func parseDecimal(col, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: número inválido %q", col, s)
	}
	return d, nil
}

func parseInt(col, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: entero inválido %q", col, s)
	}
	return n, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ProductCreator caso de uso que da de alta un producto.
type ProductCreator interface {
	Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error)
}

// Summary resultado de una importación.
type Summary struct {
	Created int
	Failed  []RowError
}

// Import da de alta cada fila con creator. Un error por fila no detiene el resto; la cancelación
// de ctx sí.
func Import(ctx context.Context, creator ProductCreator, rows []Record) (Summary, error) {
	var s Summary
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		if _, err := creator.Create(ctx, r.Product); err != nil {
			s.Failed = append(s.Failed, RowError{Line: r.Line, Err: err})
			continue
		}
		s.Created++
	}
	return s, nil
}
