package csvimport_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/application/usecase"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
	"github.com/jhoicas/estoque/internal/infrastructure/csvimport"
	"github.com/jhoicas/estoque/internal/infrastructure/remote"
)

const sample = `sku,name,category_id,price,cost,current_stock,min_stock,max_stock
CAFE-01,Café torrado,c1,"20,50",12,10,2,50

CHA-001,Chá mate,c1,8.00,3,0,0,20
`

func TestRead_UTF8(t *testing.T) {
	rows, rowErrs, err := csvimport.Read(strings.NewReader(sample), csvimport.Options{})

	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Café torrado", rows[0].Product.Name)
	assert.Equal(t, "20.5", rows[0].Product.Price.String())
	assert.Equal(t, 50, rows[0].Product.MaxStock)
	assert.Equal(t, 4, rows[1].Line, "la línea en blanco se salta pero cuenta")
}

func TestRead_Latin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String("name;sku;category_id;price;cost\nAçúcar;ACUC-01;c1;4,90;2,10\n")
	require.NoError(t, err)

	rows, _, err := csvimport.Read(bytes.NewReader([]byte(encoded)), csvimport.Options{Latin1: true, Delimiter: ';'})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Açúcar", rows[0].Product.Name)
	assert.Equal(t, "4.9", rows[0].Product.Price.String())
}

func TestRead_ColumnaFaltante(t *testing.T) {
	_, _, err := csvimport.Read(strings.NewReader("name,sku,price\nA,B,1\n"), csvimport.Options{})

	assert.ErrorIs(t, err, csvimport.ErrMissingColumn)
}

func TestRead_FilaInvalidaNoDetiene(t *testing.T) {
	in := "name,sku,category_id,price,cost,current_stock\nA,AAAA,c1,x,1,0\nB,BBBB,c1,2,1,dez\nC,CCCC,c1,2,1,3\n"

	rows, rowErrs, err := csvimport.Read(strings.NewReader(in), csvimport.Options{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CCCC", rows[0].Product.SKU)
	require.Len(t, rowErrs, 2)
	assert.Equal(t, 2, rowErrs[0].Line)
	assert.Contains(t, rowErrs[0].Error(), "price")
	assert.Equal(t, 3, rowErrs[1].Line)
}

// ──────────────────────────────────────────────────────────────────────────────
// Import
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_ContraBackendEnMemoria(t *testing.T) {
	mem := backend.NewMemory()
	uc := usecase.NewProductUseCase(remote.NewProductRepository(mem))
	in := sample + "CAFE-01,Café repetido,c1,1,1,0,0,0\n"
	rows, _, err := csvimport.Read(strings.NewReader(in), csvimport.Options{})
	require.NoError(t, err)

	sum, err := csvimport.Import(context.Background(), uc, rows)

	require.NoError(t, err)
	assert.Equal(t, 2, sum.Created)
	require.Len(t, sum.Failed, 1)
	assert.Equal(t, 5, sum.Failed[0].Line)
	assert.Equal(t, 2, mem.Count(backend.TableProducts))
}

type failingCreator struct{ calls int }

func (f *failingCreator) Create(context.Context, dto.CreateProductRequest) (*dto.ProductResponse, error) {
	f.calls++
	return nil, errors.New("boom")
}

func TestImport_CtxCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &failingCreator{}

	_, err := csvimport.Import(ctx, c, []csvimport.Record{{Line: 2}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.calls)
}
