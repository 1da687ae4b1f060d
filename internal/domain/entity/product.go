package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque/internal/domain"
)

// Product representa un producto del catálogo.
// Las reglas de forma (longitudes, precios positivos) viven en el caso de uso; la entidad solo
// protege MinStock <= MaxStock y CurrentStock >= 0.
type Product struct {
	ID           string
	Name         string
	Description  string
	SKU          string // único en el catálogo
	CategoryID   string // referencia no verificada por el dominio
	Price        decimal.Decimal
	Cost         decimal.Decimal
	CurrentStock int
	MinStock     int
	MaxStock     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProduct valida las invariantes y devuelve una copia del producto.
func NewProduct(p Product) (*Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate comprueba las invariantes de la entidad.
func (p *Product) Validate() error {
	if p.MinStock > p.MaxStock {
		return domain.NewInvariantError("minStock no puede ser mayor que maxStock")
	}
	if p.CurrentStock < 0 {
		return domain.NewInvariantError("currentStock no puede ser negativo")
	}
	return nil
}

// UpdateStock fija el stock actual; nunca acepta valores negativos.
func (p *Product) UpdateStock(newStock int) error {
	if newStock < 0 {
		return domain.NewInvariantError("el stock no puede ser negativo")
	}
	p.CurrentStock = newStock
	return nil
}

// IsLowStock indica si el stock actual está en o por debajo del umbral.
func (p *Product) IsLowStock(threshold int) bool {
	return p.CurrentStock <= threshold
}
