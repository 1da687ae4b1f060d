package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/estoque/internal/domain"
)

// MovementType es el tipo cerrado de movimiento de inventario.
type MovementType string

// Valores aceptados por el procedimiento de stock del backend.
const (
	MovementTypeIn  MovementType = "ENTRADA" // entrada
	MovementTypeOut MovementType = "SAÍDA"   // salida
)

// ParseMovementType acepta solo los dos valores del ledger.
func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(s) {
	case MovementTypeIn, MovementTypeOut:
		return MovementType(s), nil
	}
	return "", fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrValidation, s)
}

// Sign devuelve +1 para entradas y -1 para salidas.
func (t MovementType) Sign() int {
	if t == MovementTypeIn {
		return 1
	}
	return -1
}

// StockMovement es una entrada del ledger (solo se agrega, nunca se edita).
// ProductName se desnormaliza en lectura.
type StockMovement struct {
	ID          string
	ProductID   string
	ProductName string
	Type        MovementType
	Quantity    int
	Reason      string
	CreatedAt   time.Time
}
