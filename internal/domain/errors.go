package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrValidation         = errors.New("entrada inválida")
	ErrBusinessRule       = errors.New("regla de negocio violada")
	ErrDuplicateSKU       = errors.New("SKU ya registrado")
	ErrTransport          = errors.New("backend no disponible")
	ErrInvariantViolation = errors.New("invariante de dominio violada")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// FieldViolation describe un campo que no cumple la validación de forma.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa todas las violaciones de una entrada. Se compara con errors.Is(err, ErrValidation).
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validator acumula violaciones; Err devuelve nil si no hubo ninguna.
type Validator struct {
	violations []FieldViolation
}

// Check registra la violación cuando ok es falso.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.violations = append(v.violations, FieldViolation{Field: field, Message: message})
	}
}

// Err devuelve un *ValidationError o nil.
func (v *Validator) Err() error {
	if len(v.violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.violations}
}

// NewBusinessRuleError construye un error de regla de negocio.
func NewBusinessRuleError(msg string) error {
	return fmt.Errorf("%w: %s", ErrBusinessRule, msg)
}

// NewInvariantError construye un error de invariante de entidad.
func NewInvariantError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, msg)
}

// TransportError indica que el backend no respondió o devolvió un error no mapeable.
// El núcleo no reintenta; el llamador decide.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrTransport.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrTransport).
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
