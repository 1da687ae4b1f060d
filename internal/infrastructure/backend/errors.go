package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/estoque/internal/domain"
)

// Errores que las implementaciones de Client devuelven para condiciones conocidas.
var (
	ErrRowNotFound     = errors.New("backend: fila no encontrada")
	ErrUniqueViolation = errors.New("backend: valor duplicado")
	ErrCheckViolation  = errors.New("backend: restricción violada")
)

// Translate deja pasar los errores conocidos y envuelve el resto en *domain.TransportError con un
// mensaje legible para los casos frecuentes (permisos, tabla inexistente, timeout).
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRowNotFound) || errors.Is(err, ErrUniqueViolation) || errors.Is(err, ErrCheckViolation) {
		return err
	}
	var te *domain.TransportError
	if errors.As(err, &te) {
		return err
	}
	return &domain.TransportError{Op: op, Err: readable(err)}
}

func readable(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout"):
		return fmt.Errorf("tiempo de espera agotado: %w", err)
	case strings.Contains(msg, "permission denied"):
		return fmt.Errorf("permiso denegado en el backend: %w", err)
	case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"):
		return fmt.Errorf("tabla o vista inexistente en el backend: %w", err)
	}
	return err
}
