package remote

import (
	"errors"
	"fmt"

	"github.com/jhoicas/estoque/internal/domain"
	"github.com/jhoicas/estoque/internal/infrastructure/backend"
)

// mapErr traduce errores del backend a errores de dominio.
func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, backend.ErrRowNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case errors.Is(err, backend.ErrUniqueViolation):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicateSKU)
	case errors.Is(err, backend.ErrCheckViolation):
		return domain.NewBusinessRuleError(err.Error())
	}
	var me *MappingError
	if errors.As(err, &me) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return backend.Translate(op, err)
}
