package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/application/query"
	"github.com/jhoicas/estoque/internal/domain"
	"github.com/jhoicas/estoque/pkg/logger"
)

const localsLogger = "logger"

// Códigos de error de la API.
const (
	CodeValidation   = "VALIDATION"
	CodeBusinessRule = "BUSINESS_RULE"
	CodeDuplicateSKU = "DUPLICATE_SKU"
	CodeNotFound     = "NOT_FOUND"
	CodeTransport    = "TRANSPORT"
	CodeInternal     = "INTERNAL"
	CodeInvalidBody  = "INVALID_BODY"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeTimeout      = "TIMEOUT"
)

// writeError traduce un error de dominio a status + dto.ErrorResponse. Los 5xx se registran con la
// causa completa.
func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	if status >= fiber.StatusInternalServerError {
		ev := requestLogger(c).Warn()
		if body.Code == CodeInternal {
			ev = requestLogger(c).Error()
		}
		ev.Err(err).
			Str("code", body.Code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Msg("request fallido")
	}
	return c.Status(status).JSON(body)
}

// WithLogger deja log disponible para los handlers del grupo y registra cada request en debug.
func WithLogger(log *logger.Logger) fiber.Handler {
	log = logger.OrNop(log)
	return func(c *fiber.Ctx) error {
		c.Locals(localsLogger, log)
		start := time.Now()
		err := c.Next()
		log.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

func requestLogger(c *fiber.Ctx) *logger.Logger {
	l, _ := c.Locals(localsLogger).(*logger.Logger)
	return logger.OrNop(l)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidation, Message: err.Error(), Violations: verr.Violations}
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidation, Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicateSKU):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeDuplicateSKU, Message: domain.ErrDuplicateSKU.Error()}
	case errors.Is(err, domain.ErrBusinessRule), errors.Is(err, domain.ErrInvariantViolation):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: CodeBusinessRule, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrTransport):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: CodeTransport, Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusGatewayTimeout, dto.ErrorResponse{Code: CodeTimeout, Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: CodeForbidden, Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: err.Error()}
}

// await espera el desenlace de una escritura optimista. Error de ctx o de la operación.
func await[Out any](c *fiber.Ctx, p *query.Pending[Out]) (Out, error) {
	r, err := p.Wait(c.UserContext())
	if err != nil {
		var zero Out
		return zero, err
	}
	return r.Value, r.Err
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}
