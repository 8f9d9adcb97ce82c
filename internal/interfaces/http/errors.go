package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// LocalLogger key del logger de la petición en c.Locals.
const LocalLogger = "logger"

// errorMapping código HTTP y código de error por tipo de falla de dominio.
var errorMapping = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnknownUnit, fiber.StatusBadRequest, "UNKNOWN_UNIT"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrWorkflowConfig, fiber.StatusBadRequest, "WORKFLOW_CONFIG"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// LoggerMiddleware deja log en c.Locals para que los errores no mapeados queden registrados.
func LoggerMiddleware(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		c.Locals(LocalLogger, log)
		return c.Next()
	}
}

func requestLogger(c *fiber.Ctx) *logger.Logger {
	if log, ok := c.Locals(LocalLogger).(*logger.Logger); ok {
		return log
	}
	return logger.Nop()
}

// respondError traduce err a una respuesta dto.ErrorResponse. Las fallas
// internas se registran con el request id antes de responder 500.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.kind) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: domain.Reason(err)})
		}
	}
	requestLogger(c).Error().Err(err).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// paramID copia el parámetro :id; fiber lo entrega apuntando al buffer de la petición.
func paramID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
