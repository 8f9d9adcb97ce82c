package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Cada uno identifica un tipo de falla;
// el motivo legible viaja en Error.Reason.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrUnknownUnit       = errors.New("unidad de medida desconocida")
	ErrWorkflowConfig    = errors.New("configuración de flujo inválida")
)

// Error asocia un tipo de falla (Kind) con un motivo legible para el llamador.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Reason
}

// Unwrap permite errors.Is(err, domain.ErrX).
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error  { return newError(ErrValidation, format, args...) }
func NotFound(format string, args ...any) error    { return newError(ErrNotFound, format, args...) }
func Forbidden(format string, args ...any) error   { return newError(ErrForbidden, format, args...) }
func Conflict(format string, args ...any) error    { return newError(ErrConflict, format, args...) }
func UnknownUnit(format string, args ...any) error { return newError(ErrUnknownUnit, format, args...) }
func WorkflowConfig(format string, args ...any) error {
	return newError(ErrWorkflowConfig, format, args...)
}
func InsufficientStock(format string, args ...any) error {
	return newError(ErrInsufficientStock, format, args...)
}

// Reason devuelve el motivo legible de err (o su texto si no es un *Error).
func Reason(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Reason != "" {
		return de.Reason
	}
	return err.Error()
}
