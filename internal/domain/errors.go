package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Errores del motor de proyecciones.
var (
	// ErrMalformedChange el mensaje de cambio no trae los campos mínimos (id, label, value).
	ErrMalformedChange = errors.New("cambio mal formado")
	// ErrUnresolvable el cambio no se pudo asociar a ningún ítem (referencia obsoleta).
	ErrUnresolvable = errors.New("cambio sin ítem asociado")
	// ErrContractViolation una resolución no devolvió ni ítem ni error. Es un defecto, no se recupera.
	ErrContractViolation = errors.New("violación de contrato en resolución de cambios")
)
