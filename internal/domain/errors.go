package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrProtected    = errors.New("el recurso está referenciado y no puede eliminarse")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Exclusividad cliente/proveedor de una factura.
	ErrMissingParty     = errors.New("la factura debe tener un cliente o un proveedor")
	ErrConflictingParty = errors.New("la factura no puede tener cliente y proveedor a la vez")
)

// StorageError envuelve un fallo de la capa de persistencia.
// Se propaga sin reintentos; el handler lo traduce a un 5xx.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError construye el error; devuelve nil si err es nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError indica si err (o alguno de sus envoltorios) es un StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ValidationError detalla qué campo no superó la validación.
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Field  string
	Reason string
}

// Invalid construye un ValidationError para el campo indicado.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
