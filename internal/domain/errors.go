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
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Pipeline GRE
	ErrSigning   = errors.New("error de firma digital")
	ErrAuthority = errors.New("error de comunicación con SUNAT")
	ErrTimeout   = errors.New("ticket SUNAT sin respuesta terminal")
	ErrRejected  = errors.New("guía rechazada por SUNAT")
	ErrLedger    = errors.New("error de persistencia posterior a la aceptación")
)

// ValidationError entrada mal formada o incompleta. Se detecta antes de cualquier llamada de red.
type ValidationError struct {
	Err error // errors.Join con cada hallazgo
}

func (e *ValidationError) Error() string { return "validación: " + e.Err.Error() }
func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidInput, e.Err}
}

// SigningError falla al cargar credenciales o al firmar. Nunca se reintenta.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string   { return "firma: " + e.Err.Error() }
func (e *SigningError) Unwrap() []error { return []error{ErrSigning, e.Err} }

// AuthError SUNAT rechazó las credenciales del emisor.
type AuthError struct {
	Status int
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("sunat auth (HTTP %d): %v", e.Status, e.Err)
}
func (e *AuthError) Unwrap() []error { return []error{ErrAuthority, e.Err} }

// SubmitError el envío no devolvió ticket. Solo se reenvía manualmente.
type SubmitError struct {
	Status int
	Body   string
	Err    error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("sunat envío (HTTP %d): %v", e.Status, e.Err)
}
func (e *SubmitError) Unwrap() []error { return []error{ErrAuthority, e.Err} }

// TimeoutError el ticket no llegó a un estado terminal dentro del presupuesto.
// Se debe volver a consultar el ticket, no reenviar la guía.
type TimeoutError struct {
	Ticket   string
	Attempts int
	LastCode string
	Cause    error // p. ej. context.Canceled cuando el llamador abandona la consulta
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("ticket %s sin respuesta terminal tras %d intentos (último código %q)", e.Ticket, e.Attempts, e.LastCode)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}
func (e *TimeoutError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrTimeout}
	}
	return []error{ErrTimeout, e.Cause}
}

// RejectedError respuesta terminal de no aceptación. Requiere corregir y emitir con nuevo número.
type RejectedError struct {
	Ticket  string
	Code    string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("SUNAT rechazó el ticket %s: código %s: %s", e.Ticket, e.Code, e.Message)
}
func (e *RejectedError) Unwrap() error { return ErrRejected }

// LedgerError fallo local después de la aceptación de SUNAT. El documento ya es válido
// legalmente: conserva ticket y respuesta para conciliación manual, nunca se reenvía a ciegas.
type LedgerError struct {
	Ticket       string
	ResponseCode string
	Verification string
	Err          error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("guía aceptada (ticket %s) pero no registrada: %v", e.Ticket, e.Err)
}
func (e *LedgerError) Unwrap() []error { return []error{ErrLedger, e.Err} }

// ConflictError el estado actual impide la operación (p. ej. guía ya anulada o número repetido).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }
func (e *ConflictError) Unwrap() error { return ErrConflict }

// PermissionError el actor no tiene privilegios para la operación.
type PermissionError struct {
	Msg string
}

func (e *PermissionError) Error() string { return e.Msg }
func (e *PermissionError) Unwrap() error { return ErrForbidden }
