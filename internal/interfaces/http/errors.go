package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gre-api/internal/application/dto"
	"github.com/jhoicas/gre-api/internal/domain"
)

// writeError traduce los errores de dominio del pipeline GRE a su respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		validation *domain.ValidationError
		signing    *domain.SigningError
		authErr    *domain.AuthError
		submitErr  *domain.SubmitError
		timeout    *domain.TimeoutError
		rejected   *domain.RejectedError
		ledger     *domain.LedgerError
		conflict   *domain.ConflictError
		permission *domain.PermissionError
	)
	// LedgerError primero: envuelve conflictos o no-encontrados que ocurrieron con SUNAT ya aceptada
	switch {
	case errors.As(err, &ledger):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "LEDGER", Message: ledger.Error(), Ticket: ledger.Ticket}
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: validation.Error()}
	case errors.As(err, &permission):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: permission.Error()}
	case errors.As(err, &conflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: conflict.Error()}
	case errors.As(err, &signing):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "SIGNING", Message: signing.Error()}
	case errors.As(err, &authErr):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: "SUNAT_AUTH", Message: authErr.Error()}
	case errors.As(err, &submitErr):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: "SUNAT_SUBMIT", Message: submitErr.Error()}
	case errors.As(err, &timeout):
		return fiber.StatusGatewayTimeout, dto.ErrorResponse{Code: "SUNAT_TIMEOUT", Message: timeout.Error(), Ticket: timeout.Ticket}
	case errors.As(err, &rejected):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "SUNAT_REJECTED", Message: rejected.Error(), Ticket: rejected.Ticket}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "guía no encontrada"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	}
}
