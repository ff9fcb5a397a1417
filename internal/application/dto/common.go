package dto

// ErrorResponse cuerpo de error HTTP. Ticket solo viaja cuando SUNAT ya aceptó la guía
// y el registro local falló (conciliación manual).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ticket  string `json:"ticket,omitempty"`
}
