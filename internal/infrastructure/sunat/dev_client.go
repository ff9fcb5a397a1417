package sunat

import (
	"context"

	"github.com/jhoicas/gre-api/pkg/logger"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

// MockTicket ticket devuelto por el cliente simulado.
const MockTicket = "MOCK-TICKET"

// DevClient simula a SUNAT en desarrollo: acepta todo paquete sin tocar la red.
type DevClient struct {
	log *logger.Logger
}

// NewDevClient crea el cliente simulado.
func NewDevClient(log *logger.Logger) *DevClient {
	if log == nil {
		log = logger.Nop()
	}
	return &DevClient{log: log.Named("sunat.dev")}
}

// Authenticate devuelve un token ficticio.
func (d *DevClient) Authenticate(ctx context.Context) (string, error) {
	return "dev-token", ctx.Err()
}

// Submit registra el paquete y devuelve MockTicket.
func (d *DevClient) Submit(ctx context.Context, _ string, pkg *Package) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.log.Info().Str("archivo", pkg.ZipName).Str("hash", pkg.Hash).Msg("[DEV] guía aceptada sin envío real")
	return MockTicket, nil
}

// PollStatus responde aceptación inmediata sin CDR.
func (d *DevClient) PollStatus(ctx context.Context, _ string, ticket string) (*TicketStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &TicketStatus{Ticket: ticket, Code: sunat.TicketAccepted, Attempts: 1}, nil
}
