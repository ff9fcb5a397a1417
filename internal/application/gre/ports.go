package gre

import (
	"context"
	"crypto/tls"

	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/repository"
	infrasunat "github.com/jhoicas/gre-api/internal/infrastructure/sunat"
	"github.com/jhoicas/gre-api/pkg/jwt"
)

// Builder genera el XML UBL sin firmar.
type Builder interface {
	Build(ctx *infrasunat.BuildContext) ([]byte, error)
}

// CertProvider entrega el certificado del emisor (cargado una vez por proceso).
type CertProvider interface {
	Certificate() (tls.Certificate, error)
}

// AuthorityClient API REST de SUNAT (real o simulada en dev).
type AuthorityClient interface {
	Authenticate(ctx context.Context) (string, error)
	Submit(ctx context.Context, token string, pkg *infrasunat.Package) (string, error)
	PollStatus(ctx context.Context, token, ticket string) (*infrasunat.TicketStatus, error)
}

// DocumentArchive copia de XML firmados y CDR. Un fallo aquí nunca detiene la emisión.
type DocumentArchive interface {
	SaveSignedXML(ctx context.Context, name string, data []byte) error
	SaveCDR(ctx context.Context, name string, data []byte) error
}

// PDFGenerator representación impresa de la guía.
type PDFGenerator interface {
	GenerateWaybillPDF(ctx context.Context, doc *PrintableWaybill) ([]byte, error)
}

// LedgerRepos repositorios atados a una misma transacción.
type LedgerRepos struct {
	Waybills   repository.WaybillRepository
	Transfers  repository.StockTransferRepository
	Stock      repository.StockRepository
	Kardex     repository.KardexRepository
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
}

// TxRunner ejecuta fn en una transacción: Commit si devuelve nil, Rollback en otro caso.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(repos LedgerRepos) error) error
}

// Actor usuario autenticado que invoca la operación.
type Actor struct {
	UserID    string
	CompanyID string
	Role      string
}

// Privileged solo administradores pueden anular guías.
func (a Actor) Privileged() bool { return a.Role == jwt.RoleAdmin }

// Issuer datos del emisor (remitente) tomados de la configuración.
type Issuer struct {
	RUC  string
	Name string
}

// PrintableWaybill datos ya resueltos para imprimir la guía.
type PrintableWaybill struct {
	Waybill          *entity.Waybill
	Issuer           Issuer
	OriginPlace      string // "DEPARTAMENTO - PROVINCIA - DISTRITO" o el código si no está cargado
	DestinationPlace string
	ReasonText       string
	UnitSymbols      map[string]string // código SUNAT -> símbolo
	QRContent        string
}
