package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la guía. Solo existen filas aceptadas por SUNAT; no hay borradores persistidos.
const (
	WaybillStatusAccepted = "ACCEPTED"
	WaybillStatusVoided   = "VOIDED"
)

// GreType variante de la guía.
type GreType string

const (
	// GreTypeDispatcher el emisor despacha bienes de su propio stock (afecta inventario).
	GreTypeDispatcher GreType = "remitente"
	// GreTypeCarrier el emisor transporta por cuenta de otro remitente (sin efecto en inventario).
	GreTypeCarrier GreType = "transportista"
)

// Valid indica si el tipo es uno de los soportados.
func (t GreType) Valid() bool {
	return t == GreTypeDispatcher || t == GreTypeCarrier
}

// Party identifica a una persona o empresa (tipo de documento catálogo 06 + número + nombre).
type Party struct {
	DocType   string
	DocNumber string
	Name      string
}

// Location punto de partida o llegada: ubigeo INEI de 6 dígitos + dirección libre.
type Location struct {
	Ubigeo  string
	Address string
}

// Waybill cabecera de la guía de remisión electrónica aceptada por SUNAT.
type Waybill struct {
	ID                string
	Series            string // ej. T001
	Number            int
	Type              GreType
	IssueDate         time.Time // fecha y hora de emisión
	TransferStartDate time.Time
	Recipient         Party
	OriginalSender    *Party // solo GreTypeCarrier
	ReasonCode        string // catálogo 20
	ReasonText        string
	Notes             string
	GrossWeight       decimal.Decimal // KGM
	Transport         Transport
	Origin            Location
	Destination       Location
	OriginWarehouseID string // referencia explícita de bodega (respaldo si la dirección no coincide)
	CostCenterID      string
	VerificationRef   string // URL del CDR o DigestValue local
	Ticket            string
	Status            string
	Lines             []WaybillLine
	CreatedBy         string
	CreatedAt         time.Time
	VoidedAt          *time.Time
	VoidedBy          string
}

// FullNumber devuelve "SERIE-NUMERO" (ej. T001-45).
func (w *Waybill) FullNumber() string {
	return fmt.Sprintf("%s-%d", w.Series, w.Number)
}

// IsVoided indica si la guía ya fue anulada.
func (w *Waybill) IsVoided() bool {
	return w.Status == WaybillStatusVoided
}

// WaybillLine ítem de la guía. Es una foto inmutable tomada al registrar la guía.
type WaybillLine struct {
	ID          string
	WaybillID   string
	LineNo      int
	UnitCode    string // catálogo 03 (NIU por defecto)
	Code        string // SKU declarado
	Description string
	Quantity    decimal.Decimal
	ProductID   string // vacío si el código no existe en el catálogo
}
