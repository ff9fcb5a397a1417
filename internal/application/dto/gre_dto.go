package dto

import "github.com/shopspring/decimal"

// PartyDTO persona o empresa identificada (catálogo 06).
type PartyDTO struct {
	DocType   string `json:"tipo_doc" example:"6"`
	DocNumber string `json:"num_doc" example:"20601514789"`
	Name      string `json:"nombre" example:"Comercial Andina SAC"`
}

// LocationDTO punto de partida o llegada.
type LocationDTO struct {
	Ubigeo  string `json:"ubigeo" example:"150101"`
	Address string `json:"direccion" example:"Av. Argentina 1234, Lima"`
}

// DriverDTO conductor (transporte privado).
type DriverDTO struct {
	DocType   string `json:"tipo_doc,omitempty" example:"1"`
	DocNumber string `json:"num_doc" example:"45678912"`
	FirstName string `json:"nombres" example:"Juan"`
	LastName  string `json:"apellidos" example:"Quispe Mamani"`
	License   string `json:"licencia,omitempty" example:"Q45678912"`
}

// TransportDTO modalidad de traslado. "01" exige transportista; "02" exige placa y conductor.
type TransportDTO struct {
	Mode        string     `json:"modalidad" example:"02"`
	CarrierRUC  string     `json:"ruc_transportista,omitempty"`
	CarrierName string     `json:"razon_social_transportista,omitempty"`
	Plate       string     `json:"placa,omitempty" example:"ABC-123"`
	Brand       string     `json:"marca,omitempty"`
	Driver      *DriverDTO `json:"conductor,omitempty"`
}

// WaybillLineDTO ítem declarado.
type WaybillLineDTO struct {
	UnitCode    string          `json:"unidad,omitempty" example:"NIU"`
	Code        string          `json:"codigo" example:"SKU-001"`
	Description string          `json:"descripcion" example:"Cemento Portland 42.5kg"`
	Quantity    decimal.Decimal `json:"cantidad" swaggertype:"string" example:"10"`
}

// SubmitWaybillRequest cuerpo de POST /api/gre.
type SubmitWaybillRequest struct {
	Series            string           `json:"serie" example:"T001"`
	Number            int              `json:"numero" example:"45"`
	Type              string           `json:"tipo" example:"remitente"`
	IssueDate         string           `json:"fecha_emision" example:"2026-03-10"`
	IssueTime         string           `json:"hora_emision,omitempty" example:"10:30:00"`
	TransferStartDate string           `json:"fecha_inicio_traslado" example:"2026-03-10"`
	Recipient         PartyDTO         `json:"destinatario"`
	OriginalSender    *PartyDTO        `json:"remitente_original,omitempty"`
	ReasonCode        string           `json:"motivo_traslado" example:"01"`
	ReasonText        string           `json:"descripcion_motivo,omitempty"`
	Notes             string           `json:"observaciones,omitempty"`
	GrossWeight       decimal.Decimal  `json:"peso_bruto" swaggertype:"string" example:"25.5"`
	Transport         TransportDTO     `json:"transporte"`
	Origin            LocationDTO      `json:"punto_partida"`
	Destination       LocationDTO      `json:"punto_llegada"`
	OriginWarehouseID string           `json:"bodega_origen_id,omitempty"`
	CostCenterID      string           `json:"centro_costo_id,omitempty"`
	Lines             []WaybillLineDTO `json:"items"`
}

// SubmitWaybillResponse resultado de una guía aceptada y registrada.
type SubmitWaybillResponse struct {
	ID           string `json:"id"`
	FullNumber   string `json:"numero_completo" example:"T001-45"`
	Ticket       string `json:"ticket"`
	ResponseCode string `json:"codigo_respuesta" example:"0"`
	Description  string `json:"descripcion,omitempty"`
	Verification string `json:"verificacion"`
	Status       string `json:"estado" example:"ACCEPTED"`
	TransferID   string `json:"transferencia_id,omitempty"`
}

// WaybillLineResponse ítem registrado.
type WaybillLineResponse struct {
	LineNo      int             `json:"item"`
	UnitCode    string          `json:"unidad"`
	Code        string          `json:"codigo"`
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad" swaggertype:"string"`
	ProductID   string          `json:"producto_id,omitempty"`
}

// WaybillResponse guía registrada con sus líneas.
type WaybillResponse struct {
	ID                string                `json:"id"`
	Series            string                `json:"serie"`
	Number            int                   `json:"numero"`
	FullNumber        string                `json:"numero_completo"`
	Type              string                `json:"tipo"`
	IssueDate         string                `json:"fecha_emision"`
	TransferStartDate string                `json:"fecha_inicio_traslado"`
	Recipient         PartyDTO              `json:"destinatario"`
	ReasonCode        string                `json:"motivo_traslado"`
	TransportMode     string                `json:"modalidad"`
	Origin            LocationDTO           `json:"punto_partida"`
	Destination       LocationDTO           `json:"punto_llegada"`
	GrossWeight       decimal.Decimal       `json:"peso_bruto" swaggertype:"string"`
	Ticket            string                `json:"ticket"`
	Verification      string                `json:"verificacion"`
	Status            string                `json:"estado"`
	VoidedAt          string                `json:"anulada_en,omitempty"`
	Lines             []WaybillLineResponse `json:"items"`
}

// VoidWaybillResponse confirmación de anulación.
type VoidWaybillResponse struct {
	ID            string `json:"id"`
	FullNumber    string `json:"numero_completo"`
	Status        string `json:"estado" example:"VOIDED"`
	RestoredItems int    `json:"items_restituidos"`
	StockReverted bool   `json:"stock_revertido"`
	Note          string `json:"nota,omitempty" example:"guía sin transferencia de stock: la anulación no afecta el inventario"`
}

// NextCorrelativeResponse siguiente número libre de la serie.
type NextCorrelativeResponse struct {
	Series string `json:"serie" example:"T001"`
	Next   int    `json:"siguiente" example:"46"`
}
