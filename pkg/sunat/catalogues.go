// Package sunat contiene catálogos y validaciones de la Guía de Remisión Electrónica
// (GRE) de SUNAT, Perú.
package sunat

// =============================================================================
// Tipo de documento electrónico (Catálogo 01)
// =============================================================================

const (
	DocTypeGRERemitente     = "09" // Guía de remisión remitente
	DocTypeGRETransportista = "31" // Guía de remisión transportista
)

// =============================================================================
// Catálogo 06 - Tipos de documento de identidad
// =============================================================================

const (
	IdentityNoDomiciliado = "0"
	IdentityDNI           = "1"
	IdentityCarnetExt     = "4"
	IdentityRUC           = "6"
	IdentityPasaporte     = "7"
)

// ValidIdentityDocTypes códigos del catálogo 06 aceptados para destinatario y conductor.
var ValidIdentityDocTypes = map[string]bool{
	IdentityNoDomiciliado: true, IdentityDNI: true, IdentityCarnetExt: true,
	IdentityRUC: true, IdentityPasaporte: true,
	"A": true, "B": true, "C": true, "D": true, "E": true,
}

// =============================================================================
// Catálogo 18 - Modalidad de traslado
// =============================================================================

const (
	TransportModePublic  = "01" // Transporte público (empresa de transportes)
	TransportModePrivate = "02" // Transporte privado (vehículo propio)
)

// =============================================================================
// Catálogo 20 - Motivo de traslado
// =============================================================================

const (
	ReasonVenta               = "01"
	ReasonCompra              = "02"
	ReasonVentaEntregaTercero = "03"
	ReasonEntreEstablecim     = "04" // misma empresa
	ReasonConsignacion        = "05"
	ReasonDevolucion          = "06"
	ReasonRecojoTransformados = "07"
	ReasonImportacion         = "08"
	ReasonExportacion         = "09"
	ReasonOtros               = "13"
	ReasonVentaConfirmacion   = "14"
	ReasonTransformacion      = "17"
	ReasonEmisorItinerante    = "18"
	ReasonZonaPrimaria        = "19"
)

// TransferReasons catálogo 20 con su descripción (usada en el PDF).
var TransferReasons = map[string]string{
	ReasonVenta:               "VENTA",
	ReasonCompra:              "COMPRA",
	ReasonVentaEntregaTercero: "VENTA CON ENTREGA A TERCEROS",
	ReasonEntreEstablecim:     "TRASLADO ENTRE ESTABLECIMIENTOS DE LA MISMA EMPRESA",
	ReasonConsignacion:        "CONSIGNACIÓN",
	ReasonDevolucion:          "DEVOLUCIÓN",
	ReasonRecojoTransformados: "RECOJO DE BIENES TRANSFORMADOS",
	ReasonImportacion:         "IMPORTACIÓN",
	ReasonExportacion:         "EXPORTACIÓN",
	ReasonOtros:               "OTROS",
	ReasonVentaConfirmacion:   "VENTA SUJETA A CONFIRMACIÓN DEL COMPRADOR",
	ReasonTransformacion:      "TRASLADO DE BIENES PARA TRANSFORMACIÓN",
	ReasonEmisorItinerante:    "TRASLADO EMISOR ITINERANTE CP",
	ReasonZonaPrimaria:        "TRASLADO A ZONA PRIMARIA",
}

// =============================================================================
// Unidades de medida (Catálogo 03, UN/ECE rec 20)
// =============================================================================

const (
	UnitNIU      = "NIU" // Unidad (bienes)
	UnitZZ       = "ZZ"  // Unidad (servicios)
	UnitKilogram = "KGM"
	UnitBox      = "BX"
	UnitLitre    = "LTR"
	UnitMetre    = "MTR"
)

// =============================================================================
// Códigos de respuesta del ticket (consulta de envíos)
// =============================================================================

const (
	TicketAccepted   = "0"  // CDR generado, comprobante aceptado
	TicketProcessing = "98" // en proceso
	TicketRejected   = "99" // proceso con errores (CDR de rechazo)
)

// Placeholders usados cuando SUNAT exige el nodo pero el dato no aplica.
const (
	PlatePlaceholder     = "000000"
	DefaultDriverDocType = IdentityDNI
	DriverJobTitle       = "Principal"
	QRDownloadURL        = "https://e-factura.sunat.gob.pe/v1/contribuyente/gre/comprobantes/descargaqr"
	ShipmentID           = "SUNAT_Envio"
	GrossWeightUnit      = UnitKilogram
)
