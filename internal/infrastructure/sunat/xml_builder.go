package sunat

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

// Namespaces UBL 2.1 para DespatchAdvice (GRE remitente, versión 2022).
const (
	NsDespatchAdvice = "urn:oasis:names:specification:ubl:schema:xsd:DespatchAdvice-2"
	NsCac            = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc            = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NsExt            = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
)

// Atributos de catálogos SUNAT.
const (
	agencySUNAT    = "PE:SUNAT"
	agencyINEI     = "PE:INEI"
	catalogo06URI  = "urn:pe:gob:sunat:cpe:see:gem:catalogos:catalogo06"
	catalogo18URI  = "urn:pe:gob:sunat:cpe:see:gem:catalogos:catalogo18"
	catalogo20URI  = "urn:pe:gob:sunat:cpe:see:gem:catalogos:catalogo20"
	signatureURI   = "#Sign"
	ublVersion     = "2.1"
	customizationV = "2.0"
)

// XMLBuilderService construye el XML UBL 2.1 DespatchAdvice (sin firma).
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build genera el documento sin firmar. Es determinista: el mismo contexto produce los mismos bytes.
func (s *XMLBuilderService) Build(ctx *BuildContext) ([]byte, error) {
	if ctx == nil || ctx.Waybill == nil {
		return nil, fmt.Errorf("sunat: falta la guía en el contexto")
	}
	if ctx.IssuerRUC == "" {
		return nil, fmt.Errorf("sunat: falta el RUC del emisor")
	}
	w := ctx.Waybill
	if w.Transport == nil {
		return nil, fmt.Errorf("sunat: la guía no tiene modalidad de transporte")
	}

	var buf bytes.Buffer
	xe := xml.NewEncoder(&buf)
	xe.Indent("", "  ")
	enc := &docWriter{enc: xe}

	enc.token(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)})

	root := xml.StartElement{
		Name: xml.Name{Local: "DespatchAdvice"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: NsDespatchAdvice},
			{Name: xml.Name{Local: "xmlns:cac"}, Value: NsCac},
			{Name: xml.Name{Local: "xmlns:cbc"}, Value: NsCbc},
			{Name: xml.Name{Local: "xmlns:ext"}, Value: NsExt},
		},
	}
	enc.token(root)

	// ---- ext:UBLExtensions primer hijo; ExtensionContent vacío para ds:Signature
	open(enc, "ext:UBLExtensions")
	open(enc, "ext:UBLExtension")
	open(enc, "ext:ExtensionContent")
	end(enc, "ext:ExtensionContent")
	end(enc, "ext:UBLExtension")
	end(enc, "ext:UBLExtensions")

	writeCbc(enc, "UBLVersionID", ublVersion)
	writeCbc(enc, "CustomizationID", customizationV)
	writeCbc(enc, "ID", w.FullNumber())
	writeCbc(enc, "IssueDate", w.IssueDate.Format("2006-01-02"))
	writeCbc(enc, "IssueTime", w.IssueDate.Format("15:04:05"))
	writeCbc(enc, "DespatchAdviceTypeCode", sunat.DocTypeGRERemitente)
	if w.Notes != "" {
		writeCbc(enc, "Note", w.Notes)
	}

	// ---- cac:Signature
	s.writeSignature(enc, ctx)
	// ---- cac:DespatchSupplierParty
	s.writeSupplierParty(enc, ctx)
	// ---- cac:DeliveryCustomerParty
	s.writeCustomerParty(enc, w.Recipient)
	// ---- cac:Shipment
	s.writeShipment(enc, w)
	// ---- cac:DespatchLine
	for i, line := range w.Lines {
		s.writeDespatchLine(enc, i+1, line)
	}

	enc.token(root.End())
	if err := enc.close(); err != nil {
		return nil, fmt.Errorf("sunat: generar XML de %s: %w", w.FullNumber(), err)
	}
	return buf.Bytes(), nil
}

// docWriter conserva el primer error de codificación; los tokens posteriores se descartan.
type docWriter struct {
	enc *xml.Encoder
	err error
	at  string // elemento en curso cuando ocurrió el error
}

func (d *docWriter) token(t xml.Token) {
	if d.err != nil {
		return
	}
	if err := d.enc.EncodeToken(t); err != nil {
		d.err = err
		switch el := t.(type) {
		case xml.StartElement:
			d.at = el.Name.Local
		case xml.EndElement:
			d.at = el.Name.Local
		}
	}
}

func (d *docWriter) close() error {
	if d.err != nil {
		if d.at != "" {
			return fmt.Errorf("%s: %w", d.at, d.err)
		}
		return d.err
	}
	return d.enc.Flush()
}

func open(enc *docWriter, local string, attrs ...xml.Attr) {
	enc.token(xml.StartElement{Name: xml.Name{Local: local}, Attr: attrs})
}

func end(enc *docWriter, local string) {
	enc.token(xml.EndElement{Name: xml.Name{Local: local}})
}

func writeCbc(enc *docWriter, local, value string) {
	writeCbcWithAttr(enc, local, value)
}

func writeCbcWithAttr(enc *docWriter, local, value string, attrs ...xml.Attr) {
	open(enc, "cbc:"+local, attrs...)
	enc.token(xml.CharData(value))
	end(enc, "cbc:"+local)
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func (s *XMLBuilderService) writeSignature(enc *docWriter, ctx *BuildContext) {
	open(enc, "cac:Signature")
	writeCbc(enc, "ID", ctx.IssuerRUC)
	open(enc, "cac:SignatoryParty")
	open(enc, "cac:PartyIdentification")
	writeCbc(enc, "ID", ctx.IssuerRUC)
	end(enc, "cac:PartyIdentification")
	open(enc, "cac:PartyName")
	writeCbc(enc, "Name", ctx.IssuerName)
	end(enc, "cac:PartyName")
	end(enc, "cac:SignatoryParty")
	open(enc, "cac:DigitalSignatureAttachment")
	open(enc, "cac:ExternalReference")
	writeCbc(enc, "URI", signatureURI)
	end(enc, "cac:ExternalReference")
	end(enc, "cac:DigitalSignatureAttachment")
	end(enc, "cac:Signature")
}

// writeSupplierParty emisor. En guía transportista el remitente declarado es el remitente original.
func (s *XMLBuilderService) writeSupplierParty(enc *docWriter, ctx *BuildContext) {
	ruc, name := ctx.IssuerRUC, ctx.IssuerName
	if sender := ctx.Waybill.OriginalSender; ctx.Waybill.Type == entity.GreTypeCarrier && sender != nil {
		ruc, name = sender.DocNumber, sender.Name
	}
	open(enc, "cac:DespatchSupplierParty")
	writeCbcWithAttr(enc, "CustomerAssignedAccountID", ruc, attr("schemeID", sunat.IdentityRUC))
	open(enc, "cac:Party")
	open(enc, "cac:PartyIdentification")
	writeCbcWithAttr(enc, "ID", ruc,
		attr("schemeID", sunat.IdentityRUC),
		attr("schemeName", "Documento de Identidad"),
		attr("schemeAgencyName", agencySUNAT),
		attr("schemeURI", catalogo06URI),
	)
	end(enc, "cac:PartyIdentification")
	open(enc, "cac:PartyLegalEntity")
	writeCbc(enc, "RegistrationName", name)
	end(enc, "cac:PartyLegalEntity")
	end(enc, "cac:Party")
	end(enc, "cac:DespatchSupplierParty")
}

func (s *XMLBuilderService) writeCustomerParty(enc *docWriter, p entity.Party) {
	open(enc, "cac:DeliveryCustomerParty")
	open(enc, "cac:Party")
	open(enc, "cac:PartyIdentification")
	writeCbcWithAttr(enc, "ID", p.DocNumber,
		attr("schemeID", p.DocType),
		attr("schemeName", "Documento de Identidad"),
		attr("schemeAgencyName", agencySUNAT),
		attr("schemeURI", catalogo06URI),
	)
	end(enc, "cac:PartyIdentification")
	open(enc, "cac:PartyLegalEntity")
	writeCbc(enc, "RegistrationName", p.Name)
	end(enc, "cac:PartyLegalEntity")
	end(enc, "cac:Party")
	end(enc, "cac:DeliveryCustomerParty")
}

func (s *XMLBuilderService) writeShipment(enc *docWriter, w *entity.Waybill) {
	open(enc, "cac:Shipment")
	writeCbc(enc, "ID", sunat.ShipmentID)
	writeCbcWithAttr(enc, "HandlingCode", w.ReasonCode,
		attr("listAgencyName", agencySUNAT),
		attr("listName", "Motivo de traslado"),
		attr("listURI", catalogo20URI),
	)
	if desc := reasonDescription(w); desc != "" {
		writeCbc(enc, "HandlingInstructions", desc)
	}
	writeCbcWithAttr(enc, "GrossWeightMeasure", w.GrossWeight.StringFixed(3), attr("unitCode", sunat.GrossWeightUnit))

	// ---- cac:ShipmentStage (modalidad, fecha de inicio y, según el caso, transportista o conductor)
	open(enc, "cac:ShipmentStage")
	writeCbcWithAttr(enc, "TransportModeCode", w.Transport.Mode(),
		attr("listName", "Modalidad de traslado"),
		attr("listAgencyName", agencySUNAT),
		attr("listURI", catalogo18URI),
	)
	open(enc, "cac:TransitPeriod")
	writeCbc(enc, "StartDate", w.TransferStartDate.Format("2006-01-02"))
	end(enc, "cac:TransitPeriod")

	switch t := w.Transport.(type) {
	case entity.PublicTransport:
		open(enc, "cac:CarrierParty")
		open(enc, "cac:PartyIdentification")
		writeCbcWithAttr(enc, "ID", t.CarrierRUC, attr("schemeID", sunat.IdentityRUC))
		end(enc, "cac:PartyIdentification")
		open(enc, "cac:PartyLegalEntity")
		writeCbc(enc, "RegistrationName", t.CarrierName)
		end(enc, "cac:PartyLegalEntity")
		end(enc, "cac:CarrierParty")
	case entity.PrivateTransport:
		open(enc, "cac:TransportMeans")
		open(enc, "cac:RoadTransport")
		writeCbc(enc, "LicensePlateID", t.Plate)
		end(enc, "cac:RoadTransport")
		end(enc, "cac:TransportMeans")

		docType := t.Driver.DocType
		if docType == "" {
			docType = sunat.DefaultDriverDocType
		}
		open(enc, "cac:DriverPerson")
		writeCbcWithAttr(enc, "ID", t.Driver.DocNumber,
			attr("schemeID", docType),
			attr("schemeName", "Documento de Identidad"),
			attr("schemeAgencyName", agencySUNAT),
			attr("schemeURI", catalogo06URI),
		)
		writeCbc(enc, "FirstName", t.Driver.FirstName)
		writeCbc(enc, "FamilyName", t.Driver.LastName)
		writeCbc(enc, "JobTitle", sunat.DriverJobTitle)
		if t.Driver.License != "" {
			open(enc, "cac:IdentityDocumentReference")
			writeCbc(enc, "ID", t.Driver.License)
			end(enc, "cac:IdentityDocumentReference")
		}
		end(enc, "cac:DriverPerson")
	}
	end(enc, "cac:ShipmentStage")

	// ---- cac:Delivery (llegada y partida)
	open(enc, "cac:Delivery")
	writeAddress(enc, "cac:DeliveryAddress", w.Destination)
	open(enc, "cac:Despatch")
	writeAddress(enc, "cac:DespatchAddress", w.Origin)
	end(enc, "cac:Despatch")
	end(enc, "cac:Delivery")

	if t, ok := w.Transport.(entity.PrivateTransport); ok {
		open(enc, "cac:TransportHandlingUnit")
		open(enc, "cac:TransportEquipment")
		writeCbc(enc, "ID", t.Plate)
		end(enc, "cac:TransportEquipment")
		end(enc, "cac:TransportHandlingUnit")
	}
	end(enc, "cac:Shipment")
}

func writeAddress(enc *docWriter, local string, loc entity.Location) {
	open(enc, local)
	writeCbcWithAttr(enc, "ID", loc.Ubigeo,
		attr("schemeAgencyName", agencyINEI),
		attr("schemeName", "Ubigeos"),
	)
	open(enc, "cac:AddressLine")
	writeCbc(enc, "Line", loc.Address)
	end(enc, "cac:AddressLine")
	end(enc, local)
}

func (s *XMLBuilderService) writeDespatchLine(enc *docWriter, n int, line entity.WaybillLine) {
	unit := line.UnitCode
	if unit == "" {
		unit = sunat.UnitNIU
	}
	open(enc, "cac:DespatchLine")
	writeCbc(enc, "ID", strconv.Itoa(n))
	writeCbcWithAttr(enc, "DeliveredQuantity", line.Quantity.String(), attr("unitCode", unit))
	open(enc, "cac:OrderLineReference")
	writeCbc(enc, "LineID", strconv.Itoa(n))
	end(enc, "cac:OrderLineReference")
	open(enc, "cac:Item")
	writeCbc(enc, "Description", line.Description)
	if line.Code != "" {
		open(enc, "cac:SellersItemIdentification")
		writeCbc(enc, "ID", line.Code)
		end(enc, "cac:SellersItemIdentification")
	}
	end(enc, "cac:Item")
	end(enc, "cac:DespatchLine")
}

func reasonDescription(w *entity.Waybill) string {
	if w.ReasonText != "" {
		return w.ReasonText
	}
	return sunat.TransferReasons[w.ReasonCode]
}
