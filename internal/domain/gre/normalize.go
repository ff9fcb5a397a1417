// Package gre contiene las reglas de dominio de la Guía de Remisión Electrónica:
// normalización de datos de entrada y validación previa a cualquier envío.
package gre

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

// CleanText recorta espacios y pasa a mayúsculas (reglas de impresión y de SUNAT).
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return cases.Upper(language.Spanish).String(s)
}

// NormalizePlate quita guiones y espacios. Placa vacía → placeholder "000000".
func NormalizePlate(raw string) string {
	p := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw))
	if p == "" {
		return sunat.PlatePlaceholder
	}
	return strings.ToUpper(p)
}

// Normalize limpia en sitio los campos de texto libre, la placa, los valores por defecto
// del conductor y numera las líneas de 1 a N.
func Normalize(w *entity.Waybill) {
	w.Series = strings.ToUpper(strings.TrimSpace(w.Series))
	w.Recipient.DocType = strings.TrimSpace(w.Recipient.DocType)
	w.Recipient.DocNumber = strings.TrimSpace(w.Recipient.DocNumber)
	w.Recipient.Name = CleanText(w.Recipient.Name)
	if w.OriginalSender != nil {
		w.OriginalSender.DocNumber = strings.TrimSpace(w.OriginalSender.DocNumber)
		w.OriginalSender.Name = CleanText(w.OriginalSender.Name)
		if w.OriginalSender.DocType == "" {
			w.OriginalSender.DocType = sunat.IdentityRUC
		}
	}
	w.ReasonCode = strings.TrimSpace(w.ReasonCode)
	w.ReasonText = CleanText(w.ReasonText)
	w.Notes = CleanText(w.Notes)
	w.Origin.Ubigeo = strings.TrimSpace(w.Origin.Ubigeo)
	w.Origin.Address = CleanText(w.Origin.Address)
	w.Destination.Ubigeo = strings.TrimSpace(w.Destination.Ubigeo)
	w.Destination.Address = CleanText(w.Destination.Address)
	w.OriginWarehouseID = strings.TrimSpace(w.OriginWarehouseID)
	w.CostCenterID = strings.TrimSpace(w.CostCenterID)

	switch t := w.Transport.(type) {
	case entity.PublicTransport:
		t.CarrierRUC = strings.TrimSpace(t.CarrierRUC)
		t.CarrierName = CleanText(t.CarrierName)
		w.Transport = t
	case entity.PrivateTransport:
		t.Plate = NormalizePlate(t.Plate)
		t.Brand = CleanText(t.Brand)
		t.Driver.DocType = strings.TrimSpace(t.Driver.DocType)
		if t.Driver.DocType == "" {
			t.Driver.DocType = sunat.DefaultDriverDocType
		}
		t.Driver.DocNumber = strings.TrimSpace(t.Driver.DocNumber)
		t.Driver.FirstName = CleanText(t.Driver.FirstName)
		t.Driver.LastName = CleanText(t.Driver.LastName)
		t.Driver.License = CleanText(t.Driver.License)
		w.Transport = t
	}

	for i := range w.Lines {
		l := &w.Lines[i]
		l.LineNo = i + 1
		l.UnitCode = CleanText(l.UnitCode)
		if l.UnitCode == "" {
			l.UnitCode = sunat.UnitNIU
		}
		l.Code = CleanText(l.Code)
		l.Description = CleanText(l.Description)
	}
}
