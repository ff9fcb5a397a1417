package gre_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gre-api/internal/application/gre"
	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
)

type captureGenerator struct {
	doc *gre.PrintableWaybill
}

func (g *captureGenerator) GenerateWaybillPDF(_ context.Context, doc *gre.PrintableWaybill) ([]byte, error) {
	g.doc = doc
	return []byte("%PDF-1.3"), nil
}

func TestQRContent_Prioridad(t *testing.T) {
	w := &entity.Waybill{
		Series: "T001", Number: 45,
		IssueDate: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Recipient: entity.Party{DocType: "6", DocNumber: "20100100101"},
	}

	w.VerificationRef = "https://e-factura.sunat.gob.pe/v1/contribuyente/gre/comprobantes/descargaqr?hashqr=XYZ"
	assert.Equal(t, w.VerificationRef, gre.QRContent(w, rucEmisor))

	w.VerificationRef = "ab+c/d="
	assert.Equal(t,
		"https://e-factura.sunat.gob.pe/v1/contribuyente/gre/comprobantes/descargaqr?hashqr=ab%2Bc%2Fd%3D",
		gre.QRContent(w, rucEmisor))

	w.VerificationRef = ""
	assert.Equal(t, rucEmisor+"|09|T001|45|2026-03-10|6|20100100101", gre.QRContent(w, rucEmisor))
}

func TestDownloadPrintable(t *testing.T) {
	p := newPipeline(t)
	w := emitida(t, p)
	p.store.ubigeos["150101"] = &entity.Ubigeo{Code: "150101", Departamento: "LIMA", Provincia: "LIMA", Distrito: "LIMA"}
	p.store.units["NIU"] = &entity.UnitMeasure{SunatCode: "NIU", Symbol: "UND"}

	gen := &captureGenerator{}
	uc := gre.NewPDFUseCase(memWaybills{p.store}, memUbigeos{p.store}, memUnits{p.store}, gen,
		gre.Issuer{RUC: rucEmisor, Name: "EMISOR PRUEBA SAC"})

	pdf, name, err := uc.DownloadPrintable(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, "GRE-T001-45.pdf", name)
	assert.Equal(t, []byte("%PDF-1.3"), pdf)

	require.NotNil(t, gen.doc)
	assert.Equal(t, "LIMA - LIMA - LIMA", gen.doc.OriginPlace)
	assert.Equal(t, "040101", gen.doc.DestinationPlace, "ubigeo no cargado se imprime con su código")
	assert.Equal(t, "UND", gen.doc.UnitSymbols["NIU"])
	assert.Equal(t, "VENTA", gen.doc.ReasonText)
	assert.Contains(t, gen.doc.QRContent, "descargaqr?hashqr=")
}

func TestDownloadPrintable_NoExiste(t *testing.T) {
	p := newPipeline(t)
	uc := gre.NewPDFUseCase(memWaybills{p.store}, memUbigeos{p.store}, memUnits{p.store}, &captureGenerator{}, gre.Issuer{})
	_, _, err := uc.DownloadPrintable(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
