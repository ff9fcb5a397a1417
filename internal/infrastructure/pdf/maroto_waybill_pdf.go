// Package pdf implementa la representación impresa de la Guía de Remisión Electrónica.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUC  │  GUÍA REMITENTE + N° + Fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATARIO  │  MOTIVO + PESO + INICIO DE TRASLADO         │
//	│  PUNTO DE PARTIDA / PUNTO DE LLEGADA                         │
//	│  TRANSPORTE: transportista o vehículo + conductor            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: N° | Código | Descripción | Unidad | Cantidad        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER SUNAT: QR + ticket + leyenda                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appgre "github.com/jhoicas/gre-api/internal/application/gre"
	"github.com/jhoicas/gre-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 190, Green: 30, Blue: 45}
)

var _ appgre.PDFGenerator = (*MarotoWaybillPDF)(nil)

// MarotoWaybillPDF implementa gre.PDFGenerator usando Maroto v2.
type MarotoWaybillPDF struct{}

// NewMarotoWaybillPDF construye el generador.
func NewMarotoWaybillPDF() *MarotoWaybillPDF { return &MarotoWaybillPDF{} }

// GenerateWaybillPDF genera el PDF y devuelve sus bytes.
func (g *MarotoWaybillPDF) GenerateWaybillPDF(_ context.Context, doc *appgre.PrintableWaybill) ([]byte, error) {
	w := doc.Waybill
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de Remisión Electrónica "+w.FullNumber(), true).
		WithAuthor(doc.Issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	if w.IsVoided() {
		m.AddRows(voidedRow())
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(recipientRow(doc))
	m.AddRows(placesRow(doc))
	m.AddRows(transportRows(w)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(w.Lines, doc.UnitSymbols)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + RUC (izq) y número de guía + fecha (der).
func headerRow(doc *appgre.PrintableWaybill) core.Row {
	w := doc.Waybill
	return row.New(20).Add(
		col.New(7).Add(
			text.New(doc.Issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUC: "+doc.Issuer.RUC, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("GUÍA DE REMISIÓN ELECTRÓNICA REMITENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(w.FullNumber(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emisión: "+w.IssueDate.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func voidedRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("ANULADA", props.Text{
			Style: fontstyle.Bold, Size: 16, Align: align.Center, Color: colorRed, Top: 1,
		}),
	))
}

// recipientRow: destinatario (izq) y datos del traslado (der).
func recipientRow(doc *appgre.PrintableWaybill) core.Row {
	w := doc.Waybill
	return row.New(20).Add(
		col.New(7).Add(
			label("DESTINATARIO", 1),
			text.New(w.Recipient.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Doc. %s: %s", w.Recipient.DocType, w.Recipient.DocNumber),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(5).Add(
			label("DATOS DEL TRASLADO", 1),
			text.New("Motivo: "+w.ReasonCode+" - "+doc.ReasonText, props.Text{Size: 8, Top: 6}),
			text.New("Peso bruto: "+w.GrossWeight.StringFixed(3)+" KGM", props.Text{Size: 8, Top: 10}),
			text.New("Inicio de traslado: "+w.TransferStartDate.Format("02/01/2006"), props.Text{Size: 8, Top: 14}),
		),
	)
}

// placesRow: punto de partida y de llegada con su ubigeo legible.
func placesRow(doc *appgre.PrintableWaybill) core.Row {
	w := doc.Waybill
	place := func(title string, loc entity.Location, display string) core.Col {
		return col.New(6).Add(
			label(title, 1),
			text.New(loc.Address, props.Text{Size: 8, Top: 6}),
			text.New(nonEmpty(display, loc.Ubigeo), props.Text{Size: 7, Top: 11, Color: colorGray}),
		)
	}
	return row.New(17).Add(
		place("PUNTO DE PARTIDA", w.Origin, doc.OriginPlace),
		place("PUNTO DE LLEGADA", w.Destination, doc.DestinationPlace),
	)
}

// transportRows: bloque del transportista (público) o del vehículo y conductor (privado).
func transportRows(w *entity.Waybill) []core.Row {
	switch t := w.Transport.(type) {
	case entity.PublicTransport:
		return []core.Row{row.New(14).Add(col.New(12).Add(
			label("TRANSPORTE PÚBLICO", 1),
			text.New(fmt.Sprintf("Transportista: %s   |   RUC: %s", t.CarrierName, t.CarrierRUC),
				props.Text{Size: 8, Top: 7}),
		))}
	case entity.PrivateTransport:
		vehicle := "Placa: " + t.Plate
		if t.Brand != "" {
			vehicle += "   |   Marca: " + t.Brand
		}
		driver := fmt.Sprintf("Conductor: %s   |   Doc. %s: %s", t.Driver.FullName(), t.Driver.DocType, t.Driver.DocNumber)
		if t.Driver.License != "" {
			driver += "   |   Licencia: " + t.Driver.License
		}
		return []core.Row{row.New(18).Add(col.New(12).Add(
			label("TRANSPORTE PRIVADO", 1),
			text.New(vehicle, props.Text{Size: 8, Top: 7}),
			text.New(driver, props.Text{Size: 8, Top: 12}),
		))}
	}
	return nil
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(title string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("N°", 1, align.Center),
		h("Código", 2, align.Left),
		h("Descripción", 6, align.Left),
		h("Unidad", 1, align.Center),
		h("Cantidad", 2, align.Right),
	)
}

// tableLineRows: una fila por ítem de la guía.
func tableLineRows(lines []entity.WaybillLine, symbols map[string]string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.LineNo), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(6).Add(text.New(l.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(nonEmpty(symbols[l.UnitCode], l.UnitCode), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// footerRows: QR de verificación + ticket + leyenda.
func footerRows(doc *appgre.PrintableWaybill) []core.Row {
	w := doc.Waybill
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			label("INFORMACIÓN ELECTRÓNICA SUNAT", 1),
		)),
	}
	rows = append(rows, row.New(45).Add(
		col.New(4).Add(code.NewQr(doc.QRContent, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Ticket SUNAT: "+w.Ticket, props.Text{Size: 8, Top: 4, Left: 3}),
			text.New("Escanee el código QR para consultar\nesta guía en SUNAT.", props.Text{
				Size: 8, Top: 10, Left: 3, Color: colorGray,
			}),
			text.New("Representación impresa de la\nGUÍA DE REMISIÓN ELECTRÓNICA REMITENTE", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 24, Left: 3, Color: colorPrimary,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func label(s string, top float64) core.Component {
	return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: top})
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
