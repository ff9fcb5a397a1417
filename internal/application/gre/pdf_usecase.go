package gre

import (
	"context"
	"fmt"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/repository"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

// PDFUseCase genera la representación impresa de una guía registrada.
type PDFUseCase struct {
	waybills  repository.WaybillRepository
	ubigeos   repository.UbigeoRepository
	units     repository.UnitMeasureRepository
	generator PDFGenerator
	issuer    Issuer
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	waybills repository.WaybillRepository,
	ubigeos repository.UbigeoRepository,
	units repository.UnitMeasureRepository,
	generator PDFGenerator,
	issuer Issuer,
) *PDFUseCase {
	return &PDFUseCase{
		waybills:  waybills,
		ubigeos:   ubigeos,
		units:     units,
		generator: generator,
		issuer:    issuer,
	}
}

// DownloadPrintable devuelve (pdfBytes, filename). domain.ErrNotFound si la guía no existe.
// Ubigeos y unidades no cargados se imprimen con su código.
func (uc *PDFUseCase) DownloadPrintable(ctx context.Context, waybillID string) ([]byte, string, error) {
	w, err := uc.waybills.GetByID(ctx, waybillID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener guía: %w", err)
	}
	if w == nil {
		return nil, "", domain.ErrNotFound
	}

	doc := &PrintableWaybill{
		Waybill:          w,
		Issuer:           uc.issuer,
		OriginPlace:      uc.place(ctx, w.Origin.Ubigeo),
		DestinationPlace: uc.place(ctx, w.Destination.Ubigeo),
		ReasonText:       reasonText(w),
		UnitSymbols:      uc.unitSymbols(ctx, w.Lines),
		QRContent:        QRContent(w, uc.issuer.RUC),
	}

	pdfBytes, err := uc.generator.GenerateWaybillPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("GRE-%s-%d.pdf", w.Series, w.Number), nil
}

func (uc *PDFUseCase) place(ctx context.Context, code string) string {
	if code == "" {
		return ""
	}
	u, err := uc.ubigeos.GetByCode(ctx, code)
	if err != nil || u == nil {
		return code
	}
	return u.Display()
}

func (uc *PDFUseCase) unitSymbols(ctx context.Context, lines []entity.WaybillLine) map[string]string {
	out := make(map[string]string, len(lines))
	for _, l := range lines {
		if _, ok := out[l.UnitCode]; ok {
			continue
		}
		out[l.UnitCode] = l.UnitCode
		if u, err := uc.units.GetBySunatCode(ctx, l.UnitCode); err == nil && u != nil && u.Symbol != "" {
			out[l.UnitCode] = u.Symbol
		}
	}
	return out
}

func reasonText(w *entity.Waybill) string {
	if w.ReasonText != "" {
		return w.ReasonText
	}
	return sunat.TransferReasons[w.ReasonCode]
}
