package gre

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/gre-api/internal/application/dto"
	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

// limaTZ hora oficial del Perú (UTC-5, sin horario de verano).
var limaTZ = time.FixedZone("PET", -5*60*60)

// WaybillFromRequest convierte el cuerpo HTTP en la entidad. La modalidad se decide aquí,
// una sola vez; errores de formato se devuelven como *domain.ValidationError.
func WaybillFromRequest(in dto.SubmitWaybillRequest) (*entity.Waybill, error) {
	var errs []error

	issue, err := parseDateTime(in.IssueDate, in.IssueTime)
	if err != nil {
		errs = append(errs, fmt.Errorf("fecha_emision: %w", err))
	}
	start, err := parseDateTime(in.TransferStartDate, "")
	if err != nil {
		errs = append(errs, fmt.Errorf("fecha_inicio_traslado: %w", err))
	}
	transport, err := transportFromDTO(in.Transport)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Err: errors.Join(errs...)}
	}

	w := &entity.Waybill{
		Series:            in.Series,
		Number:            in.Number,
		Type:              entity.GreType(strings.ToLower(strings.TrimSpace(in.Type))),
		IssueDate:         issue,
		TransferStartDate: start,
		Recipient:         partyFromDTO(in.Recipient),
		ReasonCode:        in.ReasonCode,
		ReasonText:        in.ReasonText,
		Notes:             in.Notes,
		GrossWeight:       in.GrossWeight,
		Transport:         transport,
		Origin:            entity.Location{Ubigeo: in.Origin.Ubigeo, Address: in.Origin.Address},
		Destination:       entity.Location{Ubigeo: in.Destination.Ubigeo, Address: in.Destination.Address},
		OriginWarehouseID: in.OriginWarehouseID,
		CostCenterID:      in.CostCenterID,
	}
	if w.Type == "" {
		w.Type = entity.GreTypeDispatcher
	}
	if in.OriginalSender != nil {
		p := partyFromDTO(*in.OriginalSender)
		w.OriginalSender = &p
	}
	for _, l := range in.Lines {
		w.Lines = append(w.Lines, entity.WaybillLine{
			UnitCode:    l.UnitCode,
			Code:        l.Code,
			Description: l.Description,
			Quantity:    l.Quantity,
		})
	}
	return w, nil
}

func transportFromDTO(t dto.TransportDTO) (entity.Transport, error) {
	switch strings.TrimSpace(t.Mode) {
	case sunat.TransportModePublic:
		return entity.PublicTransport{CarrierRUC: t.CarrierRUC, CarrierName: t.CarrierName}, nil
	case sunat.TransportModePrivate:
		pt := entity.PrivateTransport{Plate: t.Plate, Brand: t.Brand}
		if t.Driver != nil {
			pt.Driver = entity.Driver{
				DocType:   t.Driver.DocType,
				DocNumber: t.Driver.DocNumber,
				FirstName: t.Driver.FirstName,
				LastName:  t.Driver.LastName,
				License:   t.Driver.License,
			}
		}
		return pt, nil
	case "":
		return nil, errors.New("modalidad de transporte requerida")
	}
	return nil, fmt.Errorf("modalidad %q no soportada (01 público, 02 privado)", t.Mode)
}

func partyFromDTO(p dto.PartyDTO) entity.Party {
	return entity.Party{DocType: p.DocType, DocNumber: p.DocNumber, Name: p.Name}
}

func parseDateTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, errors.New("requerida")
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.ParseInLocation("2006-01-02", date, limaTZ)
	}
	return time.ParseInLocation("2006-01-02 15:04:05", date+" "+clock, limaTZ)
}

// ToSubmitResponse respuesta HTTP de una emisión exitosa.
func ToSubmitResponse(r *SubmitResult) dto.SubmitWaybillResponse {
	out := dto.SubmitWaybillResponse{
		ID:           r.Waybill.ID,
		FullNumber:   r.Waybill.FullNumber(),
		Ticket:       r.Ticket,
		ResponseCode: r.ResponseCode,
		Description:  r.Description,
		Verification: r.Verification,
		Status:       r.Waybill.Status,
	}
	if r.Transfer != nil {
		out.TransferID = r.Transfer.ID
	}
	return out
}

// ToWaybillResponse detalle de la guía registrada.
func ToWaybillResponse(w *entity.Waybill) dto.WaybillResponse {
	out := dto.WaybillResponse{
		ID:                w.ID,
		Series:            w.Series,
		Number:            w.Number,
		FullNumber:        w.FullNumber(),
		Type:              string(w.Type),
		IssueDate:         w.IssueDate.In(limaTZ).Format("2006-01-02 15:04:05"),
		TransferStartDate: w.TransferStartDate.Format("2006-01-02"),
		Recipient:         dto.PartyDTO{DocType: w.Recipient.DocType, DocNumber: w.Recipient.DocNumber, Name: w.Recipient.Name},
		ReasonCode:        w.ReasonCode,
		Origin:            dto.LocationDTO{Ubigeo: w.Origin.Ubigeo, Address: w.Origin.Address},
		Destination:       dto.LocationDTO{Ubigeo: w.Destination.Ubigeo, Address: w.Destination.Address},
		GrossWeight:       w.GrossWeight,
		Ticket:            w.Ticket,
		Verification:      w.VerificationRef,
		Status:            w.Status,
		Lines:             make([]dto.WaybillLineResponse, 0, len(w.Lines)),
	}
	if w.Transport != nil {
		out.TransportMode = w.Transport.Mode()
	}
	if w.VoidedAt != nil {
		out.VoidedAt = w.VoidedAt.In(limaTZ).Format(time.RFC3339)
	}
	for _, l := range w.Lines {
		out.Lines = append(out.Lines, dto.WaybillLineResponse{
			LineNo:      l.LineNo,
			UnitCode:    l.UnitCode,
			Code:        l.Code,
			Description: l.Description,
			Quantity:    l.Quantity,
			ProductID:   l.ProductID,
		})
	}
	return out
}

// NoStockEffectNote nota de una anulación sin transferencia que revertir.
const NoStockEffectNote = "guía sin transferencia de stock: la anulación no afecta el inventario"

// ToVoidResponse confirmación de anulación.
func ToVoidResponse(r *VoidResult) dto.VoidWaybillResponse {
	out := dto.VoidWaybillResponse{
		ID:            r.Waybill.ID,
		FullNumber:    r.Waybill.FullNumber(),
		Status:        r.Waybill.Status,
		RestoredItems: r.RestoredItems,
		StockReverted: r.StockReverted,
	}
	if !r.StockReverted {
		out.Note = NoStockEffectNote
	}
	return out
}
