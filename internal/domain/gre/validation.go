package gre

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

var (
	seriesPattern = regexp.MustCompile(`^T[A-Z0-9]{3}$`)
	ubigeoPattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// MaxNumber correlativo máximo permitido por SUNAT (8 dígitos).
const MaxNumber = 99999999

// ValidSeries indica si la serie cumple el formato de guía remitente (T + 3 alfanuméricos).
func ValidSeries(series string) bool {
	return seriesPattern.MatchString(series)
}

// Validate revisa la guía ya normalizada. Devuelve *domain.ValidationError con todos los
// hallazgos unidos, o nil. No tiene efectos secundarios.
func Validate(w *entity.Waybill) error {
	if w == nil {
		return &domain.ValidationError{Err: errors.New("guía nula")}
	}
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !seriesPattern.MatchString(w.Series) {
		add("serie %q inválida (formato T###)", w.Series)
	}
	if w.Number < 1 || w.Number > MaxNumber {
		add("número %d fuera de rango", w.Number)
	}
	if !w.Type.Valid() {
		add("tipo de guía %q no soportado", w.Type)
	}
	if w.IssueDate.IsZero() {
		add("fecha de emisión requerida")
	}
	if w.TransferStartDate.IsZero() {
		add("fecha de inicio de traslado requerida")
	} else if !w.IssueDate.IsZero() && dateOnly(w.TransferStartDate) < dateOnly(w.IssueDate) {
		add("el traslado no puede iniciar antes de la emisión")
	}

	errs = append(errs, validateParty("destinatario", w.Recipient)...)
	if w.Type == entity.GreTypeCarrier {
		if w.OriginalSender == nil {
			add("remitente original requerido en guía transportista")
		} else {
			if err := sunat.ValidateRUC(w.OriginalSender.DocNumber); err != nil {
				add("remitente original: %v", err)
			}
			if w.OriginalSender.Name == "" {
				add("razón social del remitente original requerida")
			}
		}
	}

	if _, ok := sunat.TransferReasons[w.ReasonCode]; !ok {
		add("motivo de traslado %q no existe en el catálogo 20", w.ReasonCode)
	}
	if !w.GrossWeight.GreaterThan(decimal.Zero) {
		add("peso bruto total debe ser mayor a cero")
	}
	errs = append(errs, validateLocation("punto de partida", w.Origin)...)
	errs = append(errs, validateLocation("punto de llegada", w.Destination)...)
	errs = append(errs, validateTransport(w.Transport)...)

	if w.OriginWarehouseID != "" {
		if _, err := uuid.Parse(w.OriginWarehouseID); err != nil {
			add("bodega de origen %q no es un UUID", w.OriginWarehouseID)
		}
	}
	if w.CostCenterID != "" {
		if _, err := uuid.Parse(w.CostCenterID); err != nil {
			add("centro de costo %q no es un UUID", w.CostCenterID)
		}
	}

	if len(w.Lines) == 0 {
		add("la guía debe tener al menos un ítem")
	}
	for i, l := range w.Lines {
		if l.Description == "" {
			add("ítem %d: descripción requerida", i+1)
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			add("ítem %d: cantidad debe ser mayor a cero", i+1)
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Err: errors.Join(errs...)}
	}
	return nil
}

func validateParty(label string, p entity.Party) []error {
	var errs []error
	if !sunat.ValidIdentityDocTypes[p.DocType] {
		errs = append(errs, fmt.Errorf("%s: tipo de documento %q inválido", label, p.DocType))
	}
	if p.DocNumber == "" {
		errs = append(errs, fmt.Errorf("%s: número de documento requerido", label))
	} else if p.DocType == sunat.IdentityRUC {
		if err := sunat.ValidateRUC(p.DocNumber); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("%s: denominación requerida", label))
	}
	return errs
}

func validateLocation(label string, l entity.Location) []error {
	var errs []error
	if !ubigeoPattern.MatchString(l.Ubigeo) {
		errs = append(errs, fmt.Errorf("%s: ubigeo %q inválido", label, l.Ubigeo))
	}
	if l.Address == "" {
		errs = append(errs, fmt.Errorf("%s: dirección requerida", label))
	}
	return errs
}

func validateTransport(t entity.Transport) []error {
	switch v := t.(type) {
	case entity.PublicTransport:
		var errs []error
		if err := sunat.ValidateRUC(v.CarrierRUC); err != nil {
			errs = append(errs, fmt.Errorf("transportista: %w", err))
		}
		if v.CarrierName == "" {
			errs = append(errs, errors.New("transportista: denominación requerida"))
		}
		return errs
	case entity.PrivateTransport:
		var errs []error
		if v.Plate == "" {
			errs = append(errs, errors.New("vehículo: placa requerida"))
		}
		if !sunat.ValidIdentityDocTypes[v.Driver.DocType] {
			errs = append(errs, fmt.Errorf("conductor: tipo de documento %q inválido", v.Driver.DocType))
		}
		if v.Driver.DocNumber == "" {
			errs = append(errs, errors.New("conductor: número de documento requerido"))
		}
		return errs
	case nil:
		return []error{errors.New("modalidad de transporte requerida")}
	default:
		return []error{fmt.Errorf("modalidad de transporte %T no soportada", t)}
	}
}

func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
