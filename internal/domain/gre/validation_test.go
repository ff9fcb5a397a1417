package gre_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/gre"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fixture: guía remitente válida con transporte privado
// ─────────────────────────────────────────────────────────────────────────────

func guiaValida() *entity.Waybill {
	emision := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	return &entity.Waybill{
		Series:            "t001",
		Number:            45,
		Type:              entity.GreTypeDispatcher,
		IssueDate:         emision,
		TransferStartDate: emision,
		Recipient:         entity.Party{DocType: "6", DocNumber: "20100100101", Name: "  cliente sac "},
		ReasonCode:        "01",
		GrossWeight:       decimal.NewFromInt(12),
		Transport: entity.PrivateTransport{
			Plate:  "abc-123",
			Driver: entity.Driver{DocNumber: "45678912", FirstName: "juan", LastName: "pérez"},
		},
		Origin:      entity.Location{Ubigeo: "150101", Address: "av. arequipa 123"},
		Destination: entity.Location{Ubigeo: "040101", Address: "calle mercaderes 45"},
		Lines: []entity.WaybillLine{
			{Code: "sku-1", Description: "tornillo", Quantity: decimal.NewFromInt(10)},
			{Code: "sku-2", UnitCode: "kgm", Description: "cemento", Quantity: decimal.RequireFromString("2.5")},
		},
	}
}

func TestNormalize_LimpiaTextosYValoresPorDefecto(t *testing.T) {
	w := guiaValida()
	gre.Normalize(w)

	assert.Equal(t, "T001", w.Series)
	assert.Equal(t, "CLIENTE SAC", w.Recipient.Name)
	assert.Equal(t, "AV. AREQUIPA 123", w.Origin.Address)

	pt, ok := w.Transport.(entity.PrivateTransport)
	require.True(t, ok)
	assert.Equal(t, "ABC123", pt.Plate)
	assert.Equal(t, "1", pt.Driver.DocType, "el tipo de documento del conductor por defecto es DNI")
	assert.Equal(t, "PÉREZ", pt.Driver.LastName)

	assert.Equal(t, 1, w.Lines[0].LineNo)
	assert.Equal(t, 2, w.Lines[1].LineNo)
	assert.Equal(t, "NIU", w.Lines[0].UnitCode)
	assert.Equal(t, "KGM", w.Lines[1].UnitCode)
}

func TestNormalizePlate_VaciaUsaPlaceholder(t *testing.T) {
	assert.Equal(t, "000000", gre.NormalizePlate("  "))
	assert.Equal(t, "B7Q921", gre.NormalizePlate("b7q - 921"))
}

func TestValidate_GuiaCorrecta(t *testing.T) {
	w := guiaValida()
	gre.Normalize(w)
	require.NoError(t, gre.Validate(w))
}

func TestValidate_TransportePublicoCorrecto(t *testing.T) {
	w := guiaValida()
	w.Transport = entity.PublicTransport{CarrierRUC: "20601514789", CarrierName: "transportes andinos"}
	gre.Normalize(w)
	require.NoError(t, gre.Validate(w))
}

func TestValidate_AcumulaHallazgos(t *testing.T) {
	w := guiaValida()
	w.Series = "F001"
	w.Number = 0
	w.ReasonCode = "77"
	w.GrossWeight = decimal.Zero
	w.Origin.Ubigeo = "15010"
	w.Lines = nil
	gre.Normalize(w)

	err := gre.Validate(w)
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	msg := err.Error()
	assert.Contains(t, msg, "serie")
	assert.Contains(t, msg, "número 0")
	assert.Contains(t, msg, "catálogo 20")
	assert.Contains(t, msg, "peso bruto")
	assert.Contains(t, msg, "punto de partida")
	assert.Contains(t, msg, "al menos un ítem")
}

func TestValidate_TrasladoAntesDeEmision(t *testing.T) {
	w := guiaValida()
	w.TransferStartDate = w.IssueDate.AddDate(0, 0, -1)
	gre.Normalize(w)
	err := gre.Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "antes de la emisión")
}

func TestValidate_MismoDiaHoraAnteriorEsValido(t *testing.T) {
	w := guiaValida()
	w.TransferStartDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	gre.Normalize(w)
	require.NoError(t, gre.Validate(w))
}

func TestValidate_TransportePublicoRUCInvalido(t *testing.T) {
	w := guiaValida()
	w.Transport = entity.PublicTransport{CarrierRUC: "20601514788", CarrierName: ""}
	gre.Normalize(w)
	err := gre.Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transportista")
}

func TestValidate_SinModalidad(t *testing.T) {
	w := guiaValida()
	w.Transport = nil
	gre.Normalize(w)
	err := gre.Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modalidad de transporte requerida")
}

func TestValidate_ConductorSinDocumento(t *testing.T) {
	w := guiaValida()
	w.Transport = entity.PrivateTransport{Plate: "ABC123"}
	gre.Normalize(w)
	err := gre.Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conductor")
}

func TestValidate_TransportistaExigeRemitenteOriginal(t *testing.T) {
	w := guiaValida()
	w.Type = entity.GreTypeCarrier
	gre.Normalize(w)
	err := gre.Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remitente original")

	w.OriginalSender = &entity.Party{DocNumber: "20601514789", Name: "distribuidora norte"}
	gre.Normalize(w)
	require.NoError(t, gre.Validate(w))
	assert.Equal(t, "6", w.OriginalSender.DocType)
}

func TestValidate_LineaConCantidadCero(t *testing.T) {
	w := guiaValida()
	w.Lines[1].Quantity = decimal.Zero
	gre.Normalize(w)
	err := gre.Validate(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ítem 2")
}

func TestValidate_IdentificadoresNoUUID(t *testing.T) {
	w := guiaValida()
	w.OriginWarehouseID = "BOD-1"
	w.CostCenterID = "CC-01"
	gre.Normalize(w)
	err := gre.Validate(w)
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), "bodega de origen")
	assert.Contains(t, err.Error(), "centro de costo")
}

func TestValidate_IdentificadoresUUID(t *testing.T) {
	w := guiaValida()
	w.OriginWarehouseID = " 7f1c2d3e-4b5a-4c6d-8e9f-0a1b2c3d4e5f "
	w.CostCenterID = "0b9e8d7c-6a5b-4c3d-9e2f-1a0b9c8d7e6f"
	gre.Normalize(w)
	require.NoError(t, gre.Validate(w))
	assert.Equal(t, "7f1c2d3e-4b5a-4c6d-8e9f-0a1b2c3d4e5f", w.OriginWarehouseID)
}
