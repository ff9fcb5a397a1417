package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gre-api/internal/application/dto"
	"github.com/jhoicas/gre-api/internal/application/gre"
	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	apphttp "github.com/jhoicas/gre-api/internal/interfaces/http"
)

type fakeSubmitter struct {
	actor gre.Actor
	got   *entity.Waybill
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, actor gre.Actor, w *entity.Waybill) (*gre.SubmitResult, error) {
	f.actor, f.got = actor, w
	if f.err != nil {
		return nil, f.err
	}
	w.ID = "wb-1"
	w.Status = entity.WaybillStatusAccepted
	return &gre.SubmitResult{
		Waybill:      w,
		Transfer:     &entity.StockTransfer{ID: "tr-1"},
		Ticket:       "TCK-1",
		ResponseCode: "0",
		Verification: "https://e-factura.sunat.gob.pe/qr/abc",
	}, nil
}

type fakeVoider struct {
	actor gre.Actor
	err   error
}

func (f *fakeVoider) Void(_ context.Context, actor gre.Actor, id string) (*gre.VoidResult, error) {
	f.actor = actor
	if f.err != nil {
		return nil, f.err
	}
	return &gre.VoidResult{
		Waybill:       &entity.Waybill{ID: id, Series: "T001", Number: 45, Status: entity.WaybillStatusVoided},
		RestoredItems: 2,
		StockReverted: true,
	}, nil
}

type fakeQuerier struct {
	series   string
	next     int
	waybills map[string]*entity.Waybill
	err      error
}

func (f *fakeQuerier) NextCorrelative(_ context.Context, series string) (int, error) {
	f.series = series
	return f.next, f.err
}

func (f *fakeQuerier) GetWaybill(_ context.Context, id string) (*entity.Waybill, error) {
	w, ok := f.waybills[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

type fakePrinter struct{}

func (fakePrinter) DownloadPrintable(_ context.Context, id string) ([]byte, string, error) {
	if id != "wb-1" {
		return nil, "", domain.ErrNotFound
	}
	return []byte("%PDF-1.3 fake"), "GRE-T001-45.pdf", nil
}

type greFixture struct {
	app    *fiber.App
	submit *fakeSubmitter
	void   *fakeVoider
	query  *fakeQuerier
}

func newGREFixture() *greFixture {
	f := &greFixture{
		submit: &fakeSubmitter{},
		void:   &fakeVoider{},
		query:  &fakeQuerier{next: 46, waybills: map[string]*entity.Waybill{}},
	}
	f.app = fiber.New()
	apphttp.Router(f.app, apphttp.RouterDeps{
		Submit:    f.submit,
		Void:      f.void,
		Query:     f.query,
		PDF:       fakePrinter{},
		JWTSecret: testJWTSecret,
	})
	return f
}

func (f *greFixture) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func solicitudGuia() dto.SubmitWaybillRequest {
	return dto.SubmitWaybillRequest{
		Series:            "T001",
		Number:            45,
		IssueDate:         "2026-03-10",
		IssueTime:         "10:30:00",
		TransferStartDate: "2026-03-10",
		Recipient:         dto.PartyDTO{DocType: "6", DocNumber: "20601514789", Name: "Comercial Andina SAC"},
		ReasonCode:        "01",
		GrossWeight:       decimal.RequireFromString("25.5"),
		Transport: dto.TransportDTO{
			Mode:   "02",
			Plate:  "ABC-123",
			Driver: &dto.DriverDTO{DocNumber: "45678912", FirstName: "Juan", LastName: "Quispe"},
		},
		Origin:      dto.LocationDTO{Ubigeo: "150101", Address: "Av. Argentina 1234"},
		Destination: dto.LocationDTO{Ubigeo: "040101", Address: "Calle Mercaderes 200"},
		Lines: []dto.WaybillLineDTO{
			{Code: "SKU-001", Description: "Cemento", Quantity: decimal.NewFromInt(10)},
		},
	}
}

func TestGRE_Submit_Aceptada201(t *testing.T) {
	f := newGREFixture()
	resp := f.do(t, http.MethodPost, "/api/gre", "bodeguero", solicitudGuia())
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.SubmitWaybillResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "T001-45", out.FullNumber)
	assert.Equal(t, "TCK-1", out.Ticket)
	assert.Equal(t, "tr-1", out.TransferID)
	assert.Equal(t, entity.WaybillStatusAccepted, out.Status)

	require.NotNil(t, f.submit.got)
	assert.Equal(t, testUserID, f.submit.actor.UserID)
	assert.Equal(t, "bodeguero", f.submit.actor.Role)
	assert.Equal(t, entity.GreTypeDispatcher, f.submit.got.Type, "tipo por defecto remitente")
	pt, ok := f.submit.got.Transport.(entity.PrivateTransport)
	require.True(t, ok)
	assert.Equal(t, "ABC-123", pt.Plate)
	assert.Equal(t, 10, f.submit.got.IssueDate.Hour())
}

func TestGRE_Submit_FechaInvalida400SinLlamarAlPipeline(t *testing.T) {
	f := newGREFixture()
	in := solicitudGuia()
	in.IssueDate = "10/03/2026"
	resp := f.do(t, http.MethodPost, "/api/gre", "admin", in)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
	assert.Nil(t, f.submit.got)
}

func TestGRE_Submit_ModalidadDesconocida400(t *testing.T) {
	f := newGREFixture()
	in := solicitudGuia()
	in.Transport.Mode = "03"
	resp := f.do(t, http.MethodPost, "/api/gre", "admin", in)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, f.submit.got)
}

func TestGRE_Submit_CuerpoInvalido400(t *testing.T) {
	f := newGREFixture()
	req := httptest.NewRequest(http.MethodPost, "/api/gre", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestGRE_Submit_VendedorSinAcceso(t *testing.T) {
	f := newGREFixture()
	resp := f.do(t, http.MethodPost, "/api/gre", "vendedor", solicitudGuia())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Nil(t, f.submit.got)
}

func TestGRE_Submit_SinToken401(t *testing.T) {
	f := newGREFixture()
	resp := f.do(t, http.MethodPost, "/api/gre", "", solicitudGuia())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGRE_Submit_ErroresDelPipeline(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		ticket string
	}{
		{"duplicada", &domain.ConflictError{Msg: "la guía T001-45 ya fue emitida"}, http.StatusConflict, "CONFLICT", ""},
		{"firma", &domain.SigningError{Err: errors.New("pfx corrupto")}, http.StatusInternalServerError, "SIGNING", ""},
		{"credenciales", &domain.AuthError{Status: 401, Err: errors.New("invalid_client")}, http.StatusBadGateway, "SUNAT_AUTH", ""},
		{"envio", &domain.SubmitError{Status: 500, Err: errors.New("sin ticket")}, http.StatusBadGateway, "SUNAT_SUBMIT", ""},
		{"timeout", &domain.TimeoutError{Ticket: "TCK-9", Attempts: 10, LastCode: "98"}, http.StatusGatewayTimeout, "SUNAT_TIMEOUT", "TCK-9"},
		{"rechazo", &domain.RejectedError{Ticket: "TCK-7", Code: "99", Message: "2800"}, http.StatusUnprocessableEntity, "SUNAT_REJECTED", "TCK-7"},
		{"registro", &domain.LedgerError{Ticket: "TCK-5", ResponseCode: "0", Err: errors.New("db caída")}, http.StatusInternalServerError, "LEDGER", "TCK-5"},
		{"registro con número repetido", &domain.LedgerError{Ticket: "TCK-6", ResponseCode: "0", Err: &domain.ConflictError{Msg: "la guía T001-45 ya está registrada"}}, http.StatusInternalServerError, "LEDGER", "TCK-6"},
		{"registro sin fila", &domain.LedgerError{Ticket: "TCK-7", Err: domain.ErrNotFound}, http.StatusInternalServerError, "LEDGER", "TCK-7"},
		{"interno", errors.New("boom"), http.StatusInternalServerError, "INTERNAL", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newGREFixture()
			f.submit.err = tc.err
			resp := f.do(t, http.MethodPost, "/api/gre", "admin", solicitudGuia())
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.ticket, body.Ticket)
		})
	}
}

func TestGRE_Void_AdminOK(t *testing.T) {
	f := newGREFixture()
	resp := f.do(t, http.MethodPost, "/api/gre/wb-1/void", "admin", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.VoidWaybillResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "wb-1", out.ID)
	assert.Equal(t, entity.WaybillStatusVoided, out.Status)
	assert.Equal(t, 2, out.RestoredItems)
	assert.True(t, out.StockReverted)
	assert.Empty(t, out.Note)
	assert.Equal(t, "admin", f.void.actor.Role)
}

func TestGRE_Void_SinPrivilegio403(t *testing.T) {
	f := newGREFixture()
	f.void.err = &domain.PermissionError{Msg: "solo un administrador puede anular guías"}
	resp := f.do(t, http.MethodPost, "/api/gre/wb-1/void", "bodeguero", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestGRE_Void_YaAnulada409(t *testing.T) {
	f := newGREFixture()
	f.void.err = &domain.ConflictError{Msg: "la guía T001-45 ya está anulada"}
	resp := f.do(t, http.MethodPost, "/api/gre/wb-1/void", "admin", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGRE_NextCorrelative(t *testing.T) {
	f := newGREFixture()
	resp := f.do(t, http.MethodGet, "/api/gre/next-correlative?series=t001", "bodeguero", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.NextCorrelativeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "T001", out.Series)
	assert.Equal(t, 46, out.Next)
	assert.Equal(t, "t001", f.query.series, "la normalización la hace el caso de uso")
}

func TestGRE_NextCorrelative_SinSerie400(t *testing.T) {
	f := newGREFixture()
	resp := f.do(t, http.MethodGet, "/api/gre/next-correlative", "admin", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGRE_NextCorrelative_SerieInvalida400(t *testing.T) {
	f := newGREFixture()
	f.query.err = &domain.ValidationError{Err: errors.New(`serie "F001" inválida`)}
	resp := f.do(t, http.MethodGet, "/api/gre/next-correlative?series=F001", "admin", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestGRE_GetByID(t *testing.T) {
	f := newGREFixture()
	f.query.waybills["wb-1"] = &entity.Waybill{
		ID: "wb-1", Series: "T001", Number: 45, Type: entity.GreTypeDispatcher,
		Transport: entity.PublicTransport{CarrierRUC: "20100070970", CarrierName: "Transportes Sur"},
		Status:    entity.WaybillStatusAccepted,
		Lines:     []entity.WaybillLine{{LineNo: 1, Code: "SKU-001", Quantity: decimal.NewFromInt(3)}},
	}
	resp := f.do(t, http.MethodGet, "/api/gre/wb-1", "admin", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.WaybillResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "T001-45", out.FullNumber)
	assert.Equal(t, "01", out.TransportMode)
	require.Len(t, out.Lines, 1)
	assert.True(t, decimal.NewFromInt(3).Equal(out.Lines[0].Quantity))
}

func TestGRE_GetByID_NoExiste404(t *testing.T) {
	f := newGREFixture()
	resp := f.do(t, http.MethodGet, "/api/gre/nope", "admin", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

func TestGRE_DownloadPDF(t *testing.T) {
	f := newGREFixture()
	resp := f.do(t, http.MethodGet, "/api/gre/wb-1/pdf", "bodeguero", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="GRE-T001-45.pdf"`)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestGRE_DownloadPDF_NoExiste404(t *testing.T) {
	f := newGREFixture()
	resp := f.do(t, http.MethodGet, "/api/gre/otra/pdf", "admin", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
