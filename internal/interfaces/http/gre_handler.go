package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gre-api/internal/application/dto"
	"github.com/jhoicas/gre-api/internal/application/gre"
	"github.com/jhoicas/gre-api/internal/domain/entity"
)

type waybillSubmitter interface {
	Submit(ctx context.Context, actor gre.Actor, w *entity.Waybill) (*gre.SubmitResult, error)
}

type waybillVoider interface {
	Void(ctx context.Context, actor gre.Actor, waybillID string) (*gre.VoidResult, error)
}

type waybillQuerier interface {
	NextCorrelative(ctx context.Context, series string) (int, error)
	GetWaybill(ctx context.Context, id string) (*entity.Waybill, error)
}

type waybillPrinter interface {
	DownloadPrintable(ctx context.Context, waybillID string) ([]byte, string, error)
}

// GREHandler expone la emisión, anulación y consulta de guías de remisión (protegido).
type GREHandler struct {
	submit waybillSubmitter
	void   waybillVoider
	query  waybillQuerier
	pdf    waybillPrinter
}

// NewGREHandler construye el handler.
func NewGREHandler(submit waybillSubmitter, void waybillVoider, query waybillQuerier, pdf waybillPrinter) *GREHandler {
	return &GREHandler{submit: submit, void: void, query: query, pdf: pdf}
}

// Submit godoc
// @Summary      Emitir guía de remisión electrónica
// @Description  Construye el XML UBL 2.1, lo firma, lo envía a SUNAT y espera el CDR.
//
//	Solo si SUNAT acepta se registra la guía y se descuenta stock.
//
// @Tags         gre
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SubmitWaybillRequest  true  "Cabecera, transporte, puntos y líneas"
// @Success      201   {object}  dto.SubmitWaybillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      504   {object}  dto.ErrorResponse
// @Router       /api/gre [post]
func (h *GREHandler) Submit(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SubmitWaybillRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	w, err := gre.WaybillFromRequest(in)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.submit.Submit(c.UserContext(), ActorFrom(c), w)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(gre.ToSubmitResponse(res))
}

// Void godoc
// @Summary      Anular guía de remisión
// @Description  Anulación local: marca la guía como anulada y restituye el stock despachado.
// @Tags         gre
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la guía (UUID)"
// @Success      200  {object}  dto.VoidWaybillResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/gre/{id}/void [post]
func (h *GREHandler) Void(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	res, err := h.void.Void(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(gre.ToVoidResponse(res))
}

// NextCorrelative godoc
// @Summary      Siguiente correlativo de una serie
// @Description  Sugerencia: no reserva el número.
// @Tags         gre
// @Security     Bearer
// @Produce      json
// @Param        series  query     string  true  "Serie (T###)"
// @Success      200     {object}  dto.NextCorrelativeResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/gre/next-correlative [get]
func (h *GREHandler) NextCorrelative(c *fiber.Ctx) error {
	series := c.Query("series")
	if series == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "series requerido"})
	}
	next, err := h.query.NextCorrelative(c.UserContext(), series)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NextCorrelativeResponse{Series: normalizeSeries(series), Next: next})
}

// GetByID godoc
// @Summary      Detalle de una guía
// @Tags         gre
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la guía (UUID)"
// @Success      200  {object}  dto.WaybillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/gre/{id} [get]
func (h *GREHandler) GetByID(c *fiber.Ctx) error {
	w, err := h.query.GetWaybill(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(gre.ToWaybillResponse(w))
}

// DownloadPDF godoc
// @Summary      Representación impresa de la guía
// @Tags         gre
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ID de la guía (UUID)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/gre/{id}/pdf [get]
func (h *GREHandler) DownloadPDF(c *fiber.Ctx) error {
	body, filename, err := h.pdf.DownloadPrintable(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}

func normalizeSeries(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
