package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/application/dto"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain"
	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
)

// invoiceIssuer lo implementa *billing.IssueInvoiceUseCase.
type invoiceIssuer interface {
	IssueInvoice(ctx context.Context, orderID string, tipo int) (*dto.IssueDTEResponse, error)
}

// documentReader lo implementa *billing.DocumentUseCase.
type documentReader interface {
	Get(ctx context.Context, tipo int, folio int64) (*dto.DTEResponse, error)
	List(ctx context.Context, tipo int, page dto.PageRequest) (*dto.DTEListResponse, error)
	DownloadXML(ctx context.Context, tipo int, folio int64) ([]byte, string, error)
	DownloadPDF(ctx context.Context, tipo int, folio int64) ([]byte, string, error)
}

// DTEHandler maneja la emisión y consulta de boletas (protegido).
type DTEHandler struct {
	issuer invoiceIssuer
	docs   documentReader
}

// NewDTEHandler construye el handler.
func NewDTEHandler(issuer invoiceIssuer, docs documentReader) *DTEHandler {
	return &DTEHandler{issuer: issuer, docs: docs}
}

// Issue godoc
// @Summary      Emitir boleta electrónica de una orden
// @Description  Idempotente por orden: si ya existe documento se devuelve con 200.
// @Tags         dte
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string               true  "ID de la orden"
// @Param        body     body  dto.IssueDTERequest  true  "tipo 39 o 41"
// @Success      201  {object}  dto.IssueDTEResponse
// @Success      200  {object}  dto.IssueDTEResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dte/orders/{orderId} [post]
func (h *DTEHandler) Issue(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	var in dto.IssueDTERequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.issuer.IssueInvoice(c.UserContext(), orderID, in.Tipo)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusCreated
	if res.Existing {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(res)
}

// List godoc
// @Summary      Listar documentos emitidos
// @Tags         dte
// @Security     Bearer
// @Produce      json
// @Param        tipo    query  int  false  "39 o 41 (vacío = ambos)"
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.DTEListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/dte [get]
func (h *DTEHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, domain.ErrInvalidInput)
	}
	res, err := h.docs.List(c.UserContext(), c.QueryInt("tipo", 0), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Get godoc
// @Summary      Metadatos de un documento emitido
// @Tags         dte
// @Security     Bearer
// @Produce      json
// @Param        tipo   path  int  true  "39 o 41"
// @Param        folio  path  int  true  "folio"
// @Success      200  {object}  dto.DTEResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dte/{tipo}/{folio} [get]
func (h *DTEHandler) Get(c *fiber.Ctx) error {
	tipo, folio, err := tipoFolio(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.docs.Get(c.UserContext(), tipo, folio)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// XML godoc
// @Summary      Descargar el XML enviado al SII
// @Tags         dte
// @Security     Bearer
// @Produce      xml
// @Param        tipo   path  int  true  "39 o 41"
// @Param        folio  path  int  true  "folio"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dte/{tipo}/{folio}/xml [get]
func (h *DTEHandler) XML(c *fiber.Ctx) error {
	tipo, folio, err := tipoFolio(c)
	if err != nil {
		return writeError(c, err)
	}
	body, filename, err := h.docs.DownloadXML(c.UserContext(), tipo, folio)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/xml; charset=ISO-8859-1")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

// PDF godoc
// @Summary      Representación impresa (PDF) con timbre
// @Tags         dte
// @Security     Bearer
// @Produce      application/pdf
// @Param        tipo   path  int  true  "39 o 41"
// @Param        folio  path  int  true  "folio"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dte/{tipo}/{folio}/pdf [get]
func (h *DTEHandler) PDF(c *fiber.Ctx) error {
	tipo, folio, err := tipoFolio(c)
	if err != nil {
		return writeError(c, err)
	}
	body, filename, err := h.docs.DownloadPDF(c.UserContext(), tipo, folio)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(body)
}

func tipoFolio(c *fiber.Ctx) (int, int64, error) {
	tipo, err := strconv.Atoi(c.Params("tipo"))
	if err != nil {
		return 0, 0, domain.ErrInvalidInput
	}
	folio, err := strconv.ParseInt(c.Params("folio"), 10, 64)
	if err != nil {
		return 0, 0, domain.ErrInvalidInput
	}
	return tipo, folio, nil
}

// writeError traduce errores de dominio a HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domainsii.ErrInvalidDocumentInput), errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusUnprocessableEntity, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domainsii.ErrFolioRangeExhausted):
		status, code = fiber.StatusConflict, "CAF_EXHAUSTED"
	case errors.Is(err, domainsii.ErrFolioCollision):
		status, code = fiber.StatusServiceUnavailable, "FOLIO_CONTENTION"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domainsii.ErrSeedRequestFailed),
		errors.Is(err, domainsii.ErrTokenExchangeFailed),
		errors.Is(err, domainsii.ErrSubmissionFailed),
		errors.Is(err, domainsii.ErrTrackingIDMissing):
		status, code = fiber.StatusBadGateway, "SII_ERROR"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
