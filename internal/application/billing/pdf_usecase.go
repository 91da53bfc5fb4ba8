package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/application/dto"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/entity"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/repository"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// DocumentUseCase lectura de documentos emitidos: metadatos, XML y PDF.
type DocumentUseCase struct {
	dtes      repository.DTERepository
	generator DTEPDFGenerator
}

// NewDocumentUseCase construye el caso de uso. generator puede ser nil si no se sirve PDF.
func NewDocumentUseCase(dtes repository.DTERepository, generator DTEPDFGenerator) *DocumentUseCase {
	return &DocumentUseCase{dtes: dtes, generator: generator}
}

func (uc *DocumentUseCase) load(ctx context.Context, tipo int, folio int64) (*entity.DTEDocument, error) {
	if !pkgsii.IsSupportedDocType(tipo) || folio < 1 {
		return nil, fmt.Errorf("%w: tipo %d folio %d", domain.ErrInvalidInput, tipo, folio)
	}
	doc, err := uc.dtes.GetByTipoFolio(ctx, tipo, folio)
	if err != nil {
		return nil, fmt.Errorf("obtener documento: %w", err)
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// Get devuelve los metadatos del documento.
func (uc *DocumentUseCase) Get(ctx context.Context, tipo int, folio int64) (*dto.DTEResponse, error) {
	doc, err := uc.load(ctx, tipo, folio)
	if err != nil {
		return nil, err
	}
	return toDTEResponse(doc), nil
}

// List pagina los documentos emitidos; tipo 0 lista ambos tipos.
func (uc *DocumentUseCase) List(ctx context.Context, tipo int, page dto.PageRequest) (*dto.DTEListResponse, error) {
	if tipo != 0 && !pkgsii.IsSupportedDocType(tipo) {
		return nil, fmt.Errorf("%w: tipo %d", domain.ErrInvalidInput, tipo)
	}
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	docs, total, err := uc.dtes.List(ctx, tipo, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar documentos: %w", err)
	}
	out := &dto.DTEListResponse{
		Items: make([]dto.DTEResponse, 0, len(docs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, d := range docs {
		out.Items = append(out.Items, *toDTEResponse(d))
	}
	return out, nil
}

func toDTEResponse(doc *entity.DTEDocument) *dto.DTEResponse {
	return &dto.DTEResponse{
		ID:          doc.ID,
		OrderID:     doc.OrderID,
		Tipo:        doc.Tipo,
		Folio:       doc.Folio,
		IssueDate:   doc.IssueDate.Format(pkgsii.DateLayout),
		NetTotal:    doc.NetTotal,
		ExemptTotal: doc.ExemptTotal,
		TaxTotal:    doc.TaxTotal,
		GrandTotal:  doc.GrandTotal,
		TrackID:     doc.TrackID,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt.Format(time.RFC3339),
	}
}

// DownloadXML devuelve los bytes ISO-8859-1 tal como se enviaron y el nombre de archivo.
func (uc *DocumentUseCase) DownloadXML(ctx context.Context, tipo int, folio int64) ([]byte, string, error) {
	doc, err := uc.load(ctx, tipo, folio)
	if err != nil {
		return nil, "", err
	}
	return doc.XMLSigned, fmt.Sprintf("DTE_T%dF%d.xml", doc.Tipo, doc.Folio), nil
}

// DownloadPDF genera la representación impresa con el timbre como código 2D.
func (uc *DocumentUseCase) DownloadPDF(ctx context.Context, tipo int, folio int64) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	doc, err := uc.load(ctx, tipo, folio)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateDTEPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("boleta_T%dF%d.pdf", doc.Tipo, doc.Folio), nil
}
