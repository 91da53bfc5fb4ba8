package billing

import (
	"context"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/entity"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/repository"
	infrasii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/sii"
)

// DTETxRunner ejecuta fn dentro de una transacción con el repositorio de documentos.
// Si fn devuelve error se hace rollback y no queda registro.
type DTETxRunner interface {
	RunDTE(ctx context.Context, fn func(dteRepo repository.DTERepository) error) error
}

// DocumentBuilder arma el DTE sin timbre ni firma.
type DocumentBuilder interface {
	Validate(in *infrasii.BuildInput) error
	Build(in *infrasii.BuildInput) (*infrasii.Document, error)
}

// Stamper agrega el TED con la llave del CAF.
type Stamper interface {
	Stamp(doc *infrasii.Document, caf *infrasii.CAF) error
}

// CAFProvider entrega el CAF vigente del tipo de documento.
type CAFProvider interface {
	Get(ctx context.Context, tipo int) (*infrasii.CAF, error)
}

// TokenSource obtiene un token del SII; uno nuevo por envío.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Submitter envía el DTE firmado y devuelve el TRACKID.
type Submitter interface {
	Submit(ctx context.Context, signedDTE []byte, tipo int, token string) (string, error)
}

// DTEPDFGenerator genera la representación impresa de un documento emitido.
type DTEPDFGenerator interface {
	GenerateDTEPDF(ctx context.Context, doc *entity.DTEDocument) ([]byte, error)
}

var (
	_ DocumentBuilder = (*infrasii.XMLBuilderService)(nil)
	_ Stamper         = (*infrasii.StamperService)(nil)
	_ CAFProvider     = (*infrasii.FileCAFStore)(nil)
	_ TokenSource     = (*infrasii.Authenticator)(nil)
	_ TokenSource     = infrasii.StaticToken("")
	_ Submitter       = (*infrasii.EnvelopeSubmitter)(nil)
	_ Submitter       = (*infrasii.DevSubmitter)(nil)
)
