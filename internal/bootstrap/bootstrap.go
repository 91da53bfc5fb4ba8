// Package bootstrap arma el pipeline de emisión a partir de la configuración.
// Lo comparten la API y dtectl.
package bootstrap

import (
	"crypto/tls"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/application/billing"
	infrapdf "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/pdf"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/postgres"
	infrasii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/sii"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/sii/signer"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/config"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/logger"
)

// SII piezas de comunicación con el SII según SII_ENV.
type SII struct {
	Cert      *tls.Certificate // nil si no hay SII_CERT_PATH
	Client    *infrasii.SOAPClient
	Signer    *signer.DigitalSignatureService
	Tokens    billing.TokenSource
	Submitter billing.Submitter
	DevMode   bool
}

// LoadCert carga el certificado del emisor. Sin ruta configurada devuelve nil;
// una ruta que no se puede leer o descifrar es un error.
func LoadCert(cfg config.SIIConfig) (*tls.Certificate, error) {
	if cfg.CertPath == "" {
		return nil, nil
	}
	creds, err := signer.LoadFromP12(cfg.CertPath, cfg.CertPassword)
	if err != nil {
		return nil, err
	}
	return &creds.TLS, nil
}

// NewSII elige transporte, token y envío:
//
//	dev        → sin red, TRACKID simulado
//	cert|prod  → maullin / palena con mTLS
func NewSII(cfg config.SIIConfig, log *logger.Logger) (*SII, error) {
	cert, err := LoadCert(cfg)
	if err != nil {
		return nil, err
	}
	out := &SII{Cert: cert, Signer: signer.NewDigitalSignatureService(), DevMode: cfg.Env == "dev"}

	if out.DevMode {
		out.Tokens = infrasii.StaticToken(infrasii.PlaceholderToken)
		out.Submitter = infrasii.NewDevSubmitter(log)
		return out, nil
	}
	if cert == nil {
		return nil, fmt.Errorf("bootstrap: SII_ENV=%s requiere SII_CERT_PATH", cfg.Env)
	}

	baseURL, err := infrasii.BaseURL(cfg.Env, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	out.Client = infrasii.NewSOAPClient(baseURL, cfg.HTTPTimeout, cert)
	out.Tokens = infrasii.NewAuthenticator(out.Client, out.Signer, cert, log)
	out.Submitter = infrasii.NewEnvelopeSubmitter(out.Client, out.Signer, *cert, infrasii.EnvelopeConfig{
		IssuerRUT:        cfg.IssuerRUT,
		SenderRUT:        cfg.SenderRUT,
		ResolutionDate:   cfg.ResolutionDate,
		ResolutionNumber: cfg.ResolutionNumber,
		UploadPath:       cfg.UploadPath,
	}, cfg.Location())
	return out, nil
}

// Issuer datos del emisor tal como vienen en la configuración.
func Issuer(cfg config.SIIConfig) infrasii.Issuer {
	return infrasii.Issuer{
		RUT:      cfg.IssuerRUT,
		Name:     cfg.IssuerName,
		Activity: cfg.IssuerActivity,
		Address:  cfg.IssuerAddress,
		Commune:  cfg.IssuerCommune,
	}
}

// UseCases casos de uso listos para la API o la CLI.
type UseCases struct {
	Issue     *billing.IssueInvoiceUseCase
	Documents *billing.DocumentUseCase
}

// NewUseCases conecta repositorios, CAF, constructor, timbre y envío.
func NewUseCases(cfg *config.Config, pool *pgxpool.Pool, sii *SII, log *logger.Logger) *UseCases {
	dtes := postgres.NewDTERepository(pool)
	orders := postgres.NewOrderRepository(pool)
	loc := cfg.SII.Location()

	issue := billing.NewIssueInvoiceUseCase(
		orders, dtes, postgres.NewTxRunner(pool),
		infrasii.NewFileCAFStore(cfg.SII.CAFPaths),
		infrasii.NewXMLBuilderService(),
		infrasii.NewStamperService(loc),
		sii.Signer, sii.Tokens, sii.Submitter,
		billing.IssueConfig{
			Issuer:   Issuer(cfg.SII),
			Cert:     sii.Cert,
			DevMode:  sii.DevMode,
			Location: loc,
		},
		log.Component("issue-invoice"),
	)
	docs := billing.NewDocumentUseCase(dtes, infrapdf.NewMarotoPDFGenerator())
	return &UseCases{Issue: issue, Documents: docs}
}
