package sii

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

const schemaLocationEnvio = "http://www.sii.cl/SiiDte EnvioBOLETA_v11.xsd"

// EnvelopeConfig datos fijos de la carátula.
type EnvelopeConfig struct {
	IssuerRUT        string
	SenderRUT        string // titular del certificado; vacío = IssuerRUT
	ResolutionDate   string // FchResol YYYY-MM-DD
	ResolutionNumber int    // NroResol (0 en certificación)
	UploadPath       string
}

// Validate exige los campos de la carátula antes de cualquier llamada de red.
func (c EnvelopeConfig) Validate() error {
	if err := pkgsii.ValidateRUT(c.IssuerRUT); err != nil {
		return fmt.Errorf("%w: RutEmisor: %v", domainsii.ErrInvalidDocumentInput, err)
	}
	if c.SenderRUT != "" {
		if err := pkgsii.ValidateRUT(c.SenderRUT); err != nil {
			return fmt.Errorf("%w: RutEnvia: %v", domainsii.ErrInvalidDocumentInput, err)
		}
	}
	if _, err := time.Parse(pkgsii.DateLayout, c.ResolutionDate); err != nil {
		return fmt.Errorf("%w: FchResol %q inválida", domainsii.ErrInvalidDocumentInput, c.ResolutionDate)
	}
	if c.ResolutionNumber < 0 {
		return fmt.Errorf("%w: NroResol negativo", domainsii.ErrInvalidDocumentInput)
	}
	return nil
}

// EnvelopeSubmitter arma el EnvioBOLETA, lo firma con ID "ENV" y lo envía por mTLS.
type EnvelopeSubmitter struct {
	client *SOAPClient
	signer pkgsii.Signer
	cert   tls.Certificate
	cfg    EnvelopeConfig
	loc    *time.Location
	now    func() time.Time
}

// NewEnvelopeSubmitter crea el emisor de sobres.
func NewEnvelopeSubmitter(client *SOAPClient, signer pkgsii.Signer, cert tls.Certificate, cfg EnvelopeConfig, loc *time.Location) *EnvelopeSubmitter {
	if loc == nil {
		loc = time.UTC
	}
	return &EnvelopeSubmitter{client: client, signer: signer, cert: cert, cfg: cfg, loc: loc, now: time.Now}
}

// BuildEnvelope arma EnvioBOLETA > SetDTE[ID=ENV] > (Caratula, DTE) sin firmar.
func (e *EnvelopeSubmitter) BuildEnvelope(signedDTE []byte, tipo int) ([]byte, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	dteDoc, err := pkgsii.ReadDocument(signedDTE)
	if err != nil {
		return nil, fmt.Errorf("%w: DTE firmado ilegible: %v", domainsii.ErrSubmissionFailed, err)
	}
	sender := e.cfg.SenderRUT
	if sender == "" {
		sender = e.cfg.IssuerRUT
	}

	root := etree.NewElement("EnvioBOLETA")
	root.CreateAttr("xmlns", NsSiiDte)
	root.CreateAttr("xmlns:xsi", nsXsi)
	root.CreateAttr("version", "1.0")
	root.CreateAttr("xsi:schemaLocation", schemaLocationEnvio)

	set := root.CreateElement("SetDTE")
	set.CreateAttr("ID", pkgsii.EnvelopeID)
	car := set.CreateElement("Caratula")
	car.CreateAttr("version", "1.0")
	text(car, "RutEmisor", pkgsii.NormalizeRUT(e.cfg.IssuerRUT))
	text(car, "RutEnvia", pkgsii.NormalizeRUT(sender))
	text(car, "RutReceptor", pkgsii.RUTSII)
	text(car, "FchResol", e.cfg.ResolutionDate)
	text(car, "NroResol", strconv.Itoa(e.cfg.ResolutionNumber))
	text(car, "TmstFirmaEnv", e.now().In(e.loc).Format(pkgsii.TimestampLayout))
	sub := car.CreateElement("SubTotDTE")
	text(sub, "TpoDTE", strconv.Itoa(tipo))
	text(sub, "NroDTE", "1")

	set.AddChild(dteDoc.Root().Copy())
	return pkgsii.WriteElement(root)
}

// Submit firma y envía el sobre con el token como cookie; devuelve el TRACKID.
func (e *EnvelopeSubmitter) Submit(ctx context.Context, signedDTE []byte, tipo int, token string) (string, error) {
	envelope, err := e.BuildEnvelope(signedDTE, tipo)
	if err != nil {
		return "", err
	}
	signed, err := e.signer.Sign(envelope, pkgsii.EnvelopeID, e.cert)
	if err != nil {
		return "", fmt.Errorf("firmar sobre: %w", err)
	}
	op, err := cdataOperation("upload", "pszXml", signed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainsii.ErrSubmissionFailed, err)
	}
	status, body, err := e.client.Post(ctx, soapCall{
		Path:      e.uploadPath(),
		Operation: op,
		MutualTLS: true,
		Token:     token,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainsii.ErrSubmissionFailed, err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", domainsii.NewSubmissionError(status, body)
	}
	return parseUploadResponse(body)
}

func (e *EnvelopeSubmitter) uploadPath() string {
	if p := strings.TrimSpace(e.cfg.UploadPath); p != "" {
		return p
	}
	return "/cgi_dte/UPL/DTEUpload"
}

// parseUploadResponse lee RECEPCIONDTE > (STATUS, TRACKID).
func parseUploadResponse(body []byte) (string, error) {
	payload, err := extractPayload(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", domainsii.ErrTrackingIDMissing, err, domainsii.Truncate(string(body), 512))
	}
	trackID := childTextLocal(payload, "TRACKID")
	if trackID == "" {
		return "", fmt.Errorf("%w: STATUS=%s", domainsii.ErrTrackingIDMissing, childTextLocal(payload, "STATUS"))
	}
	return trackID, nil
}
