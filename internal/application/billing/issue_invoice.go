package billing

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/application/dto"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/entity"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/repository"
	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	infrasii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/sii"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/logger"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// maxAttempts intento original más un único reintento por colisión de folio.
const maxAttempts = 2

// IssueConfig datos fijos de la emisión.
type IssueConfig struct {
	Issuer infrasii.Issuer
	// Cert certificado del emisor; nil solo se admite en modo dev (XML sin firma).
	Cert     *tls.Certificate
	DevMode  bool
	Location *time.Location
}

// IssueInvoiceUseCase emite la boleta de una orden:
//
//	folio → XML → timbre → firma → token → envío → registro
//
// Asignación y registro ocurren en la misma transacción.
type IssueInvoiceUseCase struct {
	orders    repository.OrderRepository
	dtes      repository.DTERepository
	txRunner  DTETxRunner
	cafs      CAFProvider
	builder   DocumentBuilder
	stamper   Stamper
	signer    pkgsii.Signer
	tokens    TokenSource
	submitter Submitter
	cfg       IssueConfig
	log       *logger.Logger
}

// NewIssueInvoiceUseCase construye el caso de uso. dtes se usa fuera de la transacción
// para la consulta de idempotencia.
func NewIssueInvoiceUseCase(
	orders repository.OrderRepository,
	dtes repository.DTERepository,
	txRunner DTETxRunner,
	cafs CAFProvider,
	builder DocumentBuilder,
	stamper Stamper,
	signer pkgsii.Signer,
	tokens TokenSource,
	submitter Submitter,
	cfg IssueConfig,
	log *logger.Logger,
) *IssueInvoiceUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &IssueInvoiceUseCase{
		orders:    orders,
		dtes:      dtes,
		txRunner:  txRunner,
		cafs:      cafs,
		builder:   builder,
		stamper:   stamper,
		signer:    signer,
		tokens:    tokens,
		submitter: submitter,
		cfg:       cfg,
		log:       log.Component("issue-invoice"),
	}
}

// IssueInvoice emite el documento tipo (39 o 41) para la orden. Si la orden ya tiene
// documento lo devuelve sin tocar la red.
func (uc *IssueInvoiceUseCase) IssueInvoice(ctx context.Context, orderID string, tipo int) (*dto.IssueDTEResponse, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: falta el id de la orden", domainsii.ErrInvalidDocumentInput)
	}
	if !pkgsii.IsSupportedDocType(tipo) {
		return nil, fmt.Errorf("%w: tipo de documento %d no soportado", domainsii.ErrInvalidDocumentInput, tipo)
	}
	zl := uc.log.Zerolog().With().Str("order_id", orderID).Int("tipo", tipo).Logger()

	existing, err := uc.dtes.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("consultar documento de la orden: %w", err)
	}
	if existing != nil {
		zl.Info().Int64("folio", existing.Folio).Str("track_id", existing.TrackID).
			Msg("la orden ya tiene documento emitido")
		return toIssueResponse(existing, true), nil
	}

	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("leer orden: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
	}
	input := uc.buildInput(order, tipo)
	if err := uc.builder.Validate(input); err != nil {
		return nil, err
	}
	if uc.cfg.Cert == nil && !uc.cfg.DevMode {
		return nil, fmt.Errorf("%w: no hay certificado configurado", domainsii.ErrCredentialExtraction)
	}
	caf, err := uc.cafs.Get(ctx, tipo)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		rec, err := uc.issueOnce(ctx, zl.With().Int("attempt", attempt).Logger(), orderID, input, caf)
		if err == nil {
			zl.Info().Int64("folio", rec.Folio).Str("track_id", rec.TrackID).Int("attempt", attempt).
				Msg("documento emitido")
			return toIssueResponse(rec, false), nil
		}
		if errors.Is(err, domainsii.ErrFolioCollision) && attempt < maxAttempts {
			zl.Warn().Err(err).Int("attempt", attempt).Msg("colisión de folio; se reintenta con folios frescos")
			continue
		}
		if errors.Is(err, domain.ErrConflict) {
			// Otra solicitud emitió la misma orden en paralelo.
			if prev, gErr := uc.dtes.GetByOrderID(ctx, orderID); gErr == nil && prev != nil {
				zl.Warn().Int64("folio", prev.Folio).Msg("la orden fue emitida por una solicitud concurrente")
				return toIssueResponse(prev, true), nil
			}
		}
		zl.Error().Err(err).Int("attempt", attempt).Msg("emisión fallida")
		return nil, err
	}
}

// issueOnce ejecuta la secuencia completa dentro de una transacción. Nada queda
// registrado si algún paso falla.
func (uc *IssueInvoiceUseCase) issueOnce(
	ctx context.Context,
	zl zerolog.Logger,
	orderID string,
	input *infrasii.BuildInput,
	caf *infrasii.CAF,
) (*entity.DTEDocument, error) {
	var rec *entity.DTEDocument
	err := uc.txRunner.RunDTE(ctx, func(dteRepo repository.DTERepository) error {
		used, err := dteRepo.ListUsedFolios(ctx, input.Tipo, caf.RangeStart, caf.RangeEnd)
		if err != nil {
			return err
		}
		folio, err := domainsii.AllocateFolio(used, caf.RangeStart, caf.RangeEnd)
		if err != nil {
			return err
		}
		zl.Debug().Int64("folio", folio).Int("used", len(used)).Msg("folio asignado")

		in := *input
		in.Folio = folio
		doc, err := uc.builder.Build(&in)
		if err != nil {
			return err
		}
		if err := uc.stamper.Stamp(doc, caf); err != nil {
			return err
		}
		raw, err := doc.Bytes()
		if err != nil {
			return fmt.Errorf("serializar DTE: %w", err)
		}
		signed := raw
		if uc.cfg.Cert != nil {
			if signed, err = uc.signer.Sign(raw, doc.ID(), *uc.cfg.Cert); err != nil {
				return fmt.Errorf("firmar DTE: %w", err)
			}
		}

		token, err := uc.tokens.Token(ctx)
		if err != nil {
			return err
		}
		trackID, err := uc.submitter.Submit(ctx, signed, in.Tipo, token)
		if err != nil {
			return err
		}
		zl.Info().Int64("folio", folio).Str("track_id", trackID).Msg("envío aceptado por el SII")

		status := entity.DTEStatusSent
		if uc.cfg.DevMode {
			status = entity.DTEStatusDev
		}
		rec = &entity.DTEDocument{
			OrderID:     orderID,
			Tipo:        in.Tipo,
			Folio:       folio,
			IssueDate:   in.IssueDate,
			NetTotal:    doc.Totals.Net,
			ExemptTotal: doc.Totals.Exempt,
			TaxTotal:    doc.Totals.Tax,
			GrandTotal:  doc.Totals.Total,
			XMLSigned:   signed,
			TrackID:     trackID,
			Status:      status,
		}
		return dteRepo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// buildInput pasa la orden a la entrada del builder. Los precios de la tienda incluyen
// IVA: las líneas afectas se llevan a neto y las exentas quedan igual.
func (uc *IssueInvoiceUseCase) buildInput(order *entity.Order, tipo int) *infrasii.BuildInput {
	created := order.CreatedAt.In(uc.cfg.Location)
	in := &infrasii.BuildInput{
		Tipo:      tipo,
		IssueDate: time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, uc.cfg.Location),
		Issuer:    uc.cfg.Issuer,
		Items:     make([]infrasii.LineItem, 0, len(order.Items)),
	}
	if order.CreatedAt.IsZero() {
		in.IssueDate = time.Time{}
	}
	if strings.TrimSpace(order.ReceiverRUT) != "" {
		in.Receiver = &infrasii.Receiver{RUT: order.ReceiverRUT, Name: order.ReceiverName}
	}
	exemptDoc := pkgsii.IsExemptDocType(tipo)
	for _, it := range order.Items {
		exempt := it.Exempt || exemptDoc
		price := it.UnitPrice
		if !exempt {
			price = domainsii.NetFromGross(price)
		}
		in.Items = append(in.Items, infrasii.LineItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: price,
			Exempt:    exempt,
		})
	}
	return in
}

func toIssueResponse(d *entity.DTEDocument, existing bool) *dto.IssueDTEResponse {
	return &dto.IssueDTEResponse{
		OrderID:  d.OrderID,
		Tipo:     d.Tipo,
		Folio:    d.Folio,
		TrackID:  d.TrackID,
		Total:    d.GrandTotal,
		Status:   d.Status,
		Existing: existing,
	}
}
