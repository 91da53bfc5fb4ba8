package sii

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// Largos máximos del esquema de boleta.
const (
	maxRznSoc  = 100
	maxGiro    = 80
	maxDir     = 70
	maxComuna  = 20
	maxNmbItem = 80
)

// XMLBuilderService construye el XML del DTE (sin timbre ni firma).
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build valida la entrada, calcula los totales y arma el árbol:
//
//	DTE > Documento[ID] > Encabezado(IdDoc, Emisor, Receptor, Totales), Detalle*
func (s *XMLBuilderService) Build(in *BuildInput) (*Document, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	exemptDoc := pkgsii.IsExemptDocType(in.Tipo)

	items := make([]LineItem, len(in.Items))
	amounts := make([]domainsii.LineAmount, len(in.Items))
	for i, it := range in.Items {
		it.Name = clean(it.Name, maxNmbItem)
		it.Exempt = it.Exempt || exemptDoc
		items[i] = it
		amounts[i] = domainsii.LineAmount{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Exempt: it.Exempt}
	}

	d := &Document{
		Tipo:      in.Tipo,
		Folio:     in.Folio,
		IssueDate: in.IssueDate,
		Issuer: Issuer{
			RUT:      pkgsii.NormalizeRUT(in.Issuer.RUT),
			Name:     clean(in.Issuer.Name, maxRznSoc),
			Activity: clean(in.Issuer.Activity, maxGiro),
			Address:  clean(in.Issuer.Address, maxDir),
			Commune:  clean(in.Issuer.Commune, maxComuna),
		},
		Receiver: Receiver{RUT: pkgsii.GenericReceiverRUT, Name: pkgsii.GenericReceiverName},
		Items:    items,
		Totals:   domainsii.ComputeTotals(amounts),
	}
	if in.Receiver != nil && strings.TrimSpace(in.Receiver.RUT) != "" {
		d.Receiver.RUT = pkgsii.NormalizeRUT(in.Receiver.RUT)
		if name := clean(in.Receiver.Name, maxRznSoc); name != "" {
			d.Receiver.Name = name
		}
	}

	d.XML = s.render(d)
	return d, nil
}

// Validate revisa la entrada sin construir el documento. El folio no se exige porque
// se asigna después, dentro de la transacción.
func (s *XMLBuilderService) Validate(in *BuildInput) error {
	if in == nil {
		return validateInput(nil)
	}
	probe := *in
	if probe.Folio == 0 {
		probe.Folio = 1
	}
	return validateInput(&probe)
}

func validateInput(in *BuildInput) error {
	if in == nil {
		return fmt.Errorf("%w: entrada nula", domainsii.ErrInvalidDocumentInput)
	}
	if !pkgsii.IsSupportedDocType(in.Tipo) {
		return fmt.Errorf("%w: tipo de documento %d no soportado", domainsii.ErrInvalidDocumentInput, in.Tipo)
	}
	if in.Folio < 1 {
		return fmt.Errorf("%w: folio %d inválido", domainsii.ErrInvalidDocumentInput, in.Folio)
	}
	if in.IssueDate.IsZero() {
		return fmt.Errorf("%w: falta la fecha de emisión", domainsii.ErrInvalidDocumentInput)
	}
	required := map[string]string{
		"RUT emisor":          in.Issuer.RUT,
		"razón social emisor": in.Issuer.Name,
		"giro emisor":         in.Issuer.Activity,
		"dirección emisor":    in.Issuer.Address,
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s vacío", domainsii.ErrInvalidDocumentInput, field)
		}
	}
	if err := pkgsii.ValidateRUT(in.Issuer.RUT); err != nil {
		return fmt.Errorf("%w: RUT emisor: %v", domainsii.ErrInvalidDocumentInput, err)
	}
	if in.Receiver != nil && strings.TrimSpace(in.Receiver.RUT) != "" {
		if err := pkgsii.ValidateRUT(in.Receiver.RUT); err != nil {
			return fmt.Errorf("%w: RUT receptor: %v", domainsii.ErrInvalidDocumentInput, err)
		}
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: el documento no tiene líneas", domainsii.ErrInvalidDocumentInput)
	}
	for i, it := range in.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: línea %d con cantidad %d", domainsii.ErrInvalidDocumentInput, i+1, it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: línea %d con precio negativo", domainsii.ErrInvalidDocumentInput, i+1)
		}
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%w: línea %d sin nombre", domainsii.ErrInvalidDocumentInput, i+1)
		}
	}
	return nil
}

func (s *XMLBuilderService) render(d *Document) *etree.Document {
	doc := etree.NewDocument()
	dte := doc.CreateElement("DTE")
	dte.CreateAttr("version", "1.0")
	dte.CreateAttr("xmlns", NsSiiDte)

	documento := dte.CreateElement("Documento")
	documento.CreateAttr("ID", d.ID())

	enc := documento.CreateElement("Encabezado")

	idDoc := enc.CreateElement("IdDoc")
	text(idDoc, "TipoDTE", strconv.Itoa(d.Tipo))
	text(idDoc, "Folio", strconv.FormatInt(d.Folio, 10))
	text(idDoc, "FchEmis", d.IssueDate.Format(pkgsii.DateLayout))
	text(idDoc, "IndServicio", pkgsii.IndServicioVentas)

	emisor := enc.CreateElement("Emisor")
	text(emisor, "RUTEmisor", d.Issuer.RUT)
	text(emisor, "RznSocEmisor", d.Issuer.Name)
	text(emisor, "GiroEmisor", d.Issuer.Activity)
	text(emisor, "DirOrigen", d.Issuer.Address)
	if d.Issuer.Commune != "" {
		text(emisor, "CmnaOrigen", d.Issuer.Commune)
	}

	receptor := enc.CreateElement("Receptor")
	text(receptor, "RUTRecep", d.Receiver.RUT)
	text(receptor, "RznSocRecep", d.Receiver.Name)

	tot := enc.CreateElement("Totales")
	if !pkgsii.IsExemptDocType(d.Tipo) {
		text(tot, "MntNeto", amount(d.Totals.Net))
	}
	if d.Totals.Exempt.IsPositive() {
		text(tot, "MntExe", amount(d.Totals.Exempt))
	}
	if !pkgsii.IsExemptDocType(d.Tipo) {
		text(tot, "IVA", amount(d.Totals.Tax))
	}
	text(tot, "MntTotal", amount(d.Totals.Total))

	for i, it := range d.Items {
		det := documento.CreateElement("Detalle")
		text(det, "NroLinDet", strconv.Itoa(i+1))
		if it.Exempt {
			text(det, "IndExe", "1")
		}
		text(det, "NmbItem", it.Name)
		text(det, "QtyItem", strconv.FormatInt(it.Quantity, 10))
		text(det, "PrcItem", it.UnitPrice.String())
		text(det, "MontoItem", amount(domainsii.RoundCLP(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))))
	}
	return doc
}

func text(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(0)
}

// clean normaliza espacios, reemplaza caracteres fuera de ISO-8859-1 y trunca a n runas.
func clean(s string, n int) string {
	s = strings.Join(strings.Fields(pkgsii.Latin1Safe(s)), " ")
	return domainsii.Truncate(s, n)
}
