package sii

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// Printable datos de un DTE emitido para su representación impresa.
type Printable struct {
	Tipo      int
	Folio     int64
	IssueDate string
	Issuer    Issuer
	Receiver  Receiver
	Lines     []PrintableLine
	Net       decimal.Decimal
	Exempt    decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	// TED serializado; es el contenido del código 2D del timbre.
	TED string
}

// PrintableLine línea de detalle tal como quedó en el XML.
type PrintableLine struct {
	Name      string
	Quantity  int64
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
	Exempt    bool
}

// ReadPrintable relee el XML firmado (ISO-8859-1) y extrae los campos impresos.
func ReadPrintable(raw []byte) (*Printable, error) {
	doc, err := pkgsii.ReadDocument(raw)
	if err != nil {
		return nil, err
	}
	documento := findLocal(doc.Root(), "Documento")
	if documento == nil {
		return nil, fmt.Errorf("%w: XML sin <Documento>", domainsii.ErrInvalidDocumentInput)
	}
	enc := documento.SelectElement("Encabezado")
	if enc == nil {
		return nil, fmt.Errorf("%w: XML sin <Encabezado>", domainsii.ErrInvalidDocumentInput)
	}

	p := &Printable{IssueDate: childTextLocal(enc, "FchEmis")}
	p.Tipo, _ = strconv.Atoi(childTextLocal(enc, "TipoDTE"))
	p.Folio, _ = strconv.ParseInt(childTextLocal(enc, "Folio"), 10, 64)
	if em := enc.SelectElement("Emisor"); em != nil {
		p.Issuer = Issuer{
			RUT:      childTextLocal(em, "RUTEmisor"),
			Name:     childTextLocal(em, "RznSocEmisor"),
			Activity: childTextLocal(em, "GiroEmisor"),
			Address:  childTextLocal(em, "DirOrigen"),
			Commune:  childTextLocal(em, "CmnaOrigen"),
		}
	}
	if rc := enc.SelectElement("Receptor"); rc != nil {
		p.Receiver = Receiver{RUT: childTextLocal(rc, "RUTRecep"), Name: childTextLocal(rc, "RznSocRecep")}
	}
	if tot := enc.SelectElement("Totales"); tot != nil {
		p.Net = decimalText(tot, "MntNeto")
		p.Exempt = decimalText(tot, "MntExe")
		p.Tax = decimalText(tot, "IVA")
		p.Total = decimalText(tot, "MntTotal")
	}
	for _, det := range documento.SelectElements("Detalle") {
		qty, _ := strconv.ParseInt(childTextLocal(det, "QtyItem"), 10, 64)
		p.Lines = append(p.Lines, PrintableLine{
			Name:      childTextLocal(det, "NmbItem"),
			Quantity:  qty,
			UnitPrice: decimalText(det, "PrcItem"),
			Amount:    decimalText(det, "MontoItem"),
			Exempt:    childTextLocal(det, "IndExe") != "",
		})
	}
	if ted := documento.SelectElement("TED"); ted != nil {
		if p.TED, err = pkgsii.ElementString(ted); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func decimalText(el *etree.Element, tag string) decimal.Decimal {
	d, err := decimal.NewFromString(childTextLocal(el, tag))
	if err != nil {
		return decimal.Zero
	}
	return d
}
