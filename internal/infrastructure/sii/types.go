// Package sii implementa la boleta electrónica ante el SII (Chile): construcción del DTE,
// timbre con el CAF, sesión de autenticación semilla/token y envío del sobre firmado.
package sii

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// Namespaces de los documentos del SII.
const (
	NsSiiDte = "http://www.sii.cl/SiiDte"
	nsXsi    = "http://www.w3.org/2001/XMLSchema-instance"
)

// Issuer datos del emisor (bloque Emisor).
type Issuer struct {
	RUT      string
	Name     string // Razón social
	Activity string // Giro
	Address  string
	Commune  string
}

// Receiver datos del receptor; vacío = consumidor final.
type Receiver struct {
	RUT  string
	Name string
}

// LineItem línea del documento con precio unitario neto.
type LineItem struct {
	Name      string
	Quantity  int64
	UnitPrice decimal.Decimal
	Exempt    bool
}

// BuildInput datos para construir un DTE sin timbre ni firma.
type BuildInput struct {
	Tipo      int
	Folio     int64
	IssueDate time.Time
	Issuer    Issuer
	Receiver  *Receiver
	Items     []LineItem
}

// Document DTE en memoria. Los campos estructurados acompañan al árbol XML para que
// las etapas posteriores no tengan que releerlos del texto.
type Document struct {
	Tipo      int
	Folio     int64
	IssueDate time.Time
	Issuer    Issuer
	Receiver  Receiver
	Items     []LineItem
	Totals    domainsii.Totals

	XML *etree.Document
}

// ID valor del atributo ID de <Documento> (referencia de la firma).
func (d *Document) ID() string {
	return DocumentID(d.Tipo, d.Folio)
}

// DocumentID arma el ID T{tipo}F{folio}.
func DocumentID(tipo int, folio int64) string {
	return fmt.Sprintf("T%dF%d", tipo, folio)
}

// Documento devuelve el nodo <Documento>.
func (d *Document) Documento() *etree.Element {
	if d == nil || d.XML == nil || d.XML.Root() == nil {
		return nil
	}
	return d.XML.Root().SelectElement("Documento")
}

// Bytes serializa el documento en ISO-8859-1.
func (d *Document) Bytes() ([]byte, error) {
	return pkgsii.WriteDocument(d.XML)
}
