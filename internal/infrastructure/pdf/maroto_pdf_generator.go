// Package pdf genera la representación impresa de la boleta electrónica.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  EMISOR: Razón social + giro  │  RECUADRO: RUT / tipo / N°  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Dirección, comuna, fecha de emisión, receptor              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Monto                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Neto / Exento / IVA / TOTAL                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TIMBRE: código 2D del TED + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/application/billing"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/entity"
	infrasii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

var _ appbilling.DTEPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 200, Green: 0, Blue: 0}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.DTEPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDTEPDF relee el XML almacenado y arma el PDF.
func (g *MarotoPDFGenerator) GenerateDTEPDF(_ context.Context, doc *entity.DTEDocument) ([]byte, error) {
	p, err := infrasii.ReadPrintable(doc.XMLSigned)
	if err != nil {
		return nil, fmt.Errorf("pdf: leer XML: %w", err)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(docTitle(p.Tipo), true).
		WithAuthor(p.Issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(p))
	m.AddRows(receiverRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(p.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalsRow(p))

	m.AddRows(line.NewRow(3))
	m.AddRows(stampRows(p, doc.TrackID)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func docTitle(tipo int) string {
	if pkgsii.IsExemptDocType(tipo) {
		return "BOLETA ELECTRÓNICA EXENTA"
	}
	return "BOLETA ELECTRÓNICA"
}

// headerRow: razón social (izq) y recuadro RUT / tipo / folio (der).
func headerRow(p *infrasii.Printable) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(p.Issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 1,
			}),
			text.New(p.Issuer.Activity, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("R.U.T.: "+p.Issuer.RUT, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 1,
			}),
			text.New(docTitle(p.Tipo), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 8,
			}),
			text.New("N° "+strconv.FormatInt(p.Folio, 10), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 15,
			}),
		),
	)
}

func issuerRow(p *infrasii.Printable) core.Row {
	return row.New(8).Add(
		col.New(8).Add(text.New(
			fmt.Sprintf("%s, %s", p.Issuer.Address, nonEmpty(p.Issuer.Commune, "—")),
			props.Text{Size: 8, Top: 2, Color: colorGray},
		)),
		col.New(4).Add(text.New(
			"Fecha de emisión: "+p.IssueDate,
			props.Text{Size: 8, Top: 2, Align: align.Right},
		)),
	)
}

func receiverRow(p *infrasii.Printable) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(
		fmt.Sprintf("Receptor: %s   |   RUT: %s", p.Receiver.Name, p.Receiver.RUT),
		props.Text{Size: 8, Top: 2},
	)))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Monto", 3, align.Right),
	)
}

func tableDetailRows(lines []infrasii.PrintableLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name := l.Name
		if l.Exempt {
			name += " (EX)"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.FormatInt(l.Quantity, 10),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.UnitPrice.Round(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New("$"+formatMoney(l.Amount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. Neto e IVA solo en boletas afectas.
func totalsRow(p *infrasii.Printable) core.Row {
	var labels, values []core.Component
	add := func(label string, v decimal.Decimal, bold bool) {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		labels = append(labels, text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: float64(len(labels) * 5),
		}))
		values = append(values, text.New("$"+formatMoney(v), props.Text{
			Style: style, Size: 9, Align: align.Right, Right: 1, Top: float64(len(values) * 5),
		}))
	}
	if !pkgsii.IsExemptDocType(p.Tipo) {
		add("Neto:", p.Net, false)
	}
	if p.Exempt.IsPositive() {
		add("Exento:", p.Exempt, false)
	}
	if !pkgsii.IsExemptDocType(p.Tipo) {
		add("IVA 19%:", p.Tax, false)
	}
	add("TOTAL:", p.Total, true)

	return row.New(float64(len(labels)*5+4)).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

// stampRows: timbre electrónico como código 2D más leyenda.
func stampRows(p *infrasii.Printable, trackID string) []core.Row {
	if p.TED == "" {
		return []core.Row{row.New(8).Add(col.New(12).Add(text.New(
			"Documento sin timbre electrónico", props.Text{Size: 8, Align: align.Center, Color: colorGray},
		)))}
	}
	legend := "Timbre Electrónico SII\nVerifique documento: www.sii.cl"
	if trackID != "" {
		legend += "\nTrack ID: " + trackID
	}
	return []core.Row{
		row.New(45).Add(
			col.New(5).Add(code.NewMatrix(p.TED, props.Rect{Percent: 95, Center: true})),
			col.New(7).Add(text.New(legend, props.Text{
				Size: 8, Top: 12, Left: 3, Color: colorGray,
			})),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney entero con puntos de miles. Ej: 1000000 → "1.000.000".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg, s = true, s[1:]
	}
	n := len(s)
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
