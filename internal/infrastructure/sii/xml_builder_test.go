package sii

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

func tags(el *etree.Element) []string {
	var out []string
	for _, c := range el.ChildElements() {
		out = append(out, c.Tag)
	}
	return out
}

func TestBuild_Boleta(t *testing.T) {
	d, err := NewXMLBuilderService().Build(perfumeInput(39, 7))
	require.NoError(t, err)

	assert.Equal(t, "T39F7", d.ID())
	assert.Equal(t, "16806", d.Totals.Net.String())
	assert.Equal(t, "3193", d.Totals.Tax.String())
	assert.Equal(t, "19999", d.Totals.Total.String())
	assert.Equal(t, pkgsii.GenericReceiverRUT, d.Receiver.RUT)

	root := d.XML.Root()
	assert.Equal(t, "DTE", root.Tag)
	assert.Equal(t, NsSiiDte, root.SelectAttrValue("xmlns", ""))
	documento := d.Documento()
	require.NotNil(t, documento)
	assert.Equal(t, "T39F7", documento.SelectAttrValue("ID", ""))
	assert.Equal(t, []string{"Encabezado", "Detalle"}, tags(documento))

	enc := documento.SelectElement("Encabezado")
	assert.Equal(t, []string{"IdDoc", "Emisor", "Receptor", "Totales"}, tags(enc))
	assert.Equal(t, []string{"TipoDTE", "Folio", "FchEmis", "IndServicio"}, tags(enc.SelectElement("IdDoc")))
	assert.Equal(t, "2024-03-10", enc.FindElement("IdDoc/FchEmis").Text())
	assert.Equal(t, []string{"MntNeto", "IVA", "MntTotal"}, tags(enc.SelectElement("Totales")))
	assert.Equal(t, "19999", enc.FindElement("Totales/MntTotal").Text())
	assert.Equal(t, "CONSUMIDOR FINAL", enc.FindElement("Receptor/RznSocRecep").Text())

	det := documento.SelectElement("Detalle")
	assert.Equal(t, []string{"NroLinDet", "NmbItem", "QtyItem", "PrcItem", "MontoItem"}, tags(det))
	assert.Equal(t, "1", det.SelectElement("NroLinDet").Text())
	assert.Equal(t, "16806", det.SelectElement("MontoItem").Text())

	b, err := d.Bytes()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), pkgsii.XMLDeclaration))
	// Ñ en un solo byte
	assert.Contains(t, string(b), "\xd1u\xf1oa")
}

func TestBuild_BoletaExentaForcesExempt(t *testing.T) {
	in := perfumeInput(41, 3)
	in.Items = append(in.Items, LineItem{Name: "Libro", Quantity: 1, UnitPrice: decimal.NewFromInt(5000)})
	d, err := NewXMLBuilderService().Build(in)
	require.NoError(t, err)

	assert.True(t, d.Totals.Net.IsZero())
	assert.True(t, d.Totals.Tax.IsZero())
	assert.Equal(t, "21806", d.Totals.Exempt.String())
	assert.Equal(t, "21806", d.Totals.Total.String())

	tot := d.Documento().FindElement("Encabezado/Totales")
	assert.Equal(t, []string{"MntExe", "MntTotal"}, tags(tot))
	for i, det := range d.Documento().SelectElements("Detalle") {
		assert.Equal(t, "1", det.SelectElement("IndExe").Text(), "línea %d", i+1)
		assert.Equal(t, []string{"NroLinDet", "IndExe", "NmbItem", "QtyItem", "PrcItem", "MontoItem"}, tags(det))
	}
}

func TestBuild_MixedLines(t *testing.T) {
	in := perfumeInput(39, 8)
	in.Items = append(in.Items, LineItem{Name: "Envío", Quantity: 1, UnitPrice: decimal.NewFromInt(2990), Exempt: true})
	in.Receiver = &Receiver{RUT: "11.111.111-1", Name: "Juana Pérez"}
	d, err := NewXMLBuilderService().Build(in)
	require.NoError(t, err)

	assert.Equal(t, "22989", d.Totals.Total.String())
	tot := d.Documento().FindElement("Encabezado/Totales")
	assert.Equal(t, []string{"MntNeto", "MntExe", "IVA", "MntTotal"}, tags(tot))
	assert.Equal(t, "11111111-1", d.Documento().FindElement("Encabezado/Receptor/RUTRecep").Text())
	assert.Equal(t, "Juana Pérez", d.Receiver.Name)
	assert.Equal(t, "2", d.Documento().SelectElements("Detalle")[1].SelectElement("NroLinDet").Text())
}

func TestBuild_InvalidInput(t *testing.T) {
	cases := map[string]func(in *BuildInput){
		"sin líneas":       func(in *BuildInput) { in.Items = nil },
		"cantidad cero":    func(in *BuildInput) { in.Items[0].Quantity = 0 },
		"precio negativo":  func(in *BuildInput) { in.Items[0].UnitPrice = decimal.NewFromInt(-1) },
		"ítem sin nombre":  func(in *BuildInput) { in.Items[0].Name = "  " },
		"razón social":     func(in *BuildInput) { in.Issuer.Name = "" },
		"giro":             func(in *BuildInput) { in.Issuer.Activity = " " },
		"dirección":        func(in *BuildInput) { in.Issuer.Address = "" },
		"rut emisor DV":    func(in *BuildInput) { in.Issuer.RUT = "76123456-1" },
		"rut receptor":     func(in *BuildInput) { in.Receiver = &Receiver{RUT: "11111111-2"} },
		"tipo":             func(in *BuildInput) { in.Tipo = 33 },
		"folio":            func(in *BuildInput) { in.Folio = 0 },
		"fecha de emisión": func(in *BuildInput) { in.IssueDate = time.Time{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := perfumeInput(39, 1)
			mutate(in)
			_, err := NewXMLBuilderService().Build(in)
			assert.ErrorIs(t, err, domainsii.ErrInvalidDocumentInput)
		})
	}
}

func TestBuild_TruncatesAndSanitizes(t *testing.T) {
	in := perfumeInput(39, 1)
	in.Items[0].Name = strings.Repeat("x", 100) + " ☃"
	d, err := NewXMLBuilderService().Build(in)
	require.NoError(t, err)
	assert.Len(t, d.Items[0].Name, 80)

	in = perfumeInput(39, 2)
	in.Items[0].Name = "Set  regalo ☃"
	d, err = NewXMLBuilderService().Build(in)
	require.NoError(t, err)
	assert.Equal(t, "Set regalo ?", d.Items[0].Name)
	_, err = d.Bytes()
	assert.NoError(t, err)
}
