package sii

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

func fixedStamper() *StamperService {
	s := NewStamperService(time.UTC)
	s.now = func() time.Time { return time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC) }
	return s
}

func TestStamp_InsertsTEDBeforeClosingTag(t *testing.T) {
	in := perfumeInput(39, 5)
	in.Items[0].Name = strings.Repeat("Perfume de colección ", 4)
	d, err := NewXMLBuilderService().Build(in)
	require.NoError(t, err)
	caf := testCAF(t, 39, 1, 100)

	require.NoError(t, fixedStamper().Stamp(d, caf))

	documento := d.Documento()
	assert.Equal(t, []string{"Encabezado", "Detalle", "TED", "TmstFirma"}, tags(documento))
	assert.Equal(t, "2024-03-10T15:04:05", documento.SelectElement("TmstFirma").Text())

	ted := documento.SelectElement("TED")
	dd := ted.SelectElement("DD")
	assert.Equal(t, []string{"RE", "TD", "F", "FE", "RR", "RSR", "MNT", "IT1", "CAF", "TSTED"}, tags(dd))
	assert.Equal(t, testIssuerRUT, dd.SelectElement("RE").Text())
	assert.Equal(t, "5", dd.SelectElement("F").Text())
	assert.Equal(t, "2024-03-10", dd.SelectElement("FE").Text())
	assert.Equal(t, "19999", dd.SelectElement("MNT").Text())
	assert.Equal(t, 40, len([]rune(dd.SelectElement("IT1").Text())))
	assert.Equal(t, AlgTED, ted.SelectElement("FRMT").SelectAttrValue("algoritmo", ""))

	// El CAF va tal cual lo firmó el SII.
	want, err := pkgsii.ElementString(caf.Element())
	require.NoError(t, err)
	got, err := pkgsii.ElementString(dd.SelectElement("CAF"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "ZmlybWFEZWxTSUk=", dd.FindElement("CAF/FRMA").Text())

	require.NoError(t, VerifyStamp(ted, caf.PublicKey))
}

func TestStamp_SurvivesSerialization(t *testing.T) {
	d, err := NewXMLBuilderService().Build(perfumeInput(39, 9))
	require.NoError(t, err)
	caf := testCAF(t, 39, 1, 100)
	require.NoError(t, fixedStamper().Stamp(d, caf))

	b, err := d.Bytes()
	require.NoError(t, err)
	parsed, err := pkgsii.ReadDocument(b)
	require.NoError(t, err)
	ted := parsed.FindElement("//TED")
	require.NotNil(t, ted)
	assert.NoError(t, VerifyStamp(ted, caf.PublicKey), "el DD releído debe producir los mismos bytes firmados")
}

func TestStamp_Errors(t *testing.T) {
	build := func(tipo int, folio int64) *Document {
		d, err := NewXMLBuilderService().Build(perfumeInput(tipo, folio))
		require.NoError(t, err)
		return d
	}
	t.Run("tipo distinto", func(t *testing.T) {
		err := fixedStamper().Stamp(build(39, 1), testCAF(t, 41, 1, 10))
		assert.ErrorIs(t, err, domainsii.ErrCafStamp)
	})
	t.Run("folio fuera de rango", func(t *testing.T) {
		err := fixedStamper().Stamp(build(39, 11), testCAF(t, 39, 1, 10))
		assert.ErrorIs(t, err, domainsii.ErrCafStamp)
	})
	t.Run("RUT distinto", func(t *testing.T) {
		caf, err := ParseCAF([]byte(cafXML(t, 39, 1, 10, "11111111-1")))
		require.NoError(t, err)
		assert.ErrorIs(t, fixedStamper().Stamp(build(39, 1), caf), domainsii.ErrCafStamp)
	})
	t.Run("sin llave", func(t *testing.T) {
		caf := testCAF(t, 39, 1, 10)
		caf.PrivateKey = nil
		assert.ErrorIs(t, fixedStamper().Stamp(build(39, 1), caf), domainsii.ErrCafStamp)
	})
	t.Run("documento vacío", func(t *testing.T) {
		assert.ErrorIs(t, fixedStamper().Stamp(&Document{Tipo: 39, Folio: 1}, testCAF(t, 39, 1, 10)), domainsii.ErrCafStamp)
	})
}
