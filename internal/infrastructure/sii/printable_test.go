package sii

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

func TestReadPrintable(t *testing.T) {
	doc, err := NewXMLBuilderService().Build(perfumeInput(pkgsii.DocTypeBoleta, 7))
	require.NoError(t, err)
	require.NoError(t, fixedStamper().Stamp(doc, testCAF(t, pkgsii.DocTypeBoleta, 1, 100)))
	raw, err := doc.Bytes()
	require.NoError(t, err)

	p, err := ReadPrintable(raw)
	require.NoError(t, err)
	assert.Equal(t, 39, p.Tipo)
	assert.Equal(t, int64(7), p.Folio)
	assert.Equal(t, "2024-03-10", p.IssueDate)
	assert.Equal(t, "76123456-0", p.Issuer.RUT)
	assert.Equal(t, pkgsii.GenericReceiverRUT, p.Receiver.RUT)
	assert.True(t, p.Total.Equal(decimal.NewFromInt(19999)))
	assert.True(t, p.Tax.Equal(decimal.NewFromInt(3193)))
	require.Len(t, p.Lines, 1)
	assert.Equal(t, int64(2), p.Lines[0].Quantity)
	assert.True(t, p.Lines[0].Amount.Equal(decimal.NewFromInt(16806)))
	assert.True(t, strings.HasPrefix(p.TED, `<TED version="1.0"><DD>`))
}

func TestReadPrintable_NotADTE(t *testing.T) {
	_, err := ReadPrintable([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><Otro/>`))
	assert.ErrorIs(t, err, domainsii.ErrInvalidDocumentInput)
}

func TestValidate_IgnoresFolio(t *testing.T) {
	in := perfumeInput(pkgsii.DocTypeBoleta, 0)
	assert.NoError(t, NewXMLBuilderService().Validate(in))
	assert.Equal(t, int64(0), in.Folio, "Validate no modifica la entrada")

	in.Issuer.Activity = "  "
	assert.ErrorIs(t, NewXMLBuilderService().Validate(in), domainsii.ErrInvalidDocumentInput)
}
