package sii

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testIssuerRUT = "76123456-0"

var (
	keysOnce sync.Once
	cafKey   *rsa.PrivateKey
	certKey  *rsa.PrivateKey
	certLeaf *x509.Certificate
)

func testKeys(t *testing.T) {
	t.Helper()
	keysOnce.Do(func() {
		var err error
		cafKey, err = rsa.GenerateKey(rand.Reader, 1024)
		require.NoError(t, err)
		certKey, err = rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		tpl := &x509.Certificate{
			SerialNumber:          big.NewInt(99),
			Subject:               pkix.Name{CommonName: "Firma Perfumería", SerialNumber: "11111111-1"},
			NotBefore:             time.Now().Add(-time.Hour),
			NotAfter:              time.Now().Add(24 * time.Hour),
			KeyUsage:              x509.KeyUsageDigitalSignature,
			ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
			BasicConstraintsValid: true,
		}
		der, err := x509.CreateCertificate(rand.Reader, tpl, tpl, &certKey.PublicKey, certKey)
		require.NoError(t, err)
		certLeaf, err = x509.ParseCertificate(der)
		require.NoError(t, err)
	})
	require.NotNil(t, certLeaf)
}

func testCert(t *testing.T) tls.Certificate {
	testKeys(t)
	return tls.Certificate{Certificate: [][]byte{certLeaf.Raw}, PrivateKey: certKey, Leaf: certLeaf}
}

// cafXML genera un archivo de autorización de folios con la llave de prueba.
func cafXML(t *testing.T, tipo int, from, to int64, rut string) string {
	testKeys(t)
	m := base64.StdEncoding.EncodeToString(cafKey.N.Bytes())
	e := base64.StdEncoding.EncodeToString(big.NewInt(int64(cafKey.E)).Bytes())
	sk := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(cafKey)})
	pubDER, err := x509.MarshalPKIXPublicKey(&cafKey.PublicKey)
	require.NoError(t, err)
	pk := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return fmt.Sprintf(`<?xml version="1.0"?>
<AUTORIZACION>
<CAF version="1.0">
<DA>
<RE>%s</RE>
<RS>PERFUMERIA ÑUÑOA SPA</RS>
<TD>%d</TD>
<RNG><D>%d</D><H>%d</H></RNG>
<FA>2024-01-15</FA>
<RSAPK><M>%s</M><E>%s</E></RSAPK>
<IDK>100</IDK>
</DA>
<FRMA algoritmo="SHA1withRSA">ZmlybWFEZWxTSUk=</FRMA>
</CAF>
<RSASK>%s</RSASK>
<RSAPUBK>%s</RSAPUBK>
</AUTORIZACION>
`, rut, tipo, from, to, m, e, strings.TrimSpace(string(sk)), strings.TrimSpace(string(pk)))
}

func testCAF(t *testing.T, tipo int, from, to int64) *CAF {
	t.Helper()
	caf, err := ParseCAF([]byte(cafXML(t, tipo, from, to, testIssuerRUT)))
	require.NoError(t, err)
	return caf
}

func testIssuer() Issuer {
	return Issuer{
		RUT:      testIssuerRUT,
		Name:     "Perfumería Ñuñoa SpA",
		Activity: "Venta al por menor de perfumes",
		Address:  "Av. Irarrázaval 1234",
		Commune:  "Ñuñoa",
	}
}

func perfumeInput(tipo int, folio int64) *BuildInput {
	return &BuildInput{
		Tipo:      tipo,
		Folio:     folio,
		IssueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Issuer:    testIssuer(),
		Items: []LineItem{
			{Name: "Perfume A", Quantity: 2, UnitPrice: decimal.NewFromInt(8403)},
		},
	}
}
