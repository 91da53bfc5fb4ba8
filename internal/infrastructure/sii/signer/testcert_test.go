package signer

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
	testLeaf    *x509.Certificate
)

// testCredentials genera (una vez por paquete) un certificado autofirmado RSA 2048.
func testCredentials(t *testing.T) (tls.Certificate, *x509.Certificate) {
	t.Helper()
	testKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		tpl := &x509.Certificate{
			SerialNumber:          big.NewInt(4242),
			Subject:               pkix.Name{CommonName: "Emisor de Prueba", SerialNumber: "11111111-1"},
			NotBefore:             time.Now().Add(-time.Hour),
			NotAfter:              time.Now().Add(24 * time.Hour),
			KeyUsage:              x509.KeyUsageDigitalSignature,
			BasicConstraintsValid: true,
		}
		der, err := x509.CreateCertificate(rand.Reader, tpl, tpl, &key.PublicKey, key)
		require.NoError(t, err)
		leaf, err := x509.ParseCertificate(der)
		require.NoError(t, err)
		testKey, testLeaf = key, leaf
	})
	require.NotNil(t, testLeaf, "no se pudo generar el certificado de prueba")
	return tls.Certificate{Certificate: [][]byte{testLeaf.Raw}, PrivateKey: testKey, Leaf: testLeaf}, testLeaf
}
