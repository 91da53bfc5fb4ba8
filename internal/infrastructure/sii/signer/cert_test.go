package signer

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
)

func TestExtractCredentials(t *testing.T) {
	cert, leaf := testCredentials(t)
	key := cert.PrivateKey.(*rsa.PrivateKey)

	encoders := map[string]*gopkcs12.Encoder{
		"legacy rc2 (x/crypto)":  gopkcs12.LegacyRC2,
		"modern aes (go-pkcs12)": gopkcs12.Modern,
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			p12, err := enc.Encode(key, leaf, nil, "s3cret")
			require.NoError(t, err)

			creds, err := ExtractCredentials(p12, "s3cret")
			require.NoError(t, err)
			assert.Equal(t, leaf.Raw, creds.Leaf.Raw)

			block, _ := pem.Decode(creds.CertPEM)
			require.NotNil(t, block)
			assert.Equal(t, "CERTIFICATE", block.Type)
			assert.Equal(t, leaf.Raw, block.Bytes)

			keyBlock, _ := pem.Decode(creds.KeyPEM)
			require.NotNil(t, keyBlock)
			parsed, err := x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
			require.NoError(t, err)
			assert.True(t, key.Equal(parsed))

			_, ok := creds.TLS.PrivateKey.(*rsa.PrivateKey)
			assert.True(t, ok)
			assert.NotNil(t, creds.TLS.Leaf)
		})
	}
}

func TestExtractCredentials_WrongPassword(t *testing.T) {
	cert, leaf := testCredentials(t)
	for _, enc := range []*gopkcs12.Encoder{gopkcs12.LegacyRC2, gopkcs12.Modern} {
		p12, err := enc.Encode(cert.PrivateKey, leaf, nil, "correcta")
		require.NoError(t, err)
		_, err = ExtractCredentials(p12, "otra")
		assert.ErrorIs(t, err, domainsii.ErrCredentialExtraction)
	}
}

func TestExtractCredentials_NoKey(t *testing.T) {
	_, leaf := testCredentials(t)
	p12, err := gopkcs12.Modern.EncodeTrustStore([]*x509.Certificate{leaf}, "pw")
	require.NoError(t, err)
	_, err = ExtractCredentials(p12, "pw")
	assert.ErrorIs(t, err, domainsii.ErrCredentialExtraction)
}

func TestExtractCredentials_Garbage(t *testing.T) {
	_, err := ExtractCredentials([]byte("no soy un pfx"), "pw")
	assert.ErrorIs(t, err, domainsii.ErrCredentialExtraction)
}

func TestLoadFromP12(t *testing.T) {
	cert, leaf := testCredentials(t)
	p12, err := gopkcs12.LegacyRC2.Encode(cert.PrivateKey, leaf, nil, "pw")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "firma.p12")
	require.NoError(t, os.WriteFile(path, p12, 0o600))

	creds, err := LoadFromP12(path, "pw")
	require.NoError(t, err)
	assert.Equal(t, leaf.SerialNumber, creds.Leaf.SerialNumber)

	_, err = LoadFromP12(filepath.Join(t.TempDir(), "no-existe.p12"), "pw")
	assert.ErrorIs(t, err, domainsii.ErrCredentialExtraction)
}
