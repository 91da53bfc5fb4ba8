package cli

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SII_ENV", "dev")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "error")
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeCAF(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	sk := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	xml := fmt.Sprintf(`<?xml version="1.0"?>
<AUTORIZACION><CAF version="1.0"><DA><RE>76123456-0</RE><RS>PERFUMERIA SPA</RS><TD>39</TD>
<RNG><D>1</D><H>50</H></RNG><FA>2024-01-15</FA>
<RSAPK><M>%s</M><E>%s</E></RSAPK><IDK>100</IDK></DA>
<FRMA algoritmo="SHA1withRSA">ZmlybWE=</FRMA></CAF>
<RSASK>%s</RSASK></AUTORIZACION>`,
		base64.StdEncoding.EncodeToString(key.N.Bytes()),
		base64.StdEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		sk)
	path := filepath.Join(t.TempDir(), "caf39.xml")
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o600))
	return path
}

func TestCAFCmd(t *testing.T) {
	out, err := run(t, "caf", writeCAF(t))
	require.NoError(t, err)
	assert.Contains(t, out, "tipo:       39")
	assert.Contains(t, out, "rango:      1-50 (50 folios)")
	assert.Contains(t, out, "emisor:     76123456-0 PERFUMERIA SPA")
	assert.Contains(t, out, "llave:      1024 bits")
}

func TestCAFCmd_ArchivoInexistente(t *testing.T) {
	_, err := run(t, "caf", filepath.Join(t.TempDir(), "nada.xml"))
	require.Error(t, err)
}

func TestIssueCmd_TipoInvalido(t *testing.T) {
	_, err := run(t, "issue", "ORD-1", "--tipo", "33")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tipo 33")
}

func TestTokenCmd_RechazaDev(t *testing.T) {
	_, err := run(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SII_ENV=dev")
}

func TestRootCmd_Subcomandos(t *testing.T) {
	names := map[string]bool{}
	for _, c := range NewRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "caf", "token", "issue"} {
		assert.True(t, names[want], want)
	}
}
