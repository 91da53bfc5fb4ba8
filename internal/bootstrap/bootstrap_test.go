package bootstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	infrasii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/sii"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/config"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/logger"
)

func TestNewSII_DevSinCertificado(t *testing.T) {
	s, err := NewSII(config.SIIConfig{Env: "dev"}, logger.Nop())
	require.NoError(t, err)
	assert.True(t, s.DevMode)
	assert.Nil(t, s.Cert)
	assert.Nil(t, s.Client)
	assert.IsType(t, &infrasii.DevSubmitter{}, s.Submitter)
}

func TestNewSII_CertRequiereCertificado(t *testing.T) {
	_, err := NewSII(config.SIIConfig{Env: "cert"}, logger.Nop())
	require.Error(t, err)
}

func TestLoadCert_RutaInvalidaFalla(t *testing.T) {
	_, err := LoadCert(config.SIIConfig{CertPath: t.TempDir() + "/no-existe.p12"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainsii.ErrCredentialExtraction))
}

func TestIssuer(t *testing.T) {
	iss := Issuer(config.SIIConfig{IssuerRUT: "76123456-0", IssuerName: "Perfumería", IssuerCommune: "Santiago"})
	assert.Equal(t, "76123456-0", iss.RUT)
	assert.Equal(t, "Perfumería", iss.Name)
	assert.Equal(t, "Santiago", iss.Commune)
}
