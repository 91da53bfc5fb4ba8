// Extracción de llave y certificado desde el .p12/.pfx del emisor.

package signer

import (
	"crypto"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
)

// Credentials llave privada y certificado del titular, en PEM y listos para TLS.
type Credentials struct {
	KeyPEM  []byte
	CertPEM []byte
	TLS     tls.Certificate
	Leaf    *x509.Certificate
}

// LoadFromP12 lee el archivo y extrae las credenciales.
func LoadFromP12(path, password string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: leer p12: %v", domainsii.ErrCredentialExtraction, err)
	}
	return ExtractCredentials(data, password)
}

// ExtractCredentials descifra el PKCS#12 y devuelve llave y certificado en PEM.
// Primero intenta x/crypto/pkcs12 (bolsas legacy RC2/3DES); si el archivo usa
// algoritmos modernos o trae cadena, recurre a go-pkcs12.
func ExtractCredentials(p12 []byte, password string) (*Credentials, error) {
	key, cert, err := decodeLegacy(p12, password)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, fmt.Errorf("%w: contraseña incorrecta", domainsii.ErrCredentialExtraction)
		}
		key, cert, err = decodeChain(p12, password)
		if err != nil {
			return nil, err
		}
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: serializar llave: %v", domainsii.ErrCredentialExtraction, err)
	}
	creds := &Credentials{
		KeyPEM:  pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
		CertPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}),
		Leaf:    cert,
	}
	creds.TLS, err = tls.X509KeyPair(creds.CertPEM, creds.KeyPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: par llave/certificado: %v", domainsii.ErrCredentialExtraction, err)
	}
	creds.TLS.Leaf = cert
	return creds, nil
}

func decodeLegacy(p12 []byte, password string) (crypto.Signer, *x509.Certificate, error) {
	blocks, err := pkcs12.ToPEM(p12, password)
	if err != nil {
		return nil, nil, err
	}
	var key crypto.Signer
	var cert *x509.Certificate
	for _, b := range blocks {
		switch b.Type {
		case "PRIVATE KEY":
			// ToPEM etiqueta como PRIVATE KEY lo que en realidad es PKCS#1 para RSA.
			if k, err := x509.ParsePKCS1PrivateKey(b.Bytes); err == nil {
				key = k
				continue
			}
			if k, err := x509.ParseECPrivateKey(b.Bytes); err == nil {
				key = k
			}
		case "CERTIFICATE":
			c, err := x509.ParseCertificate(b.Bytes)
			if err != nil {
				return nil, nil, err
			}
			if cert == nil || !c.IsCA {
				cert = c
			}
		}
	}
	if key == nil || cert == nil {
		return nil, nil, errors.New("pkcs12: archivo sin llave o sin certificado")
	}
	return key, cert, nil
}

func decodeChain(p12 []byte, password string) (crypto.Signer, *x509.Certificate, error) {
	priv, cert, _, err := gopkcs12.DecodeChain(p12, password)
	if err != nil {
		if errors.Is(err, gopkcs12.ErrIncorrectPassword) {
			return nil, nil, fmt.Errorf("%w: contraseña incorrecta", domainsii.ErrCredentialExtraction)
		}
		return nil, nil, fmt.Errorf("%w: %v", domainsii.ErrCredentialExtraction, err)
	}
	key, ok := priv.(crypto.Signer)
	if !ok || cert == nil {
		return nil, nil, fmt.Errorf("%w: archivo sin llave o sin certificado", domainsii.ErrCredentialExtraction)
	}
	return key, cert, nil
}

// rsaKey devuelve la llave RSA del certificado TLS; el SII solo acepta RSA-SHA1.
func rsaKey(cert tls.Certificate) (*rsa.PrivateKey, error) {
	key, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("sii: el certificado debe incluir llave privada RSA")
	}
	return key, nil
}

func leafCertificate(cert tls.Certificate) (*x509.Certificate, error) {
	if cert.Leaf != nil {
		return cert.Leaf, nil
	}
	if len(cert.Certificate) == 0 {
		return nil, errors.New("sii: certificado TLS sin cadena")
	}
	return x509.ParseCertificate(cert.Certificate[0])
}
