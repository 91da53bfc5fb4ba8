package sii

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// CAF Código de Autorización de Folios: rango autorizado por el SII para un tipo de
// documento, con su par de llaves RSA propio.
type CAF struct {
	Tipo         int
	RangeStart   int64
	RangeEnd     int64
	IssuerRUT    string
	IssuerName   string
	AuthorizedAt string // FA
	KeyID        string // IDK
	PrivateKey   *rsa.PrivateKey
	PublicKey    *rsa.PublicKey

	element *etree.Element // <CAF version="1.0"> tal como lo firmó el SII
}

// Contains indica si el folio está dentro del rango autorizado.
func (c *CAF) Contains(folio int64) bool {
	return folio >= c.RangeStart && folio <= c.RangeEnd
}

// Element devuelve una copia del nodo <CAF> para incrustarla en el timbre.
func (c *CAF) Element() *etree.Element {
	return c.element.Copy()
}

// ParseCAF lee el XML de autorización (AUTORIZACION > CAF, RSASK, RSAPUBK).
func ParseCAF(data []byte) (*CAF, error) {
	doc, err := readLenient(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsear CAF: %v", domainsii.ErrCafStamp, err)
	}
	root := doc.Root()
	cafEl := root
	if root.Tag != "CAF" {
		cafEl = root.SelectElement("CAF")
	}
	if cafEl == nil {
		return nil, fmt.Errorf("%w: el archivo no contiene el nodo CAF", domainsii.ErrCafStamp)
	}
	da := cafEl.SelectElement("DA")
	if da == nil {
		return nil, fmt.Errorf("%w: CAF sin nodo DA", domainsii.ErrCafStamp)
	}

	c := &CAF{
		IssuerRUT:    pkgsii.NormalizeRUT(childText(da, "RE")),
		IssuerName:   childText(da, "RS"),
		AuthorizedAt: childText(da, "FA"),
		KeyID:        childText(da, "IDK"),
		element:      compact(cafEl.Copy()),
	}
	if c.Tipo, err = strconv.Atoi(childText(da, "TD")); err != nil {
		return nil, fmt.Errorf("%w: TD inválido en CAF", domainsii.ErrCafStamp)
	}
	rng := da.SelectElement("RNG")
	if rng == nil {
		return nil, fmt.Errorf("%w: CAF sin rango RNG", domainsii.ErrCafStamp)
	}
	if c.RangeStart, err = strconv.ParseInt(childText(rng, "D"), 10, 64); err != nil {
		return nil, fmt.Errorf("%w: RNG/D inválido", domainsii.ErrCafStamp)
	}
	if c.RangeEnd, err = strconv.ParseInt(childText(rng, "H"), 10, 64); err != nil {
		return nil, fmt.Errorf("%w: RNG/H inválido", domainsii.ErrCafStamp)
	}
	if c.RangeStart < 1 || c.RangeEnd < c.RangeStart {
		return nil, fmt.Errorf("%w: rango CAF [%d, %d] inválido", domainsii.ErrCafStamp, c.RangeStart, c.RangeEnd)
	}

	if pk := da.SelectElement("RSAPK"); pk != nil {
		c.PublicKey, err = parseRSAPK(pk)
		if err != nil {
			return nil, err
		}
	}
	if sk := root.SelectElement("RSASK"); sk != nil {
		c.PrivateKey, err = parsePrivateKeyPEM(sk.Text())
		if err != nil {
			return nil, err
		}
		if c.PublicKey != nil && c.PrivateKey.N.Cmp(c.PublicKey.N) != 0 {
			return nil, fmt.Errorf("%w: RSASK no corresponde a RSAPK", domainsii.ErrCafStamp)
		}
		if c.PublicKey == nil {
			c.PublicKey = &c.PrivateKey.PublicKey
		}
	}
	return c, nil
}

func parseRSAPK(pk *etree.Element) (*rsa.PublicKey, error) {
	m, errM := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(childText(pk, "M")), ""))
	e, errE := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(childText(pk, "E")), ""))
	if errM != nil || errE != nil || len(m) == 0 || len(e) == 0 {
		return nil, fmt.Errorf("%w: RSAPK inválida", domainsii.ErrCafStamp)
	}
	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() {
		return nil, fmt.Errorf("%w: exponente RSAPK fuera de rango", domainsii.ErrCafStamp)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(m), E: int(exp.Int64())}, nil
}

// parsePrivateKeyPEM acepta PKCS#1 (formato del SII) o PKCS#8.
func parsePrivateKeyPEM(s string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(s)))
	if block == nil {
		return nil, fmt.Errorf("%w: RSASK no es PEM", domainsii.ErrCafStamp)
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: RSASK ilegible: %v", domainsii.ErrCafStamp, err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: RSASK no es RSA", domainsii.ErrCafStamp)
	}
	return key, nil
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// compact elimina los nodos de texto que solo contienen sangría, para que el CAF
// incrustado en el timbre quede en una sola línea como lo exige el SII.
func compact(el *etree.Element) *etree.Element {
	for _, tok := range append([]etree.Token(nil), el.Child...) {
		switch t := tok.(type) {
		case *etree.CharData:
			if len(el.ChildElements()) > 0 && strings.TrimSpace(t.Data) == "" {
				el.RemoveChild(t)
			}
		case *etree.Comment, *etree.ProcInst:
			el.RemoveChild(t)
		case *etree.Element:
			compact(t)
		}
	}
	return el
}

// readLenient parsea archivos del SII que a veces declaran UTF-8 (o nada) pero vienen en Latin-1.
func readLenient(data []byte) (*etree.Document, error) {
	if utf8.Valid(data) {
		return pkgsii.ReadDocument(data)
	}
	s, err := pkgsii.DecodeLatin1(data)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(strings.TrimSpace(s), "<?xml") {
		if i := strings.Index(s, "?>"); i >= 0 {
			s = s[i+2:]
		}
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("documento XML sin raíz")
	}
	return doc, nil
}
