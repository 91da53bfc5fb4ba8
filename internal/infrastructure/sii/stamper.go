package sii

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// AlgTED algoritmo declarado en FRMT.
const AlgTED = "SHA1withRSA"

// StamperService genera el Timbre Electrónico (TED) con la llave del CAF.
type StamperService struct {
	loc *time.Location
	now func() time.Time
}

// NewStamperService crea el servicio; loc es la zona horaria de los timbres.
func NewStamperService(loc *time.Location) *StamperService {
	if loc == nil {
		loc = time.UTC
	}
	return &StamperService{loc: loc, now: time.Now}
}

// Stamp arma TED > (DD, FRMT), lo firma con la llave del CAF y lo agrega junto con
// TmstFirma como últimos hijos de <Documento>.
func (s *StamperService) Stamp(doc *Document, caf *CAF) error {
	documento := doc.Documento()
	if documento == nil || len(doc.Items) == 0 || doc.Issuer.RUT == "" || doc.Folio < 1 {
		return fmt.Errorf("%w: documento sin los campos requeridos para el timbre", domainsii.ErrCafStamp)
	}
	if caf == nil || caf.element == nil {
		return fmt.Errorf("%w: CAF no cargado", domainsii.ErrCafStamp)
	}
	if caf.PrivateKey == nil {
		return fmt.Errorf("%w: el CAF no incluye llave privada RSASK", domainsii.ErrCafStamp)
	}
	if err := caf.PrivateKey.Validate(); err != nil {
		return fmt.Errorf("%w: llave del CAF inválida: %v", domainsii.ErrCafStamp, err)
	}
	if caf.Tipo != doc.Tipo {
		return fmt.Errorf("%w: CAF del tipo %d no sirve para el tipo %d", domainsii.ErrCafStamp, caf.Tipo, doc.Tipo)
	}
	if !caf.Contains(doc.Folio) {
		return fmt.Errorf("%w: folio %d fuera del rango CAF [%d, %d]", domainsii.ErrCafStamp, doc.Folio, caf.RangeStart, caf.RangeEnd)
	}
	if caf.IssuerRUT != pkgsii.NormalizeRUT(doc.Issuer.RUT) {
		return fmt.Errorf("%w: CAF emitido para %s, no para %s", domainsii.ErrCafStamp, caf.IssuerRUT, doc.Issuer.RUT)
	}

	ts := s.now().In(s.loc).Format(pkgsii.TimestampLayout)

	ted := etree.NewElement("TED")
	ted.CreateAttr("version", "1.0")
	dd := ted.CreateElement("DD")
	text(dd, "RE", doc.Issuer.RUT)
	text(dd, "TD", strconv.Itoa(doc.Tipo))
	text(dd, "F", strconv.FormatInt(doc.Folio, 10))
	text(dd, "FE", doc.IssueDate.Format(pkgsii.DateLayout))
	text(dd, "RR", doc.Receiver.RUT)
	text(dd, "RSR", domainsii.Truncate(doc.Receiver.Name, pkgsii.MaxTEDReceiverName))
	text(dd, "MNT", amount(doc.Totals.Total))
	text(dd, "IT1", domainsii.Truncate(doc.Items[0].Name, pkgsii.MaxTEDItemName))
	dd.AddChild(caf.Element())
	text(dd, "TSTED", ts)

	ddBytes, err := ddBytes(dd)
	if err != nil {
		return err
	}
	h := sha1.Sum(ddBytes)
	sig, err := rsa.SignPKCS1v15(rand.Reader, caf.PrivateKey, crypto.SHA1, h[:])
	if err != nil {
		return fmt.Errorf("%w: firmar DD: %v", domainsii.ErrCafStamp, err)
	}
	frmt := ted.CreateElement("FRMT")
	frmt.CreateAttr("algoritmo", AlgTED)
	frmt.SetText(base64.StdEncoding.EncodeToString(sig))

	documento.AddChild(ted)
	text(documento, "TmstFirma", ts)
	return nil
}

// ddBytes serializa DD tal como queda en el documento, en ISO-8859-1 (un byte por carácter).
func ddBytes(dd *etree.Element) ([]byte, error) {
	s, err := pkgsii.ElementString(dd)
	if err != nil {
		return nil, fmt.Errorf("%w: serializar DD: %v", domainsii.ErrCafStamp, err)
	}
	b, err := pkgsii.EncodeLatin1(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainsii.ErrCafStamp, err)
	}
	return b, nil
}

// VerifyStamp verifica FRMT contra el DD del TED usando la llave pública del CAF.
func VerifyStamp(ted *etree.Element, pub *rsa.PublicKey) error {
	dd := ted.SelectElement("DD")
	frmt := ted.SelectElement("FRMT")
	if dd == nil || frmt == nil {
		return fmt.Errorf("%w: TED incompleto", domainsii.ErrCafStamp)
	}
	b, err := ddBytes(dd)
	if err != nil {
		return err
	}
	sig, err := base64.StdEncoding.DecodeString(frmt.Text())
	if err != nil {
		return fmt.Errorf("%w: FRMT no es base64", domainsii.ErrCafStamp)
	}
	h := sha1.Sum(b)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA1, h[:], sig); err != nil {
		return fmt.Errorf("%w: FRMT no verifica: %v", domainsii.ErrCafStamp, err)
	}
	return nil
}
