// Firma XMLDSig enveloped para documentos del SII (DTE, sobre de envío y solicitud de token).
// La firma se agrega como último hijo del nodo con ID/Id indicado y el KeyInfo se
// emite sin prefijo de namespace, única forma que acepta el SII.

package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/tls"
	"encoding/base64"
	"fmt"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// DigitalSignatureService implementa pkg/sii.Signer.
type DigitalSignatureService struct {
	canon dsig.Canonicalizer
}

// NewDigitalSignatureService crea el servicio con canonicalización exclusiva sin lista de prefijos.
func NewDigitalSignatureService() *DigitalSignatureService {
	return &DigitalSignatureService{canon: dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList("")}
}

var _ pkgsii.Signer = (*DigitalSignatureService)(nil)

// Sign firma el nodo identificado por id y devuelve el documento en ISO-8859-1.
func (s *DigitalSignatureService) Sign(xmlBytes []byte, id string, cert tls.Certificate) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("sii: XML vacío")
	}
	doc, err := pkgsii.ReadDocument(xmlBytes)
	if err != nil {
		return nil, fmt.Errorf("sii: parsear XML a firmar: %w", err)
	}
	if err := s.SignElement(doc, id, cert); err != nil {
		return nil, err
	}
	return pkgsii.WriteDocument(doc)
}

// SignElement firma en el árbol ya parseado. Solo agrega el nodo Signature; el resto
// del contenido queda intacto.
func (s *DigitalSignatureService) SignElement(doc *etree.Document, id string, cert tls.Certificate) error {
	target := FindByID(doc.Root(), id)
	if target == nil {
		return fmt.Errorf("%w: ID=%q", domainsii.ErrSigningTargetNotFound, id)
	}
	key, err := rsaKey(cert)
	if err != nil {
		return err
	}
	leaf, err := leafCertificate(cert)
	if err != nil {
		return fmt.Errorf("sii: parsear certificado: %w", err)
	}

	// 1) Digest del nodo (exc-C14N). La copia lleva los xmlns heredados de sus ancestros.
	canonicalTarget, err := s.canon.Canonicalize(withInheritedNamespaces(target))
	if err != nil {
		return fmt.Errorf("sii: canonicalizar nodo %s: %w", id, err)
	}
	digest := sha1.Sum(canonicalTarget)

	// 2) SignedInfo y su firma RSA-SHA1
	sig := etree.NewElement("Signature")
	sig.CreateAttr("xmlns", NamespaceDS)
	signedInfo := buildSignedInfo(sig, id, base64.StdEncoding.EncodeToString(digest[:]))

	siCopy := signedInfo.Copy()
	siCopy.CreateAttr("xmlns", NamespaceDS)
	canonicalSI, err := s.canon.Canonicalize(siCopy)
	if err != nil {
		return fmt.Errorf("sii: canonicalizar SignedInfo: %w", err)
	}
	siHash := sha1.Sum(canonicalSI)
	raw, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, siHash[:])
	if err != nil {
		return fmt.Errorf("sii: firmar SignedInfo: %w", err)
	}
	sig.CreateElement("SignatureValue").SetText(base64.StdEncoding.EncodeToString(raw))

	// 3) KeyInfo sin prefijo
	SetPlainKeyInfo(sig, leaf.Raw)

	target.AddChild(sig)
	return nil
}

func buildSignedInfo(sig *etree.Element, id, digestB64 string) *etree.Element {
	si := sig.CreateElement("SignedInfo")
	si.CreateElement("CanonicalizationMethod").CreateAttr("Algorithm", AlgExcC14N)
	si.CreateElement("SignatureMethod").CreateAttr("Algorithm", AlgRSASHA1)
	ref := si.CreateElement("Reference")
	ref.CreateAttr("URI", "#"+id)
	transforms := ref.CreateElement("Transforms")
	transforms.CreateElement("Transform").CreateAttr("Algorithm", TransformEnveloped)
	transforms.CreateElement("Transform").CreateAttr("Algorithm", AlgExcC14N)
	ref.CreateElement("DigestMethod").CreateAttr("Algorithm", AlgSHA1)
	ref.CreateElement("DigestValue").SetText(digestB64)
	return si
}

// SetPlainKeyInfo elimina cualquier KeyInfo (con o sin prefijo) de la firma y agrega
// <KeyInfo><X509Data><X509Certificate> con el certificado en base64 sin cabeceras PEM.
func SetPlainKeyInfo(sig *etree.Element, certDER []byte) {
	for _, child := range sig.ChildElements() {
		if child.Tag == "KeyInfo" {
			sig.RemoveChild(child)
		}
	}
	ki := sig.CreateElement("KeyInfo")
	ki.CreateElement("X509Data").CreateElement("X509Certificate").SetText(base64.StdEncoding.EncodeToString(certDER))
}

// FindByID busca, en orden de documento, el primer elemento con atributo ID o Id igual a id.
func FindByID(root *etree.Element, id string) *etree.Element {
	if root == nil {
		return nil
	}
	for _, attr := range root.Attr {
		if attr.Space == "" && (attr.Key == "ID" || attr.Key == "Id") && attr.Value == id {
			return root
		}
	}
	for _, child := range root.ChildElements() {
		if el := FindByID(child, id); el != nil {
			return el
		}
	}
	return nil
}

// withInheritedNamespaces copia el elemento y le declara los namespaces en alcance
// heredados de sus ancestros, para canonicalizarlo fuera del árbol.
func withInheritedNamespaces(el *etree.Element) *etree.Element {
	cp := el.Copy()
	declared := map[string]bool{}
	for _, a := range el.Attr {
		if p, ok := nsPrefix(a); ok {
			declared[p] = true
		}
	}
	for p := el.Parent(); p != nil; p = p.Parent() {
		for _, a := range p.Attr {
			prefix, ok := nsPrefix(a)
			if !ok || declared[prefix] {
				continue
			}
			declared[prefix] = true
			cp.CreateAttr(a.FullKey(), a.Value)
		}
	}
	return cp
}

func nsPrefix(a etree.Attr) (string, bool) {
	switch {
	case a.Space == "" && a.Key == "xmlns":
		return "", true
	case a.Space == "xmlns":
		return a.Key, true
	}
	return "", false
}
