package sii

import "crypto/tls"

// Signer firma un XML con XMLDSig enveloped sobre el elemento cuyo atributo ID/Id vale id.
type Signer interface {
	// Sign retorna el XML con <Signature> agregado como último hijo del elemento firmado.
	Sign(xmlBytes []byte, id string, cert tls.Certificate) ([]byte, error)
}
