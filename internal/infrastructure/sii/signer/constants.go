// Algoritmos XMLDSig exigidos por el SII (exc-C14N, SHA-1, RSA-SHA1).

package signer

import dsig "github.com/russellhaering/goxmldsig"

const (
	NamespaceDS        = dsig.Namespace
	AlgExcC14N         = "http://www.w3.org/2001/10/xml-exc-c14n#"
	AlgRSASHA1         = dsig.RSASHA1SignatureMethod
	AlgSHA1            = "http://www.w3.org/2000/09/xmldsig#sha1"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)
