package sii

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"

	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// ── Constantes de entorno ──────────────────────────────────────────────────────

const (
	// EnvDev no contacta al SII: timbra, firma si hay certificado y simula el envío.
	EnvDev = "dev"
	// EnvCert ambiente de certificación (maullin).
	EnvCert = "cert"
	// EnvProd ambiente de producción (palena).
	EnvProd = "prod"

	HostCert = "https://maullin.sii.cl"
	HostProd = "https://palena.sii.cl"

	PathSeed  = "/DTEWS/CrSeed.jws"
	PathToken = "/DTEWS/GetTokenFromSeed.jws"

	soapNS          = "http://schemas.xmlsoap.org/soap/envelope/"
	contentTypeSOAP = "text/xml; charset=ISO-8859-1"
	// El SII rechaza algunos User-Agent genéricos.
	userAgent       = "Mozilla/4.0 (compatible; PROG 1.0; Windows NT)"
	maxResponseBody = 1 << 20 // 1 MB
)

// BaseURL devuelve el host del ambiente; override (SII_BASE_URL) tiene prioridad.
func BaseURL(env, override string) (string, error) {
	if o := strings.TrimRight(strings.TrimSpace(override), "/"); o != "" {
		return o, nil
	}
	switch env {
	case EnvCert:
		return HostCert, nil
	case EnvProd:
		return HostProd, nil
	case EnvDev:
		return "", nil
	}
	return "", fmt.Errorf("sii: entorno desconocido %q (usar dev|cert|prod)", env)
}

// SOAPClient transporte SOAP 1.1 hacia el SII. Usa un cliente TLS normal para
// semilla/token y uno con certificado de cliente (mTLS) para los envíos.
type SOAPClient struct {
	baseURL string
	plain   *http.Client
	mtls    *http.Client
}

// NewSOAPClient construye el cliente. cert nil = sin canal mTLS (los envíos usan el cliente normal).
func NewSOAPClient(baseURL string, timeout time.Duration, cert *tls.Certificate) *SOAPClient {
	plain := &http.Client{Timeout: timeout}
	mtls := plain
	if cert != nil {
		mtls = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					Certificates: []tls.Certificate{*cert},
					MinVersion:   tls.VersionTLS12,
				},
			},
		}
	}
	return NewSOAPClientWithHTTP(baseURL, plain, mtls)
}

// NewSOAPClientWithHTTP permite inyectar los clientes HTTP (tests, proxies).
func NewSOAPClientWithHTTP(baseURL string, plain, mtls *http.Client) *SOAPClient {
	if mtls == nil {
		mtls = plain
	}
	return &SOAPClient{baseURL: strings.TrimRight(baseURL, "/"), plain: plain, mtls: mtls}
}

// soapCall una operación SOAP.
type soapCall struct {
	Path      string
	Operation *etree.Element
	MutualTLS bool
	Token     string // se envía como cookie TOKEN
}

// Post envía la operación y devuelve estado HTTP y cuerpo. Solo falla por transporte;
// el llamador interpreta el estado.
func (c *SOAPClient) Post(ctx context.Context, call soapCall) (int, []byte, error) {
	payload, err := buildSOAPEnvelope(call.Operation)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+call.Path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("soap: crear request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeSOAP)
	req.Header.Set("SOAPAction", "")
	req.Header.Set("User-Agent", userAgent)
	if call.Token != "" {
		req.Header.Set("Cookie", "TOKEN="+call.Token)
	}

	httpClient := c.plain
	if call.MutualTLS {
		httpClient = c.mtls
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, fmt.Errorf("soap: timeout o cancelación: %w", ctx.Err())
		}
		return 0, nil, fmt.Errorf("soap: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("soap: leer respuesta: %w", err)
	}
	return resp.StatusCode, body, nil
}

func buildSOAPEnvelope(op *etree.Element) ([]byte, error) {
	env := etree.NewElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", soapNS)
	env.CreateElement("soapenv:Header")
	body := env.CreateElement("soapenv:Body")
	if op != nil {
		body.AddChild(op)
	}
	b, err := pkgsii.WriteElement(env)
	if err != nil {
		return nil, fmt.Errorf("soap: serializar envelope: %w", err)
	}
	return b, nil
}

// cdataOperation arma <op><param><![CDATA[xml]]></param></op> con el XML firmado
// como bloque literal.
func cdataOperation(op, param string, signed []byte) (*etree.Element, error) {
	s, err := pkgsii.DecodeLatin1(signed)
	if err != nil {
		return nil, err
	}
	el := etree.NewElement(op)
	el.CreateElement(param).CreateCData(s)
	return el, nil
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// extractPayload devuelve la raíz del XML útil de la respuesta. Si viene envuelta en
// SOAP, el contenido de *Return suele venir escapado como texto (&lt;...&gt;); el
// parser lo desescapa y se vuelve a parsear.
func extractPayload(body []byte) (*etree.Element, error) {
	doc, err := readLenient(body)
	if err != nil {
		return nil, fmt.Errorf("respuesta no es XML: %w", err)
	}
	root := doc.Root()
	if root.Tag != "Envelope" {
		return root, nil
	}
	soapBody := findLocal(root, "Body")
	if soapBody == nil || len(soapBody.ChildElements()) == 0 {
		return nil, fmt.Errorf("respuesta SOAP sin Body")
	}
	op := soapBody.ChildElements()[0]
	if op.Tag == "Fault" {
		return nil, fmt.Errorf("SOAP Fault [%s]: %s", childTextLocal(op, "faultcode"), childTextLocal(op, "faultstring"))
	}
	ret := op
	if kids := op.ChildElements(); len(kids) > 0 {
		ret = kids[0]
	}
	if kids := ret.ChildElements(); len(kids) > 0 {
		return kids[0], nil
	}
	return parseEmbedded(ret.Text())
}

func parseEmbedded(s string) (*etree.Element, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<?xml") {
		if i := strings.Index(s, "?>"); i >= 0 {
			s = s[i+2:]
		}
	}
	if s == "" {
		return nil, fmt.Errorf("respuesta SOAP vacía")
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, fmt.Errorf("contenido de la respuesta no es XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("respuesta SOAP vacía")
	}
	return doc.Root(), nil
}

// findLocal busca en profundidad el primer elemento con ese nombre local (ignora prefijos).
func findLocal(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	if el.Tag == tag {
		return el
	}
	for _, c := range el.ChildElements() {
		if found := findLocal(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func childTextLocal(el *etree.Element, tag string) string {
	if f := findLocal(el, tag); f != nil {
		return strings.TrimSpace(f.Text())
	}
	return ""
}
