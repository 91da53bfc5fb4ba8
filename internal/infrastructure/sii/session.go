package sii

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/beevik/etree"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/logger"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

// PlaceholderToken token fijo cuando no hay certificado configurado (desarrollo local).
const PlaceholderToken = "TOKEN-DESARROLLO"

// estadoOK valor de ESTADO en respuestas exitosas de semilla y token.
const estadoOK = "00"

// SessionState estado de la sesión de autenticación.
type SessionState int

const (
	Unauthenticated SessionState = iota
	SeedObtained
	TokenObtained
)

func (s SessionState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case SeedObtained:
		return "seed_obtained"
	case TokenObtained:
		return "token_obtained"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

// Session máquina de estados semilla → token. Una sesión por envío; no se reutiliza.
type Session struct {
	client *SOAPClient
	signer pkgsii.Signer
	cert   tls.Certificate

	state SessionState
	seed  string
	token string
}

// NewSession crea una sesión sin autenticar.
func NewSession(client *SOAPClient, signer pkgsii.Signer, cert tls.Certificate) *Session {
	return &Session{client: client, signer: signer, cert: cert}
}

func (s *Session) State() SessionState { return s.state }
func (s *Session) Seed() string        { return s.seed }
func (s *Session) Token() string       { return s.token }

// RequestSeed Unauthenticated → SeedObtained.
func (s *Session) RequestSeed(ctx context.Context) (string, error) {
	if s.state != Unauthenticated {
		return "", fmt.Errorf("%w: la sesión ya está en estado %s", domainsii.ErrSeedRequestFailed, s.state)
	}
	status, body, err := s.client.Post(ctx, soapCall{Path: PathSeed, Operation: etree.NewElement("getSeed")})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainsii.ErrSeedRequestFailed, err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: HTTP %d: %s", domainsii.ErrSeedRequestFailed, status, domainsii.Truncate(string(body), 512))
	}
	payload, err := extractPayload(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainsii.ErrSeedRequestFailed, err)
	}
	seed := childTextLocal(payload, "SEMILLA")
	if seed == "" {
		return "", fmt.Errorf("%w: respuesta sin SEMILLA (ESTADO=%s)", domainsii.ErrSeedRequestFailed, childTextLocal(payload, "ESTADO"))
	}
	if estado := childTextLocal(payload, "ESTADO"); estado != "" && estado != estadoOK {
		return "", fmt.Errorf("%w: ESTADO=%s", domainsii.ErrSeedRequestFailed, estado)
	}
	s.seed = seed
	s.state = SeedObtained
	return seed, nil
}

// ExchangeToken SeedObtained → TokenObtained: firma <getToken ID="GT"> con la semilla y
// lo canjea por el token.
func (s *Session) ExchangeToken(ctx context.Context) (string, error) {
	if s.state != SeedObtained {
		return "", fmt.Errorf("%w: se requiere semilla (estado %s)", domainsii.ErrTokenExchangeFailed, s.state)
	}
	signed, err := s.signer.Sign(TokenRequest(s.seed), pkgsii.TokenRequestID, s.cert)
	if err != nil {
		return "", fmt.Errorf("%w: firmar solicitud: %v", domainsii.ErrTokenExchangeFailed, err)
	}
	op, err := cdataOperation("getToken", "pszXml", signed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainsii.ErrTokenExchangeFailed, err)
	}
	status, body, err := s.client.Post(ctx, soapCall{Path: PathToken, Operation: op})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainsii.ErrTokenExchangeFailed, err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: HTTP %d: %s", domainsii.ErrTokenExchangeFailed, status, domainsii.Truncate(string(body), 512))
	}
	payload, err := extractPayload(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainsii.ErrTokenExchangeFailed, err)
	}
	token := childTextLocal(payload, "TOKEN")
	if token == "" {
		return "", fmt.Errorf("%w: respuesta sin TOKEN (ESTADO=%s %s)", domainsii.ErrTokenExchangeFailed,
			childTextLocal(payload, "ESTADO"), childTextLocal(payload, "GLOSA"))
	}
	s.token = token
	s.state = TokenObtained
	return token, nil
}

// TokenRequest arma el XML sin firmar <getToken ID="GT"><item><Semilla>…</Semilla></item></getToken>.
func TokenRequest(seed string) []byte {
	root := etree.NewElement("getToken")
	root.CreateAttr("ID", pkgsii.TokenRequestID)
	root.CreateElement("item").CreateElement("Semilla").SetText(seed)
	b, _ := pkgsii.WriteElement(root) // la semilla es numérica: siempre representable en Latin-1
	return b
}

// Authenticator obtiene un token fresco por cada envío.
type Authenticator struct {
	client *SOAPClient
	signer pkgsii.Signer
	cert   *tls.Certificate
	log    *logger.Logger
}

// NewAuthenticator crea el autenticador. cert nil indica que el ambiente no tiene
// certificado configurado y devuelve PlaceholderToken; si el certificado está
// configurado pero no carga, el llamador debe fallar antes de llegar aquí.
func NewAuthenticator(client *SOAPClient, signer pkgsii.Signer, cert *tls.Certificate, log *logger.Logger) *Authenticator {
	if log == nil {
		log = logger.Nop()
	}
	return &Authenticator{client: client, signer: signer, cert: cert, log: log.Component("sii-auth")}
}

// Token ejecuta semilla → firma → token en una sesión nueva.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	if a.cert == nil {
		a.log.Warn().Msg("sin certificado configurado: se usa token de desarrollo")
		return PlaceholderToken, nil
	}
	sess := NewSession(a.client, a.signer, *a.cert)
	if _, err := sess.RequestSeed(ctx); err != nil {
		return "", err
	}
	token, err := sess.ExchangeToken(ctx)
	if err != nil {
		return "", err
	}
	a.log.Debug().Str("state", sess.State().String()).Msg("token SII obtenido")
	return token, nil
}

// StaticToken fuente de token fija (modo dev, sin red).
type StaticToken string

// Token devuelve el valor fijo.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }
