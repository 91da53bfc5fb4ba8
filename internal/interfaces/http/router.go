package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Issuer    invoiceIssuer
	Documents documentReader
	JWTSecret string
}

// Router registra las rutas de la API. Todo /api/dte exige Bearer Token; emitir
// requiere rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/dte", AuthMiddleware(deps.JWTSecret))

	h := NewDTEHandler(deps.Issuer, deps.Documents)
	protected.Post("/orders/:orderId", RequireRole(jwt.RoleAdmin), h.Issue)

	read := RequireRole(jwt.RoleAdmin, jwt.RoleOperador)
	protected.Get("/", read, h.List)
	protected.Get("/:tipo/:folio", read, h.Get)
	protected.Get("/:tipo/:folio/xml", read, h.XML)
	protected.Get("/:tipo/:folio/pdf", read, h.PDF)
}
