package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gre-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth      loginService
	Submit    waybillSubmitter
	Void      waybillVoider
	Query     waybillQuerier
	PDF       waybillPrinter
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Auth)
	api.Post("/auth/login", authHandler.Login)

	// Guías de remisión (protegido). La anulación exige admin dentro del caso de uso.
	greGroup := api.Group("/gre",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero),
	)
	h := NewGREHandler(deps.Submit, deps.Void, deps.Query, deps.PDF)
	greGroup.Post("/", h.Submit)
	// antes de /:id
	greGroup.Get("/next-correlative", h.NextCorrelative)
	greGroup.Get("/:id", h.GetByID)
	greGroup.Get("/:id/pdf", h.DownloadPDF)
	greGroup.Post("/:id/void", h.Void)
}
