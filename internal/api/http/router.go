package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/api/http/handlers"
	"github.com/spec-kit/cms-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Identity       *handlers.IdentityHandler
	Institutions   *handlers.InstitutionsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Identity.Register)
	authGroup.Post("/login", cfg.Identity.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Identity.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Identity.Me)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me/memberships", cfg.Identity.Memberships)

	institutions := app.Group("/institutions", cfg.AuthMiddleware.Handle)
	institutions.Post("/", cfg.Institutions.Create)
	institutions.Get("/", cfg.Institutions.List)
	institutions.Get("/search", cfg.Institutions.Search)
	institutions.Get("/managed", cfg.Institutions.Managed)
	institutions.Get("/:id", cfg.Institutions.Get)
	institutions.Post("/:id/roles", cfg.Institutions.AddRoles)
	institutions.Post("/:id/join", cfg.Institutions.Join)
	institutions.Get("/:id/reports", cfg.Reports.ListAll)
	institutions.Get("/:id/reports/stats", cfg.Reports.Statistics)
	institutions.Get("/:id/my-reports", cfg.Reports.ListMine)
	institutions.Post("/:id/reports", cfg.Reports.Submit)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle)
	reports.Get("/:id", cfg.Reports.Get)
	reports.Patch("/:id", cfg.Reports.Update)
}
