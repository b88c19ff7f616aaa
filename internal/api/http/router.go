package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/secureguard/phishsim-service/internal/api/http/handlers"
	"github.com/secureguard/phishsim-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Templates      *handlers.TemplatesHandler
	Campaigns      *handlers.CampaignsHandler
	Dashboard      *handlers.DashboardHandler
	Tracking       *handlers.TrackingHandler
	Scanner        *handlers.ScannerHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// public tracking endpoint; intentionally outside every auth gate
	app.Get("/t/:token", cfg.Tracking.Hit)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequirePrincipal())
	api.Get("/profile", cfg.Auth.Profile)
	api.Get("/dashboard", cfg.Dashboard.Overview)

	api.Get("/users", cfg.Users.List)
	api.Post("/users/import", cfg.Users.Import)
	api.Delete("/users/:id", cfg.Users.Deactivate)

	api.Post("/templates", cfg.Templates.Create)
	api.Get("/templates", cfg.Templates.List)
	api.Get("/templates/:id", cfg.Templates.Get)
	api.Put("/templates/:id", cfg.Templates.Update)
	api.Delete("/templates/:id", cfg.Templates.Delete)
	api.Get("/templates/:id/preview", cfg.Templates.Preview)

	api.Post("/campaigns", cfg.Campaigns.Create)
	api.Get("/campaigns", cfg.Campaigns.List)
	api.Get("/campaigns/:id", cfg.Campaigns.Get)
	api.Post("/campaigns/:id/launch", cfg.Campaigns.Launch)
	api.Post("/campaigns/:id/cancel", cfg.Campaigns.Cancel)
	api.Post("/campaigns/:id/complete", cfg.Campaigns.Complete)
	api.Get("/campaigns/:id/stats", cfg.Campaigns.Stats)
	api.Get("/campaigns/:id/groups", cfg.Campaigns.Groups)

	api.Post("/tools/scan-url", cfg.Scanner.ScanURL)
	api.Post("/tools/scan-file", cfg.Scanner.ScanFile)
	api.Post("/tools/breach-search", cfg.Scanner.BreachSearch)
	api.Post("/tools/darkweb-monitor", cfg.Scanner.DarkWebMonitor)
}
