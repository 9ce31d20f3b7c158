package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hemkey/internal/counter"
	"hemkey/internal/handlers"
	"hemkey/internal/handlers/api"
	"hemkey/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(store counter.Store, relay api.Deliverer) {
	// Initialize handlers
	pageHandler := handlers.NewPageHandler(s.Site, s.Cfg, store)
	counterHandler := api.NewCounterHandler(store, s.Cfg)
	mailHandler := api.NewMailHandler(relay, s.Cfg)
	healthHandler := api.NewHealthHandler(store.Backend())

	// Pages
	s.App.Get("/", pageHandler.Home)
	s.App.Get("/about", pageHandler.About)
	s.App.Get("/services", pageHandler.Services)
	s.App.Get("/markets", pageHandler.Markets)
	s.App.Get("/contact", pageHandler.Contact)
	s.App.Get("/become-partner", pageHandler.BecomePartner)

	// API
	apiGroup := s.App.Group("/api", middleware.ClientIP)
	apiGroup.Get("/visitor-counter", middleware.NoStore, counterHandler.Get)
	apiGroup.Post("/visitor-counter", middleware.NoStore, counterHandler.Increment)
	apiGroup.Post("/sendMail", mailHandler.Send)

	// Operations
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Everything else is a 404, rendered by the error handler
	s.App.Use(func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})
}
