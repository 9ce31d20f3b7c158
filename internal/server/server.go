package server

import (
	"crypto/tls"
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/template/html/v3"
	jsoniter "github.com/json-iterator/go"

	"hemkey/internal/config"
	"hemkey/internal/handlers"
	"hemkey/internal/models"
	"hemkey/web"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server wraps the Fiber app and configuration.
type Server struct {
	App  *fiber.App
	Cfg  *config.Config
	Site *config.SiteContent
}

// New creates a new server with middleware configured.
func New(cfg *config.Config, site *config.SiteContent) *Server {
	if site == nil {
		site = config.DefaultSiteContent()
	}

	// Setup template engine
	engine := html.NewFileSystem(http.FS(web.Views()), ".html")
	engine.Reload(cfg.IsDev())

	s := &Server{Cfg: cfg, Site: site}

	// Initialize Fiber
	app := fiber.New(fiber.Config{
		AppName:      site.Brand,
		Views:        engine,
		ViewsLayout:  "layouts/main",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: s.errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// CORS middleware
	corsOrigins := cfg.BaseURL
	if cfg.CORSOrigins != "" {
		corsOrigins = cfg.CORSOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Split(corsOrigins, ","),
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		MaxAge:       86400,
	}))

	// Static files
	app.Get("/static/*", static.New("", static.Config{FS: web.Static()}))

	s.App = app
	return s
}

// errorHandler answers API paths with JSON and everything else with the
// error page.
func (s *Server) errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(models.ErrorResponse{Error: message})
	}

	return handlers.RenderError(c, s.Site, s.Cfg, code, message)
}

// Start starts the server with the configured address and TLS settings.
func (s *Server) Start() error {
	if s.Cfg.TLSEnabled() {
		log.Printf("Starting server with TLS on %s", s.Cfg.ServerAddr)
		return s.App.Listen(s.Cfg.ServerAddr, fiber.ListenConfig{
			CertFile:      s.Cfg.TLSCertFile,
			CertKeyFile:   s.Cfg.TLSKeyFile,
			TLSConfigFunc: func(tc *tls.Config) { tc.MinVersion = tls.VersionTLS12 },
		})
	}
	log.Printf("Starting server on %s", s.Cfg.ServerAddr)
	return s.App.Listen(s.Cfg.ServerAddr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
