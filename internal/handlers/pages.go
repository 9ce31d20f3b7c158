package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"hemkey/internal/config"
	"hemkey/internal/models"
)

// CountReader reads the live visitor count.
type CountReader interface {
	Read(ctx context.Context) (int64, error)
}

// PageHandler renders the public pages.
type PageHandler struct {
	site    *config.SiteContent
	cfg     *config.Config
	counter CountReader
}

// NewPageHandler creates a new page handler.
func NewPageHandler(site *config.SiteContent, cfg *config.Config, counter CountReader) *PageHandler {
	return &PageHandler{site: site, cfg: cfg, counter: counter}
}

// Home renders the landing page with the visitor count. The count is server
// rendered for the first paint; the widget script keeps it current.
func (h *PageHandler) Home(c fiber.Ctx) error {
	count, err := h.counter.Read(c.Context())
	if err != nil {
		slog.Warn("home page rendered without live visitor count", "error", err)
		count = 0
	}

	return render(c, "index", fiber.Map{
		"About":        h.site.About,
		"Services":     h.site.Services,
		"Stats":        h.site.Stats,
		"Baseline":     h.site.VisitorBaseline,
		"VisitorCount": h.site.VisitorBaseline + count,
	}, h.site, h.cfg)
}

// About renders the about page.
func (h *PageHandler) About(c fiber.Ctx) error {
	return render(c, "about", fiber.Map{
		"About": h.site.About,
		"Stats": h.site.Stats,
	}, h.site, h.cfg)
}

// Services renders the services page.
func (h *PageHandler) Services(c fiber.Ctx) error {
	return render(c, "services", fiber.Map{
		"Services": h.site.Services,
	}, h.site, h.cfg)
}

// Markets renders the markets page.
func (h *PageHandler) Markets(c fiber.Ctx) error {
	return render(c, "markets", fiber.Map{
		"Markets": h.site.Markets,
	}, h.site, h.cfg)
}

// Option is a select choice on a form.
type Option struct {
	Value string
	Label string
}

var (
	budgetOptions = []Option{
		{"under-500k", "Under $500K"},
		{"500k-1m", "$500K - $1M"},
		{"1m-2m", "$1M - $2M"},
		{"2m-5m", "$2M - $5M"},
		{"5m-10m", "$5M - $10M"},
		{"over-10m", "Over $10M"},
	}
	propertyTypeOptions = []Option{
		{"residential", "Residential"},
		{"commercial", "Commercial"},
		{"both", "Both"},
	}
)

// Contact renders the contact form.
func (h *PageHandler) Contact(c fiber.Ctx) error {
	return render(c, "contact", fiber.Map{
		"Budgets":       budgetOptions,
		"PropertyTypes": propertyTypeOptions,
	}, h.site, h.cfg)
}

// BecomePartner renders the partner application form.
func (h *PageHandler) BecomePartner(c fiber.Ctx) error {
	return render(c, "become-partner", fiber.Map{
		"PartnerPerks":   h.site.PartnerPerks,
		"Markets":        h.site.Markets,
		"PartnerSubject": "New " + h.site.Brand + " " + models.PartnerRequestMarker,
	}, h.site, h.cfg)
}

// RenderError renders the error page with the given status.
func RenderError(c fiber.Ctx, site *config.SiteContent, cfg *config.Config, status int, message string) error {
	c.Status(status)
	return render(c, "error", fiber.Map{
		"Status":  status,
		"Message": message,
	}, site, cfg)
}
