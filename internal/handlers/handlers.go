// Package handlers renders the marketing pages.
package handlers

import (
	"github.com/gofiber/fiber/v3"

	"hemkey/internal/config"
)

// Page titles keyed by view name.
var pageTitles = map[string]string{
	"index":          "Home",
	"about":          "About Us",
	"services":       "Services",
	"markets":        "Markets",
	"contact":        "Contact",
	"become-partner": "Become a Partner",
	"error":          "Error",
}

// render renders view inside the main layout with the site content merged in.
func render(c fiber.Ctx, view string, data fiber.Map, site *config.SiteContent, cfg *config.Config) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = pageTitles[view]
	}
	data["Page"] = view
	return c.Render(view, MergeSite(data, site, cfg))
}
