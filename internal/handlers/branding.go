package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"hemkey/internal/config"
)

// SiteData contains the site content every template can use.
type SiteData struct {
	Brand   string
	Tagline string
	Contact config.ContactDetails
	BaseURL string
	Year    int
}

// GetSiteData returns the shared template data for site.
func GetSiteData(site *config.SiteContent, cfg *config.Config) SiteData {
	return SiteData{
		Brand:   site.Brand,
		Tagline: site.Tagline,
		Contact: site.Contact,
		BaseURL: cfg.BaseURL,
		Year:    time.Now().Year(),
	}
}

// MergeSite adds the shared site data to a fiber.Map for template rendering.
func MergeSite(data fiber.Map, site *config.SiteContent, cfg *config.Config) fiber.Map {
	sd := GetSiteData(site, cfg)
	data["Brand"] = sd.Brand
	data["Tagline"] = sd.Tagline
	data["Contact"] = sd.Contact
	data["BaseURL"] = sd.BaseURL
	data["Year"] = sd.Year
	return data
}
