package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SiteContent is the brand copy rendered by the marketing pages and emails.
// Kept in YAML because the lists are awkward as env vars.
type SiteContent struct {
	Brand           string          `yaml:"brand"`
	Tagline         string          `yaml:"tagline"`
	About           string          `yaml:"about"`
	Services        []ServiceEntry  `yaml:"services"`
	Markets         []MarketEntry   `yaml:"markets"`
	Contact         ContactDetails  `yaml:"contact"`
	PartnerPerks    []string        `yaml:"partner_perks"`
	VisitorBaseline int64           `yaml:"visitor_baseline"` // added to the live count on display
	Stats           []StatHighlight `yaml:"stats"`
}

// ServiceEntry is one offering on the services page.
type ServiceEntry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// MarketEntry is one city or region on the markets page.
type MarketEntry struct {
	Name        string `yaml:"name"`
	Country     string `yaml:"country"`
	Description string `yaml:"description"`
}

// ContactDetails are shown on the contact page and in email footers.
type ContactDetails struct {
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Address string `yaml:"address"`
}

// StatHighlight is a fixed figure shown next to the visitor count.
type StatHighlight struct {
	Label  string `yaml:"label"`
	Value  string `yaml:"value"`
	Suffix string `yaml:"suffix,omitempty"`
}

// DefaultSiteContent returns the copy used when no site file exists.
func DefaultSiteContent() *SiteContent {
	return &SiteContent{
		Brand:   "Hemkey",
		Tagline: "Your trusted channel partner in real estate",
		About:   "Hemkey connects investors and home buyers with verified developers across growing markets.",
		Services: []ServiceEntry{
			{Title: "Residential Sales", Description: "Curated apartments and villas from trusted developers."},
			{Title: "Commercial Leasing", Description: "Office and retail space matched to your business."},
			{Title: "Investment Advisory", Description: "Market research and portfolio guidance for investors."},
		},
		Markets: []MarketEntry{
			{Name: "Mumbai", Country: "India", Description: "Premium residential and commercial projects."},
			{Name: "Pune", Country: "India", Description: "Fast-growing IT corridor developments."},
			{Name: "Dubai", Country: "UAE", Description: "Off-plan and ready properties for global investors."},
		},
		Contact: ContactDetails{
			Email: "business@hemkey.com",
		},
		PartnerPerks: []string{
			"Access to exclusive inventory",
			"Transparent commission structure",
			"Dedicated relationship manager",
		},
		VisitorBaseline: 12500,
		Stats: []StatHighlight{
			{Label: "Growth Rate", Value: "75", Suffix: "%"},
			{Label: "Countries", Value: "3"},
		},
	}
}

// LoadSiteContent loads the site YAML file.
// A missing file yields DefaultSiteContent; empty fields fall back to the defaults.
func LoadSiteContent(path string) (*SiteContent, error) {
	defaults := DefaultSiteContent()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return nil, err
	}

	var site SiteContent
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, err
	}

	if site.Brand == "" {
		site.Brand = defaults.Brand
	}
	if site.Tagline == "" {
		site.Tagline = defaults.Tagline
	}
	if site.About == "" {
		site.About = defaults.About
	}
	if len(site.Services) == 0 {
		site.Services = defaults.Services
	}
	if len(site.Markets) == 0 {
		site.Markets = defaults.Markets
	}
	if site.Contact.Email == "" {
		site.Contact.Email = defaults.Contact.Email
	}
	if len(site.PartnerPerks) == 0 {
		site.PartnerPerks = defaults.PartnerPerks
	}
	if site.VisitorBaseline < 0 {
		site.VisitorBaseline = 0
	}

	return &site, nil
}
