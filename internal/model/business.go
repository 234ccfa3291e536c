package model

import "slices"

// BusinessProfile is the singleton document describing the business.
type BusinessProfile struct {
	Name        string       `json:"name"`
	Subtitle    string       `json:"subtitle"`
	Description string       `json:"description"`
	Logo        string       `json:"logo"`
	HeroImage   string       `json:"heroImage"`
	Address     string       `json:"address"`
	City        string       `json:"city"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email"`
	Instagram   string       `json:"instagram"`
	MapURL      string       `json:"mapUrl"`
	Hours       Hours        `json:"hours"`
	About       AboutSection `json:"about"`
}

// Hours holds free-form opening hours per day group.
type Hours struct {
	Weekdays string `json:"weekdays"`
	Saturday string `json:"saturday"`
	Sunday   string `json:"sunday"`
}

// AboutSection is the "about us" block of the public site.
type AboutSection struct {
	SectionLabel   string    `json:"sectionLabel"`
	Title          string    `json:"title"`
	TitleHighlight string    `json:"titleHighlight"`
	Paragraph1     string    `json:"paragraph1"`
	Paragraph2     string    `json:"paragraph2"`
	Image          string    `json:"image"`
	FloatingNumber string    `json:"floatingNumber"`
	FloatingText   string    `json:"floatingText"`
	Features       []Feature `json:"features"`
}

// Feature is an amenity badge. Order in AboutSection.Features is display order.
type Feature struct {
	ID      string `json:"id"`
	Icon    string `json:"icon"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// Dataset is a complete set of site content.
type Dataset struct {
	MenuItems    []MenuItem      `json:"menuItems"`
	Categories   []Category      `json:"categories"`
	Reservations []Reservation   `json:"reservations"`
	Profile      BusinessProfile `json:"profile"`
}

// Clone returns a copy that shares no slices with p.
func (p BusinessProfile) Clone() BusinessProfile {
	p.About.Features = slices.Clone(p.About.Features)
	return p
}

// Clone returns a copy that shares no slices with d.
func (d Dataset) Clone() Dataset {
	return Dataset{
		MenuItems:    slices.Clone(d.MenuItems),
		Categories:   slices.Clone(d.Categories),
		Reservations: slices.Clone(d.Reservations),
		Profile:      d.Profile.Clone(),
	}
}

// Site is the public projection of the store: everything but reservations.
type Site struct {
	Version    uint64          `json:"version"`
	MenuItems  []MenuItem      `json:"menuItems"`
	Categories []Category      `json:"categories"`
	Profile    BusinessProfile `json:"profile"`
}
