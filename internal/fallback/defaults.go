// Package fallback provides the content served before the remote store has
// delivered anything: a compiled-in dataset, optionally replaced by a dataset
// file from local disk or S3.
package fallback

import "cafe-site/internal/model"

var defaultFeatures = []model.Feature{
	{ID: "wifi", Icon: "wifi", Label: "WiFi Gratis", Enabled: true},
	{ID: "parking", Icon: "parking", Label: "Parking", Enabled: true},
	{ID: "music", Icon: "music", Label: "Ambiente", Enabled: true},
	{ID: "pet", Icon: "pet", Label: "Pet Friendly", Enabled: false},
	{ID: "power", Icon: "power", Label: "Enchufes", Enabled: false},
	{ID: "ac", Icon: "ac", Label: "Aire Acondicionado", Enabled: false},
	{ID: "garden", Icon: "garden", Label: "Terraza", Enabled: false},
	{ID: "accessibility", Icon: "accessibility", Label: "Accesible", Enabled: false},
}

var defaultProfile = model.BusinessProfile{
	Name:        "KAIRO",
	Subtitle:    "COFFEE",
	Description: "Café de especialidad en un espacio minimalista diseñado para inspirarte.",
	HeroImage:   "https://images.unsplash.com/photo-1447933601403-0c6688de566e?w=1600&h=900&fit=crop",
	Address:     "Calle Artesanal 42, Colonia Centro",
	City:        "Ciudad de México, CP 06000",
	Phone:       "+52 55 1234 5678",
	Email:       "hola@kairocoffee.mx",
	Instagram:   "@kairocoffee",
	Hours: model.Hours{
		Weekdays: "7:00 — 21:00",
		Saturday: "8:00 — 22:00",
		Sunday:   "9:00 — 18:00",
	},
	About: model.AboutSection{
		SectionLabel:   "Nuestra historia",
		Title:          "Un espacio pensado para",
		TitleHighlight: "inspirarte",
		Paragraph1:     "En KAIRO creemos que el café es más que una bebida, es un ritual.",
		Paragraph2:     "Nuestro espacio minimalista fue diseñado para que puedas disfrutar cada momento.",
		Image:          "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=800&h=1000&fit=crop",
		FloatingNumber: "+5",
		FloatingText:   "Años sirviendo café de especialidad",
		Features:       defaultFeatures,
	},
}

var defaultCategories = []model.Category{
	{ID: "cafe", Name: "Café", Icon: "coffee"},
	{ID: "te", Name: "Té", Icon: "leaf"},
	{ID: "postres", Name: "Postres", Icon: "cake"},
	{ID: "desayunos", Name: "Desayunos", Icon: "egg"},
}

var defaultMenuItems = []model.MenuItem{
	{ID: "espresso", Name: "Espresso", Description: "Doble carga de nuestro blend de la casa.", Price: 45, Category: "cafe", Popular: true},
	{ID: "latte", Name: "Latte", Description: "Espresso con leche texturizada.", Price: 65, Category: "cafe", Popular: true},
	{ID: "cold-brew", Name: "Cold Brew", Description: "Extracción en frío durante 18 horas.", Price: 70, Category: "cafe"},
	{ID: "matcha", Name: "Matcha Latte", Description: "Matcha ceremonial con leche de avena.", Price: 75, Category: "te"},
	{ID: "chai", Name: "Chai", Description: "Mezcla de especias con té negro.", Price: 60, Category: "te"},
	{ID: "cheesecake", Name: "Cheesecake", Description: "Estilo Nueva York con frutos rojos.", Price: 85, Category: "postres", Popular: true},
	{ID: "croissant", Name: "Croissant", Description: "Hojaldre de mantequilla recién horneado.", Price: 40, Category: "postres"},
	{ID: "avocado-toast", Name: "Avocado Toast", Description: "Pan de masa madre, aguacate y huevo pochado.", Price: 120, Category: "desayunos"},
}

// Builtin returns the compiled-in dataset. Every call returns a fresh copy.
func Builtin() model.Dataset {
	return model.Dataset{
		MenuItems:    defaultMenuItems,
		Categories:   defaultCategories,
		Reservations: []model.Reservation{},
		Profile:      defaultProfile,
	}.Clone()
}
