// Package defaults holds the compiled-in seed data used when no persisted
// state exists and as per-collection fallbacks when a backup document is
// malformed or incomplete. Every function returns a fresh value so callers
// can mutate the result freely.
package defaults

import "github.com/avolkov/kioskd/internal/kiosk/models"

// Settings returns the factory configuration.
func Settings() models.Settings {
	return models.Settings{
		StoreName: "Kiosk Showroom",
		LightTheme: models.ThemeColors{
			AppBg:      "#f3f4f6",
			MainBg:     "#ffffff",
			MainText:   "#111827",
			MainShadow: "rgba(0,0,0,0.1)",
			Primary:    "#4f46e5",
			PrimaryButton: models.ButtonTheme{
				Background:      "#4f46e5",
				Text:            "#ffffff",
				HoverBackground: "#4338ca",
			},
			DestructiveButton: models.ButtonTheme{
				Background:      "#dc2626",
				Text:            "#ffffff",
				HoverBackground: "#b91c1c",
			},
		},
		DarkTheme: models.ThemeColors{
			AppBg:      "#111827",
			MainBg:     "#1f2937",
			MainText:   "#f9fafb",
			MainShadow: "rgba(0,0,0,0.4)",
			Primary:    "#6366f1",
			PrimaryButton: models.ButtonTheme{
				Background:      "#6366f1",
				Text:            "#ffffff",
				HoverBackground: "#4f46e5",
			},
			DestructiveButton: models.ButtonTheme{
				Background:      "#ef4444",
				Text:            "#ffffff",
				HoverBackground: "#dc2626",
			},
		},
		Typography: models.Typography{
			Body:       models.FontStyle{FontFamily: "Inter", FontWeight: "400", FontStyle: "normal", TextDecoration: "none"},
			Headings:   models.FontStyle{FontFamily: "Inter", FontWeight: "700", FontStyle: "normal", TextDecoration: "none"},
			ItemTitles: models.FontStyle{FontFamily: "Inter", FontWeight: "600", FontStyle: "normal", TextDecoration: "none"},
		},
		ScreensaverDelay: 120,
		LastUpdated:      0,
	}
}

// Brands returns the demo brand set shipped with a fresh install.
func Brands() []models.Brand {
	return []models.Brand{
		{ID: "brand-aurora", Name: "Aurora Audio", LogoURL: "aurora-logo.png"},
		{ID: "brand-nordvik", Name: "Nordvik Appliances", LogoURL: "nordvik-logo.png"},
	}
}

func Products() []models.Product {
	return []models.Product{
		{
			ID:          "prod-aurora-one",
			BrandID:     "brand-aurora",
			Name:        "Aurora One Speaker",
			Description: "Compact wireless speaker with room calibration.",
			ImageURL:    "aurora-one.png",
		},
		{
			ID:          "prod-nordvik-fridge",
			BrandID:     "brand-nordvik",
			Name:        "Nordvik Frost 400",
			Description: "Energy class A freestanding fridge-freezer.",
			ImageURL:    "nordvik-frost-400.png",
		},
	}
}

func Catalogues() []models.Catalogue {
	return []models.Catalogue{
		{
			ID:      "cat-aurora-2025",
			BrandID: "brand-aurora",
			Title:   "Aurora 2025 Range",
			Year:    2025,
			Type:    models.DocumentPDF,
			URL:     "aurora-2025.pdf",
		},
	}
}

func Pamphlets() []models.Pamphlet {
	return []models.Pamphlet{
		{
			ID:        "pam-spring-sale",
			Title:     "Spring Sale",
			Type:      models.DocumentImage,
			ImageURLs: []string{"spring-sale-1.png", "spring-sale-2.png"},
			StartDate: "2025-03-01",
			EndDate:   "2025-03-31",
		},
	}
}

func ScreensaverAds() []models.ScreensaverAd {
	return []models.ScreensaverAd{
		{ID: "ad-welcome", Title: "Welcome", MediaType: "image", URL: "welcome.png"},
	}
}

// AdminUsers seeds the single main admin. The PIN is meant to be changed on
// first login.
func AdminUsers() []models.AdminUser {
	return []models.AdminUser{
		{
			ID:          "admin-main",
			Name:        "Main Admin",
			PIN:         "1723",
			IsMainAdmin: true,
			Permissions: models.AdminPermissions{
				CanManageContent:  true,
				CanManageSettings: true,
				CanManageUsers:    true,
				CanViewAnalytics:  true,
			},
		},
	}
}

func TvContent() []models.TvContent {
	return []models.TvContent{}
}

func Categories() []models.Category {
	return []models.Category{
		{ID: "cat-speakers", BrandID: "brand-aurora", Name: "Speakers"},
		{ID: "cat-cooling", BrandID: "brand-nordvik", Name: "Cooling"},
	}
}

// Snapshot assembles a full default snapshot.
func Snapshot() models.Snapshot {
	return models.Snapshot{
		Brands:         Brands(),
		Products:       Products(),
		Catalogues:     Catalogues(),
		Pamphlets:      Pamphlets(),
		Settings:       Settings(),
		ScreensaverAds: ScreensaverAds(),
		AdminUsers:     AdminUsers(),
		TvContent:      TvContent(),
		Categories:     Categories(),
		ViewCounts:     models.NewViewCounts(),
	}
}
