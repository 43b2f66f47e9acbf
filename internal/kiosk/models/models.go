// Package models defines the kiosk catalogue data model: the entity
// collections, the singleton Settings record, view analytics, and the
// canonical snapshot aggregate used by every backup/restore/sync operation.
package models

// Brand is a top-level catalogue grouping. Products, catalogues, and
// categories reference it by id.
type Brand struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LogoURL   string `json:"logoUrl"`
	IsDeleted bool   `json:"isDeleted,omitempty"`
}

// Product belongs to a brand and optionally to a category within it.
type Product struct {
	ID          string   `json:"id"`
	BrandID     string   `json:"brandId"`
	CategoryID  string   `json:"categoryId,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	GalleryURLs []string `json:"galleryUrls,omitempty"`
	IsDeleted   bool     `json:"isDeleted,omitempty"`
}

// DocumentType distinguishes how a catalogue or pamphlet is rendered.
type DocumentType string

const (
	DocumentPDF   DocumentType = "pdf"
	DocumentImage DocumentType = "image"
)

// Catalogue is a brand document, either a single PDF reference or a set of
// page images.
type Catalogue struct {
	ID        string       `json:"id"`
	BrandID   string       `json:"brandId"`
	Title     string       `json:"title"`
	Year      int          `json:"year"`
	Type      DocumentType `json:"type"`
	URL       string       `json:"url,omitempty"`
	ImageURLs []string     `json:"imageUrls,omitempty"`
	IsDeleted bool         `json:"isDeleted,omitempty"`
}

// Pamphlet is a time-bounded promotional document.
type Pamphlet struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Type      DocumentType `json:"type"`
	URL       string       `json:"url,omitempty"`
	ImageURLs []string     `json:"imageUrls,omitempty"`
	StartDate string       `json:"startDate"`
	EndDate   string       `json:"endDate"`
	IsDeleted bool         `json:"isDeleted,omitempty"`
}

// ScreensaverAd is shown during kiosk idle periods. Ads are removed outright
// rather than soft-deleted; they carry no trash lifecycle.
type ScreensaverAd struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	MediaType string `json:"mediaType"` // "image" or "video"
	URL       string `json:"url"`
}

// TvContent is a playable video set for the in-store TV display.
type TvContent struct {
	ID        string   `json:"id"`
	Brand     string   `json:"brand"`
	Model     string   `json:"model"`
	VideoURLs []string `json:"videoUrls"`
	IsDeleted bool     `json:"isDeleted,omitempty"`
}

// Category partitions a brand's products.
type Category struct {
	ID        string `json:"id"`
	BrandID   string `json:"brandId"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"isDeleted,omitempty"`
}

// AdminPermissions gates the admin console surfaces a user may reach.
type AdminPermissions struct {
	CanManageContent  bool `json:"canManageContent"`
	CanManageSettings bool `json:"canManageSettings"`
	CanManageUsers    bool `json:"canManageUsers"`
	CanViewAnalytics  bool `json:"canViewAnalytics"`
}

// AdminUser authenticates with a plain equality-checked PIN. At most one
// user is the main admin by convention; this is not structurally enforced.
type AdminUser struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	PIN         string           `json:"pin"`
	IsMainAdmin bool             `json:"isMainAdmin"`
	Permissions AdminPermissions `json:"permissions"`
}

// ViewCounts tracks per-brand and per-product view tallies. Counts are only
// ever incremented; a full restore replaces them wholesale.
type ViewCounts struct {
	Brands   map[string]int `json:"brands"`
	Products map[string]int `json:"products"`
}

// NewViewCounts returns an empty two-mapping structure.
func NewViewCounts() ViewCounts {
	return ViewCounts{Brands: map[string]int{}, Products: map[string]int{}}
}

// StorageProvider selects which sync backend is active. Exactly one is
// active at a time; switching providers passes through ProviderNone.
type StorageProvider string

const (
	ProviderNone      StorageProvider = "none"
	ProviderLocal     StorageProvider = "local"
	ProviderCustomAPI StorageProvider = "customApi"
)

// Snapshot is the canonical backup document: the entirety of persisted
// application state, transferred whole by every sync operation.
type Snapshot struct {
	Brands         []Brand         `json:"brands"`
	Products       []Product       `json:"products"`
	Catalogues     []Catalogue     `json:"catalogues"`
	Pamphlets      []Pamphlet      `json:"pamphlets"`
	Settings       Settings        `json:"settings"`
	ScreensaverAds []ScreensaverAd `json:"screensaverAds"`
	AdminUsers     []AdminUser     `json:"adminUsers"`
	TvContent      []TvContent     `json:"tvContent"`
	Categories     []Category      `json:"categories"`
	ViewCounts     ViewCounts      `json:"viewCounts"`
}
