package store

// One key per top-level state slice; each value is the JSON-serializable
// form of that slice.
const (
	KeyBrands          = "brands"
	KeyProducts        = "products"
	KeyCatalogues      = "catalogues"
	KeyPamphlets       = "pamphlets"
	KeySettings        = "settings"
	KeyScreensaverAds  = "screensaverAds"
	KeyAdminUsers      = "adminUsers"
	KeyTvContent       = "tvContent"
	KeyCategories      = "categories"
	KeyViewCounts      = "viewCounts"
	KeyLocalVolume     = "localVolume"
	KeyStorageProvider = "storageProvider"
	KeyTheme           = "theme"
)
