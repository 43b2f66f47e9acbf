package models

// FontStyle describes one typographic role.
type FontStyle struct {
	FontFamily     string `json:"fontFamily"`
	FontWeight     string `json:"fontWeight"`
	FontStyle      string `json:"fontStyle"`
	TextDecoration string `json:"textDecoration"`
}

// Typography groups the font settings applied by the display layer.
type Typography struct {
	Body       FontStyle `json:"body"`
	Headings   FontStyle `json:"headings"`
	ItemTitles FontStyle `json:"itemTitles"`
}

// ButtonTheme styles a single button kind.
type ButtonTheme struct {
	Background      string `json:"background"`
	Text            string `json:"text"`
	HoverBackground string `json:"hoverBackground"`
}

// ThemeColors is one complete colour scheme (light or dark).
type ThemeColors struct {
	AppBg             string      `json:"appBg"`
	AppBgImage        string      `json:"appBgImage"`
	MainBg            string      `json:"mainBg"`
	MainText          string      `json:"mainText"`
	MainShadow        string      `json:"mainShadow"`
	Primary           string      `json:"primary"`
	PrimaryButton     ButtonTheme `json:"primaryButton"`
	DestructiveButton ButtonTheme `json:"destructiveButton"`
}

// Settings is the singleton configuration record carried in every snapshot.
//
// LastUpdated is an epoch-millisecond timestamp advanced on every mutating
// operation; it is the sole conflict-resolution signal between devices.
// New fields may be added between releases: persisted settings are merged
// key-by-key over the compiled-in defaults at load time, so older
// installations pick the new fields up automatically.
type Settings struct {
	StoreName        string      `json:"storeName"`
	LightTheme       ThemeColors `json:"lightTheme"`
	DarkTheme        ThemeColors `json:"darkTheme"`
	Typography       Typography  `json:"typography"`
	ScreensaverDelay int         `json:"screensaverDelay"` // seconds of inactivity
	CustomAPIURL     string      `json:"customApiUrl"`
	CustomAPIKey     string      `json:"customApiKey"`
	LastUpdated      int64       `json:"lastUpdated"`
}
