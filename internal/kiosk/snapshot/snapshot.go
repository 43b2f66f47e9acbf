// Package snapshot converts the full application state to and from the
// canonical backup document. Decoding is defensive: a document missing or
// corrupting individual collections is repaired field-by-field from the
// compiled-in defaults instead of being rejected wholesale.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/kiosk/defaults"
	"github.com/avolkov/kioskd/internal/kiosk/mergex"
	"github.com/avolkov/kioskd/internal/kiosk/models"
)

// Encode serializes a snapshot as pretty-printed UTF-8 JSON, the on-disk and
// over-the-wire form of the canonical document.
func Encode(s models.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// rawDoc defers per-field decoding so one corrupted collection cannot take
// the rest of the document down with it.
type rawDoc struct {
	Brands         json.RawMessage `json:"brands"`
	Products       json.RawMessage `json:"products"`
	Catalogues     json.RawMessage `json:"catalogues"`
	Pamphlets      json.RawMessage `json:"pamphlets"`
	Settings       json.RawMessage `json:"settings"`
	ScreensaverAds json.RawMessage `json:"screensaverAds"`
	AdminUsers     json.RawMessage `json:"adminUsers"`
	TvContent      json.RawMessage `json:"tvContent"`
	Categories     json.RawMessage `json:"categories"`
	ViewCounts     json.RawMessage `json:"viewCounts"`
}

// Decode parses a canonical document into a full snapshot.
//
// Every collection that is not a valid array is replaced by its compiled-in
// default. Settings may arrive wrapped in a single-element array (some
// remote backends return it that way); after unwrapping, an object value is
// merged key-by-key onto current, preserving locally configured fields the
// incoming document does not carry, and anything else falls back to the
// default Settings entirely.
func Decode(data []byte, current models.Settings) (*models.Snapshot, error) {
	var raw rawDoc
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	s := &models.Snapshot{
		Brands:         decodeList(raw.Brands, defaults.Brands()),
		Products:       decodeList(raw.Products, defaults.Products()),
		Catalogues:     decodeList(raw.Catalogues, defaults.Catalogues()),
		Pamphlets:      decodeList(raw.Pamphlets, defaults.Pamphlets()),
		ScreensaverAds: decodeList(raw.ScreensaverAds, defaults.ScreensaverAds()),
		AdminUsers:     decodeList(raw.AdminUsers, defaults.AdminUsers()),
		TvContent:      decodeList(raw.TvContent, defaults.TvContent()),
		Categories:     decodeList(raw.Categories, defaults.Categories()),
		Settings:       decodeSettings(raw.Settings, current),
		ViewCounts:     decodeViewCounts(raw.ViewCounts),
	}
	return s, nil
}

// PeekLastUpdated extracts settings.lastUpdated without decoding the whole
// document, unwrapping array-form settings the same way Decode does. The
// second return reports whether a timestamp was present.
func PeekLastUpdated(data []byte) (int64, bool) {
	var raw rawDoc
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, false
	}
	obj := unwrapSettings(raw.Settings)
	if obj == nil {
		return 0, false
	}
	var peek struct {
		LastUpdated *int64 `json:"lastUpdated"`
	}
	if err := json.Unmarshal(obj, &peek); err != nil || peek.LastUpdated == nil {
		return 0, false
	}
	return *peek.LastUpdated, true
}

// ValidateImport applies the manual-import format check: the document must
// at minimum carry brands, products, and settings top-level fields.
func ValidateImport(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", common.ErrBadSnapshot, err)
	}
	for _, field := range []string{"brands", "products", "settings"} {
		if _, ok := doc[field]; !ok {
			return fmt.Errorf("%w: missing %q", common.ErrBadSnapshot, field)
		}
	}
	return nil
}

// ExportFileName names a manually exported backup for the given day.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("kiosk-backup-%s.json", now.Format("2006-01-02"))
}

func decodeList[T any](raw json.RawMessage, fallback []T) []T {
	if len(raw) == 0 {
		return fallback
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return fallback
	}
	return list
}

// unwrapSettings returns the settings value as a raw JSON object, taking the
// first element when the value is an array. A nil return means there is no
// usable object.
func unwrapSettings(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) == 0 {
			return nil
		}
		raw = arr[0]
	}
	var probe map[string]any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}
	return raw
}

func decodeSettings(raw json.RawMessage, current models.Settings) models.Settings {
	obj := unwrapSettings(raw)
	if obj == nil {
		return defaults.Settings()
	}
	var overlay map[string]any
	if err := json.Unmarshal(obj, &overlay); err != nil {
		return defaults.Settings()
	}
	var merged models.Settings
	if err := mergex.Apply(current, overlay, &merged); err != nil {
		return defaults.Settings()
	}
	return merged
}

func decodeViewCounts(raw json.RawMessage) models.ViewCounts {
	vc := models.NewViewCounts()
	if len(raw) == 0 {
		return vc
	}
	var parsed models.ViewCounts
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return vc
	}
	if parsed.Brands != nil {
		vc.Brands = parsed.Brands
	}
	if parsed.Products != nil {
		vc.Products = parsed.Products
	}
	return vc
}
