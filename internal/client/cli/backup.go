package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// EditSettings walks the editable settings fields. Empty answers keep the
// current values; the facade merges the result key-by-key.
func (a *App) EditSettings(ctx context.Context) error {
	s := a.state.Settings()

	storeName, err := a.promptKeep("Store name", s.StoreName)
	if err != nil {
		return err
	}
	apiURL, err := a.promptKeep("Custom API URL", s.CustomAPIURL)
	if err != nil {
		return err
	}
	apiKey, err := a.promptKeep("Custom API key", s.CustomAPIKey)
	if err != nil {
		return err
	}
	delay, err := a.promptInt("Screensaver delay (seconds)", s.ScreensaverDelay)
	if err != nil {
		return err
	}

	return report(a.state.UpdateSettings(ctx, map[string]any{
		"storeName":        storeName,
		"customApiUrl":     apiURL,
		"customApiKey":     apiKey,
		"screensaverDelay": delay,
	}))
}

// Export writes a dated backup document into the current directory.
func (a *App) Export(ctx context.Context) error {
	data, name, err := a.state.ExportBackup()
	if err != nil {
		return report(err)
	}
	if err := os.WriteFile(name, data, 0o660); err != nil {
		return report(err)
	}
	fmt.Println("Exported", name)
	return nil
}

// Import replaces all data with a backup document from disk.
func (a *App) Import(ctx context.Context) error {
	path, err := a.promptText("Backup file path")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return report(err)
	}
	if !a.askConfirm(ctx, "Import this backup? This will overwrite all current local data.") {
		return nil
	}
	if err := a.state.ImportBackup(ctx, data); err != nil {
		return report(err)
	}
	fmt.Println("Backup imported")
	return nil
}

// Asset ingests a media file: into the connected folder, or inlined when no
// folder is connected. The printed reference goes into entity records.
func (a *App) Asset(ctx context.Context) error {
	path, err := a.promptText("Media file path")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return report(err)
	}
	ref, err := a.state.SaveAsset(ctx, filepath.Base(path), data)
	if err != nil {
		return report(err)
	}
	fmt.Println("Reference:", ref)
	return nil
}

// Resolve maps a stored asset reference to something the display layer can
// open: a pass-through URL, or a materialized file path from the connected
// folder.
func (a *App) Resolve(ctx context.Context) error {
	ref, err := a.promptText("Asset reference")
	if err != nil {
		return err
	}
	resolved := a.state.ResolveAsset(ctx, ref)
	if resolved == "" {
		fmt.Println("Could not resolve the reference")
		return nil
	}
	fmt.Println("Resolved:", resolved)
	return nil
}

// View records a brand or product view, the same counter the kiosk display
// advances when a visitor opens an item.
func (a *App) View(ctx context.Context) error {
	kind, err := a.promptText("What was viewed? (brand, product)")
	if err != nil {
		return err
	}
	id, err := a.promptText("Id")
	if err != nil {
		return err
	}
	switch kind {
	case "brand":
		a.state.TrackBrandView(ctx, id)
	case "product":
		a.state.TrackProductView(ctx, id)
	default:
		fmt.Println("Unknown kind:", kind)
	}
	return nil
}

// Stats prints the view tallies.
func (a *App) Stats(ctx context.Context) error {
	vc := a.state.ViewCounts()
	fmt.Println("Brand views:")
	for id, n := range vc.Brands {
		fmt.Printf("  %s  %d\n", id, n)
	}
	fmt.Println("Product views:")
	for id, n := range vc.Products {
		fmt.Printf("  %s  %d\n", id, n)
	}
	return nil
}

// Volume sets the kiosk playback volume (0..1).
func (a *App) Volume(ctx context.Context) error {
	v, err := a.promptKeep("Volume (0..1)", strconv.FormatFloat(a.state.LocalVolume(), 'f', -1, 64))
	if err != nil {
		return err
	}
	volume, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return report(err)
	}
	a.state.SetLocalVolume(ctx, volume)
	return nil
}

// Theme toggles between light and dark display themes.
func (a *App) Theme(ctx context.Context) error {
	theme, err := a.promptKeep("Theme (light/dark)", a.state.Theme())
	if err != nil {
		return err
	}
	a.state.SetTheme(ctx, theme)
	return nil
}
