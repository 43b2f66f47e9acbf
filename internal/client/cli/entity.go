package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/avolkov/kioskd/internal/kiosk/models"
)

const entityKinds = "brand, product, catalogue, pamphlet, ad, tv, category, user"

func (a *App) promptKind() (string, error) {
	return getSimpleText(a.reader, "Entity ("+entityKinds+")", os.Stdout)
}

func (a *App) promptText(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, os.Stdout)
}

// promptKeep prompts with the current value as the default; an empty answer
// keeps it.
func (a *App) promptKeep(prompt, current string) (string, error) {
	v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", prompt, current), os.Stdout)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (a *App) promptInt(prompt string, current int) (int, error) {
	v, err := a.promptKeep(prompt, strconv.Itoa(current))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (a *App) promptBool(prompt string, current bool) (bool, error) {
	v, err := a.promptKeep(prompt+" (y/n)", boolAnswer(current))
	if err != nil {
		return false, err
	}
	return v == "y" || v == "yes", nil
}

func boolAnswer(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func trashedMark(deleted bool) string {
	if deleted {
		return " [trashed]"
	}
	return ""
}

// List prints one entity collection, trashed entries included.
func (a *App) List(ctx context.Context) error {
	kind, err := a.promptKind()
	if err != nil {
		return err
	}

	switch kind {
	case "brand":
		for _, b := range a.state.Brands() {
			fmt.Printf("%s  %s%s\n", b.ID, b.Name, trashedMark(b.IsDeleted))
		}
	case "product":
		for _, p := range a.state.Products() {
			fmt.Printf("%s  %s (brand %s)%s\n", p.ID, p.Name, p.BrandID, trashedMark(p.IsDeleted))
		}
	case "catalogue":
		for _, c := range a.state.Catalogues() {
			fmt.Printf("%s  %s %d (brand %s)%s\n", c.ID, c.Title, c.Year, c.BrandID, trashedMark(c.IsDeleted))
		}
	case "pamphlet":
		for _, p := range a.state.Pamphlets() {
			fmt.Printf("%s  %s %s..%s%s\n", p.ID, p.Title, p.StartDate, p.EndDate, trashedMark(p.IsDeleted))
		}
	case "ad":
		for _, ad := range a.state.ScreensaverAds() {
			fmt.Printf("%s  %s (%s)\n", ad.ID, ad.Title, ad.MediaType)
		}
	case "tv":
		for _, tv := range a.state.TvContent() {
			fmt.Printf("%s  %s %s (%d videos)%s\n", tv.ID, tv.Brand, tv.Model, len(tv.VideoURLs), trashedMark(tv.IsDeleted))
		}
	case "category":
		for _, c := range a.state.Categories() {
			fmt.Printf("%s  %s (brand %s)%s\n", c.ID, c.Name, c.BrandID, trashedMark(c.IsDeleted))
		}
	case "user":
		for _, u := range a.state.AdminUsers() {
			main := ""
			if u.IsMainAdmin {
				main = " [main]"
			}
			fmt.Printf("%s  %s%s\n", u.ID, u.Name, main)
		}
	default:
		fmt.Println("Unknown entity:", kind)
	}
	return nil
}

// Add creates one entity interactively. Ids are assigned here, not by the
// facade.
func (a *App) Add(ctx context.Context) error {
	kind, err := a.promptKind()
	if err != nil {
		return err
	}

	id := uuid.NewString()

	switch kind {
	case "brand":
		b := models.Brand{ID: id}
		if b.Name, err = a.promptText("Brand name"); err != nil {
			return err
		}
		if b.LogoURL, err = a.promptText("Logo reference"); err != nil {
			return err
		}
		a.state.AddBrand(ctx, b)

	case "product":
		p := models.Product{ID: id}
		if p.BrandID, err = a.promptText("Brand id"); err != nil {
			return err
		}
		if p.CategoryID, err = a.promptText("Category id (optional)"); err != nil {
			return err
		}
		if p.Name, err = a.promptText("Product name"); err != nil {
			return err
		}
		if p.Description, err = a.promptText("Description"); err != nil {
			return err
		}
		if p.ImageURL, err = a.promptText("Image reference"); err != nil {
			return err
		}
		if p.GalleryURLs, err = GetMultiline(a.reader, "Gallery references", os.Stdout); err != nil {
			return err
		}
		a.state.AddProduct(ctx, p)

	case "catalogue":
		c := models.Catalogue{ID: id}
		if c.BrandID, err = a.promptText("Brand id"); err != nil {
			return err
		}
		if c.Title, err = a.promptText("Title"); err != nil {
			return err
		}
		if c.Year, err = a.promptInt("Year", 2026); err != nil {
			return err
		}
		docType, err := a.promptKeep("Type (pdf/image)", string(models.DocumentPDF))
		if err != nil {
			return err
		}
		c.Type = models.DocumentType(docType)
		if c.Type == models.DocumentPDF {
			if c.URL, err = a.promptText("Document reference"); err != nil {
				return err
			}
		} else if c.ImageURLs, err = GetMultiline(a.reader, "Page image references", os.Stdout); err != nil {
			return err
		}
		a.state.AddCatalogue(ctx, c)

	case "pamphlet":
		p := models.Pamphlet{ID: id}
		if p.Title, err = a.promptText("Title"); err != nil {
			return err
		}
		docType, err := a.promptKeep("Type (pdf/image)", string(models.DocumentImage))
		if err != nil {
			return err
		}
		p.Type = models.DocumentType(docType)
		if p.Type == models.DocumentPDF {
			if p.URL, err = a.promptText("Document reference"); err != nil {
				return err
			}
		} else if p.ImageURLs, err = GetMultiline(a.reader, "Page image references", os.Stdout); err != nil {
			return err
		}
		if p.StartDate, err = a.promptText("Start date (YYYY-MM-DD)"); err != nil {
			return err
		}
		if p.EndDate, err = a.promptText("End date (YYYY-MM-DD)"); err != nil {
			return err
		}
		a.state.AddPamphlet(ctx, p)

	case "ad":
		ad := models.ScreensaverAd{ID: id}
		if ad.Title, err = a.promptText("Title"); err != nil {
			return err
		}
		if ad.MediaType, err = a.promptKeep("Media type (image/video)", "image"); err != nil {
			return err
		}
		if ad.URL, err = a.promptText("Media reference"); err != nil {
			return err
		}
		a.state.AddScreensaverAd(ctx, ad)

	case "tv":
		tv := models.TvContent{ID: id}
		if tv.Brand, err = a.promptText("Brand name"); err != nil {
			return err
		}
		if tv.Model, err = a.promptText("Model"); err != nil {
			return err
		}
		if tv.VideoURLs, err = GetMultiline(a.reader, "Video references", os.Stdout); err != nil {
			return err
		}
		a.state.AddTvContent(ctx, tv)

	case "category":
		c := models.Category{ID: id}
		if c.BrandID, err = a.promptText("Brand id"); err != nil {
			return err
		}
		if c.Name, err = a.promptText("Category name"); err != nil {
			return err
		}
		a.state.AddCategory(ctx, c)

	case "user":
		u := models.AdminUser{ID: id}
		if u.Name, err = a.promptText("Name"); err != nil {
			return err
		}
		if u.PIN, err = getPIN(os.Stdout); err != nil {
			return err
		}
		if u.Permissions.CanManageContent, err = a.promptBool("Can manage content", true); err != nil {
			return err
		}
		if u.Permissions.CanManageSettings, err = a.promptBool("Can manage settings", false); err != nil {
			return err
		}
		if u.Permissions.CanManageUsers, err = a.promptBool("Can manage users", false); err != nil {
			return err
		}
		if u.Permissions.CanViewAnalytics, err = a.promptBool("Can view analytics", true); err != nil {
			return err
		}
		a.state.AddAdminUser(ctx, u)

	default:
		fmt.Println("Unknown entity:", kind)
		return nil
	}

	fmt.Println("Created", id)
	return nil
}

// Edit replaces an entity record by id, re-prompting every field with the
// current value as the default.
func (a *App) Edit(ctx context.Context) error {
	kind, err := a.promptKind()
	if err != nil {
		return err
	}
	id, err := a.promptText("Entity id")
	if err != nil {
		return err
	}

	switch kind {
	case "brand":
		b, ok := findByID(a.state.Brands(), id, func(b models.Brand) string { return b.ID })
		if !ok {
			break
		}
		if b.Name, err = a.promptKeep("Brand name", b.Name); err != nil {
			return err
		}
		if b.LogoURL, err = a.promptKeep("Logo reference", b.LogoURL); err != nil {
			return err
		}
		return report(a.state.UpdateBrand(ctx, b))

	case "product":
		p, ok := findByID(a.state.Products(), id, func(p models.Product) string { return p.ID })
		if !ok {
			break
		}
		if p.BrandID, err = a.promptKeep("Brand id", p.BrandID); err != nil {
			return err
		}
		if p.CategoryID, err = a.promptKeep("Category id", p.CategoryID); err != nil {
			return err
		}
		if p.Name, err = a.promptKeep("Product name", p.Name); err != nil {
			return err
		}
		if p.Description, err = a.promptKeep("Description", p.Description); err != nil {
			return err
		}
		if p.ImageURL, err = a.promptKeep("Image reference", p.ImageURL); err != nil {
			return err
		}
		return report(a.state.UpdateProduct(ctx, p))

	case "catalogue":
		c, ok := findByID(a.state.Catalogues(), id, func(c models.Catalogue) string { return c.ID })
		if !ok {
			break
		}
		if c.Title, err = a.promptKeep("Title", c.Title); err != nil {
			return err
		}
		if c.Year, err = a.promptInt("Year", c.Year); err != nil {
			return err
		}
		if c.URL, err = a.promptKeep("Document reference", c.URL); err != nil {
			return err
		}
		return report(a.state.UpdateCatalogue(ctx, c))

	case "pamphlet":
		p, ok := findByID(a.state.Pamphlets(), id, func(p models.Pamphlet) string { return p.ID })
		if !ok {
			break
		}
		if p.Title, err = a.promptKeep("Title", p.Title); err != nil {
			return err
		}
		if p.StartDate, err = a.promptKeep("Start date", p.StartDate); err != nil {
			return err
		}
		if p.EndDate, err = a.promptKeep("End date", p.EndDate); err != nil {
			return err
		}
		return report(a.state.UpdatePamphlet(ctx, p))

	case "ad":
		ad, ok := findByID(a.state.ScreensaverAds(), id, func(a models.ScreensaverAd) string { return a.ID })
		if !ok {
			break
		}
		if ad.Title, err = a.promptKeep("Title", ad.Title); err != nil {
			return err
		}
		if ad.MediaType, err = a.promptKeep("Media type", ad.MediaType); err != nil {
			return err
		}
		if ad.URL, err = a.promptKeep("Media reference", ad.URL); err != nil {
			return err
		}
		return report(a.state.UpdateScreensaverAd(ctx, ad))

	case "tv":
		tv, ok := findByID(a.state.TvContent(), id, func(t models.TvContent) string { return t.ID })
		if !ok {
			break
		}
		if tv.Brand, err = a.promptKeep("Brand name", tv.Brand); err != nil {
			return err
		}
		if tv.Model, err = a.promptKeep("Model", tv.Model); err != nil {
			return err
		}
		return report(a.state.UpdateTvContent(ctx, tv))

	case "category":
		c, ok := findByID(a.state.Categories(), id, func(c models.Category) string { return c.ID })
		if !ok {
			break
		}
		if c.BrandID, err = a.promptKeep("Brand id", c.BrandID); err != nil {
			return err
		}
		if c.Name, err = a.promptKeep("Category name", c.Name); err != nil {
			return err
		}
		return report(a.state.UpdateCategory(ctx, c))

	case "user":
		u, ok := findByID(a.state.AdminUsers(), id, func(u models.AdminUser) string { return u.ID })
		if !ok {
			break
		}
		if u.Name, err = a.promptKeep("Name", u.Name); err != nil {
			return err
		}
		if u.PIN, err = a.promptKeep("PIN", u.PIN); err != nil {
			return err
		}
		return report(a.state.UpdateAdminUser(ctx, u))

	default:
		fmt.Println("Unknown entity:", kind)
		return nil
	}

	fmt.Println("Not found:", id)
	return nil
}

// Trash soft-deletes an entity. Ads and users carry no trash lifecycle.
func (a *App) Trash(ctx context.Context) error {
	return a.lifecycle(ctx, "trash")
}

// Restore brings a trashed entity back. Restoring a brand also restores
// every product referencing it.
func (a *App) Restore(ctx context.Context) error {
	return a.lifecycle(ctx, "restore")
}

// Purge removes an entity permanently. Purging a brand removes its
// products, catalogues, and categories with it.
func (a *App) Purge(ctx context.Context) error {
	return a.lifecycle(ctx, "purge")
}

func (a *App) lifecycle(ctx context.Context, op string) error {
	kind, err := a.promptKind()
	if err != nil {
		return err
	}
	id, err := a.promptText("Entity id")
	if err != nil {
		return err
	}

	type ops struct{ trash, restore, purge func(context.Context, string) error }
	table := map[string]ops{
		"brand":     {a.state.DeleteBrand, a.state.RestoreBrand, a.state.PurgeBrand},
		"product":   {a.state.DeleteProduct, a.state.RestoreProduct, a.state.PurgeProduct},
		"catalogue": {a.state.DeleteCatalogue, a.state.RestoreCatalogue, a.state.PurgeCatalogue},
		"pamphlet":  {a.state.DeletePamphlet, a.state.RestorePamphlet, a.state.PurgePamphlet},
		"tv":        {a.state.DeleteTvContent, a.state.RestoreTvContent, a.state.PurgeTvContent},
		"category":  {a.state.DeleteCategory, a.state.RestoreCategory, a.state.PurgeCategory},
		"ad":        {nil, nil, a.state.DeleteScreensaverAd},
		"user":      {nil, nil, a.state.DeleteAdminUser},
	}

	entry, ok := table[kind]
	if !ok {
		fmt.Println("Unknown entity:", kind)
		return nil
	}

	var fn func(context.Context, string) error
	switch op {
	case "trash":
		fn = entry.trash
	case "restore":
		fn = entry.restore
	case "purge":
		fn = entry.purge
	}
	if fn == nil {
		fmt.Printf("%ss are removed permanently; use purge\n", kind)
		return nil
	}
	return report(fn(ctx, id))
}

func findByID[T any](list []T, id string, ident func(T) string) (T, bool) {
	for _, item := range list {
		if ident(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// report prints a handler error for the user and passes it through.
func report(err error) error {
	if err != nil {
		log.Printf("Error: %s", err.Error())
	}
	return err
}
