package state

import (
	"context"
	"fmt"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/kiosk/mergex"
	"github.com/avolkov/kioskd/internal/kiosk/models"
	"github.com/avolkov/kioskd/internal/kiosk/store"
)

// Entity CRUD. Every mutation advances the conflict timestamp and writes
// the touched slices plus settings back to the durable store.
//
// Soft delete marks an entity trashed without cascading; restore and purge
// do cascade where children reference the entity by brand id. Screensaver
// ads and admin users have no trash lifecycle and are removed outright.

func add[T any](m *Manager, ctx context.Context, list *[]T, item T, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*list = append(*list, item)
	m.touch()
	m.persist(ctx, key, store.KeySettings)
}

func replace[T any](m *Manager, ctx context.Context, list *[]T, item T, id string, ident func(T) string, label, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range *list {
		if ident((*list)[i]) == id {
			(*list)[i] = item
			m.touch()
			m.persist(ctx, key, store.KeySettings)
			return nil
		}
	}
	return fmt.Errorf("%s %s: %w", label, id, common.ErrNotFound)
}

func markDeleted[T any](m *Manager, ctx context.Context, list *[]T, id string, deleted bool, ident func(T) string, mark func(*T, bool), label, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !markDeletedLocked(*list, id, deleted, ident, mark) {
		return fmt.Errorf("%s %s: %w", label, id, common.ErrNotFound)
	}
	m.touch()
	m.persist(ctx, key, store.KeySettings)
	return nil
}

func markDeletedLocked[T any](list []T, id string, deleted bool, ident func(T) string, mark func(*T, bool)) bool {
	for i := range list {
		if ident(list[i]) == id {
			mark(&list[i], deleted)
			return true
		}
	}
	return false
}

func purge[T any](m *Manager, ctx context.Context, list *[]T, id string, ident func(T) string, label, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !removeByID(list, func(item T) bool { return ident(item) == id }) {
		return fmt.Errorf("%s %s: %w", label, id, common.ErrNotFound)
	}
	m.touch()
	m.persist(ctx, key, store.KeySettings)
	return nil
}

// removeByID filters list in place and reports whether anything was removed.
func removeByID[T any](list *[]T, match func(T) bool) bool {
	kept := (*list)[:0]
	removed := false
	for _, item := range *list {
		if match(item) {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	*list = kept
	return removed
}

func listCopy[T any](m *Manager, list *[]T) []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSlice(*list)
}

// Brands

func brandID(b models.Brand) string           { return b.ID }
func brandMark(b *models.Brand, deleted bool) { b.IsDeleted = deleted }

func (m *Manager) Brands() []models.Brand { return listCopy(m, &m.snap.Brands) }

func (m *Manager) AddBrand(ctx context.Context, b models.Brand) {
	add(m, ctx, &m.snap.Brands, b, store.KeyBrands)
}

func (m *Manager) UpdateBrand(ctx context.Context, b models.Brand) error {
	return replace(m, ctx, &m.snap.Brands, b, b.ID, brandID, "brand", store.KeyBrands)
}

// DeleteBrand trashes a brand. Its products are left as they are; trashed
// parents simply hide their children from the display layer.
func (m *Manager) DeleteBrand(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.Brands, id, true, brandID, brandMark, "brand", store.KeyBrands)
}

// RestoreBrand untrashes a brand and every product referencing it, including
// products that were never trashed themselves.
func (m *Manager) RestoreBrand(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !markDeletedLocked(m.snap.Brands, id, false, brandID, brandMark) {
		return fmt.Errorf("brand %s: %w", id, common.ErrNotFound)
	}
	for i := range m.snap.Products {
		if m.snap.Products[i].BrandID == id {
			m.snap.Products[i].IsDeleted = false
		}
	}
	m.touch()
	m.persist(ctx, store.KeyBrands, store.KeyProducts, store.KeySettings)
	return nil
}

// PurgeBrand permanently removes a brand together with every product,
// catalogue, and category referencing it.
func (m *Manager) PurgeBrand(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !removeByID(&m.snap.Brands, func(b models.Brand) bool { return b.ID == id }) {
		return fmt.Errorf("brand %s: %w", id, common.ErrNotFound)
	}
	removeByID(&m.snap.Products, func(p models.Product) bool { return p.BrandID == id })
	removeByID(&m.snap.Catalogues, func(c models.Catalogue) bool { return c.BrandID == id })
	removeByID(&m.snap.Categories, func(c models.Category) bool { return c.BrandID == id })
	m.touch()
	m.persist(ctx, store.KeyBrands, store.KeyProducts, store.KeyCatalogues, store.KeyCategories, store.KeySettings)
	return nil
}

// Products

func productID(p models.Product) string           { return p.ID }
func productMark(p *models.Product, deleted bool) { p.IsDeleted = deleted }

func (m *Manager) Products() []models.Product { return listCopy(m, &m.snap.Products) }

func (m *Manager) AddProduct(ctx context.Context, p models.Product) {
	add(m, ctx, &m.snap.Products, p, store.KeyProducts)
}

func (m *Manager) UpdateProduct(ctx context.Context, p models.Product) error {
	return replace(m, ctx, &m.snap.Products, p, p.ID, productID, "product", store.KeyProducts)
}

func (m *Manager) DeleteProduct(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.Products, id, true, productID, productMark, "product", store.KeyProducts)
}

func (m *Manager) RestoreProduct(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.Products, id, false, productID, productMark, "product", store.KeyProducts)
}

func (m *Manager) PurgeProduct(ctx context.Context, id string) error {
	return purge(m, ctx, &m.snap.Products, id, productID, "product", store.KeyProducts)
}

// Catalogues

func catalogueID(c models.Catalogue) string           { return c.ID }
func catalogueMark(c *models.Catalogue, deleted bool) { c.IsDeleted = deleted }

func (m *Manager) Catalogues() []models.Catalogue { return listCopy(m, &m.snap.Catalogues) }

func (m *Manager) AddCatalogue(ctx context.Context, c models.Catalogue) {
	add(m, ctx, &m.snap.Catalogues, c, store.KeyCatalogues)
}

func (m *Manager) UpdateCatalogue(ctx context.Context, c models.Catalogue) error {
	return replace(m, ctx, &m.snap.Catalogues, c, c.ID, catalogueID, "catalogue", store.KeyCatalogues)
}

func (m *Manager) DeleteCatalogue(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.Catalogues, id, true, catalogueID, catalogueMark, "catalogue", store.KeyCatalogues)
}

func (m *Manager) RestoreCatalogue(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.Catalogues, id, false, catalogueID, catalogueMark, "catalogue", store.KeyCatalogues)
}

func (m *Manager) PurgeCatalogue(ctx context.Context, id string) error {
	return purge(m, ctx, &m.snap.Catalogues, id, catalogueID, "catalogue", store.KeyCatalogues)
}

// Pamphlets

func pamphletID(p models.Pamphlet) string           { return p.ID }
func pamphletMark(p *models.Pamphlet, deleted bool) { p.IsDeleted = deleted }

func (m *Manager) Pamphlets() []models.Pamphlet { return listCopy(m, &m.snap.Pamphlets) }

func (m *Manager) AddPamphlet(ctx context.Context, p models.Pamphlet) {
	add(m, ctx, &m.snap.Pamphlets, p, store.KeyPamphlets)
}

func (m *Manager) UpdatePamphlet(ctx context.Context, p models.Pamphlet) error {
	return replace(m, ctx, &m.snap.Pamphlets, p, p.ID, pamphletID, "pamphlet", store.KeyPamphlets)
}

func (m *Manager) DeletePamphlet(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.Pamphlets, id, true, pamphletID, pamphletMark, "pamphlet", store.KeyPamphlets)
}

func (m *Manager) RestorePamphlet(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.Pamphlets, id, false, pamphletID, pamphletMark, "pamphlet", store.KeyPamphlets)
}

func (m *Manager) PurgePamphlet(ctx context.Context, id string) error {
	return purge(m, ctx, &m.snap.Pamphlets, id, pamphletID, "pamphlet", store.KeyPamphlets)
}

// TV content

func tvContentID(t models.TvContent) string           { return t.ID }
func tvContentMark(t *models.TvContent, deleted bool) { t.IsDeleted = deleted }

func (m *Manager) TvContent() []models.TvContent { return listCopy(m, &m.snap.TvContent) }

func (m *Manager) AddTvContent(ctx context.Context, t models.TvContent) {
	add(m, ctx, &m.snap.TvContent, t, store.KeyTvContent)
}

func (m *Manager) UpdateTvContent(ctx context.Context, t models.TvContent) error {
	return replace(m, ctx, &m.snap.TvContent, t, t.ID, tvContentID, "tv content", store.KeyTvContent)
}

func (m *Manager) DeleteTvContent(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.TvContent, id, true, tvContentID, tvContentMark, "tv content", store.KeyTvContent)
}

func (m *Manager) RestoreTvContent(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.TvContent, id, false, tvContentID, tvContentMark, "tv content", store.KeyTvContent)
}

func (m *Manager) PurgeTvContent(ctx context.Context, id string) error {
	return purge(m, ctx, &m.snap.TvContent, id, tvContentID, "tv content", store.KeyTvContent)
}

// Categories

func categoryID(c models.Category) string           { return c.ID }
func categoryMark(c *models.Category, deleted bool) { c.IsDeleted = deleted }

func (m *Manager) Categories() []models.Category { return listCopy(m, &m.snap.Categories) }

func (m *Manager) AddCategory(ctx context.Context, c models.Category) {
	add(m, ctx, &m.snap.Categories, c, store.KeyCategories)
}

func (m *Manager) UpdateCategory(ctx context.Context, c models.Category) error {
	return replace(m, ctx, &m.snap.Categories, c, c.ID, categoryID, "category", store.KeyCategories)
}

func (m *Manager) DeleteCategory(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.Categories, id, true, categoryID, categoryMark, "category", store.KeyCategories)
}

func (m *Manager) RestoreCategory(ctx context.Context, id string) error {
	return markDeleted(m, ctx, &m.snap.Categories, id, false, categoryID, categoryMark, "category", store.KeyCategories)
}

func (m *Manager) PurgeCategory(ctx context.Context, id string) error {
	return purge(m, ctx, &m.snap.Categories, id, categoryID, "category", store.KeyCategories)
}

// Screensaver ads

func adID(a models.ScreensaverAd) string { return a.ID }

func (m *Manager) ScreensaverAds() []models.ScreensaverAd { return listCopy(m, &m.snap.ScreensaverAds) }

func (m *Manager) AddScreensaverAd(ctx context.Context, a models.ScreensaverAd) {
	add(m, ctx, &m.snap.ScreensaverAds, a, store.KeyScreensaverAds)
}

func (m *Manager) UpdateScreensaverAd(ctx context.Context, a models.ScreensaverAd) error {
	return replace(m, ctx, &m.snap.ScreensaverAds, a, a.ID, adID, "screensaver ad", store.KeyScreensaverAds)
}

func (m *Manager) DeleteScreensaverAd(ctx context.Context, id string) error {
	return purge(m, ctx, &m.snap.ScreensaverAds, id, adID, "screensaver ad", store.KeyScreensaverAds)
}

// Admin users

func adminID(u models.AdminUser) string { return u.ID }

func (m *Manager) AdminUsers() []models.AdminUser { return listCopy(m, &m.snap.AdminUsers) }

func (m *Manager) AddAdminUser(ctx context.Context, u models.AdminUser) {
	add(m, ctx, &m.snap.AdminUsers, u, store.KeyAdminUsers)
}

// UpdateAdminUser replaces a user record. When the logged-in user edits
// themselves the session copy is refreshed in step.
func (m *Manager) UpdateAdminUser(ctx context.Context, u models.AdminUser) error {
	if err := replace(m, ctx, &m.snap.AdminUsers, u, u.ID, adminID, "admin user", store.KeyAdminUsers); err != nil {
		return err
	}
	m.mu.Lock()
	if m.session != nil && m.session.ID == u.ID {
		fresh := u
		m.session = &fresh
	}
	m.mu.Unlock()
	return nil
}

// DeleteAdminUser removes a user outright. The authenticated user cannot
// delete their own account.
func (m *Manager) DeleteAdminUser(ctx context.Context, id string) error {
	m.mu.Lock()
	if m.session != nil && m.session.ID == id {
		m.mu.Unlock()
		return fmt.Errorf("%w: you cannot delete your own account", common.ErrPermissionDenied)
	}
	m.mu.Unlock()
	return purge(m, ctx, &m.snap.AdminUsers, id, adminID, "admin user", store.KeyAdminUsers)
}

// Login authenticates an admin user by PIN equality and records a
// session-scoped copy. The session is never persisted.
func (m *Manager) Login(ctx context.Context, userID, pin string) (*models.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.snap.AdminUsers {
		if u.ID != userID {
			continue
		}
		if u.PIN != pin {
			return nil, common.ErrUnauthorized
		}
		session := u
		m.session = &session
		m.logger.Info(ctx, "admin logged in", "user", u.Name)
		out := u
		return &out, nil
	}
	return nil, fmt.Errorf("admin user %s: %w", userID, common.ErrNotFound)
}

// Logout clears the session marker.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (m *Manager) CurrentUser() *models.AdminUser {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	out := *m.session
	return &out
}

// Settings returns a copy of the singleton settings record.
func (m *Manager) Settings() models.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Settings
}

// UpdateSettings merges a partial overlay onto the current settings
// key-by-key, so nested objects keep the fields the overlay does not carry.
func (m *Manager) UpdateSettings(ctx context.Context, overlay map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var merged models.Settings
	if err := mergex.Apply(m.snap.Settings, overlay, &merged); err != nil {
		return fmt.Errorf("merge settings: %w", err)
	}
	m.snap.Settings = merged
	m.touch()
	m.persist(ctx, store.KeySettings)
	return nil
}

// View analytics. Increments are device-local telemetry and deliberately do
// not advance the conflict timestamp.

func (m *Manager) TrackBrandView(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.ViewCounts.Brands[id]++
	m.persist(ctx, store.KeyViewCounts)
}

func (m *Manager) TrackProductView(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.ViewCounts.Products[id]++
	m.persist(ctx, store.KeyViewCounts)
}

// ViewCounts returns a copy of the tallies.
func (m *Manager) ViewCounts() models.ViewCounts {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.ViewCounts{
		Brands:   cloneMap(m.snap.ViewCounts.Brands),
		Products: cloneMap(m.snap.ViewCounts.Products),
	}
}

// Device-local display preferences, persisted under their own keys and never
// part of the snapshot.

func (m *Manager) SetTheme(ctx context.Context, theme string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	m.persist(ctx, store.KeyTheme)
}

func (m *Manager) Theme() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

func (m *Manager) SetLocalVolume(ctx context.Context, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.localVolume = volume
	m.persist(ctx, store.KeyLocalVolume)
}

func (m *Manager) LocalVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.localVolume
}
