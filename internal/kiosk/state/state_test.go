package state

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/kiosk/models"
	"github.com/avolkov/kioskd/internal/kiosk/store"
	"github.com/avolkov/kioskd/internal/logging"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (k *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (k *memKV) Set(ctx context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = value
	return nil
}

func (k *memKV) Delete(ctx context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, key)
	return nil
}

func (k *memKV) List(ctx context.Context) (map[string][]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make(map[string][]byte, len(k.data))
	for key, v := range k.data {
		out[key] = v
	}
	return out, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func confirmAlways(context.Context, string) bool { return true }

// testManager builds a hydrated manager whose picker always grants dir.
// An empty dir makes the picker behave as a dismissed prompt.
func testManager(t *testing.T, kv store.KV, dir string) *Manager {
	t.Helper()
	picker := func(ctx context.Context) (string, error) {
		if dir == "" {
			return "", common.ErrCancelled
		}
		return dir, nil
	}
	m := New(kv, picker, confirmAlways, func(context.Context, string) {}, t.TempDir(), nil, testLogger())
	m.Hydrate(context.Background())
	return m
}

func TestHydrate_MergesPersistedSettingsOverDefaults(t *testing.T) {
	kv := newMemKV()
	kv.data[store.KeySettings] = []byte(`{"storeName":"My Shop","customApiKey":"k-123"}`)

	m := testManager(t, kv, "")

	s := m.Settings()
	require.Equal(t, "My Shop", s.StoreName)
	require.Equal(t, "k-123", s.CustomAPIKey)
	require.Equal(t, 120, s.ScreensaverDelay, "fields absent from the persisted shape keep their defaults")
	require.Equal(t, "#4f46e5", s.LightTheme.Primary)
}

func TestHydrate_CorruptedSliceFallsBackToDefault(t *testing.T) {
	kv := newMemKV()
	kv.data[store.KeyBrands] = []byte(`"oops"`)

	m := testManager(t, kv, "")
	require.NotEmpty(t, m.Brands())
}

func TestHydrate_RestoresRemoteProviderButNeverLocal(t *testing.T) {
	kv := newMemKV()
	kv.data[store.KeyStorageProvider] = []byte(`"customApi"`)
	require.Equal(t, models.ProviderCustomAPI, testManager(t, kv, "").Provider())

	kv = newMemKV()
	kv.data[store.KeyStorageProvider] = []byte(`"local"`)
	require.Equal(t, models.ProviderNone, testManager(t, kv, "").Provider(),
		"directory handles do not survive a session, the folder must be re-granted")
}

func TestPersistence_DisabledUntilHydrated(t *testing.T) {
	kv := newMemKV()
	m := New(kv, nil, confirmAlways, func(context.Context, string) {}, t.TempDir(), nil, testLogger())

	m.AddBrand(context.Background(), models.Brand{ID: "b1", Name: "Early"})
	require.Empty(t, kv.data, "nothing is written back before the restoring read completes")

	m.Hydrate(context.Background())
	m.AddBrand(context.Background(), models.Brand{ID: "b2", Name: "Late"})
	require.Contains(t, kv.data, store.KeyBrands)
}

func TestAddBrand_AdvancesTimestampAndPersists(t *testing.T) {
	kv := newMemKV()
	m := testManager(t, kv, "")
	before := m.LastUpdated()

	m.AddBrand(context.Background(), models.Brand{ID: "b-new", Name: "New"})

	require.Greater(t, m.LastUpdated(), before)
	require.Contains(t, kv.data, store.KeyBrands)
	require.Contains(t, kv.data, store.KeySettings)

	var persisted []models.Brand
	require.NoError(t, json.Unmarshal(kv.data[store.KeyBrands], &persisted))
	require.Equal(t, "b-new", persisted[len(persisted)-1].ID)
}

func TestUpdate_UnknownIDIsNotFound(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	err := m.UpdateProduct(context.Background(), models.Product{ID: "ghost"})
	require.True(t, errors.Is(err, common.ErrNotFound))
}

func TestBrandDeleteRestore_CascadeSemantics(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	ctx := context.Background()

	m.AddBrand(ctx, models.Brand{ID: "b1", Name: "Casc"})
	m.AddProduct(ctx, models.Product{ID: "p1", BrandID: "b1"})
	m.AddProduct(ctx, models.Product{ID: "p2", BrandID: "b1", IsDeleted: true})
	m.AddProduct(ctx, models.Product{ID: "p3", BrandID: "other"})

	// Trashing the brand leaves its products exactly as they were.
	require.NoError(t, m.DeleteBrand(ctx, "b1"))
	products := m.Products()
	require.False(t, findProduct(t, products, "p1").IsDeleted)
	require.True(t, findProduct(t, products, "p2").IsDeleted)

	// Restoring cascades: every product of the brand comes back, including
	// ones that were trashed independently.
	require.NoError(t, m.RestoreBrand(ctx, "b1"))
	products = m.Products()
	require.False(t, findProduct(t, products, "p1").IsDeleted)
	require.False(t, findProduct(t, products, "p2").IsDeleted)
	require.False(t, findBrand(t, m.Brands(), "b1").IsDeleted)
}

func TestPurgeBrand_CascadesToAllReferencingChildren(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	ctx := context.Background()

	m.AddBrand(ctx, models.Brand{ID: "b1"})
	m.AddBrand(ctx, models.Brand{ID: "b2"})
	m.AddProduct(ctx, models.Product{ID: "p1", BrandID: "b1"})
	m.AddProduct(ctx, models.Product{ID: "p2", BrandID: "b2"})
	m.AddCatalogue(ctx, models.Catalogue{ID: "c1", BrandID: "b1"})
	m.AddCategory(ctx, models.Category{ID: "g1", BrandID: "b1"})

	require.NoError(t, m.PurgeBrand(ctx, "b1"))

	for _, p := range m.Products() {
		require.NotEqual(t, "b1", p.BrandID)
	}
	for _, c := range m.Catalogues() {
		require.NotEqual(t, "b1", c.BrandID)
	}
	for _, c := range m.Categories() {
		require.NotEqual(t, "b1", c.BrandID)
	}

	// Entities of other brands are untouched.
	require.NotNil(t, findProduct(t, m.Products(), "p2"))
	require.NotNil(t, findBrand(t, m.Brands(), "b2"))
}

func TestProviderGate_FailsFastWhenDisconnected(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	ctx := context.Background()

	require.True(t, errors.Is(m.SaveToDirectory(ctx), common.ErrNotConnected))
	require.True(t, errors.Is(m.LoadFromDirectory(ctx, true), common.ErrNotConnected))
	require.True(t, errors.Is(m.PushRemote(ctx), common.ErrNotConnected))
	require.True(t, errors.Is(m.PullRemote(ctx), common.ErrNotConnected))
}

func TestConnectRemote_RequiresEndpoint(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	ctx := context.Background()

	require.True(t, errors.Is(m.ConnectRemote(ctx), common.ErrNoEndpoint))

	require.NoError(t, m.UpdateSettings(ctx, map[string]any{"customApiUrl": "https://sync.example.com"}))
	require.NoError(t, m.ConnectRemote(ctx))
	require.Equal(t, models.ProviderCustomAPI, m.Provider())

	// Switching providers has to pass through a disconnect.
	require.Error(t, m.ConnectLocal(ctx))

	m.Disconnect(ctx)
	require.Equal(t, models.ProviderNone, m.Provider())
}

func TestConnectLocal_CancelledPickerChangesNothing(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	err := m.ConnectLocal(context.Background())
	require.True(t, errors.Is(err, common.ErrCancelled))
	require.Equal(t, models.ProviderNone, m.Provider())
}

func TestConnectLocal_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	m := testManager(t, newMemKV(), dir)
	ctx := context.Background()

	require.NoError(t, m.ConnectLocal(ctx))
	require.Equal(t, models.ProviderLocal, m.Provider())
	require.Equal(t, filepath.Base(dir), m.ConnectedFolder())

	require.NoError(t, m.SaveToDirectory(ctx))
	_, err := os.Stat(filepath.Join(dir, common.SnapshotFileName))
	require.NoError(t, err)

	m.Disconnect(ctx)
	require.Equal(t, models.ProviderNone, m.Provider())
	require.Empty(t, m.ConnectedFolder())
}

func TestLoginLogout(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	ctx := context.Background()

	_, err := m.Login(ctx, "admin-main", "0000")
	require.True(t, errors.Is(err, common.ErrUnauthorized))

	_, err = m.Login(ctx, "ghost", "1723")
	require.True(t, errors.Is(err, common.ErrNotFound))

	u, err := m.Login(ctx, "admin-main", "1723")
	require.NoError(t, err)
	require.True(t, u.IsMainAdmin)
	require.Equal(t, "admin-main", m.CurrentUser().ID)

	m.Logout()
	require.Nil(t, m.CurrentUser())
}

func TestDeleteAdminUser_SelfGuard(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	ctx := context.Background()

	m.AddAdminUser(ctx, models.AdminUser{ID: "admin-second", Name: "Second", PIN: "9999"})
	_, err := m.Login(ctx, "admin-main", "1723")
	require.NoError(t, err)

	err = m.DeleteAdminUser(ctx, "admin-main")
	require.True(t, errors.Is(err, common.ErrPermissionDenied))

	require.NoError(t, m.DeleteAdminUser(ctx, "admin-second"))
}

func TestUpdateAdminUser_RefreshesSessionCopy(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	ctx := context.Background()

	u, err := m.Login(ctx, "admin-main", "1723")
	require.NoError(t, err)

	u.Name = "Renamed Admin"
	require.NoError(t, m.UpdateAdminUser(ctx, *u))
	require.Equal(t, "Renamed Admin", m.CurrentUser().Name)
}

func TestUpdateSettings_DeepMerge(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	ctx := context.Background()
	before := m.LastUpdated()

	require.NoError(t, m.UpdateSettings(ctx, map[string]any{
		"lightTheme": map[string]any{"primary": "#000000"},
	}))

	s := m.Settings()
	require.Equal(t, "#000000", s.LightTheme.Primary)
	require.Equal(t, "#f3f4f6", s.LightTheme.AppBg, "untouched nested fields survive the merge")
	require.Greater(t, m.LastUpdated(), before)
}

func TestTrackViews_DoNotAdvanceTimestamp(t *testing.T) {
	kv := newMemKV()
	m := testManager(t, kv, "")
	ctx := context.Background()
	before := m.LastUpdated()

	m.TrackBrandView(ctx, "brand-aurora")
	m.TrackBrandView(ctx, "brand-aurora")
	m.TrackProductView(ctx, "prod-aurora-one")

	vc := m.ViewCounts()
	require.Equal(t, 2, vc.Brands["brand-aurora"])
	require.Equal(t, 1, vc.Products["prod-aurora-one"])
	require.Equal(t, before, m.LastUpdated())
	require.Contains(t, kv.data, store.KeyViewCounts)
}

func TestSaveAsset_InlinesWithoutProvider(t *testing.T) {
	m := testManager(t, newMemKV(), "")

	ref, err := m.SaveAsset(context.Background(), "logo.png", []byte("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "data:image/png;base64,"))
}

func TestSaveAsset_StoresInGrantedFolder(t *testing.T) {
	dir := t.TempDir()
	m := testManager(t, newMemKV(), dir)
	ctx := context.Background()
	require.NoError(t, m.ConnectLocal(ctx))

	ref, err := m.SaveAsset(ctx, "my logo.png", []byte("png-bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(ref, "-my_logo.png"), "whitespace is sanitized and a timestamp prefixed")

	data, err := os.ReadFile(filepath.Join(dir, ref))
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), data)
}

func TestImportBackup_RejectsIncompleteDocuments(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	err := m.ImportBackup(context.Background(), []byte(`{"settings":{}}`))
	require.True(t, errors.Is(err, common.ErrBadSnapshot))
}

func TestExportImport_RoundTrip(t *testing.T) {
	m := testManager(t, newMemKV(), "")
	ctx := context.Background()
	m.now = func() time.Time { return time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC) }

	m.AddBrand(ctx, models.Brand{ID: "b-x", Name: "Exported"})
	data, name, err := m.ExportBackup()
	require.NoError(t, err)
	require.Equal(t, "kiosk-backup-2026-02-03.json", name)

	other := testManager(t, newMemKV(), "")
	require.NoError(t, other.ImportBackup(ctx, data))
	require.NotNil(t, findBrand(t, other.Brands(), "b-x"))
}

func TestThemeAndVolumePreferences(t *testing.T) {
	kv := newMemKV()
	m := testManager(t, kv, "")
	ctx := context.Background()

	m.SetTheme(ctx, "dark")
	m.SetLocalVolume(ctx, 0.4)

	require.Equal(t, "dark", m.Theme())
	require.Equal(t, 0.4, m.LocalVolume())
	require.Contains(t, kv.data, store.KeyTheme)
	require.Contains(t, kv.data, store.KeyLocalVolume)

	// Preferences survive a fresh session.
	fresh := New(kv, nil, confirmAlways, func(context.Context, string) {}, t.TempDir(), nil, testLogger())
	fresh.Hydrate(ctx)
	require.Equal(t, "dark", fresh.Theme())
	require.Equal(t, 0.4, fresh.LocalVolume())
}

func findBrand(t *testing.T, list []models.Brand, id string) *models.Brand {
	t.Helper()
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	t.Fatalf("brand %s not found", id)
	return nil
}

func findProduct(t *testing.T, list []models.Product, id string) *models.Product {
	t.Helper()
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	t.Fatalf("product %s not found", id)
	return nil
}
