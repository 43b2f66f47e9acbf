// Package state is the application state facade: the in-memory holder of
// the full catalogue dataset and the sole mutation surface above it. It
// composes the durable store, the directory grant, the blob cache, and both
// sync engines, and owns the storage provider state machine, admin sessions,
// and the LastUpdated conflict timestamp.
//
// All mutation is serialized through one mutex; the background sync
// goroutine calls back into the same guarded surface.
package state

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/avolkov/kioskd/internal/kiosk/blobcache"
	"github.com/avolkov/kioskd/internal/kiosk/defaults"
	"github.com/avolkov/kioskd/internal/kiosk/dirgrant"
	"github.com/avolkov/kioskd/internal/kiosk/dirsync"
	"github.com/avolkov/kioskd/internal/kiosk/mergex"
	"github.com/avolkov/kioskd/internal/kiosk/models"
	"github.com/avolkov/kioskd/internal/kiosk/remotesync"
	"github.com/avolkov/kioskd/internal/kiosk/snapshot"
	"github.com/avolkov/kioskd/internal/kiosk/store"
	"github.com/avolkov/kioskd/internal/logging"
)

// ConfirmFunc asks the user a yes/no question before an overwriting
// operation.
type ConfirmFunc func(ctx context.Context, message string) bool

// NotifyFunc delivers a user-facing notice outside the normal command flow,
// such as a forced disconnect after permission loss.
type NotifyFunc func(ctx context.Context, message string)

// Manager is the application state facade.
type Manager struct {
	kv     store.KV
	grants *dirgrant.Cache
	blobs  *blobcache.Cache
	dir    *dirsync.Engine
	remote *remotesync.Engine
	notify NotifyFunc
	logger logging.Logger
	now    func() time.Time

	mu          sync.Mutex
	snap        models.Snapshot
	provider    models.StorageProvider
	theme       string
	localVolume float64
	loaded      bool
	session     *models.AdminUser
	syncCancel  context.CancelFunc
}

// New wires a manager and its storage/sync collaborators. The picker,
// confirm, and notify capabilities come injected so the facade stays
// decoupled from any particular UI. A nil client means the remote engine
// uses http.DefaultClient.
func New(kv store.KV, picker dirgrant.PickerFunc, confirm ConfirmFunc, notify NotifyFunc, cacheDir string, client *http.Client, logger logging.Logger) *Manager {
	m := &Manager{
		kv:          kv,
		notify:      notify,
		logger:      logger,
		now:         time.Now,
		snap:        defaults.Snapshot(),
		provider:    models.ProviderNone,
		theme:       "light",
		localVolume: 1,
	}
	m.grants = dirgrant.New(picker, logger)
	m.blobs = blobcache.New(m.grants, cacheDir, m.forceDisconnect, logger)
	m.dir = dirsync.New(m.grants, m, dirsync.ConfirmFunc(confirm), m.forceDisconnect, logger)
	m.remote = remotesync.New(client, m, remotesync.ConfirmFunc(confirm), logger)
	return m
}

// Hydrate performs the restoring read: every persisted slice replaces its
// compiled-in default, except Settings, which are merged key-by-key over the
// defaults so fields introduced after the persisted shape still appear.
//
// Write-back stays disabled until this completes, so a slow or failed load
// can never be overwritten with defaults. Store failures are logged and the
// process continues on defaults.
func (m *Manager) Hydrate(ctx context.Context) {
	values, err := m.kv.List(ctx)
	if err != nil {
		m.logger.Error(ctx, "restoring read failed, continuing on defaults", "error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	hydrate(m, ctx, values, store.KeyBrands, &m.snap.Brands)
	hydrate(m, ctx, values, store.KeyProducts, &m.snap.Products)
	hydrate(m, ctx, values, store.KeyCatalogues, &m.snap.Catalogues)
	hydrate(m, ctx, values, store.KeyPamphlets, &m.snap.Pamphlets)
	hydrate(m, ctx, values, store.KeyScreensaverAds, &m.snap.ScreensaverAds)
	hydrate(m, ctx, values, store.KeyAdminUsers, &m.snap.AdminUsers)
	hydrate(m, ctx, values, store.KeyTvContent, &m.snap.TvContent)
	hydrate(m, ctx, values, store.KeyCategories, &m.snap.Categories)
	hydrate(m, ctx, values, store.KeyViewCounts, &m.snap.ViewCounts)
	hydrate(m, ctx, values, store.KeyLocalVolume, &m.localVolume)
	hydrate(m, ctx, values, store.KeyTheme, &m.theme)
	m.hydrateSettings(ctx, values[store.KeySettings])
	m.hydrateProvider(ctx, values[store.KeyStorageProvider])

	if m.snap.ViewCounts.Brands == nil {
		m.snap.ViewCounts.Brands = map[string]int{}
	}
	if m.snap.ViewCounts.Products == nil {
		m.snap.ViewCounts.Products = map[string]int{}
	}

	m.loaded = true
	m.logger.Info(ctx, "state hydrated", "keys", len(values))
}

func hydrate[T any](m *Manager, ctx context.Context, values map[string][]byte, key string, dst *T) {
	raw, ok := values[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		m.logger.Warn(ctx, "ignoring corrupted state slice", "key", key, "error", err)
		return
	}
	*dst = v
}

func (m *Manager) hydrateSettings(ctx context.Context, raw []byte) {
	if raw == nil {
		return
	}
	var overlay map[string]any
	if err := json.Unmarshal(raw, &overlay); err != nil {
		m.logger.Warn(ctx, "ignoring corrupted settings", "error", err)
		return
	}
	var merged models.Settings
	if err := mergex.Apply(defaults.Settings(), overlay, &merged); err != nil {
		m.logger.Warn(ctx, "settings merge failed, keeping defaults", "error", err)
		return
	}
	m.snap.Settings = merged
}

func (m *Manager) hydrateProvider(ctx context.Context, raw []byte) {
	if raw == nil {
		return
	}
	var p models.StorageProvider
	if err := json.Unmarshal(raw, &p); err != nil {
		m.logger.Warn(ctx, "ignoring corrupted provider tag", "error", err)
		return
	}
	switch p {
	case models.ProviderCustomAPI:
		m.provider = p
	case models.ProviderLocal:
		// Directory handles never survive a session; only the fact that the
		// local provider was selected is persisted. The folder must be
		// reconnected manually.
		m.logger.Info(ctx, "storage folder was connected last session, reconnect to resume sync")
	}
}

// persist writes the named slices back to the durable store. Callers hold
// m.mu. Writes are dropped until Hydrate has completed, and store failures
// are logged rather than propagated so in-memory state stays authoritative.
func (m *Manager) persist(ctx context.Context, keys ...string) {
	if !m.loaded {
		return
	}
	for _, key := range keys {
		v, ok := m.valueFor(key)
		if !ok {
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			m.logger.Error(ctx, "serialize state slice", "key", key, "error", err)
			continue
		}
		if err := m.kv.Set(ctx, key, data); err != nil {
			m.logger.Error(ctx, "persist state slice", "key", key, "error", err)
		}
	}
}

func (m *Manager) valueFor(key string) (any, bool) {
	switch key {
	case store.KeyBrands:
		return m.snap.Brands, true
	case store.KeyProducts:
		return m.snap.Products, true
	case store.KeyCatalogues:
		return m.snap.Catalogues, true
	case store.KeyPamphlets:
		return m.snap.Pamphlets, true
	case store.KeySettings:
		return m.snap.Settings, true
	case store.KeyScreensaverAds:
		return m.snap.ScreensaverAds, true
	case store.KeyAdminUsers:
		return m.snap.AdminUsers, true
	case store.KeyTvContent:
		return m.snap.TvContent, true
	case store.KeyCategories:
		return m.snap.Categories, true
	case store.KeyViewCounts:
		return m.snap.ViewCounts, true
	case store.KeyLocalVolume:
		return m.localVolume, true
	case store.KeyStorageProvider:
		return m.provider, true
	case store.KeyTheme:
		return m.theme, true
	}
	return nil, false
}

// snapshotKeys are the slices carried in the canonical document, persisted
// together on every full restore.
var snapshotKeys = []string{
	store.KeyBrands,
	store.KeyProducts,
	store.KeyCatalogues,
	store.KeyPamphlets,
	store.KeySettings,
	store.KeyScreensaverAds,
	store.KeyAdminUsers,
	store.KeyTvContent,
	store.KeyCategories,
	store.KeyViewCounts,
}

// touch advances the conflict timestamp. The clock is epoch milliseconds;
// the max guard keeps the value strictly monotonic even across same-tick
// mutations.
func (m *Manager) touch() {
	ts := m.now().UnixMilli()
	if ts <= m.snap.Settings.LastUpdated {
		ts = m.snap.Settings.LastUpdated + 1
	}
	m.snap.Settings.LastUpdated = ts
}

// Snapshot returns a copy of the full state, the serializable unit of every
// sync and backup operation.
func (m *Manager) Snapshot() models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSnapshot(m.snap)
}

// LastUpdated returns the local conflict timestamp.
func (m *Manager) LastUpdated() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Settings.LastUpdated
}

// Endpoint returns the configured remote sync endpoint and API key.
func (m *Manager) Endpoint() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Settings.CustomAPIURL, m.snap.Settings.CustomAPIKey
}

// RestoreBackup replaces the full state with a canonical document. Incoming
// settings are merged onto the current ones, so locally configured fields
// the document does not carry survive the restore.
func (m *Manager) RestoreBackup(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	decoded, err := snapshot.Decode(data, m.snap.Settings)
	if err != nil {
		return err
	}
	m.snap = *decoded
	m.persist(ctx, snapshotKeys...)
	m.logger.Info(ctx, "state restored from snapshot", "lastUpdated", m.snap.Settings.LastUpdated)
	return nil
}

func cloneSnapshot(s models.Snapshot) models.Snapshot {
	out := s
	out.Brands = cloneSlice(s.Brands)
	out.Products = cloneSlice(s.Products)
	out.Catalogues = cloneSlice(s.Catalogues)
	out.Pamphlets = cloneSlice(s.Pamphlets)
	out.ScreensaverAds = cloneSlice(s.ScreensaverAds)
	out.AdminUsers = cloneSlice(s.AdminUsers)
	out.TvContent = cloneSlice(s.TvContent)
	out.Categories = cloneSlice(s.Categories)
	out.ViewCounts = models.ViewCounts{
		Brands:   cloneMap(s.ViewCounts.Brands),
		Products: cloneMap(s.ViewCounts.Products),
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
