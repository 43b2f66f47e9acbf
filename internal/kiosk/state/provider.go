package state

import (
	"context"
	"fmt"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/kiosk/models"
	"github.com/avolkov/kioskd/internal/kiosk/store"
)

// Storage provider state machine. Exactly one provider is active at a time;
// switching between the directory and the remote API passes through
// ProviderNone via an explicit disconnect. Provider-specific operations
// check the active provider first and fail fast without touching the
// network or the filesystem.

// Provider returns the active storage provider.
func (m *Manager) Provider() models.StorageProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.provider
}

// ConnectLocal prompts for a storage folder and activates the directory
// provider. A dismissed prompt returns common.ErrCancelled and changes
// nothing. After wiring the handle an immediate permission audit runs; a
// failure force-disconnects right away instead of surfacing later during a
// sync. On success the 12h background pull starts, with one pull up front.
func (m *Manager) ConnectLocal(ctx context.Context) error {
	if p := m.Provider(); p != models.ProviderNone {
		return fmt.Errorf("storage provider %q is active, disconnect first", p)
	}

	// Previous provider state never survives a connect.
	m.blobs.ReleaseAll()

	handle, err := m.grants.Acquire(ctx)
	if err != nil {
		return err
	}

	if !m.grants.Verify(ctx, true) {
		m.forceDisconnect(ctx)
		return fmt.Errorf("%w: write access to %q could not be confirmed", common.ErrPermissionDenied, handle.Name())
	}

	m.mu.Lock()
	m.provider = models.ProviderLocal
	m.persist(ctx, store.KeyStorageProvider)
	m.startSyncLocked()
	m.mu.Unlock()

	m.logger.Info(ctx, "connected to storage folder", "name", handle.Name())
	return nil
}

// ConnectRemote activates the remote API provider. It requires a configured
// endpoint URL but does not probe reachability; the first push or pull does.
func (m *Manager) ConnectRemote(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.provider != models.ProviderNone {
		return fmt.Errorf("storage provider %q is active, disconnect first", m.provider)
	}
	if m.snap.Settings.CustomAPIURL == "" {
		return fmt.Errorf("%w: set the API URL in settings first", common.ErrNoEndpoint)
	}
	m.provider = models.ProviderCustomAPI
	m.persist(ctx, store.KeyStorageProvider)
	m.logger.Info(ctx, "connected to custom API", "url", m.snap.Settings.CustomAPIURL)
	return nil
}

// Disconnect returns to ProviderNone. It always succeeds: the background
// sync is torn down, the directory grant dropped, and every minted blob
// locator released, so nothing from the previous provider can be served
// afterwards.
func (m *Manager) Disconnect(ctx context.Context) {
	m.mu.Lock()
	m.stopSyncLocked()
	m.provider = models.ProviderNone
	m.persist(ctx, store.KeyStorageProvider)
	m.mu.Unlock()

	m.grants.Clear()
	m.blobs.ReleaseAll()
	m.logger.Info(ctx, "storage disconnected")
}

// forceDisconnect handles revoked permissions: a regular disconnect plus a
// user-facing notice. Wired as the onRevoked callback of the blob cache and
// the directory sync engine.
func (m *Manager) forceDisconnect(ctx context.Context) {
	m.Disconnect(ctx)
	m.notify(ctx, "Lost access to the storage folder. Storage has been disconnected.")
}

func (m *Manager) startSyncLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	m.syncCancel = cancel
	go m.dir.Run(ctx)
}

func (m *Manager) stopSyncLocked() {
	if m.syncCancel != nil {
		m.syncCancel()
		m.syncCancel = nil
	}
}

// SaveToDirectory writes the snapshot to the connected folder under the
// lock marker protocol.
func (m *Manager) SaveToDirectory(ctx context.Context) error {
	if m.Provider() != models.ProviderLocal {
		return common.ErrNotConnected
	}
	return m.dir.Save(ctx)
}

// LoadFromDirectory interactively replaces local state with the folder
// snapshot. alreadyConfirmed skips the prompt when the caller has already
// asked.
func (m *Manager) LoadFromDirectory(ctx context.Context, alreadyConfirmed bool) error {
	if m.Provider() != models.ProviderLocal {
		return common.ErrNotConnected
	}
	return m.dir.Load(ctx, false, alreadyConfirmed)
}

// PushRemote uploads the snapshot to the custom API.
func (m *Manager) PushRemote(ctx context.Context) error {
	if m.Provider() != models.ProviderCustomAPI {
		return common.ErrNotConnected
	}
	return m.remote.Push(ctx)
}

// PullRemote replaces local state with the custom API snapshot.
func (m *Manager) PullRemote(ctx context.Context) error {
	if m.Provider() != models.ProviderCustomAPI {
		return common.ErrNotConnected
	}
	return m.remote.Pull(ctx)
}

// ResolveAsset turns a logical asset reference into a directly usable
// locator. Empty means "show a placeholder".
func (m *Manager) ResolveAsset(ctx context.Context, ref string) string {
	return m.blobs.Resolve(ctx, ref)
}

// ConnectedFolder returns the display name of the granted directory, or ""
// when the local provider is not active.
func (m *Manager) ConnectedFolder() string {
	if h := m.grants.Handle(); h != nil {
		return h.Name()
	}
	return ""
}
