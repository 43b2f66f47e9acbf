// Package dirsync reads and writes the canonical snapshot file inside the
// connected directory. Writers coordinate through an advisory lock marker:
// a zero-byte file whose mere existence blocks a save until it is removed.
// The lock carries no TTL, so a writer that crashes mid-save leaves a
// permanent lock requiring manual operator intervention, a documented
// limitation of the protocol.
package dirsync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/kiosk/dirgrant"
	"github.com/avolkov/kioskd/internal/kiosk/models"
	"github.com/avolkov/kioskd/internal/kiosk/snapshot"
	"github.com/avolkov/kioskd/internal/logging"
)

// SyncInterval is how often the background pull re-checks the directory for
// a newer snapshot.
const SyncInterval = 12 * time.Hour

// Backend is the state surface the engine syncs: a full snapshot out, a raw
// canonical document in, and the local conflict timestamp.
type Backend interface {
	Snapshot() models.Snapshot
	RestoreBackup(ctx context.Context, data []byte) error
	LastUpdated() int64
}

// ConfirmFunc asks the user a yes/no question. Engines receive it injected
// so the decision protocol stays decoupled from any particular UI.
type ConfirmFunc func(ctx context.Context, message string) bool

// Engine syncs the canonical snapshot with the granted directory.
type Engine struct {
	grants    *dirgrant.Cache
	backend   Backend
	confirm   ConfirmFunc
	onRevoked func(ctx context.Context)
	logger    logging.Logger
}

func New(grants *dirgrant.Cache, backend Backend, confirm ConfirmFunc, onRevoked func(ctx context.Context), logger logging.Logger) *Engine {
	return &Engine{
		grants:    grants,
		backend:   backend,
		confirm:   confirm,
		onRevoked: onRevoked,
		logger:    logger,
	}
}

// Save writes the full snapshot to the canonical data file under the lock
// marker protocol. A pre-existing lock is terminal for this call; the user
// must remove the marker manually if it was left behind by a crashed writer.
// The marker created here is removed on every exit path.
func (e *Engine) Save(ctx context.Context) error {
	if !e.grants.Connected() {
		return common.ErrNotConnected
	}
	if !e.grants.Verify(ctx, true) {
		e.onRevoked(ctx)
		return fmt.Errorf("%w: write access to the storage folder was lost", common.ErrPermissionDenied)
	}

	lockPath, err := e.grants.PathFor(common.LockFileName)
	if err != nil {
		return err
	}
	if _, err := os.Stat(lockPath); err == nil {
		return fmt.Errorf("%w: a %q file was found; if no other sync is running, remove it manually and try again",
			common.ErrLocked, common.LockFileName)
	}

	if err := os.WriteFile(lockPath, nil, 0o660); err != nil {
		return fmt.Errorf("create lock marker: %w", err)
	}
	defer os.Remove(lockPath)

	data, err := snapshot.Encode(e.backend.Snapshot())
	if err != nil {
		return err
	}

	dataPath, err := e.grants.PathFor(common.SnapshotFileName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dataPath, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", common.SnapshotFileName, err)
	}

	e.logger.Info(ctx, "snapshot saved to folder", "file", common.SnapshotFileName, "bytes", len(data))
	return nil
}

// Load reads the canonical data file and replaces local state with it.
//
// In silent (background) mode a remote timestamp that is not newer than the
// local one short-circuits to a no-op, which keeps background polling cheap.
// Otherwise the replace is gated on confirmation: alreadyConfirmed and
// silent both proceed automatically, anything else prompts interactively.
// A declined prompt is a benign no-op.
func (e *Engine) Load(ctx context.Context, silent, alreadyConfirmed bool) error {
	if !e.grants.Connected() {
		return common.ErrNotConnected
	}
	if !e.grants.Verify(ctx, false) {
		e.onRevoked(ctx)
		return fmt.Errorf("%w: read access to the storage folder was lost", common.ErrPermissionDenied)
	}

	dataPath, err := e.grants.PathFor(common.SnapshotFileName)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s not found or is invalid", common.ErrNotFound, common.SnapshotFileName)
		}
		return fmt.Errorf("read %s: %w", common.SnapshotFileName, err)
	}

	remote, hasRemote := snapshot.PeekLastUpdated(data)
	local := e.backend.LastUpdated()
	if silent && hasRemote && local != 0 && remote <= local {
		e.logger.Debug(ctx, "background sync: no new data", "remote", remote, "local", local)
		return nil
	}

	if !alreadyConfirmed && !silent {
		if !e.confirm(ctx, "Load data from the drive? This will overwrite all current local data.") {
			return nil
		}
	}

	if err := e.backend.RestoreBackup(ctx, data); err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}

	if silent {
		e.logger.Info(ctx, "background sync: snapshot applied", "remote", remote)
	} else {
		e.logger.Info(ctx, "snapshot loaded from folder")
	}
	return nil
}

// Run polls the directory for newer snapshots: once immediately, then every
// SyncInterval, until ctx is cancelled. Each pull is silent and idempotent:
// a no-newer-data probe mutates nothing.
func (e *Engine) Run(ctx context.Context) {
	e.pull(ctx)

	ticker := time.NewTicker(SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.pull(ctx)
		case <-ctx.Done():
			e.logger.Debug(ctx, "background sync stopped")
			return
		}
	}
}

func (e *Engine) pull(ctx context.Context) {
	if err := e.Load(ctx, true, false); err != nil {
		e.logger.Warn(ctx, "background sync failed", "error", err)
	}
}
