package dirsync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/kiosk/defaults"
	"github.com/avolkov/kioskd/internal/kiosk/dirgrant"
	"github.com/avolkov/kioskd/internal/kiosk/models"
	"github.com/avolkov/kioskd/internal/kiosk/snapshot"
	"github.com/avolkov/kioskd/internal/logging"
)

type fakeBackend struct {
	snap     models.Snapshot
	restored [][]byte
}

func (b *fakeBackend) Snapshot() models.Snapshot { return b.snap }

func (b *fakeBackend) RestoreBackup(ctx context.Context, data []byte) error {
	b.restored = append(b.restored, data)
	return nil
}

func (b *fakeBackend) LastUpdated() int64 { return b.snap.Settings.LastUpdated }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func confirmAlways(context.Context, string) bool { return true }
func confirmNever(context.Context, string) bool  { return false }

func newEngine(t *testing.T, dir string, backend *fakeBackend, confirm ConfirmFunc) (*Engine, *dirgrant.Cache) {
	t.Helper()
	grants := dirgrant.New(func(ctx context.Context) (string, error) {
		return dir, nil
	}, testLogger())
	_, err := grants.Acquire(context.Background())
	require.NoError(t, err)
	return New(grants, backend, confirm, func(context.Context) {}, testLogger()), grants
}

func backendWithTimestamp(ts int64) *fakeBackend {
	snap := defaults.Snapshot()
	snap.Settings.LastUpdated = ts
	return &fakeBackend{snap: snap}
}

func TestSave_WritesSnapshotAndRemovesLock(t *testing.T) {
	dir := t.TempDir()
	backend := backendWithTimestamp(100)
	e, _ := newEngine(t, dir, backend, confirmAlways)

	require.NoError(t, e.Save(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, common.SnapshotFileName))
	require.NoError(t, err)

	got, err := snapshot.Decode(data, backend.snap.Settings)
	require.NoError(t, err)
	require.Equal(t, backend.snap, *got)

	_, err = os.Stat(filepath.Join(dir, common.LockFileName))
	require.True(t, errors.Is(err, os.ErrNotExist), "lock marker must be removed after save")
}

func TestSave_ExistingLockIsTerminal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, common.LockFileName), nil, 0o660))
	require.NoError(t, os.WriteFile(filepath.Join(dir, common.SnapshotFileName), []byte("untouched"), 0o660))

	e, _ := newEngine(t, dir, backendWithTimestamp(100), confirmAlways)

	err := e.Save(context.Background())
	require.True(t, errors.Is(err, common.ErrLocked))

	data, err := os.ReadFile(filepath.Join(dir, common.SnapshotFileName))
	require.NoError(t, err)
	require.Equal(t, []byte("untouched"), data, "a locked save must not modify the snapshot file")

	_, err = os.Stat(filepath.Join(dir, common.LockFileName))
	require.NoError(t, err, "a foreign lock marker is left in place")
}

func TestSave_LockRemovedEvenWhenWriteFails(t *testing.T) {
	dir := t.TempDir()
	// Occupy the data file name with a directory so the write step fails.
	require.NoError(t, os.Mkdir(filepath.Join(dir, common.SnapshotFileName), 0o770))

	e, _ := newEngine(t, dir, backendWithTimestamp(100), confirmAlways)

	require.Error(t, e.Save(context.Background()))

	_, err := os.Stat(filepath.Join(dir, common.LockFileName))
	require.True(t, errors.Is(err, os.ErrNotExist), "lock cleanup is guaranteed on all exit paths")
}

func TestSave_NotConnected(t *testing.T) {
	grants := dirgrant.New(nil, testLogger())
	e := New(grants, backendWithTimestamp(1), confirmAlways, func(context.Context) {}, testLogger())

	require.True(t, errors.Is(e.Save(context.Background()), common.ErrNotConnected))
}

func TestLoad_MissingFile(t *testing.T) {
	e, _ := newEngine(t, t.TempDir(), backendWithTimestamp(1), confirmAlways)

	err := e.Load(context.Background(), false, false)
	require.True(t, errors.Is(err, common.ErrNotFound))
}

func writeRemoteSnapshot(t *testing.T, dir string, ts int64) models.Snapshot {
	t.Helper()
	snap := defaults.Snapshot()
	snap.Settings.LastUpdated = ts
	snap.Settings.StoreName = "Remote Store"
	data, err := snapshot.Encode(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, common.SnapshotFileName), data, 0o660))
	return snap
}

func TestLoad_SilentStalenessShortCircuit(t *testing.T) {
	dir := t.TempDir()
	writeRemoteSnapshot(t, dir, 100)

	backend := backendWithTimestamp(100) // remote == local: not newer
	e, _ := newEngine(t, dir, backend, confirmNever)

	require.NoError(t, e.Load(context.Background(), true, false))
	require.Empty(t, backend.restored, "silent load with stale remote performs zero state mutation")
}

func TestLoad_SilentAppliesNewerSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeRemoteSnapshot(t, dir, 200)

	backend := backendWithTimestamp(100)
	e, _ := newEngine(t, dir, backend, confirmNever) // silent mode never prompts

	require.NoError(t, e.Load(context.Background(), true, false))
	require.Len(t, backend.restored, 1)
}

func TestLoad_InteractiveDeclinedIsBenignNoOp(t *testing.T) {
	dir := t.TempDir()
	writeRemoteSnapshot(t, dir, 200)

	backend := backendWithTimestamp(100)
	e, _ := newEngine(t, dir, backend, confirmNever)

	require.NoError(t, e.Load(context.Background(), false, false))
	require.Empty(t, backend.restored)
}

func TestLoad_AlreadyConfirmedSkipsPrompt(t *testing.T) {
	dir := t.TempDir()
	writeRemoteSnapshot(t, dir, 200)

	backend := backendWithTimestamp(100)
	prompted := false
	confirm := func(context.Context, string) bool { prompted = true; return false }
	e, _ := newEngine(t, dir, backend, confirm)

	require.NoError(t, e.Load(context.Background(), false, true))
	require.False(t, prompted)
	require.Len(t, backend.restored, 1)
}

func TestLoad_PermissionLossEscalates(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "granted")
	require.NoError(t, os.Mkdir(dir, 0o770))

	backend := backendWithTimestamp(1)
	grants := dirgrant.New(func(ctx context.Context) (string, error) {
		return dir, nil
	}, testLogger())
	_, err := grants.Acquire(context.Background())
	require.NoError(t, err)

	revoked := false
	e := New(grants, backend, confirmAlways, func(context.Context) { revoked = true }, testLogger())

	require.NoError(t, os.RemoveAll(dir))

	err = e.Load(context.Background(), true, false)
	require.True(t, errors.Is(err, common.ErrPermissionDenied))
	require.True(t, revoked)
}
