package state

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/filex"
	"github.com/avolkov/kioskd/internal/kiosk/models"
	"github.com/avolkov/kioskd/internal/kiosk/snapshot"
)

// ExportBackup serializes the full state for a manual download and suggests
// the dated backup file name.
func (m *Manager) ExportBackup() ([]byte, string, error) {
	data, err := snapshot.Encode(m.Snapshot())
	if err != nil {
		return nil, "", err
	}
	return data, snapshot.ExportFileName(m.now()), nil
}

// ImportBackup applies a manually supplied backup document. Unlike sync
// restores, an import is rejected outright when the document is missing the
// required top-level fields.
func (m *Manager) ImportBackup(ctx context.Context, data []byte) error {
	if err := snapshot.ValidateImport(data); err != nil {
		return err
	}
	return m.RestoreBackup(ctx, data)
}

// SaveAsset stores a media file and returns the logical reference to put in
// an entity record. With the directory provider connected the bytes land in
// the granted folder under a timestamped name, after a write re-check that
// force-disconnects on failure. Without it the payload is inlined as a
// data: reference so it stays usable anywhere.
func (m *Manager) SaveAsset(ctx context.Context, name string, data []byte) (string, error) {
	if m.Provider() != models.ProviderLocal {
		mt := mime.TypeByExtension(filepath.Ext(name))
		if mt == "" {
			mt = "application/octet-stream"
		}
		return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data), nil
	}

	if !m.grants.Verify(ctx, true) {
		m.forceDisconnect(ctx)
		return "", fmt.Errorf("%w: write access to the storage folder was lost", common.ErrPermissionDenied)
	}

	fileName := fmt.Sprintf("%d-%s", m.now().UnixMilli(), filex.SanitizeName(name))
	path, err := m.grants.PathFor(fileName)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return "", fmt.Errorf("store asset: %w", err)
	}

	m.logger.Info(ctx, "asset stored", "file", fileName, "bytes", len(data))
	return fileName, nil
}
