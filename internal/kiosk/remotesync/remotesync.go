// Package remotesync pushes and pulls the canonical snapshot against a
// configured HTTP endpoint. Both directions are all-or-nothing: no retry,
// no partial application of a failed response.
package remotesync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/kiosk/models"
	"github.com/avolkov/kioskd/internal/kiosk/snapshot"
	"github.com/avolkov/kioskd/internal/logging"
)

// Backend is the state surface the engine syncs against, plus the endpoint
// configuration sourced from Settings.
type Backend interface {
	Snapshot() models.Snapshot
	RestoreBackup(ctx context.Context, data []byte) error
	Endpoint() (url, apiKey string)
}

// ConfirmFunc asks the user a yes/no question before an overwriting
// transfer. Remote transfers always prompt; there is no silent mode.
type ConfirmFunc func(ctx context.Context, message string) bool

// Engine talks to the remote sync endpoint.
type Engine struct {
	client  *http.Client
	backend Backend
	confirm ConfirmFunc
	logger  logging.Logger
}

// New builds an engine. A nil client falls back to http.DefaultClient
// (timeouts ride on the transport defaults).
func New(client *http.Client, backend Backend, confirm ConfirmFunc, logger logging.Logger) *Engine {
	if client == nil {
		client = http.DefaultClient
	}
	return &Engine{client: client, backend: backend, confirm: confirm, logger: logger}
}

// Push uploads the full snapshot. It requires explicit confirmation every
// time; a declined prompt is a benign no-op. Any non-2xx response is a hard
// failure.
func (e *Engine) Push(ctx context.Context) error {
	url, key, err := e.endpoint()
	if err != nil {
		return err
	}

	if !e.confirm(ctx, "Push data to the cloud? This will overwrite the current cloud data.") {
		return nil
	}

	body, err := snapshot.Encode(e.backend.Snapshot())
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(common.APIKeyHeaderName, key)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push failed: server responded with status %d", resp.StatusCode)
	}

	e.logger.Info(ctx, "snapshot pushed to cloud", "bytes", len(body))
	return nil
}

// Pull downloads the remote snapshot and replaces local state wholesale.
// Like Push, it always prompts; a declined prompt is a benign no-op.
func (e *Engine) Pull(ctx context.Context) error {
	url, key, err := e.endpoint()
	if err != nil {
		return err
	}

	if !e.confirm(ctx, "Pull data from the cloud? This will overwrite all current local data.") {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build pull request: %w", err)
	}
	if key != "" {
		req.Header.Set(common.APIKeyHeaderName, key)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("pull failed: server responded with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read pull response: %w", err)
	}

	if err := e.backend.RestoreBackup(ctx, data); err != nil {
		return fmt.Errorf("apply pulled snapshot: %w", err)
	}

	e.logger.Info(ctx, "snapshot pulled from cloud", "bytes", len(data))
	return nil
}

func (e *Engine) endpoint() (string, string, error) {
	url, key := e.backend.Endpoint()
	if url == "" {
		return "", "", common.ErrNoEndpoint
	}
	return url, key, nil
}
