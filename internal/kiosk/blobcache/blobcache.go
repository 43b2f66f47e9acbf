// Package blobcache resolves logical asset references to materialized,
// directly-usable locators: ephemeral copies minted into a session-scoped
// cache directory from files inside the granted storage directory.
//
// Locators are short-lived and revocable (the session cache can be swept by
// the OS at any time), so cached entries are probed for validity before
// reuse and a failed probe is an expected staleness event, not an error.
package blobcache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/kiosk/dirgrant"
	"github.com/avolkov/kioskd/internal/logging"
)

// Cache maps logical references to minted locator paths. The map is owned
// exclusively by the process and cleared synchronously on disconnect.
type Cache struct {
	grants    *dirgrant.Cache
	cacheDir  string
	onRevoked func(ctx context.Context)
	logger    logging.Logger

	mu       sync.Mutex
	locators map[string]string
}

// New builds a cache minting locators into cacheDir. onRevoked is invoked
// when a read-permission re-check fails; permission loss is a global event,
// so the callback is expected to disconnect the whole storage provider and
// notify the user.
func New(grants *dirgrant.Cache, cacheDir string, onRevoked func(ctx context.Context), logger logging.Logger) *Cache {
	return &Cache{
		grants:    grants,
		cacheDir:  cacheDir,
		onRevoked: onRevoked,
		logger:    logger,
		locators:  make(map[string]string),
	}
}

// Resolve turns a logical reference into a usable locator. An empty result
// means "show a fallback/placeholder"; it is never an error to the caller.
func (c *Cache) Resolve(ctx context.Context, ref string) string {
	if ref == "" {
		return ""
	}

	// Absolute network locators and inline payloads pass through untouched.
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:") {
		return ref
	}

	if cached := c.probeCached(ctx, ref); cached != "" {
		return cached
	}

	if !c.grants.Connected() {
		return ""
	}

	if !c.grants.Verify(ctx, false) {
		// Read permission was revoked behind our back. Escalate globally.
		c.onRevoked(ctx)
		return ""
	}

	path, err := c.grants.Resolve(ctx, ref)
	if err != nil {
		c.logger.Warn(ctx, "asset not found in granted directory", "ref", ref, "error", err)
		return ""
	}

	locator, err := c.mint(ref, path)
	if err != nil {
		c.logger.Error(ctx, "failed to materialize asset", "ref", ref, "error", err)
		return ""
	}
	return locator
}

// probeCached returns a still-valid cached locator, evicting stale ones.
func (c *Cache) probeCached(ctx context.Context, ref string) string {
	c.mu.Lock()
	locator, ok := c.locators[ref]
	c.mu.Unlock()
	if !ok {
		return ""
	}

	if _, err := os.Stat(locator); err == nil {
		return locator
	}

	// Expected staleness: the session cache was swept. Clean up and re-miss.
	c.logger.Debug(ctx, "evicting stale locator", "ref", ref)
	os.Remove(locator)
	c.mu.Lock()
	delete(c.locators, ref)
	c.mu.Unlock()
	return ""
}

// mint copies the asset bytes into the session cache and records the fresh
// locator.
func (c *Cache) mint(ref, src string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}

	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}
	locator := filepath.Join(c.cacheDir, suffix+filepath.Ext(ref))
	if err := os.WriteFile(locator, data, 0o660); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.locators[ref] = locator
	c.mu.Unlock()
	return locator, nil
}

// ReleaseAll eagerly frees every minted locator. Called on disconnect so no
// stale resources outlive the provider that produced them.
func (c *Cache) ReleaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ref, locator := range c.locators {
		os.Remove(locator)
		delete(c.locators, ref)
	}
}
