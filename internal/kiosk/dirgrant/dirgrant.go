// Package dirgrant manages the user-granted storage directory: acquisition
// through an injected picker prompt, permission verification before every
// use, and a lazy per-file handle cache.
//
// A grant is revocable out from under the process (the directory can be
// removed, unmounted, or have its permissions changed at any time), so it is
// never persisted across sessions; only the fact that the local provider
// was selected is. Consumers must re-verify before each read or write and
// treat verification failure as a global permission-loss event.
package dirgrant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/logging"
)

// PickerFunc prompts the user to choose a directory and returns its path.
// A dismissed prompt returns common.ErrCancelled; that is a benign outcome,
// not a failure.
type PickerFunc func(ctx context.Context) (string, error)

// Handle is an opaque reference to a granted directory, valid only for the
// current session.
type Handle struct {
	root string
	name string
}

// Root returns the absolute directory path behind the handle.
func (h *Handle) Root() string { return h.root }

// Name returns the display name of the granted directory.
func (h *Handle) Name() string { return h.name }

// Cache owns the current grant and the per-file handle cache. The file
// cache is populated lazily on lookups and cleared whenever the grant
// changes or is dropped.
type Cache struct {
	picker PickerFunc
	logger logging.Logger

	mu     sync.Mutex
	handle *Handle
	files  map[string]string
}

func New(picker PickerFunc, logger logging.Logger) *Cache {
	return &Cache{
		picker: picker,
		logger: logger,
		files:  make(map[string]string),
	}
}

// Acquire prompts for a directory and wires it as the current grant after a
// successful read/write verification. All state from a previous grant is
// discarded unconditionally before the new handle is installed.
func (c *Cache) Acquire(ctx context.Context) (*Handle, error) {
	path, err := c.picker(ctx)
	if err != nil {
		if errors.Is(err, common.ErrCancelled) {
			return nil, common.ErrCancelled
		}
		return nil, fmt.Errorf("directory prompt: %w", err)
	}
	if strings.TrimSpace(path) == "" {
		return nil, common.ErrCancelled
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", path, err)
	}
	fi, err := os.Stat(abs)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %q is not an accessible directory", common.ErrPermissionDenied, path)
	}

	handle := &Handle{root: abs, name: filepath.Base(abs)}
	if !probe(handle, true) {
		return nil, fmt.Errorf("%w: read/write access to %q was denied", common.ErrPermissionDenied, path)
	}

	c.mu.Lock()
	c.handle = handle
	c.files = make(map[string]string)
	c.mu.Unlock()

	c.logger.Info(ctx, "directory grant acquired", "name", handle.name)
	return handle, nil
}

// Handle returns the current grant, or nil when no directory is connected.
func (c *Cache) Handle() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// Connected reports whether a grant is currently wired.
func (c *Cache) Connected() bool {
	return c.Handle() != nil
}

// Verify re-checks that the granted directory is still accessible, with
// write access when write is true. A false return is a terminal denial for
// the calling operation; callers escalate it to a provider-level disconnect.
func (c *Cache) Verify(ctx context.Context, write bool) bool {
	h := c.Handle()
	if h == nil {
		return false
	}
	if probe(h, write) {
		return true
	}
	c.logger.Warn(ctx, "directory grant verification failed", "name", h.name, "write", write)
	return false
}

// Resolve returns the path of an existing file inside the grant, consulting
// the lazy handle cache first. Missing files yield common.ErrNotFound.
func (c *Cache) Resolve(ctx context.Context, name string) (string, error) {
	h := c.Handle()
	if h == nil {
		return "", common.ErrNotConnected
	}

	c.mu.Lock()
	cached, ok := c.files[name]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	path, err := safeJoin(h.root, name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", common.ErrNotFound, name)
	}

	c.mu.Lock()
	c.files[name] = path
	c.mu.Unlock()
	return path, nil
}

// PathFor returns the target path for creating a file inside the grant.
// Unlike Resolve it does not require the file to exist and bypasses the
// handle cache.
func (c *Cache) PathFor(name string) (string, error) {
	h := c.Handle()
	if h == nil {
		return "", common.ErrNotConnected
	}
	return safeJoin(h.root, name)
}

// Clear drops the grant and every cached file handle. Readers must always
// re-probe validity rather than trust presence in the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.handle = nil
	c.files = make(map[string]string)
	c.mu.Unlock()
}

// probe performs the access check behind Verify: open for read, plus a
// create-and-remove round trip when write access is wanted.
func probe(h *Handle, write bool) bool {
	f, err := os.Open(h.root)
	if err != nil {
		return false
	}
	f.Close()

	if !write {
		return true
	}

	tmp, err := os.CreateTemp(h.root, ".kioskd-probe-*")
	if err != nil {
		return false
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)
	return true
}

// safeJoin confines a logical file name to the grant root.
func safeJoin(root, name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: invalid file name %q", common.ErrNotFound, name)
	}
	return filepath.Join(root, name), nil
}
