package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/avolkov/kioskd/internal/client/config"
	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/filex"
	"github.com/avolkov/kioskd/internal/kiosk/state"
	"github.com/avolkov/kioskd/internal/kiosk/store"
	"github.com/avolkov/kioskd/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the admin console: the durable store, the state facade with its
// sync engines, and the interactive prompts they need.
type App struct {
	config *config.Config
	db     *sql.DB
	state  *state.Manager
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	db, err := store.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	cacheDir := c.CacheDir
	if cacheDir == "" {
		cacheDir, err = filex.EnsureSubDir(os.TempDir(), "kioskd-cache")
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	app := &App{config: c, db: db, reader: bufio.NewReader(os.Stdin)}

	client := &http.Client{Timeout: c.RequestTimeout}
	app.state = state.New(store.NewSQLiteKV(db), app.pickFolder, app.askConfirm, app.notifyUser, cacheDir, client, logger)
	app.state.Hydrate(ctx)

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.state.CurrentUser() != nil
}

// pickFolder is the directory picker capability: a path prompt, where an
// empty answer behaves like a dismissed dialog.
func (a *App) pickFolder(ctx context.Context) (string, error) {
	path, err := getSimpleText(a.reader, "Enter the path of the storage folder (empty to cancel)", os.Stdout)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", common.ErrCancelled
	}
	return path, nil
}

// askConfirm is the yes/no capability handed to the sync engines.
func (a *App) askConfirm(ctx context.Context, message string) bool {
	answer, err := getSimpleText(a.reader, message+" [y/N]", os.Stdout)
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// notifyUser surfaces out-of-band notices, e.g. a forced disconnect after
// the storage folder went away.
func (a *App) notifyUser(ctx context.Context, message string) {
	printlnFn("! " + message)
}
