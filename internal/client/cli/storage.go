package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/avolkov/kioskd/internal/common"
)

// ConnectFolder activates the local directory provider. A dismissed picker
// is a benign no-op, never an error message.
func (a *App) ConnectFolder(ctx context.Context) error {
	err := a.state.ConnectLocal(ctx)
	if errors.Is(err, common.ErrCancelled) {
		return nil
	}
	if err != nil {
		return report(err)
	}
	fmt.Println("Connected to folder:", a.state.ConnectedFolder())
	return nil
}

// ConnectAPI activates the remote provider against the endpoint configured
// in settings.
func (a *App) ConnectAPI(ctx context.Context) error {
	if err := a.state.ConnectRemote(ctx); err != nil {
		return report(err)
	}
	fmt.Println("Connected to the custom API")
	return nil
}

// Disconnect returns to the disconnected provider.
func (a *App) Disconnect(ctx context.Context) error {
	a.state.Disconnect(ctx)
	fmt.Println("Storage disconnected")
	return nil
}

// SaveFolder writes the snapshot into the connected folder.
func (a *App) SaveFolder(ctx context.Context) error {
	if err := a.state.SaveToDirectory(ctx); err != nil {
		return report(err)
	}
	fmt.Println("Saved to folder")
	return nil
}

// LoadFolder replaces local data with the folder snapshot, after the
// engine's own confirmation prompt.
func (a *App) LoadFolder(ctx context.Context) error {
	err := a.state.LoadFromDirectory(ctx, false)
	if errors.Is(err, common.ErrNotFound) {
		fmt.Println("No snapshot file found in the folder, or it is invalid")
		return nil
	}
	return report(err)
}

// Push uploads the snapshot to the custom API.
func (a *App) Push(ctx context.Context) error {
	return report(a.state.PushRemote(ctx))
}

// Pull replaces local data with the custom API snapshot.
func (a *App) Pull(ctx context.Context) error {
	return report(a.state.PullRemote(ctx))
}
