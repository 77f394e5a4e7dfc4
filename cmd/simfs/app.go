package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/desertwitch/simfs/internal/blockstore"
	"github.com/desertwitch/simfs/internal/filesystem"
	"github.com/desertwitch/simfs/internal/shell"
	"github.com/desertwitch/simfs/internal/ui"
)

type App struct {
	logs         *logRouter
	device       *blockstore.FileDevice
	fsHandler    *filesystem.Handler
	shellHandler *shell.Handler
	uiHandler    *ui.Handler
}

func NewApp(logs *logRouter,
	device *blockstore.FileDevice,
	fsHandler *filesystem.Handler,
	shellHandler *shell.Handler,
	uiHandler *ui.Handler,
) *App {
	return &App{
		logs:         logs,
		device:       device,
		fsHandler:    fsHandler,
		shellHandler: shellHandler,
		uiHandler:    uiHandler,
	}
}

// Launch runs the shell, in the UI if one is configured, and releases the
// device afterwards.
func (app *App) Launch(ctx context.Context) (retErr error) {
	defer func() {
		if app.fsHandler.IsMounted() {
			slog.Warn("Volume is still mounted on the image, resume it with -attach.")
		}

		if err := app.device.Close(); err != nil {
			slog.Error("Failed to close the disk image.",
				"err", err,
			)
			retErr = errors.Join(retErr, err)
		}
	}()

	if app.uiHandler != nil {
		if err := app.LaunchUI(); err != nil {
			slog.Error("UI failure: falling back to terminal.", "err", err)
		} else {
			return nil
		}
	}

	if err := app.shellHandler.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Shell failure.", "err", err)

		return fmt.Errorf("(app) %w", err)
	}

	return nil
}

// LaunchUI runs the UI, which receives the logs instead of the console while
// it is active.
func (app *App) LaunchUI() error {
	app.logs.SetSink(sinkUI, app.uiHandler.LogWriter)
	app.logs.RemoveSink(sinkConsole)

	defer func() {
		app.logs.SetSink(sinkConsole, os.Stderr)
		app.logs.RemoveSink(sinkUI)
	}()

	if err := app.uiHandler.Launch(); err != nil {
		return fmt.Errorf("(app-ui) %w", err)
	}

	return nil
}
