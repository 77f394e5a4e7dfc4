package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertwitch/simfs/internal/blockstore"
	"github.com/desertwitch/simfs/internal/configuration"
	"github.com/desertwitch/simfs/internal/filesystem"
	"github.com/desertwitch/simfs/internal/shell"
	"github.com/desertwitch/simfs/internal/ui"
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	configFile = flag.String("config", "simfs.env", "configuration file")
	imagePath  = flag.String("image", configuration.DefaultImage, "disk image file")
	deviceSize = flag.Int64("size", configuration.DefaultDeviceSize, "device size in bytes, used for new images and mkfs")
	uiEnabled  = flag.Bool("ui", configuration.DefaultUI, "enable the interactive UI")
	attach     = flag.Bool("attach", false, "resume a volume that was left mounted on the image")
	create     = flag.Bool("create", true, "create the image if it does not exist")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func setupLogging(level slog.Leveler) *logRouter {
	logs := newLogRouter(level)
	logs.SetSink(sinkConsole, os.Stderr)

	slog.SetDefault(slog.New(logs))

	return logs
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()
}

// loadConfig reads the configuration file and lets explicitly set flags
// override it.
func loadConfig() (*configuration.Config, error) {
	cfg, err := configuration.NewHandler(&configuration.GodotenvProvider{}).Load(*configFile)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "image":
			cfg.ImagePath = *imagePath
		case "size":
			cfg.DeviceSize = *deviceSize
		case "ui":
			cfg.UI = *uiEnabled
		}
	})

	return cfg, nil
}

// openDevice opens the image at path, creating it first if allowed.
func openDevice(storeHandler *blockstore.Handler, path string, size int64) (*blockstore.FileDevice, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && *create {
		if err := storeHandler.CreateImage(path, int(size/blockstore.BlockSize)); err != nil {
			return nil, err
		}
	}

	return storeHandler.Open(path)
}

// establishFilesystem returns a handler for device, resumed from the device
// if requested and possible.
func establishFilesystem(device *blockstore.FileDevice) (*filesystem.Handler, error) {
	if !*attach {
		return filesystem.NewHandler(device), nil
	}

	fsHandler, err := filesystem.Attach(device)
	if errors.Is(err, filesystem.ErrNotFormatted) {
		slog.Warn("No mounted volume found on the image, starting unformatted.",
			"err", err,
		)

		return filesystem.NewHandler(device), nil
	}

	return fsHandler, err
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flag.Parse()

	var logLevel slog.LevelVar
	logLevel.Set(configuration.DefaultLogLevel)

	logs := setupLogging(&logLevel)
	setupSignalHandlers(cancel)

	cpuProfiler := newCPUProfiler(ctx, *cpuprofile)
	defer cpuProfiler.Stop()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load the configuration.",
			"err", err,
		)
		ExitCode = 1

		return
	}
	logLevel.Set(cfg.LogLevel)

	slog.Debug("Configuration loaded",
		"version", Version,
		"image", cfg.ImagePath,
		"size", cfg.DeviceSize,
		"ui", cfg.UI,
	)

	storeHandler := blockstore.NewHandler(&blockstore.OS{}, &blockstore.Unix{})

	device, err := openDevice(storeHandler, cfg.ImagePath, cfg.DeviceSize)
	if err != nil {
		slog.Error("Failed to open the disk image.",
			"err", err,
			"image", cfg.ImagePath,
		)
		ExitCode = 1

		return
	}

	fsHandler, err := establishFilesystem(device)
	if err != nil {
		slog.Error("Failed to establish the file system.",
			"err", err,
		)
		ExitCode = 1
		_ = device.Close()

		return
	}

	shellHandler := shell.NewHandler(fsHandler, cfg.DeviceSize)

	var uiHandler *ui.Handler
	if cfg.UI {
		uiHandler = ui.NewHandler(ctx, cancel, shellHandler)
	}

	app := NewApp(logs, device, fsHandler, shellHandler, uiHandler)

	if err := app.Launch(ctx); err != nil {
		ExitCode = 1
	}
}
