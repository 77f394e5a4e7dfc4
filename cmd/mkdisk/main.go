package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/desertwitch/simfs/internal/blockstore"
	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
)

//nolint:gochecknoglobals
var (
	ExitCode = 0

	imagePath = flag.String("image", "disk.dat", "disk image file to create")
	size      = flag.String("size", "100KiB", "image size, like 102400 or 100KiB")
	force     = flag.Bool("force", false, "overwrite an existing image")
)

func setupLogging() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}),
	))
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	flag.Parse()
	setupLogging()

	bytes, err := humanize.ParseBytes(*size)
	if err != nil || bytes < blockstore.BlockSize {
		slog.Error("Invalid image size.",
			"size", *size,
			"err", err,
		)
		ExitCode = 1

		return
	}

	if _, err := os.Stat(*imagePath); err == nil && !*force {
		slog.Error("Image already exists, use -force to overwrite it.",
			"image", *imagePath,
		)
		ExitCode = 1

		return
	}

	if bytes%blockstore.BlockSize != 0 {
		slog.Warn("Image size rounded down to whole blocks.",
			"size", humanize.IBytes(bytes),
			"blockSize", blockstore.BlockSize,
		)
	}

	storeHandler := blockstore.NewHandler(&blockstore.OS{}, &blockstore.Unix{})

	if err := storeHandler.CreateImage(*imagePath, int(bytes/blockstore.BlockSize)); err != nil { //nolint:gosec
		slog.Error("Failed to create the image.",
			"err", err,
			"image", *imagePath,
		)
		ExitCode = 1

		return
	}
}
