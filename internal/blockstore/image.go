package blockstore

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// CreateImage creates (or truncates) the image file at path and fills it with
// blocks times [BlockSize] bytes of [FillByte].
func (h *Handler) CreateImage(path string, blocks int) (retErr error) {
	if blocks < 1 {
		return fmt.Errorf("(blockstore-mkimage) %w: %d", ErrInvalidBlockCount, blocks)
	}

	f, err := h.osHandler.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o666) //nolint:mnd
	if err != nil {
		return fmt.Errorf("(blockstore-mkimage) failed to create image: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("(blockstore-mkimage) failed to close image: %w", err)
		}
	}()

	fd := int(f.Fd())
	block := bytes.Repeat([]byte{FillByte}, BlockSize)

	for i := range blocks {
		n, err := h.unixHandler.Pwrite(fd, block, int64(i)*BlockSize)
		if err != nil {
			return fmt.Errorf("(blockstore-mkimage) block %d: %w", i, err)
		}
		if n != BlockSize {
			return fmt.Errorf("(blockstore-mkimage) %w: block %d (%d bytes)", ErrShortTransfer, i, n)
		}
	}

	if err := h.unixHandler.Fsync(fd); err != nil {
		return fmt.Errorf("(blockstore-mkimage) failed to sync image: %w", err)
	}

	slog.Info("Created block device image",
		"path", path,
		"blocks", blocks,
		"size", humanize.IBytes(uint64(blocks)*BlockSize),
	)

	return nil
}
