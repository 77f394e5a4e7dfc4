package blockstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// FileDevice is a [Device] backed by an image file. The image is held with an
// exclusive advisory lock for as long as the device is open.
type FileDevice struct {
	file        *os.File
	fd          int
	blocks      int
	unixHandler unixProvider
}

// Open opens an existing image file as a [FileDevice]. The size of the image
// must be a non-zero multiple of [BlockSize].
func (h *Handler) Open(path string) (*FileDevice, error) {
	f, err := h.osHandler.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("(blockstore-open) failed to open image: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, fmt.Errorf("(blockstore-open) failed to stat image: %w", err)
	}

	if info.Size() == 0 || info.Size()%BlockSize != 0 {
		f.Close()

		return nil, fmt.Errorf("(blockstore-open) %w: %d bytes", ErrBadImage, info.Size())
	}

	fd := int(f.Fd())

	if err := h.unixHandler.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()

		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("(blockstore-open) %w: %s", ErrLocked, path)
		}

		return nil, fmt.Errorf("(blockstore-open) failed to lock image: %w", err)
	}

	dev := &FileDevice{
		file:        f,
		fd:          fd,
		blocks:      int(info.Size() / BlockSize),
		unixHandler: h.unixHandler,
	}

	slog.Debug("Opened block device",
		"path", path,
		"blocks", dev.blocks,
	)

	return dev, nil
}

// Blocks returns the amount of blocks of the device.
func (d *FileDevice) Blocks() int {
	return d.blocks
}

// ReadBlock reads the block at index into buf, which must be exactly
// [BlockSize] bytes long.
func (d *FileDevice) ReadBlock(index int, buf []byte) error {
	if err := checkTransfer(index, buf, d.blocks); err != nil {
		return fmt.Errorf("(blockstore-read) %w", err)
	}

	n, err := d.unixHandler.Pread(d.fd, buf, int64(index)*BlockSize)
	if err != nil {
		return fmt.Errorf("(blockstore-read) block %d: %w", index, err)
	}

	if n != BlockSize {
		return fmt.Errorf("(blockstore-read) %w: block %d (%d bytes)", ErrShortTransfer, index, n)
	}

	return nil
}

// WriteBlock writes buf, which must be exactly [BlockSize] bytes long, to the
// block at index.
func (d *FileDevice) WriteBlock(index int, buf []byte) error {
	if err := checkTransfer(index, buf, d.blocks); err != nil {
		return fmt.Errorf("(blockstore-write) %w", err)
	}

	n, err := d.unixHandler.Pwrite(d.fd, buf, int64(index)*BlockSize)
	if err != nil {
		return fmt.Errorf("(blockstore-write) block %d: %w", index, err)
	}

	if n != BlockSize {
		return fmt.Errorf("(blockstore-write) %w: block %d (%d bytes)", ErrShortTransfer, index, n)
	}

	return nil
}

// Close syncs the image, releases the lock and closes the underlying file.
func (d *FileDevice) Close() error {
	var errs []error

	if err := d.unixHandler.Fsync(d.fd); err != nil {
		errs = append(errs, fmt.Errorf("failed to sync: %w", err))
	}

	if err := d.unixHandler.Flock(d.fd, unix.LOCK_UN); err != nil {
		errs = append(errs, fmt.Errorf("failed to unlock: %w", err))
	}

	if err := d.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("(blockstore-close) %w", err)
	}

	return nil
}
