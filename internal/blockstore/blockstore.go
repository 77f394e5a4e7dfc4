// Package blockstore implements the block-addressable storage the file system
// is built on. A device is read and written in whole blocks of [BlockSize]
// bytes; every transfer either completes in full or returns an error.
package blockstore

import (
	"fmt"
	"os"
)

const (
	// BlockSize is the size of a single block in bytes.
	BlockSize = 2048

	// FillByte is the byte a freshly created image is filled with.
	FillByte = '0'
)

// Device is a block-addressable storage device.
type Device interface {
	ReadBlock(index int, buf []byte) error
	WriteBlock(index int, buf []byte) error
	Blocks() int
	Close() error
}

type osProvider interface {
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
}

type unixProvider interface {
	Pread(fd int, p []byte, offset int64) (int, error)
	Pwrite(fd int, p []byte, offset int64) (int, error)
	Flock(fd int, how int) error
	Fsync(fd int) error
}

// Handler is the principal implementation for opening and creating
// file-backed block devices.
type Handler struct {
	osHandler   osProvider
	unixHandler unixProvider
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(osHandler osProvider, unixHandler unixProvider) *Handler {
	return &Handler{
		osHandler:   osHandler,
		unixHandler: unixHandler,
	}
}

// checkTransfer validates a block index and buffer against a device of
// the given amount of blocks.
func checkTransfer(index int, buf []byte, blocks int) error {
	if index < 0 || index >= blocks {
		return fmt.Errorf("%w: %d (device has %d blocks)", ErrOutOfRange, index, blocks)
	}

	if len(buf) != BlockSize {
		return fmt.Errorf("%w: %d bytes", ErrBadBuffer, len(buf))
	}

	return nil
}
