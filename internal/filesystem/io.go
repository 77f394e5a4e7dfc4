package filesystem

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/desertwitch/simfs/internal/layout"
	"github.com/desertwitch/simfs/internal/pathing"
)

// Seek origins for [Handler.LseekFile].
const (
	SeekCur   = 0
	SeekEnd   = 1
	SeekBegin = 2
)

// OpenFile opens the file at path, resets its seek offset and returns its
// descriptor, which is the inode's table index.
func (h *Handler) OpenFile(path string) (int, error) {
	if !h.sb.Mounted {
		return 0, fmt.Errorf("(fs-open) %w", ErrNotMounted)
	}

	slot, ok := h.table.LookupKind(pathing.Clean(path), layout.KindFile)
	if !ok {
		return 0, fmt.Errorf("(fs-open) %w: %s", ErrNotFound, path)
	}

	inode, _ := h.table.Get(slot)
	inode.Opened = true
	inode.Seek = 0

	slog.Debug("Opened file",
		"path", inode.Path,
		"fd", slot,
	)

	return slot, nil
}

// CloseFile closes the file behind fd. Only descriptors returned by
// [Handler.OpenFile] should be passed; beyond the table bounds and the kind
// of the slot nothing is checked. Closing works while unmounted, so files
// left open can still be released.
func (h *Handler) CloseFile(fd int) error {
	inode, err := h.descriptor(fd)
	if err != nil {
		return fmt.Errorf("(fs-close) %w", err)
	}

	inode.Opened = false

	slog.Debug("Closed file",
		"path", inode.Path,
		"fd", fd,
	)

	return nil
}

// ReadFile reads up to n bytes into buf from the current seek offset of fd,
// never past the end of the data block. It returns the amount of bytes read
// and advances the seek offset by it.
func (h *Handler) ReadFile(fd int, buf []byte, n int) (int, error) {
	inode, err := h.openDescriptor(fd)
	if err != nil {
		return 0, fmt.Errorf("(fs-read) %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("(fs-read) %w: %d bytes", ErrInvalidArgument, n)
	}

	n = min(n, layout.BlockSize-inode.Seek, len(buf))

	scratch := make([]byte, layout.BlockSize)
	if err := h.device.ReadBlock(inode.Block, scratch); err != nil {
		return 0, fmt.Errorf("(fs-read) %w: %w", ErrDeviceIO, err)
	}

	copy(buf[:n], scratch[inode.Seek:inode.Seek+n])
	inode.Seek += n

	return n, nil
}

// WriteFile writes up to n bytes of buf at the current seek offset of fd,
// never past the end of the data block. buf is treated as text: nothing from
// its first NUL byte onwards is written. It returns the amount of bytes
// written and advances the seek offset by it.
func (h *Handler) WriteFile(fd int, buf []byte, n int) (int, error) {
	inode, err := h.openDescriptor(fd)
	if err != nil {
		return 0, fmt.Errorf("(fs-write) %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("(fs-write) %w: %d bytes", ErrInvalidArgument, n)
	}

	n = min(n, layout.BlockSize-inode.Seek, len(buf))
	if end := bytes.IndexByte(buf[:n], 0); end >= 0 {
		n = end
	}

	if n == 0 {
		return 0, nil
	}

	scratch := make([]byte, layout.BlockSize)
	if err := h.device.ReadBlock(inode.Block, scratch); err != nil {
		return 0, fmt.Errorf("(fs-write) %w: %w", ErrDeviceIO, err)
	}

	copy(scratch[inode.Seek:], buf[:n])

	if err := h.device.WriteBlock(inode.Block, scratch); err != nil {
		return 0, fmt.Errorf("(fs-write) %w: %w", ErrDeviceIO, err)
	}

	inode.Seek += n

	return n, nil
}

// LseekFile moves the seek offset of fd. [SeekCur] adds offset to it,
// [SeekEnd] moves it to the end of the block and [SeekBegin] to its start.
// A result outside of the block is rejected and leaves the offset unchanged.
func (h *Handler) LseekFile(fd int, offset int64, whence int) error {
	inode, err := h.openDescriptor(fd)
	if err != nil {
		return fmt.Errorf("(fs-lseek) %w", err)
	}

	var pos int64

	switch whence {
	case SeekCur:
		pos = int64(inode.Seek) + offset
	case SeekEnd:
		pos = layout.BlockSize
	case SeekBegin:
		pos = 0
	default:
		return fmt.Errorf("(fs-lseek) %w: whence %d", ErrInvalidArgument, whence)
	}

	if pos < 0 || pos > layout.BlockSize {
		return fmt.Errorf("(fs-lseek) %w: %d", ErrOutOfBounds, pos)
	}

	inode.Seek = int(pos)

	return nil
}

// descriptor resolves fd to its file inode.
func (h *Handler) descriptor(fd int) (*layout.Inode, error) {
	if h.table == nil {
		return nil, fmt.Errorf("%w: %d", ErrBadDescriptor, fd)
	}

	inode, ok := h.table.Get(fd)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadDescriptor, fd)
	}

	if !inode.IsFree() && !inode.IsFile() {
		return nil, fmt.Errorf("%w: %d is a %s", ErrBadDescriptor, fd, inode.Kind)
	}

	return inode, nil
}

// openDescriptor resolves fd to an existing, open file inode on a mounted
// volume.
func (h *Handler) openDescriptor(fd int) (*layout.Inode, error) {
	if h.table == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, fd)
	}

	inode, ok := h.table.Occupied(fd)
	if !ok || !inode.IsFile() {
		return nil, fmt.Errorf("%w: descriptor %d", ErrNotFound, fd)
	}

	if !h.sb.Mounted {
		return nil, ErrNotMounted
	}

	if !inode.Opened {
		return nil, fmt.Errorf("%w: %s", ErrNotOpen, inode.Path)
	}

	return inode, nil
}
