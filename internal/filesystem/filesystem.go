// Package filesystem implements the metadata engine of the simulated file
// system: formatting, mounting, the directory tree over the fixed inode table
// and single-block file I/O.
//
// Every mutation of the tree is written through to the device immediately:
// the whole metadata region followed by the superblock. A failed write leaves
// the in-memory state ahead of the device; nothing is rolled back.
//
// A [Handler] serves a single caller. Concurrent callers must serialize
// externally.
package filesystem

import (
	"fmt"
	"log/slog"

	"github.com/desertwitch/simfs/internal/allocation"
	"github.com/desertwitch/simfs/internal/layout"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

type blockDevice interface {
	ReadBlock(index int, buf []byte) error
	WriteBlock(index int, buf []byte) error
}

// Handler is the principal implementation of the file system. It holds the
// in-memory inode table and superblock of one volume.
type Handler struct {
	device       blockDevice
	allocHandler *allocation.Handler

	sb        layout.Superblock
	table     *layout.Table
	formatted bool
}

// NewHandler returns a pointer to a new, unformatted [Handler] operating on
// the given device.
func NewHandler(device blockDevice) *Handler {
	return &Handler{
		device:       device,
		allocHandler: allocation.NewHandler(device, layout.FirstDataBlock, layout.BlockSize),
	}
}

// Mkfs formats the volume in memory for a device of deviceSize bytes. The
// size must lie within [layout.MinDeviceSize] and [layout.MaxDeviceSize] and
// be a multiple of [layout.BlockSize]; otherwise nothing is changed. Nothing
// is written to the device until [Handler.Mount].
func (h *Handler) Mkfs(deviceSize int64) error {
	if deviceSize < layout.MinDeviceSize || deviceSize > layout.MaxDeviceSize {
		return fmt.Errorf("(fs-mkfs) %w: %s not within %s and %s", ErrInvalidSize,
			humanize.Comma(deviceSize),
			humanize.Comma(layout.MinDeviceSize),
			humanize.Comma(layout.MaxDeviceSize),
		)
	}

	if deviceSize%layout.BlockSize != 0 {
		return fmt.Errorf("(fs-mkfs) %w: %s is not a multiple of %d", ErrInvalidSize,
			humanize.Comma(deviceSize), layout.BlockSize)
	}

	table := layout.NewTable()

	root := layout.FreeInode()
	root.Kind = layout.KindDirectory
	root.Path = layout.RootPath
	table.Put(layout.RootInode, root)

	h.table = table
	h.sb = layout.NewSuperblock(int(deviceSize / layout.BlockSize))
	h.formatted = true

	slog.Info("Formatted file system",
		"size", humanize.IBytes(uint64(deviceSize)),
		"blocks", h.sb.PartitionBlocks,
		"volume", h.sb.VolumeID,
	)

	return nil
}

// Mount writes the whole in-memory state to the device and marks the volume
// as mounted.
func (h *Handler) Mount() error {
	if !h.formatted {
		return fmt.Errorf("(fs-mount) %w", ErrNotFormatted)
	}

	if h.sb.Mounted {
		return fmt.Errorf("(fs-mount) %w", ErrAlreadyMounted)
	}

	h.sb.Mounted = true

	if err := h.flush(); err != nil {
		h.sb.Mounted = false

		return fmt.Errorf("(fs-mount) %w", err)
	}

	slog.Info("Mounted file system",
		"volume", h.sb.VolumeID,
		"items", h.sb.NumItems,
	)

	return nil
}

// Unmount blanks the superblock on the device and marks the volume as not
// mounted. The in-memory state is kept, but operations are refused until the
// volume is mounted again.
func (h *Handler) Unmount() error {
	if !h.sb.Mounted {
		return fmt.Errorf("(fs-unmount) %w", ErrNotMounted)
	}

	if err := h.device.WriteBlock(layout.SuperblockIndex, make([]byte, layout.BlockSize)); err != nil {
		return fmt.Errorf("(fs-unmount) %w: %w", ErrDeviceIO, err)
	}

	h.sb.Mounted = false

	slog.Info("Unmounted file system",
		"volume", h.sb.VolumeID,
	)

	return nil
}

// IsMounted reports whether the volume is mounted.
func (h *Handler) IsMounted() bool {
	return h.sb.Mounted
}

// flush writes the whole metadata region and then the superblock, which
// carries the checksum of that region.
func (h *Handler) flush() error {
	region := h.table.Encode()
	h.sb.Checksum = layout.Checksum(region)

	for i := range layout.MetadataBlocks {
		block := region[i*layout.BlockSize : (i+1)*layout.BlockSize]
		if err := h.device.WriteBlock(layout.FirstInodeBlock+i, block); err != nil {
			slog.Warn("Write-through of metadata block failed",
				"block", layout.FirstInodeBlock+i,
				"err", err,
			)

			return fmt.Errorf("%w: %w", ErrDeviceIO, err)
		}
	}

	var sbBlock [layout.BlockSize]byte
	h.sb.Encode(&sbBlock)

	if err := h.device.WriteBlock(layout.SuperblockIndex, sbBlock[:]); err != nil {
		slog.Warn("Write-through of superblock failed",
			"err", err,
		)

		return fmt.Errorf("%w: %w", ErrDeviceIO, err)
	}

	return nil
}

// Stats is a snapshot of the volume state. It is meant to be passed by value.
type Stats struct {
	Formatted       bool
	Mounted         bool
	Items           int
	FreeInodes      int
	PartitionBlocks int
	DataBlocks      int
	UsedDataBlocks  int
	VolumeID        uuid.UUID
}

// Stat returns a [Stats] snapshot of the volume.
func (h *Handler) Stat() Stats {
	if !h.formatted {
		return Stats{}
	}

	dataBlocks := min(h.sb.PartitionBlocks-layout.FirstDataBlock, h.sb.Bitmap.Size())

	return Stats{
		Formatted:       true,
		Mounted:         h.sb.Mounted,
		Items:           h.sb.NumItems,
		FreeInodes:      layout.MaxInodes - h.sb.NumItems,
		PartitionBlocks: h.sb.PartitionBlocks,
		DataBlocks:      max(dataBlocks, 0),
		UsedDataBlocks:  h.sb.Bitmap.Used(),
		VolumeID:        h.sb.VolumeID,
	}
}
