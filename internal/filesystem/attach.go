package filesystem

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/desertwitch/simfs/internal/layout"
)

// sizedDevice is a [blockDevice] that knows its own block count.
type sizedDevice interface {
	Blocks() int
}

// Attach returns a pointer to a new [Handler] rebuilt from a device that
// still carries a superblock, such as an image whose volume was never
// unmounted. The stored checksum must match the metadata region and the
// decoded table must pass [Handler.Verify].
func Attach(device blockDevice) (*Handler, error) {
	h := NewHandler(device)

	var sbBlock [layout.BlockSize]byte
	if err := device.ReadBlock(layout.SuperblockIndex, sbBlock[:]); err != nil {
		return nil, fmt.Errorf("(fs-attach) %w: %w", ErrDeviceIO, err)
	}

	sb, err := layout.DecodeSuperblock(&sbBlock)
	if err != nil {
		var magicErr layout.ErrBadMagic
		if errors.As(err, &magicErr) {
			return nil, fmt.Errorf("(fs-attach) %w: %w", ErrNotFormatted, err)
		}

		return nil, fmt.Errorf("(fs-attach) %w: %w", ErrCorruptState, err)
	}

	if sized, ok := device.(sizedDevice); ok && sb.PartitionBlocks > sized.Blocks() {
		return nil, fmt.Errorf("(fs-attach) %w: partition of %d blocks exceeds device of %d blocks",
			ErrCorruptState, sb.PartitionBlocks, sized.Blocks())
	}

	region := make([]byte, layout.MetadataBlocks*layout.BlockSize)
	for i := range layout.MetadataBlocks {
		block := region[i*layout.BlockSize : (i+1)*layout.BlockSize]
		if err := device.ReadBlock(layout.FirstInodeBlock+i, block); err != nil {
			return nil, fmt.Errorf("(fs-attach) %w: %w", ErrDeviceIO, err)
		}
	}

	if layout.Checksum(region) != sb.Checksum {
		return nil, fmt.Errorf("(fs-attach) %w: metadata checksum mismatch", ErrCorruptState)
	}

	table, err := layout.DecodeTable(region)
	if err != nil {
		return nil, fmt.Errorf("(fs-attach) %w: %w", ErrCorruptState, err)
	}

	h.sb = sb
	h.table = table
	h.formatted = true

	if err := h.Verify(); err != nil {
		return nil, fmt.Errorf("(fs-attach) %w", err)
	}

	slog.Info("Attached file system",
		"volume", sb.VolumeID,
		"items", sb.NumItems,
		"mounted", sb.Mounted,
	)

	return h, nil
}
