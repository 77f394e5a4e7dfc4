// Package allocation implements the data block allocation of the file system.
// Each file owns exactly one data block; bit i of the [Bitmap] corresponds to
// the device block at firstDataBlock+i.
package allocation

import (
	"fmt"
	"log/slog"
)

type blockReader interface {
	ReadBlock(index int, buf []byte) error
}

// Handler is the principal implementation for data block allocation.
type Handler struct {
	device         blockReader
	firstDataBlock int
	blockSize      int
}

// NewHandler returns a pointer to a new allocation [Handler]. Data blocks are
// offset by firstDataBlock and are blockSize bytes long.
func NewHandler(device blockReader, firstDataBlock int, blockSize int) *Handler {
	return &Handler{
		device:         device,
		firstDataBlock: firstDataBlock,
		blockSize:      blockSize,
	}
}

// Allocate claims the first free bit of bm and returns the device block it
// stands for. The candidate block must lie inside a partition of
// partitionBlocks blocks and must be readable, otherwise nothing is claimed.
func (h *Handler) Allocate(bm *Bitmap, partitionBlocks int) (int, error) {
	bit, ok := bm.FirstFree()
	if !ok {
		return 0, fmt.Errorf("(alloc) %w", ErrNoFreeBlock)
	}

	block := h.firstDataBlock + bit
	if block >= partitionBlocks {
		return 0, fmt.Errorf("(alloc) %w: block %d of %d", ErrBeyondPartition, block, partitionBlocks)
	}

	buf := make([]byte, h.blockSize)
	if err := h.device.ReadBlock(block, buf); err != nil {
		return 0, fmt.Errorf("(alloc) %w: block %d: %w", ErrReadBack, block, err)
	}

	if err := bm.Set(bit); err != nil {
		return 0, fmt.Errorf("(alloc) %w", err)
	}

	slog.Debug("Allocated data block",
		"block", block,
		"bit", bit,
	)

	return block, nil
}

// Release frees the bit of bm that stands for the given device block.
func (h *Handler) Release(bm *Bitmap, block int) error {
	if err := bm.Clear(block - h.firstDataBlock); err != nil {
		return fmt.Errorf("(alloc-release) block %d: %w", block, err)
	}

	slog.Debug("Released data block",
		"block", block,
	)

	return nil
}

// Block returns the device block standing for bit.
func (h *Handler) Block(bit int) int {
	return h.firstDataBlock + bit
}
