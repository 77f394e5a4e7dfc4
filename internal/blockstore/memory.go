package blockstore

import (
	"bytes"
	"fmt"
)

// MemoryDevice is a [Device] held entirely in memory. A new device is filled
// with [FillByte], like a freshly created image.
type MemoryDevice struct {
	data [][]byte
}

// NewMemoryDevice returns a pointer to a new [MemoryDevice] of the given
// amount of blocks.
func NewMemoryDevice(blocks int) *MemoryDevice {
	data := make([][]byte, blocks)
	for i := range data {
		data[i] = bytes.Repeat([]byte{FillByte}, BlockSize)
	}

	return &MemoryDevice{data: data}
}

// Blocks returns the amount of blocks of the device.
func (d *MemoryDevice) Blocks() int {
	return len(d.data)
}

// ReadBlock copies the block at index into buf.
func (d *MemoryDevice) ReadBlock(index int, buf []byte) error {
	if err := checkTransfer(index, buf, len(d.data)); err != nil {
		return fmt.Errorf("(blockstore-memread) %w", err)
	}

	copy(buf, d.data[index])

	return nil
}

// WriteBlock copies buf into the block at index.
func (d *MemoryDevice) WriteBlock(index int, buf []byte) error {
	if err := checkTransfer(index, buf, len(d.data)); err != nil {
		return fmt.Errorf("(blockstore-memwrite) %w", err)
	}

	copy(d.data[index], buf)

	return nil
}

// Close is a no-op for a [MemoryDevice].
func (d *MemoryDevice) Close() error {
	return nil
}
