package allocation

import (
	"fmt"

	"github.com/diskfs/go-diskfs/util/bitmap"
)

// Bitmap is a fixed-size bit-vector marking which data blocks are in use.
// Bit i lives in byte i/8 at position i%8 (least significant bit first).
type Bitmap struct {
	bits *bitmap.Bitmap
	size int
}

// NewBitmap returns a pointer to a new, all-clear [Bitmap] of size bits.
func NewBitmap(size int) *Bitmap {
	return &Bitmap{
		bits: bitmap.NewBits(size),
		size: size,
	}
}

// BitmapFromBytes returns a pointer to a new [Bitmap] of size bits, loaded
// from its serialized form. Bytes beyond the needed length are ignored.
func BitmapFromBytes(b []byte, size int) *Bitmap {
	buf := make([]byte, ByteLen(size))
	copy(buf, b)

	bits := bitmap.NewBits(size)
	bits.FromBytes(buf)

	return &Bitmap{
		bits: bits,
		size: size,
	}
}

// ByteLen returns the amount of bytes needed to hold size bits.
func ByteLen(size int) int {
	return (size + 7) / 8 //nolint:mnd
}

// Size returns the amount of bits in the [Bitmap].
func (b *Bitmap) Size() int {
	return b.size
}

// Bytes returns a copy of the serialized [Bitmap].
func (b *Bitmap) Bytes() []byte {
	out := make([]byte, ByteLen(b.size))
	copy(out, b.bits.ToBytes())

	return out
}

// IsSet reports whether bit i is set. Bits outside of the [Bitmap] are never
// set.
func (b *Bitmap) IsSet(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}

	set, err := b.bits.IsSet(i)

	return err == nil && set
}

// Set marks bit i as used.
func (b *Bitmap) Set(i int) error {
	if i < 0 || i >= b.size {
		return fmt.Errorf("(alloc-set) %w: %d", ErrBitOutOfRange, i)
	}

	if err := b.bits.Set(i); err != nil {
		return fmt.Errorf("(alloc-set) %w", err)
	}

	return nil
}

// Clear marks bit i as free.
func (b *Bitmap) Clear(i int) error {
	if i < 0 || i >= b.size {
		return fmt.Errorf("(alloc-clear) %w: %d", ErrBitOutOfRange, i)
	}

	if err := b.bits.Clear(i); err != nil {
		return fmt.Errorf("(alloc-clear) %w", err)
	}

	return nil
}

// FirstFree returns the lowest clear bit, or false if all bits are set.
func (b *Bitmap) FirstFree() (int, bool) {
	i := b.bits.FirstFree(0)
	if i < 0 || i >= b.size {
		return 0, false
	}

	return i, true
}

// Used returns the amount of set bits.
func (b *Bitmap) Used() int {
	used := 0
	for i := range b.size {
		if b.IsSet(i) {
			used++
		}
	}

	return used
}
