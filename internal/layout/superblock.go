package layout

import (
	"encoding/binary"
	"fmt"

	"github.com/desertwitch/simfs/internal/allocation"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Magic identifies a block 0 holding a superblock ("SIMF").
const Magic uint32 = 0x53494d46

// ChecksumSize is the size of the metadata region checksum.
const ChecksumSize = 32

// superblock offsets inside block 0.
const (
	sbMagic     = 0
	sbMounted   = sbMagic + 4
	sbBitmap    = sbMounted + 1
	sbNumItems  = sbBitmap + (MaxInodes+7)/8
	sbPartition = sbNumItems + 4
	sbVolumeID  = sbPartition + 4
	sbChecksum  = sbVolumeID + 16
	sbEnd       = sbChecksum + ChecksumSize
)

// Superblock holds the volume-wide state.
type Superblock struct {
	Mounted         bool
	Bitmap          *allocation.Bitmap
	NumItems        int
	PartitionBlocks int
	VolumeID        uuid.UUID
	Checksum        [ChecksumSize]byte
}

// NewSuperblock returns a fresh, unmounted [Superblock] for a partition of
// partitionBlocks blocks, holding only the root directory.
func NewSuperblock(partitionBlocks int) Superblock {
	return Superblock{
		Bitmap:          allocation.NewBitmap(MaxInodes),
		NumItems:        1,
		PartitionBlocks: partitionBlocks,
		VolumeID:        uuid.New(),
	}
}

// Encode serializes the superblock into b. The rest of the block is zeroed.
func (sb *Superblock) Encode(b *[BlockSize]byte) {
	clear(b[:])

	binary.LittleEndian.PutUint32(b[sbMagic:], Magic)
	if sb.Mounted {
		b[sbMounted] = 1
	}
	copy(b[sbBitmap:sbNumItems], sb.Bitmap.Bytes())
	binary.LittleEndian.PutUint32(b[sbNumItems:], uint32(sb.NumItems))       //nolint:gosec
	binary.LittleEndian.PutUint32(b[sbPartition:], uint32(sb.PartitionBlocks)) //nolint:gosec
	copy(b[sbVolumeID:sbChecksum], sb.VolumeID[:])
	copy(b[sbChecksum:sbEnd], sb.Checksum[:])
}

// DecodeSuperblock deserializes block 0. It fails with [ErrBadMagic] if the
// block does not hold a superblock.
func DecodeSuperblock(b *[BlockSize]byte) (Superblock, error) {
	magic := binary.LittleEndian.Uint32(b[sbMagic:])
	if magic != Magic {
		return Superblock{}, fmt.Errorf("decoding superblock: %w", ErrBadMagic{magic})
	}

	sb := Superblock{
		Mounted:         b[sbMounted] != 0,
		Bitmap:          allocation.BitmapFromBytes(b[sbBitmap:sbNumItems], MaxInodes),
		NumItems:        int(binary.LittleEndian.Uint32(b[sbNumItems:])),
		PartitionBlocks: int(binary.LittleEndian.Uint32(b[sbPartition:])),
	}
	copy(sb.VolumeID[:], b[sbVolumeID:sbChecksum])
	copy(sb.Checksum[:], b[sbChecksum:sbEnd])

	if sb.NumItems < 1 || sb.NumItems > MaxInodes {
		return Superblock{}, fmt.Errorf("decoding superblock: %w: item count %d", ErrBadRecord, sb.NumItems)
	}

	if sb.PartitionBlocks < MinPartitionBlocks || sb.PartitionBlocks > MaxPartitionBlocks {
		return Superblock{}, fmt.Errorf("decoding superblock: %w: partition of %d blocks", ErrBadRecord, sb.PartitionBlocks)
	}

	return sb, nil
}

// Checksum returns the BLAKE3 digest of a serialized metadata region.
func Checksum(region []byte) [ChecksumSize]byte {
	return blake3.Sum256(region)
}
