// Package layout describes the on-device format of the file system: the
// superblock in block 0, the packed inode table in the metadata blocks that
// follow it, and the data blocks after those.
package layout

import "github.com/desertwitch/simfs/internal/blockstore"

const (
	// BlockSize is the size of a single device block in bytes.
	BlockSize = blockstore.BlockSize

	// MaxInodes is the fixed capacity of the inode table.
	MaxInodes = 40

	// InodesPerBlock is the amount of inode records packed into one block.
	InodesPerBlock = 5

	// RecordSize is the size of one packed inode record slot.
	RecordSize = BlockSize / InodesPerBlock

	// SuperblockIndex is the block holding the superblock.
	SuperblockIndex = 0

	// FirstInodeBlock is the first block of the metadata region.
	FirstInodeBlock = 1

	// MetadataBlocks is the amount of blocks holding the inode table.
	MetadataBlocks = MaxInodes / InodesPerBlock

	// FirstDataBlock is the first block available for file contents.
	FirstDataBlock = FirstInodeBlock + MetadataBlocks

	// MaxChildren is the capacity of a directory.
	MaxChildren = 10

	// MaxFilePath is the maximum length of a file path.
	MaxFilePath = 132

	// MaxDirPath is the maximum length of a directory path.
	MaxDirPath = 99

	// MaxDepth is the maximum amount of separators in a path.
	MaxDepth = 5

	// MaxNameLength is the maximum length of a single path element.
	MaxNameLength = 32

	// MinDeviceSize is the smallest formattable device size in bytes.
	MinDeviceSize = 50000

	// MaxDeviceSize is the largest formattable device size in bytes.
	MaxDeviceSize = 10000000

	// MinPartitionBlocks is the block count of the smallest formattable device.
	MinPartitionBlocks = (MinDeviceSize + BlockSize - 1) / BlockSize

	// MaxPartitionBlocks is the block count of the largest formattable device.
	MaxPartitionBlocks = MaxDeviceSize / BlockSize

	// NoInode marks an unused parent or child reference.
	NoInode = -1

	// NoBlock marks an inode without a data block.
	NoBlock = -1

	// RootInode is the table slot of the root directory.
	RootInode = 0

	// RootPath is the path of the root directory.
	RootPath = "/"

	// Separator is the path element separator.
	Separator = '/'
)
