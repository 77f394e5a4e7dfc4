package allocation

import "errors"

var (
	// ErrNoFreeBlock is an error that occurs when every bit of the bitmap is
	// already in use.
	ErrNoFreeBlock = errors.New("no free data block in bitmap")

	// ErrBeyondPartition is an error that occurs when the first free bit maps
	// to a block past the end of the partition.
	ErrBeyondPartition = errors.New("candidate block lies beyond the partition")

	// ErrReadBack is an error that occurs when a candidate block cannot be
	// read back from the device.
	ErrReadBack = errors.New("candidate block failed read-back")

	// ErrBitOutOfRange is an error that occurs when a bit or block outside
	// of the bitmap is addressed.
	ErrBitOutOfRange = errors.New("bit out of bitmap range")
)
