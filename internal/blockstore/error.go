package blockstore

import "errors"

var (
	// ErrOutOfRange is an error that occurs when a block index lies outside
	// of the device.
	ErrOutOfRange = errors.New("block index out of range")

	// ErrShortTransfer is an error that occurs when fewer than [BlockSize]
	// bytes were read from or written to the device.
	ErrShortTransfer = errors.New("short block transfer")

	// ErrBadBuffer is an error that occurs when a caller passes a buffer
	// that is not exactly [BlockSize] bytes long.
	ErrBadBuffer = errors.New("buffer is not block sized")

	// ErrBadImage is an error that occurs when an image file is empty or its
	// size is not a multiple of [BlockSize].
	ErrBadImage = errors.New("image size is not a multiple of the block size")

	// ErrLocked is an error that occurs when the image is already held by
	// another process.
	ErrLocked = errors.New("image is locked by another process")

	// ErrInvalidBlockCount is an error that occurs when an image is requested
	// with a block count smaller than one.
	ErrInvalidBlockCount = errors.New("invalid block count < 1")
)
