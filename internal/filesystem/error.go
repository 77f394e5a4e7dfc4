package filesystem

import (
	"errors"

	"github.com/desertwitch/simfs/internal/pathing"
)

var (
	// ErrNotMounted is an error that occurs when an operation is attempted
	// while the file system is not mounted.
	ErrNotMounted = errors.New("file system is not mounted")

	// ErrAlreadyMounted is an error that occurs when mounting a file system
	// that is already mounted.
	ErrAlreadyMounted = errors.New("file system is already mounted")

	// ErrNotFormatted is an error that occurs when mounting without a prior
	// format, or attaching a device whose block 0 holds no superblock.
	ErrNotFormatted = errors.New("file system is not formatted")

	// ErrInvalidSize is an error that occurs when a device size is out of
	// range or not a multiple of the block size.
	ErrInvalidSize = errors.New("invalid device size")

	// ErrCapacity is an error that occurs when the inode table is full.
	ErrCapacity = errors.New("inode table is full")

	// ErrNameTooLong is an error that occurs when a path or one of its
	// elements exceeds the length limits.
	ErrNameTooLong = pathing.ErrNameTooLong

	// ErrPathTooDeep is an error that occurs when a path is nested deeper
	// than allowed.
	ErrPathTooDeep = pathing.ErrPathTooDeep

	// ErrInvalidPath is an error that occurs when a path is malformed or
	// names the root where that is not allowed.
	ErrInvalidPath = pathing.ErrInvalidPath

	// ErrParentNotFound is an error that occurs when the directory that
	// should contain a new inode does not exist.
	ErrParentNotFound = errors.New("parent directory not found")

	// ErrAlreadyExists is an error that occurs when creating an inode whose
	// path is already in use.
	ErrAlreadyExists = errors.New("path already exists")

	// ErrNotFound is an error that occurs when no inode matches a path or
	// descriptor.
	ErrNotFound = errors.New("no such file or directory")

	// ErrNotEmpty is an error that occurs when removing a directory that
	// still has children.
	ErrNotEmpty = errors.New("directory is not empty")

	// ErrNoSpace is an error that occurs when no data block or no directory
	// entry is left.
	ErrNoSpace = errors.New("no space left")

	// ErrFileOpen is an error that occurs when removing a file that is open.
	ErrFileOpen = errors.New("file is open")

	// ErrNotOpen is an error that occurs when reading, writing or seeking a
	// file that is not open.
	ErrNotOpen = errors.New("file is not open")

	// ErrBadDescriptor is an error that occurs when a descriptor lies
	// outside of the inode table or refers to something that is not a file.
	ErrBadDescriptor = errors.New("bad file descriptor")

	// ErrNotADirectory is an error that occurs when listing a file.
	ErrNotADirectory = errors.New("not a directory")

	// ErrOutOfBounds is an error that occurs when a seek would leave the
	// data block.
	ErrOutOfBounds = errors.New("seek out of bounds")

	// ErrInvalidArgument is an error that occurs when an operation receives
	// an argument it cannot work with, such as an unknown seek origin.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorruptState is an error that occurs when the inode table or the
	// superblock violate their structural invariants.
	ErrCorruptState = errors.New("corrupt file system state")

	// ErrDeviceIO is an error that occurs when the underlying block device
	// fails a read or write.
	ErrDeviceIO = errors.New("device i/o failure")
)
