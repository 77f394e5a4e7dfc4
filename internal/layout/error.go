package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRecord is an error that occurs when a packed inode record or the
	// superblock holds values that cannot belong to a valid volume.
	ErrBadRecord = errors.New("malformed record")

	// ErrBadKind is an error that occurs when an inode record carries a kind
	// that is neither a file nor a directory.
	ErrBadKind = errors.New("unrecognized inode kind")

	// ErrRegionSize is an error that occurs when a metadata region of the
	// wrong size is decoded.
	ErrRegionSize = errors.New("metadata region has wrong size")
)

// ErrBadMagic is an error that occurs when block 0 does not hold a
// superblock.
type ErrBadMagic struct {
	Found uint32
}

func (err ErrBadMagic) Error() string {
	return fmt.Sprintf(
		"bad magic: wanted `%#08x`; found `%#08x`",
		Magic,
		err.Found,
	)
}
