package layout

import (
	"encoding/binary"
	"fmt"
)

// Kind is the type of an inode.
type Kind byte

const (
	// KindFree marks an unoccupied table slot.
	KindFree Kind = 0

	// KindFile marks a file inode.
	KindFile Kind = 'F'

	// KindDirectory marks a directory inode.
	KindDirectory Kind = 'D'
)

func (k Kind) String() string {
	switch k {
	case KindFree:
		return "free"
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return fmt.Sprintf("unknown(%#02x)", byte(k))
	}
}

// MaxPath returns the maximum path length for inodes of kind k.
func (k Kind) MaxPath() int {
	if k == KindDirectory {
		return MaxDirPath
	}

	return MaxFilePath
}

// Inode is one slot of the inode table. Parent and Children are indices into
// the same table and never imply ownership.
type Inode struct {
	ID       int
	Kind     Kind
	Path     string
	Parent   int
	Children [MaxChildren]int

	// Only used by files.
	Opened bool
	Seek   int
	Block  int
}

// FreeInode returns an unoccupied inode with all references cleared.
func FreeInode() Inode {
	inode := Inode{
		Parent: NoInode,
		Block:  NoBlock,
	}
	for i := range inode.Children {
		inode.Children[i] = NoInode
	}

	return inode
}

// IsFree reports whether the slot holding the inode is unoccupied.
func (i *Inode) IsFree() bool {
	return i.Path == ""
}

// IsDir reports whether the inode is a directory.
func (i *Inode) IsDir() bool {
	return i.Kind == KindDirectory
}

// IsFile reports whether the inode is a file.
func (i *Inode) IsFile() bool {
	return i.Kind == KindFile
}

// FreeChild returns the position of the first unused child reference, or
// false if the directory is full.
func (i *Inode) FreeChild() (int, bool) {
	for pos, child := range i.Children {
		if child == NoInode {
			return pos, true
		}
	}

	return 0, false
}

// HasChildren reports whether any child reference is in use.
func (i *Inode) HasChildren() bool {
	for _, child := range i.Children {
		if child != NoInode {
			return true
		}
	}

	return false
}

// record offsets inside a [RecordSize] slot.
const (
	recID       = 0
	recKind     = recID + 4
	recPathLen  = recKind + 1
	recPath     = recPathLen + 1
	recParent   = recPath + MaxFilePath
	recChildren = recParent + 4
	recOpened   = recChildren + 4*MaxChildren
	recSeek     = recOpened + 1
	recBlock    = recSeek + 4
	recEnd      = recBlock + 4
)

// Encode packs the inode into b, which must be at least [RecordSize] bytes.
// A free inode is encoded as all zeros.
func (i *Inode) Encode(b []byte) {
	clear(b[:RecordSize])

	if i.IsFree() {
		return
	}

	putInt(b[recID:], i.ID)
	b[recKind] = byte(i.Kind)
	b[recPathLen] = byte(len(i.Path))
	copy(b[recPath:recPath+MaxFilePath], i.Path)
	putInt(b[recParent:], i.Parent)
	for pos, child := range i.Children {
		putInt(b[recChildren+4*pos:], child)
	}
	if i.Opened {
		b[recOpened] = 1
	}
	putInt(b[recSeek:], i.Seek)
	putInt(b[recBlock:], i.Block)
}

// DecodeInode unpacks the record in b that was stored in table slot. Values
// that cannot belong to a valid inode are rejected.
func DecodeInode(b []byte, slot int) (Inode, error) {
	kind := Kind(b[recKind])
	pathLen := int(b[recPathLen])

	if kind == KindFree {
		if pathLen != 0 {
			return Inode{}, fmt.Errorf("%w: slot %d: free slot with path", ErrBadRecord, slot)
		}

		return FreeInode(), nil
	}

	if kind != KindFile && kind != KindDirectory {
		return Inode{}, fmt.Errorf("%w: slot %d: %s", ErrBadKind, slot, kind)
	}

	if pathLen == 0 || pathLen > kind.MaxPath() {
		return Inode{}, fmt.Errorf("%w: slot %d: path length %d", ErrBadRecord, slot, pathLen)
	}

	inode := Inode{
		ID:     getInt(b[recID:]),
		Kind:   kind,
		Path:   string(b[recPath : recPath+pathLen]),
		Parent: getInt(b[recParent:]),
		Opened: b[recOpened] != 0,
		Seek:   getInt(b[recSeek:]),
		Block:  getInt(b[recBlock:]),
	}
	for pos := range inode.Children {
		inode.Children[pos] = getInt(b[recChildren+4*pos:])
	}

	if inode.ID != slot {
		return Inode{}, fmt.Errorf("%w: slot %d: id %d", ErrBadRecord, slot, inode.ID)
	}

	if !validRef(inode.Parent) {
		return Inode{}, fmt.Errorf("%w: slot %d: parent %d", ErrBadRecord, slot, inode.Parent)
	}

	for _, child := range inode.Children {
		if !validRef(child) {
			return Inode{}, fmt.Errorf("%w: slot %d: child %d", ErrBadRecord, slot, child)
		}
	}

	if inode.Seek < 0 || inode.Seek > BlockSize {
		return Inode{}, fmt.Errorf("%w: slot %d: seek %d", ErrBadRecord, slot, inode.Seek)
	}

	return inode, nil
}

func validRef(ref int) bool {
	return ref == NoInode || (ref >= 0 && ref < MaxInodes)
}

func putInt(b []byte, v int) {
	binary.LittleEndian.PutUint32(b, uint32(int32(v))) //nolint:gosec
}

func getInt(b []byte) int {
	return int(int32(binary.LittleEndian.Uint32(b))) //nolint:gosec
}
