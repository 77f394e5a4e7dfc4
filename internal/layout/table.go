package layout

import "fmt"

// Table is the fixed-capacity inode table. The slot position of an occupied
// inode always equals its ID.
type Table struct {
	inodes [MaxInodes]Inode
}

// NewTable returns a pointer to a new [Table] with every slot free.
func NewTable() *Table {
	t := &Table{}
	for i := range t.inodes {
		t.inodes[i] = FreeInode()
	}

	return t
}

// Get returns the inode in slot, or false if slot is outside of the table.
func (t *Table) Get(slot int) (*Inode, bool) {
	if slot < 0 || slot >= MaxInodes {
		return nil, false
	}

	return &t.inodes[slot], true
}

// Occupied returns the occupied inode in slot, or false if slot is outside
// of the table or free.
func (t *Table) Occupied(slot int) (*Inode, bool) {
	inode, ok := t.Get(slot)
	if !ok || inode.IsFree() {
		return nil, false
	}

	return inode, true
}

// FirstFree returns the first unoccupied slot, or false if the table is full.
func (t *Table) FirstFree() (int, bool) {
	for slot := range t.inodes {
		if t.inodes[slot].IsFree() {
			return slot, true
		}
	}

	return 0, false
}

// Lookup returns the slot of the inode whose path equals path exactly.
func (t *Table) Lookup(path string) (int, bool) {
	if path == "" {
		return 0, false
	}

	for slot := range t.inodes {
		if t.inodes[slot].Path == path {
			return slot, true
		}
	}

	return 0, false
}

// LookupKind returns the slot of the inode of kind whose path equals path
// exactly.
func (t *Table) LookupKind(path string, kind Kind) (int, bool) {
	slot, ok := t.Lookup(path)
	if !ok || t.inodes[slot].Kind != kind {
		return 0, false
	}

	return slot, true
}

// Put stores inode in slot, setting its ID to slot.
func (t *Table) Put(slot int, inode Inode) {
	inode.ID = slot
	t.inodes[slot] = inode
}

// Zero frees slot entirely.
func (t *Table) Zero(slot int) {
	t.inodes[slot] = FreeInode()
}

// Count returns the amount of occupied slots.
func (t *Table) Count() int {
	n := 0
	for slot := range t.inodes {
		if !t.inodes[slot].IsFree() {
			n++
		}
	}

	return n
}

// Each calls fn for every occupied slot in ascending order.
func (t *Table) Each(fn func(slot int, inode *Inode)) {
	for slot := range t.inodes {
		if !t.inodes[slot].IsFree() {
			fn(slot, &t.inodes[slot])
		}
	}
}

// Encode packs the whole table into the metadata region, [MetadataBlocks]
// blocks of [InodesPerBlock] records each.
func (t *Table) Encode() []byte {
	region := make([]byte, MetadataBlocks*BlockSize)

	for slot := range t.inodes {
		t.inodes[slot].Encode(region[recordOffset(slot):])
	}

	return region
}

// DecodeTable unpacks a metadata region produced by [Table.Encode].
func DecodeTable(region []byte) (*Table, error) {
	if len(region) != MetadataBlocks*BlockSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrRegionSize, len(region))
	}

	t := &Table{}
	for slot := range t.inodes {
		inode, err := DecodeInode(region[recordOffset(slot):], slot)
		if err != nil {
			return nil, err
		}
		t.inodes[slot] = inode
	}

	return t, nil
}

// recordOffset returns the byte offset of slot inside the metadata region.
func recordOffset(slot int) int {
	block := slot / InodesPerBlock
	pos := slot % InodesPerBlock

	return block*BlockSize + pos*RecordSize
}
