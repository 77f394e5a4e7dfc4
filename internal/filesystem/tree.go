package filesystem

import (
	"fmt"
	"log/slog"

	"github.com/desertwitch/simfs/internal/layout"
	"github.com/desertwitch/simfs/internal/pathing"
)

// Entry is one item of a directory listing.
type Entry struct {
	ID   int
	Name string
	Kind layout.Kind
}

// CreateFile creates an empty file at path and assigns it a data block.
func (h *Handler) CreateFile(path string) error {
	if err := h.create(path, layout.KindFile); err != nil {
		return fmt.Errorf("(fs-createfile) %w", err)
	}

	return nil
}

// MkDir creates an empty directory at path.
func (h *Handler) MkDir(path string) error {
	if err := h.create(path, layout.KindDirectory); err != nil {
		return fmt.Errorf("(fs-mkdir) %w", err)
	}

	return nil
}

// RemoveFile removes the closed file at path and blanks its data block.
func (h *Handler) RemoveFile(path string) error {
	if err := h.remove(path, layout.KindFile); err != nil {
		return fmt.Errorf("(fs-removefile) %w", err)
	}

	return nil
}

// RmDir removes the empty directory at path.
func (h *Handler) RmDir(path string) error {
	if err := h.remove(path, layout.KindDirectory); err != nil {
		return fmt.Errorf("(fs-rmdir) %w", err)
	}

	return nil
}

// LsDir lists the entries of the directory at path, in child slot order.
func (h *Handler) LsDir(path string) ([]Entry, error) {
	if !h.sb.Mounted {
		return nil, fmt.Errorf("(fs-lsdir) %w", ErrNotMounted)
	}

	slot, ok := h.table.Lookup(pathing.Clean(path))
	if !ok {
		return nil, fmt.Errorf("(fs-lsdir) %w: %s", ErrNotFound, path)
	}

	dir, _ := h.table.Get(slot)
	if dir.IsFile() {
		return nil, fmt.Errorf("(fs-lsdir) %w: %s", ErrNotADirectory, path)
	}

	entries := make([]Entry, 0, layout.MaxChildren)

	for _, ref := range dir.Children {
		if ref == layout.NoInode {
			continue
		}

		child, ok := h.table.Occupied(ref)
		if !ok {
			return nil, fmt.Errorf("(fs-lsdir) %w: %s references empty slot %d", ErrCorruptState, path, ref)
		}

		switch child.Kind {
		case layout.KindFile, layout.KindDirectory:
			entries = append(entries, Entry{
				ID:   child.ID,
				Name: pathing.Name(child.Path),
				Kind: child.Kind,
			})
		default:
			return nil, fmt.Errorf("(fs-lsdir) %w: slot %d has kind %s", ErrCorruptState, ref, child.Kind)
		}
	}

	return entries, nil
}

// create validates and links a new inode of kind at path, then writes the
// table through. The directory entry is reserved before any slot or data
// block is claimed, so a full directory leaks nothing.
func (h *Handler) create(path string, kind layout.Kind) error {
	if h.sb.NumItems >= layout.MaxInodes {
		return fmt.Errorf("%w: %d items", ErrCapacity, h.sb.NumItems)
	}

	if !h.sb.Mounted {
		return ErrNotMounted
	}

	clean, parentPath, _, err := pathing.Split(path, kind)
	if err != nil {
		return err
	}

	parentSlot, ok := h.table.LookupKind(parentPath, layout.KindDirectory)
	if !ok {
		return fmt.Errorf("%w: %s", ErrParentNotFound, parentPath)
	}

	if _, exists := h.table.Lookup(clean); exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, clean)
	}

	parent, _ := h.table.Get(parentSlot)

	childPos, ok := parent.FreeChild()
	if !ok {
		return fmt.Errorf("%w: not enough space in directory %s", ErrNoSpace, parentPath)
	}

	slot, ok := h.table.FirstFree()
	if !ok {
		return fmt.Errorf("%w: no free slot", ErrCapacity)
	}

	inode := layout.FreeInode()
	inode.Kind = kind
	inode.Path = clean
	inode.Parent = parentSlot

	if kind == layout.KindFile {
		block, err := h.allocHandler.Allocate(h.sb.Bitmap, h.sb.PartitionBlocks)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNoSpace, err)
		}
		inode.Block = block
	}

	h.table.Put(slot, inode)
	parent.Children[childPos] = slot
	h.sb.NumItems++

	if err := h.flush(); err != nil {
		return err
	}

	slog.Debug("Created inode",
		"path", clean,
		"kind", kind,
		"inode", slot,
		"parent", parentSlot,
		"block", inode.Block,
	)

	return nil
}

// remove unlinks and frees the inode of kind at path, then writes the table
// through. A file's data block is released and blanked on the device.
func (h *Handler) remove(path string, kind layout.Kind) error {
	if !h.sb.Mounted {
		return ErrNotMounted
	}

	clean := pathing.Clean(path)
	if clean == layout.RootPath {
		return fmt.Errorf("%w: cannot remove the root", ErrInvalidPath)
	}

	slot, ok := h.table.LookupKind(clean, kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, clean)
	}

	inode, _ := h.table.Get(slot)
	block := inode.Block

	switch kind {
	case layout.KindFile:
		if inode.Opened {
			return fmt.Errorf("%w: %s", ErrFileOpen, clean)
		}

	case layout.KindDirectory:
		if inode.HasChildren() {
			return fmt.Errorf("%w: %s", ErrNotEmpty, clean)
		}
	}

	parent, pos, err := h.link(slot, inode.Parent)
	if err != nil {
		return err
	}

	if kind == layout.KindFile {
		if err := h.allocHandler.Release(h.sb.Bitmap, block); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptState, err)
		}
	}

	parent.Children[pos] = layout.NoInode
	h.table.Zero(slot)
	h.sb.NumItems--

	if err := h.flush(); err != nil {
		return err
	}

	if kind == layout.KindFile {
		if err := h.device.WriteBlock(block, make([]byte, layout.BlockSize)); err != nil {
			return fmt.Errorf("%w: blanking block %d: %w", ErrDeviceIO, block, err)
		}
	}

	slog.Debug("Removed inode",
		"path", clean,
		"kind", kind,
		"inode", slot,
	)

	return nil
}

// link returns the directory in parentSlot and the position of its
// reference to slot.
func (h *Handler) link(slot int, parentSlot int) (*layout.Inode, int, error) {
	parent, ok := h.table.Occupied(parentSlot)
	if !ok || !parent.IsDir() {
		return nil, 0, fmt.Errorf("%w: slot %d has no parent directory (%d)", ErrCorruptState, slot, parentSlot)
	}

	for pos, child := range parent.Children {
		if child == slot {
			return parent, pos, nil
		}
	}

	return nil, 0, fmt.Errorf("%w: directory %d does not reference slot %d", ErrCorruptState, parentSlot, slot)
}
