package filesystem

import (
	"fmt"

	"github.com/desertwitch/simfs/internal/layout"
	"github.com/desertwitch/simfs/internal/pathing"
)

// Verify checks the structural invariants of the in-memory state: slot ids,
// item count, parent/child back-references, path shapes and data block
// ownership. It returns an [ErrCorruptState] error describing the first
// violation found.
func (h *Handler) Verify() error {
	if !h.formatted {
		return fmt.Errorf("(fs-verify) %w", ErrNotFormatted)
	}

	if err := h.verifyRoot(); err != nil {
		return fmt.Errorf("(fs-verify) %w: %w", ErrCorruptState, err)
	}

	if n := h.table.Count(); n != h.sb.NumItems {
		return fmt.Errorf("(fs-verify) %w: %d occupied slots, superblock counts %d", ErrCorruptState, n, h.sb.NumItems)
	}

	owned := make(map[int]int)

	var err error
	h.table.Each(func(slot int, inode *layout.Inode) {
		if err != nil {
			return
		}
		err = h.verifyInode(slot, inode, owned)
	})
	if err != nil {
		return fmt.Errorf("(fs-verify) %w: %w", ErrCorruptState, err)
	}

	if used := h.sb.Bitmap.Used(); used != len(owned) {
		return fmt.Errorf("(fs-verify) %w: %d bitmap bits set, %d blocks owned", ErrCorruptState, used, len(owned))
	}

	return nil
}

func (h *Handler) verifyRoot() error {
	root, ok := h.table.Occupied(layout.RootInode)
	if !ok || root.Path != layout.RootPath || !root.IsDir() {
		return fmt.Errorf("slot %d is not the root directory", layout.RootInode)
	}

	if root.Parent != layout.NoInode {
		return fmt.Errorf("root has parent %d", root.Parent)
	}

	return nil
}

func (h *Handler) verifyInode(slot int, inode *layout.Inode, owned map[int]int) error {
	if inode.ID != slot {
		return fmt.Errorf("slot %d holds id %d", slot, inode.ID)
	}

	if inode.IsDir() {
		if err := h.verifyChildren(slot, inode); err != nil {
			return err
		}
	}

	if slot == layout.RootInode {
		return nil
	}

	parent, ok := h.table.Occupied(inode.Parent)
	if !ok || !parent.IsDir() {
		return fmt.Errorf("slot %d has no parent directory (%d)", slot, inode.Parent)
	}

	_, parentPath, _, err := pathing.Split(inode.Path, inode.Kind)
	if err != nil {
		return fmt.Errorf("slot %d: %w", slot, err)
	}

	if parentPath != parent.Path {
		return fmt.Errorf("slot %d path %s is not inside %s", slot, inode.Path, parent.Path)
	}

	linked := false
	for _, child := range parent.Children {
		if child == slot {
			linked = true

			break
		}
	}
	if !linked {
		return fmt.Errorf("slot %d is not referenced by its parent %d", slot, inode.Parent)
	}

	if inode.IsFile() {
		return h.verifyBlock(slot, inode, owned)
	}

	return nil
}

func (h *Handler) verifyChildren(slot int, dir *layout.Inode) error {
	for _, ref := range dir.Children {
		if ref == layout.NoInode {
			continue
		}

		child, ok := h.table.Occupied(ref)
		if !ok {
			return fmt.Errorf("directory %d references empty slot %d", slot, ref)
		}

		if child.Parent != slot {
			return fmt.Errorf("directory %d references slot %d whose parent is %d", slot, ref, child.Parent)
		}
	}

	return nil
}

func (h *Handler) verifyBlock(slot int, file *layout.Inode, owned map[int]int) error {
	if file.Block < layout.FirstDataBlock || file.Block >= h.sb.PartitionBlocks {
		return fmt.Errorf("file %d has block %d outside the data region", slot, file.Block)
	}

	if other, ok := owned[file.Block]; ok {
		return fmt.Errorf("block %d is owned by files %d and %d", file.Block, other, slot)
	}
	owned[file.Block] = slot

	if !h.sb.Bitmap.IsSet(file.Block - layout.FirstDataBlock) {
		return fmt.Errorf("block %d of file %d is not marked in the bitmap", file.Block, slot)
	}

	return nil
}
