// Package pathing resolves absolute paths into the parent directory path and
// the final element, enforcing the depth and length limits of the file
// system.
//
// The same rule applies to files and directories: a single trailing
// separator is dropped, then the path is split at its rightmost separator.
package pathing

import (
	"fmt"
	"strings"

	"github.com/desertwitch/simfs/internal/layout"
)

// Clean drops a single trailing separator from any path but the root.
func Clean(path string) string {
	if len(path) > 1 && path[len(path)-1] == layout.Separator {
		return path[:len(path)-1]
	}

	return path
}

// Depth returns the amount of separators in path.
func Depth(path string) int {
	return strings.Count(path, string(layout.Separator))
}

// Split validates path for an inode of the given kind and returns the
// cleaned path, its parent directory path and its final element.
func Split(path string, kind layout.Kind) (clean, parent, name string, err error) {
	if path == "" || path[0] != layout.Separator {
		return "", "", "", fmt.Errorf("(pathing) %w: %q is not absolute", ErrInvalidPath, path)
	}

	clean = Clean(path)
	if clean == layout.RootPath {
		return "", "", "", fmt.Errorf("(pathing) %w: cannot create the root", ErrInvalidPath)
	}

	if len(clean) > kind.MaxPath() {
		return "", "", "", fmt.Errorf("(pathing) %w: %d > %d characters", ErrNameTooLong, len(clean), kind.MaxPath())
	}

	if depth := Depth(clean); depth > layout.MaxDepth {
		return "", "", "", fmt.Errorf("(pathing) %w: %d > %d levels", ErrPathTooDeep, depth, layout.MaxDepth)
	}

	sep := strings.LastIndexByte(clean, layout.Separator)

	parent = clean[:sep]
	if parent == "" {
		parent = layout.RootPath
	}

	name = clean[sep+1:]
	if name == "" {
		return "", "", "", fmt.Errorf("(pathing) %w: %q has an empty name", ErrInvalidPath, path)
	}

	if len(name) > layout.MaxNameLength {
		return "", "", "", fmt.Errorf("(pathing) %w: %q > %d characters", ErrNameTooLong, name, layout.MaxNameLength)
	}

	return clean, parent, name, nil
}

// Name returns the final element of a stored path. The root is its own name.
func Name(path string) string {
	if path == layout.RootPath {
		return path
	}

	return path[strings.LastIndexByte(path, layout.Separator)+1:]
}
