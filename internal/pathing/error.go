package pathing

import "errors"

var (
	// ErrInvalidPath is an error that occurs when a path is empty, relative,
	// the root itself or has an empty final element.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNameTooLong is an error that occurs when a path or its final
	// element exceeds the length limits.
	ErrNameTooLong = errors.New("name too long")

	// ErrPathTooDeep is an error that occurs when a path contains more
	// separators than allowed.
	ErrPathTooDeep = errors.New("path too deep")
)
