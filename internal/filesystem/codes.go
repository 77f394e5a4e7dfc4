package filesystem

import "errors"

// Return codes of the public API.
const (
	CodeSuccess = 0
	CodeFailure = -1
	CodeError   = -2
)

// ReturnCode maps the result of a public API call to its return code: 0 on
// success, -1 for the expected failures (already exists, not found, already
// mounted) and -2 for every other error.
func ReturnCode(err error) int {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAlreadyMounted):
		return CodeFailure
	default:
		return CodeError
	}
}
