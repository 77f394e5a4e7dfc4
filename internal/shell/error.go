package shell

import "errors"

var (
	// ErrUnknownCommand is an error that occurs when a line starts with a
	// word that is not a command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is an error that occurs when a command receives the wrong
	// amount or kind of arguments.
	ErrUsage = errors.New("invalid usage")

	// ErrExit is returned for the exit command. It is not a failure.
	ErrExit = errors.New("exit requested")
)
