// Package ui implements an interactive command-line user interface for the
// shell using [tea].
package ui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

type shellProvider interface {
	Execute(line string) (string, error)
}

// Handler is the principal implementation of a user interface [Handler].
type Handler struct {
	shellHandler shellProvider
	program      *tea.Program

	LogWriter *TeaLogWriter

	Initialized atomic.Bool
	Ready       atomic.Bool
	Failed      atomic.Bool
}

// NewHandler returns a pointer to a new user interface [Handler]. Cancelling
// ctx stops the interface, cancel is called when the user quits it.
func NewHandler(ctx context.Context, cancel context.CancelFunc, shellHandler shellProvider) *Handler {
	handler := &Handler{
		shellHandler: shellHandler,
	}

	model := NewTeaModel(handler, cancel)
	handler.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	handler.LogWriter = NewTeaLogWriter(handler.program)

	return handler
}

// Launch starts the command-line user interface (the [tea.Program]) and
// blocks until it exits.
func (uiHandler *Handler) Launch() error {
	defer uiHandler.LogWriter.Stop()

	if _, err := uiHandler.program.Run(); err != nil {
		uiHandler.Failed.Store(true)

		return fmt.Errorf("(ui) %w", err)
	}

	return nil
}
