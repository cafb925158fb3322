// Package bubbletea provides a Bubble Tea TUI for the flux update stream.
package bubbletea

import (
	"context"

	"github.com/MurphyLo/flux"
	tea "github.com/charmbracelet/bubbletea"
)

// GenerateFunc runs one generation turn for the given conversation. The
// onUpdate callback receives each processed update. The function blocks
// until the stream completes or the context is cancelled.
type GenerateFunc func(ctx context.Context, messages []flux.Message, onUpdate func(flux.Update)) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown — when
// cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// UpdateMsg wraps a stream update for delivery to the Bubble Tea model.
type UpdateMsg struct {
	Update flux.Update
}

// StreamDoneMsg signals that the generation stream has completed.
type StreamDoneMsg struct {
	Err error
}
