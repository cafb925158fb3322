package bubbletea_test

import (
	"context"
	"testing"

	"github.com/MurphyLo/flux"
	bt "github.com/MurphyLo/flux/bubbletea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, generate bt.GenerateFunc) bt.Model {
	t.Helper()
	m := bt.New(generate, flux.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, generate bt.GenerateFunc, width, height int) bt.Model {
	t.Helper()
	m := bt.New(generate, flux.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopGenerate is a generate function that produces nothing.
func nopGenerate(_ context.Context, _ []flux.Message, _ func(flux.Update)) error {
	return nil
}
