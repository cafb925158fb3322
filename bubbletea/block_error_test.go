package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/MurphyLo/flux"
	bt "github.com/MurphyLo/flux/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestErrorBlock_View(t *testing.T) {
	t.Parallel()

	t.Run("renders message with error label", func(t *testing.T) {
		t.Parallel()
		styles := bt.NewStyles(flux.DefaultTheme())
		block := bt.NewErrorBlock("rate limit exceeded", styles)
		view := block.View(80)
		assert.Contains(t, view, "Error")
		assert.Contains(t, view, "rate limit exceeded")
	})

	t.Run("long message wraps to width", func(t *testing.T) {
		t.Parallel()
		styles := bt.NewStyles(flux.DefaultTheme())
		long := "this error message is long enough that it must wrap within the viewport"
		block := bt.NewErrorBlock(long, styles)
		view := block.View(30)
		assert.Contains(t, view, "viewport")
		lines := strings.Split(view, "\n")
		assert.Greater(t, len(lines), 1)
	})
}
