package bubbletea

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*ErrorBlock)(nil)

// ErrorBlock renders an error reported by the service mid-stream.
type ErrorBlock struct {
	message string
	styles  Styles
}

// NewErrorBlock creates an ErrorBlock.
func NewErrorBlock(message string, styles Styles) *ErrorBlock {
	return &ErrorBlock{message: message, styles: styles}
}

func (b *ErrorBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *ErrorBlock) View(width int) string {
	content := b.styles.Error.Render("Error: " + b.message)
	return lipgloss.NewStyle().Width(width).Render(content)
}
