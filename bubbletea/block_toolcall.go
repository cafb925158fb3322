package bubbletea

import (
	"github.com/MurphyLo/flux"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*ToolCallBlock)(nil)

// ToolCallBlock renders a tool call with a collapsible toggle. Unlike
// delta-based protocols, flux tool calls arrive complete, so the block is
// immutable after creation.
type ToolCallBlock struct {
	name      string
	id        string
	args      string
	collapsed bool
	styles    Styles
}

// NewToolCallBlock creates a ToolCallBlock that starts collapsed.
func NewToolCallBlock(call flux.ToolCallUpdate, styles Styles) *ToolCallBlock {
	return &ToolCallBlock{
		name:      call.Name,
		id:        call.ID,
		args:      string(call.Arguments),
		collapsed: true,
		styles:    styles,
	}
}

// ID returns the tool call ID for result correlation.
func (b *ToolCallBlock) ID() string { return b.id }

// Name returns the tool name for result correlation.
func (b *ToolCallBlock) Name() string { return b.name }

func (b *ToolCallBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *ToolCallBlock) View(width int) string {
	indicator := "▶"
	if !b.collapsed {
		indicator = "▼"
	}
	header := b.styles.ToolCall.Render(indicator + " " + b.name)
	content := header
	if !b.collapsed && b.args != "" {
		content = header + "\n" + b.styles.Muted.Render(b.args)
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}
