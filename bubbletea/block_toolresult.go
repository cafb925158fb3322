package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
)

var _ MessageBlock = (*ToolResultBlock)(nil)

const maxPreviewWidth = 60

// ToolResultBlock renders a tool result with a collapsible toggle.
// Success results start collapsed; error results start expanded.
type ToolResultBlock struct {
	toolName  string
	content   string
	isError   bool
	collapsed bool
	styles    Styles
}

// NewToolResultBlock creates a ToolResultBlock.
func NewToolResultBlock(toolName, content string, isError bool, styles Styles) *ToolResultBlock {
	return &ToolResultBlock{
		toolName:  toolName,
		content:   content,
		isError:   isError,
		collapsed: !isError,
		styles:    styles,
	}
}

// IsError reports whether this tool result represents an error.
func (b *ToolResultBlock) IsError() bool { return b.isError }

func (b *ToolResultBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		if b.isError {
			// Error results are always expanded.
			b.collapsed = false
			return b, nil
		}
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *ToolResultBlock) View(width int) string {
	statusIcon := "✓"
	iconStyle := b.styles.Success
	if b.isError {
		statusIcon = "✗"
		iconStyle = b.styles.Error
	}

	if b.collapsed {
		header := b.styles.ToolCall.Render("▶ "+b.toolName) + " " + iconStyle.Render(statusIcon)
		if b.content != "" {
			preview := runewidth.Truncate(firstLine(b.content), maxPreviewWidth, "…")
			header += "  " + preview
		}
		return lipgloss.NewStyle().Width(width).Render(header)
	}

	header := b.styles.ToolCall.Render("▼ "+b.toolName) + " " + iconStyle.Render(statusIcon)
	content := header
	if b.content != "" {
		rendered := b.content
		if b.isError {
			rendered = b.styles.Error.Render(b.content)
		}
		content = header + "\n" + rendered
	}
	return lipgloss.NewStyle().Width(width).Render(content)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
