package bubbletea

import (
	"strings"

	"github.com/MurphyLo/flux"
	"github.com/MurphyLo/flux/goldmark"
	tea "github.com/charmbracelet/bubbletea"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders streamed assistant text with markdown
// formatting. Finalized paragraphs (separated by double newline) are
// rendered once and cached; only the trailing unfinalized text is
// re-rendered on each fragment.
type AssistantTextBlock struct {
	content strings.Builder
	theme   flux.Theme

	// finalizedRaw is the stable prefix ending at the last double newline,
	// rendered once per width and cached in finalizedByWidth.
	finalizedRaw     string
	finalizedByWidth map[int]string
}

// NewAssistantTextBlock creates a new block for streaming assistant text.
func NewAssistantTextBlock(theme flux.Theme) *AssistantTextBlock {
	return &AssistantTextBlock{
		theme:            theme,
		finalizedByWidth: make(map[int]string),
	}
}

// Append adds a text fragment from the update stream.
func (b *AssistantTextBlock) Append(text string) {
	b.content.WriteString(text)
	b.promoteFinalized()
}

// Text returns the full accumulated text.
func (b *AssistantTextBlock) Text() string {
	return b.content.String()
}

func (b *AssistantTextBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AssistantTextBlock) View(width int) string {
	finalizedRendered := b.renderFinalized(width)
	trailing := b.trailingRaw()
	if hasUnclosedFence(trailing) {
		// Close the fence only for rendering so partial streams display safely.
		trailing += "\n```"
	}
	if trailing == "" {
		return finalizedRendered
	}
	trailingRendered := goldmark.Render(trailing, width, b.theme)
	if strings.TrimSpace(trailingRendered) == "" {
		return finalizedRendered
	}
	switch finalizedRendered {
	case "":
		return trailingRendered
	default:
		// Reconstruct the paragraph break with a single "\n\n" so the two
		// independently rendered fragments join without a visible seam.
		return strings.TrimRight(finalizedRendered, "\n") + "\n\n" + strings.TrimLeft(trailingRendered, "\n")
	}
}

// promoteFinalized scans for the last "\n\n" boundary that doesn't fall
// inside an unclosed fenced code block. Splitting inside a fence would
// leave the finalized fragment with an open fence and the trailing one
// starting mid-code-block.
func (b *AssistantTextBlock) promoteFinalized() {
	raw := b.content.String()
	for end := len(raw); ; {
		idx := strings.LastIndex(raw[:end], "\n\n")
		if idx <= 0 {
			return
		}
		candidate := raw[:idx]
		if !hasUnclosedFence(candidate) {
			if candidate != b.finalizedRaw {
				b.finalizedRaw = candidate
				clear(b.finalizedByWidth)
			}
			return
		}
		end = idx
	}
}

func (b *AssistantTextBlock) renderFinalized(width int) string {
	if width <= 0 || b.finalizedRaw == "" {
		return ""
	}
	if cached, ok := b.finalizedByWidth[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.finalizedRaw, width, b.theme)
	b.finalizedByWidth[width] = rendered
	return rendered
}

func (b *AssistantTextBlock) trailingRaw() string {
	raw := b.content.String()
	if b.finalizedRaw == "" {
		return raw
	}
	return strings.TrimPrefix(raw, b.finalizedRaw+"\n\n")
}

// hasUnclosedFence detects an unclosed fenced code block by counting "```"
// occurrences. Triple backticks inside inline code spans would miscount,
// but they are vanishingly rare in model output.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
