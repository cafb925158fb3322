package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MurphyLo/flux"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the flux TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	generate GenerateFunc
	theme    flux.Theme
	styles   Styles

	messages   []flux.Message
	blocks     []MessageBlock
	blockFocus int // index of focused collapsible block (-1 = none)

	// activeText receives text fragments for the current turn. A tool
	// call ends the current text block; the next fragment starts a new one.
	activeText *AssistantTextBlock
	// toolNames maps tool call IDs to names for result correlation.
	toolNames map[string]string
	// turnText assembles the full assistant text for conversation history.
	// A plain string, not strings.Builder: Model is copied by value on
	// every Update and a used Builder must not be copied.
	turnText string

	status  string // latest progress line, cleared when the turn ends
	usage   flux.Usage
	running bool
	cancel  context.CancelFunc
	updCh   chan flux.Update
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a new TUI Model with the given generate function and theme.
func New(generate GenerateFunc, theme flux.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:      ti,
		generate:   generate,
		theme:      theme,
		styles:     NewStyles(theme),
		blockFocus: -1,
		toolNames:  make(map[string]string),
	}
}

// Running returns whether a generation turn is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Messages returns the conversation so far.
func (m Model) Messages() []flux.Message { return m.messages }

// SetRunning is a test helper that puts the model in a running state.
func SetRunning(m Model) (Model, tea.Cmd) {
	m.running = true
	return m, nil
}

// SetRunningWithCancel is a test helper that puts the model in a running state
// with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.running = true
	m.cancel = cancel
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case UpdateMsg:
		m = m.processUpdate(msg.Update)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.updCh != nil {
			return m, listenForUpdate(m.updCh, m.doneCh)
		}
		return m, nil

	case StreamDoneMsg:
		m.running = false
		m.cancel = nil
		m.updCh = nil
		m.doneCh = nil
		m.status = ""
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		if m.turnText != "" {
			m.messages = append(m.messages, flux.Message{
				Role:    flux.RoleAssistant,
				Content: m.turnText,
			})
			m.turnText = ""
		}
		m.activeText = nil
		m = m.updateBlockFocus()
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages for scrolling.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusH := 1
	borderH := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusH - borderH
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyTab:
		if !m.running && m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			m.Viewport.SetContent(m.renderContent())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.running {
			m = m.cycleFocusPrev()
			m.Viewport.SetContent(m.renderContent())
		}
		return m, nil
	}

	// When idle, pass keys to both the input (typing) and viewport
	// (scrolling). Character keys stay out of the viewport to avoid
	// clashing with its j/k bindings.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	m.messages = append(m.messages, flux.Message{Role: flux.RoleUser, Content: text})
	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	m.activeText = nil
	m.turnText = ""

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.updCh = make(chan flux.Update, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startGenerate(m.generate, ctx, m.messages, m.updCh, m.doneCh),
		listenForUpdate(m.updCh, m.doneCh),
	)
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

// processUpdate routes a stream update to the appropriate block.
func (m Model) processUpdate(u flux.Update) Model {
	switch u := u.(type) {
	case flux.TextUpdate:
		if m.activeText == nil {
			m.activeText = NewAssistantTextBlock(m.theme)
			m.blocks = append(m.blocks, m.activeText)
			m = m.updateBlockFocus()
		}
		m.activeText.Append(u.Token)
		m.turnText += u.Token

	case flux.ToolCallUpdate:
		// A tool call ends the current text block.
		m.activeText = nil
		m.toolNames[u.ID] = u.Name
		m.blocks = append(m.blocks, NewToolCallBlock(u, m.styles))
		m = m.updateBlockFocus()

	case flux.ToolResultUpdate:
		name := m.toolNames[u.ID]
		if name == "" {
			name = u.ID
		}
		m.blocks = append(m.blocks, NewToolResultBlock(name, u.Content, u.IsError, m.styles))
		m = m.updateBlockFocus()

	case flux.ProgressUpdate:
		m.status = u.Message

	case flux.ErrorUpdate:
		m.blocks = append(m.blocks, NewErrorBlock(u.Message, m.styles))

	case flux.FinalUpdate:
		m.usage = u.Usage
		m.status = ""
	}
	return m
}

// updateBlockFocus scans backwards to find the last collapsible block.
// Only the focused block responds to Tab; ShiftTab cycles to the previous
// collapsible block.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		switch m.blocks[i].(type) {
		case *ToolCallBlock, *ToolResultBlock:
			m.blockFocus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves blockFocus to the previous collapsible block, wrapping around.
func (m Model) cycleFocusPrev() Model {
	start := m.blockFocus - 1
	if start < 0 {
		start = len(m.blocks) - 1
	}
	for i := range len(m.blocks) {
		idx := (start - i + len(m.blocks)) % len(m.blocks)
		switch m.blocks[idx].(type) {
		case *ToolCallBlock, *ToolResultBlock:
			m.blockFocus = idx
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.running {
		if m.status != "" {
			return m.styles.Progress.Render(m.status)
		}
		return m.styles.Muted.Render("Generating...")
	}
	if m.usage != (flux.Usage{}) {
		return m.styles.Muted.Render(fmt.Sprintf("%d in / %d out · Enter to send, Ctrl+C to quit",
			m.usage.InputTokens, m.usage.OutputTokens))
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
}

// startGenerate runs the generation turn in a goroutine and signals completion.
func startGenerate(generate GenerateFunc, ctx context.Context, messages []flux.Message, updCh chan<- flux.Update, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := generate(ctx, messages, func(u flux.Update) {
			select {
			case updCh <- u:
			case <-ctx.Done():
			}
		})
		close(updCh)
		doneCh <- err
		return nil
	}
}

// listenForUpdate waits for the next update from the channel. When the
// channel closes, it reads the error from doneCh and returns StreamDoneMsg.
func listenForUpdate(ch <-chan flux.Update, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			err := <-doneCh
			return StreamDoneMsg{Err: err}
		}
		return UpdateMsg{Update: u}
	}
}
