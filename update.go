package flux

import "encoding/json"

// Update is a sealed interface representing one decoded unit of the
// generation stream. Transport failures come from Next()'s error return,
// not from updates; ErrorUpdate carries errors the service itself reported.
// The unexported marker method prevents external implementations.
type Update interface {
	update()
}

// TextUpdate carries a fragment of generated text. It is the only variant
// the pipeline stages split or merge; all other variants pass through
// unmodified and unreordered.
type TextUpdate struct {
	Token string
}

func (TextUpdate) update() {}

// ToolCallUpdate announces a tool invocation requested by the model.
type ToolCallUpdate struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

func (ToolCallUpdate) update() {}

// ToolResultUpdate carries the outcome of a tool invocation.
type ToolResultUpdate struct {
	ID      string
	Content string
	IsError bool
}

func (ToolResultUpdate) update() {}

// ProgressUpdate is a transient status line from the service.
type ProgressUpdate struct {
	Message string
}

func (ProgressUpdate) update() {}

// ErrorUpdate carries an error the service reported mid-stream.
type ErrorUpdate struct {
	Message string
}

func (ErrorUpdate) update() {}

// FinalUpdate closes a generation turn with its stop reason and usage.
type FinalUpdate struct {
	StopReason string
	Usage      Usage
}

func (FinalUpdate) update() {}

// Usage reports token counts for a completed turn.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Interface compliance checks.
var (
	_ Update = TextUpdate{}
	_ Update = ToolCallUpdate{}
	_ Update = ToolResultUpdate{}
	_ Update = ProgressUpdate{}
	_ Update = ErrorUpdate{}
	_ Update = FinalUpdate{}
)
