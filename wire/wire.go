// Package wire decodes the generation service's newline-delimited JSON
// protocol into [flux.Update] values. The Framer tolerates arbitrary chunk
// fragmentation: a record may arrive split across any number of chunks,
// including mid-escape-sequence, and the decoded sequence is the same
// regardless of where the splits fall.
package wire

import (
	"encoding/json"

	"github.com/MurphyLo/flux"
)

// record is the wire shape of one line. Different fields are populated
// depending on Type.
type record struct {
	Type string `json:"type"`

	// stream
	Token string `json:"token,omitempty"`

	// tool_call
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`

	// tool_result
	ToolCallID string `json:"tool_call_id,omitempty"`
	Content    string `json:"content,omitempty"`
	IsError    bool   `json:"is_error,omitempty"`

	// progress, error
	Message string `json:"message,omitempty"`

	// final
	StopReason string     `json:"stop_reason,omitempty"`
	Usage      *wireUsage `json:"usage,omitempty"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// decode parses one complete line into an Update. Unknown record types
// are rejected so the sum stays closed.
func decode(line []byte) (flux.Update, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, err
	}
	switch rec.Type {
	case "stream":
		return flux.TextUpdate{Token: rec.Token}, nil
	case "tool_call":
		return flux.ToolCallUpdate{ID: rec.ID, Name: rec.Name, Arguments: rec.Arguments}, nil
	case "tool_result":
		return flux.ToolResultUpdate{ID: rec.ToolCallID, Content: rec.Content, IsError: rec.IsError}, nil
	case "progress":
		return flux.ProgressUpdate{Message: rec.Message}, nil
	case "error":
		return flux.ErrorUpdate{Message: rec.Message}, nil
	case "final":
		u := flux.FinalUpdate{StopReason: rec.StopReason}
		if rec.Usage != nil {
			u.Usage = flux.Usage{InputTokens: rec.Usage.InputTokens, OutputTokens: rec.Usage.OutputTokens}
		}
		return u, nil
	default:
		return nil, errUnknownType
	}
}
