package flux

// Request carries model selection and the conversation to generate from.
// The client uses its own defaults when fields are zero.
type Request struct {
	Model    string // model ID, service-specific; empty = service default
	Messages []Message
}
