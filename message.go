package flux

// Message is one turn of the conversation sent to the generation service.
// The response side is not modeled as messages at all: it arrives as a
// Stream of Update values and assembly is the caller's concern.
type Message struct {
	Role    Role
	Content string
}
