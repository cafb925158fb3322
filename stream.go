package flux

// Stream is a pull-based iterator over updates. Next returns io.EOF once
// the sequence is exhausted; any other error is terminal. Streams have
// single-consumer semantics: no fan-out, and Next must not be called
// concurrently from multiple goroutines.
//
// Close releases the underlying source early. Closing an already-terminal
// stream is a no-op. Every pipeline stage consumes a Stream and is itself
// a Stream, so stages compose by wrapping.
type Stream interface {
	Next() (Update, error)
	Close() error
}
