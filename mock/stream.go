// Package mock provides test doubles for flux interfaces using function fields.
package mock

import (
	"io"

	"github.com/MurphyLo/flux"
)

// Interface compliance check.
var _ flux.Stream = (*Stream)(nil)

// Stream is a test double for flux.Stream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// (no-op) because test code commonly calls defer stream.Close() without
// needing custom behavior.
type Stream struct {
	NextFn  func() (flux.Update, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (flux.Update, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// StreamOf returns a Stream that yields the given updates in order and
// then io.EOF forever.
func StreamOf(updates ...flux.Update) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (flux.Update, error) {
			if i >= len(updates) {
				return nil, io.EOF
			}
			u := updates[i]
			i++
			return u, nil
		},
	}
}
