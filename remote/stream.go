package remote

import (
	"context"
	"io"
	"sync"

	"github.com/MurphyLo/flux"
	"github.com/MurphyLo/flux/wire"
)

// Interface compliance check.
var _ flux.Stream = (*stream)(nil)

// stream reads response-body chunks through a wire.Framer. It also plays
// abort coordinator: an external cancellation closes the body (which
// unblocks any pending Read) and halts emission, and source exhaustion
// cancels the derived context so everything hanging off it unwinds
// promptly.
type stream struct {
	ctx    context.Context // request context; signals external cancellation
	body   io.ReadCloser
	cancel context.CancelFunc

	framer  wire.Framer
	buf     []byte
	pending []flux.Update
	done    bool

	closed    bool
	closeOnce sync.Once
	closeErr  error
}

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	derived, cancel := context.WithCancel(ctx)
	s := &stream{
		ctx:    ctx,
		body:   body,
		cancel: cancel,
		buf:    make([]byte, 4096),
	}
	context.AfterFunc(derived, func() { s.release() })
	return s
}

// Next returns the next decoded update. It returns io.EOF on source
// exhaustion, including premature closure of the connection: a dropped
// source is a natural end here, not an error.
func (s *stream) Next() (flux.Update, error) {
	if s.closed {
		return nil, flux.ErrStreamClosed
	}
	// External cancellation stops emission immediately, including records
	// already decoded from an earlier chunk. Only the request context says
	// this: the derived context also ends on natural source exhaustion,
	// where buffered records must still drain.
	if s.ctx.Err() != nil {
		s.pending = nil
		s.framer.Reset()
		s.done = true
		return nil, io.EOF
	}
	for len(s.pending) == 0 {
		if s.done {
			return nil, io.EOF
		}
		n, err := s.body.Read(s.buf)
		if n > 0 {
			s.pending = append(s.pending, s.framer.Feed(string(s.buf[:n]))...)
		}
		if err != nil {
			// Any leftover carry is a partial line with no delimiter to
			// confirm it; discard without a parse attempt.
			s.framer.Reset()
			s.done = true
			s.cancel()
		}
	}
	u := s.pending[0]
	s.pending = s.pending[1:]
	return u, nil
}

// Dropped reports how many malformed lines the framer discarded.
func (s *stream) Dropped() int {
	return s.framer.Dropped()
}

// Close cancels the abort linkage and releases the response body. Safe to
// call more than once; the body is closed exactly once either way.
func (s *stream) Close() error {
	s.closed = true
	s.cancel()
	return s.release()
}

func (s *stream) release() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
