// Package pace re-emits a decoded update stream at a human-readable typing
// cadence. Text is split into grapheme clusters and released a few per
// frame at a rate that tracks the backlog, so the animation speeds up when
// the upstream is bursty and never falls permanently behind. Non-text
// updates skip the queue entirely and go out on the next frame.
package pace

import (
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rivo/uniseg"

	"github.com/MurphyLo/flux"
)

const (
	// frameInterval approximates a 60fps render loop.
	frameInterval = 16 * time.Millisecond

	// baseSpeed is the floor emission rate in characters per second.
	// The backlog raises the target above it but never below.
	baseSpeed = 50.0

	// idleTimeout bounds how long an empty-queue wait lasts before the
	// consumer re-checks upstream state. UI responsiveness only, not a
	// deadline on the stream.
	idleTimeout = 250 * time.Millisecond

	// minStep and maxStep clamp the per-frame EMA step that moves the
	// current speed toward the target; swingScale is the queue-length
	// change that saturates the step.
	minStep    = 0.05
	maxStep    = 0.5
	swingScale = 50.0
)

// Interface compliance check.
var _ flux.Stream = (*stream)(nil)

type stream struct {
	upstream flux.Stream
	clock    Clock

	mu         sync.Mutex
	chars      []string // grapheme clusters awaiting paced emission
	structural []flux.Update
	prodDone   bool
	prodErr    error

	notify chan struct{} // cap 1; producer wakes a waiting consumer
	quit   chan struct{} // closed by Close to stop the producer
	joined chan struct{} // closed when the producer goroutine returns

	// Frame state, touched only by the consumer.
	frameSet  bool
	lastFrame time.Time
	accum     float64 // accumulated emittable time in seconds
	speed     float64 // current emission rate, chars per second
	prevLen   int
	havePrev  bool

	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// Option configures the scheduler.
type Option func(*stream)

// WithClock injects a test clock. The default is the real wall clock.
func WithClock(c Clock) Option {
	return func(s *stream) { s.clock = c }
}

// New wraps upstream in the typewriter scheduler. A background producer
// drains upstream as fast as it yields; Next plays the frame-paced
// consumer. The returned stream keeps single-consumer semantics.
func New(upstream flux.Stream, opts ...Option) flux.Stream {
	s := &stream{
		upstream: upstream,
		clock:    realClock{},
		speed:    baseSpeed,
		notify:   make(chan struct{}, 1),
		quit:     make(chan struct{}),
		joined:   make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	go s.produce()
	return s
}

// produce drains the upstream into the two queues until it terminates or
// Close fires.
func (s *stream) produce() {
	defer close(s.joined)
	for {
		u, err := s.upstream.Next()
		if err != nil {
			s.mu.Lock()
			s.prodDone = true
			if err != io.EOF {
				s.prodErr = err
			}
			s.mu.Unlock()
			s.wake()
			return
		}

		s.mu.Lock()
		if text, ok := u.(flux.TextUpdate); ok {
			s.chars = append(s.chars, graphemes(text.Token)...)
		} else {
			s.structural = append(s.structural, u)
		}
		s.mu.Unlock()
		s.wake()

		select {
		case <-s.quit:
			return
		default:
		}
	}
}

func (s *stream) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *stream) Next() (flux.Update, error) {
	if s.closed {
		return nil, flux.ErrStreamClosed
	}
	for {
		s.mu.Lock()

		// Structural updates always go first, with zero added latency.
		if len(s.structural) > 0 {
			u := s.structural[0]
			s.structural = s.structural[1:]
			s.mu.Unlock()
			return u, nil
		}

		if len(s.chars) > 0 {
			token := s.emitFrame()
			s.mu.Unlock()
			if token != "" {
				return flux.TextUpdate{Token: token}, nil
			}
			// Not enough accumulated time yet; sleep one frame. New
			// structural data cuts the sleep short via notify.
			s.wait(frameInterval)
			continue
		}

		if s.prodDone {
			err := s.prodErr
			s.mu.Unlock()
			// Join the producer so nothing outlives the stream.
			<-s.joined
			if err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		s.mu.Unlock()

		// Empty queue, live producer: wait for data or the idle timeout,
		// then restart frame timing so the idle wait is not credited as
		// emittable time.
		s.wait(idleTimeout)
		s.frameSet = false
		s.accum = 0
	}
}

// wait blocks until d elapses or the producer wakes us, whichever first.
func (s *stream) wait(d time.Duration) {
	select {
	case <-s.clock.After(d):
	case <-s.notify:
	}
}

// emitFrame runs one frame of the rate controller and returns the text to
// emit, or "" when the accumulated time does not yet cover a full
// character. Caller holds s.mu.
func (s *stream) emitFrame() string {
	now := s.clock.Now()
	if !s.frameSet {
		s.frameSet = true
		s.lastFrame = now
	}
	s.accum += now.Sub(s.lastFrame).Seconds()
	s.lastFrame = now

	backlog := len(s.chars)

	// A backlog raises the target above the baseline so playback catches
	// up instead of lagging forever.
	target := math.Max(baseSpeed, float64(backlog))

	// Larger queue swings adapt faster.
	step := maxStep
	if s.havePrev {
		swing := math.Abs(float64(backlog - s.prevLen))
		step = minStep + (maxStep-minStep)*math.Min(swing/swingScale, 1)
	}
	s.havePrev = true
	s.prevLen = backlog
	s.speed += (target - s.speed) * step

	n := int(s.accum * s.speed)
	if n <= 0 {
		return ""
	}
	if n > backlog {
		n = backlog
	}
	s.accum -= float64(n) / s.speed

	token := strings.Join(s.chars[:n], "")
	s.chars = s.chars[n:]
	return token
}

func (s *stream) Close() error {
	s.closed = true
	s.closeOnce.Do(func() {
		close(s.quit)
		s.closeErr = s.upstream.Close()
	})
	return s.closeErr
}

// graphemes splits text into user-perceived characters so pacing never
// emits half a combining sequence or emoji.
func graphemes(text string) []string {
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
