// Package coalesce merges adjacent small text fragments into word-sized
// units so the renderer never paints half a word. Non-text updates flush
// the pending group and pass through in their original position.
package coalesce

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/MurphyLo/flux"
)

// maxGroup bounds how many fragments merge into one emitted fragment.
// Without it a model emitting many tiny fragments would hold text back
// indefinitely.
const maxGroup = 5

// Interface compliance check.
var _ flux.Stream = (*stream)(nil)

type stream struct {
	upstream flux.Stream

	group   []string      // text fragments buffered for the current word group
	pending []flux.Update // flushed updates not yet returned
	err     error         // terminal error from upstream, delivered after pending drains
	done    bool
	closed  bool
}

// New wraps upstream so adjacent text fragments are merged at word
// boundaries. Ordering of non-text updates is preserved exactly.
func New(upstream flux.Stream) flux.Stream {
	return &stream{upstream: upstream}
}

func (s *stream) Next() (flux.Update, error) {
	if s.closed {
		return nil, flux.ErrStreamClosed
	}
	for len(s.pending) == 0 {
		if s.done {
			if s.err != nil {
				return nil, s.err
			}
			return nil, io.EOF
		}
		s.pull()
	}
	u := s.pending[0]
	s.pending = s.pending[1:]
	return u, nil
}

// pull consumes upstream updates until something lands in pending or the
// upstream terminates.
func (s *stream) pull() {
	for len(s.pending) == 0 {
		u, err := s.upstream.Next()
		if err != nil {
			s.done = true
			if err != io.EOF {
				s.err = err
			}
			s.flush()
			return
		}

		text, ok := u.(flux.TextUpdate)
		if !ok {
			s.flush()
			s.pending = append(s.pending, u)
			return
		}

		if s.continues(text.Token) {
			s.group = append(s.group, text.Token)
			continue
		}
		s.flush()
		s.group = append(s.group, text.Token)
	}
}

// continues reports whether token should join the current group: the
// previous fragment must end mid-word, the new one must begin mid-word,
// and the group must still have room.
func (s *stream) continues(token string) bool {
	if len(s.group) == 0 || len(s.group) >= maxGroup {
		return false
	}
	prev := s.group[len(s.group)-1]
	last, _ := utf8.DecodeLastRuneInString(prev)
	first, _ := utf8.DecodeRuneInString(token)
	return isWordRune(last) && isWordRune(first)
}

// flush emits the buffered group as one concatenated fragment.
func (s *stream) flush() {
	if len(s.group) == 0 {
		return
	}
	s.pending = append(s.pending, flux.TextUpdate{Token: strings.Join(s.group, "")})
	s.group = s.group[:0]
}

func (s *stream) Close() error {
	s.closed = true
	return s.upstream.Close()
}

// isWordRune reports whether r continues a word: ASCII letters and digits,
// Latin-1 Supplement letters, apostrophe, backtick. Other scripts never
// merge; their fragments are always safe to flush immediately.
func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '\'' || r == '`':
		return true
	case r >= 0x00C0 && r <= 0x00FF:
		// Latin-1 Supplement letters, minus the multiplication and
		// division signs embedded in the range.
		return r != 0x00D7 && r != 0x00F7
	}
	return false
}
