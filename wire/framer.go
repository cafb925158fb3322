package wire

import (
	"errors"
	"strings"

	"github.com/MurphyLo/flux"
)

var errUnknownType = errors.New("wire: unknown record type")

// Framer turns a chunked text stream into complete updates. It buffers the
// trailing segment of every chunk as carry: with newline framing the last
// segment is only known to be complete once a later delimiter confirms it,
// even when it happens to parse as valid JSON on its own.
//
// Malformed lines are dropped, never surfaced as errors. A single corrupt
// record must not abort the whole stream; Dropped counts the losses.
type Framer struct {
	carry   string
	dropped int
}

// Feed appends a chunk and returns every update completed by it. An empty
// chunk is a no-op; a chunk without a newline only grows the carry.
func (f *Framer) Feed(chunk string) []flux.Update {
	if chunk == "" {
		return nil
	}
	segments := strings.Split(f.carry+chunk, "\n")
	f.carry = segments[len(segments)-1]

	var updates []flux.Update
	for _, seg := range segments[:len(segments)-1] {
		if seg == "" {
			continue
		}
		u, err := decode([]byte(seg))
		if err != nil {
			f.dropped++
			continue
		}
		updates = append(updates, u)
	}
	return updates
}

// Reset discards any pending carry. Called at stream end: a dangling
// partial line is tolerated garbage, not an error.
func (f *Framer) Reset() {
	f.carry = ""
}

// Dropped reports how many malformed lines were discarded so far.
func (f *Framer) Dropped() int {
	return f.dropped
}
