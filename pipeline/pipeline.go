// Package pipeline composes the decoded update stream with the optional
// presentation stages. With smoothing on, updates flow decode → coalesce →
// pace; with it off, decoded updates pass straight through to the caller.
package pipeline

import (
	"github.com/MurphyLo/flux"
	"github.com/MurphyLo/flux/coalesce"
	"github.com/MurphyLo/flux/pace"
)

// Config selects which presentation stages apply.
type Config struct {
	// Smooth enables word coalescing and typewriter pacing.
	Smooth bool

	// Clock overrides the pacing clock; nil means the wall clock.
	// Only consulted when Smooth is set.
	Clock pace.Clock
}

// New applies the configured stages to s. The result keeps Stream
// semantics: single consumer, io.EOF at end, Close propagates upstream.
func New(s flux.Stream, cfg Config) flux.Stream {
	if !cfg.Smooth {
		return s
	}
	var opts []pace.Option
	if cfg.Clock != nil {
		opts = append(opts, pace.WithClock(cfg.Clock))
	}
	return pace.New(coalesce.New(s), opts...)
}
