package coalesce_test

import (
	"errors"
	"io"
	"testing"

	"github.com/MurphyLo/flux"
	"github.com/MurphyLo/flux/coalesce"
	"github.com/MurphyLo/flux/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s flux.Stream) []flux.Update {
	t.Helper()
	var updates []flux.Update
	for {
		u, err := s.Next()
		if err == io.EOF {
			return updates
		}
		require.NoError(t, err)
		updates = append(updates, u)
	}
}

func text(tokens ...string) []flux.Update {
	updates := make([]flux.Update, len(tokens))
	for i, tok := range tokens {
		updates[i] = flux.TextUpdate{Token: tok}
	}
	return updates
}

func TestCoalesce_MergesWordContinuations(t *testing.T) {
	t.Parallel()
	s := coalesce.New(mock.StreamOf(text("what", " don", "'t")...))

	got := collect(t, s)

	assert.Equal(t, text("what", " don't"), got)
}

func TestCoalesce_ApostropheAndBacktickContinue(t *testing.T) {
	t.Parallel()
	s := coalesce.New(mock.StreamOf(text("it", "'s `go", "`")...))

	got := collect(t, s)

	assert.Equal(t, text("it's `go`"), got)
}

func TestCoalesce_LatinSupplementContinues(t *testing.T) {
	t.Parallel()
	s := coalesce.New(mock.StreamOf(text("caf", "é", " voil", "à")...))

	got := collect(t, s)

	assert.Equal(t, text("café", " voilà"), got)
}

func TestCoalesce_NonLatinFlushesImmediately(t *testing.T) {
	t.Parallel()
	s := coalesce.New(mock.StreamOf(text("日", "本", "語")...))

	got := collect(t, s)

	// No merging outside the Latin word-continuation class.
	assert.Equal(t, text("日", "本", "語"), got)
}

func TestCoalesce_GroupCap(t *testing.T) {
	t.Parallel()
	s := coalesce.New(mock.StreamOf(text("a", "b", "c", "d", "e", "f")...))

	got := collect(t, s)

	require.Len(t, got, 2, "cap of 5 fragments per group")
	assert.Equal(t, text("abcde", "f"), got)
}

func TestCoalesce_StructuralUpdateFlushesGroup(t *testing.T) {
	t.Parallel()
	call := flux.ToolCallUpdate{ID: "tc_1", Name: "read"}
	s := coalesce.New(mock.StreamOf(
		flux.TextUpdate{Token: "run"},
		flux.TextUpdate{Token: "ning"},
		call,
		flux.TextUpdate{Token: "now"},
	))

	got := collect(t, s)

	require.Len(t, got, 3)
	assert.Equal(t, flux.TextUpdate{Token: "running"}, got[0])
	assert.Equal(t, call, got[1])
	assert.Equal(t, flux.TextUpdate{Token: "now"}, got[2])
}

func TestCoalesce_NeverMergesAcrossStructuralUpdate(t *testing.T) {
	t.Parallel()
	progress := flux.ProgressUpdate{Message: "tick"}
	s := coalesce.New(mock.StreamOf(
		flux.TextUpdate{Token: "foo"},
		progress,
		flux.TextUpdate{Token: "bar"},
	))

	got := collect(t, s)

	assert.Equal(t, []flux.Update{
		flux.TextUpdate{Token: "foo"},
		progress,
		flux.TextUpdate{Token: "bar"},
	}, got)
}

func TestCoalesce_StructuralOrderPreserved(t *testing.T) {
	t.Parallel()
	first := flux.ProgressUpdate{Message: "one"}
	second := flux.ProgressUpdate{Message: "two"}
	final := flux.FinalUpdate{StopReason: "end_turn"}
	s := coalesce.New(mock.StreamOf(
		first,
		flux.TextUpdate{Token: "mid"},
		second,
		final,
	))

	got := collect(t, s)

	assert.Equal(t, []flux.Update{first, flux.TextUpdate{Token: "mid"}, second, final}, got)
}

func TestCoalesce_FlushesOnUpstreamEnd(t *testing.T) {
	t.Parallel()
	s := coalesce.New(mock.StreamOf(text("trail", "ing")...))

	got := collect(t, s)

	assert.Equal(t, text("trailing"), got)
}

func TestCoalesce_UpstreamErrorAfterBufferedOutput(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("connection reset")
	calls := 0
	s := coalesce.New(&mock.Stream{
		NextFn: func() (flux.Update, error) {
			calls++
			if calls == 1 {
				return flux.TextUpdate{Token: "partial"}, nil
			}
			return nil, wantErr
		},
	})

	u, err := s.Next()
	require.NoError(t, err, "buffered text flushes before the error surfaces")
	assert.Equal(t, flux.TextUpdate{Token: "partial"}, u)

	_, err = s.Next()
	assert.ErrorIs(t, err, wantErr)
}

func TestCoalesce_CloseClosesUpstream(t *testing.T) {
	t.Parallel()
	closed := false
	s := coalesce.New(&mock.Stream{
		CloseFn: func() error {
			closed = true
			return nil
		},
	})

	require.NoError(t, s.Close())
	assert.True(t, closed)

	_, err := s.Next()
	assert.ErrorIs(t, err, flux.ErrStreamClosed)
}
