package wire_test

import (
	"strings"
	"testing"

	"github.com/MurphyLo/flux"
	"github.com/MurphyLo/flux/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(f *wire.Framer, chunks ...string) []flux.Update {
	var updates []flux.Update
	for _, c := range chunks {
		updates = append(updates, f.Feed(c)...)
	}
	return updates
}

func TestFramer_SingleCompleteLine(t *testing.T) {
	t.Parallel()
	var f wire.Framer

	updates := f.Feed("{\"type\":\"stream\",\"token\":\"Hi\"}\n")

	require.Len(t, updates, 1)
	assert.Equal(t, flux.TextUpdate{Token: "Hi"}, updates[0])
}

func TestFramer_RecordSplitAcrossChunks(t *testing.T) {
	t.Parallel()
	var f wire.Framer

	updates := feedAll(&f,
		"{\"type\":\"stream\",\"token\":\"Hel\"}\n{\"ty",
		"pe\":\"stream\",\"token\":\"lo\"}\n",
	)

	require.Len(t, updates, 2)
	assert.Equal(t, flux.TextUpdate{Token: "Hel"}, updates[0])
	assert.Equal(t, flux.TextUpdate{Token: "lo"}, updates[1])
}

func TestFramer_RecordSpanningManyChunks(t *testing.T) {
	t.Parallel()
	var f wire.Framer

	line := "{\"type\":\"stream\",\"token\":\"spread thin\"}\n"
	var updates []flux.Update
	for _, ch := range strings.Split(line, "") {
		updates = append(updates, f.Feed(ch)...)
	}

	require.Len(t, updates, 1)
	assert.Equal(t, flux.TextUpdate{Token: "spread thin"}, updates[0])
}

func TestFramer_SplitInvariantOverChunkBoundaries(t *testing.T) {
	t.Parallel()

	// Includes a split-prone escape sequence and a non-text record.
	input := "{\"type\":\"stream\",\"token\":\"say \\\"hi\\\"\"}\n" +
		"{\"type\":\"tool_call\",\"id\":\"tc_1\",\"name\":\"read\",\"arguments\":{\"path\":\"a.go\"}}\n" +
		"{\"type\":\"stream\",\"token\":\"done\"}\n"

	var want []flux.Update
	{
		var f wire.Framer
		want = f.Feed(input)
	}
	require.Len(t, want, 3)

	for split := 1; split < len(input); split++ {
		var f wire.Framer
		got := feedAll(&f, input[:split], input[split:])
		assert.Equal(t, want, got, "split at byte %d", split)
	}
}

func TestFramer_LastSegmentHeldEvenWhenParseable(t *testing.T) {
	t.Parallel()
	var f wire.Framer

	// The trailing segment is valid JSON but has no delimiter yet; a later
	// chunk may still extend it.
	updates := f.Feed("{\"type\":\"stream\",\"token\":\"a\"}")
	assert.Empty(t, updates)

	updates = f.Feed("\n")
	require.Len(t, updates, 1)
	assert.Equal(t, flux.TextUpdate{Token: "a"}, updates[0])
}

func TestFramer_CarryDiscardedOnReset(t *testing.T) {
	t.Parallel()
	var f wire.Framer

	updates := f.Feed("{\"type\":\"stream\",\"token\":\"kept\"}\n{\"type\":\"str")
	require.Len(t, updates, 1)

	f.Reset()

	// The dangling partial never surfaces, even if its tail arrives later:
	// the orphaned tail is just another malformed line.
	updates = f.Feed("eam\",\"token\":\"lost\"}\n{\"type\":\"stream\",\"token\":\"next\"}\n")
	require.Len(t, updates, 1)
	assert.Equal(t, flux.TextUpdate{Token: "next"}, updates[0])
	assert.Equal(t, 1, f.Dropped())
}

func TestFramer_MalformedLineDroppedSilently(t *testing.T) {
	t.Parallel()
	var f wire.Framer

	updates := f.Feed("not json\n{\"type\":\"stream\",\"token\":\"ok\"}\n")

	require.Len(t, updates, 1)
	assert.Equal(t, flux.TextUpdate{Token: "ok"}, updates[0])
	assert.Equal(t, 1, f.Dropped())
}

func TestFramer_UnknownRecordTypeDropped(t *testing.T) {
	t.Parallel()
	var f wire.Framer

	updates := f.Feed("{\"type\":\"telemetry\",\"message\":\"x\"}\n")

	assert.Empty(t, updates)
	assert.Equal(t, 1, f.Dropped())
}

func TestFramer_EmptyChunkAndBlankLines(t *testing.T) {
	t.Parallel()
	var f wire.Framer

	assert.Empty(t, f.Feed(""))

	updates := f.Feed("\n\n{\"type\":\"progress\",\"message\":\"warming up\"}\n\n")
	require.Len(t, updates, 1)
	assert.Equal(t, flux.ProgressUpdate{Message: "warming up"}, updates[0])
	assert.Equal(t, 0, f.Dropped(), "blank lines are not malformed records")
}

func TestFramer_DecodesAllRecordTypes(t *testing.T) {
	t.Parallel()
	var f wire.Framer

	updates := f.Feed("{\"type\":\"stream\",\"token\":\"hi\"}\n" +
		"{\"type\":\"tool_call\",\"id\":\"tc_1\",\"name\":\"bash\",\"arguments\":{\"command\":\"ls\"}}\n" +
		"{\"type\":\"tool_result\",\"tool_call_id\":\"tc_1\",\"content\":\"main.go\",\"is_error\":false}\n" +
		"{\"type\":\"progress\",\"message\":\"running\"}\n" +
		"{\"type\":\"error\",\"message\":\"overloaded\"}\n" +
		"{\"type\":\"final\",\"stop_reason\":\"end_turn\",\"usage\":{\"input_tokens\":12,\"output_tokens\":34}}\n")

	require.Len(t, updates, 6)
	assert.Equal(t, flux.TextUpdate{Token: "hi"}, updates[0])
	call, ok := updates[1].(flux.ToolCallUpdate)
	require.True(t, ok)
	assert.Equal(t, "tc_1", call.ID)
	assert.Equal(t, "bash", call.Name)
	assert.JSONEq(t, `{"command":"ls"}`, string(call.Arguments))
	assert.Equal(t, flux.ToolResultUpdate{ID: "tc_1", Content: "main.go"}, updates[2])
	assert.Equal(t, flux.ProgressUpdate{Message: "running"}, updates[3])
	assert.Equal(t, flux.ErrorUpdate{Message: "overloaded"}, updates[4])
	assert.Equal(t, flux.FinalUpdate{
		StopReason: "end_turn",
		Usage:      flux.Usage{InputTokens: 12, OutputTokens: 34},
	}, updates[5])
}
