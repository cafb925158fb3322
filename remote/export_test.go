package remote

import (
	"context"
	"io"

	"github.com/MurphyLo/flux"
)

// NewStreamForTest exposes newStream so external tests can drive the
// abort linkage against a controlled reader.
func NewStreamForTest(ctx context.Context, body io.ReadCloser) flux.Stream {
	return newStream(ctx, body)
}
