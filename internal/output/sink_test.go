package output_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/output"
)

func TestConsoleSinkWritesPlainLines(t *testing.T) {
	var buffer bytes.Buffer
	sink := output.NewConsoleSink(&buffer)

	sink.Line("listing %d repositories", 3)
	sink.Success("done")
	sink.Warning("rate limit low")
	sink.Error("request failed")

	rendered := buffer.String()
	require.Contains(t, rendered, "listing 3 repositories\n")
	require.Contains(t, rendered, "✓ done")
	require.Contains(t, rendered, "! rate limit low")
	require.Contains(t, rendered, "✗ request failed")
}

func TestConsoleSinkRendersTables(t *testing.T) {
	var buffer bytes.Buffer
	sink := output.NewConsoleSink(&buffer)

	sink.Table([]string{"Repository", "Stars"}, [][]string{
		{"acme/toolkit", "42"},
		{"acme/site", "7"},
	})

	rendered := buffer.String()
	require.Contains(t, rendered, "acme/toolkit")
	require.Contains(t, rendered, "42")
	require.Contains(t, rendered, "acme/site")
}

func TestBufferSinkRecordsLinesInOrder(t *testing.T) {
	sink := output.NewBufferSink()

	sink.Line("first")
	sink.Success("second")
	sink.Table([]string{"a", "b"}, [][]string{{"1", "2"}})

	lines := sink.Lines()
	require.Equal(t, []string{"first", "✓ second", "a\tb", "1\t2"}, lines)
}
