package output

import (
	"fmt"
	"strings"
	"sync"
)

// BufferSink records output lines in memory. It is the Sink used by tests.
type BufferSink struct {
	mutex sync.Mutex
	lines []string
}

// NewBufferSink returns an empty in-memory sink.
func NewBufferSink() *BufferSink {
	return &BufferSink{}
}

func (sink *BufferSink) append(line string) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	sink.lines = append(sink.lines, line)
}

// Line records a plain line.
func (sink *BufferSink) Line(format string, arguments ...any) {
	sink.append(fmt.Sprintf(format, arguments...))
}

// Table records headers and rows as tab-separated lines.
func (sink *BufferSink) Table(headers []string, rows [][]string) {
	sink.append(strings.Join(headers, "\t"))
	for _, row := range rows {
		sink.append(strings.Join(row, "\t"))
	}
}

// Success records a line with a success marker.
func (sink *BufferSink) Success(format string, arguments ...any) {
	sink.append(successPrefixConstant + fmt.Sprintf(format, arguments...))
}

// Warning records a line with a warning marker.
func (sink *BufferSink) Warning(format string, arguments ...any) {
	sink.append(warningPrefixConstant + fmt.Sprintf(format, arguments...))
}

// Error records a line with an error marker.
func (sink *BufferSink) Error(format string, arguments ...any) {
	sink.append(errorPrefixConstant + fmt.Sprintf(format, arguments...))
}

// Lines returns a copy of everything recorded so far.
func (sink *BufferSink) Lines() []string {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	return append([]string(nil), sink.lines...)
}

// String joins the recorded lines with newlines.
func (sink *BufferSink) String() string {
	return strings.Join(sink.Lines(), "\n")
}
