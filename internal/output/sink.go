package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

const (
	successPrefixConstant = "✓ "
	warningPrefixConstant = "! "
	errorPrefixConstant   = "✗ "
)

// Sink receives user-facing command output.
type Sink interface {
	Line(format string, arguments ...any)
	Table(headers []string, rows [][]string)
	Success(format string, arguments ...any)
	Warning(format string, arguments ...any)
	Error(format string, arguments ...any)
}

// ConsoleSink renders output to a writer, coloring severity prefixes when the
// writer is a terminal.
type ConsoleSink struct {
	writer       io.Writer
	successColor *color.Color
	warningColor *color.Color
	errorColor   *color.Color
}

// NewConsoleSink builds a sink for the given writer. Color is enabled only
// when the writer is a terminal file descriptor.
func NewConsoleSink(writer io.Writer) *ConsoleSink {
	sink := &ConsoleSink{
		writer:       writer,
		successColor: color.New(color.FgGreen),
		warningColor: color.New(color.FgYellow),
		errorColor:   color.New(color.FgRed),
	}
	if !writerIsTerminal(writer) {
		sink.successColor.DisableColor()
		sink.warningColor.DisableColor()
		sink.errorColor.DisableColor()
	}
	return sink
}

// NewStandardSink returns a console sink bound to standard output.
func NewStandardSink() *ConsoleSink {
	return NewConsoleSink(os.Stdout)
}

func writerIsTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// Line prints one unformatted line.
func (sink *ConsoleSink) Line(format string, arguments ...any) {
	fmt.Fprintf(sink.writer, format+"\n", arguments...)
}

// Table renders headers and rows as an ASCII table.
func (sink *ConsoleSink) Table(headers []string, rows [][]string) {
	table := tablewriter.NewWriter(sink.writer)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

// Success prints a line with a success marker.
func (sink *ConsoleSink) Success(format string, arguments ...any) {
	sink.successColor.Fprintf(sink.writer, successPrefixConstant+format+"\n", arguments...)
}

// Warning prints a line with a warning marker.
func (sink *ConsoleSink) Warning(format string, arguments ...any) {
	sink.warningColor.Fprintf(sink.writer, warningPrefixConstant+format+"\n", arguments...)
}

// Error prints a line with an error marker.
func (sink *ConsoleSink) Error(format string, arguments ...any) {
	sink.errorColor.Fprintf(sink.writer, errorPrefixConstant+format+"\n", arguments...)
}
