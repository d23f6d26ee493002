package debug

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// TreeWriter accumulates an indented tree, two spaces per level, for report
// attachments and console dumps.
type TreeWriter struct {
	buf *bytes.Buffer
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		buf: &bytes.Buffer{},
	}
}

func (tw TreeWriter) String() string {
	return tw.buf.String()
}

// WriteTo drains the accumulated tree into w.
func (tw TreeWriter) WriteTo(w io.Writer) (int64, error) {
	return tw.buf.WriteTo(w)
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.buf, format, args...)
	tw.buf.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.buf.WriteString(label)
	tw.buf.WriteString(": ")
	tw.buf.WriteString(encodeText(value))
	tw.buf.WriteByte('\n')
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.buf.WriteString("  ")
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
