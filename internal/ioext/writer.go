// Package ioext contains small io helpers shared by the output writers.
package ioext

import "io"

// CountingWriter is an io.Writer wrapper which counts the bytes that went
// through it. The output file writer places one in front of the compression
// codec so the reported size is the size of the JSON document.
type CountingWriter struct {
	writer io.Writer
	count  int64
}

// NewCountingWriter returns a writer forwarding to w.
func NewCountingWriter(w io.Writer) *CountingWriter {
	return &CountingWriter{writer: w}
}

func (w *CountingWriter) Count() int64 { return w.count }

func (w *CountingWriter) Reset(writer io.Writer) {
	w.writer = writer
	w.count = 0
}

func (w *CountingWriter) Write(b []byte) (int, error) {
	n, err := w.writer.Write(b)
	w.count += int64(n)
	return n, err
}

func (w *CountingWriter) WriteString(s string) (int, error) {
	n, err := io.WriteString(w.writer, s)
	w.count += int64(n)
	return n, err
}

var (
	_ io.StringWriter = (*CountingWriter)(nil)
)
