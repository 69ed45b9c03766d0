// Package uncompressed provides the pass-through output codec.
package uncompressed

import (
	"io"

	"github.com/segmentio/rowproject/compress"
)

// Codec writes plain JSON files.
type Codec struct{}

func (c *Codec) String() string    { return "UNCOMPRESSED" }
func (c *Codec) Extension() string { return "" }

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return io.NopCloser(r), nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return nopCloser{w}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
