// Package snappy implements the framed SNAPPY output codec.
//
// Unlike the block format used inside parquet pages, output files use the
// snappy framing format so they can be decoded as a stream.
package snappy

import (
	"io"

	"github.com/klauspost/compress/snappy"
	"github.com/segmentio/rowproject/compress"
)

// Codec writes snappy framed streams, the format of .sz files.
type Codec struct{}

func (c *Codec) String() string    { return "SNAPPY" }
func (c *Codec) Extension() string { return ".sz" }

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return snappy.NewBufferedWriter(w), nil
}
