// Package lz4 implements the LZ4 frame output codec.
package lz4

import (
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/segmentio/rowproject/compress"
)

// Codec writes LZ4 frames, the format of .lz4 files.
type Codec struct {
	// Level defaults to lz4.Fast.
	Level lz4.CompressionLevel
}

func (c *Codec) String() string    { return "LZ4" }
func (c *Codec) Extension() string { return ".lz4" }

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	z := lz4.NewWriter(w)
	if c.Level != 0 {
		if err := z.Apply(lz4.CompressionLevelOption(c.Level)); err != nil {
			return nil, err
		}
	}
	return z, nil
}
