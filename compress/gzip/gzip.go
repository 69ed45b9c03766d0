// Package gzip implements the GZIP output codec.
package gzip

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/segmentio/rowproject/compress"
)

const (
	NoCompression      = gzip.NoCompression
	BestSpeed          = gzip.BestSpeed
	BestCompression    = gzip.BestCompression
	DefaultCompression = gzip.DefaultCompression
	HuffmanOnly        = gzip.HuffmanOnly
)

// Codec writes gzip members, the format of .gz files.
type Codec struct {
	Level int
}

func (c *Codec) String() string    { return "GZIP" }
func (c *Codec) Extension() string { return ".gz" }

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return gzip.NewReader(r)
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	level := c.Level
	if level == 0 {
		level = DefaultCompression
	}
	return gzip.NewWriterLevel(w, level)
}
