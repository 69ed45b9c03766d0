// Package brotli implements the BROTLI output codec.
package brotli

import (
	"io"

	"github.com/andybalholm/brotli"
	"github.com/segmentio/rowproject/compress"
)

// Codec writes brotli streams, the format of .br files.
type Codec struct {
	// Quality ranges from 0 (fastest) to 11 (densest).
	Quality int
	// LGWin is the base 2 logarithm of the sliding window size, from 10 to
	// 24. Zero picks a window from Quality.
	LGWin int
}

func (c *Codec) String() string    { return "BROTLI" }
func (c *Codec) Extension() string { return ".br" }

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return brotli.NewWriterOptions(w, brotli.WriterOptions{
		Quality: c.Quality,
		LGWin:   c.LGWin,
	}), nil
}
