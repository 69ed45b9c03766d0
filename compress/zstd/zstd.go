// Package zstd implements the ZSTD output codec.
package zstd

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/segmentio/rowproject/compress"
)

type Level = zstd.EncoderLevel

const (
	SpeedFastest           = zstd.SpeedFastest
	SpeedDefault           = zstd.SpeedDefault
	SpeedBetterCompression = zstd.SpeedBetterCompression
	SpeedBestCompression   = zstd.SpeedBestCompression
)

// Codec writes zstd frames, the format of .zst files. Encoding runs on a
// single goroutine unless Concurrency is set.
type Codec struct {
	Level       Level
	Concurrency int
}

func (c *Codec) String() string    { return "ZSTD" }
func (c *Codec) Extension() string { return ".zst" }

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return decoder{d}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	level, concurrency := c.Level, c.Concurrency
	if level == 0 {
		level = SpeedDefault
	}
	if concurrency == 0 {
		concurrency = 1
	}
	return zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(concurrency),
		zstd.WithEncoderLevel(level),
		zstd.WithZeroFrames(true),
	)
}

// decoder adapts the Close method of zstd.Decoder, which returns nothing.
type decoder struct{ *zstd.Decoder }

func (d decoder) Close() error { d.Decoder.Close(); return nil }
