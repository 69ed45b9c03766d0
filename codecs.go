package rowproject

import (
	"path/filepath"
	"strings"

	"github.com/segmentio/rowproject/compress"
	"github.com/segmentio/rowproject/compress/brotli"
	"github.com/segmentio/rowproject/compress/gzip"
	"github.com/segmentio/rowproject/compress/lz4"
	"github.com/segmentio/rowproject/compress/snappy"
	"github.com/segmentio/rowproject/compress/uncompressed"
	"github.com/segmentio/rowproject/compress/zstd"
)

var (
	// Uncompressed is the codec writing output files as plain JSON.
	Uncompressed uncompressed.Codec

	// Gzip is the codec for output files ending in .gz.
	Gzip gzip.Codec

	// Zstd is the codec for output files ending in .zst.
	Zstd zstd.Codec

	// Snappy is the codec for output files ending in .sz.
	Snappy snappy.Codec

	// Brotli is the codec for output files ending in .br.
	Brotli brotli.Codec

	// Lz4 is the codec for output files ending in .lz4.
	Lz4 lz4.Codec
)

var outputCodecs = [...]compress.Codec{
	&Uncompressed,
	&Gzip,
	&Zstd,
	&Snappy,
	&Brotli,
	&Lz4,
}

// LookupCodec returns the output codec with the given name. Names are matched
// case-insensitively; "none" is accepted for the uncompressed codec.
func LookupCodec(name string) (compress.Codec, bool) {
	if strings.EqualFold(name, "none") {
		return &Uncompressed, true
	}
	for _, codec := range outputCodecs {
		if strings.EqualFold(codec.String(), name) {
			return codec, true
		}
	}
	return nil, false
}

// CodecForPath returns the output codec matching the extension of path, or the
// uncompressed codec if none matches.
func CodecForPath(path string) compress.Codec {
	ext := filepath.Ext(path)
	if ext != "" {
		for _, codec := range outputCodecs {
			if strings.EqualFold(codec.Extension(), ext) {
				return codec
			}
		}
	}
	return &Uncompressed
}

// CodecNames returns the names accepted by LookupCodec.
func CodecNames() []string {
	names := make([]string, len(outputCodecs))
	for i, codec := range outputCodecs {
		names[i] = strings.ToLower(codec.String())
	}
	return names
}
