// Package compress provides the generic APIs implemented by the stream codecs
// used to compress output files.
//
// Each sub-package adapts a third-party compression library to the Reader and
// Writer interfaces declared here, so the output file writer can pick a codec
// from a file name without knowing which library implements it.
package compress

import (
	"io"
)

// The Codec interface represents the compression codecs implemented by the
// compress sub-packages.
//
// Codec instances must be safe to use concurrently from multiple goroutines.
type Codec interface {
	// Returns a human-readable name for the codec.
	String() string

	// Returns the file name extension conventionally used for the codec,
	// including the leading dot. The uncompressed codec returns "".
	Extension() string

	// Wraps r to read the uncompressed content of a stream written by the
	// codec.
	NewReader(r io.Reader) (Reader, error)

	// Wraps w to compress the data written to the returned writer. The
	// writer must be closed to flush the trailing frames.
	NewWriter(w io.Writer) (Writer, error)
}

// Reader is the decompressing side of a codec. Closing it does not close the
// underlying reader.
type Reader = io.ReadCloser

// Writer is the compressing side of a codec. Closing it flushes the trailing
// frames but does not close the underlying writer.
type Writer = io.WriteCloser

// Compress writes the compressed version of src to w using codec.
func Compress(codec Codec, w io.Writer, src []byte) error {
	z, err := codec.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := z.Write(src); err != nil {
		z.Close()
		return err
	}
	return z.Close()
}

// Decompress reads the whole stream from r and returns its uncompressed
// content.
func Decompress(codec Codec, r io.Reader) ([]byte, error) {
	z, err := codec.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer z.Close()
	return io.ReadAll(z)
}
