package rowproject

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/segmentio/rowproject/compress"
	"github.com/segmentio/rowproject/internal/debug"
	"github.com/segmentio/rowproject/internal/ioext"
)

// outputFile writes the JSON array to a temporary file next to its final
// path, and renames it over the destination on commit. Readers of the
// destination never observe a partial document, and a failed run leaves the
// previous content in place.
type outputFile struct {
	path    string
	temp    *os.File
	writer  compress.Writer
	counter *ioext.CountingWriter
	encoder *ArrayEncoder
}

func createOutput(path string, codec compress.Codec, utf8 bool) (*outputFile, error) {
	tempPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	temp, err := os.OpenFile(tempPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fileAccessError("create", tempPath, err)
	}

	writer, err := codec.NewWriter(temp)
	if err != nil {
		temp.Close()
		os.Remove(tempPath)
		return nil, fileAccessError("compress", tempPath, err)
	}

	counter := ioext.NewCountingWriter(writer)
	encoder := NewArrayEncoder(counter)
	encoder.SetEscapeASCII(!utf8)

	debug.Format("writing %s output to %s", codec, tempPath)
	return &outputFile{
		path:    path,
		temp:    temp,
		writer:  writer,
		counter: counter,
		encoder: encoder,
	}, nil
}

// Encode appends v to the output array. Encoding errors are returned as is,
// write errors wrap ErrFileAccess.
func (out *outputFile) Encode(v interface{}) error {
	err := out.encoder.Encode(v)
	if isWriteError(err) {
		return fileAccessError("write", out.temp.Name(), err)
	}
	return err
}

// commit terminates the document and moves it to its final path. It returns
// the size of the uncompressed document.
func (out *outputFile) commit() (int64, error) {
	tempPath := out.temp.Name()

	if err := out.encoder.Close(); err != nil {
		out.abort()
		return 0, fileAccessError("write", tempPath, err)
	}
	if err := out.writer.Close(); err != nil {
		out.abort()
		return 0, fileAccessError("write", tempPath, err)
	}
	if err := out.temp.Sync(); err != nil {
		out.abort()
		return 0, fileAccessError("sync", tempPath, err)
	}
	if err := out.temp.Close(); err != nil {
		os.Remove(tempPath)
		return 0, fileAccessError("close", tempPath, err)
	}
	if err := os.Rename(tempPath, out.path); err != nil {
		os.Remove(tempPath)
		return 0, fileAccessError("rename", out.path, err)
	}

	debug.Format("renamed %s to %s", tempPath, out.path)
	return out.counter.Count(), nil
}

// abort discards the temporary file.
func (out *outputFile) abort() {
	tempPath := out.temp.Name()
	out.temp.Close()
	if err := os.Remove(tempPath); err != nil {
		debug.Format("removing %s: %v", tempPath, err)
	}
}

func isWriteError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr)
}
