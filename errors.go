package rowproject

import (
	"errors"
	"fmt"
)

var (
	// ErrFileAccess is returned when the input file cannot be opened or read,
	// or when the output file cannot be written.
	ErrFileAccess = errors.New("file access error")

	// ErrFormat is returned when the input is not a parquet file, or when the
	// values of a row do not match the structure declared by the file schema.
	ErrFormat = errors.New("invalid parquet file")

	// ErrMissingColumn is returned when the file schema has no top-level
	// column with the configured name.
	ErrMissingColumn = errors.New("column not found")

	// ErrNotSequence is returned when a cell is null or is not a list.
	ErrNotSequence = errors.New("cell is not a sequence")

	// ErrShortCell is returned when a cell holds fewer elements than the
	// number of turns projected from each row.
	ErrShortCell = errors.New("cell has too few elements")
)

// RowError is returned when a row of the input fails to project. Err carries
// one of ErrFormat, ErrNotSequence or ErrShortCell.
type RowError struct {
	Row    int64
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: column %q: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

func fileAccessError(op, path string, err error) error {
	return &kindError{kind: ErrFileAccess, err: fmt.Errorf("%s %s: %w", op, path, err)}
}

func formatError(path string, err error) error {
	return &kindError{kind: ErrFormat, err: fmt.Errorf("%s: %w", path, err)}
}

// kindError attaches one of the sentinel errors of this package to an error
// returned by a lower layer, keeping both reachable with errors.Is.
type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string { return e.kind.Error() + ": " + e.err.Error() }

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error { return e.err }
