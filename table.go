package rowproject

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/segmentio/parquet-go"
)

// Table is an in-memory copy of the rows of a parquet file, in file order.
type Table struct {
	schema *parquet.Schema
	kinds  groupKinds
	rows   []parquet.Row
}

// ReadTable loads the parquet file at path in memory.
//
// Errors opening or reading the file wrap ErrFileAccess, errors decoding it
// wrap ErrFormat.
func ReadTable(path string) (*Table, error) {
	return readTable(context.Background(), path, DefaultBatchSize)
}

// OpenTable loads the parquet file of the given size from r in memory.
func OpenTable(r io.ReaderAt, size int64) (*Table, error) {
	file, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, formatError("<reader>", err)
	}
	return loadTable(context.Background(), "<reader>", file, DefaultBatchSize)
}

func readTable(ctx context.Context, path string, batchSize int) (*Table, error) {
	f, file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loadTable(ctx, path, file, batchSize)
}

func loadTable(ctx context.Context, path string, file *parquet.File, batchSize int) (*Table, error) {
	table := &Table{
		schema: file.Schema(),
		kinds:  groupKindsOf(file.Metadata()),
		rows:   make([]parquet.Row, 0, file.NumRows()),
	}

	err := forEachRow(ctx, path, file, batchSize, func(row parquet.Row) error {
		// Row values may point into page buffers reused by the next read.
		table.rows = append(table.rows, row.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Schema returns the schema of the file t was loaded from.
func (t *Table) Schema() *parquet.Schema { return t.schema }

// NumRows returns the number of rows in t.
func (t *Table) NumRows() int { return len(t.rows) }

// Row returns the row at index i.
func (t *Table) Row(i int) parquet.Row { return t.rows[i] }

// Column returns a decoder for the top-level column of t named name.
func (t *Table) Column(name string) (*Column, error) {
	return lookupColumn(t.schema, t.kinds, name)
}

// openFile opens the parquet file at path. The returned *os.File backs the
// parquet file and must be closed by the caller.
func openFile(path string) (*os.File, *parquet.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fileAccessError("open", path, err)
	}

	s, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fileAccessError("stat", path, err)
	}

	file, err := parquet.OpenFile(f, s.Size())
	if err != nil {
		f.Close()
		return nil, nil, formatError(path, err)
	}

	return f, file, nil
}

// forEachRow calls do for every row of file, in order. Rows passed to do are
// only valid until do returns.
func forEachRow(ctx context.Context, path string, file *parquet.File, batchSize int, do func(parquet.Row) error) error {
	buffer := make([]parquet.Row, batchSize)

	for _, rowGroup := range file.RowGroups() {
		if err := forEachRowInGroup(ctx, path, rowGroup, buffer, do); err != nil {
			return err
		}
	}

	return nil
}

func forEachRowInGroup(ctx context.Context, path string, rowGroup parquet.RowGroup, buffer []parquet.Row, do func(parquet.Row) error) error {
	rows := rowGroup.Rows()
	defer rows.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := rows.ReadRows(buffer)
		for _, row := range buffer[:n] {
			if err := do(row); err != nil {
				return err
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return readError(path, err)
		}
	}
}

// readError classifies an error returned while reading rows: I/O failures of
// the underlying file wrap ErrFileAccess, anything else is a decoding error.
func readError(path string, err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fileAccessError("read", path, err)
	}
	return formatError(path, err)
}
