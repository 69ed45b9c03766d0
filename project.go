package rowproject

import (
	"context"

	"github.com/segmentio/parquet-go"
	"github.com/segmentio/rowproject/internal/debug"
)

// Stats reports what a call to Project produced.
type Stats struct {
	// Number of rows read from the input file.
	Rows int64
	// Number of values written to the output array.
	Records int64
	// Size of the JSON document, before compression.
	Bytes int64
}

// Project reads the parquet file configured by options, takes the first turns
// of the conversation column of every row, and writes them as one JSON array
// to the output file.
//
// The output file is written only if every row projects successfully;
// otherwise the function returns an error and any existing file at the output
// path is left untouched. The error wraps one of ErrFileAccess, ErrFormat,
// ErrMissingColumn, ErrNotSequence or ErrShortCell, row level failures are
// reported as *RowError.
func Project(ctx context.Context, options ...Option) (Stats, error) {
	config, err := NewConfig(options...)
	if err != nil {
		return Stats{}, err
	}
	debug.Format("projecting column %q of %s to %s (turns=%d, streaming=%t)",
		config.ColumnName, config.InputPath, config.OutputPath, config.Turns, config.Streaming)

	if config.Streaming {
		return projectStream(ctx, config)
	}
	return projectTable(ctx, config)
}

func projectTable(ctx context.Context, config *Config) (Stats, error) {
	table, err := readTable(ctx, config.InputPath, config.BatchSize)
	if err != nil {
		return Stats{}, err
	}
	debug.Format("loaded %d rows from %s", table.NumRows(), config.InputPath)

	records, err := table.Project(config.ColumnName, config.Turns)
	if err != nil {
		return Stats{}, err
	}

	out, err := createOutput(config.OutputPath, config.codec(), config.UTF8)
	if err != nil {
		return Stats{}, err
	}

	for _, record := range records {
		if err := out.Encode(record); err != nil {
			out.abort()
			return Stats{}, err
		}
	}

	size, err := out.commit()
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Rows:    int64(table.NumRows()),
		Records: int64(len(records)),
		Bytes:   size,
	}, nil
}

func projectStream(ctx context.Context, config *Config) (Stats, error) {
	f, file, err := openFile(config.InputPath)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	column, err := lookupColumn(file.Schema(), groupKindsOf(file.Metadata()), config.ColumnName)
	if err != nil {
		return Stats{}, err
	}

	out, err := createOutput(config.OutputPath, config.codec(), config.UTF8)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{}
	err = forEachRow(ctx, config.InputPath, file, config.BatchSize, func(row parquet.Row) error {
		turns, err := column.Turns(row, config.Turns)
		if err != nil {
			return &RowError{Row: stats.Rows, Column: column.Name(), Err: err}
		}
		for _, turn := range turns {
			if err := out.Encode(turn); err != nil {
				return err
			}
		}
		stats.Rows++
		stats.Records += int64(len(turns))
		return nil
	})
	if err != nil {
		out.abort()
		return Stats{}, err
	}

	if stats.Bytes, err = out.commit(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// Project returns the flattened sequence made of the first turns elements of
// the named column, for every row of t in order.
func (t *Table) Project(columnName string, turns int) ([]interface{}, error) {
	column, err := t.Column(columnName)
	if err != nil {
		return nil, err
	}

	records := make([]interface{}, 0, turns*len(t.rows))

	for i, row := range t.rows {
		values, err := column.Turns(row, turns)
		if err != nil {
			return nil, &RowError{Row: int64(i), Column: columnName, Err: err}
		}
		records = append(records, values...)
	}

	return records, nil
}
