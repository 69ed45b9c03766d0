/*
Package rowproject flattens conversation columns of parquet files into JSON.

Each row of the input holds, in a designated column, a list of sub-records
(typically the turns of a conversation, made of role and content fields).
The projector takes the first elements of that list (two by default) for
every row, in file order, and writes all of them as a single JSON array:

	stats, err := rowproject.Project(ctx,
		rowproject.InputPath("train-00000-of-00001.parquet"),
		rowproject.ColumnName("conversation_b"),
		rowproject.OutputPath("train.json"),
	)

# Reading

By default the whole file is loaded in memory as a Table before any output is
produced. The Streaming option decodes rows as they are read instead, which
bounds memory use to one batch of rows.

Sub-records are decoded without knowledge of their structure: groups become
Object values, lists become []interface{}, and leaf values become the Go type
matching their parquet type. See Object for the full mapping.

# Writing

The output is written to a temporary file and renamed over the destination
once complete, so a failed run never leaves a partial document. Output files
whose name ends with .gz, .zst, .sz, .br or .lz4 are compressed with the
matching codec.

# Tooling

The program at ./cmd/rowproject exposes the projector on the command line,
along with an inspect command printing the columns of a parquet file.
*/
package rowproject
