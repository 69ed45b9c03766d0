package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/segmentio/rowproject"
	"github.com/segmentio/rowproject/internal/debug"
)

type inspectFlags struct {
	_     struct{} `help:"Print the row count and top-level columns of a parquet file"`
	Input string   `flag:"-i,--input" help:"Path to the parquet file to inspect" default:"train-00000-of-00001-cced8514c7ed782a.parquet"`
	Debug bool     `flag:"--debug" help:"Display debugging logs" default:"false"`
}

func inspectCommand(flags inspectFlags) {
	exit(runInspect(flags, os.Stdout, os.Stderr))
}

func runInspect(flags inspectFlags, stdout, stderr io.Writer) int {
	debug.Toggle(flags.Debug)
	debug.SetOutput(stderr)

	info, err := rowproject.Inspect(flags.Input)
	if err != nil {
		perrorf(stderr, "%s", err)
		return 1
	}
	pdebugf("inspected %s", flags.Input)
	debug.Do(func() {
		for _, column := range info.Columns {
			pdebugf("column %q: %s %s, %d leaf columns", column.Name, column.Repetition, column.Type, column.Leaves)
		}
	})

	fmt.Fprintf(stdout, "%s: %d rows in %d row groups\n", flags.Input, info.NumRows, info.NumRowGroups)

	table := tablewriter.NewWriter(stdout)
	table.SetHeader([]string{"Column", "Type", "Repetition", "Leaves"})
	table.SetAutoWrapText(false)
	for _, column := range info.Columns {
		table.Append([]string{
			column.Name,
			column.Type,
			column.Repetition,
			strconv.Itoa(column.Leaves),
		})
	}
	table.Render()
	return 0
}
