package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"

	"github.com/segmentio/rowproject"
	"github.com/segmentio/rowproject/internal/debug"
)

type projectFlags struct {
	_           struct{} `help:"Write the first turns of every row of a conversation column to a JSON array"`
	Input       string   `flag:"-i,--input" help:"Path to the parquet file to read" default:"train-00000-of-00001-cced8514c7ed782a.parquet"`
	Output      string   `flag:"-o,--output" help:"Path to the JSON file to write, compressed if it ends in .gz, .zst, .sz, .br or .lz4" default:"train.json"`
	Column      string   `flag:"-c,--column" help:"Name of the column holding the conversations" default:"conversation_b"`
	Turns       int      `flag:"--turns" help:"Number of leading turns taken from every row" default:"2"`
	BatchSize   int      `flag:"--batch-size" help:"Number of rows read at once" default:"64"`
	Stream      bool     `flag:"--stream" help:"Encode rows as they are read instead of loading the whole file" default:"false"`
	UTF8        bool     `flag:"--utf8" help:"Write non-ASCII characters as is instead of escaping them" default:"false"`
	Compression string   `flag:"--compression" help:"Force the output codec (none, gzip, zstd, snappy, brotli, lz4)" default:"-"`
	Debug       bool     `flag:"--debug" help:"Display debugging logs" default:"false"`
	CPUProfile  string   `flag:"--cpu-profile" help:"Record a pprof CPU profile to the given file" default:"-"`
	MemProfile  string   `flag:"--mem-profile" help:"Record a pprof memory profile to the given file" default:"-"`
}

func projectCommand(flags projectFlags) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := runProject(ctx, flags, os.Stderr)
	stop()
	exit(code)
}

func runProject(ctx context.Context, flags projectFlags, stderr io.Writer) int {
	debug.Toggle(flags.Debug)
	debug.SetOutput(stderr)

	options := []rowproject.Option{
		rowproject.InputPath(flags.Input),
		rowproject.OutputPath(flags.Output),
		rowproject.ColumnName(flags.Column),
		rowproject.Turns(flags.Turns),
		rowproject.BatchSize(flags.BatchSize),
		rowproject.Streaming(flags.Stream),
		rowproject.EscapeASCII(!flags.UTF8),
	}

	if flags.Compression != "" {
		codec, ok := rowproject.LookupCodec(flags.Compression)
		if !ok {
			perrorf(stderr, "unknown compression codec: %q (supported: %q)", flags.Compression, rowproject.CodecNames())
			return 1
		}
		options = append(options, rowproject.Compression(codec))
	}

	if flags.CPUProfile != "" {
		f, err := os.Create(flags.CPUProfile)
		if err != nil {
			perrorf(stderr, "could not create CPU profile: %s", err)
			return 1
		}
		defer func() {
			err := f.Close()
			if err != nil {
				perrorf(stderr, "could not close CPU profile: %s", err)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			perrorf(stderr, "could not start CPU profile: %s", err)
			return 1
		}
		pdebugf("started CPU profile to %s", flags.CPUProfile)
		defer pprof.StopCPUProfile()
	}

	stats, err := rowproject.Project(ctx, options...)
	if err != nil {
		perrorf(stderr, "%s", err)
		return 1
	}
	pdebugf("wrote %d records from %d rows to %s (%d bytes)", stats.Records, stats.Rows, flags.Output, stats.Bytes)

	if flags.MemProfile != "" {
		f, err := os.Create(flags.MemProfile)
		if err != nil {
			perrorf(stderr, "could not create memory profile: %s", err)
			return 1
		}
		defer func() {
			err := f.Close()
			if err != nil {
				perrorf(stderr, "could not close memory profile: %s", err)
			}
		}()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			perrorf(stderr, "could not write memory profile: %s", err)
			return 1
		}
		pdebugf("wrote memory profile at %s", flags.MemProfile)
	}

	return 0
}
