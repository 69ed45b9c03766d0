// Command rowproject flattens the conversation column of a parquet file into a
// JSON array.
//
//	rowproject project -i train-00000-of-00001.parquet -o train.json
//	rowproject inspect -i train-00000-of-00001.parquet
//
// Errors are reported on stderr and make the program exit with status 1. No
// output file is written when the projection fails.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	color "github.com/logrusorgru/aurora/v3"
	"github.com/segmentio/cli"
	"github.com/segmentio/rowproject/internal/debug"
)

func main() {
	cli.Exec(cli.CommandSet{
		"project": cli.Command(projectCommand),
		"inspect": cli.Command(inspectCommand),
	})
}

func perrorf(w io.Writer, format string, args ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	_, _ = fmt.Fprintf(w, color.Red(format).String(), args...)
}

func pdebugf(format string, args ...interface{}) {
	if debug.Enabled() {
		debug.Format(color.Gray(12, format).String(), args...)
	}
}

func exit(code int) {
	if code != 0 {
		os.Exit(code)
	}
}
