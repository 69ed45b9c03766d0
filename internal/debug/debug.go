// Package debug carries the opt-in diagnostics of the rowproject command.
//
// Messages are dropped unless debug mode was turned on with Toggle, which the
// command does when --debug is passed.
package debug

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

var (
	enabled int32
	logger  = log.New(os.Stderr, "rowproject: ", log.LstdFlags|log.Lmicroseconds)
)

// Toggle turns on/off debug mode
func Toggle(on bool) {
	val := int32(0)
	if on {
		val = 1
	}
	atomic.StoreInt32(&enabled, val)
}

// Enabled reports whether debug mode is on.
func Enabled() bool {
	return atomic.LoadInt32(&enabled) == 1
}

// SetOutput redirects debug messages to w.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Do executes a function if debug is enabled, usually for side effects.
func Do(f func()) {
	if !Enabled() {
		return
	}
	f()
}

// Format a log line and writes it to stderr if debug is enabled
func Format(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	logger.Printf(format, args...)
}
