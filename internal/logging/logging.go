// Package logging is the launcher's console output surface: a
// goterminal.Writer for in-place progress lines, plus plain section
// headers for discrete milestones; cmd/coniccore is its only caller
// (internal/install and internal/launch do not log through it). Grounded on the teacher's pkg/console.go
// (CONSOLE, logAction, logSection), generalised from package-level
// functions into a type so callers in different packages (install,
// launch, cmd/coniccore) don't fight over one global.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/apoorvam/goterminal"
)

// Logger writes in-place "Action" lines (overwritten on every call,
// mirroring a progress readout) and one-shot "Section" headers.
// Verbose gates extra diagnostic detail the way the teacher's
// ARG_VERBOSE flag gated fmt.Println(...) calls throughout main.go.
type Logger struct {
	console *goterminal.Writer
	out     io.Writer
	Verbose bool
}

// New returns a Logger writing both its in-place lines and its section
// headers to w, typically os.Stdout.
func New(w io.Writer) *Logger {
	return &Logger{console: goterminal.New(w), out: w}
}

// Default is the package-level Logger cmd/coniccore and library
// callers use when they have no reason to build their own, mirroring
// the teacher's package-level CONSOLE var.
var Default = New(os.Stdout)

// Action overwrites the current in-place line with format, e.g. a
// download progress readout refreshed every sample tick.
func (l *Logger) Action(format string, args ...interface{}) {
	l.console.Clear()
	fmt.Fprintf(l.console, format, args...)
	l.console.Print()
}

// Section prints a standalone line, advancing past any in-place
// Action line above it, for a discrete milestone ("Installing Forge
// 47.2.0...").
func (l *Logger) Section(format string, args ...interface{}) {
	l.console.Clear()
	fmt.Fprintf(l.out, format, args...)
}

// Verboseln prints args only when Verbose is set, mirroring the
// teacher's `if ARG_VERBOSE { fmt.Println(...) }` call sites.
func (l *Logger) Verboseln(args ...interface{}) {
	if l.Verbose {
		fmt.Fprintln(l.out, args...)
	}
}
