// Package ui provides the colored terminal output helpers used by the
// harness's progress reporting.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed, color.Bold)
	mutedColor   = color.New(color.Faint)
)

// Header prints a prominent section line, such as the start of a paper.
func Header(w io.Writer, format string, args ...any) {
	headerColor.Fprintf(w, format+"\n", args...)
}

// Info prints a plain progress line.
func Info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// Muted prints a de-emphasized line, used for skips.
func Muted(w io.Writer, format string, args ...any) {
	mutedColor.Fprintf(w, format+"\n", args...)
}

// Success prints a green result line.
func Success(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, format+"\n", args...)
}

// Failure prints a red error line.
func Failure(w io.Writer, format string, args ...any) {
	failureColor.Fprintf(w, format+"\n", args...)
}
