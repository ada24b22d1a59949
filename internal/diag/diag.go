// Package diag defines the diagnostic shape used by the two-pass MMIXAL
// assembler (the debug preprocessor reports none): every reported problem carries
// its file, line, column and a human-readable message, and is accumulated
// rather than aborting the pass that found it.
package diag

import "fmt"

// Diagnostic is a single assembly-time error.
type Diagnostic struct {
	File    string
	Line    int
	Col     int
	Kind    string
	Message string
}

// Error implements the error interface as "filename:line:column: kind: detail".
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Col, d.Kind, d.Message)
}

// New constructs a Diagnostic with kind "error".
func New(file string, line, col int, format string, args ...any) *Diagnostic {
	return &Diagnostic{File: file, Line: line, Col: col, Kind: "error", Message: fmt.Sprintf(format, args...)}
}

// NewKind constructs a Diagnostic with an explicit kind
// (e.g. "syntax", "semantic", "undefined-symbol", "greg-exhausted").
func NewKind(file string, line, col int, kind, format string, args ...any) *Diagnostic {
	return &Diagnostic{File: file, Line: line, Col: col, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
