package asm

import "github.com/jac18281828/checksmix/internal/diag"

// Error is the assembler's diagnostic type: file, line, column, kind and
// a human-readable message, formatted as "filename:line:column: kind: detail".
type Error = diag.Diagnostic

func newError(file string, line, col int, format string, args ...any) *Error {
	return diag.NewKind(file, line, col, "error", format, args...)
}

func newErrorKind(file string, line, col int, kind, format string, args ...any) *Error {
	return diag.NewKind(file, line, col, kind, format, args...)
}
