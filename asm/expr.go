package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// parseNumber parses a decimal, "#hex", "0xhex", or leading-zero-octal
// numeric literal.
func parseNumber(s string) (uint64, bool) {
	switch {
	case strings.HasPrefix(s, "#"):
		v, err := strconv.ParseUint(s[1:], 16, 64)
		return v, err == nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return v, err == nil
	case len(s) > 1 && s[0] == '0':
		v, err := strconv.ParseUint(s, 8, 64)
		return v, err == nil
	default:
		v, err := strconv.ParseUint(s, 10, 64)
		return v, err == nil
	}
}

// isRegisterToken reports whether an operand is a literal $N register reference.
func isRegisterToken(s string) bool {
	return strings.HasPrefix(s, "$")
}

// parseRegisterToken parses a literal "$N" register reference.
func parseRegisterToken(s string) (byte, bool) {
	if !isRegisterToken(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n > 255 {
		return 0, false
	}
	return byte(n), true
}

// evalExpr resolves an operand expression against the frozen symbol table
// and the current assembly address (for the "@" marker). Supports numeric
// literals, identifiers (symbols first, then labels), and "@".
func evalExpr(op string, st *SymbolTable, addr uint64) (uint64, error) {
	if op == "@" {
		return addr, nil
	}
	if v, ok := parseNumber(op); ok {
		return v, nil
	}
	if v, ok := st.Resolve(op); ok {
		return v, nil
	}
	return 0, fmt.Errorf("undefined symbol %q", op)
}

// evalRegister resolves an operand that must name a general register: either
// a literal "$N" or an identifier bound (via IS) to a value <= 255.
func evalRegister(op string, st *SymbolTable) (byte, error) {
	if reg, ok := parseRegisterToken(op); ok {
		return reg, nil
	}
	v, ok := st.Resolve(op)
	if !ok {
		return 0, fmt.Errorf("undefined symbol %q", op)
	}
	if v > 255 {
		return 0, fmt.Errorf("register value out of range: %q = %d", op, v)
	}
	return byte(v), nil
}

// parseStringLiteral strips the surrounding quotes from a double-quoted
// string operand, translating the "#a" alias to a newline. It returns ok
// = false if op is not a quoted string.
func parseStringLiteral(op string) (string, bool) {
	if len(op) < 2 || op[0] != '"' || op[len(op)-1] != '"' {
		return "", false
	}
	inner := op[1 : len(op)-1]
	return strings.ReplaceAll(inner, "#a", "\n"), true
}
