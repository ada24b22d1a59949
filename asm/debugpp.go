package asm

import (
	"fmt"
	"strings"
)

// preprocessDebug rewrites every `debug "text"` line into a `PUSHJ $0,
// DbgStr_NNNN` and appends one generated subroutine per debug site at the
// end of the source. This is a pure source-to-source rewrite that runs
// before lexing; the statements it produces use only documented MMIX
// instructions, so pass 1/pass 2 never need to know preprocessing happened.
func preprocessDebug(lines []string) []string {
	out := make([]string, 0, len(lines))
	var generated []string
	n := 0

	for _, line := range lines {
		l := newFstring(0, 0, line).stripTrailingComment()
		rest := l
		var label string
		if !rest.isEmpty() && !rest.startsWithChar(' ') && !rest.startsWithChar('\t') && rest.startsWith(labelStartChar) {
			lab, r := rest.consumeWhile(labelChar)
			label = lab.String()
			rest = r
		}
		rest = rest.consumeWhitespace()
		mnem, afterMnem := rest.consumeWhile(func(c byte) bool { return c != ' ' && c != '\t' })
		if !strings.EqualFold(mnem.String(), "debug") {
			out = append(out, line)
			continue
		}
		argF := afterMnem.consumeWhitespace()
		arg := argF.String()
		text, ok := parseStringLiteral(trimSpace(arg))
		if !ok {
			out = append(out, line)
			continue
		}

		n++
		sub := fmt.Sprintf("DbgStr_%04d", n)
		str := sub + "Str"

		labelPrefix := "     "
		if label != "" {
			labelPrefix = label + " "
		}
		out = append(out, fmt.Sprintf("%sPUSHJ $0,%s", labelPrefix, sub))

		generated = append(generated,
			fmt.Sprintf("%s SAVE $254,0", sub),
			fmt.Sprintf("   GETA $0,%s", str),
			"   TRAP 0,Fputs,StdOut",
			"   UNSAVE 0,$254",
			"   POP 0,0",
			fmt.Sprintf(`%s BYTE "%s",#a,0`, str, text),
		)
	}
	return append(out, generated...)
}
