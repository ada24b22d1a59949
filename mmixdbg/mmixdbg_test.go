package mmixdbg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jac18281828/checksmix/asm"
)

func TestLookupSpecialResolvesAbbreviation(t *testing.T) {
	name, idx, ok := lookupSpecial("rj")
	if !ok || name != "rJ" || idx != 9 {
		t.Fatalf("lookupSpecial(rj) = %q,%d,%v", name, idx, ok)
	}
}

func TestLookupSpecialUnknown(t *testing.T) {
	if _, _, ok := lookupSpecial("rNope"); ok {
		t.Fatalf("expected rNope to be unknown")
	}
}

func TestParseAddrForms(t *testing.T) {
	cases := map[string]uint64{
		"#1000":  0x1000,
		"0x1000": 0x1000,
		"4096":   4096,
	}
	for in, want := range cases {
		got, err := parseAddr(in)
		if err != nil {
			t.Fatalf("parseAddr(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("parseAddr(%q) = %#x, want %#x", in, got, want)
		}
	}
}

func assemble(t *testing.T, src string) *asm.Result {
	t.Helper()
	res, errs := asm.Assemble(strings.NewReader(src), "test.mms", false, nil)
	if len(errs) > 0 {
		t.Fatalf("assemble errors: %v", errs)
	}
	return res
}

func TestRunCommandsStepAndReg(t *testing.T) {
	// SET $1,5 expands to four wyde instructions (SETH/SETMH/SETML/SETL,
	// each clearing-and-setting its own lane), so $1 only reads 5 after
	// all four have executed.
	res := assemble(t, "Main SET $1,5\n     TRAP 0,Halt,0\n")
	h := NewHost(res, nil)

	var out bytes.Buffer
	h.RunCommands(strings.NewReader("step\nstep\nstep\nstep\nreg $1\nquit\n"), &out, false)

	if !strings.Contains(out.String(), "$1 #0000000000000005") {
		t.Fatalf("output missing expected register dump: %q", out.String())
	}
}

func TestRunCommandsRunToHalt(t *testing.T) {
	src := "Main SET $1,3\nL ADDU $2,$2,1\n     SUB $1,$1,1\n     BNZ $1,L\n     TRAP 0,Halt,0\n"
	res := assemble(t, src)
	h := NewHost(res, nil)

	var out bytes.Buffer
	h.RunCommands(strings.NewReader("run\nquit\n"), &out, false)

	if !strings.Contains(out.String(), "halted") {
		t.Fatalf("expected run to reach halt, got: %q", out.String())
	}
}

func TestRunCommandsUnknownCommand(t *testing.T) {
	res := assemble(t, "Main TRAP 0,Halt,0\n")
	h := NewHost(res, nil)

	var out bytes.Buffer
	h.RunCommands(strings.NewReader("bogus\nquit\n"), &out, false)

	if !strings.Contains(out.String(), "not found") {
		t.Fatalf("expected 'not found' message, got: %q", out.String())
	}
}
