package asm

import (
	"bytes"
	"strings"
	"testing"
)

func assembleOK(t *testing.T, src string) *Result {
	t.Helper()
	res, errs := Assemble(strings.NewReader(src), "t.mms", false, nil)
	if len(errs) > 0 {
		for _, e := range errs {
			t.Logf("diagnostic: %v", e)
		}
		t.Fatalf("unexpected assembly errors (%d)", len(errs))
	}
	return res
}

func codeBytes(t *testing.T, res *Result) []byte {
	t.Helper()
	if len(res.Segments) != 1 {
		t.Fatalf("expected a single contiguous segment, got %d", len(res.Segments))
	}
	return res.Segments[0].Bytes
}

func TestSetPseudoExpansion(t *testing.T) {
	src := "Main SET $1,#123456789ABCDEF0\n     TRAP 0,Halt,0\n"
	res := assembleOK(t, src)

	want := []byte{
		0xE0, 0x01, 0x12, 0x34,
		0xE1, 0x01, 0x56, 0x78,
		0xE2, 0x01, 0x9A, 0xBC,
		0xE3, 0x01, 0xDE, 0xF0,
		0x00, 0x00, 0x00, 0x00,
	}
	got := codeBytes(t, res)
	if !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
	if res.EntryPoint != 0 {
		t.Fatalf("expected entry point 0 (Main label), got %#x", res.EntryPoint)
	}
}

func TestBranchRelativity(t *testing.T) {
	src := "Loop ADDU $1,$1,1\n     BNZ $1,Loop\n     TRAP 0,Halt,0\n"
	res := assembleOK(t, src)
	got := codeBytes(t, res)

	// Loop: ADDU $1,$1,1 at 0x00, BNZ $1,Loop at 0x04, TRAP at 0x08.
	wantBranch := []byte{0x4A, 0x01, 0xFF, 0xFF}
	gotBranch := got[4:8]
	if !bytes.Equal(gotBranch, wantBranch) {
		t.Fatalf("BNZ encoding: got % X, want % X", gotBranch, wantBranch)
	}
}

func TestMMORoundTripScenario(t *testing.T) {
	src := "     LOC #100\nMain ADDU $1,$2,$3\n     TRAP 0,Halt,0\n"
	res := assembleOK(t, src)

	if len(res.Segments) != 1 {
		t.Fatalf("expected a single segment, got %d", len(res.Segments))
	}
	seg := res.Segments[0]
	if seg.Addr != 0x100 {
		t.Fatalf("expected segment at 0x100, got %#x", seg.Addr)
	}
	wantFirst := []byte{0x22, 0x01, 0x02, 0x03}
	if !bytes.Equal(seg.Bytes[:4], wantFirst) {
		t.Fatalf("first tetra: got % X, want % X", seg.Bytes[:4], wantFirst)
	}
	wantSecond := []byte{0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(seg.Bytes[4:8], wantSecond) {
		t.Fatalf("second tetra: got % X, want % X", seg.Bytes[4:8], wantSecond)
	}
	if res.EntryPoint != 0x100 {
		t.Fatalf("expected entry point 0x100 (Main label), got %#x", res.EntryPoint)
	}
}

func TestByteDirectiveWithString(t *testing.T) {
	src := `Msg BYTE "hi",#a,0` + "\n"
	res := assembleOK(t, src)
	got := codeBytes(t, res)
	// "hi" contributes 2 bytes, #a (hex 0x0A) and 0 are plain numeric operands
	// contributing 1 byte each; no implicit terminator is added because the
	// last operand is not itself a string literal.
	want := []byte{'h', 'i', '\n', 0}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

func TestGregAllocationDownwardFrom254(t *testing.T) {
	src := "X GREG 0\nY GREG 0\n"
	res := assembleOK(t, src)
	if len(res.GregInits) != 2 {
		t.Fatalf("expected 2 GREG inits, got %d", len(res.GregInits))
	}
	if res.GregInits[0].Reg != 254 || res.GregInits[1].Reg != 253 {
		t.Fatalf("expected GREG allocation downward from 254, got %+v", res.GregInits)
	}
}

func TestDebugPseudoExpandsToPushjAndSubroutine(t *testing.T) {
	src := `     debug "hello"` + "\n     TRAP 0,Halt,0\n"
	res := assembleOK(t, src)
	if len(res.Segments) == 0 {
		t.Fatalf("expected emitted code")
	}
	first := res.Segments[0].Bytes[:4]
	if first[0] != 0xF2 { // PUSHJ
		t.Fatalf("expected debug pseudo to expand to PUSHJ, got opcode %#x", first[0])
	}
}

func TestUndefinedSymbolIsReported(t *testing.T) {
	src := "     ADDU $1,$2,NoSuchSymbol\n"
	_, errs := Assemble(strings.NewReader(src), "t.mms", false, nil)
	if len(errs) == 0 {
		t.Fatalf("expected an undefined-symbol diagnostic")
	}
}

func TestLabelRedefinitionIsReported(t *testing.T) {
	src := "Foo TRAP 0,Halt,0\nFoo TRAP 0,Halt,0\n"
	_, errs := Assemble(strings.NewReader(src), "t.mms", false, nil)
	if len(errs) == 0 {
		t.Fatalf("expected a label-redefinition diagnostic")
	}
}
