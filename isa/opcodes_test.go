package isa

import "testing"

func TestLookupRegImmPair(t *testing.T) {
	reg, ok := Lookup("ADD", false)
	if !ok || reg.Shape != ShapeRRR || reg.Op != 0x20 {
		t.Fatalf("ADD reg form: got %+v, ok=%v", reg, ok)
	}
	imm, ok := Lookup("ADD", true)
	if !ok || imm.Shape != ShapeRRI || imm.Op != 0x21 {
		t.Fatalf("ADD imm form: got %+v, ok=%v", imm, ok)
	}
}

func TestLookupIndependentBranchMnemonics(t *testing.T) {
	fwd, ok := Lookup("BNZ", false)
	if !ok || fwd.Op != 0x4A {
		t.Fatalf("BNZ: got %+v, ok=%v", fwd, ok)
	}
	bwd, ok := Lookup("BNZB", false)
	if !ok || bwd.Op != 0x4B {
		t.Fatalf("BNZB: got %+v, ok=%v", bwd, ok)
	}
	if fwd.HasPair || bwd.HasPair {
		t.Fatalf("branch mnemonics must not be registered as a reg/imm pair")
	}
}

// TestLookupNegPairSelectsBothForms guards against the regression where
// NEG/NEGU's two opcodes shared one Shape, making the register form
// unreachable through Lookup (isImmShape was true for both entries).
func TestLookupNegPairSelectsBothForms(t *testing.T) {
	reg, ok := Lookup("NEG", false)
	if !ok || reg.Shape != ShapeNegReg || reg.Op != 0x34 {
		t.Fatalf("NEG reg form: got %+v, ok=%v", reg, ok)
	}
	imm, ok := Lookup("NEG", true)
	if !ok || imm.Shape != ShapeNegImm || imm.Op != 0x35 {
		t.Fatalf("NEG imm form: got %+v, ok=%v", imm, ok)
	}
	reg, ok = Lookup("NEGU", false)
	if !ok || reg.Shape != ShapeNegReg || reg.Op != 0x36 {
		t.Fatalf("NEGU reg form: got %+v, ok=%v", reg, ok)
	}
}

func TestLookupStcoEitherMember(t *testing.T) {
	e, ok := Lookup("STCO", false)
	if !ok || e.Shape != ShapeStco {
		t.Fatalf("STCO: got %+v, ok=%v", e, ok)
	}
}

func TestLookupWydeFamilySingles(t *testing.T) {
	e, ok := Lookup("SETH", false)
	if !ok || e.Op != 0xE0 || e.Shape != ShapeWyde {
		t.Fatalf("SETH: got %+v, ok=%v", e, ok)
	}
	e, ok = Lookup("ANDNL", false)
	if !ok || e.Op != 0xEF || e.Shape != ShapeWyde {
		t.Fatalf("ANDNL: got %+v, ok=%v", e, ok)
	}
}

// TestLookupPutImmResolvesPutI guards against the regression where 0xF7
// was named "PUT" instead of "PUTI", making PUTI unreachable through
// Lookup and leaving the immediate form permanently dead code.
func TestLookupPutImmResolvesPutI(t *testing.T) {
	reg, ok := Lookup("PUT", false)
	if !ok || reg.Shape != ShapePutReg || reg.Op != 0xF6 {
		t.Fatalf("PUT: got %+v, ok=%v", reg, ok)
	}
	imm, ok := Lookup("PUTI", true)
	if !ok || imm.Shape != ShapePutImm || imm.Op != 0xF7 {
		t.Fatalf("PUTI: got %+v, ok=%v", imm, ok)
	}
	if _, ok := Lookup("PUTI", false); ok {
		t.Fatalf("PUTI should not resolve for a register-form lookup")
	}
}

func TestLookupUnknownMnemonic(t *testing.T) {
	if _, ok := Lookup("NOSUCHOP", false); ok {
		t.Fatalf("expected NOSUCHOP to be unknown")
	}
}

func TestByOpcodeRoundTrip(t *testing.T) {
	e := ByOpcode(0x20)
	if e.Name != "ADD" {
		t.Fatalf("ByOpcode(0x20): got %q", e.Name)
	}
}

func TestSpecialByName(t *testing.T) {
	idx, ok := SpecialByName("rJ")
	if !ok || idx != RJ {
		t.Fatalf("rJ: got %d, ok=%v", idx, ok)
	}
	if _, ok := SpecialByName("rNope"); ok {
		t.Fatalf("expected rNope to be unknown")
	}
}
