package vm_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/jac18281828/checksmix/asm"
	"github.com/jac18281828/checksmix/isa"
	"github.com/jac18281828/checksmix/vm"
)

func assembleAndRun(t *testing.T, src string) *vm.VM {
	t.Helper()
	res, errs := asm.Assemble(strings.NewReader(src), "test.mms", false, nil)
	if len(errs) > 0 {
		t.Fatalf("assemble errors: %v", errs)
	}
	m := vm.NewMemory()
	for _, seg := range res.Segments {
		m.LoadSegment(seg.Addr, seg.Bytes)
	}
	machine := vm.New(m)
	machine.PC = res.EntryPoint
	if err := machine.Run(); err != nil {
		t.Fatal(err)
	}
	return machine
}

func TestRegister255AlwaysZero(t *testing.T) {
	m := vm.New(vm.NewMemory())
	m.SetReg(255, 0xDEADBEEF)
	if got := m.GetReg(255); got != 0 {
		t.Fatalf("$255 = %x, want 0", got)
	}
}

func TestZeroWriteCanonicalizesMemory(t *testing.T) {
	mem := vm.NewMemory()
	mem.WriteByte(0x1000, 5)
	mem.WriteByte(0x1000, 0)
	if got := mem.ReadByte(0x1000); got != 0 {
		t.Fatalf("ReadByte after zero-write = %d, want 0", got)
	}
}

func TestSetPseudoAndHalt(t *testing.T) {
	m := assembleAndRun(t, "Main SET $1,#123456789ABCDEF0\n     TRAP 0,Halt,0\n")
	if got := m.GetReg(1); got != 0x123456789ABCDEF0 {
		t.Fatalf("$1 = %x, want 0x123456789ABCDEF0", got)
	}
	if m.PC != 20 {
		t.Fatalf("PC = %d, want 20", m.PC)
	}
}

func TestBranchLoopsExpectedCount(t *testing.T) {
	src := "Main SET $1,3\nL ADDU $2,$2,1\n     SUB $1,$1,1\n     BNZ $1,L\n     TRAP 0,Halt,0\n"
	m := assembleAndRun(t, src)
	if m.GetReg(2) != 3 {
		t.Fatalf("$2 = %d, want 3 loop iterations", m.GetReg(2))
	}
	if m.GetReg(1) != 0 {
		t.Fatalf("$1 = %d, want 0 at halt", m.GetReg(1))
	}
}

func TestBigEndianMemoryRoundTrip(t *testing.T) {
	src := "Main SET $2,0x1000\n     SET $1,0x0102030405060708\n     STO $1,$2,0\n     LDO $3,$2,0\n     TRAP 0,Halt,0\n"
	m := assembleAndRun(t, src)
	if m.GetReg(3) != 0x0102030405060708 {
		t.Fatalf("$3 = %x, want 0x0102030405060708", m.GetReg(3))
	}
	if m.Mem.ReadByte(0x1000) != 0x01 {
		t.Fatalf("byte at 0x1000 = %x, want 0x01", m.Mem.ReadByte(0x1000))
	}
	if m.Mem.ReadByte(0x1007) != 0x08 {
		t.Fatalf("byte at 0x1007 = %x, want 0x08", m.Mem.ReadByte(0x1007))
	}
}

func TestNEGUIdentity(t *testing.T) {
	src := "Main SET $1,7\n     NEGU $2,0,$1\n     TRAP 0,Halt,0\n"
	m := assembleAndRun(t, src)
	want := ^uint64(7) + 1 // 2^64 - 7
	if m.GetReg(2) != want {
		t.Fatalf("$2 = %x, want %x", m.GetReg(2), want)
	}
}

func TestFputsWritesToStdout(t *testing.T) {
	var buf bytes.Buffer
	src := `Main PUSHJ $0,Greet
     TRAP 0,Halt,0
Greet SAVE $254,0
     GETA $0,Msg
     TRAP 0,Fputs,StdOut
     UNSAVE 0,$254
     POP 0,0
Msg BYTE "hi",#a,0
`
	res, errs := asm.Assemble(strings.NewReader(src), "test.mms", false, nil)
	if len(errs) > 0 {
		t.Fatalf("assemble errors: %v", errs)
	}
	m := vm.NewMemory()
	for _, seg := range res.Segments {
		m.LoadSegment(seg.Addr, seg.Bytes)
	}
	machine := vm.New(m)
	machine.PC = res.EntryPoint
	machine.Stdout = &buf
	if err := machine.Run(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hi\n" {
		t.Fatalf("stdout = %q, want %q", buf.String(), "hi\n")
	}
}

func TestMOReversesByteOrder(t *testing.T) {
	y := uint64(0x0102030405060708)
	z := uint64(0x0102040810204080)
	got := morViaInstruction(y, z)
	want := uint64(0x0807060504030201)
	if got != want {
		t.Fatalf("MOR(%x,%x) = %x, want %x", y, z, got, want)
	}
}

func morViaInstruction(y, z uint64) uint64 {
	machine := vm.New(vm.NewMemory())
	machine.SetReg(1, y)
	machine.SetReg(2, z)
	machine.Mem.WriteTetra(0, uint32Bits(0xDC, 3, 1, 2)) // MOR $3,$1,$2
	machine.Run()
	return machine.GetReg(3)
}

func uint32Bits(op, x, y, z byte) uint64 {
	return uint64(op)<<24 | uint64(x)<<16 | uint64(y)<<8 | uint64(z)
}

// TestCondSetTestsX guards against the regression where CS/ZS tested $Y
// instead of $X, wrote only Z instead of $Y+$Z, and left $X untouched on
// the CS-false branch instead of writing $Y.
func TestCondSetTestsX(t *testing.T) {
	cases := []struct {
		name    string
		op      byte // CSZ=0x62, ZSZ=0x72
		x, y, z uint64
		want    uint64
	}{
		{"CSZ true writes Y+Z", 0x62, 0, 10, 5, 15},
		{"CSZ false leaves Y", 0x62, 7, 10, 5, 10},
		{"ZSZ true writes Y+Z", 0x72, 0, 10, 5, 15},
		{"ZSZ false clears to 0", 0x72, 7, 10, 5, 0},
	}
	for _, c := range cases {
		machine := vm.New(vm.NewMemory())
		machine.SetReg(1, c.x)
		machine.SetReg(2, c.y)
		machine.SetReg(3, c.z)
		machine.Mem.WriteTetra(0, uint32Bits(c.op, 1, 2, 3))
		machine.Run()
		if got := machine.GetReg(1); got != c.want {
			t.Fatalf("%s: $1 = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestFintRoundingModes(t *testing.T) {
	cases := []struct {
		mode uint64
		in   float64
		want float64
	}{
		{1, 2.5, 2},   // floor
		{1, -2.5, -3}, // floor
		{2, 2.5, 3},   // ceiling
		{2, -2.5, -2}, // ceiling
		{3, 2.5, 2},   // truncate
		{3, -2.5, -2}, // truncate
	}
	for _, c := range cases {
		machine := vm.New(vm.NewMemory())
		machine.Special[isa.RA] = c.mode
		machine.SetReg(3, math.Float64bits(c.in))
		machine.Mem.WriteTetra(0, uint32Bits(0x17, 1, 0, 3)) // FINT $1,$3
		machine.Run()
		if got := math.Float64frombits(machine.GetReg(1)); got != c.want {
			t.Fatalf("FINT mode=%d in=%v: got %v, want %v", c.mode, c.in, got, c.want)
		}
	}
}

func TestFcmpUnordered(t *testing.T) {
	machine := vm.New(vm.NewMemory())
	machine.SetReg(2, math.Float64bits(math.NaN()))
	machine.SetReg(3, math.Float64bits(1.0))
	machine.Mem.WriteTetra(0, uint32Bits(0x01, 1, 2, 3)) // FCMP $1,$2,$3
	machine.Run()
	if got := int64(machine.GetReg(1)); got != 2 {
		t.Fatalf("FCMP(NaN,1.0) = %d, want 2 (unordered)", got)
	}
}

func TestFcmpeWithinEpsilon(t *testing.T) {
	machine := vm.New(vm.NewMemory())
	machine.Special[isa.RE] = math.Float64bits(0.01)
	machine.SetReg(2, math.Float64bits(5.0))
	machine.SetReg(3, math.Float64bits(5.005))
	machine.Mem.WriteTetra(0, uint32Bits(0x11, 1, 2, 3)) // FCMPE $1,$2,$3
	machine.Run()
	if got := int64(machine.GetReg(1)); got != 0 {
		t.Fatalf("FCMPE within epsilon = %d, want 0", got)
	}
}

func TestFeqleWithinEpsilon(t *testing.T) {
	machine := vm.New(vm.NewMemory())
	machine.Special[isa.RE] = math.Float64bits(0.01)
	machine.SetReg(2, math.Float64bits(5.0))
	machine.SetReg(3, math.Float64bits(5.005))
	machine.Mem.WriteTetra(0, uint32Bits(0x13, 1, 2, 3)) // FEQLE $1,$2,$3
	machine.Run()
	if got := machine.GetReg(1); got != 1 {
		t.Fatalf("FEQLE within epsilon = %d, want 1", got)
	}
}

func TestFuneNaNIsUnordered(t *testing.T) {
	machine := vm.New(vm.NewMemory())
	machine.Special[isa.RE] = math.Float64bits(0.01)
	machine.SetReg(2, math.Float64bits(math.NaN()))
	machine.SetReg(3, math.Float64bits(1.0))
	machine.Mem.WriteTetra(0, uint32Bits(0x12, 1, 2, 3)) // FUNE $1,$2,$3
	machine.Run()
	if got := machine.GetReg(1); got != 1 {
		t.Fatalf("FUNE(NaN,1.0) = %d, want 1", got)
	}
}

func TestCSWAPSetsOneOnMatch(t *testing.T) {
	machine := vm.New(vm.NewMemory())
	machine.Mem.WriteOcta(0x2000, 42)
	machine.Special[isa.RP] = 42
	machine.SetReg(1, 99)
	machine.SetReg(2, 0x2000)
	machine.SetReg(3, 0)
	// CSWAP $1,$2,$3  (addr = $2+$3 = 0x2000)
	machine.Mem.WriteTetra(0, uint32Bits(0x94, 1, 2, 3))
	machine.Run()
	if machine.GetReg(1) != 1 {
		t.Fatalf("$1 = %d, want 1 (swap succeeded)", machine.GetReg(1))
	}
	if got := machine.Mem.ReadOcta(0x2000); got != 99 {
		t.Fatalf("memory at 0x2000 = %d, want 99", got)
	}
}
