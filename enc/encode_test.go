package enc_test

import (
	"testing"

	"github.com/jac18281828/checksmix/enc"
	"github.com/jac18281828/checksmix/isa"
)

func TestEncodeVectors(t *testing.T) {
	cases := []struct {
		name string
		in   isa.Instruction
		want [4]byte
	}{
		{"TRAP", isa.Instruction{Op: 0x00, X: 1, Y: 2, Z: 3, Imm: 3}, [4]byte{0x00, 0x01, 0x02, 0x03}},
		{"ADD", isa.Instruction{Op: 0x20, X: 1, Y: 2, Z: 3}, [4]byte{0x20, 0x01, 0x02, 0x03}},
		{"SETH", isa.Instruction{Op: 0xE0, X: 1, YZ: 0x1234}, [4]byte{0xE0, 0x01, 0x12, 0x34}},
		{"STCO", isa.Instruction{Op: 0xB4, X: 42, Imm: 42, Y: 2, Z: 3}, [4]byte{0xB4, 0x2A, 0x02, 0x03}},
		{"JMP", isa.Instruction{Op: 0xF0, XYZ: 10}, [4]byte{0xF0, 0x00, 0x00, 0x0A}},
		{"POP", isa.Instruction{Op: 0xF8, X: 1, YZ: 2}, [4]byte{0xF8, 0x01, 0x00, 0x02}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := enc.Encode(c.in)
			if got != c.want {
				t.Errorf("Encode(%+v) = % X, want % X", c.in, got, c.want)
			}
			back := enc.Decode(got)
			if back.Op != c.in.Op || back.X != c.in.X {
				t.Errorf("Decode(Encode(%+v)) = %+v, opcode/X mismatch", c.in, back)
			}
		})
	}
}

func TestEncodeSet(t *testing.T) {
	got := enc.EncodeSet(1, 0x123456789ABCDEF0)
	want := []byte{
		0xE0, 0x01, 0x12, 0x34,
		0xE1, 0x01, 0x56, 0x78,
		0xE2, 0x01, 0x9A, 0xBC,
		0xE3, 0x01, 0xDE, 0xF0,
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %02X, want %02X", i, got[i], want[i])
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	for _, op := range []byte{0x20, 0x21, 0x40, 0xE0, 0xF0, 0xF8, 0xFA, 0xFE} {
		in := isa.Instruction{Op: op, X: 7, Y: 9, Z: 11, YZ: 0x0203, XYZ: 0x0203}
		got := enc.Decode(enc.Encode(in))
		if got.Op != op {
			t.Errorf("opcode round-trip failed for %02X", op)
		}
	}
}
