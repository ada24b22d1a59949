package vm

import (
	"math"

	"github.com/jac18281828/checksmix/isa"
)

// execLoadStore implements every load, store and cache/prefetch-hint
// opcode. There is no cache model, so PRELD/PREGO/PREST/SYNCD/SYNCID and
// LDVTS are no-ops; LDUNC/STUNC behave exactly like LDO/STO.
func (v *VM) execLoadStore(in isa.Instruction) {
	x := in.X

	switch in.Name() {
	case "PRELD", "PREGO", "PREST", "SYNCD", "SYNCID", "LDVTS":
		return
	case "STCO":
		addr := v.GetReg(in.Y) + v.GetReg(in.Z)
		v.Mem.WriteOcta(addr, uint64(in.Imm))
		return
	}

	y := v.operandY(in)
	z := v.operandZ(in)
	addr := y + z

	switch in.Name() {
	case "LDB":
		v.SetReg(x, uint64(int64(int8(v.Mem.ReadByte(addr)))))
	case "LDBU":
		v.SetReg(x, uint64(v.Mem.ReadByte(addr)))
	case "LDW":
		a := addr &^ 1
		v.SetReg(x, uint64(int64(int16(v.Mem.ReadWyde(a)))))
	case "LDWU":
		a := addr &^ 1
		v.SetReg(x, uint64(v.Mem.ReadWyde(a)))
	case "LDT":
		a := addr &^ 3
		v.SetReg(x, uint64(int64(int32(v.Mem.ReadTetra(a)))))
	case "LDTU":
		a := addr &^ 3
		v.SetReg(x, uint64(v.Mem.ReadTetra(a)))
	case "LDO", "LDUNC":
		a := addr &^ 7
		v.SetReg(x, v.Mem.ReadOcta(a))
	case "LDOU":
		a := addr &^ 7
		v.SetReg(x, v.Mem.ReadOcta(a))

	case "STB", "STBU":
		v.Mem.WriteByte(addr, byte(v.GetReg(x)))
	case "STW", "STWU":
		a := addr &^ 1
		v.Mem.WriteWyde(a, v.GetReg(x)&0xFFFF)
	case "STT", "STTU":
		a := addr &^ 3
		v.Mem.WriteTetra(a, v.GetReg(x)&0xFFFFFFFF)
	case "STO", "STOU", "STUNC":
		a := addr &^ 7
		v.Mem.WriteOcta(a, v.GetReg(x))

	case "LDSF":
		a := addr &^ 3
		f32 := math.Float32frombits(uint32(v.Mem.ReadTetra(a)))
		v.SetReg(x, math.Float64bits(float64(f32)))
	case "STSF":
		a := addr &^ 3
		f64 := math.Float64frombits(v.GetReg(x))
		v.Mem.WriteTetra(a, uint64(math.Float32bits(float32(f64))))

	case "LDHT":
		a := addr &^ 3
		hi := v.Mem.ReadTetra(a) << 32
		v.SetReg(x, hi)
	case "STHT":
		a := addr &^ 3
		v.Mem.WriteTetra(a, v.GetReg(x)>>32)

	case "CSWAP":
		a := addr &^ 7
		cur := v.Mem.ReadOcta(a)
		if cur == v.Special[isa.RP] {
			v.Mem.WriteOcta(a, v.GetReg(x))
			v.SetReg(x, 1)
		} else {
			v.SetReg(x, 0)
		}
	}
}
