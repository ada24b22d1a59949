package vm

import (
	"math/bits"

	"github.com/jac18281828/checksmix/isa"
)

// execArith implements the ADD/SUB/multiply/divide/compare/negate/shift
// family. The signed forms ADD, SUB, NEG, MUL and SL set rA's overflow
// bit on overflow, and DIV/DIVU set it on a zero divisor; every other
// unsigned form is plain wraparound arithmetic mod 2^64, per the
// pure-integer invariants of scenario 8.
func (v *VM) execArith(in isa.Instruction) {
	x := in.X
	y := v.operandY(in)
	z := v.operandZ(in)

	switch in.Name() {
	case "ADD":
		sum := y + z
		v.SetReg(x, sum)
		v.setOverflow(addOverflows(y, z, sum))
	case "ADDU":
		v.SetReg(x, y+z)
	case "SUB":
		diff := y - z
		v.SetReg(x, diff)
		v.setOverflow(subOverflows(y, z, diff))
	case "SUBU":
		v.SetReg(x, y-z)
	case "2ADDU":
		v.SetReg(x, 2*y+z)
	case "4ADDU":
		v.SetReg(x, 4*y+z)
	case "8ADDU":
		v.SetReg(x, 8*y+z)
	case "16ADDU":
		v.SetReg(x, 16*y+z)
	case "NEG":
		diff := y - z
		v.SetReg(x, diff)
		v.setOverflow(subOverflows(y, z, diff))
	case "NEGU":
		v.SetReg(x, y-z)
	case "MUL":
		v.execMul(x, y, z, true)
	case "MULU":
		v.execMul(x, y, z, false)
	case "DIV":
		v.execDiv(x, y, z, true)
	case "DIVU":
		v.execDiv(x, y, z, false)
	case "CMP":
		v.SetReg(x, uint64(signedCompare(int64(y), int64(z))))
	case "CMPU":
		v.SetReg(x, uint64(unsignedCompare(y, z)))
	case "SL", "SLU":
		v.execShiftLeft(in.Name(), x, y, z)
	case "SR":
		v.SetReg(x, uint64(arithShiftRight(int64(y), z)))
	case "SRU":
		v.SetReg(x, logicalShiftRight(y, z))
	}
}

func (v *VM) execMul(x byte, y, z uint64, signed bool) {
	if !signed {
		hi, lo := bits.Mul64(y, z)
		v.SetReg(x, lo)
		v.Special[isa.RH] = hi
		return
	}
	negResult := (int64(y) < 0) != (int64(z) < 0)
	ay, az := absU64(int64(y)), absU64(int64(z))
	hi, lo := bits.Mul64(ay, az)
	if negResult {
		lo = ^lo + 1
		hi = ^hi
		if lo == 0 {
			hi++
		}
	}
	v.SetReg(x, lo)
	v.Special[isa.RH] = hi
	signExt := uint64(0)
	if int64(lo) < 0 {
		signExt = ^uint64(0)
	}
	v.setOverflow(hi != signExt)
}

func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func (v *VM) execDiv(x byte, y, z uint64, signed bool) {
	if z == 0 {
		v.SetReg(x, 0)
		v.Special[isa.RR] = y
		v.setOverflow(true)
		return
	}
	if !signed {
		hi := v.Special[isa.RD]
		if hi >= z {
			// quotient does not fit in 64 bits: $X <- rD, rR <- $Y
			v.SetReg(x, hi)
			v.Special[isa.RR] = y
			return
		}
		q, r := bits.Div64(hi, y, z)
		v.SetReg(x, q)
		v.Special[isa.RR] = r
		return
	}
	sy, sz := int64(y), int64(z)
	q := sy / sz
	r := sy % sz
	v.SetReg(x, uint64(q))
	v.Special[isa.RR] = uint64(r)
}

func signedCompare(a, b int64) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func unsignedCompare(a, b uint64) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (v *VM) execShiftLeft(name string, x byte, y, z uint64) {
	if z >= 64 {
		v.SetReg(x, 0)
		if name == "SL" {
			v.setOverflow(y != 0)
		}
		return
	}
	result := y << z
	v.SetReg(x, result)
	if name == "SL" {
		signBit := result & (1 << 63)
		overflow := false
		for i := uint64(0); i < z; i++ {
			shiftedBit := (y >> (63 - i)) & 1
			if shiftedBit != boolBit(signBit != 0) {
				overflow = true
				break
			}
		}
		v.setOverflow(overflow)
	}
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func arithShiftRight(y int64, z uint64) int64 {
	if z >= 64 {
		if y < 0 {
			return -1
		}
		return 0
	}
	return y >> z
}

func logicalShiftRight(y, z uint64) uint64 {
	if z >= 64 {
		return 0
	}
	return y >> z
}

func addOverflows(y, z, sum uint64) bool {
	return (int64(y) >= 0) == (int64(z) >= 0) && (int64(sum) >= 0) != (int64(y) >= 0)
}

func subOverflows(y, z, diff uint64) bool {
	return (int64(y) >= 0) != (int64(z) >= 0) && (int64(diff) >= 0) != (int64(y) >= 0)
}

// setOverflow sets rA's overflow bit (bit 0x04) when on is true; it never
// clears that bit or any other status bit.
func (v *VM) setOverflow(on bool) {
	if on {
		v.Special[isa.RA] |= isa.OverflowBit
	}
}
