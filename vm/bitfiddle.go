package vm

import (
	"math/bits"

	"github.com/jac18281828/checksmix/isa"
)

// execBitfiddle implements the byte/wyde/tetra/octa saturating difference
// family, MUX, SADD and the MOR/MXOR boolean matrix-multiply pair.
func (v *VM) execBitfiddle(in isa.Instruction) {
	x := in.X
	y := v.operandY(in)
	z := v.operandZ(in)

	switch in.Name() {
	case "BDIF":
		v.SetReg(x, laneDiff(y, z, 8))
	case "WDIF":
		v.SetReg(x, laneDiff(y, z, 16))
	case "TDIF":
		v.SetReg(x, laneDiff(y, z, 32))
	case "ODIF":
		v.SetReg(x, laneDiff(y, z, 64))
	case "MUX":
		mask := v.Special[isa.RM]
		v.SetReg(x, (y&mask)|(z&^mask))
	case "SADD":
		v.SetReg(x, uint64(bits.OnesCount64(y&^z)))
	case "MOR":
		v.SetReg(x, boolMatrixMul(y, z, false))
	case "MXOR":
		v.SetReg(x, boolMatrixMul(y, z, true))
	}
}

// laneDiff splits y and z into width-bit lanes and computes, per lane,
// y_lane - z_lane saturated at zero (never wrapping negative).
func laneDiff(y, z uint64, width uint) uint64 {
	lanes := 64 / width
	mask := uint64(1)<<width - 1
	var result uint64
	for i := uint(0); i < uint(lanes); i++ {
		shift := i * width
		yl := (y >> shift) & mask
		zl := (z >> shift) & mask
		var diff uint64
		if yl >= zl {
			diff = yl - zl
		}
		result |= diff << shift
	}
	return result
}

// boolMatrixMul treats y and z as 8x8 bit matrices (byte i of the octa is
// row/column i, bit position 0 = most significant) and computes their
// boolean product: bit j of output byte i is the OR (MOR) or XOR (MXOR)
// over k of (bit k of z's byte i) AND (bit j of y's byte k).
func boolMatrixMul(y, z uint64, xor bool) uint64 {
	zRows := octaBytes(z)
	yRows := octaBytes(y)
	var outRows [8]byte
	for i := 0; i < 8; i++ {
		var outByte byte
		for j := 0; j < 8; j++ {
			var bit byte
			for k := 0; k < 8; k++ {
				zBit := (zRows[i] >> (7 - k)) & 1
				yBit := (yRows[k] >> (7 - j)) & 1
				if xor {
					bit ^= zBit & yBit
				} else {
					bit |= zBit & yBit
				}
			}
			outByte |= bit << (7 - j)
		}
		outRows[i] = outByte
	}
	return bytesToOcta(outRows)
}

func octaBytes(v uint64) [8]byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (56 - 8*i))
	}
	return b
}

func bytesToOcta(b [8]byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (56 - 8*i)
	}
	return v
}
