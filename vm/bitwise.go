package vm

import "github.com/jac18281828/checksmix/isa"

// execBitwise implements the eight pure boolean-combination opcodes. None
// of these ever touch rA; bitwise results cannot overflow.
func (v *VM) execBitwise(in isa.Instruction) {
	x := in.X
	y := v.operandY(in)
	z := v.operandZ(in)

	var result uint64
	switch in.Name() {
	case "OR":
		result = y | z
	case "ORN":
		result = y | ^z
	case "NOR":
		result = ^(y | z)
	case "XOR":
		result = y ^ z
	case "AND":
		result = y & z
	case "ANDN":
		result = y &^ z
	case "NAND":
		result = ^(y & z)
	case "NXOR":
		result = ^(y ^ z)
	}
	v.SetReg(x, result)
}
