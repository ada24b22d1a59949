package vm

import "github.com/jac18281828/checksmix/isa"

// operandY returns the "Y" operand's value: a general-register read for
// every shape except NEG/NEGU, where Y is always a raw 8-bit immediate.
func (v *VM) operandY(in isa.Instruction) uint64 {
	switch in.Shape() {
	case isa.ShapeNegReg, isa.ShapeNegImm:
		return uint64(in.Y)
	default:
		return v.GetReg(in.Y)
	}
}

// operandZ returns the "Z" operand's value: a general-register read for
// RRR/NegReg shapes, or the raw immediate for RRI/NegImm shapes.
func (v *VM) operandZ(in isa.Instruction) uint64 {
	switch in.Shape() {
	case isa.ShapeRRI, isa.ShapeNegImm:
		return uint64(in.Imm)
	case isa.ShapeNegReg:
		return v.GetReg(in.Imm)
	default:
		return v.GetReg(in.Z)
	}
}
