// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package enc encodes decoded MMIX instruction values into their official
// big-endian binary representation, and decodes them back.
package enc

import "github.com/jac18281828/checksmix/isa"

// Encode maps an instruction value to its 4-byte machine representation.
// It is a pure function: every operand-size constraint is assumed to have
// already been enforced by the assembler, so Encode never fails.
func Encode(in isa.Instruction) [4]byte {
	switch in.Shape() {
	case isa.ShapeJump:
		u := uint32(in.XYZ) & 0x00FFFFFF
		return [4]byte{in.Op, byte(u >> 16), byte(u >> 8), byte(u)}
	case isa.ShapeStco:
		return [4]byte{in.Op, in.Imm, in.Y, in.Z}
	default:
		if hasYZ(in.Shape()) {
			return [4]byte{in.Op, in.X, byte(in.YZ >> 8), byte(in.YZ)}
		}
		if isRRIFamily(in.Shape()) {
			return [4]byte{in.Op, in.X, in.Y, in.Imm}
		}
		return [4]byte{in.Op, in.X, in.Y, in.Z}
	}
}

func hasYZ(s isa.Shape) bool {
	switch s {
	case isa.ShapeWyde, isa.ShapeBranch, isa.ShapePutImm, isa.ShapePop:
		return true
	}
	return false
}

// isRRIFamily reports whether a shape uses the [Op,X,Y,Imm] byte layout:
// ordinary register-immediate arithmetic, and NEG/NEGU's register and
// fully-immediate forms (same wire layout, different field meaning).
func isRRIFamily(s isa.Shape) bool {
	switch s {
	case isa.ShapeRRI, isa.ShapeNegReg, isa.ShapeNegImm:
		return true
	}
	return false
}

// Decode is the symmetric inverse of Encode: it splits a raw 4-byte tetra
// into its opcode and operand fields according to the opcode's shape.
func Decode(tetra [4]byte) isa.Instruction {
	op := tetra[0]
	shape := isa.ByOpcode(op).Shape
	in := isa.Instruction{Op: op, X: tetra[1], Y: tetra[2], Z: tetra[3]}
	switch shape {
	case isa.ShapeJump:
		u := uint32(tetra[1])<<16 | uint32(tetra[2])<<8 | uint32(tetra[3])
		if u&0x00800000 != 0 {
			u |= 0xFF000000
		}
		in.XYZ = int32(u)
	case isa.ShapeStco:
		in.Imm = tetra[1]
	default:
		if hasYZ(shape) {
			in.YZ = uint16(tetra[2])<<8 | uint16(tetra[3])
		} else if isRRIFamily(shape) {
			in.Imm = tetra[3]
		}
	}
	return in
}

// EncodeSet expands the SET $X, imm64 pseudo-instruction into its four
// constituent wyde-family instructions (SETH, SETMH, SETML, SETL),
// returning 16 bytes.
func EncodeSet(x byte, imm uint64) []byte {
	lanes := [4]struct {
		op  byte
		val uint16
	}{
		{0xE0, uint16(imm >> 48)},
		{0xE1, uint16(imm >> 32)},
		{0xE2, uint16(imm >> 16)},
		{0xE3, uint16(imm)},
	}
	out := make([]byte, 0, 16)
	for _, l := range lanes {
		b := Encode(isa.Instruction{Op: l.op, X: x, YZ: l.val})
		out = append(out, b[:]...)
	}
	return out
}
