// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isa enumerates every MMIX instruction variant as a dense,
// table-driven opcode set covering the full 0x00-0xFF byte range.
package isa

// Shape describes how an opcode's operand bytes are interpreted.
type Shape int

const (
	// ShapeRRR: X, Y, Z are all general-register numbers.
	ShapeRRR Shape = iota
	// ShapeRRI: X, Y are general-register numbers; Z is an 8-bit unsigned immediate.
	ShapeRRI
	// ShapeBranch: X is a general-register number; YZ is a 16-bit signed tetra-offset.
	ShapeBranch
	// ShapeWyde: X is a general-register number; YZ is a 16-bit unsigned immediate.
	ShapeWyde
	// ShapeJump: XYZ is a 24-bit signed tetra-offset (no register operand).
	ShapeJump
	// ShapeGet: X is a destination general register; Z is a special-register index.
	ShapeGet
	// ShapePutReg: X is a special-register index; Z is a source general register.
	ShapePutReg
	// ShapePutImm: X is a special-register index; YZ is a 16-bit unsigned immediate.
	ShapePutImm
	// ShapeStco: X is an 8-bit unsigned immediate constant to store; Y, Z are general registers.
	ShapeStco
	// ShapePop: X is an 8-bit unsigned immediate; YZ is a 16-bit unsigned immediate.
	ShapePop
	// ShapeSave: X is a destination general register; Y and Z are unused (encoded zero).
	ShapeSave
	// ShapeUnsave: Z is a general register holding a context pointer; X is unused (encoded zero).
	ShapeUnsave
	// ShapeNullary: no meaningful operands (SWYM, RESUME, TRIP); all fields carry through verbatim.
	ShapeNullary
	// ShapeNegReg: NEG/NEGU's register form. X is the destination register;
	// Y is an 8-bit unsigned immediate (never a register, unlike every
	// other RRR/RRI family); Z is a general-register number. Same 4-byte
	// wire layout as ShapeRRI ([Op,X,Y,Z]) — only the field meaning differs.
	ShapeNegReg
	// ShapeNegImm: NEG/NEGU's fully-immediate form (NEGI). X is the
	// destination register; Y and Z are both 8-bit unsigned immediates.
	ShapeNegImm
)

// Entry describes one of the 256 possible opcode byte values.
type Entry struct {
	Op      byte
	Name    string
	Shape   Shape
	Pair    byte // the opcode of the paired reg/imm or fwd/bwd variant, when applicable
	HasPair bool
}

// Table is indexed by opcode byte; every slot is populated.
var Table [256]Entry

func def(op byte, name string, shape Shape) {
	Table[op] = Entry{Op: op, Name: name, Shape: shape}
}

// defPair registers two opcodes (reg form, imm form or forward/backward form)
// that share a mnemonic and cross-reference each other.
func defPair(regOp byte, immOp byte, name string, regShape, immShape Shape) {
	Table[regOp] = Entry{Op: regOp, Name: name, Shape: regShape, Pair: immOp, HasPair: true}
	Table[immOp] = Entry{Op: immOp, Name: name, Shape: immShape, Pair: regOp, HasPair: true}
}

func init() {
	// 0x00-0x17: floating point.
	def(0x00, "TRAP", ShapeRRI)
	def(0x01, "FCMP", ShapeRRR)
	def(0x02, "FUN", ShapeRRR)
	def(0x03, "FEQL", ShapeRRR)
	def(0x04, "FADD", ShapeRRR)
	def(0x05, "FIX", ShapeRRR)
	def(0x06, "FSUB", ShapeRRR)
	def(0x07, "FIXU", ShapeRRR)
	def(0x08, "FLOT", ShapeRRR)
	def(0x09, "FLOTI", ShapeRRI)
	def(0x0A, "FLOTU", ShapeRRR)
	def(0x0B, "FLOTUI", ShapeRRI)
	def(0x0C, "SFLOT", ShapeRRR)
	def(0x0D, "SFLOTI", ShapeRRI)
	def(0x0E, "SFLOTU", ShapeRRR)
	def(0x0F, "SFLOTUI", ShapeRRI)
	def(0x10, "FMUL", ShapeRRR)
	def(0x11, "FCMPE", ShapeRRR)
	def(0x12, "FUNE", ShapeRRR)
	def(0x13, "FEQLE", ShapeRRR)
	def(0x14, "FDIV", ShapeRRR)
	def(0x15, "FSQRT", ShapeRRR)
	def(0x16, "FREM", ShapeRRR)
	def(0x17, "FINT", ShapeRRR)

	// 0x18-0x1F: multiply/divide.
	defPair(0x18, 0x19, "MUL", ShapeRRR, ShapeRRI)
	defPair(0x1A, 0x1B, "MULU", ShapeRRR, ShapeRRI)
	defPair(0x1C, 0x1D, "DIV", ShapeRRR, ShapeRRI)
	defPair(0x1E, 0x1F, "DIVU", ShapeRRR, ShapeRRI)

	// 0x20-0x3F: add/sub/cmp/neg/shift.
	defPair(0x20, 0x21, "ADD", ShapeRRR, ShapeRRI)
	defPair(0x22, 0x23, "ADDU", ShapeRRR, ShapeRRI)
	defPair(0x24, 0x25, "SUB", ShapeRRR, ShapeRRI)
	defPair(0x26, 0x27, "SUBU", ShapeRRR, ShapeRRI)
	defPair(0x28, 0x29, "2ADDU", ShapeRRR, ShapeRRI)
	defPair(0x2A, 0x2B, "4ADDU", ShapeRRR, ShapeRRI)
	defPair(0x2C, 0x2D, "8ADDU", ShapeRRR, ShapeRRI)
	defPair(0x2E, 0x2F, "16ADDU", ShapeRRR, ShapeRRI)
	defPair(0x30, 0x31, "CMP", ShapeRRR, ShapeRRI)
	defPair(0x32, 0x33, "CMPU", ShapeRRR, ShapeRRI)
	// NEG/NEGU's Y field is always an immediate (unlike the ADD-style
	// families above, where Y is always a register); only Z varies
	// between the register and fully-immediate forms.
	defPair(0x34, 0x35, "NEG", ShapeNegReg, ShapeNegImm)
	defPair(0x36, 0x37, "NEGU", ShapeNegReg, ShapeNegImm)
	defPair(0x38, 0x39, "SL", ShapeRRR, ShapeRRI)
	defPair(0x3A, 0x3B, "SLU", ShapeRRR, ShapeRRI)
	defPair(0x3C, 0x3D, "SR", ShapeRRR, ShapeRRI)
	defPair(0x3E, 0x3F, "SRU", ShapeRRR, ShapeRRI)

	// 0x40-0x4F / 0x50-0x5F: branches and probable branches. The forward
	// (B..) and backward (B..B) spellings are distinct mnemonics the
	// programmer chooses explicitly in MMIXAL source; both compute YZ the
	// same way (a plain signed 16-bit tetra-offset), so they are registered
	// as independent, unpaired entries rather than a reg/imm-style pair.
	branchConds := []string{"N", "Z", "P", "OD", "NN", "NZ", "NP", "EV"}
	for i, cond := range branchConds {
		base := byte(0x40 + i*2)
		def(base, "B"+cond, ShapeBranch)
		def(base+1, "B"+cond+"B", ShapeBranch)
	}
	for i, cond := range branchConds {
		base := byte(0x50 + i*2)
		def(base, "PB"+cond, ShapeBranch)
		def(base+1, "PB"+cond+"B", ShapeBranch)
	}

	// 0x60-0x6F / 0x70-0x7F: conditional-set and zero-or-set.
	csConds := []string{"N", "Z", "P", "OD", "NN", "NZ", "NP", "EV"}
	for i, cond := range csConds {
		base := byte(0x60 + i*2)
		defPair(base, base+1, "CS"+cond, ShapeRRR, ShapeRRI)
	}
	for i, cond := range csConds {
		base := byte(0x70 + i*2)
		defPair(base, base+1, "ZS"+cond, ShapeRRR, ShapeRRI)
	}

	// 0x80-0x9F: loads.
	defPair(0x80, 0x81, "LDB", ShapeRRR, ShapeRRI)
	defPair(0x82, 0x83, "LDBU", ShapeRRR, ShapeRRI)
	defPair(0x84, 0x85, "LDW", ShapeRRR, ShapeRRI)
	defPair(0x86, 0x87, "LDWU", ShapeRRR, ShapeRRI)
	defPair(0x88, 0x89, "LDT", ShapeRRR, ShapeRRI)
	defPair(0x8A, 0x8B, "LDTU", ShapeRRR, ShapeRRI)
	defPair(0x8C, 0x8D, "LDO", ShapeRRR, ShapeRRI)
	defPair(0x8E, 0x8F, "LDOU", ShapeRRR, ShapeRRI)
	defPair(0x90, 0x91, "LDSF", ShapeRRR, ShapeRRI)
	defPair(0x92, 0x93, "LDHT", ShapeRRR, ShapeRRI)
	defPair(0x94, 0x95, "CSWAP", ShapeRRR, ShapeRRI)
	defPair(0x96, 0x97, "LDUNC", ShapeRRR, ShapeRRI)
	defPair(0x98, 0x99, "LDVTS", ShapeRRR, ShapeRRI)
	defPair(0x9A, 0x9B, "PRELD", ShapeRRI, ShapeRRI)
	defPair(0x9C, 0x9D, "PREGO", ShapeRRI, ShapeRRI)
	defPair(0x9E, 0x9F, "GO", ShapeRRR, ShapeRRI)

	// 0xA0-0xBF: stores.
	defPair(0xA0, 0xA1, "STB", ShapeRRR, ShapeRRI)
	defPair(0xA2, 0xA3, "STBU", ShapeRRR, ShapeRRI)
	defPair(0xA4, 0xA5, "STW", ShapeRRR, ShapeRRI)
	defPair(0xA6, 0xA7, "STWU", ShapeRRR, ShapeRRI)
	defPair(0xA8, 0xA9, "STT", ShapeRRR, ShapeRRI)
	defPair(0xAA, 0xAB, "STTU", ShapeRRR, ShapeRRI)
	defPair(0xAC, 0xAD, "STO", ShapeRRR, ShapeRRI)
	defPair(0xAE, 0xAF, "STOU", ShapeRRR, ShapeRRI)
	defPair(0xB0, 0xB1, "STSF", ShapeRRR, ShapeRRI)
	defPair(0xB2, 0xB3, "STHT", ShapeRRR, ShapeRRI)
	defPair(0xB4, 0xB5, "STCO", ShapeStco, ShapeStco)
	defPair(0xB6, 0xB7, "STUNC", ShapeRRR, ShapeRRI)
	defPair(0xB8, 0xB9, "SYNCD", ShapeRRI, ShapeRRI)
	defPair(0xBA, 0xBB, "PREST", ShapeRRI, ShapeRRI)
	defPair(0xBC, 0xBD, "SYNCID", ShapeRRI, ShapeRRI)
	defPair(0xBE, 0xBF, "PUSHGO", ShapeRRR, ShapeRRI)

	// 0xC0-0xCF: bitwise.
	defPair(0xC0, 0xC1, "OR", ShapeRRR, ShapeRRI)
	defPair(0xC2, 0xC3, "ORN", ShapeRRR, ShapeRRI)
	defPair(0xC4, 0xC5, "NOR", ShapeRRR, ShapeRRI)
	defPair(0xC6, 0xC7, "XOR", ShapeRRR, ShapeRRI)
	defPair(0xC8, 0xC9, "AND", ShapeRRR, ShapeRRI)
	defPair(0xCA, 0xCB, "ANDN", ShapeRRR, ShapeRRI)
	defPair(0xCC, 0xCD, "NAND", ShapeRRR, ShapeRRI)
	defPair(0xCE, 0xCF, "NXOR", ShapeRRR, ShapeRRI)

	// 0xD0-0xDF: bit-fiddle.
	defPair(0xD0, 0xD1, "BDIF", ShapeRRR, ShapeRRI)
	defPair(0xD2, 0xD3, "WDIF", ShapeRRR, ShapeRRI)
	defPair(0xD4, 0xD5, "TDIF", ShapeRRR, ShapeRRI)
	defPair(0xD6, 0xD7, "ODIF", ShapeRRR, ShapeRRI)
	defPair(0xD8, 0xD9, "MUX", ShapeRRR, ShapeRRI)
	defPair(0xDA, 0xDB, "SADD", ShapeRRR, ShapeRRI)
	defPair(0xDC, 0xDD, "MOR", ShapeRRR, ShapeRRI)
	defPair(0xDE, 0xDF, "MXOR", ShapeRRR, ShapeRRI)

	// 0xE0-0xEF: wyde-family SET/INC/OR/ANDN, one opcode per lane (no reg/imm pairing).
	lanes := []string{"H", "MH", "ML", "L"}
	families := []string{"SET", "INC", "OR", "ANDN"}
	for fi, fam := range families {
		for li, lane := range lanes {
			def(byte(0xE0+fi*4+li), fam+lane, ShapeWyde)
		}
	}

	// 0xF0-0xFF: control/system. JMP/JMPB, PUSHJ/PUSHJB and GETA/GETAB follow
	// the same independent-mnemonic convention as the branch band above.
	def(0xF0, "JMP", ShapeJump)
	def(0xF1, "JMPB", ShapeJump)
	def(0xF2, "PUSHJ", ShapeBranch)
	def(0xF3, "PUSHJB", ShapeBranch)
	def(0xF4, "GETA", ShapeBranch)
	def(0xF5, "GETAB", ShapeBranch)
	// PUT and PUTI are distinct mnemonics (not a shared reg/imm pair): PUTI
	// takes a 16-bit wyde immediate directly in YZ rather than a register Z.
	Table[0xF6] = Entry{Op: 0xF6, Name: "PUT", Shape: ShapePutReg, Pair: 0xF7, HasPair: true}
	Table[0xF7] = Entry{Op: 0xF7, Name: "PUTI", Shape: ShapePutImm, Pair: 0xF6, HasPair: true}
	def(0xF8, "POP", ShapePop)
	def(0xF9, "RESUME", ShapeNullary)
	def(0xFA, "SAVE", ShapeSave)
	def(0xFB, "UNSAVE", ShapeUnsave)
	def(0xFC, "SYNC", ShapeRRI)
	def(0xFD, "SWYM", ShapeNullary)
	def(0xFE, "GET", ShapeGet)
	def(0xFF, "TRIP", ShapeNullary)
}

// Lookup returns the Entry for the given mnemonic and operand shape hint,
// choosing between a register-form and immediate-form pair when one exists.
// zImmediate indicates whether the caller's Z (or equivalent) operand is an
// immediate constant rather than a register.
func Lookup(mnemonic string, zImmediate bool) (Entry, bool) {
	for _, e := range Table {
		if e.Name != mnemonic {
			continue
		}
		if !e.HasPair {
			return e, true
		}
		// The lower-numbered opcode of a pair is always the register form
		// (STCO's pair shares one shape and either member resolves the same way).
		if e.Shape == ShapeStco {
			return e, true
		}
		isImmShape := e.Shape == ShapeRRI || e.Shape == ShapePutImm || e.Shape == ShapeNegImm
		if isImmShape == zImmediate {
			return e, true
		}
	}
	return Entry{}, false
}

// ByOpcode returns the table entry for a raw opcode byte (always present).
func ByOpcode(op byte) Entry {
	return Table[op]
}
