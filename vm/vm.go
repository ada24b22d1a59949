// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vm implements the MMIX virtual machine: 256 general registers,
// 32 special registers, big-endian sparse memory, and a fetch-decode-
// execute loop over the full isa.Table dispatch. The VM never fails a
// step; every opcode has a defined effect (spec §7).
package vm

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/jac18281828/checksmix/enc"
	"github.com/jac18281828/checksmix/isa"
)

// maxSteps bounds Run so a runaway program (missing HALT) cannot loop
// forever inside a single call.
const maxSteps = 10000

// maxTrapBytes bounds a single Fputs trap's write, mirroring the
// teacher's CPU loop's own defensive bounds on unbounded host operations.
const maxTrapBytes = 10000

// VM is one MMIX machine: registers, special registers, memory and a
// program counter.
type VM struct {
	PC      uint64
	Reg     [256]uint64
	Special [32]uint64
	Mem     *Memory

	Stdout io.Writer
	Stderr io.Writer

	Halted   bool
	HaltCode uint64

	saveDepth uint64 // atomic: number of SAVEs executed (UNSAVE does not decrement it)
	savedPC   []uint64
}

// New returns a freshly reset VM: all registers zero, general register
// 255 permanently wired to zero, empty memory.
func New(mem *Memory) *VM {
	if mem == nil {
		mem = NewMemory()
	}
	return &VM{Mem: mem}
}

// GetReg reads a general register; $255 always reads as 0.
func (v *VM) GetReg(n byte) uint64 {
	if n == 255 {
		return 0
	}
	return v.Reg[n]
}

// SetReg writes a general register; writes to $255 are discarded.
func (v *VM) SetReg(n byte, val uint64) {
	if n == 255 {
		return
	}
	v.Reg[n] = val
}

// Step executes exactly one instruction, advancing PC (to PC+4 by
// default, or to whatever a branch/jump/GO/PUSHJ/POP override computed).
func (v *VM) Step() {
	if v.Halted {
		return
	}
	tetra := [4]byte{
		v.Mem.ReadByte(v.PC),
		v.Mem.ReadByte(v.PC + 1),
		v.Mem.ReadByte(v.PC + 2),
		v.Mem.ReadByte(v.PC + 3),
	}
	in := enc.Decode(tetra)
	ownAddr := v.PC
	v.PC += 4
	v.dispatch(in, ownAddr)
}

// Run steps the VM until it halts or maxSteps is reached, returning an
// error only in the latter case (a runaway program, not an opcode
// failure — the VM itself never fails a step).
func (v *VM) Run() error {
	for i := 0; i < maxSteps; i++ {
		if v.Halted {
			return nil
		}
		v.Step()
	}
	if v.Halted {
		return nil
	}
	return fmt.Errorf("vm: exceeded %d instructions without halting", maxSteps)
}

func (v *VM) dispatch(in isa.Instruction, ownAddr uint64) {
	switch in.Name() {
	// arithmetic / compare / negate / shift
	case "ADD", "ADDU", "SUB", "SUBU", "2ADDU", "4ADDU", "8ADDU", "16ADDU",
		"MUL", "MULU", "DIV", "DIVU", "CMP", "CMPU", "NEG", "NEGU",
		"SL", "SLU", "SR", "SRU":
		v.execArith(in)

	// bitwise
	case "OR", "ORN", "NOR", "XOR", "AND", "ANDN", "NAND", "NXOR":
		v.execBitwise(in)

	// bit-fiddle
	case "BDIF", "WDIF", "TDIF", "ODIF", "MUX", "SADD", "MOR", "MXOR":
		v.execBitfiddle(in)

	// wyde-family SET/INC/OR/ANDN lanes
	case "SETH", "SETMH", "SETML", "SETL",
		"INCH", "INCMH", "INCML", "INCL",
		"ORH", "ORMH", "ORML", "ORL",
		"ANDNH", "ANDNMH", "ANDNML", "ANDNL":
		v.execWyde(in)

	// loads/stores
	case "LDB", "LDBU", "LDW", "LDWU", "LDT", "LDTU", "LDO", "LDOU",
		"STB", "STBU", "STW", "STWU", "STT", "STTU", "STO", "STOU",
		"LDSF", "STSF", "LDHT", "STHT", "STCO",
		"LDUNC", "STUNC", "CSWAP",
		"PRELD", "PREGO", "PREST", "SYNCD", "SYNCID", "LDVTS":
		v.execLoadStore(in)

	// floating point
	case "FADD", "FSUB", "FMUL", "FDIV", "FSQRT", "FREM",
		"FCMP", "FCMPE", "FUN", "FUNE", "FEQL", "FEQLE",
		"FIX", "FIXU", "FLOT", "FLOTI", "FLOTU", "FLOTUI",
		"SFLOT", "SFLOTI", "SFLOTU", "SFLOTUI", "FINT":
		v.execFloat(in)

	// control flow
	case "JMP", "JMPB":
		v.execJump(in, ownAddr)
	case "PUSHJ", "PUSHJB", "GETA", "GETAB":
		v.execBranchLink(in, ownAddr)
	case "GO", "PUSHGO":
		v.execGo(in)

	default:
		if isBranchMnemonic(in.Name()) {
			v.execBranch(in, ownAddr)
			return
		}
		if isCondSetMnemonic(in.Name()) {
			v.execCondSet(in)
			return
		}
		v.execSystem(in, ownAddr)
	}
}

// atomicNextSaveDepth returns the next SAVE sequence number, monotonic per
// VM instance.
func (v *VM) atomicNextSaveDepth() uint64 {
	return atomic.AddUint64(&v.saveDepth, 1)
}
