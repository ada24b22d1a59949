package vm

import (
	"io"

	"github.com/jac18281828/checksmix/isa"
)

// saveRegionBase anchors the monotonic high-memory region SAVE hands out
// context blocks from; each nested SAVE gets the next block up.
const saveRegionBase = 0x7000000000000000
const saveRegionSize = (256 + 32) * 8

// execSystem implements TRAP, the no-op system acknowledgments, SAVE/
// UNSAVE, GET/PUT/PUTI and POP.
func (v *VM) execSystem(in isa.Instruction, ownAddr uint64) {
	switch in.Name() {
	case "TRAP":
		v.execTrap(in)
	case "SWYM", "SYNC", "RESUME":
		// acknowledged, no observable effect
	case "SAVE":
		v.execSave(in)
	case "UNSAVE":
		v.execUnsave(in)
	case "GET":
		v.SetReg(in.X, v.Special[in.Z])
	case "PUT":
		v.Special[in.X] = v.GetReg(in.Z)
	case "PUTI":
		v.Special[in.X] = uint64(in.YZ)
	case "POP":
		v.PC = v.Special[isa.RJ]
	case "TRIP":
		v.Halted = true
	}
}

// execTrap dispatches TRAP 0, code, arg: Halt stops the VM, Fputs writes
// the null-terminated string at $0 to stdout/stderr depending on arg, and
// every other code is simply acknowledged (spec: unhandled codes continue).
func (v *VM) execTrap(in isa.Instruction) {
	code := in.Y
	arg := in.Imm
	switch code {
	case isa.TrapHalt:
		v.Halted = true
		v.HaltCode = uint64(arg)
	case isa.TrapFputs:
		v.fputs(arg)
	}
}

func (v *VM) fputs(arg byte) {
	var w io.Writer
	if arg == isa.StdErr {
		w = v.Stderr
	} else {
		w = v.Stdout
	}
	if w == nil {
		return
	}
	addr := v.GetReg(0)
	buf := make([]byte, 0, 64)
	for i := 0; i < maxTrapBytes; i++ {
		b := v.Mem.ReadByte(addr + uint64(i))
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	w.Write(buf)
}

// execSave writes the full register file (256 generals, 32 specials) to a
// fresh high-memory context block and returns its base address in $X.
func (v *VM) execSave(in isa.Instruction) {
	depth := v.atomicNextSaveDepth()
	base := uint64(saveRegionBase) + (depth-1)*saveRegionSize
	for i := 0; i < 256; i++ {
		v.Mem.WriteOcta(base+uint64(i)*8, v.Reg[i])
	}
	for i := 0; i < 32; i++ {
		v.Mem.WriteOcta(base+uint64(256+i)*8, v.Special[i])
	}
	v.SetReg(in.X, base)
}

// execUnsave restores the register file from the context block named by
// $Z, but preserves the caller's current rJ across the restore so its
// return path is never clobbered.
func (v *VM) execUnsave(in isa.Instruction) {
	base := v.GetReg(in.Z)
	savedRJ := v.Special[isa.RJ]
	for i := 0; i < 256; i++ {
		v.Reg[i] = v.Mem.ReadOcta(base + uint64(i)*8)
	}
	for i := 0; i < 32; i++ {
		v.Special[i] = v.Mem.ReadOcta(base + uint64(256+i)*8)
	}
	v.Special[isa.RJ] = savedRJ
}
