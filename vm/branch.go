package vm

import (
	"strings"

	"github.com/jac18281828/checksmix/isa"
)

var branchConds = map[string]bool{
	"N": true, "Z": true, "P": true, "OD": true,
	"NN": true, "NZ": true, "NP": true, "EV": true,
}

// branchCondition splits a branch or conditional-set mnemonic into its
// prefix ("B", "PB", "CS", "ZS") and condition code, reporting whether the
// name is recognized at all. The trailing "B" backward-branch spelling
// (e.g. BNZB) shares the exact same condition as its forward form; it
// exists only as an MMIXAL hint, not a distinct runtime behavior.
func branchCondition(name string, prefixes ...string) (cond string, ok bool) {
	for _, p := range prefixes {
		if !strings.HasPrefix(name, p) {
			continue
		}
		rest := name[len(p):]
		if branchConds[rest] {
			return rest, true
		}
		if strings.HasSuffix(rest, "B") && branchConds[rest[:len(rest)-1]] {
			return rest[:len(rest)-1], true
		}
	}
	return "", false
}

func isBranchMnemonic(name string) bool {
	_, ok := branchCondition(name, "PB", "B")
	return ok
}

func isCondSetMnemonic(name string) bool {
	_, ok := branchCondition(name, "CS", "ZS")
	return ok
}

func condTest(cond string, val uint64) bool {
	switch cond {
	case "N":
		return int64(val) < 0
	case "Z":
		return val == 0
	case "P":
		return int64(val) > 0
	case "OD":
		return val&1 == 1
	case "NN":
		return int64(val) >= 0
	case "NZ":
		return val != 0
	case "NP":
		return int64(val) <= 0
	case "EV":
		return val&1 == 0
	}
	return false
}

// execBranch implements the B<cond>/B<cond>B/PB<cond>/PB<cond>B family:
// branch relative to this instruction's own address (not PC+4) when the
// register named by X satisfies cond.
func (v *VM) execBranch(in isa.Instruction, ownAddr uint64) {
	cond, _ := branchCondition(in.Name(), "PB", "B")
	if !condTest(cond, v.GetReg(in.X)) {
		return
	}
	offset := int64(int16(in.YZ)) * 4
	v.PC = uint64(int64(ownAddr) + offset)
}

// execCondSet implements CS<cond>/ZS<cond>: the predicate tests $X itself;
// when it holds, $X <- $Y+Z, otherwise CS leaves $X <- $Y and ZS clears
// $X to 0.
func (v *VM) execCondSet(in isa.Instruction) {
	cond, _ := branchCondition(in.Name(), "CS", "ZS")
	x := v.GetReg(in.X)
	if condTest(cond, x) {
		v.SetReg(in.X, v.operandY(in)+v.operandZ(in))
		return
	}
	if strings.HasPrefix(in.Name(), "ZS") {
		v.SetReg(in.X, 0)
	} else {
		v.SetReg(in.X, v.operandY(in))
	}
}

// execJump implements unconditional JMP/JMPB: PC <- this instruction's own
// address plus a 24-bit signed tetra offset.
func (v *VM) execJump(in isa.Instruction, ownAddr uint64) {
	offset := int64(in.XYZ) * 4
	v.PC = uint64(int64(ownAddr) + offset)
}

// execBranchLink implements PUSHJ/PUSHJB (call: save the return address in
// rJ, then jump) and GETA/GETAB (compute a relative address into $X
// without jumping).
func (v *VM) execBranchLink(in isa.Instruction, ownAddr uint64) {
	offset := int64(int16(in.YZ)) * 4
	target := uint64(int64(ownAddr) + offset)
	switch in.Name() {
	case "PUSHJ", "PUSHJB":
		v.Special[isa.RJ] = v.PC
		v.PC = target
	case "GETA", "GETAB":
		v.SetReg(in.X, target)
	}
}

// execGo implements GO/PUSHGO: $X <- the return address (PC already
// advanced past this instruction), PC <- $Y+$Z or $Y+Z. The register-stack
// "push" aspect of PUSHGO is a no-op under the simplified register model
// (matching SAVE/UNSAVE's own simplification).
func (v *VM) execGo(in isa.Instruction) {
	y := v.operandY(in)
	z := v.operandZ(in)
	ret := v.PC
	v.SetReg(in.X, ret)
	v.PC = y + z
}
