package vm

import (
	"strings"

	"github.com/jac18281828/checksmix/isa"
)

// wydeLaneShift returns the bit offset of a mnemonic's lane suffix.
func wydeLaneShift(lane string) uint {
	switch lane {
	case "H":
		return 48
	case "MH":
		return 32
	case "ML":
		return 16
	default: // "L"
		return 0
	}
}

var wydeFamilies = []string{"SET", "INC", "OR", "ANDN"}

// splitWydeName separates a wyde-family mnemonic into its family prefix
// and lane suffix, e.g. "ANDNMH" -> ("ANDN", "MH").
func splitWydeName(name string) (family, lane string) {
	for _, fam := range wydeFamilies {
		if strings.HasPrefix(name, fam) {
			suffix := name[len(fam):]
			if family == "" || len(fam) > len(family) {
				family, lane = fam, suffix
			}
		}
	}
	return family, lane
}

// execWyde implements the SET/INC/OR/ANDN wyde-lane families. SET always
// clears its own 16-bit lane before setting it; INC/OR/ANDN combine with
// the register's existing value (scenario 8 / Open Question #1).
func (v *VM) execWyde(in isa.Instruction) {
	x := in.X
	family, lane := splitWydeName(in.Name())
	shift := wydeLaneShift(lane)
	imm := uint64(in.YZ) << shift
	laneMask := uint64(0xFFFF) << shift
	cur := v.GetReg(x)

	var result uint64
	switch family {
	case "SET":
		result = (cur &^ laneMask) | imm
	case "INC":
		result = cur + imm
	case "OR":
		result = cur | imm
	default: // ANDN
		result = cur &^ imm
	}
	v.SetReg(x, result)
}
