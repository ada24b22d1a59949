package vm

import (
	"math"

	"github.com/jac18281828/checksmix/isa"
)

// execFloat implements the IEEE-754 double family. Registers holding
// floating values are just uint64 register storage reinterpreted via
// math.Float64bits/Float64frombits; there is no separate float register
// file.
func (v *VM) execFloat(in isa.Instruction) {
	x := in.X

	switch in.Name() {
	case "FADD", "FSUB", "FMUL", "FDIV", "FREM":
		y := v.regFloat(in.Y)
		z := v.regFloat(in.Z)
		v.setRegFloat(x, floatArith(in.Name(), y, z))
		return
	case "FSQRT":
		z := v.regFloat(in.Z)
		v.setRegFloat(x, math.Sqrt(z))
		return
	case "FCMP":
		y, z := v.regFloat(in.Y), v.regFloat(in.Z)
		v.SetReg(x, uint64(v.fcmp(y, z)))
		return
	case "FCMPE":
		y, z := v.regFloat(in.Y), v.regFloat(in.Z)
		v.SetReg(x, uint64(v.fcmpe(y, z)))
		return
	case "FUN":
		y, z := v.regFloat(in.Y), v.regFloat(in.Z)
		v.setBool(x, math.IsNaN(y) || math.IsNaN(z))
		return
	case "FUNE":
		y, z := v.regFloat(in.Y), v.regFloat(in.Z)
		v.setBool(x, math.IsNaN(y) || math.IsNaN(z) || v.withinEpsilon(y, z))
		return
	case "FEQL":
		y, z := v.regFloat(in.Y), v.regFloat(in.Z)
		v.setBool(x, y == z)
		return
	case "FEQLE":
		y, z := v.regFloat(in.Y), v.regFloat(in.Z)
		v.setBool(x, v.withinEpsilon(y, z))
		return
	case "FIX":
		v.SetReg(x, uint64(int64(v.regFloat(in.Z))))
		return
	case "FIXU":
		f := v.regFloat(in.Z)
		if f < 0 {
			f = 0
		}
		v.SetReg(x, uint64(f))
		return
	case "FLOT", "FLOTI":
		v.setRegFloat(x, float64(int64(v.operandZ(in))))
		return
	case "FLOTU", "FLOTUI":
		v.setRegFloat(x, float64(v.operandZ(in)))
		return
	case "SFLOT", "SFLOTI":
		v.setRegFloat(x, float64(float32(int64(v.operandZ(in)))))
		return
	case "SFLOTU", "SFLOTUI":
		v.setRegFloat(x, float64(float32(v.operandZ(in))))
		return
	case "FINT":
		v.execFint(x, in.Z)
		return
	}
}

func (v *VM) regFloat(n byte) float64 {
	return math.Float64frombits(v.GetReg(n))
}

func (v *VM) setRegFloat(n byte, f float64) {
	v.SetReg(n, math.Float64bits(f))
}

func floatArith(name string, y, z float64) float64 {
	switch name {
	case "FADD":
		return y + z
	case "FSUB":
		return y - z
	case "FMUL":
		return y * z
	case "FDIV":
		return y / z
	case "FREM":
		return math.Remainder(y, z)
	}
	return 0
}

func (v *VM) setBool(x byte, cond bool) {
	if cond {
		v.SetReg(x, 1)
	} else {
		v.SetReg(x, 0)
	}
}

// fcmp implements the plain FCMP ordering: -1/0/1 for less/equal/greater,
// or 2 when either operand is NaN ("unordered").
func (v *VM) fcmp(y, z float64) int64 {
	switch {
	case math.IsNaN(y) || math.IsNaN(z):
		return 2
	case y < z:
		return -1
	case y > z:
		return 1
	default:
		return 0
	}
}

// epsilon reads rE, reinterpreted as a double, the tolerance the FCMPE/
// FEQLE/FUNE family compares |y-z| against.
func (v *VM) epsilon() float64 {
	return math.Float64frombits(v.Special[isa.RE])
}

func (v *VM) withinEpsilon(y, z float64) bool {
	return math.Abs(y-z) <= v.epsilon()
}

// fcmpe implements FCMPE: 0 when y and z are within rE of each other,
// otherwise the ordinary -1/1 ordering (no unordered result: unlike FCMP,
// FCMPE never reports 2).
func (v *VM) fcmpe(y, z float64) int64 {
	if v.withinEpsilon(y, z) {
		return 0
	}
	if y < z {
		return -1
	}
	return 1
}

// execFint rounds $Z to the nearest integer-valued double, honoring rA's
// low 2 bits as a simplified MMIX rounding-mode selector (0=nearest,
// 1=floor, 2=ceiling, 3=truncate).
func (v *VM) execFint(x, z byte) {
	f := v.regFloat(z)
	mode := v.Special[isa.RA] & 0x3
	var result float64
	switch mode {
	case 1:
		result = math.Floor(f)
	case 2:
		result = math.Ceil(f)
	case 3:
		result = math.Trunc(f)
	default:
		result = math.RoundToEven(f)
	}
	v.setRegFloat(x, result)
}
