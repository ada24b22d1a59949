// Package asm implements the two-pass MMIXAL assembler: pass 1 sizes
// instructions and binds labels/symbols without resolving values, pass 2
// re-walks the source resolving every expression against the frozen
// symbol table and emits instruction bytes.
package asm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jac18281828/checksmix/enc"
	"github.com/jac18281828/checksmix/isa"
	"github.com/jac18281828/checksmix/mmo"
)

// Result is the output of a successful assembly: the emitted code and data
// segments, the frozen symbol table, the GREG initializer list, and the
// selected entry point.
type Result struct {
	Segments   []mmo.Segment
	Labels     map[string]uint64
	Symbols    map[string]uint64
	GregInits  []GregInit
	EntryPoint uint64
}

type sizedStmt struct {
	stmt Statement
	addr uint64
	size int
}

// Assemble reads MMIXAL source from r, runs the debug-pseudo preprocessor
// and the two-pass assembly algorithm, and returns the result. On any
// diagnostic the assembly is aborted and a non-empty error list is
// returned instead. When log is non-nil and verbose is true, pass
// boundaries and emitted bytes are traced to log (mirroring the teacher
// assembler's verbose trace hooks).
func Assemble(r io.Reader, filename string, verbose bool, log io.Writer) (*Result, []*Error) {
	var rawLines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rawLines = append(rawLines, scanner.Text())
	}

	lines := preprocessDebug(rawLines)
	logf(log, verbose, "preprocessed %d source lines into %d lines", len(rawLines), len(lines))

	var stmts []Statement
	var errs []*Error
	for i, line := range lines {
		stmt, err := parseLine(filename, i+1, line)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if stmt != nil {
			stmts = append(stmts, *stmt)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	st := NewSymbolTable()
	sized, perr := pass1(stmts, st)
	errs = append(errs, perr...)
	if len(errs) > 0 {
		return nil, errs
	}
	logf(log, verbose, "pass 1 complete: %d statements sized, %d labels, %d symbols", len(sized), len(st.Labels), len(st.Symbols))

	segments, eerr := pass2(sized, st, log, verbose)
	errs = append(errs, eerr...)
	if len(errs) > 0 {
		return nil, errs
	}

	var instrAddrs []uint64
	for _, s := range sized {
		if isInstructionLike(s.stmt.Mnemonic) {
			instrAddrs = append(instrAddrs, s.addr)
		}
	}
	entry := mmo.EntryPoint(st.Labels, instrAddrs, st.Symbols["Data_Segment"])

	return &Result{
		Segments:   segments,
		Labels:     st.Labels,
		Symbols:    st.Symbols,
		GregInits:  st.GregInits(),
		EntryPoint: entry,
	}, nil
}

func logf(w io.Writer, verbose bool, format string, args ...any) {
	if w == nil || !verbose {
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func isDirective(m string) bool {
	switch m {
	case "LOC", "IS", "GREG", "BYTE", "WYDE", "TETRA", "OCTA":
		return true
	}
	return false
}

func isInstructionLike(m string) bool {
	if m == "" || isDirective(m) {
		return false
	}
	return true
}

// pass1 sizes every statement and binds labels/symbols, without resolving
// operand values beyond what is already known (IS and GREG bind
// immediately; everything else is deferred to pass 2).
func pass1(stmts []Statement, st *SymbolTable) ([]sizedStmt, []*Error) {
	var out []sizedStmt
	var errs []*Error
	var addr uint64

	for _, s := range stmts {
		if s.Label != "" && s.Mnemonic != "GREG" {
			if err := st.BindLabel(s.Label, addr); err != nil {
				errs = append(errs, newError(s.File, s.Line, s.Col, "%v", err))
			}
		}

		size, err := sizeStatement(s, st, addr)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		switch s.Mnemonic {
		case "LOC":
			v, rerr := evalExpr(s.Operands[0], st, addr)
			if rerr == nil {
				addr = v
			}
			continue
		case "IS":
			v, rerr := evalExpr(s.Operands[0], st, addr)
			if rerr != nil {
				errs = append(errs, newError(s.File, s.Line, s.Col, "%v", rerr))
				continue
			}
			if s.Label != "" {
				st.BindSymbol(s.Label, v)
			}
			continue
		case "GREG":
			v, rerr := evalExpr(firstOr(s.Operands, "0"), st, addr)
			if rerr != nil {
				errs = append(errs, newError(s.File, s.Line, s.Col, "%v", rerr))
				continue
			}
			reg, gerr := st.AllocGreg(v)
			if gerr != nil {
				errs = append(errs, newErrorKind(s.File, s.Line, s.Col, "greg-exhausted", "%v", gerr))
				continue
			}
			if s.Label != "" {
				st.BindSymbol(s.Label, uint64(reg))
			}
			continue
		}

		out = append(out, sizedStmt{stmt: s, addr: addr, size: size})
		addr += uint64(size)
	}
	return out, errs
}

func firstOr(ops []string, def string) string {
	if len(ops) == 0 {
		return def
	}
	return ops[0]
}

// sizeStatement computes the byte size of a statement's pass-1 effect,
// using only the symbol information available at this point in pass 1.
func sizeStatement(s Statement, st *SymbolTable, addr uint64) (int, *Error) {
	switch s.Mnemonic {
	case "", "LOC", "IS", "GREG":
		return 0, nil
	case "BYTE":
		return sizeByteData(s.Operands), nil
	case "WYDE":
		return 2 * len(s.Operands), nil
	case "TETRA":
		return 4 * len(s.Operands), nil
	case "OCTA":
		return 8 * len(s.Operands), nil
	case "HALT":
		return 4, nil
	case "SET":
		if len(s.Operands) == 2 && isRegisterToken(s.Operands[1]) {
			return 4, nil
		}
		return 16, nil
	case "LDA":
		if len(s.Operands) == 2 {
			if v, err := evalExpr(s.Operands[1], st, addr); err == nil && v <= 0xFF {
				return 4, nil
			}
		}
		return 16, nil
	default:
		if _, ok := isa.Lookup(s.Mnemonic, false); !ok {
			if _, ok2 := isa.Lookup(s.Mnemonic, true); !ok2 {
				return 0, newError(s.File, s.Line, s.Col, "unknown mnemonic %q", s.Mnemonic)
			}
		}
		return 4, nil
	}
}

func sizeByteData(operands []string) int {
	size := 0
	for i, op := range operands {
		if text, ok := parseStringLiteral(op); ok {
			size += len(text)
			if i == len(operands)-1 {
				size++ // implicit terminating zero, suppressed if last operand is numeric
			}
		} else {
			size++
		}
	}
	return size
}

// pass2 resets the current address implicitly (sizedStmt already carries
// the pass-1 address, which by invariant #8 in the spec must match what a
// fresh walk would compute) and resolves every operand expression against
// the frozen symbol table, emitting (address, bytes) segments.
func pass2(sized []sizedStmt, st *SymbolTable, log io.Writer, verbose bool) ([]mmo.Segment, []*Error) {
	var segs []mmo.Segment
	var errs []*Error

	for _, ss := range sized {
		s := ss.stmt
		bytes, err := emitStatement(s, st, ss.addr)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if s.Mnemonic == "LDA" && ss.size == 16 && len(bytes) == 4 {
			// Pass 1 sized a forward reference at the conservative 16 bytes;
			// keep that size by emitting the SET form of the same address.
			bytes = enc.EncodeSet(bytes[1], uint64(bytes[3]))
		}
		if len(bytes) == 0 {
			continue
		}
		if len(bytes) != ss.size {
			errs = append(errs, newError(s.File, s.Line, s.Col,
				"pass 1/pass 2 size mismatch for %q: pass1=%d pass2=%d", s.Mnemonic, ss.size, len(bytes)))
			continue
		}
		logf(log, verbose, "%04X: %-8s % X", ss.addr, s.Mnemonic, bytes)
		segs = appendCoalesced(segs, ss.addr, bytes)
	}
	return segs, errs
}

// appendCoalesced extends the last segment in place when the new bytes
// start exactly where it ends, otherwise it starts a new segment. This
// turns the assembler's one-statement-at-a-time emission into the
// contiguous (address, bytes) runs that mmo.Encode and its callers expect.
func appendCoalesced(segs []mmo.Segment, addr uint64, bytes []byte) []mmo.Segment {
	if n := len(segs); n > 0 {
		last := &segs[n-1]
		if last.Addr+uint64(len(last.Bytes)) == addr {
			last.Bytes = append(last.Bytes, bytes...)
			return segs
		}
	}
	return append(segs, mmo.Segment{Addr: addr, Bytes: bytes})
}

func emitStatement(s Statement, st *SymbolTable, addr uint64) ([]byte, *Error) {
	switch s.Mnemonic {
	case "":
		return nil, nil
	case "BYTE":
		return emitByteData(s, st, addr)
	case "WYDE":
		return emitFixedWidthData(s, st, addr, 2)
	case "TETRA":
		return emitFixedWidthData(s, st, addr, 4)
	case "OCTA":
		return emitFixedWidthData(s, st, addr, 8)
	case "HALT":
		b := enc.Encode(isa.Instruction{Op: 0x00, X: 0, Y: 0, Z: 0})
		return b[:], nil
	case "SET":
		return emitSet(s, st, addr)
	case "LDA":
		return emitLda(s, st, addr)
	default:
		return emitRealInstruction(s, st, addr)
	}
}

func emitByteData(s Statement, st *SymbolTable, addr uint64) ([]byte, *Error) {
	var out []byte
	for i, op := range s.Operands {
		if text, ok := parseStringLiteral(op); ok {
			out = append(out, []byte(text)...)
			if i == len(s.Operands)-1 {
				out = append(out, 0)
			}
			continue
		}
		v, err := evalExpr(op, st, addr)
		if err != nil {
			return nil, newError(s.File, s.Line, s.Col, "%v", err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func emitFixedWidthData(s Statement, st *SymbolTable, addr uint64, width int) ([]byte, *Error) {
	var out []byte
	for _, op := range s.Operands {
		v, err := evalExpr(op, st, addr)
		if err != nil {
			return nil, newError(s.File, s.Line, s.Col, "%v", err)
		}
		buf := make([]byte, width)
		for i := 0; i < width; i++ {
			buf[width-1-i] = byte(v >> (8 * i))
		}
		out = append(out, buf...)
	}
	return out, nil
}

func emitSet(s Statement, st *SymbolTable, addr uint64) ([]byte, *Error) {
	if len(s.Operands) != 2 {
		return nil, newError(s.File, s.Line, s.Col, "SET requires two operands")
	}
	x, err := evalRegister(s.Operands[0], st)
	if err != nil {
		return nil, newError(s.File, s.Line, s.Col, "%v", err)
	}
	if isRegisterToken(s.Operands[1]) {
		y, rerr := evalRegister(s.Operands[1], st)
		if rerr != nil {
			return nil, newError(s.File, s.Line, s.Col, "%v", rerr)
		}
		b := enc.Encode(isa.Instruction{Op: 0xC1, X: x, Y: y, Imm: 0}) // OR $X,$Y,0
		return b[:], nil
	}
	v, verr := evalExpr(s.Operands[1], st, addr)
	if verr != nil {
		return nil, newError(s.File, s.Line, s.Col, "%v", verr)
	}
	return enc.EncodeSet(x, v), nil
}

func emitLda(s Statement, st *SymbolTable, addr uint64) ([]byte, *Error) {
	if len(s.Operands) != 2 {
		return nil, newError(s.File, s.Line, s.Col, "LDA requires two operands")
	}
	x, err := evalRegister(s.Operands[0], st)
	if err != nil {
		return nil, newError(s.File, s.Line, s.Col, "%v", err)
	}
	v, verr := evalExpr(s.Operands[1], st, addr)
	if verr != nil {
		return nil, newError(s.File, s.Line, s.Col, "%v", verr)
	}
	if v <= 0xFF {
		b := enc.Encode(isa.Instruction{Op: 0x23, X: x, Y: 0, Imm: byte(v)}) // ADDU $X,$0,v
		return b[:], nil
	}
	return enc.EncodeSet(x, v), nil
}

// emitRealInstruction resolves and encodes every non-pseudo mnemonic
// (arithmetic, branch, load/store, wyde-family, system, ...) against its
// isa.Shape.
func emitRealInstruction(s Statement, st *SymbolTable, addr uint64) ([]byte, *Error) {
	ops := s.Operands
	zImmediate := len(ops) >= 1 && !isRegisterToken(ops[len(ops)-1]) && ops[len(ops)-1] != "" && !isRegisterLike(ops[len(ops)-1], st)

	entry, ok := isa.Lookup(s.Mnemonic, zImmediate)
	if !ok {
		return nil, newError(s.File, s.Line, s.Col, "unknown mnemonic %q", s.Mnemonic)
	}

	var in isa.Instruction
	in.Op = entry.Op

	// TRAP's three fields are raw byte codes (trip/device/operation), not
	// general-register numbers, even though it shares ShapeRRI's byte
	// layout with ordinary register-immediate arithmetic.
	if s.Mnemonic == "TRAP" {
		x, y, imm, err := trapOperands(s, st, addr)
		if err != nil {
			return nil, err
		}
		in.X, in.Y, in.Imm = x, y, imm
		b := enc.Encode(in)
		return b[:], nil
	}

	switch entry.Shape {
	case isa.ShapeRRR:
		x, y, z, err := regRegReg(s, st)
		if err != nil {
			return nil, err
		}
		in.X, in.Y, in.Z = x, y, z
	case isa.ShapeRRI:
		x, y, imm, err := regRegImm(s, st, addr)
		if err != nil {
			return nil, err
		}
		in.X, in.Y, in.Imm = x, y, imm
	case isa.ShapeNegReg:
		x, y, z, err := negOperands(s, st, addr, true)
		if err != nil {
			return nil, err
		}
		in.X, in.Y, in.Imm = x, y, z
	case isa.ShapeNegImm:
		x, y, z, err := negOperands(s, st, addr, false)
		if err != nil {
			return nil, err
		}
		in.X, in.Y, in.Imm = x, y, z
	case isa.ShapeWyde:
		x, yz, err := regWyde(s, st, addr)
		if err != nil {
			return nil, err
		}
		in.X, in.YZ = x, yz
	case isa.ShapeBranch:
		x, yz, err := branchOperands(s, st, addr)
		if err != nil {
			return nil, err
		}
		in.X, in.YZ = x, yz
	case isa.ShapeJump:
		xyz, err := jumpOperand(s, st, addr)
		if err != nil {
			return nil, err
		}
		in.XYZ = xyz
	case isa.ShapeGet:
		x, z, err := getOperands(s, st)
		if err != nil {
			return nil, err
		}
		in.X, in.Z = x, z
	case isa.ShapePutReg:
		x, z, err := putRegOperands(s, st)
		if err != nil {
			return nil, err
		}
		in.X, in.Z = x, z
	case isa.ShapePutImm:
		x, yz, err := putImmOperands(s, st, addr)
		if err != nil {
			return nil, err
		}
		in.X, in.YZ = x, yz
	case isa.ShapeStco:
		imm, y, z, err := stcoOperands(s, st, addr)
		if err != nil {
			return nil, err
		}
		in.Imm, in.Y, in.Z = imm, y, z
	case isa.ShapePop:
		x, yz, err := popOperands(s, st, addr)
		if err != nil {
			return nil, err
		}
		in.X, in.YZ = x, yz
	case isa.ShapeSave:
		x, err := saveOperand(s, st)
		if err != nil {
			return nil, err
		}
		in.X = x
	case isa.ShapeUnsave:
		z, err := unsaveOperand(s, st)
		if err != nil {
			return nil, err
		}
		in.Z = z
	case isa.ShapeNullary:
		// no operands to resolve
	}

	b := enc.Encode(in)
	return b[:], nil
}

func isRegisterLike(op string, st *SymbolTable) bool {
	if isRegisterToken(op) {
		return true
	}
	if v, ok := st.Symbols[op]; ok && v <= 255 {
		return true
	}
	return false
}

func trapOperands(s Statement, st *SymbolTable, addr uint64) (x, y, imm byte, err *Error) {
	if len(s.Operands) != 3 {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "TRAP requires three operands")
	}
	vx, xerr := evalExpr(s.Operands[0], st, addr)
	if xerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", xerr)
	}
	vy, yerr := evalExpr(s.Operands[1], st, addr)
	if yerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", yerr)
	}
	vz, zerr := evalExpr(s.Operands[2], st, addr)
	if zerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", zerr)
	}
	return byte(vx), byte(vy), byte(vz), nil
}

// negOperands parses NEG/NEGU's "$X,Y,Z-or-$Z" operand list, where Y is
// always an 8-bit immediate and the third operand is a register when
// wantReg is true, or an 8-bit immediate otherwise.
func negOperands(s Statement, st *SymbolTable, addr uint64, wantReg bool) (x, y, z byte, err *Error) {
	if len(s.Operands) != 3 {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%s requires three operands", s.Mnemonic)
	}
	rx, rerr := evalRegister(s.Operands[0], st)
	if rerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	vy, yerr := evalExpr(s.Operands[1], st, addr)
	if yerr != nil || vy > 0xFF {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "invalid NEG immediate %q", s.Operands[1])
	}
	if wantReg {
		rz, zerr := evalRegister(s.Operands[2], st)
		if zerr != nil {
			return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", zerr)
		}
		return rx, byte(vy), rz, nil
	}
	vz, zerr := evalExpr(s.Operands[2], st, addr)
	if zerr != nil || vz > 0xFF {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "invalid NEG immediate %q", s.Operands[2])
	}
	return rx, byte(vy), byte(vz), nil
}

func regRegReg(s Statement, st *SymbolTable) (x, y, z byte, err *Error) {
	if len(s.Operands) != 3 {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%s requires three register operands", s.Mnemonic)
	}
	var rerr error
	if x, rerr = evalRegister(s.Operands[0], st); rerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	if y, rerr = evalRegister(s.Operands[1], st); rerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	if z, rerr = evalRegister(s.Operands[2], st); rerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	return x, y, z, nil
}

func regRegImm(s Statement, st *SymbolTable, addr uint64) (x, y, imm byte, err *Error) {
	if len(s.Operands) != 3 {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%s requires three operands", s.Mnemonic)
	}
	var rerr error
	if x, rerr = evalRegister(s.Operands[0], st); rerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	if y, rerr = evalRegister(s.Operands[1], st); rerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	v, verr := evalExpr(s.Operands[2], st, addr)
	if verr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", verr)
	}
	if v > 0xFF {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "immediate operand out of range: %d", v)
	}
	return x, y, byte(v), nil
}

func regWyde(s Statement, st *SymbolTable, addr uint64) (x byte, yz uint16, err *Error) {
	if len(s.Operands) != 2 {
		return 0, 0, newError(s.File, s.Line, s.Col, "%s requires two operands", s.Mnemonic)
	}
	rx, rerr := evalRegister(s.Operands[0], st)
	if rerr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	v, verr := evalExpr(s.Operands[1], st, addr)
	if verr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", verr)
	}
	return rx, uint16(v), nil
}

func branchOperands(s Statement, st *SymbolTable, addr uint64) (x byte, yz uint16, err *Error) {
	if len(s.Operands) != 2 {
		return 0, 0, newError(s.File, s.Line, s.Col, "%s requires two operands", s.Mnemonic)
	}
	rx, rerr := evalRegister(s.Operands[0], st)
	if rerr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	target, terr := evalExpr(s.Operands[1], st, addr)
	if terr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", terr)
	}
	offset := (int64(target) - int64(addr)) / 4
	if offset < -32768 || offset > 32767 {
		return 0, 0, newError(s.File, s.Line, s.Col, "branch target out of range")
	}
	return rx, uint16(int16(offset)), nil
}

func jumpOperand(s Statement, st *SymbolTable, addr uint64) (int32, *Error) {
	if len(s.Operands) != 1 {
		return 0, newError(s.File, s.Line, s.Col, "JMP requires one operand")
	}
	target, terr := evalExpr(s.Operands[0], st, addr)
	if terr != nil {
		return 0, newError(s.File, s.Line, s.Col, "%v", terr)
	}
	offset := (int64(target) - int64(addr)) / 4
	return int32(offset) & 0x00FFFFFF, nil
}

func getOperands(s Statement, st *SymbolTable) (x, z byte, err *Error) {
	if len(s.Operands) != 2 {
		return 0, 0, newError(s.File, s.Line, s.Col, "GET requires two operands")
	}
	rx, rerr := evalRegister(s.Operands[0], st)
	if rerr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	idx, ierr := specialRegisterIndex(s.Operands[1])
	if ierr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", ierr)
	}
	return rx, idx, nil
}

func putRegOperands(s Statement, st *SymbolTable) (x, z byte, err *Error) {
	if len(s.Operands) != 2 {
		return 0, 0, newError(s.File, s.Line, s.Col, "PUT requires two operands")
	}
	idx, ierr := specialRegisterIndex(s.Operands[0])
	if ierr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", ierr)
	}
	rz, rerr := evalRegister(s.Operands[1], st)
	if rerr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	return idx, rz, nil
}

func putImmOperands(s Statement, st *SymbolTable, addr uint64) (x byte, yz uint16, err *Error) {
	if len(s.Operands) != 2 {
		return 0, 0, newError(s.File, s.Line, s.Col, "PUTI requires two operands")
	}
	idx, ierr := specialRegisterIndex(s.Operands[0])
	if ierr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", ierr)
	}
	v, verr := evalExpr(s.Operands[1], st, addr)
	if verr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", verr)
	}
	return idx, uint16(v), nil
}

func stcoOperands(s Statement, st *SymbolTable, addr uint64) (imm, y, z byte, err *Error) {
	if len(s.Operands) != 3 {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "STCO requires three operands")
	}
	v, verr := evalExpr(s.Operands[0], st, addr)
	if verr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", verr)
	}
	ry, rerr := evalRegister(s.Operands[1], st)
	if rerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", rerr)
	}
	rz, zerr := evalRegister(s.Operands[2], st)
	if zerr != nil {
		return 0, 0, 0, newError(s.File, s.Line, s.Col, "%v", zerr)
	}
	return byte(v), ry, rz, nil
}

func popOperands(s Statement, st *SymbolTable, addr uint64) (x byte, yz uint16, err *Error) {
	if len(s.Operands) != 2 {
		return 0, 0, newError(s.File, s.Line, s.Col, "POP requires two operands")
	}
	v, verr := evalExpr(s.Operands[0], st, addr)
	if verr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", verr)
	}
	yzv, yerr := evalExpr(s.Operands[1], st, addr)
	if yerr != nil {
		return 0, 0, newError(s.File, s.Line, s.Col, "%v", yerr)
	}
	return byte(v), uint16(yzv), nil
}

func saveOperand(s Statement, st *SymbolTable) (byte, *Error) {
	if len(s.Operands) != 2 {
		return 0, newError(s.File, s.Line, s.Col, "SAVE requires two operands")
	}
	x, err := evalRegister(s.Operands[0], st)
	if err != nil {
		return 0, newError(s.File, s.Line, s.Col, "%v", err)
	}
	return x, nil
}

func unsaveOperand(s Statement, st *SymbolTable) (byte, *Error) {
	if len(s.Operands) != 2 {
		return 0, newError(s.File, s.Line, s.Col, "UNSAVE requires two operands")
	}
	z, err := evalRegister(s.Operands[1], st)
	if err != nil {
		return 0, newError(s.File, s.Line, s.Col, "%v", err)
	}
	return z, nil
}

func specialRegisterIndex(op string) (byte, error) {
	if idx, ok := isa.SpecialByName(op); ok {
		return byte(idx), nil
	}
	if v, ok := parseNumber(op); ok && v < 32 {
		return byte(v), nil
	}
	return 0, fmt.Errorf("not a special register: %q", op)
}
