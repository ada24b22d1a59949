package mmixdbg

import (
	"strconv"
	"strings"

	"github.com/beevik/cmd"

	"github.com/jac18281828/checksmix/isa"
)

// parseAddr accepts a decimal literal, a "0x"-prefixed literal, or MMIXAL's
// own "#"-prefixed hex literal, matching the address forms already legal in
// assembler source.
func parseAddr(s string) (uint64, error) {
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return strconv.ParseUint(hex, 16, 64)
	}
	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		return strconv.ParseUint(hex, 16, 64)
	}
	return strconv.ParseUint(s, 0, 64)
}

func (h *Host) CmdHelp(c cmd.Selection) error {
	tree := c.Command.Tree
	h.Printf("%s commands:\n", tree.Title)
	for _, sub := range tree.Commands {
		if sub.Description != "" {
			h.Printf("    %-10s %s\n", sub.Name, sub.Description)
		}
	}
	return nil
}

// CmdStep executes exactly one instruction and reports the new PC.
func (h *Host) CmdStep(c cmd.Selection) error {
	if h.machine.Halted {
		h.Println("machine is halted")
		return nil
	}
	h.machine.Step()
	h.reportStop()
	return nil
}

// CmdRun executes until halt or a breakpoint address is reached.
func (h *Host) CmdRun(c cmd.Selection) error {
	for !h.machine.Halted {
		h.machine.Step()
		if h.breakpoints[h.machine.PC] {
			h.Printf("breakpoint hit at #%X\n", h.machine.PC)
			return nil
		}
	}
	h.reportStop()
	return nil
}

func (h *Host) reportStop() {
	if h.machine.Halted {
		h.Printf("halted, code=%d, PC=#%X\n", h.machine.HaltCode, h.machine.PC)
		return
	}
	h.Printf("PC=#%X\n", h.machine.PC)
}

// CmdBreak sets a breakpoint at the given address.
func (h *Host) CmdBreak(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.Println("syntax: break <addr>")
		return nil
	}
	addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.Printf("bad address %q: %v\n", c.Args[0], err)
		return nil
	}
	h.breakpoints[addr] = true
	h.Printf("breakpoint set at #%X\n", addr)
	return nil
}

// CmdReg displays every general register with a nonzero value and every
// special register, or a single register named in c.Args[0] (a general
// register as "$N" or an abbreviated special register name resolved via
// the prefix tree).
func (h *Host) CmdReg(c cmd.Selection) error {
	if len(c.Args) > 0 {
		return h.displayOneRegister(c.Args[0])
	}
	for i := 0; i < 256; i++ {
		if v := h.machine.GetReg(byte(i)); v != 0 {
			h.Printf("$%-3d #%016X\n", i, v)
		}
	}
	for i, name := range isa.SpecialNames {
		h.Printf("%-4s #%016X\n", name, h.machine.Special[i])
	}
	return nil
}

func (h *Host) displayOneRegister(arg string) error {
	if strings.HasPrefix(arg, "$") {
		n, err := strconv.ParseUint(arg[1:], 10, 8)
		if err != nil {
			h.Printf("bad register %q: %v\n", arg, err)
			return nil
		}
		h.Printf("$%d #%016X\n", n, h.machine.GetReg(byte(n)))
		return nil
	}
	name, idx, ok := lookupSpecial(arg)
	if !ok {
		h.Printf("unknown register %q\n", arg)
		return nil
	}
	h.Printf("%s #%016X\n", name, h.machine.Special[idx])
	return nil
}

// CmdMem dumps len (default 64) bytes of memory starting at addr.
func (h *Host) CmdMem(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.Println("syntax: mem <addr> [len]")
		return nil
	}
	addr, err := parseAddr(c.Args[0])
	if err != nil {
		h.Printf("bad address %q: %v\n", c.Args[0], err)
		return nil
	}
	n := 64
	if len(c.Args) > 1 {
		v, err := strconv.Atoi(c.Args[1])
		if err != nil {
			h.Printf("bad length %q: %v\n", c.Args[1], err)
			return nil
		}
		n = v
	}
	data := h.machine.Mem.ReadBytes(addr, n)
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		h.Printf("#%016X  % X\n", addr+uint64(i), data[i:end])
	}
	return nil
}

// CmdReset reassembles nothing; it simply reloads the already-assembled
// segments into a fresh VM, clearing all register and memory state.
func (h *Host) CmdReset(c cmd.Selection) error {
	h.load()
	h.Println("reset")
	return nil
}

func (h *Host) CmdQuit(c cmd.Selection) error {
	return errQuit
}
