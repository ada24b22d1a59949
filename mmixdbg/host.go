// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmixdbg implements an interactive command-tree REPL over a
// running MMIX virtual machine: step, breakpoints, register and memory
// inspection. It mirrors the teacher's host/debugger/term subsystem,
// generalized from a 6502 CPU to the MMIX machine in this module.
package mmixdbg

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/cmd"

	"github.com/jac18281828/checksmix/asm"
	"github.com/jac18281828/checksmix/internal/tracelog"
	"github.com/jac18281828/checksmix/vm"
)

// cmds is the REPL's command tree. Param stores a (*Host) method value,
// dispatched by type assertion in RunCommands, the same pattern the
// teacher's debugger uses for its own host callbacks.
var cmds = cmd.NewTree("mmixdbg", []cmd.Command{
	{Name: "help", Shortcut: "?", Param: (*Host).CmdHelp},
	{Name: "step", Shortcut: "s", Description: "Execute one instruction", Param: (*Host).CmdStep},
	{Name: "run", Shortcut: "r", Description: "Run until halt or breakpoint", Param: (*Host).CmdRun},
	{Name: "break", Shortcut: "b", Description: "Set a breakpoint at an address", Param: (*Host).CmdBreak},
	{Name: "reg", Description: "Display register contents", Param: (*Host).CmdReg},
	{Name: "mem", Description: "Dump memory starting at an address", Param: (*Host).CmdMem},
	{Name: "reset", Description: "Reset the VM to its initial state", Param: (*Host).CmdReset},
	{Name: "quit", Shortcut: "q", Description: "Quit the debugger", Param: (*Host).CmdQuit},
})

// Host owns the REPL's I/O and the VM state it inspects.
type Host struct {
	interactive bool
	input       *bufio.Scanner
	output      *bufio.Writer
	log         *tracelog.Logger

	machine *vm.VM
	res     *asm.Result

	breakpoints map[uint64]bool
	lastCmd     *cmd.Selection
}

// NewHost builds a Host around source that has already been assembled,
// loading its segments into a fresh VM with entry set to res.EntryPoint.
func NewHost(res *asm.Result, log *tracelog.Logger) *Host {
	if log == nil {
		log = tracelog.New(tracelog.Off, nil)
	}
	h := &Host{
		log:         log,
		res:         res,
		breakpoints: make(map[uint64]bool),
	}
	h.load()
	return h
}

func (h *Host) load() {
	mem := vm.NewMemory()
	for _, seg := range h.res.Segments {
		mem.LoadSegment(seg.Addr, seg.Bytes)
	}
	h.machine = vm.New(mem)
	h.machine.PC = h.res.EntryPoint
}

// VM returns the host's underlying virtual machine, e.g. so a caller can
// wire up Stdout/Stderr before starting the REPL.
func (h *Host) VM() *vm.VM {
	return h.machine
}

func (h *Host) Printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.output.Flush()
}

func (h *Host) Println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.output.Flush()
}

func (h *Host) prompt() {
	if h.interactive {
		h.Printf("mmixdbg> ")
	}
}

// RunCommands reads command lines from r and writes REPL output to w,
// looping until r is exhausted or a handler returns an error (e.g. quit).
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	for {
		h.prompt()

		if !h.input.Scan() {
			break
		}
		line := h.input.Text()

		var c cmd.Selection
		var err error
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.Println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.Println("Command is ambiguous.")
				continue
			case err != nil:
				h.Printf("error: %v\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Param.(func(*Host, cmd.Selection) error)
		h.log.Tracef("mmixdbg: dispatching %s", c.Command.Name)
		if err := handler(h, c); err != nil {
			if err == errQuit {
				return
			}
			h.Printf("error: %v\n", err)
		}
	}
}

var errQuit = errors.New("quit")
