package mmixdbg

import (
	"fmt"
	"io"
	"os"

	"github.com/beevik/term"
)

// RunRaw puts stdin into raw mode and single-steps the VM one instruction
// per keypress (space or 'q' to quit), writing status to w after each
// step. It mirrors the teacher's own key-at-a-time stepping idiom, built
// on the same github.com/beevik/term package rather than the teacher's
// line-buffered bufio.Scanner loop.
func (h *Host) RunRaw(w io.Writer) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("mmixdbg: stdin is not a terminal")
	}

	oldState, err := term.MakeRawInput(fd)
	if err != nil {
		return fmt.Errorf("mmixdbg: enter raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	buf := make([]byte, 1)
	for {
		fmt.Fprintf(w, "PC=#%016X [space=step, q=quit]\r\n", h.machine.PC)
		if h.machine.Halted {
			fmt.Fprintf(w, "halted, code=%d\r\n", h.machine.HaltCode)
			return nil
		}
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return err
		}
		switch buf[0] {
		case 'q', 'Q', 3: // ctrl-C
			return nil
		default:
			h.machine.Step()
		}
	}
}
